package device

import (
	"context"
	"sync"
	"time"

	"github.com/flowmesh/netsim/actor"
	"github.com/flowmesh/netsim/sink"
	"github.com/flowmesh/netsim/stp"
	"github.com/flowmesh/netsim/transport"
	"github.com/flowmesh/netsim/wire"
)

// stpTickInterval is the logical round length for periodic BPDU emission.
// spec.md §4.2 explicitly leaves the timer model open ("logical ticks
// suffice"); the value only needs to be short enough that a handful of
// rounds converge well before any reasonable test timeout.
const stpTickInterval = 5 * time.Millisecond

// Switch runs the Spanning Tree Protocol for one layer-2 bridge and floods
// Ethernet/ARP frames between its non-blocked ports (spec.md §4.2).
type Switch struct {
	core *actor.Core

	Name string
	id   uint32

	ports    map[transport.PortID]*transport.Port
	received map[transport.PortID]*stp.BPDU
	roles    map[transport.PortID]stp.Role

	convergence stp.Convergence
	activity    *transport.Activity
	sink        *sink.Sink

	wg sync.WaitGroup
}

// NewSwitch builds a switch with no ports yet; attach them with AddPort
// before calling Start.
func NewSwitch(name string, id uint32, activity *transport.Activity, evt *sink.Sink) *Switch {
	return &Switch{
		core:     actor.NewCore(name, 64),
		Name:     name,
		id:       id,
		ports:    make(map[transport.PortID]*transport.Port),
		received: make(map[transport.PortID]*stp.BPDU),
		roles:    make(map[transport.PortID]stp.Role),
		activity: activity,
		sink:     evt,
	}
}

// AddPort attaches a transport port to the switch.
func (s *Switch) AddPort(port *transport.Port) {
	s.ports[port.ID] = port
	s.roles[port.ID] = stp.RoleDesignated // provisional, until the first round runs
}

// Start spawns the switch's dispatch loop, one pump goroutine per port, and
// kicks off the periodic STP round.
func (s *Switch) Start(ctx context.Context) {
	s.wg.Add(1 + len(s.ports))
	go func() {
		defer s.wg.Done()
		s.core.Run(ctx)
	}()
	for _, port := range s.ports {
		port := port
		go func() {
			defer s.wg.Done()
			s.pump(ctx, port)
		}()
	}
	s.activity.IncPending()
	s.core.Dispatch(s.tick)
}

// Wait blocks until every goroutine Start spawned has returned.
func (s *Switch) Wait() { s.wg.Wait() }

// Roles returns a snapshot of every port's current STP role, for
// diagnostics, rendering and tests.
func (s *Switch) Roles() map[transport.PortID]stp.Role {
	out := make(map[transport.PortID]stp.Role)
	s.core.DispatchWait(func() {
		for id, role := range s.roles {
			out[id] = role
		}
	})
	return out
}

func (s *Switch) pump(ctx context.Context, port *transport.Port) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-port.Recv():
			if !ok {
				return
			}
			s.core.Dispatch(func() {
				s.activity.DecInFlight()
				s.handleFrame(port, frame)
			})
		}
	}
}

func (s *Switch) portInputs() []stp.PortInput {
	inputs := make([]stp.PortInput, 0, len(s.ports))
	for id, port := range s.ports {
		inputs = append(inputs, stp.PortInput{ID: int(id), Cost: port.Cost, Received: s.received[id]})
	}
	return inputs
}

// tick runs one STP round: recompute roles, flood the switch's own BPDUs,
// and reschedule itself unless the topology has been stable for two
// consecutive rounds (spec.md §4.2). The task holds one unit of
// Activity.Pending for its entire life so a live round can never be
// mistaken for quiescence.
func (s *Switch) tick() {
	decisions := stp.Compute(s.id, s.portInputs())
	for _, d := range decisions {
		s.roles[transport.PortID(d.ID)] = d.Role
	}
	s.floodBPDUs(decisions)

	if s.convergence.Observe(decisions) {
		s.activity.DecPending()
		return
	}
	time.AfterFunc(stpTickInterval, func() {
		s.core.Dispatch(s.tick)
	})
}

func (s *Switch) floodBPDUs(decisions []stp.PortDecision) {
	for _, d := range decisions {
		port, ok := s.ports[transport.PortID(d.ID)]
		if !ok {
			continue
		}
		port.Send(s.activity, wire.BPDU{
			RootID:     d.Advertise.RootID,
			RootCost:   d.Advertise.RootCost,
			SenderID:   d.Advertise.SenderID,
			SenderPort: d.Advertise.SenderPort,
		})
	}
}

func (s *Switch) handleFrame(port *transport.Port, frame wire.Frame) {
	if bpdu, ok := frame.(wire.BPDU); ok {
		s.received[port.ID] = &stp.BPDU{
			RootID:     bpdu.RootID,
			RootCost:   bpdu.RootCost,
			SenderID:   bpdu.SenderID,
			SenderPort: bpdu.SenderPort,
		}
		return
	}
	s.floodFrame(port, frame)
}

func (s *Switch) floodFrame(inPort *transport.Port, frame wire.Frame) {
	if s.roles[inPort.ID] == stp.RoleBlocking {
		s.sink.Log(sink.SPT, s.Name, "dropped frame on blocking port", "port", inPort.ID)
		return
	}
	for id, port := range s.ports {
		if id == inPort.ID || s.roles[id] == stp.RoleBlocking {
			continue
		}
		port.Send(s.activity, frame)
	}
}
