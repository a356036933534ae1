// Package simcontrol drives one simulation run to completion: it builds the
// actor graph a topology.Topology describes, starts every device, lets STP
// and BGP settle, then replays the topology's action list one action at a
// time, waiting for quiescence after each (spec.md §4.6).
package simcontrol

import (
	"context"
	"fmt"
	"net/netip"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/flowmesh/netsim/bgp"
	"github.com/flowmesh/netsim/device"
	"github.com/flowmesh/netsim/sink"
	"github.com/flowmesh/netsim/topology"
	"github.com/flowmesh/netsim/transport"
)

// DefaultSettleDelay is the sampling interval WaitQuiescence polls at
// between an action and the next. A still-converging switch is never
// mistaken as idle whatever this value is, since each switch holds one
// unit of Activity.Pending until its STP rounds stop.
const DefaultSettleDelay = 2 * time.Millisecond

// PingResult records the outcome of one replayed ping action.
type PingResult struct {
	From      string
	Target    netip.Addr
	Attempted bool
	Succeeded bool
}

// Controller owns every device actor in one run plus the shared Activity
// counters the quiescence detector reads.
type Controller struct {
	topo     *topology.Topology
	activity *transport.Activity
	sink     *sink.Sink

	routers     map[string]*device.Router
	switches    map[string]*device.Switch
	routersByAS map[uint32][]*device.Router
	adjacency   map[string][]edge

	settleDelay time.Duration
	cancel      context.CancelFunc

	pingResults []PingResult
	snapshots   []device.Snapshot
}

// edge is one endpoint's view of a physical link: the peer device's name
// and the local port id this side of the link was assigned.
type edge struct {
	peer string
	port transport.PortID
}

// New builds every device and wires every link and session a validated
// topology describes. It does not start any actor; call Run for that.
func New(topo *topology.Topology, evt *sink.Sink) (*Controller, error) {
	c := &Controller{
		topo:        topo,
		activity:    transport.NewActivity(),
		sink:        evt,
		routers:     make(map[string]*device.Router),
		switches:    make(map[string]*device.Switch),
		routersByAS: make(map[uint32][]*device.Router),
		adjacency:   make(map[string][]edge),
		settleDelay: DefaultSettleDelay,
	}

	for _, rc := range topo.Routers {
		r := device.NewRouter(rc.Name, rc.ID, rc.AS, c.activity, evt)
		c.routers[rc.Name] = r
		c.routersByAS[rc.AS] = append(c.routersByAS[rc.AS], r)
	}
	for _, sc := range topo.Switches {
		c.switches[sc.Name] = device.NewSwitch(sc.Name, uint32(sc.ID), c.activity, evt)
	}

	if err := c.wireLinks(); err != nil {
		return nil, err
	}
	c.computeL2Neighbors()
	if err := c.wireSessions(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Controller) wireSessions() error {
	router := func(name string) (*device.Router, error) {
		r, ok := c.routers[name]
		if !ok {
			return nil, fmt.Errorf("simcontrol: session references unknown router %q", name)
		}
		return r, nil
	}

	for i, s := range c.topo.Sessions {
		a, err := router(s.Provider)
		if err != nil {
			return fmt.Errorf("session[%d]: %w", i, err)
		}
		b, err := router(s.Customer)
		if err != nil {
			return fmt.Errorf("session[%d]: %w", i, err)
		}

		switch s.Kind {
		case topology.ProviderCustomer:
			b.AddSession(a.Name, bgp.Provider, a.Loopback(), a.AS())
			a.AddSession(b.Name, bgp.Customer, b.Loopback(), b.AS())
		case topology.Peer:
			a.AddSession(b.Name, bgp.PeerRel, b.Loopback(), b.AS())
			b.AddSession(a.Name, bgp.PeerRel, a.Loopback(), a.AS())
		case topology.IBGP:
			a.AddSession(b.Name, bgp.IBGPRel, b.Loopback(), b.AS())
			b.AddSession(a.Name, bgp.IBGPRel, a.Loopback(), a.AS())
		default:
			return fmt.Errorf("session[%d]: unknown session kind %v", i, s.Kind)
		}
	}
	return nil
}

// Run starts every device, waits for the topology to settle, then replays
// the configured action list. It returns once every action has run and the
// simulation is idle again, or ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	for _, r := range c.routers {
		r.Start(runCtx)
	}
	for _, s := range c.switches {
		s.Start(runCtx)
	}
	for _, r := range c.routers {
		r.StartSessions()
	}

	if !transport.WaitQuiescence(runCtx, c.activity, c.settleDelay) {
		return runCtx.Err()
	}

	if err := c.runActions(runCtx); err != nil {
		return err
	}

	c.snapshots = c.captureSnapshots()
	return nil
}

func (c *Controller) captureSnapshots() []device.Snapshot {
	out := make([]device.Snapshot, 0, len(c.routers))
	for _, r := range c.routers {
		out = append(out, r.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (c *Controller) runActions(ctx context.Context) error {
	for _, entry := range c.topo.Actions.AnnouncePrefix {
		c.announce(entry)
		if !transport.WaitQuiescence(ctx, c.activity, c.settleDelay) {
			return ctx.Err()
		}
	}
	for _, entry := range c.topo.Actions.Ping {
		if err := c.ping(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) announce(entry topology.AnnounceEntry) {
	if entry.Router != "" {
		if r, ok := c.routers[entry.Router]; ok {
			r.Originate()
		}
		return
	}
	for _, r := range c.routersByAS[entry.AS] {
		r.Originate()
	}
}

func (c *Controller) ping(ctx context.Context, entry topology.PingEntry) error {
	r, ok := c.routers[entry.From]
	if !ok {
		return nil
	}
	result := PingResult{From: entry.From, Target: entry.Target}
	result.Attempted = r.Ping(entry.Target)
	if result.Attempted {
		if !transport.WaitQuiescence(ctx, c.activity, c.settleDelay) {
			return ctx.Err()
		}
		result.Succeeded = r.PingSucceeded(entry.Target)
	}
	c.pingResults = append(c.pingResults, result)
	return nil
}

// PingResults returns every ping action's outcome, in the order the
// topology's action list declared them.
func (c *Controller) PingResults() []PingResult { return c.pingResults }

// Shutdown cancels every device's context and blocks until their goroutines
// have all returned, joining them concurrently rather than one at a time.
func (c *Controller) Shutdown() {
	if c.cancel != nil {
		c.cancel()
	}
	var g errgroup.Group
	for _, r := range c.routers {
		r := r
		g.Go(func() error {
			r.Wait()
			r.Close()
			return nil
		})
	}
	for _, s := range c.switches {
		s := s
		g.Go(func() error {
			s.Wait()
			return nil
		})
	}
	_ = g.Wait()
}

// Snapshots returns every router's RIB and BGP table as captured at the
// end of Run, sorted by name. Calling it before Run completes returns nil.
func (c *Controller) Snapshots() []device.Snapshot { return c.snapshots }

// Router looks up a router by name, for callers (render, tests) that need
// direct access beyond a Snapshot.
func (c *Controller) Router(name string) (*device.Router, bool) {
	r, ok := c.routers[name]
	return r, ok
}

// Switches returns every switch actor by name, for STP-role rendering.
func (c *Controller) Switches() map[string]*device.Switch { return c.switches }

// Topology returns the topology this controller was built from.
func (c *Controller) Topology() *topology.Topology { return c.topo }
