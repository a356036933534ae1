// Package device implements the two device kinds spec.md §2 names: Router
// (the full control plane: ARP, IP forwarding, BGP, RIB) and Switch (STP
// plus flat Ethernet flooding). Both embed actor.Core so all device-local
// state is only ever touched from their own dispatch loop.
package device

import (
	"context"
	"net/netip"
	"sync"

	"github.com/flowmesh/netsim/actor"
	"github.com/flowmesh/netsim/arp"
	"github.com/flowmesh/netsim/bgp"
	"github.com/flowmesh/netsim/rib"
	"github.com/flowmesh/netsim/sink"
	"github.com/flowmesh/netsim/transport"
	"github.com/flowmesh/netsim/wire"
)

// L2Neighbor is another router directly reachable from one of this
// router's ports without crossing a third router — i.e. within the same
// broadcast domain per spec.md §4.3. simcontrol computes these from the
// topology graph and installs them before starting the actor.
type L2Neighbor struct {
	RouterName string
	Loopback   netip.Addr
}

// Router runs one router's control plane: interface state, ARP resolver,
// IP forwarder, BGP speaker and RIB (spec.md §4.3).
type Router struct {
	core *actor.Core

	Name      string
	id        int
	as        uint32
	loopback  netip.Addr
	ownPrefix netip.Prefix

	ports   map[transport.PortID]*transport.Port
	portMAC map[transport.PortID]wire.MAC

	rib      *rib.Table
	bgpTable *bgp.Table
	sessions map[string]*bgp.Session   // peer router name -> session
	byRemote map[netip.Addr]string     // remote loopback -> peer router name
	pending  map[netip.Addr]*pingState // ping target -> outstanding state

	activity *transport.Activity
	arp      *arp.Resolver
	sink     *sink.Sink

	wg sync.WaitGroup
}

type pingState struct {
	replied bool
}

// NewRouter builds a router with no ports or sessions yet; callers attach
// both with AddPort/AddSession before calling Start.
func NewRouter(name string, id int, as uint32, activity *transport.Activity, evt *sink.Sink) *Router {
	loopback := netip.AddrFrom4([4]byte{10, 0, byte(as), byte(id)})
	return &Router{
		core:      actor.NewCore(name, 64),
		Name:      name,
		id:        id,
		as:        as,
		loopback:  loopback,
		ownPrefix: netip.PrefixFrom(netip.AddrFrom4([4]byte{10, 0, byte(as), 0}), 24),
		ports:     make(map[transport.PortID]*transport.Port),
		portMAC:   make(map[transport.PortID]wire.MAC),
		rib:       rib.New(),
		bgpTable:  bgp.NewTable(),
		sessions:  make(map[string]*bgp.Session),
		byRemote:  make(map[netip.Addr]string),
		pending:   make(map[netip.Addr]*pingState),
		activity:  activity,
		arp:       arp.NewResolver(activity),
		sink:      evt,
	}
}

// AS reports the router's autonomous system number.
func (r *Router) AS() uint32 { return r.as }

// Loopback reports the router's own interface address.
func (r *Router) Loopback() netip.Addr { return r.loopback }

// OwnPrefix reports the /24 the router's AS owns.
func (r *Router) OwnPrefix() netip.Prefix { return r.ownPrefix }

// AddPort attaches a transport port to the router and assigns the port its
// MAC. It installs no route: the connected route for the router's own AS
// prefix is installed unconditionally in Start, since invariant 1 of
// spec.md §3 does not require a port to exist.
func (r *Router) AddPort(port *transport.Port) {
	r.ports[port.ID] = port
	r.portMAC[port.ID] = wire.MAC(uint32(r.id)<<16 | uint32(port.ID))
}

// AddNeighbor installs a connected route for a directly (L2-adjacent)
// reachable router's loopback, as computed by simcontrol from the topology
// graph (spec.md §4.3's broadcast domain).
func (r *Router) AddNeighbor(port transport.PortID, neighbor L2Neighbor) {
	r.rib.Install(rib.Route{
		Prefix:  netip.PrefixFrom(neighbor.Loopback, 32),
		NextHop: neighbor.Loopback,
		Port:    port,
		Source:  rib.Connected,
	})
}

// AddSession registers a configured BGP session to peerName with relationship rel.
func (r *Router) AddSession(peerName string, rel bgp.RelKind, remoteID netip.Addr, remoteAS uint32) {
	r.sessions[peerName] = &bgp.Session{
		PeerName:   peerName,
		Rel:        rel,
		LocalID:    r.loopback,
		RemoteID:   remoteID,
		LocalAS:    r.as,
		RemoteAS:   remoteAS,
		State:      bgp.Idle,
		Advertised: make(map[netip.Prefix]bool),
	}
	r.byRemote[remoteID] = peerName
}

// Start installs the router's own connected route and spawns its dispatch
// loop plus one pump goroutine per port. It returns once every goroutine
// has been launched (they run until ctx is cancelled).
func (r *Router) Start(ctx context.Context) {
	r.rib.Install(rib.Route{
		Prefix:  r.ownPrefix,
		NextHop: r.loopback,
		Port:    rib.LoopbackPort,
		Source:  rib.Connected,
	})
	r.wg.Add(1 + len(r.ports))
	go func() {
		defer r.wg.Done()
		r.core.Run(ctx)
	}()
	for _, port := range r.ports {
		port := port
		go func() {
			defer r.wg.Done()
			r.pump(ctx, port)
		}()
	}
}

// Wait blocks until every goroutine Start spawned has returned, which
// happens once the ctx passed to Start is cancelled. simcontrol uses this
// to join a whole topology's actors before reporting a run finished.
func (r *Router) Wait() { r.wg.Wait() }

// Close releases resources Start and the router's own construction opened
// that ctx cancellation does not: the ARP resolver's cache janitor
// goroutine. Call after Wait returns.
func (r *Router) Close() { r.arp.Close() }

func (r *Router) pump(ctx context.Context, port *transport.Port) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-port.Recv():
			if !ok {
				return
			}
			r.core.Dispatch(func() {
				r.activity.DecInFlight()
				r.handleFrame(port, frame)
			})
		}
	}
}

// StartSessions triggers the active-open half of every configured session's
// FSM (spec.md §4.4: the end with the numerically smaller BGP id opens).
func (r *Router) StartSessions() {
	r.core.DispatchWait(func() {
		for _, s := range r.sessions {
			if s.State == bgp.Idle && s.ActiveOpener() {
				r.sendOpen(s)
				s.State = bgp.OpenSent
			}
		}
	})
}

// Originate makes the router announce its own AS prefix, per spec.md §4.4.
func (r *Router) Originate() {
	r.core.DispatchWait(func() {
		route := bgp.Originate(r.ownPrefix, r.as, r.loopback)
		prev, hadPrev, next, hasNext := r.bgpTable.Store("__local__", route)
		r.reconcileBest(r.ownPrefix, prev, hadPrev, next, hasNext)
	})
}

// Ping sends an ICMP-style echo from this router to target and reports
// whether a route existed to attempt it at all (spec.md §4.6/§7: a ping
// with no route is immediately unreachable, not merely a timeout).
func (r *Router) Ping(target netip.Addr) (attempted bool) {
	r.core.DispatchWait(func() {
		if _, ok := r.rib.LongestMatch(target); !ok {
			r.sink.Log(sink.PING, r.Name, "ping unreachable: no route", "target", target.String())
			attempted = false
			return
		}
		r.pending[target] = &pingState{}
		pkt := wire.IPPacket{Src: r.loopback, Dst: target, TTL: 64, Payload: wire.PingEcho{}}
		r.originate(pkt)
		attempted = true
	})
	return attempted
}

// PingSucceeded reports whether the echo reply for a prior Ping(target) has
// arrived, and clears the outstanding state either way — spec.md §5's
// "ping deadline measured in quiescence rounds" is enforced by the caller
// checking this once per quiescence round.
func (r *Router) PingSucceeded(target netip.Addr) bool {
	var ok bool
	r.core.DispatchWait(func() {
		st, found := r.pending[target]
		ok = found && st.replied
		delete(r.pending, target)
	})
	return ok
}

// Snapshot captures the router's RIB and BGP table for reporting.
type Snapshot struct {
	Name   string
	Routes []rib.Route
	BGP    map[netip.Prefix]bgp.Route
}

func (r *Router) Snapshot() Snapshot {
	var snap Snapshot
	r.core.DispatchWait(func() {
		snap.Name = r.Name
		snap.Routes = r.rib.Routes()
		snap.BGP = make(map[netip.Prefix]bgp.Route)
		for _, p := range r.bgpTable.Prefixes() {
			if best, ok := r.bgpTable.Best(p); ok {
				snap.BGP[p] = best
			}
		}
	})
	return snap
}
