package device

import (
	"net/netip"

	"github.com/flowmesh/netsim/bgp"
	"github.com/flowmesh/netsim/rib"
	"github.com/flowmesh/netsim/sink"
	"github.com/flowmesh/netsim/wire"
)

func (r *Router) sendToPeer(s *bgp.Session, payload wire.IPPayload) {
	r.originate(wire.IPPacket{Src: r.loopback, Dst: s.RemoteID, TTL: 64, Payload: payload})
}

func (r *Router) sendOpen(s *bgp.Session) {
	r.sink.Log(sink.BGP, r.Name, "sending open", "to", s.PeerName)
	r.sendToPeer(s, wire.BGPOpen{AS: r.as, RouterID: r.loopback})
}

func (r *Router) sendUpdate(s *bgp.Session, route bgp.Route) {
	r.sink.Log(sink.BGP, r.Name, "sending update", "to", s.PeerName, "prefix", route.Prefix.String())
	r.sendToPeer(s, wire.BGPUpdate{
		Prefix:    route.Prefix,
		NextHop:   route.NextHop,
		ASPath:    route.ASPath,
		LocalPref: route.LocalPref,
	})
}

func (r *Router) sendWithdraw(s *bgp.Session, prefix netip.Prefix) {
	r.sink.Log(sink.BGP, r.Name, "sending withdraw", "to", s.PeerName, "prefix", prefix.String())
	r.sendToPeer(s, wire.BGPWithdraw{Prefix: prefix})
}

func (r *Router) handleBGPOpen(from netip.Addr, msg wire.BGPOpen) {
	peerName, ok := r.byRemote[from]
	if !ok {
		return
	}
	s := r.sessions[peerName]
	if s.State != bgp.Established {
		if s.State == bgp.Idle {
			r.sendOpen(s)
		}
		s.State = bgp.Established
		r.sink.Log(sink.BGP, r.Name, "session established", "peer", peerName)
		r.syncSession(s)
	}
}

// syncSession re-advertises every currently-best, exportable route on a
// freshly established session — the initial full-table exchange real BGP
// performs on session-up.
func (r *Router) syncSession(s *bgp.Session) {
	for _, prefix := range r.bgpTable.Prefixes() {
		best, ok := r.bgpTable.Best(prefix)
		if !ok || !bgp.Exportable(best, s.Rel) {
			continue
		}
		out := bgp.PrepareExport(best, s.Rel, r.as, r.loopback)
		r.sendUpdate(s, out)
		s.Advertised[prefix] = true
	}
}

func (r *Router) handleBGPUpdate(from netip.Addr, msg wire.BGPUpdate) {
	peerName, ok := r.byRemote[from]
	if !ok {
		return
	}
	s := r.sessions[peerName]

	route := bgp.Route{
		Prefix:   msg.Prefix,
		ASPath:   msg.ASPath,
		NextHop:  msg.NextHop,
		SenderID: from,
		FromRel:  s.Rel,
	}
	if s.Rel == bgp.IBGPRel {
		route.LocalPref = msg.LocalPref
	} else {
		route.LocalPref = s.Rel.LocalPref()
	}

	if route.Loop(r.as) {
		r.sink.Log(sink.BGP, r.Name, "rejecting update: AS_PATH loop", "peer", peerName, "prefix", msg.Prefix.String())
		return
	}

	prev, hadPrev, next, hasNext := r.bgpTable.Store(peerName, route)
	r.reconcileBest(msg.Prefix, prev, hadPrev, next, hasNext)
}

func (r *Router) handleBGPWithdraw(from netip.Addr, msg wire.BGPWithdraw) {
	peerName, ok := r.byRemote[from]
	if !ok {
		return
	}
	prev, hadPrev, next, hasNext := r.bgpTable.Withdraw(peerName, msg.Prefix)
	r.reconcileBest(msg.Prefix, prev, hadPrev, next, hasNext)
}

func routeEqual(a, b bgp.Route) bool {
	if a.Prefix != b.Prefix || a.NextHop != b.NextHop || a.LocalPref != b.LocalPref || a.SenderID != b.SenderID {
		return false
	}
	if len(a.ASPath) != len(b.ASPath) {
		return false
	}
	for i := range a.ASPath {
		if a.ASPath[i] != b.ASPath[i] {
			return false
		}
	}
	return true
}

// reconcileBest reflects a bgpTable change (from Store or Withdraw) into
// the RIB and re-exports per Gao-Rexford policy, per spec.md §4.4 step 5.
func (r *Router) reconcileBest(prefix netip.Prefix, prev bgp.Route, hadPrev bool, next bgp.Route, hasNext bool) {
	changed := hadPrev != hasNext || (hadPrev && hasNext && !routeEqual(prev, next))
	if !changed {
		return
	}

	if hasNext {
		nextHopRoute, ok := r.rib.LongestMatch(next.NextHop)
		if !ok {
			r.sink.Log(sink.BGP, r.Name, "best route's next-hop is unreachable", "prefix", prefix.String(), "next_hop", next.NextHop.String())
		} else {
			r.rib.Install(rib.Route{
				Prefix:  prefix,
				NextHop: next.NextHop,
				Port:    nextHopRoute.Port,
				Source:  rib.Bgp,
			})
		}
	} else {
		r.rib.Withdraw(prefix, rib.Bgp)
	}

	for _, s := range r.sessions {
		if s.State != bgp.Established {
			continue
		}
		if hasNext && bgp.Exportable(next, s.Rel) {
			out := bgp.PrepareExport(next, s.Rel, r.as, r.loopback)
			r.sendUpdate(s, out)
			s.Advertised[prefix] = true
		} else if s.Advertised[prefix] {
			r.sendWithdraw(s, prefix)
			delete(s.Advertised, prefix)
		}
	}
}
