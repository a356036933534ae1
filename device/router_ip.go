package device

import (
	"github.com/flowmesh/netsim/rib"
	"github.com/flowmesh/netsim/sink"
	"github.com/flowmesh/netsim/transport"
	"github.com/flowmesh/netsim/wire"
)

// handleFrame dispatches one inbound frame by its concrete wire type. It
// always runs on the router's own dispatch loop.
func (r *Router) handleFrame(port *transport.Port, frame wire.Frame) {
	switch f := frame.(type) {
	case wire.Ethernet:
		r.handleEthernet(port, f)
	case wire.ARP:
		r.handleARP(port, f)
	case wire.BPDU:
		// routers do not run spanning tree; a switch may still flood a BPDU
		// onto a router-facing port, which is simply ignored here.
	}
}

func (r *Router) handleEthernet(port *transport.Port, eth wire.Ethernet) {
	if eth.DstMAC != r.portMAC[port.ID] {
		return
	}
	r.handleIP(eth.Payload)
}

func (r *Router) handleIP(pkt wire.IPPacket) {
	if pkt.Dst == r.loopback {
		r.deliverLocal(pkt)
		return
	}
	r.forward(pkt)
}

func (r *Router) deliverLocal(pkt wire.IPPacket) {
	switch payload := pkt.Payload.(type) {
	case wire.PingEcho:
		r.sink.Log(sink.PING, r.Name, "echo request received", "from", pkt.Src.String())
		reply := wire.IPPacket{Src: r.loopback, Dst: pkt.Src, TTL: 64, Payload: wire.PingReply{}}
		r.originate(reply)
	case wire.PingReply:
		if st, ok := r.pending[pkt.Src]; ok {
			st.replied = true
			r.sink.Log(sink.PING, r.Name, "echo reply received", "from", pkt.Src.String())
		}
	case wire.BGPOpen:
		r.handleBGPOpen(pkt.Src, payload)
	case wire.BGPUpdate:
		r.handleBGPUpdate(pkt.Src, payload)
	case wire.BGPWithdraw:
		r.handleBGPWithdraw(pkt.Src, payload)
	case wire.BGPNotification:
		r.sink.Log(sink.BGP, r.Name, "notification received", "from", pkt.Src.String(), "reason", payload.Reason)
	}
}

// originate sends a freshly created packet without decrementing TTL.
func (r *Router) originate(pkt wire.IPPacket) {
	r.route(pkt)
}

// forward decrements TTL on a transit packet before routing it, per
// spec.md §4.3.
func (r *Router) forward(pkt wire.IPPacket) {
	if pkt.TTL == 0 {
		r.sink.Log(sink.IP, r.Name, "TTL exhausted", "dst", pkt.Dst.String())
		return
	}
	pkt.TTL--
	if pkt.TTL == 0 {
		r.sink.Log(sink.IP, r.Name, "TTL exhausted", "dst", pkt.Dst.String())
		return
	}
	r.route(pkt)
}

func (r *Router) route(pkt wire.IPPacket) {
	best, ok := r.rib.LongestMatch(pkt.Dst)
	if !ok {
		r.sink.Log(sink.IP, r.Name, "no route to destination", "dst", pkt.Dst.String())
		return
	}
	if best.Port == rib.LoopbackPort {
		// only reachable if pkt.Dst matches our own prefix but isn't our
		// loopback exactly (e.g. a neighboring host on our own subnet);
		// this simulator has no such hosts, so treat it as undeliverable.
		r.sink.Log(sink.IP, r.Name, "no route to destination", "dst", pkt.Dst.String())
		return
	}
	port, ok := r.ports[best.Port]
	if !ok {
		return
	}
	target := best.NextHop
	needRequest := r.arp.Resolve(best.Port, target, func(mac wire.MAC) {
		eth := wire.Ethernet{SrcPort: port.Ref(), DstMAC: mac, Payload: pkt}
		port.Send(r.activity, eth)
	})
	if needRequest {
		r.sendARPRequest(port, target)
	}
}
