package device

import (
	"net/netip"

	"github.com/flowmesh/netsim/sink"
	"github.com/flowmesh/netsim/transport"
	"github.com/flowmesh/netsim/wire"
)

func (r *Router) sendARPRequest(port *transport.Port, target netip.Addr) {
	req := wire.ARP{
		Op:        wire.ARPRequest,
		SenderIP:  r.loopback,
		SenderMAC: r.portMAC[port.ID],
		TargetIP:  target,
	}
	r.sink.Log(sink.ARP, r.Name, "arp request", "port", port.ID, "target", target.String())
	port.Send(r.activity, req)
}

func (r *Router) handleARP(port *transport.Port, frame wire.ARP) {
	switch frame.Op {
	case wire.ARPRequest:
		if frame.TargetIP != r.loopback {
			return
		}
		reply := wire.ARP{
			Op:        wire.ARPReply,
			SenderIP:  r.loopback,
			SenderMAC: r.portMAC[port.ID],
			TargetIP:  frame.SenderIP,
			TargetMAC: frame.SenderMAC,
		}
		r.sink.Log(sink.ARP, r.Name, "arp reply", "port", port.ID, "to", frame.SenderIP.String())
		port.Send(r.activity, reply)
	case wire.ARPReply:
		if frame.TargetIP != r.loopback {
			return
		}
		r.arp.Learn(port.ID, frame.SenderIP, frame.SenderMAC)
	}
}
