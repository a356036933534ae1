package wire

import "net/netip"

// IPPacket is the payload of an Ethernet frame. It is itself addressed
// end-to-end (Src/Dst are loopback IPs), independent of the hop-by-hop
// MAC addressing Ethernet uses to get it there.
type IPPacket struct {
	Src     netip.Addr
	Dst     netip.Addr
	TTL     uint8
	Payload IPPayload
}

// IPPayload is the closed set of things an IP packet can carry. BGP rides
// in here rather than as its own Frame variant, per the addressing model:
// eBGP and iBGP sessions are both ordinary IP traffic between loopbacks.
type IPPayload interface {
	isIPPayload()
}

// PingEcho requests an echo reply from the destination loopback.
type PingEcho struct{}

func (PingEcho) isIPPayload() {}

// PingReply answers a PingEcho.
type PingReply struct{}

func (PingReply) isIPPayload() {}
