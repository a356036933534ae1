package wire

import "net/netip"

// BGPOpen moves a session from Idle to Established. The side with the
// numerically smaller loopback address sends the first one; the other side
// answers with its own, and each side marks the session Established when
// it receives an Open. No capabilities negotiation is modeled.
type BGPOpen struct {
	AS       uint32
	RouterID netip.Addr
}

func (BGPOpen) isIPPayload() {}

// BGPUpdate announces a single prefix. LocalPref is meaningful only on
// iBGP sessions, where it carries the announcing border router's already-
// computed preference into the rest of the AS; a receiver on an eBGP
// session ignores it and derives LOCAL_PREF from the session's own
// relationship instead (see bgp.RelKind).
type BGPUpdate struct {
	Prefix    netip.Prefix
	NextHop   netip.Addr
	ASPath    []uint32
	LocalPref int
}

func (BGPUpdate) isIPPayload() {}

// BGPWithdraw retracts a previously announced prefix.
type BGPWithdraw struct {
	Prefix netip.Prefix
}

func (BGPWithdraw) isIPPayload() {}

// BGPNotification is reserved for invariant violations; the steady-state
// protocol described by this simulator never needs to send one, but a
// conservative implementation of the decision process can raise it instead
// of silently swallowing an impossible state. Nothing sends one; an STP
// tie, which unique ids rule out, is neither logged nor sent as a message.
type BGPNotification struct {
	Reason string
}

func (BGPNotification) isIPPayload() {}
