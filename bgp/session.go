package bgp

import "net/netip"

// State is a session's FSM state, per spec.md §4.4. There is no
// keepalive/holdtime timer: once Established a session stays Established
// for the run.
type State int

const (
	Idle State = iota
	OpenSent
	Established
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case OpenSent:
		return "opensent"
	case Established:
		return "established"
	default:
		return "unknown"
	}
}

// Session is one router's view of one configured BGP session. The BGP id
// used for active-open selection and decision-process tie-breaks is the
// loopback address of each end (spec.md's design notes for this
// implementation use the loopback as a stand-in BGP id, since it is
// already the router's only globally meaningful identifier).
type Session struct {
	PeerName   string
	Rel        RelKind
	LocalID    netip.Addr
	RemoteID   netip.Addr
	LocalAS    uint32
	RemoteAS   uint32
	State      State
	Advertised map[netip.Prefix]bool // prefixes currently exported on this session, for withdrawal on best-route loss
}

// IDLess is the byte-lexicographic comparison spec.md §4.4 steps (c)/(d)
// use as a proxy for "lowest IGP cost"/"lowest sender BGP id". It is
// numerically consistent for the `10.0.<AS>.<id>` addressing scheme this
// engine assigns loopbacks from.
func IDLess(a, b netip.Addr) bool {
	ab, bb := a.As4(), b.As4()
	for i := range ab {
		if ab[i] != bb[i] {
			return ab[i] < bb[i]
		}
	}
	return false
}

// ActiveOpener reports whether the local end should actively open the
// session: the end with the numerically smaller BGP id does (spec.md
// §4.4).
func (s Session) ActiveOpener() bool {
	return IDLess(s.LocalID, s.RemoteID)
}
