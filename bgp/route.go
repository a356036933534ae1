// Package bgp implements the per-router BGP speaker: the session FSM,
// the decision process, and the Gao-Rexford export policy of spec.md §4.4.
package bgp

import "net/netip"

// RelKind is a session's relationship, from the local router's point of
// view. Export policy and LOCAL_PREF derivation both key off this.
type RelKind int

const (
	Customer RelKind = iota
	PeerRel
	Provider
	IBGPRel
)

func (k RelKind) String() string {
	switch k {
	case Customer:
		return "customer"
	case PeerRel:
		return "peer"
	case Provider:
		return "provider"
	case IBGPRel:
		return "ibgp"
	default:
		return "unknown"
	}
}

// LocalPref returns the LOCAL_PREF an eBGP route learned over a session of
// this relationship receives, per spec.md §4.4 step 2. iBGP sessions never
// call this: they carry the originating border router's LOCAL_PREF forward
// unchanged.
func (k RelKind) LocalPref() int {
	switch k {
	case Customer:
		return 200
	case PeerRel:
		return 100
	case Provider:
		return 50
	default:
		return 0
	}
}

// originatedLocalPref is fixed above every derived value so a router's own
// origination always wins ties against any learned route to the same
// prefix, satisfying §4.4's "highest-preference" instruction for
// origination without inventing a fifth precedence tier.
const originatedLocalPref = 255

// Route is one candidate in a router's BGP table for one prefix, learned
// from one session (or, if Originated, from the router itself).
type Route struct {
	Prefix     netip.Prefix
	ASPath     []uint32 // leftmost = most recently added AS
	NextHop    netip.Addr
	LocalPref  int
	FromRel    RelKind
	Originated bool
	// SenderID is the BGP id of the router that sent this update, used for
	// decision-process tie-break (d). It usually equals NextHop but need
	// not (reflected iBGP routes keep the original next-hop).
	SenderID netip.Addr
}

// Loop reports whether as already appears in the AS_PATH, per §4.4 step 1.
func (r Route) Loop(as uint32) bool {
	for _, hop := range r.ASPath {
		if hop == as {
			return true
		}
	}
	return false
}

// Originate builds the Route a router installs for its own AS prefix.
// AS_PATH starts empty, not [localAS]: the local AS is added exactly once,
// by the same eBGP-export prepend every other route goes through, the
// first time this route crosses an AS boundary. iBGP reflection within the
// origin AS therefore also sees an empty AS_PATH, which is correct — it
// has not left the AS yet.
func Originate(prefix netip.Prefix, localAS uint32, loopback netip.Addr) Route {
	return Route{
		Prefix:     prefix,
		NextHop:    loopback,
		LocalPref:  originatedLocalPref,
		Originated: true,
		SenderID:   loopback,
	}
}
