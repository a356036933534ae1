package bgp

import "net/netip"

// exportMatrix implements spec.md §4.4's Gao-Rexford table: exportMatrix[from][to].
var exportMatrix = map[RelKind]map[RelKind]bool{
	Customer: {Customer: true, PeerRel: true, Provider: true, IBGPRel: true},
	PeerRel:  {Customer: true, PeerRel: false, Provider: false, IBGPRel: true},
	Provider: {Customer: true, PeerRel: false, Provider: false, IBGPRel: true},
	IBGPRel:  {Customer: true, PeerRel: true, Provider: true, IBGPRel: false},
}

// Exportable reports whether a route learned as described by route may be
// re-advertised on a session of relationship toRel. Originated routes are
// exported everywhere.
func Exportable(route Route, toRel RelKind) bool {
	if route.Originated {
		return true
	}
	return exportMatrix[route.FromRel][toRel]
}

// PrepareExport returns the route as it should be advertised on a session
// of relationship toRel from a router with localAS/loopback: eBGP sessions
// get the local AS prepended and next-hop rewritten to the local loopback;
// iBGP sessions carry AS_PATH, next-hop and LOCAL_PREF through unchanged.
func PrepareExport(route Route, toRel RelKind, localAS uint32, loopback netip.Addr) Route {
	out := route
	out.Originated = false
	if toRel == IBGPRel {
		return out
	}
	path := make([]uint32, 0, len(route.ASPath)+1)
	path = append(path, localAS)
	path = append(path, route.ASPath...)
	out.ASPath = path
	out.NextHop = loopback
	return out
}
