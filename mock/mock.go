// Package mock builds small, named topology.Topology fixtures for tests,
// mirroring the reference stack's own mock package: a handful of
// hand-picked device names and edges, built as plain Go values rather than
// parsed YAML, so integration tests can construct a scenario in one call.
package mock

import (
	"fmt"

	"github.com/flowmesh/netsim/topology"
)

// SimpleUpstream is a customer/provider pair: r1 (AS1) is a customer of r2
// (AS2). r2 announcing must give r1 a route to r2's prefix and a
// successful ping to r2's loopback.
func SimpleUpstream() *topology.Topology {
	return &topology.Topology{
		Routers: []topology.RouterCfg{
			{Name: "r1", ID: 1, AS: 1},
			{Name: "r2", ID: 2, AS: 2},
		},
		Links: []topology.LinkCfg{
			{A: "r1", B: "r2", Cost: 1},
		},
		Sessions: []topology.SessionCfg{
			{Kind: topology.ProviderCustomer, Provider: "r2", Customer: "r1"},
		},
	}
}

// PeerNoTransit chains r1-r2-r3 with r2 peering both r1 and r3. r1
// announcing must not reach r3: a peer route is never re-exported to
// another peer.
func PeerNoTransit() *topology.Topology {
	return &topology.Topology{
		Routers: []topology.RouterCfg{
			{Name: "r1", ID: 1, AS: 1},
			{Name: "r2", ID: 2, AS: 2},
			{Name: "r3", ID: 3, AS: 3},
		},
		Links: []topology.LinkCfg{
			{A: "r1", B: "r2", Cost: 1},
			{A: "r2", B: "r3", Cost: 1},
		},
		Sessions: []topology.SessionCfg{
			{Kind: topology.Peer, Provider: "r1", Customer: "r2"},
			{Kind: topology.Peer, Provider: "r2", Customer: "r3"},
		},
	}
}

// ProviderCustomerValleyFree reproduces an eight-router provider/customer
// and peer hierarchy: r2 announces; r1 learns the prefix directly from its
// customer r2, and r3 prefers the customer-learned path via r1 over the
// shorter one from its peer r2. r6 only learns the prefix if a
// policy-valid (non-valley) path exists to it.
func ProviderCustomerValleyFree() *topology.Topology {
	routers := make([]topology.RouterCfg, 0, 8)
	for i := 1; i <= 8; i++ {
		routers = append(routers, topology.RouterCfg{Name: fmt.Sprintf("r%d", i), ID: i, AS: uint32(i)})
	}
	return &topology.Topology{
		Routers: routers,
		Links: []topology.LinkCfg{
			{A: "r3", B: "r1"},
			{A: "r1", B: "r2"},
			{A: "r4", B: "r3"},
			{A: "r5", B: "r2"},
			{A: "r7", B: "r4"},
			{A: "r6", B: "r7"},
			{A: "r8", B: "r7"},
			{A: "r2", B: "r3"},
			{A: "r4", B: "r5"},
			{A: "r5", B: "r6"},
			{A: "r6", B: "r8"},
		},
		Sessions: []topology.SessionCfg{
			{Kind: topology.ProviderCustomer, Provider: "r3", Customer: "r1"},
			{Kind: topology.ProviderCustomer, Provider: "r1", Customer: "r2"},
			{Kind: topology.ProviderCustomer, Provider: "r4", Customer: "r3"},
			{Kind: topology.ProviderCustomer, Provider: "r5", Customer: "r2"},
			{Kind: topology.ProviderCustomer, Provider: "r7", Customer: "r4"},
			{Kind: topology.ProviderCustomer, Provider: "r6", Customer: "r7"},
			{Kind: topology.ProviderCustomer, Provider: "r8", Customer: "r7"},
			{Kind: topology.Peer, Provider: "r2", Customer: "r3"},
			{Kind: topology.Peer, Provider: "r4", Customer: "r5"},
			{Kind: topology.Peer, Provider: "r5", Customer: "r6"},
			{Kind: topology.Peer, Provider: "r6", Customer: "r8"},
		},
	}
}

// IBGPFullMesh puts r1, r2, r3 in AS1 with a full iBGP mesh; r4 (AS2) is
// r1's provider and announces. r2 and r3 must hold the route learned over
// iBGP with next-hop still r4's loopback (iBGP does not rewrite it) and
// AS_PATH = [2].
func IBGPFullMesh() *topology.Topology {
	return &topology.Topology{
		Routers: []topology.RouterCfg{
			{Name: "r1", ID: 1, AS: 1},
			{Name: "r2", ID: 2, AS: 1},
			{Name: "r3", ID: 3, AS: 1},
			{Name: "r4", ID: 4, AS: 2},
		},
		Links: []topology.LinkCfg{
			{A: "r1", B: "r2"},
			{A: "r1", B: "r3"},
			{A: "r2", B: "r3"},
			{A: "r1", B: "r4"},
		},
		Sessions: []topology.SessionCfg{
			{Kind: topology.IBGP, Provider: "r1", Customer: "r2"},
			{Kind: topology.IBGP, Provider: "r1", Customer: "r3"},
			{Kind: topology.IBGP, Provider: "r2", Customer: "r3"},
			{Kind: topology.ProviderCustomer, Provider: "r4", Customer: "r1"},
		},
	}
}

// SwitchedSegment connects r1, r2, r4 through a single switch, ibgp-meshed
// pairwise. STP must converge with every router-facing port designated
// (a single switch never needs to block anything), and pings between the
// three routers must succeed once ARP resolves.
func SwitchedSegment() *topology.Topology {
	return &topology.Topology{
		Routers: []topology.RouterCfg{
			{Name: "r1", ID: 1, AS: 1},
			{Name: "r2", ID: 2, AS: 1},
			{Name: "r4", ID: 4, AS: 1},
		},
		Switches: []topology.SwitchCfg{
			{Name: "s1", ID: 100},
		},
		Links: []topology.LinkCfg{
			{A: "r1", B: "s1"},
			{A: "r2", B: "s1"},
			{A: "r4", B: "s1"},
		},
		Sessions: []topology.SessionCfg{
			{Kind: topology.IBGP, Provider: "r1", Customer: "r2"},
			{Kind: topology.IBGP, Provider: "r1", Customer: "r4"},
			{Kind: topology.IBGP, Provider: "r2", Customer: "r4"},
		},
	}
}
