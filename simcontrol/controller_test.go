package simcontrol

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flowmesh/netsim/sink"
	"github.com/flowmesh/netsim/topology"
)

func directLinkTopology() *topology.Topology {
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
		Actions: topology.Actions{
			AnnouncePrefix: []topology.AnnounceEntry{{Router: "r2"}},
			Ping:           []topology.PingEntry{{From: "r1", Target: topology.Loopback(2, 2)}},
		},
	}
}

func runToCompletion(t *testing.T, topo *topology.Topology) *Controller {
	t.Helper()
	c, err := New(topo, sink.NewDiscard())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Run(ctx))

	c.Shutdown()
	return c
}

func TestDirectLinkAnnounceAndPingSucceeds(t *testing.T) {
	c := runToCompletion(t, directLinkTopology())

	results := c.PingResults()
	require.Len(t, results, 1)
	require.True(t, results[0].Attempted)
	require.True(t, results[0].Succeeded)

	snaps := c.Snapshots()
	require.Len(t, snaps, 2)
	require.Equal(t, "r1", snaps[0].Name)
	best, ok := snaps[0].BGP[topology.RouterPrefix(2)]
	require.True(t, ok)
	require.Equal(t, []uint32{2}, best.ASPath)
}

func switchedSegmentTopology() *topology.Topology {
	return &topology.Topology{
		Routers: []topology.RouterCfg{
			{Name: "r1", ID: 1, AS: 1},
			{Name: "r2", ID: 2, AS: 2},
			{Name: "r3", ID: 3, AS: 3},
		},
		Switches: []topology.SwitchCfg{
			{Name: "sw1", ID: 100},
		},
		Links: []topology.LinkCfg{
			{A: "r1", B: "sw1", Cost: 1},
			{A: "r2", B: "sw1", Cost: 1},
			{A: "r3", B: "sw1", Cost: 1},
		},
		Sessions: []topology.SessionCfg{
			{Kind: topology.Peer, Provider: "r1", Customer: "r2"},
			{Kind: topology.Peer, Provider: "r1", Customer: "r3"},
		},
		Actions: topology.Actions{
			Ping: []topology.PingEntry{
				{From: "r1", Target: topology.Loopback(2, 2)},
				{From: "r1", Target: topology.Loopback(3, 3)},
			},
		},
	}
}

func TestSwitchedSegmentGivesEveryRouterL2Neighbors(t *testing.T) {
	c := runToCompletion(t, switchedSegmentTopology())

	for _, result := range c.PingResults() {
		require.True(t, result.Attempted, "ping from %s to %s should find a connected route through the switch", result.From, result.Target)
		require.True(t, result.Succeeded)
	}
}

func TestUnreachablePingIsNotAttempted(t *testing.T) {
	topo := directLinkTopology()
	topo.Actions.Ping = []topology.PingEntry{{From: "r1", Target: topology.Loopback(9, 9)}}
	c := runToCompletion(t, topo)

	results := c.PingResults()
	require.Len(t, results, 1)
	require.False(t, results[0].Attempted)
	require.False(t, results[0].Succeeded)
}
