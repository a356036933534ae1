package render

import (
	"bytes"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowmesh/netsim/bgp"
	"github.com/flowmesh/netsim/device"
	"github.com/flowmesh/netsim/rib"
)

func TestRoutingTableIncludesEveryRoute(t *testing.T) {
	snap := device.Snapshot{
		Name: "r1",
		Routes: []rib.Route{
			{Prefix: netip.MustParsePrefix("10.0.1.0/24"), NextHop: netip.MustParseAddr("10.0.1.1"), Port: rib.LoopbackPort, Source: rib.Connected},
			{Prefix: netip.MustParsePrefix("10.0.2.0/24"), NextHop: netip.MustParseAddr("10.0.1.2"), Port: 0, Source: rib.Bgp},
		},
	}
	var buf bytes.Buffer
	RoutingTable(&buf, snap)

	out := buf.String()
	require.Contains(t, out, "10.0.1.0/24")
	require.Contains(t, out, "10.0.2.0/24")
	require.Contains(t, out, "connected")
	require.Contains(t, out, "bgp")
}

func TestBGPTableFormatsASPathAndOrigin(t *testing.T) {
	prefix := netip.MustParsePrefix("10.0.2.0/24")
	snap := device.Snapshot{
		Name: "r1",
		BGP: map[netip.Prefix]bgp.Route{
			prefix: {Prefix: prefix, ASPath: []uint32{2}, FromRel: bgp.Customer},
		},
	}
	var buf bytes.Buffer
	BGPTable(&buf, snap)

	require.Contains(t, buf.String(), "10.0.2.0/24")
	require.Contains(t, buf.String(), "2")
	require.Contains(t, buf.String(), "customer")
}

func TestFormatASPathMarksOrigination(t *testing.T) {
	require.Equal(t, "(origin)", formatASPath(nil))
	require.Equal(t, "3 1", formatASPath([]uint32{3, 1}))
}
