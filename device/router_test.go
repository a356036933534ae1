package device

import (
	"context"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flowmesh/netsim/bgp"
	"github.com/flowmesh/netsim/sink"
	"github.com/flowmesh/netsim/transport"
)

// wireUpCustomerProvider links r1 (customer) to r2 (provider) directly and
// establishes the eBGP session between them.
func wireUpCustomerProvider(t *testing.T, activity *transport.Activity, evt *sink.Sink) (r1, r2 *Router, cancel func()) {
	t.Helper()
	r1 = NewRouter("r1", 1, 1, activity, evt)
	r2 = NewRouter("r2", 2, 2, activity, evt)

	pa, pb := transport.NewLink("r1", 0, 1, "r2", 0, 1)
	r1.AddPort(pa)
	r2.AddPort(pb)
	r1.AddNeighbor(pa.ID, L2Neighbor{RouterName: "r2", Loopback: r2.Loopback()})
	r2.AddNeighbor(pb.ID, L2Neighbor{RouterName: "r1", Loopback: r1.Loopback()})

	r1.AddSession("r2", bgp.Provider, r2.Loopback(), r2.AS())
	r2.AddSession("r1", bgp.Customer, r1.Loopback(), r1.AS())

	ctx, cancelFn := context.WithCancel(context.Background())
	r1.Start(ctx)
	r2.Start(ctx)
	r1.StartSessions()
	r2.StartSessions()

	return r1, r2, cancelFn
}

func TestUpstreamAnnouncementInstallsRouteAndPingSucceeds(t *testing.T) {
	activity := transport.NewActivity()
	evt := sink.NewDiscard()
	r1, r2, cancel := wireUpCustomerProvider(t, activity, evt)
	defer cancel()

	require.Eventually(t, func() bool { return activity.Idle() }, 2*time.Second, time.Millisecond)

	r2.Originate()
	require.Eventually(t, func() bool { return activity.Idle() }, 2*time.Second, time.Millisecond)

	snap := r1.Snapshot()
	best, ok := snap.BGP[r2.OwnPrefix()]
	require.True(t, ok, "r1 should have learned r2's prefix")
	require.Equal(t, []uint32{2}, best.ASPath)

	attempted := r1.Ping(r2.Loopback())
	require.True(t, attempted)
	require.Eventually(t, func() bool { return activity.Idle() }, 2*time.Second, time.Millisecond)
	require.True(t, r1.PingSucceeded(r2.Loopback()))
}

func TestPingWithNoRouteIsNotAttempted(t *testing.T) {
	activity := transport.NewActivity()
	evt := sink.NewDiscard()
	r1, _, cancel := wireUpCustomerProvider(t, activity, evt)
	defer cancel()

	require.Eventually(t, func() bool { return activity.Idle() }, 2*time.Second, time.Millisecond)

	unreachable := netip.MustParseAddr("10.0.9.9")
	attempted := r1.Ping(unreachable)
	require.False(t, attempted)
}

func TestLoopingASPathIsRejected(t *testing.T) {
	activity := transport.NewActivity()
	evt := sink.NewDiscard()
	r1, r2, cancel := wireUpCustomerProvider(t, activity, evt)
	defer cancel()

	require.Eventually(t, func() bool { return activity.Idle() }, 2*time.Second, time.Millisecond)

	// r2 announces a route whose AS_PATH already carries r1's own AS: r1
	// must reject it and must not install a route for it.
	r2.core.DispatchWait(func() {
		s := r2.sessions["r1"]
		r2.sendUpdate(s, bgp.Route{Prefix: r2.OwnPrefix(), ASPath: []uint32{2, 1}, NextHop: r2.Loopback()})
	})

	require.Eventually(t, func() bool { return activity.Idle() }, 2*time.Second, time.Millisecond)

	snap := r1.Snapshot()
	_, ok := snap.BGP[r2.OwnPrefix()]
	require.False(t, ok)
}
