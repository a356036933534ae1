package arp

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowmesh/netsim/transport"
	"github.com/flowmesh/netsim/wire"
)

func TestResolveHitsCacheAfterLearn(t *testing.T) {
	activity := transport.NewActivity()
	r := NewResolver(activity)
	defer r.Close()

	target := netip.MustParseAddr("10.0.1.2")
	r.Learn(1, target, wire.MAC(42))

	var got wire.MAC
	needRequest := r.Resolve(1, target, func(mac wire.MAC) { got = mac })
	require.False(t, needRequest)
	require.EqualValues(t, 42, got)
}

func TestResolveParksUntilLearn(t *testing.T) {
	activity := transport.NewActivity()
	r := NewResolver(activity)
	defer r.Close()

	target := netip.MustParseAddr("10.0.1.3")
	var resolved bool
	needRequest := r.Resolve(1, target, func(wire.MAC) { resolved = true })
	require.True(t, needRequest)
	require.False(t, resolved)
	require.False(t, activity.Idle())

	r.Learn(1, target, wire.MAC(7))
	require.True(t, resolved)
	require.True(t, activity.Idle())
}

func TestSecondWaiterDoesNotRequestAgain(t *testing.T) {
	activity := transport.NewActivity()
	r := NewResolver(activity)
	defer r.Close()

	target := netip.MustParseAddr("10.0.1.4")
	first := r.Resolve(1, target, func(wire.MAC) {})
	second := r.Resolve(1, target, func(wire.MAC) {})
	require.True(t, first)
	require.False(t, second)
}
