package device

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flowmesh/netsim/sink"
	"github.com/flowmesh/netsim/stp"
	"github.com/flowmesh/netsim/transport"
)

func TestRedundantLinkGetsBlocked(t *testing.T) {
	activity := transport.NewActivity()
	evt := sink.NewDiscard()

	s1 := NewSwitch("s1", 1, activity, evt)
	s2 := NewSwitch("s2", 2, activity, evt)

	pa1, pb1 := transport.NewLink("s1", 0, 1, "s2", 0, 1)
	pa2, pb2 := transport.NewLink("s1", 1, 1, "s2", 1, 1)
	s1.AddPort(pa1)
	s1.AddPort(pa2)
	s2.AddPort(pb1)
	s2.AddPort(pb2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s1.Start(ctx)
	s2.Start(ctx)

	require.Eventually(t, func() bool { return activity.Idle() }, 2*time.Second, time.Millisecond)

	s1Roles := s1.Roles()
	s2Roles := s2.Roles()

	// s1 has the lower bridge id, so it is root: every one of its ports is
	// designated, and exactly one of s2's two redundant ports must be
	// blocking to break the loop.
	require.Equal(t, stp.RoleDesignated, s1Roles[0])
	require.Equal(t, stp.RoleDesignated, s1Roles[1])

	blocked := 0
	for _, role := range s2Roles {
		if role == stp.RoleBlocking {
			blocked++
		}
	}
	require.Equal(t, 1, blocked)
}

func TestSingleLinkHasNoBlockedPorts(t *testing.T) {
	activity := transport.NewActivity()
	evt := sink.NewDiscard()

	s1 := NewSwitch("s1", 1, activity, evt)
	s2 := NewSwitch("s2", 2, activity, evt)

	pa, pb := transport.NewLink("s1", 0, 1, "s2", 0, 1)
	s1.AddPort(pa)
	s2.AddPort(pb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s1.Start(ctx)
	s2.Start(ctx)

	require.Eventually(t, func() bool { return activity.Idle() }, 2*time.Second, time.Millisecond)

	for _, role := range s1.Roles() {
		require.NotEqual(t, stp.RoleBlocking, role)
	}
	for _, role := range s2.Roles() {
		require.NotEqual(t, stp.RoleBlocking, role)
	}
}
