package transport

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowmesh/netsim/wire"
)

func TestNewLinkBindsBothPorts(t *testing.T) {
	pa, pb := NewLink("d1", 0, 1, "d2", 0, 1)
	require.NotNil(t, pa.Link())
	require.Same(t, pa.Link(), pb.Link())
}

func TestSendDeliversToOtherEnd(t *testing.T) {
	pa, pb := NewLink("d1", 0, 1, "d2", 0, 1)
	activity := NewActivity()

	frame := wire.ARP{Op: wire.ARPRequest}
	require.True(t, pa.Send(activity, frame))

	got := <-pb.Recv()
	require.Equal(t, frame, got)
}

func TestSendOnUnboundPortIsNoop(t *testing.T) {
	pa := newPort(0, "d1", 1, DefaultLinkBuffer)
	activity := NewActivity()
	require.False(t, pa.Send(activity, wire.ARP{}))
}

func TestZeroOrNegativeCostDefaultsToOne(t *testing.T) {
	pa, pb := NewLink("d1", 0, 0, "d2", 0, -3)
	require.Equal(t, 1, pa.Cost)
	require.Equal(t, 1, pb.Cost)
}
