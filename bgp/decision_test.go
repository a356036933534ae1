package bgp

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustPrefix(t *testing.T, s string) netip.Prefix {
	t.Helper()
	p, err := netip.ParsePrefix(s)
	require.NoError(t, err)
	return p
}

func mustAddr(t *testing.T, s string) netip.Addr {
	t.Helper()
	a, err := netip.ParseAddr(s)
	require.NoError(t, err)
	return a
}

func TestBetterPrefersHigherLocalPref(t *testing.T) {
	low := Route{LocalPref: 100, ASPath: []uint32{1, 2, 3}}
	high := Route{LocalPref: 200, ASPath: []uint32{1, 2, 3, 4, 5}}
	require.True(t, Better(high, low))
	require.False(t, Better(low, high))
}

func TestBetterPrefersShorterASPathOnTiedLocalPref(t *testing.T) {
	short := Route{LocalPref: 100, ASPath: []uint32{1}}
	long := Route{LocalPref: 100, ASPath: []uint32{1, 2}}
	require.True(t, Better(short, long))
}

func TestBetterFallsBackToSenderID(t *testing.T) {
	a := Route{
		LocalPref: 100, ASPath: []uint32{1},
		NextHop: mustAddr(t, "10.0.1.1"), SenderID: mustAddr(t, "10.0.1.1"),
	}
	b := Route{
		LocalPref: 100, ASPath: []uint32{1},
		NextHop: mustAddr(t, "10.0.1.1"), SenderID: mustAddr(t, "10.0.1.2"),
	}
	require.True(t, Better(a, b))
}

func TestTableSelectsBestAcrossSessions(t *testing.T) {
	tbl := NewTable()
	prefix := mustPrefix(t, "10.0.5.0/24")

	_, _, _, hasNext := tbl.Store("peer-a", Route{Prefix: prefix, LocalPref: 100, ASPath: []uint32{5}})
	require.True(t, hasNext)

	_, hadPrev, next, hasNext := tbl.Store("peer-b", Route{Prefix: prefix, LocalPref: 200, ASPath: []uint32{5, 6}})
	require.True(t, hadPrev)
	require.True(t, hasNext)
	require.Equal(t, 200, next.LocalPref)

	best, ok := tbl.Best(prefix)
	require.True(t, ok)
	require.Equal(t, 200, best.LocalPref)
}

func TestTableWithdrawFallsBackToRemainingCandidate(t *testing.T) {
	tbl := NewTable()
	prefix := mustPrefix(t, "10.0.6.0/24")

	tbl.Store("peer-a", Route{Prefix: prefix, LocalPref: 100, ASPath: []uint32{6}})
	tbl.Store("peer-b", Route{Prefix: prefix, LocalPref: 200, ASPath: []uint32{6, 7}})

	_, _, next, hasNext := tbl.Withdraw("peer-b", prefix)
	require.True(t, hasNext)
	require.Equal(t, 100, next.LocalPref)

	_, _, _, hasNext = tbl.Withdraw("peer-a", prefix)
	require.False(t, hasNext)
}

func TestOriginateOutranksLearnedRoutes(t *testing.T) {
	loopback := mustAddr(t, "10.0.1.1")
	own := Originate(mustPrefix(t, "10.0.1.0/24"), 1, loopback)
	learned := Route{LocalPref: 200, ASPath: []uint32{9}}
	require.True(t, Better(own, learned))
}

func TestExportPolicyMatchesGaoRexfordTable(t *testing.T) {
	cases := []struct {
		from RelKind
		to   RelKind
		want bool
	}{
		{Customer, Customer, true},
		{Customer, PeerRel, true},
		{Customer, Provider, true},
		{Customer, IBGPRel, true},
		{PeerRel, Customer, true},
		{PeerRel, PeerRel, false},
		{PeerRel, Provider, false},
		{PeerRel, IBGPRel, true},
		{Provider, Customer, true},
		{Provider, PeerRel, false},
		{Provider, Provider, false},
		{Provider, IBGPRel, true},
		{IBGPRel, Customer, true},
		{IBGPRel, PeerRel, true},
		{IBGPRel, Provider, true},
		{IBGPRel, IBGPRel, false},
	}
	for _, c := range cases {
		route := Route{FromRel: c.from}
		require.Equalf(t, c.want, Exportable(route, c.to), "from=%s to=%s", c.from, c.to)
	}
}

func TestOriginatedAlwaysExportable(t *testing.T) {
	route := Route{Originated: true}
	for _, to := range []RelKind{Customer, PeerRel, Provider, IBGPRel} {
		require.True(t, Exportable(route, to))
	}
}

func TestPrepareExportPrependsASOnEBGP(t *testing.T) {
	loopback := mustAddr(t, "10.0.1.1")
	route := Route{ASPath: []uint32{2, 3}, NextHop: mustAddr(t, "10.0.2.2")}
	out := PrepareExport(route, PeerRel, 1, loopback)
	require.Equal(t, []uint32{1, 2, 3}, out.ASPath)
	require.Equal(t, loopback, out.NextHop)
}

func TestPrepareExportPreservesPathOnIBGP(t *testing.T) {
	nextHop := mustAddr(t, "10.0.2.2")
	route := Route{ASPath: []uint32{2}, NextHop: nextHop, LocalPref: 200}
	out := PrepareExport(route, IBGPRel, 1, mustAddr(t, "10.0.1.1"))
	require.Equal(t, []uint32{2}, out.ASPath)
	require.Equal(t, nextHop, out.NextHop)
	require.Equal(t, 200, out.LocalPref)
}
