package bgp

import "net/netip"

// Table is one router's BGP table: for each prefix, the candidate routes
// currently held from each session, and the currently selected best route
// (spec.md §3, §4.4).
type Table struct {
	candidates map[netip.Prefix]map[string]Route // prefix -> session peer name -> candidate
	best       map[netip.Prefix]Route
}

func NewTable() *Table {
	return &Table{
		candidates: make(map[netip.Prefix]map[string]Route),
		best:       make(map[netip.Prefix]Route),
	}
}

// Store records or replaces the candidate learned from session peerName
// for route.Prefix. It returns the previous best route for the prefix (if
// any) and the new best route (if any), letting the caller diff them to
// decide what to do next.
func (t *Table) Store(peerName string, route Route) (prev Route, hadPrev bool, next Route, hasNext bool) {
	prev, hadPrev = t.Best(route.Prefix)
	slot, ok := t.candidates[route.Prefix]
	if !ok {
		slot = make(map[string]Route)
		t.candidates[route.Prefix] = slot
	}
	slot[peerName] = route
	t.recompute(route.Prefix)
	next, hasNext = t.Best(route.Prefix)
	return
}

// Withdraw clears the candidate learned from session peerName for prefix.
// Return values follow Store's convention.
func (t *Table) Withdraw(peerName string, prefix netip.Prefix) (prev Route, hadPrev bool, next Route, hasNext bool) {
	prev, hadPrev = t.Best(prefix)
	slot, ok := t.candidates[prefix]
	if ok {
		delete(slot, peerName)
		if len(slot) == 0 {
			delete(t.candidates, prefix)
		}
	}
	t.recompute(prefix)
	next, hasNext = t.Best(prefix)
	return
}

// Best returns the currently selected best route for prefix, if any.
func (t *Table) Best(prefix netip.Prefix) (Route, bool) {
	r, ok := t.best[prefix]
	return r, ok
}

// Prefixes returns every prefix with at least one live candidate.
func (t *Table) Prefixes() []netip.Prefix {
	out := make([]netip.Prefix, 0, len(t.candidates))
	for p := range t.candidates {
		out = append(out, p)
	}
	return out
}

// Candidates returns every candidate route held for prefix, keyed by the
// session peer name it was learned from.
func (t *Table) Candidates(prefix netip.Prefix) map[string]Route {
	return t.candidates[prefix]
}

func (t *Table) recompute(prefix netip.Prefix) {
	slot, ok := t.candidates[prefix]
	if !ok || len(slot) == 0 {
		delete(t.best, prefix)
		return
	}
	var winner Route
	first := true
	for _, cand := range slot {
		if first || Better(cand, winner) {
			winner = cand
			first = false
		}
	}
	t.best[prefix] = winner
}

// Better implements spec.md §4.4 step 4's ordered tie-break: (a) highest
// LOCAL_PREF, (b) shortest AS_PATH, (c) lowest next-hop router id, (d)
// lowest sender BGP id. It reports whether a is strictly preferred to b.
func Better(a, b Route) bool {
	if a.LocalPref != b.LocalPref {
		return a.LocalPref > b.LocalPref
	}
	if len(a.ASPath) != len(b.ASPath) {
		return len(a.ASPath) < len(b.ASPath)
	}
	if a.NextHop != b.NextHop {
		return IDLess(a.NextHop, b.NextHop)
	}
	if a.SenderID != b.SenderID {
		return IDLess(a.SenderID, b.SenderID)
	}
	return false
}
