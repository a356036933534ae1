// Package rib implements the per-router Routing Information Base: the
// single-best-route-per-prefix table that drives forwarding, per
// spec.md §4.5. Longest-prefix-match lookup is backed by a compressed
// trie (github.com/gaissmai/bart) rather than a hand-rolled radix tree.
package rib

import (
	"net/netip"
	"sort"

	"github.com/gaissmai/bart"
	"github.com/flowmesh/netsim/transport"
)

// Source is the administrative origin of a route. Precedence is highest
// first: Connected, Static, Bgp.
type Source int

const (
	Connected Source = iota
	Static
	Bgp
)

func (s Source) String() string {
	switch s {
	case Connected:
		return "connected"
	case Static:
		return "static"
	case Bgp:
		return "bgp"
	default:
		return "unknown"
	}
}

// Route is one candidate for a prefix. The Table keeps one candidate per
// Source, and a later Install from the same Source replaces the earlier
// one regardless of Metric, so Metric never breaks ties within a Source.
// The BGP decision process resolves BGP-internal ties before a route ever
// reaches the RIB.
type Route struct {
	Prefix  netip.Prefix
	NextHop netip.Addr
	Port    transport.PortID
	Source  Source
	Metric  int
}

// LoopbackPort is the sentinel egress "port" for a connected route whose
// next hop is the router's own loopback: there is nothing to forward,
// delivery is local.
const LoopbackPort transport.PortID = -1

// Table holds, per prefix, one candidate per Source and the currently
// installed best route.
type Table struct {
	candidates map[netip.Prefix]map[Source]Route
	best       *bart.Table[Route]
}

func New() *Table {
	return &Table{
		candidates: make(map[netip.Prefix]map[Source]Route),
		best:       new(bart.Table[Route]),
	}
}

// Install adds or replaces the candidate route from src for its prefix and
// recomputes the best route for that prefix. It reports whether the
// installed best route for the prefix changed.
func (t *Table) Install(r Route) (changed bool) {
	prev, hadPrev := t.Lookup(r.Prefix)
	slot, ok := t.candidates[r.Prefix]
	if !ok {
		slot = make(map[Source]Route)
		t.candidates[r.Prefix] = slot
	}
	slot[r.Source] = r
	t.recompute(r.Prefix)
	next, hasNext := t.Lookup(r.Prefix)
	return hadPrev != hasNext || (hadPrev && hasNext && prev != next)
}

// Withdraw removes the candidate route from src for prefix, if any, and
// recomputes the best route. It reports whether the installed best route
// changed.
func (t *Table) Withdraw(prefix netip.Prefix, src Source) (changed bool) {
	slot, ok := t.candidates[prefix]
	if !ok {
		return false
	}
	if _, ok := slot[src]; !ok {
		return false
	}
	prev, hadPrev := t.Lookup(prefix)
	delete(slot, src)
	if len(slot) == 0 {
		delete(t.candidates, prefix)
	}
	t.recompute(prefix)
	next, hasNext := t.Lookup(prefix)
	return hadPrev != hasNext || (hadPrev && hasNext && prev != next)
}

func (t *Table) recompute(prefix netip.Prefix) {
	slot, ok := t.candidates[prefix]
	if !ok || len(slot) == 0 {
		t.best.Delete(prefix)
		return
	}
	sources := make([]Source, 0, len(slot))
	for src := range slot {
		sources = append(sources, src)
	}
	sort.Slice(sources, func(i, j int) bool {
		if sources[i] != sources[j] {
			return sources[i] < sources[j] // Connected(0) < Static(1) < Bgp(2)
		}
		return false
	})
	winner := slot[sources[0]]
	for _, src := range sources[1:] {
		cand := slot[src]
		if cand.Source == winner.Source && cand.Metric < winner.Metric {
			winner = cand
		}
	}
	t.best.Insert(prefix, winner)
}

// Lookup returns the exact-prefix best route, if any candidate exists for
// that prefix.
func (t *Table) Lookup(prefix netip.Prefix) (Route, bool) {
	return t.best.Get(prefix)
}

// LongestMatch returns the best route whose prefix contains addr, per
// standard longest-prefix-match semantics.
func (t *Table) LongestMatch(addr netip.Addr) (Route, bool) {
	return t.best.Lookup(addr)
}

// Routes returns every installed best route, for snapshotting.
func (t *Table) Routes() []Route {
	var out []Route
	t.best.All()(func(_ netip.Prefix, r Route) bool {
		out = append(out, r)
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].Prefix.String() < out[j].Prefix.String()
	})
	return out
}
