// Package render turns a finished simulation's state into the plain-text
// tables and Graphviz source spec.md §6 asks the (external) CLI to print,
// keeping the core engine itself free of any presentation concerns.
package render

import (
	"fmt"
	"io"
	"net/netip"
	"sort"
	"text/tabwriter"

	"github.com/flowmesh/netsim/device"
	"github.com/flowmesh/netsim/rib"
)

// RoutingTable writes snap's RIB as an aligned text table.
func RoutingTable(w io.Writer, snap device.Snapshot) {
	fmt.Fprintf(w, "routing table: %s\n", snap.Name)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PREFIX\tNEXT-HOP\tPORT\tSOURCE\tMETRIC")
	for _, r := range snap.Routes {
		port := "-"
		if r.Port != rib.LoopbackPort {
			port = fmt.Sprintf("%d", r.Port)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", r.Prefix, r.NextHop, port, r.Source, r.Metric)
	}
	tw.Flush()
}

// BGPTable writes snap's best-route-per-prefix BGP table as an aligned
// text table.
func BGPTable(w io.Writer, snap device.Snapshot) {
	fmt.Fprintf(w, "bgp table: %s\n", snap.Name)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PREFIX\tAS_PATH\tNEXT-HOP\tLOCAL_PREF\tFROM\tORIGINATED")
	prefixes := make([]netip.Prefix, 0, len(snap.BGP))
	for prefix := range snap.BGP {
		prefixes = append(prefixes, prefix)
	}
	sort.Slice(prefixes, func(i, j int) bool { return prefixes[i].String() < prefixes[j].String() })
	for _, prefix := range prefixes {
		route := snap.BGP[prefix]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%t\n",
			prefix, formatASPath(route.ASPath), route.NextHop, route.LocalPref, route.FromRel, route.Originated)
	}
	tw.Flush()
}

// Tables writes, for every snapshot in snaps in order, the routing table
// if printRIB is set and the BGP table if printBGP is set.
func Tables(w io.Writer, snaps []device.Snapshot, printRIB, printBGP bool) {
	for _, snap := range snaps {
		if printRIB {
			RoutingTable(w, snap)
		}
		if printBGP {
			BGPTable(w, snap)
		}
	}
}

func formatASPath(path []uint32) string {
	if len(path) == 0 {
		return "(origin)"
	}
	out := fmt.Sprintf("%d", path[0])
	for _, hop := range path[1:] {
		out += fmt.Sprintf(" %d", hop)
	}
	return out
}
