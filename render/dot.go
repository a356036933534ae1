package render

import (
	"fmt"
	"io"

	"github.com/flowmesh/netsim/topology"
)

// Dot writes topo as Graphviz source: every device is a node (routers
// boxes, switches ellipses), every physical link an undirected edge, and
// every configured BGP session an additional edge in a style distinct
// from a physical link and from the other session kinds (spec.md §6).
func Dot(w io.Writer, topo *topology.Topology) {
	fmt.Fprintln(w, "graph netsim {")
	for _, r := range topo.Routers {
		fmt.Fprintf(w, "  %q [shape=box, label=%q];\n", r.Name, fmt.Sprintf("%s\\nAS%d", r.Name, r.AS))
	}
	for _, s := range topo.Switches {
		fmt.Fprintf(w, "  %q [shape=ellipse];\n", s.Name)
	}

	fmt.Fprintln(w, "  edge [style=solid, color=black];")
	for _, l := range topo.Links {
		fmt.Fprintf(w, "  %q -- %q;\n", l.A, l.B)
	}

	for _, s := range topo.Sessions {
		fmt.Fprintf(w, "  %q -- %q [%s];\n", s.Provider, s.Customer, sessionStyle(s.Kind))
	}

	fmt.Fprintln(w, "}")
}

func sessionStyle(kind topology.SessionKind) string {
	switch kind {
	case topology.ProviderCustomer:
		return `style=dashed, color=blue, constraint=false`
	case topology.Peer:
		return `style=dotted, color=darkgreen, constraint=false`
	case topology.IBGP:
		return `style=bold, color=red, constraint=false`
	default:
		return `style=dashed, color=gray, constraint=false`
	}
}
