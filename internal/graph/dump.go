package graph

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Dump writes the evaluation order, one node per line, with current values,
// adjoints and incoming edges.
func (g *Graph) Dump(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tLABEL\tVALUE\tADJOINT\tINCOMING")
	for _, id := range g.order {
		n := &g.nodes[id]

		edges := make([]string, len(n.Incoming))
		for i, e := range n.Incoming {
			edges[i] = fmt.Sprintf("%d×%g", e.From, e.Weight)
		}

		value, adjoint := fmt.Sprintf("%g", n.Value), fmt.Sprintf("%g", n.Adjoint)
		if n.Kind == Operation {
			value, adjoint = "-", "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			id, n.Kind, n.Label(), value, adjoint, strings.Join(edges, " "))
	}
	return tw.Flush()
}
