package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/born-ml/revgrad/internal/ops"
)

func (a *app) opsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List the supported operators and functions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := ops.Default()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SYMBOL\tARITY")
			for _, sym := range reg.Symbols() {
				def, err := reg.Lookup(sym)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%d\n", sym, def.Arity)
			}
			return tw.Flush()
		},
	}
}
