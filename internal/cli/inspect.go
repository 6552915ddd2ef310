package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) inspectCommand() *cobra.Command {
	var (
		src source
		at  []float64
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the computation graph of a function",
		Long: `Print the nodes of the computation graph in evaluation order. With --at the
graph is evaluated first, so values, adjoints and edge weights are filled in.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fn, err := a.load(cmd, &src)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "id: %s\nparams: %v\n\n", fn.ID(), fn.Params())
			if cmd.Flags().Changed("at") {
				if _, err := fn.Call(at...); err != nil {
					return err
				}
			}
			return fn.Dump(cmd.OutOrStdout())
		},
	}

	src.register(cmd)
	cmd.Flags().Float64SliceVar(&at, "at", nil, "evaluate at these argument values before printing")
	return cmd
}
