package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) evalCommand() *cobra.Command {
	var (
		src    source
		at     []float64
		output string
	)

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate a function and its gradient at one point",
		Example: `  revgrad eval -e 'func(x, y float64) float64 { return x * y }' --at 2,3
  revgrad eval -f f.hcl --parser hcl --at 2,3 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fn, err := a.load(cmd, &src)
			if err != nil {
				return err
			}
			if at == nil {
				at = []float64{}
			}

			res, err := fn.Call(at...)
			if err != nil {
				return err
			}
			a.logger.Info("evaluated", "id", fn.ID(), "at", at, "value", res.Value)

			ev := newEvaluation(at, res)
			switch output {
			case "json":
				return writeJSON(cmd.OutOrStdout(), ev)
			case "text":
				return writeText(cmd.OutOrStdout(), fn.Params(), ev)
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
		},
	}

	src.register(cmd)
	cmd.Flags().Float64SliceVar(&at, "at", nil, "comma-separated argument values, one per parameter")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	return cmd
}
