package cli

import (
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/diff/fd"
)

func (a *app) checkCommand() *cobra.Command {
	var (
		src source
		at  []float64
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compare reverse-mode gradients with central finite differences",
		Long: `Compare every gradient component with a central finite-difference
estimate. The step and the absolute tolerance come from the check section of
the configuration. The command fails if any component is out of tolerance.`,
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

			// The estimator calls back into fn, so its own arity and
			// evaluation errors surface through callErr.
			var callErr error
			value := func(x []float64) float64 {
				r, err := fn.Call(x...)
				if err != nil && callErr == nil {
					callErr = err
				}
				return r.Value
			}
			estimate := fd.Gradient(nil, value, at, &fd.Settings{
				Formula: fd.Central,
				Step:    a.cfg.Check.Step,
			})
			if callErr != nil {
				return callErr
			}

			failed := 0
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PARAM\tREVERSE\tFINITE DIFF\tABS DIFF\t")
			for i, name := range fn.Params() {
				diff := math.Abs(res.Gradients[i] - estimate[i])
				status := "ok"
				if !(diff <= a.cfg.Check.Tolerance) {
					status = "FAIL"
					failed++
				}
				fmt.Fprintf(tw, "%s\t%g\t%g\t%.3g\t%s\n", name, res.Gradients[i], estimate[i], diff, status)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			a.logger.Info("gradient checked", "id", fn.ID(), "failed", failed, "tolerance", a.cfg.Check.Tolerance)
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d components exceed tolerance %g",
					ErrCheckFailed, failed, fn.Arity(), a.cfg.Check.Tolerance)
			}
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().Float64SliceVar(&at, "at", nil, "comma-separated argument values, one per parameter")
	return cmd
}
