package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func (a *app) batchCommand() *cobra.Command {
	var (
		src        source
		pointsFile string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Evaluate a function and its gradient at many points in parallel",
		Long: `Evaluate a function at every point of a points file. Each line holds one
comma-separated point; blank lines and lines starting with # are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fn, err := a.load(cmd, &src)
			if err != nil {
				return err
			}

			f, err := os.Open(pointsFile)
			if err != nil {
				return fmt.Errorf("open points: %w", err)
			}
			defer f.Close()
			points, err := readPoints(f)
			if err != nil {
				return fmt.Errorf("read points %s: %w", pointsFile, err)
			}

			results, err := fn.Batch(cmd.Context(), points, a.cfg.Batch.Workers)
			if err != nil {
				return err
			}
			a.logger.Info("batch evaluated", "id", fn.ID(), "points", len(points), "workers", a.cfg.Batch.Workers)

			evs := make([]evaluation, len(points))
			for i := range points {
				evs[i] = newEvaluation(points[i], results[i])
			}

			switch output {
			case "json":
				return writeJSON(cmd.OutOrStdout(), evs)
			case "text":
				for _, ev := range evs {
					if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%g\t%v\n", formatPoint(ev.At), ev.Value, ev.Gradients); err != nil {
						return err
					}
				}
				return nil
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&pointsFile, "points", "", "file with one comma-separated point per line")
	cmd.Flags().Int("workers", 0, "parallel workers (default: one per CPU)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	_ = cmd.MarkFlagRequired("points")
	return cmd
}
