// Package cli implements the revgrad command tree.
package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/born-ml/revgrad/internal/config"
	"github.com/born-ml/revgrad/internal/logging"
	"github.com/born-ml/revgrad/internal/tracing"
)

// ErrCheckFailed is returned by the check command when a gradient component
// disagrees with its finite-difference estimate.
var ErrCheckFailed = errors.New("gradient check failed")

// app holds state shared by all commands of one invocation.
type app struct {
	version string

	configPath string
	logLevel   string
	logFormat  string
	trace      bool

	cfg      config.Config
	logger   *slog.Logger
	shutdown func(context.Context) error
}

// Run executes the command line args and flushes any exported spans.
func Run(ctx context.Context, version string, args []string, stdout, stderr io.Writer) error {
	a := &app{
		version: version,
		cfg:     config.Default(),
		logger:  logging.Discard(),
	}

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if a.shutdown != nil {
		err = errors.Join(err, a.shutdown(context.WithoutCancel(ctx)))
	}
	return err
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "revgrad",
		Short: "Reverse-mode gradients of single-expression functions",
		Long: `revgrad builds the computation graph of a single-expression function and
evaluates its value and gradient with reverse-mode automatic differentiation.

Functions are written in Go:

  func(x, y float64) float64 { return x*y + math.Sin(math.Pow(x, 2)) }

or in HCL:

  params = ["x", "y"]
  body   = x * y + sin(pow(x, 2))`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: text or json")
	flags.BoolVar(&a.trace, "trace", false, "export spans to stderr")

	root.AddCommand(
		a.evalCommand(),
		a.batchCommand(),
		a.checkCommand(),
		a.inspectCommand(),
		a.opsCommand(),
		a.versionCommand(),
	)
	return root
}

// setup loads configuration, applies flag overrides and starts logging and tracing.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	if flags.Changed("trace") {
		cfg.Trace.Enabled = a.trace
	}
	if flags.Lookup("parser") != nil && flags.Changed("parser") {
		cfg.Parser, _ = flags.GetString("parser")
	}
	if flags.Lookup("workers") != nil && flags.Changed("workers") {
		cfg.Batch.Workers, _ = flags.GetInt("workers")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	a.logger = logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	a.logger.Debug("configuration loaded",
		"path", a.configPath,
		"parser", cfg.Parser,
		"workers", cfg.Batch.Workers,
		"trace", cfg.Trace.Enabled)

	if cfg.Trace.Enabled {
		shutdown, err := tracing.Setup(cmd.Context(), cmd.ErrOrStderr(), a.version)
		if err != nil {
			return err
		}
		a.shutdown = shutdown
	}
	return nil
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), "revgrad "+a.version+"\n")
			return err
		},
	}
}
