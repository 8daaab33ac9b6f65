package main

import (
	"github.com/Invicton-Labs/go-exponent/config"
	"github.com/Invicton-Labs/go-exponent/evaluator"
	"github.com/Invicton-Labs/go-exponent/log"
	"github.com/Invicton-Labs/go-stackerr"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

const appName = "exponentiator"

// options holds the global flags and everything built from them
// before a subcommand runs.
type options struct {
	configPath    string
	tolerance     float64
	maxIterations int
	development   bool
	logLevel      string

	cfg       *config.Config
	evaluator *evaluator.Evaluator
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   appName,
		Short: "Raise real numbers to real powers with Taylor series",
		Long: `exponentiator computes x^y for any real x and y using only Taylor series
for ln, exp and cos. A negative base with a fractional exponent yields a
complex result.

Negative numbers must follow a -- separator so they aren't read as flags:
  exponentiator eval -- -4.3125 16.375`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.setup(cmd); err != nil {
				return err
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = log.Default().Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", appName+".yaml", "Path to a YAML config file (defaults are used if it doesn't exist)")
	flags.Float64Var(&opts.tolerance, "tolerance", 0, "Series convergence tolerance (overrides the config file)")
	flags.IntVar(&opts.maxIterations, "max-iterations", 0, "Maximum number of terms per series (overrides the config file)")
	flags.BoolVar(&opts.development, "development", false, "Use human-readable development logging")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides the config file)")

	root.AddCommand(
		newEvalCmd(opts),
		newInteractiveCmd(opts),
		newSelftestCmd(opts),
	)
	return root
}

func (o *options) setup(cmd *cobra.Command) stackerr.Error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("tolerance") {
		cfg.Series.Tolerance = o.tolerance
	}
	if flags.Changed("max-iterations") {
		cfg.Series.MaxIterations = o.maxIterations
	}
	if flags.Changed("development") {
		cfg.Logging.Development = o.development
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logInput, err := cfg.LoggerInput(appName)
	if err != nil {
		return err
	}
	logInput.Output = zapcore.AddSync(cmd.ErrOrStderr())
	log.InitDefault(logInput)

	e, err := evaluator.New(evaluator.NewInput{
		Config:             cfg.ExponentConfig(),
		CacheMaxSizeBytes:  cfg.Cache.MaxSizeBytes,
		CacheMaxAgeSeconds: cfg.Cache.MaxAgeSeconds,
		Concurrency:        cfg.Batch.Concurrency,
	})
	if err != nil {
		return err
	}
	o.cfg = cfg
	o.evaluator = e
	log.Debugw("Loaded configuration", "path", o.configPath, "tolerance", cfg.Series.Tolerance, "max_iterations", cfg.Series.MaxIterations)
	return nil
}
