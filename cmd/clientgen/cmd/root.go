// Package cmd implements the clientgen command line.
package cmd

import (
	"io"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/syssam/clientgen/compiler/gen"
)

// NewRootCmd returns the clientgen command with its subcommands.
func NewRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "clientgen",
		Short: "Generate TypeScript service clients from a service model",
		Long: `Generate TypeScript service clients from a service model.

The model file (YAML or JSON) declares services, the resources and operations
they contain, the protocol spoken by the clients and the runtime plugins that
contribute configuration, middleware and cleanup to each client.

Examples:
  clientgen generate -m model/weather.yaml -o src
  clientgen generate -m model/weather.yaml -o src --watch
  clientgen check -m model/weather.yaml -o src`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")

	logger := func(cmd *cobra.Command) *slog.Logger {
		return newLogger(cmd.ErrOrStderr(), verbose)
	}
	root.AddCommand(newGenerateCmd(logger), newCheckCmd(logger))
	return root
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// modelFlags are the flags shared by every command reading a model.
type modelFlags struct {
	model    string
	out      string
	header   string
	features []string
	disabled []string
	workers  int
}

func (f *modelFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.model, "model", "m", "", "Model file (YAML or JSON)")
	flags.StringVarP(&f.out, "out", "o", "", "Output directory of the generated clients")
	flags.StringVar(&f.header, "header", "", "Header comment of generated files")
	flags.StringSliceVar(&f.features, "feature", nil, "Enable features (docs, endpoints, cache)")
	flags.StringSliceVar(&f.disabled, "disable-feature", nil, "Disable features")
	flags.IntVarP(&f.workers, "workers", "w", 0, "Services generated in parallel (default: GOMAXPROCS)")
	_ = cmd.MarkFlagRequired("model")
	_ = cmd.MarkFlagRequired("out")
}

// options translates the flags into generator options.
func (f *modelFlags) options(cmd *cobra.Command, logger *slog.Logger) []gen.Option {
	opts := []gen.Option{
		gen.WithTarget(f.out),
		gen.WithLogger(logger),
		gen.WithWorkers(f.workers),
	}
	if cmd.Flags().Changed("header") {
		opts = append(opts, gen.WithHeader(f.header))
	}
	if len(f.features) > 0 {
		opts = append(opts, gen.WithFeatureNames(f.features...))
	}
	if len(f.disabled) > 0 {
		opts = append(opts, gen.WithoutFeatures(f.disabled...))
	}
	return opts
}

func (f *modelFlags) config(cmd *cobra.Command, logger *slog.Logger, extra ...gen.Option) (*gen.Config, error) {
	cfg, err := gen.NewConfig(append(f.options(cmd, logger), extra...)...)
	if err != nil {
		return nil, errors.Wrap(err, "invalid generator options")
	}
	return cfg, nil
}
