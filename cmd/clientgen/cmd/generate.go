package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/syssam/clientgen/compiler"
	"github.com/syssam/clientgen/compiler/gen"
)

type generateFlags struct {
	modelFlags
	cacheDir string
	watch    bool
	debounce time.Duration
}

func newGenerateCmd(logger func(*cobra.Command) *slog.Logger) *cobra.Command {
	f := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the clients of every service in a model",
		Long: `Generate one <Service>Client.ts file per service of the model.

Generation fails without changing the output directory when one of the
services cannot be generated or written. With --watch the model file is watched and the clients are
regenerated on every change until the command is interrupted.

Examples:
  clientgen generate -m model/weather.yaml -o src
  clientgen generate -m model/weather.yaml -o src --disable-feature docs
  clientgen generate -m model/weather.yaml -o src --feature cache --cache-dir .clientgen`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger(cmd)
			var extra []gen.Option
			if f.cacheDir != "" {
				cache, err := gen.NewDirCache(f.cacheDir)
				if err != nil {
					return errors.Wrap(err, "open cache")
				}
				extra = append(extra, gen.WithCache(cache))
			}
			cfg, err := f.config(cmd, log, extra...)
			if err != nil {
				return err
			}
			run := func(ctx context.Context) error {
				if err := compiler.Generate(ctx, f.model, cfg); err != nil {
					return errors.Wrapf(err, "generate clients for %s", f.model)
				}
				return nil
			}
			if !f.watch {
				return run(cmd.Context())
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := run(ctx); err != nil {
				log.Error("generation failed", "error", err)
			}
			return watchModel(ctx, f.model, f.debounce, log, func() error { return run(ctx) })
		},
	}
	f.register(cmd)
	flags := cmd.Flags()
	flags.StringVar(&f.cacheDir, "cache-dir", "", "Directory caching generated clients (enables the cache feature)")
	flags.BoolVar(&f.watch, "watch", false, "Regenerate when the model file changes")
	flags.DurationVar(&f.debounce, "debounce", defaultDebounce, "Quiet period before regenerating in watch mode")
	return cmd
}
