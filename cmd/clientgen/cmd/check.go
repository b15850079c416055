package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/syssam/clientgen/compiler"
)

// ErrStale is returned by check when generated clients are out of date.
var ErrStale = errors.New("generated clients are out of date")

func newCheckCmd(logger func(*cobra.Command) *slog.Logger) *cobra.Command {
	f := &modelFlags{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that the generated clients are up to date",
		Long: `Check that the clients under the output directory match the model.

The clients are generated in memory and compared with the files on disk.
Nothing is written. The command fails when a client is missing or differs.

Examples:
  clientgen check -m model/weather.yaml -o src`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.config(cmd, logger(cmd))
			if err != nil {
				return err
			}
			stale, err := compiler.Check(cmd.Context(), f.model, cfg)
			if err != nil {
				return errors.Wrapf(err, "check clients for %s", f.model)
			}
			out := cmd.OutOrStdout()
			if len(stale) == 0 {
				fmt.Fprintln(out, "✓ Clients are up to date")
				return nil
			}
			fmt.Fprintln(out, "✗ Clients are out of date:")
			for _, name := range stale {
				fmt.Fprintf(out, "  - %s\n", name)
			}
			return errors.Wrapf(ErrStale, "run 'clientgen generate' to update %s", strings.Join(stale, ", "))
		},
	}
	f.register(cmd)
	return cmd
}
