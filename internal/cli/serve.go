package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/atlantix-eda/aeda/pkg/api"
	errs "github.com/atlantix-eda/aeda/pkg/errors"
	"github.com/atlantix-eda/aeda/pkg/observability"
)

// serveCommand creates the serve command that runs the HTTP job API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generation API over HTTP",
		Long: `Serve runs the HTTP API: lookup tables, record previews and background
generation jobs whose files can be downloaded once written. Prometheus
metrics are exposed at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if output == "" {
				output = filepath.Join(c.dataDir, "jobs")
			}
			if err := os.MkdirAll(output, 0o755); err != nil {
				return errs.Wrap(errs.ErrCodeIO, &errs.FileError{Path: output, Err: err}, "create job directory")
			}

			if c.metrics == nil {
				c.metrics = observability.NewMetrics()
				c.metrics.Register()
			}

			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			s := api.New(runner, output, api.WithLogger(c.Logger), api.WithMetrics(c.metrics))
			printInfo("Serving on %s", StyleHighlight.Render(addr))
			printDetail("Job files: %s", output)
			return s.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	cmd.Flags().StringVarP(&output, "output", "o", "", "job output root (default {data-dir}/jobs)")
	return cmd
}
