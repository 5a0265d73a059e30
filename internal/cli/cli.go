package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/atlantix-eda/aeda/pkg/buildinfo"
	"github.com/atlantix-eda/aeda/pkg/cache"
	"github.com/atlantix-eda/aeda/pkg/config"
	errs "github.com/atlantix-eda/aeda/pkg/errors"
	"github.com/atlantix-eda/aeda/pkg/observability"
	"github.com/atlantix-eda/aeda/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Global flags.
	dataDir     string
	noCache     bool
	metricsFile string

	// Resolved in the root pre-run.
	cfg     *config.Config
	metrics *observability.Metrics
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Atlantix EDA generates resistor and capacitor libraries",
		Long:          `aeda expands E-series resistor values across SMD packages and writes ready-to-use component libraries for KiCad, Altium and Stencil.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.flushMetrics()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.dataDir, "data-dir", "", "data directory (default $AEDA_HOME or ~/.local/share/aeda)")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the artifact cache")
	flags.StringVar(&c.metricsFile, "metrics-file", "", "write prometheus metrics to this textfile on exit")

	// Register all subcommands
	root.AddCommand(c.initCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.verifyCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup resolves the data directory, loads config.toml and attaches the
// logger to the command context.
func (c *CLI) setup(cmd *cobra.Command) error {
	if c.dataDir == "" {
		dir, err := config.DataDir()
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidPath, err, "resolve data directory")
		}
		c.dataDir = dir
	}

	cfg, err := config.Load(config.Path(c.dataDir))
	if err != nil {
		return err
	}
	c.cfg = cfg

	if c.metricsFile != "" {
		c.metrics = observability.NewMetrics()
		c.metrics.Register()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	c.Logger.Debug("loaded config", "data_dir", c.dataDir, "cache", cfg.Cache.Backend)
	return nil
}

func (c *CLI) flushMetrics() error {
	if c.metrics == nil || c.metricsFile == "" {
		return nil
	}
	if err := c.metrics.WriteTextfile(c.metricsFile); err != nil {
		return errs.Wrap(errs.ErrCodeIO, &errs.FileError{Path: c.metricsFile, Err: err}, "write metrics")
	}
	c.Logger.Debug("wrote metrics", "path", c.metricsFile)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use with the configured cache
// backend.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if ns := c.cfg.Cache.Namespace; ns != "" {
		keyer = cache.NewScopedKeyer(nil, ns)
	}
	r := pipeline.NewRunner(ch, keyer, c.Logger)
	if ttl, err := c.cfg.CacheTTL(); err == nil {
		r.TTL = ttl
	}
	return r, nil
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	backend, err := cache.ParseBackend(c.cfg.Cache.Backend)
	if err != nil {
		return nil, err
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	ch, err := cache.Open(ctx, backend, dir, c.cfg.Cache.RedisURL)
	if errors.Is(err, cache.ErrUnavailable) {
		c.Logger.Warn("cache unavailable, continuing without it", "backend", backend, "err", err)
		return cache.NewNullCache(), nil
	}
	return ch, err
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the artifact cache directory (~/.cache/aeda/).
func cacheDir() (string, error) {
	return config.CacheDir()
}

// =============================================================================
// Errors
// =============================================================================

// FormatError renders err for the terminal: the code followed by the user
// message. Joined errors print one line each.
func FormatError(err error) string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var lines []string
		for _, e := range joined.Unwrap() {
			lines = append(lines, FormatError(e))
		}
		return strings.Join(lines, "\n")
	}
	code := errs.GetCode(err)
	if code == "" {
		return err.Error()
	}
	msg := errs.UserMessage(err)
	var fe *errs.FileError
	if errors.As(err, &fe) {
		msg += ": " + fe.Err.Error()
	}
	return fmt.Sprintf("%s %s", code, msg)
}
