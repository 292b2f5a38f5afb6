// Package cli implements the graphrank command-line interface.
package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphrank/internal/config"
	"github.com/matzehuels/graphrank/pkg/buildinfo"
	"github.com/matzehuels/graphrank/pkg/cache"
	apperrors "github.com/matzehuels/graphrank/pkg/errors"
	"github.com/matzehuels/graphrank/pkg/observability"
	"github.com/matzehuels/graphrank/pkg/pipeline"
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

	configPath string
	verbose    bool
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Defaults(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Graphrank keeps the K graphs with the shortest total distances",
		Long: `Graphrank reads a stream of weighted directed graphs, scores each one by the
sum of shortest-path distances from vertex 0, and answers TopK queries with the
indices of the K best graphs seen so far.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/graphrank/config.toml)")

	// Register all subcommands
	root.AddCommand(c.runCommand())
	root.AddCommand(c.evalCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.genCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// skipConfigAnnotation marks commands that must work without a readable
// config file.
const skipConfigAnnotation = "graphrank/skip-config"

// setup loads the config file, settles the log level and attaches the
// logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[skipConfigAnnotation] == "" {
		cfg, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		c.cfg = cfg
	}

	level := LogDebug
	if !c.verbose {
		var err error
		if level, err = log.ParseLevel(c.cfg.Log.Level); err != nil {
			level = LogInfo
		}
	}
	c.SetLogLevel(level)

	hooks := logHooks{logger: c.Logger}
	observability.SetEvalHooks(hooks)
	observability.SetRankingHooks(hooks)
	observability.SetCacheHooks(hooks)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. backend is ignored when
// useCache is false.
func (c *CLI) newRunner(useCache bool, backend string) (*pipeline.Runner, error) {
	if !useCache {
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger), nil
	}
	switch backend {
	case config.CacheBackendMemory:
		return pipeline.NewRunner(cache.NewMemoryCache(0), nil, c.Logger), nil
	case config.CacheBackendFile:
		dir, err := c.cfg.ResolvedCacheDir()
		if err != nil {
			c.Logger.Warn("cache disabled", "reason", err)
			return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return pipeline.NewRunner(fc, versionKeyer(), c.Logger), nil
	}
	return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown cache backend %q (valid: %s)",
		backend, strings.Join(config.CacheBackends, ", "))
}

// versionKeyer scopes file cache keys to this build so entries written by
// another version are never read back.
func versionKeyer() cache.Keyer {
	return cache.NewScopedKeyer(nil, "v"+strings.TrimPrefix(buildinfo.Version, "v")+":")
}

// pipelineOptions builds run options from the config, letting explicitly set
// flags win.
func (c *CLI) pipelineOptions(cmd *cobra.Command, strategy string, source int) pipeline.Options {
	opts := pipeline.Options{
		Strategy: c.cfg.Strategy,
		Source:   c.cfg.Source,
		CacheTTL: c.cfg.Cache.TTL.Duration,
	}
	if cmd.Flags().Changed("strategy") {
		opts.Strategy = strategy
	}
	if cmd.Flags().Changed("source") {
		opts.Source = source
	}
	return opts
}

// cacheEnabled resolves the --cache flag against the config file.
func (c *CLI) cacheEnabled(cmd *cobra.Command, flag bool) bool {
	if cmd.Flags().Changed("cache") {
		return flag
	}
	return c.cfg.Cache.Enabled
}

// cacheBackend resolves --cache-backend: the flag if set, then the config
// file, then the command's own default.
func (c *CLI) cacheBackend(cmd *cobra.Command, flag, fallback string) string {
	if cmd.Flags().Changed("cache-backend") {
		return flag
	}
	if c.cfg.Cache.Backend != "" {
		return c.cfg.Cache.Backend
	}
	return fallback
}
