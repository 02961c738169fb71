package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/anchorlayout/pkg/buildinfo"
	"github.com/matzehuels/anchorlayout/pkg/cache"
	"github.com/matzehuels/anchorlayout/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "anchorlayout"

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
	Config *Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: &Config{},
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
		Short: "Anchorlayout solves constraint-based box layouts",
		Long: `Anchorlayout resolves the frames of widgets whose positions are declared as
anchor connections (left/right/top/bottom/baseline), chains, guidelines and
barriers. Layout documents are TOML or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, explicit := c.configPath, cmd.Flags().Changed("config")
			if path == "" {
				path = defaultConfigPath()
			}
			cfg, err := loadConfig(path, explicit)
			if err != nil {
				return err
			}
			c.Config = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/anchorlayout/config.toml)")

	// Register all subcommands
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache || c.Config.Cache.Disable || c.Config.Cache.Dir == "" {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(c.Config.Cache.Dir)
}

// solveFlags registers the engine stage flags shared by solve, inspect and
// graph on top of the configured defaults.
func (c *CLI) solveFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().BoolVar(&opts.DisableDirect, "no-direct", false, "skip the direct anchor-solving pass")
	cmd.Flags().BoolVar(&opts.DisableGraph, "no-graph", false, "skip the dependency-graph pass")
	cmd.Flags().BoolVar(&opts.DisableSolver, "no-solver", false, "skip the linear-system fallback")
	cmd.Flags().BoolVar(&opts.DisableWrapOptimization, "no-wrap", false, "do not size wrap-content containers from their content")
}

// mergeOptions ORs the configured defaults into flag values.
func (c *CLI) mergeOptions(opts pipeline.Options) pipeline.Options {
	def := c.Config.Solve
	opts.DisableDirect = opts.DisableDirect || def.DisableDirect
	opts.DisableGraph = opts.DisableGraph || def.DisableGraph
	opts.DisableSolver = opts.DisableSolver || def.DisableSolver
	opts.DisableWrapOptimization = opts.DisableWrapOptimization || def.DisableWrapOptimization
	opts.Logger = c.Logger
	return opts
}
