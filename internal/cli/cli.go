// Package cli implements the crateinfo command-line interface.
//
// The commands query crates.io through pkg/integrations/crates:
//   - info: show a crate's metadata record
//   - latest: print the latest non-yanked version of a crate
//   - versions: list published versions, optionally in an interactive browser
//   - outdated: compare a Cargo.toml against crates.io
//   - serve: expose lookups over HTTP
//   - config: inspect the configuration file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs every registry request. Loggers are passed through context.Context.
package cli

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/crateinfo/pkg/buildinfo"
	"github.com/matzehuels/crateinfo/pkg/config"
	"github.com/matzehuels/crateinfo/pkg/integrations"
	"github.com/matzehuels/crateinfo/pkg/integrations/crates"
	"github.com/matzehuels/crateinfo/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "crateinfo"

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

	// Set by persistent flags.
	configPath string
	apiRoot    string

	loadOnce sync.Once
	cfg      *config.Config
	loadErr  error
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level every registry
// request and crate query is logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := logHooks{logger: c.Logger}
		observability.SetHTTPHooks(hooks)
		observability.SetQueryHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "crateinfo looks up Rust crates on crates.io",
		Long:          `crateinfo queries the crates.io registry for crate metadata, reports the latest usable version of a crate, and checks Cargo manifests for outdated dependencies.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/crateinfo/config.toml)")
	root.PersistentFlags().StringVar(&c.apiRoot, "api-root", "", "crates.io API root (overrides config)")

	root.AddCommand(c.infoCommand())
	root.AddCommand(c.latestCommand())
	root.AddCommand(c.versionsCommand())
	root.AddCommand(c.outdatedCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Client
// =============================================================================

// resolveConfigPath returns the --config flag or the default location.
func (c *CLI) resolveConfigPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.Path()
}

// config loads the configuration once per CLI.
func (c *CLI) config() (*config.Config, error) {
	c.loadOnce.Do(func() {
		path, err := c.resolveConfigPath()
		if err != nil {
			c.loadErr = err
			return
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.loadErr = err
			return
		}
		if c.apiRoot != "" {
			cfg.APIRoot = c.apiRoot
			if err := cfg.Validate(); err != nil {
				c.loadErr = err
				return
			}
		}
		c.cfg = cfg
	})
	return c.cfg, c.loadErr
}

// newClient builds a crates.io client from the configuration.
func (c *CLI) newClient() (*crates.Client, *config.Config, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, nil, err
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = buildinfo.UserAgent()
	}
	client := crates.NewClient(
		crates.WithBaseURL(cfg.APIRoot),
		crates.WithUserAgent(ua),
		crates.WithHTTPClient(integrations.NewHTTPClient(cfg.Timeout.Duration)),
		crates.WithLogger(c.Logger),
	)
	return client, cfg, nil
}
