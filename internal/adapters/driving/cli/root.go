// Package cli provides the cobra command tree for locselect.
// It is a driving adapter: commands run against driving ports supplied by
// the composition root through SetBootstrap or SetServices.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/locselect/internal/core/ports/driving"
	"github.com/custodia-labs/locselect/internal/logger"
)

// Options carries the global flag values to the bootstrap function.
type Options struct {
	ConfigDir string
	BaseURL   string
	Verbose   bool
}

// Services holds the driving ports commands run against.
type Services struct {
	// Catalog serves one-shot listings and selections.
	Catalog driving.LocationCatalog

	// Selection is the controller driven by the TUI.
	Selection driving.SelectionController

	// Settings manages the configuration file.
	Settings driving.SettingsService

	// ConfigPath is the path of the configuration file.
	ConfigPath string

	// WatchConfig blocks until ctx is done, calling onChange after the
	// configuration file changes. Optional.
	WatchConfig func(ctx context.Context, onChange func()) error

	// ReloadConfig re-reads settings and applies them to the location
	// service. It returns the base URL now in use. Optional.
	ReloadConfig func() (string, error)
}

// Bootstrap builds Services once global flags are parsed.
type Bootstrap func(opts Options) (*Services, error)

var (
	version   = "dev"
	bootstrap Bootstrap
	deps      *Services

	opts Options
)

// errNotConfigured is returned when a command needs a port that was not wired.
var errNotConfigured = errors.New("service not configured")

var rootCmd = &cobra.Command{
	Use:   "locselect",
	Short: "Pick a country, state and city",
	Long: `locselect walks the country, state and city hierarchy served by the
Location Data Service.

Run without arguments in a terminal to open the interactive selector, or use
the subcommands to list options and resolve selections from scripts.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(opts.Verbose)
		if bootstrap == nil {
			return nil
		}
		s, err := bootstrap(opts)
		if err != nil {
			return err
		}
		deps = s
		return nil
	},
	RunE: runRoot,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "print debug logs to stderr")
	rootCmd.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", "", "config directory (default ~/.locselect)")
	rootCmd.PersistentFlags().StringVar(&opts.BaseURL, "base-url", "", "override the Location Data Service base URL")
}

// SetBootstrap sets the function that builds services after flag parsing.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices sets the services directly, bypassing bootstrap.
func SetServices(s *Services) {
	deps = s
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// runRoot opens the TUI when attached to a terminal and prints help otherwise.
func runRoot(cmd *cobra.Command, args []string) error {
	if isTerminal(os.Stdin) && isTerminal(os.Stdout) {
		return runTUI(cmd, args)
	}
	return cmd.Help()
}

// isTerminal reports whether f is attached to a terminal.
var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func catalog() (driving.LocationCatalog, error) {
	if deps == nil || deps.Catalog == nil {
		return nil, errNotConfigured
	}
	return deps.Catalog, nil
}

func settings() (driving.SettingsService, error) {
	if deps == nil || deps.Settings == nil {
		return nil, errNotConfigured
	}
	return deps.Settings, nil
}
