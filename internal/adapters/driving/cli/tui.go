package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/locselect/internal/adapters/driving/tui"
	"github.com/custodia-labs/locselect/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/locselect/internal/logger"
)

// LogFileName is the file TUI sessions log to, next to the config file.
const LogFileName = "locselect.log"

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive selector",
	Long: `Launch the interactive country, state and city selector.

Each dropdown is enabled once the level above it has a value. Changing a
level clears everything below it and loads the new options.

Controls:
  tab/shift+tab, ↑/↓   Move between fields
  enter/space          Open the focused dropdown
  (type)               Filter an open dropdown
  x                    Clear the focused field
  r                    Reload countries
  s                    Edit service settings
  ?                    Toggle help
  q, ctrl+c            Quit

Logs are written to locselect.log in the config directory while the TUI runs.
Edits to the config file are applied without restarting.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if deps == nil || deps.Selection == nil {
		return errNotConfigured
	}
	defer deps.Selection.Close()

	// Log lines would corrupt the alt screen.
	if closeLog := redirectLog(deps.ConfigPath); closeLog != nil {
		defer closeLog()
	}

	app, err := tui.NewApp(tui.NewPorts(deps.Selection, deps.Settings))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	p := app.WithContext(ctx).Program()

	if deps.WatchConfig != nil && deps.ReloadConfig != nil {
		go func() {
			err := deps.WatchConfig(ctx, func() {
				baseURL, err := deps.ReloadConfig()
				p.Send(messages.ConfigReloaded{BaseURL: baseURL, Err: err})
			})
			if err != nil {
				logger.Warn("config watch stopped: %v", err)
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

// redirectLog sends logger output to LogFileName next to configPath.
// It returns a function restoring the previous output, or nil when the file
// could not be opened.
func redirectLog(configPath string) func() {
	if configPath == "" {
		return nil
	}

	path := filepath.Join(filepath.Dir(configPath), LogFileName)
	restore, err := logger.ToFile(path)
	if err != nil {
		logger.Warn("cannot redirect log to %s: %v", path, err)
		return nil
	}
	return restore
}
