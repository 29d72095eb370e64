package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configFormat string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change the settings stored in the configuration file.

Keys:
  service.base_url             Location Data Service base URL
  service.timeout_seconds      Per-request timeout
  service.requests_per_second  Sustained request rate (0 disables throttling)
  service.burst                Requests allowed in a burst
  service.escape_path          Path-escape names before substitution`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a single setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if deps == nil || deps.ConfigPath == "" {
			return errNotConfigured
		}
		cmd.Println(deps.ConfigPath)
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigReset,
}

func init() {
	addOutputFlag(configShowCmd, &configFormat)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configResetCmd)
	rootCmd.AddCommand(configCmd)
}

// configEntry is one key and its current value.
type configEntry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if err := validateFormat(configFormat); err != nil {
		return err
	}
	svc, err := settings()
	if err != nil {
		return err
	}

	current, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	entries := make([]configEntry, 0, len(svc.Keys()))
	for _, key := range svc.Keys() {
		entries = append(entries, configEntry{Key: key, Value: current.Value(key)})
	}

	if configFormat != formatTable {
		return printStructured(cmd, configFormat, entries)
	}

	for _, e := range entries {
		cmd.Printf("%-28s %s\n", e.Key, e.Value)
	}
	if err := current.Service.Validate(); err != nil {
		cmd.Println()
		cmd.Printf("Warning: %v\n", err)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	svc, err := settings()
	if err != nil {
		return err
	}

	if err := svc.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("Set %s = %s\n", args[0], args[1])
	return nil
}

func runConfigReset(cmd *cobra.Command, _ []string) error {
	svc, err := settings()
	if err != nil {
		return err
	}

	defaults := svc.GetDefaults()
	if err := svc.Save(&defaults); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Println("Settings restored to defaults.")
	return nil
}
