package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by -o.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func addOutputFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "output", "o", formatTable, "output format: table, json or yaml")
}

func validateFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

// printStructured writes v as JSON or YAML.
func printStructured(cmd *cobra.Command, format string, v any) error {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		cmd.Println(string(data))
	case formatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		cmd.Print(string(data))
	default:
		return validateFormat(format)
	}
	return nil
}

// printNames writes names as a numbered list under a plural heading.
func printNames(cmd *cobra.Command, plural string, names []string) {
	if len(names) == 0 {
		cmd.Printf("No %s found.\n", plural)
		return
	}
	cmd.Printf("%s%s (%d):\n", strings.ToUpper(plural[:1]), plural[1:], len(names))
	width := len(fmt.Sprint(len(names)))
	for i, name := range names {
		cmd.Printf("  %*d. %s\n", width, i+1, name)
	}
}
