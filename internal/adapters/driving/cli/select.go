package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/locselect/internal/core/domain"
)

var selectFormat string

var selectCmd = &cobra.Command{
	Use:   "select <country> [state] [city]",
	Short: "Resolve a selection against the service",
	Long: `Walk the hierarchy the same way the interactive selector does: load the
countries, pick the country, load its states, and so on.

Each name must be one of the options served for its level. When it is not,
the closest option is suggested. When the selection stops short of a city,
the options for the next level are listed.`,
	Args: cobra.RangeArgs(1, 3),
	RunE: runSelect,
}

func init() {
	addOutputFlag(selectCmd, &selectFormat)
	rootCmd.AddCommand(selectCmd)
}

// selectOutput is the structured form of a select result.
type selectOutput struct {
	Selection    domain.Selection `json:"selection" yaml:"selection"`
	Confirmation string           `json:"confirmation,omitempty" yaml:"confirmation,omitempty"`
	NextLevel    string           `json:"next_level,omitempty" yaml:"next_level,omitempty"`
	Options      []string         `json:"options,omitempty" yaml:"options,omitempty"`
}

func runSelect(cmd *cobra.Command, args []string) error {
	if err := validateFormat(selectFormat); err != nil {
		return err
	}
	cat, err := catalog()
	if err != nil {
		return err
	}

	var sel domain.Selection
	for i, name := range args {
		switch domain.Level(i) {
		case domain.LevelCountry:
			sel.Country = name
		case domain.LevelState:
			sel.State = name
		case domain.LevelCity:
			sel.City = name
		}
	}

	state, err := cat.Select(cmd.Context(), sel)
	if err != nil {
		return err
	}

	out := selectOutput{
		Selection:    state.Selection,
		Confirmation: state.Selection.Confirmation(),
	}
	if next, ok := nextLevel(state.Selection); ok {
		out.NextLevel = next.String()
		out.Options = state.Options(next)
	}

	if selectFormat != formatTable {
		return printStructured(cmd, selectFormat, out)
	}

	for _, level := range domain.AllLevels() {
		value := state.Selection.Get(level)
		if value == "" {
			value = "(none)"
		}
		cmd.Printf("%-8s %s\n", level.Title()+":", value)
	}
	cmd.Println()

	if out.Confirmation != "" {
		cmd.Println(out.Confirmation)
		return nil
	}
	if next, ok := nextLevel(state.Selection); ok {
		printNames(cmd, next.Plural(), out.Options)
	}
	return nil
}

// nextLevel returns the first level without a selection.
func nextLevel(sel domain.Selection) (domain.Level, bool) {
	for _, level := range domain.AllLevels() {
		if sel.Get(level) == "" {
			return level, true
		}
	}
	return 0, false
}
