package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/locselect/internal/core/domain"
)

var listFormat string

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List countries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runList(cmd, domain.LevelCountry, domain.SelectionKey{})
	},
}

var statesCmd = &cobra.Command{
	Use:   "states <country>",
	Short: "List the states of a country",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd, domain.LevelState, domain.SelectionKey{Country: args[0]})
	},
}

var citiesCmd = &cobra.Command{
	Use:   "cities <country> <state>",
	Short: "List the cities of a state",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd, domain.LevelCity, domain.SelectionKey{Country: args[0], State: args[1]})
	},
}

func init() {
	for _, c := range []*cobra.Command{countriesCmd, statesCmd, citiesCmd} {
		addOutputFlag(c, &listFormat)
		rootCmd.AddCommand(c)
	}
}

func runList(cmd *cobra.Command, level domain.Level, key domain.SelectionKey) error {
	if err := validateFormat(listFormat); err != nil {
		return err
	}
	cat, err := catalog()
	if err != nil {
		return err
	}

	names, err := cat.List(cmd.Context(), level, key)
	if err != nil {
		return err
	}

	if listFormat != formatTable {
		return printStructured(cmd, listFormat, names)
	}
	printNames(cmd, level.Plural(), names)
	return nil
}
