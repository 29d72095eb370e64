// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/locselect/internal/core/domain"
)

// SelectionChanged is raised by a selection input when the user picks a value.
// An empty Value means "no selection".
type SelectionChanged struct {
	Level domain.Level
	Value string
}

// OptionsLoaded carries the result of an option-list fetch back to the event loop.
type OptionsLoaded struct {
	Result domain.FetchResult
}

// ReloadRequested asks the selector to refetch the country list.
type ReloadRequested struct{}

// ConfigReloaded signals the configuration file changed and was applied.
type ConfigReloaded struct {
	BaseURL string
	Err     error
}

// SettingsLoaded is sent when settings have been read.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved is sent after a single setting was written.
type SettingsSaved struct {
	Key string
	Err error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSelector is the cascading country/state/city selector.
	ViewSelector ViewType = iota
	// ViewHelp is the help/keybindings view.
	ViewHelp
	// ViewSettings edits the service settings.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSelector:
		return "selector"
	case ViewHelp:
		return "help"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// Quit signals the application should exit.
type Quit struct{}
