package domain

import "slices"

// Level identifies one tier of the location hierarchy.
type Level int

// Hierarchy levels, outermost first.
const (
	// LevelCountry is the root level. It has no ancestor.
	LevelCountry Level = iota

	// LevelState is scoped to a country.
	LevelState

	// LevelCity is scoped to a country and state. It is the leaf level.
	LevelCity
)

// AllLevels returns every level in hierarchy order.
func AllLevels() []Level {
	return []Level{LevelCountry, LevelState, LevelCity}
}

// IsValid returns true if the level is recognised.
func (l Level) IsValid() bool {
	return l >= LevelCountry && l <= LevelCity
}

// String returns the singular name of the level.
func (l Level) String() string {
	switch l {
	case LevelCountry:
		return "country"
	case LevelState:
		return "state"
	case LevelCity:
		return "city"
	default:
		return "unknown"
	}
}

// Plural returns the plural name of the level, as used in messages.
func (l Level) Plural() string {
	switch l {
	case LevelCountry:
		return "countries"
	case LevelState:
		return "states"
	case LevelCity:
		return "cities"
	default:
		return "unknown"
	}
}

// Title returns the capitalised singular name, e.g. "Country".
func (l Level) Title() string {
	switch l {
	case LevelCountry:
		return "Country"
	case LevelState:
		return "State"
	case LevelCity:
		return "City"
	default:
		return "Unknown"
	}
}

// Placeholder returns the label of the "no selection" option.
func (l Level) Placeholder() string {
	return "Select " + l.Title()
}

// LevelStatus is the fetch state of a single level's option list.
type LevelStatus string

// Level statuses.
const (
	// StatusEmpty means no options and nothing in flight.
	StatusEmpty LevelStatus = "empty"

	// StatusLoading means a fetch for the current ancestors is in flight.
	StatusLoading LevelStatus = "loading"

	// StatusLoaded means the options reflect the last successful fetch.
	StatusLoaded LevelStatus = "loaded"

	// StatusFailed means the last fetch failed. Options are empty.
	StatusFailed LevelStatus = "failed"
)

// String returns the string representation.
func (s LevelStatus) String() string {
	return string(s)
}

// SelectionKey is the tuple of ancestor values a fetch was issued under.
type SelectionKey struct {
	Country string
	State   string
}

// String returns a compact description for logs.
func (k SelectionKey) String() string {
	switch {
	case k.Country == "":
		return "(root)"
	case k.State == "":
		return "country=" + k.Country
	default:
		return "country=" + k.Country + " state=" + k.State
	}
}

// Selection is the user's chosen country, state and city.
// Empty strings mean "no selection".
type Selection struct {
	Country string `json:"country" yaml:"country"`
	State   string `json:"state" yaml:"state"`
	City    string `json:"city" yaml:"city"`
}

// Get returns the selected value at level.
func (s Selection) Get(level Level) string {
	switch level {
	case LevelCountry:
		return s.Country
	case LevelState:
		return s.State
	case LevelCity:
		return s.City
	default:
		return ""
	}
}

// KeyFor returns the ancestor key that scopes the options at level.
func (s Selection) KeyFor(level Level) SelectionKey {
	switch level {
	case LevelState:
		return SelectionKey{Country: s.Country}
	case LevelCity:
		return SelectionKey{Country: s.Country, State: s.State}
	default:
		return SelectionKey{}
	}
}

// Complete returns true when country, state and city are all chosen.
func (s Selection) Complete() bool {
	return s.Country != "" && s.State != "" && s.City != ""
}

// Confirmation returns the confirmation line for a complete selection,
// or an empty string otherwise.
func (s Selection) Confirmation() string {
	if !s.Complete() {
		return ""
	}
	return "You selected " + s.City + ", " + s.State + ", " + s.Country
}

// SelectorState is a snapshot of everything a presentation layer renders.
// It is a plain value: mutating it has no effect on the controller.
type SelectorState struct {
	Selection Selection

	Countries []string
	States    []string
	Cities    []string

	CountryStatus LevelStatus
	StateStatus   LevelStatus
	CityStatus    LevelStatus

	// Error is the most recent fetch failure message, or empty.
	Error string
}

// Options returns the option list for level.
func (s SelectorState) Options(level Level) []string {
	switch level {
	case LevelCountry:
		return s.Countries
	case LevelState:
		return s.States
	case LevelCity:
		return s.Cities
	default:
		return nil
	}
}

// Status returns the fetch status for level.
func (s SelectorState) Status(level Level) LevelStatus {
	switch level {
	case LevelCountry:
		return s.CountryStatus
	case LevelState:
		return s.StateStatus
	case LevelCity:
		return s.CityStatus
	default:
		return StatusEmpty
	}
}

// Enabled returns whether the input for level accepts changes.
// Country is always enabled; the others need a non-empty ancestor.
func (s SelectorState) Enabled(level Level) bool {
	switch level {
	case LevelCountry:
		return true
	case LevelState:
		return s.Selection.Country != ""
	case LevelCity:
		return s.Selection.State != ""
	default:
		return false
	}
}

// HasOption returns true if name is in the option list for level.
func (s SelectorState) HasOption(level Level, name string) bool {
	return slices.Contains(s.Options(level), name)
}
