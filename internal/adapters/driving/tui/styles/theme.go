// Package styles provides colour themes and styling for the location selector TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the colour palette the styles are built from.
type Theme struct {
	Name string

	Accent    lipgloss.Color // titles, focused field border
	Label     lipgloss.Color // field labels, section headers
	Text      lipgloss.Color
	Muted     lipgloss.Color // placeholders, hints, disabled fields
	Surface   lipgloss.Color // status bar background
	Border    lipgloss.Color
	Highlight lipgloss.Color // cursor row background

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

// DarkTheme returns the palette for dark terminals.
func DarkTheme() *Theme {
	return &Theme{
		Name:      "dark",
		Accent:    lipgloss.Color("#89B4FA"),
		Label:     lipgloss.Color("#94E2D5"),
		Text:      lipgloss.Color("#CDD6F4"),
		Muted:     lipgloss.Color("#6C7086"),
		Surface:   lipgloss.Color("#181825"),
		Border:    lipgloss.Color("#45475A"),
		Highlight: lipgloss.Color("#313244"),
		Success:   lipgloss.Color("#A6E3A1"),
		Warning:   lipgloss.Color("#F9E2AF"),
		Error:     lipgloss.Color("#F38BA8"),
	}
}

// LightTheme returns the palette for light terminals.
func LightTheme() *Theme {
	return &Theme{
		Name:      "light",
		Accent:    lipgloss.Color("#1E66F5"),
		Label:     lipgloss.Color("#179299"),
		Text:      lipgloss.Color("#4C4F69"),
		Muted:     lipgloss.Color("#8C8FA1"),
		Surface:   lipgloss.Color("#E6E9EF"),
		Border:    lipgloss.Color("#BCC0CC"),
		Highlight: lipgloss.Color("#CCD0DA"),
		Success:   lipgloss.Color("#40A02B"),
		Warning:   lipgloss.Color("#DF8E1D"),
		Error:     lipgloss.Color("#D20F39"),
	}
}

// DefaultTheme picks the palette matching the terminal background.
func DefaultTheme() *Theme {
	if lipgloss.HasDarkBackground() {
		return DarkTheme()
	}
	return LightTheme()
}

// LabelWidth is the column width reserved for field labels.
const LabelWidth = 9

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Help     lipgloss.Style

	// Feedback
	Error        lipgloss.Style
	Success      lipgloss.Style
	Warning      lipgloss.Style
	Confirmation lipgloss.Style

	// Selection inputs. A field is disabled while its ancestor is empty.
	Label         lipgloss.Style
	Field         lipgloss.Style
	FocusedField  lipgloss.Style
	DisabledField lipgloss.Style
	Selected      lipgloss.Style

	StatusBar lipgloss.Style
}

// NewStyles creates styles from a theme. A nil theme uses DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	field := lipgloss.NewStyle().
		Foreground(theme.Text).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	return &Styles{
		theme: theme,

		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Label),
		Normal:   lipgloss.NewStyle().Foreground(theme.Text),
		Muted:    lipgloss.NewStyle().Foreground(theme.Muted),
		Help:     lipgloss.NewStyle().Foreground(theme.Muted).Italic(true),

		Error:        lipgloss.NewStyle().Foreground(theme.Error),
		Success:      lipgloss.NewStyle().Foreground(theme.Success),
		Warning:      lipgloss.NewStyle().Foreground(theme.Warning),
		Confirmation: lipgloss.NewStyle().Bold(true).Foreground(theme.Success),

		Label:         lipgloss.NewStyle().Bold(true).Foreground(theme.Label).Width(LabelWidth),
		Field:         field,
		FocusedField:  field.BorderForeground(theme.Accent),
		DisabledField: field.Foreground(theme.Muted).BorderStyle(lipgloss.HiddenBorder()),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent).
			Background(theme.Highlight),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Surface).
			Padding(0, 1),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
