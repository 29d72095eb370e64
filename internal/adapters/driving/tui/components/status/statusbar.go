// Package status provides the status line shown under the selector.
package status

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/locselect/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/locselect/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/locselect/internal/core/domain"
)

// State is what the status line reports on its left side.
type State string

const (
	StateReady    State = "ready"
	StateLoading  State = "loading"
	StateError    State = "error"
	StateComplete State = "complete"
)

// Bar shows the selector's state on the left and key hints on the right.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	open    bool
	width   int
}

// NewBar creates a status bar in the ready state.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keymap: km, state: StateReady, width: 80}
}

// Sync derives the bar's state from a selector snapshot.
// An error wins over loading, and loading wins over a complete selection.
func (s *Bar) Sync(st domain.SelectorState) {
	s.message = ""

	if st.Error != "" {
		s.state, s.message = StateError, st.Error
		return
	}
	for _, level := range domain.AllLevels() {
		if st.Status(level) == domain.StatusLoading {
			s.state, s.message = StateLoading, level.Plural()
			return
		}
	}
	if st.Selection.Complete() {
		s.state = StateComplete
		return
	}
	s.state = StateReady
}

// ConfigError reports a configuration reload failure until the next Sync.
func (s *Bar) ConfigError(err error) {
	s.state = StateError
	s.message = "config: " + err.Error()
}

// View renders the status bar.
func (s *Bar) View() string {
	left, right := s.status(), s.hints()

	gap := s.width - s.styles.StatusBar.GetHorizontalPadding() - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (s *Bar) status() string {
	switch s.state {
	case StateLoading:
		return s.styles.Muted.Render("Loading " + s.message + "...")
	case StateError:
		return s.styles.Error.Render(s.message)
	case StateComplete:
		return s.styles.Success.Render("Location selected")
	case StateReady:
	}
	return s.styles.Muted.Render("Ready")
}

func (s *Bar) hints() string {
	var bindings []key.Binding
	if s.open {
		bindings = s.keymap.DropdownHelp()
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		hints = append(hints, b.Help().Key+": "+b.Help().Desc)
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// Message returns the text shown with the state, if any.
func (s *Bar) Message() string {
	return s.message
}

// SetDropdownOpen switches the hints to the open-dropdown bindings.
func (s *Bar) SetDropdownOpen(open bool) {
	s.open = open
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}
