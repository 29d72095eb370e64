// Package settings provides the service settings view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/locselect/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/locselect/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/locselect/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/locselect/internal/core/domain"
	"github.com/custodia-labs/locselect/internal/core/ports/driving"
)

// ErrUnavailable is reported when the view has no settings service.
var ErrUnavailable = errors.New("settings service not available")

// Key constants for key handling.
const (
	keyEnter   = "enter"
	keyDefault = "d"
)

// View lists the service settings and edits one at a time.
// Saved values reach the running client through the config file watcher.
type View struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	settingsService driving.SettingsService

	settings *domain.AppSettings
	keys     []string
	err      error
	saved    string // key of the last successful save

	selected int
	editing  bool
	input    textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, km *keymap.KeyMap, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	input := textinput.New()
	input.Prompt = "= "
	input.CharLimit = 256
	input.Width = 40

	keys := domain.SettingKeys()
	if settingsService != nil {
		keys = settingsService.Keys()
	}

	return &View{
		styles:          s,
		keymap:          km,
		settingsService: settingsService,
		keys:            keys,
		input:           input,
	}
}

// Init loads the current settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsLoaded{Err: ErrUnavailable}
		}
		settings, err := svc.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// save writes a single key through the settings service.
func (v *View) save(key, value string) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Key: key, Err: ErrUnavailable}
		}
		return messages.SettingsSaved{Key: key, Err: svc.Set(key, value)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.settings = msg.Settings
		v.err = nil
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			// Stay in the editor so the value can be corrected.
			v.err = msg.Err
			v.saved = ""
			return v, nil
		}
		v.err = nil
		v.saved = msg.Key
		v.stopEditing()
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKeys(msg)
		}
		return v.handleListKeys(msg)
	}

	return v, nil
}

func (v *View) handleListKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSelector}
		}
	case keymap.Matches(key, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(key, v.keymap.Down):
		if v.selected < len(v.keys)-1 {
			v.selected++
		}
	case key == keyEnter:
		if v.settings == nil || len(v.keys) == 0 {
			return v, nil
		}
		v.editing = true
		v.saved = ""
		v.input.SetValue(v.settings.Value(v.keys[v.selected]))
		v.input.CursorEnd()
		return v, v.input.Focus()
	case key == keyDefault:
		if len(v.keys) == 0 {
			return v, nil
		}
		k := v.keys[v.selected]
		return v, v.save(k, domain.DefaultAppSettings().Value(k))
	}
	return v, nil
}

//nolint:exhaustive // remaining keys go to the text input
func (v *View) handleEditKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.err = nil
		v.stopEditing()
		return v, nil
	case tea.KeyEnter:
		return v, v.save(v.keys[v.selected], strings.TrimSpace(v.input.Value()))
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) stopEditing() {
	v.editing = false
	v.input.Reset()
	v.input.Blur()
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	for i, key := range v.keys {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		line := fmt.Sprintf("%s%-28s %s", indicator, key, v.settings.Value(key))
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")

		if v.editing && i == v.selected {
			b.WriteString("    ")
			b.WriteString(v.input.View())
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if err := v.settings.Service.Validate(); err != nil {
		b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Warning: %s", err.Error())))
	} else {
		b.WriteString(v.styles.Success.Render("Configuration is valid"))
	}
	if v.saved != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Success.Render(fmt.Sprintf("Saved %s", v.saved)))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderHelp() string {
	if v.editing {
		return v.styles.Help.Render("[enter] save  [esc] cancel")
	}
	return v.styles.Help.Render("[j/k] navigate  [enter] edit  [d] default  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	inputWidth := width - 12
	if inputWidth < 20 {
		inputWidth = 20
	}
	v.input.Width = inputWidth
}

// Reset returns the view to the key list.
func (v *View) Reset() {
	v.selected = 0
	v.err = nil
	v.saved = ""
	v.stopEditing()
}

// Editing returns whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Selected returns the key under the cursor.
func (v *View) Selected() string {
	if v.selected < 0 || v.selected >= len(v.keys) {
		return ""
	}
	return v.keys[v.selected]
}

// Settings returns the last loaded settings, or nil.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Err returns the last load or save error.
func (v *View) Err() error {
	return v.err
}
