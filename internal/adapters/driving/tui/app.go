package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/locselect/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/locselect/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/locselect/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/locselect/internal/adapters/driving/tui/views/selector"
	"github.com/custodia-labs/locselect/internal/adapters/driving/tui/views/settings"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the key bindings shared by all views.
	keymap *keymap.KeyMap

	// selectorView is the cascading location selector.
	selectorView *selector.View

	// settingsView edits the service settings.
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last configuration error reported to the app.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		selectorView: selector.NewView(s, km, ports.Selection),
		settingsView: settings.NewView(s, km, ports.Settings),
		currentView:  messages.ViewSelector,
	}, nil
}

// WithContext sets the context for the app and its fetches.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.selectorView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It sets the window title and starts the countries fetch.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("locselect - Location Selector"),
		a.selectorView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.selectorView.SetDimensions(msg.Width, msg.Height)
		a.settingsView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ConfigReloaded:
		a.err = msg.Err
		a.selectorView, cmd = a.selectorView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Selection, fetch results and spinner ticks always go to the selector,
	// even while help is showing.
	a.selectorView, cmd = a.selectorView.Update(msg)
	return a, cmd
}

// handleKeyMsg routes keys between global bindings and the active view.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global quit with ctrl+c
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if a.currentView == messages.ViewHelp {
		switch {
		case keymap.Matches(key, a.keymap.Back), keymap.Matches(key, a.keymap.Help):
			a.currentView = messages.ViewSelector
		case keymap.Matches(key, a.keymap.Quit):
			return a, tea.Quit
		}
		return a, nil
	}

	if a.currentView == messages.ViewSettings {
		if !a.settingsView.Editing() && keymap.Matches(key, a.keymap.Quit) {
			return a, tea.Quit
		}
		var cmd tea.Cmd
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd
	}

	// An open dropdown takes every key, including q and ?.
	if !a.selectorView.Capturing() {
		switch {
		case keymap.Matches(key, a.keymap.Quit):
			return a, tea.Quit
		case keymap.Matches(key, a.keymap.Help):
			a.currentView = messages.ViewHelp
			return a, nil
		case keymap.Matches(key, a.keymap.Settings):
			a.currentView = messages.ViewSettings
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		}
	}

	var cmd tea.Cmd
	a.selectorView, cmd = a.selectorView.Update(msg)
	return a, cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewSettings:
		return a.settingsView.View()
	default:
		return a.selectorView.View()
	}
}

// viewHelp renders the help view from the key bindings.
func (a *App) viewHelp() string {
	sections := []string{a.styles.Title.Render("Help"), ""}

	groups := a.keymap.FullHelp()
	titles := []string{"Navigation", "Selection", "General"}
	for i, group := range groups {
		if i < len(titles) {
			sections = append(sections, a.styles.Subtitle.Render(titles[i]))
		}
		for _, b := range group {
			h := b.Help()
			sections = append(sections, fmt.Sprintf("  %-12s %s", h.Key, h.Desc))
		}
		sections = append(sections, "")
	}

	sections = append(sections, a.styles.Subtitle.Render("Dropdown (open)"))
	for _, b := range a.keymap.DropdownHelp() {
		h := b.Help()
		sections = append(sections, fmt.Sprintf("  %-12s %s", h.Key, h.Desc))
	}
	sections = append(sections, fmt.Sprintf("  %-12s %s", "(type)", "filter options"), "")

	if a.ports.Settings != nil {
		if current, err := a.ports.Settings.Get(); err == nil {
			sections = append(sections, a.styles.Muted.Render("Service: "+current.Service.BaseURL))
		}
	}
	if a.err != nil {
		sections = append(sections, a.styles.Error.Render("Config: "+a.err.Error()))
	}

	sections = append(sections, "", a.styles.Help.Render("[esc] back"))
	return strings.TrimRight(lipgloss.JoinVertical(lipgloss.Left, sections...), "\n")
}

// Program builds the full-screen program for the app, bound to the app's
// context. Callers may Send messages to it while it runs.
func (a *App) Program(opts ...tea.ProgramOption) *tea.Program {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(a.ctx)}, opts...)
	return tea.NewProgram(a, opts...)
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Selector returns the selector view.
func (a *App) Selector() *selector.View {
	return a.selectorView
}

// Settings returns the settings view.
func (a *App) Settings() *settings.View {
	return a.settingsView
}

// Err returns the last configuration error reported to the app.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.selectorView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
