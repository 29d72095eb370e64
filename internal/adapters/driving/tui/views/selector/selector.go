// Package selector provides the cascading country, state and city view.
package selector

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/locselect/internal/adapters/driving/tui/components/dropdown"
	"github.com/custodia-labs/locselect/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/locselect/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/locselect/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/locselect/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/locselect/internal/core/domain"
	"github.com/custodia-labs/locselect/internal/core/ports/driving"
)

// View renders one dropdown per hierarchy level, the shared error message
// and the confirmation line once a city is chosen.
//
// Fetches run as commands; their results come back as messages.OptionsLoaded
// and are applied by the controller on the event loop.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar
	spinner   spinner.Model
	dropdowns [3]*dropdown.Dropdown

	ctrl driving.SelectionController
	ctx  context.Context

	state    domain.SelectorState
	focus    domain.Level
	spinning bool

	width  int
	height int
	ready  bool
}

// NewView creates a new selector view driven by ctrl.
func NewView(s *styles.Styles, km *keymap.KeyMap, ctrl driving.SelectionController) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	v := &View{
		styles:    s,
		keymap:    km,
		statusbar: status.NewBar(s, km),
		spinner:   sp,
		ctrl:      ctrl,
		ctx:       context.Background(),
		focus:     domain.LevelCountry,
		width:     80,
		height:    24,
	}
	for _, level := range domain.AllLevels() {
		v.dropdowns[level] = dropdown.New(level, s, km)
	}
	v.dropdowns[v.focus].Focus()
	return v
}

// WithContext sets the context passed to fetches.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the countries fetch.
func (v *View) Init() tea.Cmd {
	return v.reload()
}

// Update handles messages for the selector view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SelectionChanged:
		return v, v.handleSelectionChanged(msg)

	case messages.OptionsLoaded:
		v.ctrl.Apply(msg.Result)
		return v, v.sync()

	case messages.ReloadRequested:
		return v, v.reload()

	case messages.ConfigReloaded:
		if msg.Err != nil {
			v.statusbar.ConfigError(msg.Err)
			return v, nil
		}
		return v, v.reload()

	case spinner.TickMsg:
		if !v.loading() {
			v.spinning = false
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	return v, nil
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	focused := v.dropdowns[v.focus]

	// An open dropdown owns the keyboard until it closes.
	if focused.IsOpen() {
		_, cmd := focused.Update(msg)
		v.statusbar.SetDropdownOpen(focused.IsOpen())
		return v, cmd
	}

	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.NextField), keymap.Matches(key, v.keymap.Down):
		v.moveFocus(1)
		return v, nil
	case keymap.Matches(key, v.keymap.PrevField), keymap.Matches(key, v.keymap.Up):
		v.moveFocus(-1)
		return v, nil
	case keymap.Matches(key, v.keymap.Reload):
		return v, func() tea.Msg { return messages.ReloadRequested{} }
	}

	_, cmd := focused.Update(msg)
	v.statusbar.SetDropdownOpen(focused.IsOpen())
	return v, cmd
}

// handleSelectionChanged forwards a pick to the controller and starts the
// dependent fetch, if any.
func (v *View) handleSelectionChanged(msg messages.SelectionChanged) tea.Cmd {
	var req *domain.FetchRequest
	switch msg.Level {
	case domain.LevelCountry:
		req = v.ctrl.SetCountry(msg.Value)
	case domain.LevelState:
		req = v.ctrl.SetState(msg.Value)
	case domain.LevelCity:
		v.ctrl.SetCity(msg.Value)
	default:
		return nil
	}

	cmds := []tea.Cmd{v.fetch(req), v.sync()}
	if msg.Value != "" && msg.Level < domain.LevelCity && msg.Level == v.focus {
		v.moveFocus(1)
	}
	return tea.Batch(cmds...)
}

// reload refetches the country list.
func (v *View) reload() tea.Cmd {
	req := v.ctrl.Initialize()
	return tea.Batch(v.fetch(req), v.sync())
}

// fetch wraps a controller request in a command. A nil request yields nil.
func (v *View) fetch(req *domain.FetchRequest) tea.Cmd {
	if req == nil {
		return nil
	}
	ctrl, ctx, r := v.ctrl, v.ctx, *req
	return func() tea.Msg {
		return messages.OptionsLoaded{Result: ctrl.Fetch(ctx, r)}
	}
}

// sync copies controller state into the dropdowns and status bar.
// It returns a spinner tick when a level starts loading.
func (v *View) sync() tea.Cmd {
	v.state = v.ctrl.State()

	for _, level := range domain.AllLevels() {
		d := v.dropdowns[level]
		d.SetOptions(v.state.Options(level))
		d.SetValue(v.state.Selection.Get(level))
		d.SetEnabled(v.state.Enabled(level))
	}
	if !v.dropdowns[v.focus].Enabled() {
		v.setFocus(domain.LevelCountry)
	}

	v.statusbar.SetDropdownOpen(v.dropdowns[v.focus].IsOpen())
	v.statusbar.Sync(v.state)

	if v.loading() && !v.spinning {
		v.spinning = true
		return v.spinner.Tick
	}
	return nil
}

func (v *View) loading() bool {
	for _, level := range domain.AllLevels() {
		if v.state.Status(level) == domain.StatusLoading {
			return true
		}
	}
	return false
}

// moveFocus moves focus by delta, skipping disabled dropdowns.
func (v *View) moveFocus(delta int) {
	n := len(v.dropdowns)
	next := int(v.focus)
	for range n {
		next = (next + delta + n) % n
		if v.dropdowns[next].Enabled() {
			v.setFocus(domain.Level(next))
			return
		}
	}
}

func (v *View) setFocus(level domain.Level) {
	v.dropdowns[v.focus].Blur()
	v.focus = level
	v.dropdowns[v.focus].Focus()
}

// View renders the selector view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)
	sections = append(sections, v.styles.Title.Render("Location Selector"), "")

	for _, level := range domain.AllLevels() {
		field := v.dropdowns[level].View()
		if v.state.Status(level) == domain.StatusLoading {
			field = lipgloss.JoinHorizontal(lipgloss.Top, field, " "+v.spinner.View())
		}
		sections = append(sections, field)
	}

	if v.state.Error != "" {
		sections = append(sections, "", v.styles.Error.Render(v.state.Error))
	}
	if v.state.Selection.Complete() {
		sections = append(sections, "", v.styles.Confirmation.Render(v.state.Selection.Confirmation()))
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	for _, d := range v.dropdowns {
		d.SetWidth(width)
		d.SetMaxVisible(height - 14)
	}
	v.statusbar.SetWidth(width)
}

// Capturing reports whether a dropdown is open and consuming keys.
func (v *View) Capturing() bool {
	return v.dropdowns[v.focus].IsOpen()
}

// Focus returns the level whose dropdown has focus.
func (v *View) Focus() domain.Level {
	return v.focus
}

// Dropdown returns the dropdown for level.
func (v *View) Dropdown(level domain.Level) *dropdown.Dropdown {
	return v.dropdowns[level]
}

// State returns the last controller snapshot rendered by the view.
func (v *View) State() domain.SelectorState {
	return v.state
}

// StatusBar returns the status bar component.
func (v *View) StatusBar() *status.Bar {
	return v.statusbar
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}
