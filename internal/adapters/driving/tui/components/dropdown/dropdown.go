// Package dropdown provides the selection input used for each level of the
// location hierarchy.
//
// A Dropdown shows its current value when closed. When open it lists a
// placeholder row ("no selection") followed by the options, filtered by
// whatever the user types.
package dropdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/locselect/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/locselect/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/locselect/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/locselect/internal/core/domain"
)

// DefaultMaxVisible is the number of rows shown while open.
const DefaultMaxVisible = 8

// Dropdown is a single selection input bound to one hierarchy level.
type Dropdown struct {
	level  domain.Level
	styles *styles.Styles
	keymap *keymap.KeyMap
	filter textinput.Model

	options []string
	rows    []string // visible rows while open; "" is the placeholder
	value   string

	enabled bool
	focused bool
	open    bool
	cursor  int

	width      int
	maxVisible int
}

// New creates a closed, enabled dropdown for level.
func New(level domain.Level, s *styles.Styles, km *keymap.KeyMap) *Dropdown {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	ti := textinput.New()
	ti.Placeholder = "type to filter"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.Width = 30

	return &Dropdown{
		level:      level,
		styles:     s,
		keymap:     km,
		filter:     ti,
		enabled:    true,
		width:      40,
		maxVisible: DefaultMaxVisible,
	}
}

// Level returns the hierarchy level this dropdown is bound to.
func (d *Dropdown) Level() domain.Level {
	return d.level
}

// Update handles key messages.
// Picking a value different from the current one emits messages.SelectionChanged.
func (d *Dropdown) Update(msg tea.Msg) (*Dropdown, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !d.enabled || !d.focused {
		return d, nil
	}

	if d.open {
		return d.updateOpen(keyMsg)
	}
	return d.updateClosed(keyMsg)
}

func (d *Dropdown) updateClosed(msg tea.KeyMsg) (*Dropdown, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), d.keymap.Open):
		return d, d.Open()
	case keymap.Matches(msg.String(), d.keymap.Clear):
		return d, d.pick("")
	}
	return d, nil
}

func (d *Dropdown) updateOpen(msg tea.KeyMsg) (*Dropdown, tea.Cmd) {
	//nolint:exhaustive // remaining keys go to the filter input
	switch msg.Type {
	case tea.KeyUp, tea.KeyCtrlP:
		if d.cursor > 0 {
			d.cursor--
		}
		return d, nil

	case tea.KeyDown, tea.KeyCtrlN:
		if d.cursor < len(d.rows)-1 {
			d.cursor++
		}
		return d, nil

	case tea.KeyEnter:
		if len(d.rows) == 0 {
			return d, nil
		}
		value := d.rows[d.cursor]
		d.Close()
		return d, d.pick(value)

	case tea.KeyEsc:
		d.Close()
		return d, nil
	}

	var cmd tea.Cmd
	d.filter, cmd = d.filter.Update(msg)
	d.refilter()
	return d, cmd
}

// pick changes the value and emits SelectionChanged when it differs.
func (d *Dropdown) pick(value string) tea.Cmd {
	if value == d.value {
		return nil
	}
	d.value = value
	level := d.level
	return func() tea.Msg {
		return messages.SelectionChanged{Level: level, Value: value}
	}
}

// View renders the dropdown.
func (d *Dropdown) View() string {
	label := d.styles.Label.Render(d.level.Title())

	shown := d.value
	if shown == "" {
		shown = d.level.Placeholder()
	}
	box := lipgloss.NewStyle().Width(d.fieldWidth()).Render(shown + " ▾")

	var field string
	switch {
	case !d.enabled:
		field = d.styles.DisabledField.Render(box)
	case d.focused:
		field = d.styles.FocusedField.Render(box)
	default:
		field = d.styles.Field.Render(box)
	}

	line := lipgloss.JoinHorizontal(lipgloss.Center, label, field)
	if !d.open {
		return line
	}
	return line + "\n" + d.viewList()
}

// viewList renders the open option list below the field.
func (d *Dropdown) viewList() string {
	indent := strings.Repeat(" ", lipgloss.Width(d.styles.Label.Render(""))+1)
	lines := []string{indent + d.filter.View()}

	if len(d.rows) == 0 {
		lines = append(lines, indent+d.styles.Muted.Render("No matches"))
		return strings.Join(lines, "\n")
	}

	start := 0
	if d.cursor >= d.maxVisible {
		start = d.cursor - d.maxVisible + 1
	}
	end := start + d.maxVisible
	if end > len(d.rows) {
		end = len(d.rows)
	}

	for i := start; i < end; i++ {
		label := d.rows[i]
		style := d.styles.Normal
		if label == "" {
			label = d.level.Placeholder()
			style = d.styles.Muted
		}

		indicator := "  "
		if i == d.cursor {
			indicator = "> "
			style = d.styles.Selected
		}
		if d.rows[i] == d.value && d.value != "" {
			label += " ✓"
		}
		lines = append(lines, indent+indicator+style.Render(label))
	}

	if len(d.rows) > d.maxVisible {
		lines = append(lines, indent+d.styles.Muted.Render(
			fmt.Sprintf("  (%d/%d)", d.cursor+1, len(d.rows)),
		))
	}

	return strings.Join(lines, "\n")
}

// Open opens the list with the cursor on the current value.
func (d *Dropdown) Open() tea.Cmd {
	if !d.enabled {
		return nil
	}
	d.open = true
	d.filter.Reset()
	d.refilter()
	for i, row := range d.rows {
		if row == d.value {
			d.cursor = i
			break
		}
	}
	return d.filter.Focus()
}

// Close closes the list and discards the filter text.
func (d *Dropdown) Close() {
	d.open = false
	d.filter.Reset()
	d.filter.Blur()
	d.cursor = 0
}

// IsOpen returns whether the list is showing.
func (d *Dropdown) IsOpen() bool {
	return d.open
}

// refilter rebuilds the visible rows from the filter text.
func (d *Dropdown) refilter() {
	query := strings.ToLower(strings.TrimSpace(d.filter.Value()))

	rows := make([]string, 0, len(d.options)+1)
	if query == "" {
		rows = append(rows, "")
	}
	for _, opt := range d.options {
		if query == "" || strings.Contains(strings.ToLower(opt), query) {
			rows = append(rows, opt)
		}
	}
	d.rows = rows

	if d.cursor >= len(d.rows) {
		d.cursor = len(d.rows) - 1
	}
	if d.cursor < 0 {
		d.cursor = 0
	}
}

// SetOptions replaces the option list.
func (d *Dropdown) SetOptions(options []string) {
	d.options = options
	if d.open {
		d.refilter()
	}
}

// Options returns the option list.
func (d *Dropdown) Options() []string {
	return d.options
}

// Rows returns the rows visible while open. "" is the placeholder row.
func (d *Dropdown) Rows() []string {
	return d.rows
}

// SetValue sets the displayed value without emitting a change.
func (d *Dropdown) SetValue(value string) {
	d.value = value
}

// Value returns the current value.
func (d *Dropdown) Value() string {
	return d.value
}

// SetEnabled enables or disables the input. Disabling closes it.
func (d *Dropdown) SetEnabled(enabled bool) {
	d.enabled = enabled
	if !enabled && d.open {
		d.Close()
	}
}

// Enabled returns whether the input accepts changes.
func (d *Dropdown) Enabled() bool {
	return d.enabled
}

// Focus gives the input keyboard focus.
func (d *Dropdown) Focus() {
	d.focused = true
}

// Blur removes focus and closes the list.
func (d *Dropdown) Blur() {
	d.focused = false
	if d.open {
		d.Close()
	}
}

// Focused returns whether the input has focus.
func (d *Dropdown) Focused() bool {
	return d.focused
}

// Cursor returns the highlighted row while open.
func (d *Dropdown) Cursor() int {
	return d.cursor
}

// SetWidth sets the total width available to the dropdown.
func (d *Dropdown) SetWidth(width int) {
	d.width = width
	filterWidth := width - 20
	if filterWidth < 10 {
		filterWidth = 10
	}
	d.filter.Width = filterWidth
}

// SetMaxVisible sets how many rows are listed at once while open.
func (d *Dropdown) SetMaxVisible(n int) {
	if n < 1 {
		n = 1
	}
	d.maxVisible = n
}

func (d *Dropdown) fieldWidth() int {
	w := d.width - lipgloss.Width(d.styles.Label.Render("")) - 4
	if w < 16 {
		w = 16
	}
	return w
}
