package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"folio/internal/api"
	"folio/internal/ui/textutil"
)

// Button fires OnPress on Enter or Space while focused. Its FocusID doubles
// as its click zone.
type Button struct {
	ID      string
	Label   string
	OnPress tea.Cmd
	Dimmed  bool // drawn greyed out; still pressable

	focused bool
}

var _ Focusable = (*Button)(nil)

// NewButton creates a button.
func NewButton(id, label string, onPress tea.Cmd) *Button {
	return &Button{ID: id, Label: label, OnPress: onPress}
}

func (b *Button) FocusID() string { return b.ID }
func (b *Button) Focus() tea.Cmd  { b.focused = true; return nil }
func (b *Button) Blur()           { b.focused = false }
func (b *Button) Focused() bool   { return b.focused }

func (b *Button) Update(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter", " ":
			return b.OnPress
		}
	}
	return nil
}

func (b *Button) View() string {
	style := Styles.Button
	switch {
	case b.focused:
		style = Styles.ButtonFocused
	case b.Dimmed:
		style = style.BorderForeground(lipgloss.Color(ColorMuted)).Foreground(lipgloss.Color(ColorMuted))
	}
	return markZone(b.ID, style.Render(b.Label))
}

// TextField is a labelled single-line input.
type TextField struct {
	ID       string
	Label    string
	OnSubmit func(value string) tea.Cmd

	input textinput.Model
}

var _ Focusable = (*TextField)(nil)

// NewTextField creates an empty text field.
func NewTextField(id, label, placeholder string) *TextField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Width = 36
	ti.Prompt = ""
	return &TextField{ID: id, Label: label, input: ti}
}

// Masked hides typed characters, for passwords.
func (f *TextField) Masked() *TextField {
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '•'
	return f
}

func (f *TextField) FocusID() string { return f.ID }
func (f *TextField) Focus() tea.Cmd  { return f.input.Focus() }
func (f *TextField) Blur()           { f.input.Blur() }
func (f *TextField) Focused() bool   { return f.input.Focused() }

func (f *TextField) Value() string     { return f.input.Value() }
func (f *TextField) SetValue(v string) { f.input.SetValue(v) }
func (f *TextField) Reset()            { f.input.Reset() }

func (f *TextField) Update(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "enter" {
		if f.OnSubmit != nil {
			return f.OnSubmit(f.input.Value())
		}
		return nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

func (f *TextField) View() string {
	style := Styles.Input
	if f.input.Focused() {
		style = Styles.InputFocused
	}
	return markZone(f.ID, Styles.Normal.Render(f.Label)+"\n"+style.Render(f.input.View()))
}

// Option is one choice in a Select.
type Option struct {
	Value int
	Label string
}

// Select cycles through options with left/right.
type Select struct {
	ID    string
	Label string

	options []Option
	index   int
	focused bool
}

var _ Focusable = (*Select)(nil)

// NewSelect creates a select with no options.
func NewSelect(id, label string) *Select {
	return &Select{ID: id, Label: label}
}

func (s *Select) FocusID() string { return s.ID }
func (s *Select) Focus() tea.Cmd  { s.focused = true; return nil }
func (s *Select) Blur()           { s.focused = false }
func (s *Select) Focused() bool   { return s.focused }

// SetOptions replaces the choices, keeping the selected value when it survives.
func (s *Select) SetOptions(opts []Option) {
	prev, had := s.Selected()
	s.options = opts
	s.index = 0
	if !had {
		return
	}
	for i, o := range opts {
		if o.Value == prev.Value {
			s.index = i
			return
		}
	}
}

// Selected returns the current option; false when there are none.
func (s *Select) Selected() (Option, bool) {
	if len(s.options) == 0 {
		return Option{}, false
	}
	return s.options[s.index], true
}

// SelectValue selects the option with value v, if present.
func (s *Select) SelectValue(v int) {
	for i, o := range s.options {
		if o.Value == v {
			s.index = i
			return
		}
	}
}

func (s *Select) Update(msg tea.Msg) tea.Cmd {
	k, ok := msg.(tea.KeyMsg)
	if !ok || len(s.options) == 0 {
		return nil
	}
	switch k.String() {
	case "left", "h", "up", "k":
		s.index = (s.index - 1 + len(s.options)) % len(s.options)
	case "right", "l", "down", "j", "enter", " ":
		s.index = (s.index + 1) % len(s.options)
	}
	return nil
}

func (s *Select) View() string {
	label := "-"
	if o, ok := s.Selected(); ok {
		label = o.Label
	}
	style := Styles.Input
	if s.focused {
		style = Styles.InputFocused
	}
	return markZone(s.ID, Styles.Normal.Render(s.Label)+"\n"+style.Render("‹ "+label+" ›"))
}

// WorkGrid lists works in the edit dialog. The cursor moves with arrows and
// d or delete asks to remove the selected work.
type WorkGrid struct {
	ID       string
	OnDelete func(api.Work) tea.Cmd

	works   []api.Work
	cursor  int
	focused bool
}

var _ Focusable = (*WorkGrid)(nil)

const gridColumns = 3

func (g *WorkGrid) FocusID() string { return g.ID }
func (g *WorkGrid) Focus() tea.Cmd  { g.focused = true; return nil }
func (g *WorkGrid) Blur()           { g.focused = false }
func (g *WorkGrid) Focused() bool   { return g.focused }

// SetWorks replaces the listed works, clamping the cursor.
func (g *WorkGrid) SetWorks(works []api.Work) {
	g.works = works
	if g.cursor >= len(works) {
		g.cursor = max(len(works)-1, 0)
	}
}

// Selected returns the work under the cursor.
func (g *WorkGrid) Selected() (api.Work, bool) {
	if len(g.works) == 0 {
		return api.Work{}, false
	}
	return g.works[g.cursor], true
}

func (g *WorkGrid) Update(msg tea.Msg) tea.Cmd {
	k, ok := msg.(tea.KeyMsg)
	if !ok || len(g.works) == 0 {
		return nil
	}
	switch k.String() {
	case "right", "l":
		g.cursor = min(g.cursor+1, len(g.works)-1)
	case "left", "h":
		g.cursor = max(g.cursor-1, 0)
	case "down", "j":
		g.cursor = min(g.cursor+gridColumns, len(g.works)-1)
	case "up", "k":
		g.cursor = max(g.cursor-gridColumns, 0)
	case "d", "delete", "x":
		if g.OnDelete != nil {
			return g.OnDelete(g.works[g.cursor])
		}
	}
	return nil
}

// TrashZone is the click zone of the delete icon for work id.
func (g *WorkGrid) TrashZone(id int) string {
	return fmt.Sprintf("%s/trash/%d", g.ID, id)
}

func (g *WorkGrid) View() string {
	if len(g.works) == 0 {
		return Styles.Empty.Render("No works yet")
	}
	var rows []string
	var row []string
	for i, w := range g.works {
		name := textutil.Truncate(w.Title, 16)
		file := textutil.FileLabel(w.ImageURL, 14)
		trash := markZone(g.TrashZone(w.ID), Styles.Error.Render("🗑"))
		title := Styles.Normal.Render(name)
		if g.focused && i == g.cursor {
			title = Styles.Selected.Render(name)
		}
		card := Styles.Card.Width(20).Render(title + "\n" + Styles.Muted.Render(file) + " " + trash)
		row = append(row, card)
		if len(row) == gridColumns {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(rows, "\n")
}
