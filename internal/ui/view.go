package ui

import tea "github.com/charmbracelet/bubbletea"

// View is the unit of composition; implements Bubble Tea's Init/Update/View.
// Each View represents a screen (gallery, login) with its own model, update, and view.
type View interface {
	Init() tea.Cmd
	Update(tea.Msg) (View, tea.Cmd)
	View() string
}

// Focusable is an interactive element that can hold keyboard focus inside a
// dialog: buttons, text fields, selects. FocusID must be unique within a dialog.
type Focusable interface {
	FocusID() string
	Focus() tea.Cmd
	Blur()
	Focused() bool
	// Update receives keys while the element is focused.
	Update(tea.Msg) tea.Cmd
	View() string
}
