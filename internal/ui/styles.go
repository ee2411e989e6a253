package ui

import "github.com/charmbracelet/lipgloss"

// Theme colors used throughout the UI
const (
	ColorAccent    = "86"  // Cyan/green - for titles, highlights
	ColorHighlight = "205" // Magenta - for focus, borders
	ColorDanger    = "196" // Red - for errors
	ColorMuted     = "241" // Gray - for dimmed text, hints
	ColorText      = "252" // Light gray - for normal text
	ColorBanner    = "0"   // Black - edit mode banner background
	ColorBrand     = "29"  // Green - buttons and the active filter
)

// Styles contains shared style definitions used across views and dialogs.
var Styles = struct {
	Title lipgloss.Style // Bold accent color - for main titles

	Box       lipgloss.Style // Dialog box with rounded border
	BoxDanger lipgloss.Style // Error box (danger border)
	Card      lipgloss.Style // One work in the gallery grid

	Selected lipgloss.Style // Focused or selected items
	Muted    lipgloss.Style
	Normal   lipgloss.Style
	Hint     lipgloss.Style // Help/hint text
	Status   lipgloss.Style
	Section  lipgloss.Style // Section headers (highlight color)
	Empty    lipgloss.Style // Empty state text (muted, italic)
	Error    lipgloss.Style

	Banner lipgloss.Style // "Edit mode" strip shown to admins

	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	Filter        lipgloss.Style
	FilterActive  lipgloss.Style
	Input         lipgloss.Style
	InputFocused  lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(1, 2),
	BoxDanger: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDanger)).
		Foreground(lipgloss.Color(ColorDanger)).
		Padding(0, 1),
	Card: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(ColorMuted)).
		Padding(0, 1).
		Width(22),
	Selected: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)),
	Section: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true),
	Empty: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Italic(true),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDanger)),
	Banner: lipgloss.NewStyle().
		Background(lipgloss.Color(ColorBanner)).
		Foreground(lipgloss.Color("15")).
		Bold(true).
		Padding(0, 2),
	Button: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBrand)).
		Padding(0, 2),
	ButtonFocused: lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true).
		Padding(0, 2),
	Filter: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBrand)).
		Foreground(lipgloss.Color(ColorBrand)).
		Padding(0, 1),
	FilterActive: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBrand)).
		Background(lipgloss.Color(ColorBrand)).
		Foreground(lipgloss.Color("15")).
		Padding(0, 1),
	Input: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(ColorMuted)).
		Padding(0, 1),
	InputFocused: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(0, 1),
}
