// Package textutil fits text to terminal columns, accounting for wide runes
// and ANSI styling.
package textutil

import (
	"path"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// Width returns the number of terminal columns s occupies. ANSI sequences
// count as zero.
func Width(s string) int {
	return lipgloss.Width(s)
}

// Truncate shortens plain text to at most maxWidth columns, ending in an
// ellipsis when anything was cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= runewidth.StringWidth(Ellipsis) {
		return Ellipsis
	}
	return runewidth.Truncate(s, maxWidth, Ellipsis)
}

// PadRight appends spaces until s is width columns wide. Wider input is
// returned unchanged.
func PadRight(s string, width int) string {
	if gap := width - Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// FileLabel turns an image URL into a short label: the file name without its
// extension, truncated to maxWidth.
func FileLabel(url string, maxWidth int) string {
	name := path.Base(url)
	if name == "." || name == "/" {
		return ""
	}
	name = strings.TrimSuffix(name, path.Ext(name))
	return Truncate(name, maxWidth)
}
