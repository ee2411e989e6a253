package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// KeyMap adapts the leader hints for one mode to bubbles/help.
type KeyMap struct {
	registry   *KeybindRegistry
	keyHandler *KeyHandler
	mode       AppMode
}

// NewKeyMap returns a help.KeyMap over the bindings reachable from the
// handler's pending sequence.
func NewKeyMap(registry *KeybindRegistry, keyHandler *KeyHandler, mode AppMode) help.KeyMap {
	return &KeyMap{registry: registry, keyHandler: keyHandler, mode: mode}
}

// ShortHelp lists the next keys in sorted order followed by esc.
func (km *KeyMap) ShortHelp() []key.Binding {
	if km.registry == nil {
		return nil
	}
	var pending string
	if km.keyHandler != nil {
		pending = strings.Join(km.keyHandler.Buffer, " ")
	}
	hints := km.registry.LeaderHints(pending, km.mode)
	if len(hints) == 0 {
		return nil
	}

	keys := make([]string, 0, len(hints))
	for k := range hints {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]key.Binding, 0, len(keys)+1)
	for _, k := range keys {
		out = append(out, key.NewBinding(key.WithKeys(k), key.WithHelp(k, hints[k])))
	}
	return append(out, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")))
}

// FullHelp is ShortHelp in one column.
func (km *KeyMap) FullHelp() [][]key.Binding {
	if short := km.ShortHelp(); len(short) > 0 {
		return [][]key.Binding{short}
	}
	return nil
}

// RenderKeybindHelp produces the transient help bar shown after SPC, listing
// the bindings reachable from the current sequence in mode.
func RenderKeybindHelp(keyHandler *KeyHandler, mode AppMode) string {
	if keyHandler == nil {
		return ""
	}
	bindings := NewKeyMap(keyHandler.Registry, keyHandler, mode).ShortHelp()
	if len(bindings) == 0 {
		return ""
	}

	helpModel := help.New()
	helpModel.Styles.ShortKey = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true)
	helpModel.Styles.ShortDesc = Styles.Hint
	helpModel.Styles.ShortSeparator = Styles.Hint

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccent)).
		Padding(0, 1).
		MarginTop(1)

	prefix := leaderSeq
	if len(keyHandler.Buffer) > 0 {
		prefix = strings.Join(keyHandler.Buffer, " ")
	}
	return boxStyle.Render(Styles.Hint.Render(prefix) + " " + helpModel.ShortHelpView(bindings))
}
