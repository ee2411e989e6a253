package ui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// leaderSeq is the canonical name of the leader key inside sequences.
const leaderSeq = "SPC"

// binding is one registered key sequence.
type binding struct {
	cmd   tea.Cmd
	desc  string
	modes []AppMode // empty: every mode
}

func (b binding) activeIn(mode AppMode) bool {
	return len(b.modes) == 0 || slices.Contains(b.modes, mode)
}

// KeybindRegistry maps key sequences to commands. Sequences are written the
// way they are typed, separated by spaces, with "SPC" for the leader:
// "q", "ctrl+c", "SPC r".
type KeybindRegistry struct {
	bindings map[string]binding
}

// NewKeybindRegistry creates an empty registry.
func NewKeybindRegistry() *KeybindRegistry {
	return &KeybindRegistry{bindings: make(map[string]binding)}
}

// Bind registers seq in every mode without a help description.
func (r *KeybindRegistry) Bind(seq string, cmd tea.Cmd) {
	r.BindWithDescForMode(seq, cmd, "", nil)
}

// BindWithDesc registers seq in every mode.
func (r *KeybindRegistry) BindWithDesc(seq string, cmd tea.Cmd, desc string) {
	r.BindWithDescForMode(seq, cmd, desc, nil)
}

// BindWithDescForMode registers seq for the listed modes only; no modes means
// all of them. A later call for the same sequence replaces the earlier one.
func (r *KeybindRegistry) BindWithDescForMode(seq string, cmd tea.Cmd, desc string, modes []AppMode) {
	r.bindings[canonicalSeq(seq)] = binding{cmd: cmd, desc: desc, modes: modes}
}

// Lookup returns the command bound to seq in any mode.
func (r *KeybindRegistry) Lookup(seq string) tea.Cmd {
	return r.bindings[canonicalSeq(seq)].cmd
}

// LookupForMode returns the command bound to seq if it is active in mode.
func (r *KeybindRegistry) LookupForMode(seq string, mode AppMode) tea.Cmd {
	b, ok := r.bindings[canonicalSeq(seq)]
	if !ok || !b.activeIn(mode) {
		return nil
	}
	return b.cmd
}

// HasPrefix reports whether some longer sequence continues seq.
func (r *KeybindRegistry) HasPrefix(seq string) bool {
	prefix := canonicalSeq(seq) + " "
	for s, b := range r.bindings {
		if b.cmd != nil && strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// LeaderHints lists the next keys reachable after currentSeq ("" means just
// after the leader), keyed by key. Keys leading to a further level read "key…".
func (r *KeybindRegistry) LeaderHints(currentSeq string, mode AppMode) map[string]string {
	base := leaderSeq
	if currentSeq != "" {
		base = canonicalSeq(currentSeq)
	}
	prefix := base + " "

	out := make(map[string]string)
	for s, b := range r.bindings {
		if b.cmd == nil || !b.activeIn(mode) || !strings.HasPrefix(s, prefix) {
			continue
		}
		next, _, _ := strings.Cut(strings.TrimPrefix(s, prefix), " ")
		switch {
		case r.HasPrefix(base + " " + next):
			out[next] = next + "…"
		case b.desc != "":
			out[next] = b.desc
		default:
			out[next] = s
		}
	}
	return out
}

// canonicalSeq rewrites the spellings Bubble Tea uses for space.
func canonicalSeq(seq string) string {
	parts := strings.Fields(seq)
	for i, p := range parts {
		parts[i] = seqPart(p)
	}
	return strings.Join(parts, " ")
}

func seqPart(s string) string {
	if s == " " || s == "space" {
		return leaderSeq
	}
	return s
}

// KeyHandler tracks an in-progress leader sequence and resolves keys against
// a registry in the current Mode.
type KeyHandler struct {
	Registry      *KeybindRegistry
	LeaderWaiting bool
	Buffer        []string // typed so far, starting with "SPC"
	Mode          AppMode
}

// NewKeyHandler returns a handler with Space as leader.
func NewKeyHandler(reg *KeybindRegistry) *KeyHandler {
	return &KeyHandler{Registry: reg}
}

// Reset abandons any pending leader sequence.
func (h *KeyHandler) Reset() {
	h.LeaderWaiting = false
	h.Buffer = nil
}

// Handle resolves msg. consumed tells the caller not to pass the key on.
// Once the leader is pressed every key is consumed until the sequence
// completes, dead-ends or is cancelled with esc.
func (h *KeyHandler) Handle(msg tea.KeyMsg) (consumed bool, cmd tea.Cmd) {
	part := seqPart(msg.String())

	if !h.LeaderWaiting {
		if part == leaderSeq {
			h.LeaderWaiting = true
			h.Buffer = []string{leaderSeq}
			return true, nil
		}
		if c := h.Registry.LookupForMode(part, h.Mode); c != nil {
			return true, c
		}
		return false, nil
	}

	if part == "esc" {
		h.Reset()
		return true, nil
	}
	h.Buffer = append(h.Buffer, part)
	seq := strings.Join(h.Buffer, " ")
	if c := h.Registry.LookupForMode(seq, h.Mode); c != nil {
		h.Reset()
		return true, c
	}
	if !h.Registry.HasPrefix(seq) {
		h.Reset()
	}
	return true, nil
}
