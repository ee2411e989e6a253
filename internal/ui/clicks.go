package ui

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
)

// ClickHandler reacts to a click inside a zone. Returning stop keeps the click
// from reaching the zones that enclose this one.
type ClickHandler func() (cmd tea.Cmd, stop bool)

type listener struct {
	handler ClickHandler
	removed bool
}

// ClickRouter maps bubblezone IDs to click handlers and delivers a click to
// the innermost zone first, then outward until a handler stops it.
type ClickRouter struct {
	handlers map[string][]*listener
}

// NewClickRouter creates an empty router.
func NewClickRouter() *ClickRouter {
	return &ClickRouter{handlers: make(map[string][]*listener)}
}

// Listen registers h for clicks in zoneID. The returned func removes it and
// is safe to call more than once.
func (r *ClickRouter) Listen(zoneID string, h ClickHandler) (cancel func()) {
	l := &listener{handler: h}
	r.handlers[zoneID] = append(r.handlers[zoneID], l)
	return func() {
		if l.removed {
			return
		}
		l.removed = true
		kept := r.handlers[zoneID][:0]
		for _, other := range r.handlers[zoneID] {
			if other != l {
				kept = append(kept, other)
			}
		}
		if len(kept) == 0 {
			delete(r.handlers, zoneID)
			return
		}
		r.handlers[zoneID] = kept
	}
}

// Listeners reports how many handlers are registered for zoneID.
func (r *ClickRouter) Listeners(zoneID string) int {
	return len(r.handlers[zoneID])
}

// Zones returns the IDs that currently have at least one handler, sorted.
func (r *ClickRouter) Zones() []string {
	ids := make([]string, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Dispatch delivers a click along path, innermost zone first. Handlers removed
// by an earlier handler in the same dispatch are skipped.
func (r *ClickRouter) Dispatch(path []string) tea.Cmd {
	var cmds []tea.Cmd
	for _, id := range path {
		snapshot := append([]*listener(nil), r.handlers[id]...)
		stopped := false
		for _, l := range snapshot {
			if l.removed {
				continue
			}
			cmd, stop := l.handler()
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
			stopped = stopped || stop
		}
		if stopped {
			break
		}
	}
	return tea.Batch(cmds...)
}

// HitPath resolves a mouse event to the registered zones under it, innermost
// first. Zones nest when marks wrap each other, so a smaller area means a
// deeper zone.
func (r *ClickRouter) HitPath(msg tea.MouseMsg) []string {
	if zone.DefaultManager == nil {
		return nil
	}
	var hits []zoneHit
	for _, id := range r.Zones() {
		z := zone.Get(id)
		if z == nil || z.IsZero() || !z.InBounds(msg) {
			continue
		}
		area := (z.EndX - z.StartX + 1) * (z.EndY - z.StartY + 1)
		hits = append(hits, zoneHit{id: id, area: area})
	}
	return innermostFirst(hits)
}

type zoneHit struct {
	id   string
	area int
}

// innermostFirst orders hits by area. Equal areas happen when an inner mark
// fills its parent, e.g. a dialog drawn before the first resize; zone IDs are
// slash paths ("modal1/stop" lives in "modal1"), so the deeper path wins.
func innermostFirst(hits []zoneHit) []string {
	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.area != b.area {
			return a.area < b.area
		}
		return zoneDepth(a.id) > zoneDepth(b.id)
	})
	path := make([]string, len(hits))
	for i, h := range hits {
		path[i] = h.id
	}
	return path
}

func zoneDepth(id string) int {
	return strings.Count(id, "/")
}

// listenerScope groups the handlers registered for one dialog opening so that
// every close path removes exactly those handlers.
type listenerScope struct {
	router  *ClickRouter
	cancels []func()
}

func newListenerScope(r *ClickRouter) *listenerScope {
	return &listenerScope{router: r}
}

func (s *listenerScope) listen(zoneID string, h ClickHandler) {
	s.cancels = append(s.cancels, s.router.Listen(zoneID, h))
}

func (s *listenerScope) release() {
	if s == nil {
		return
	}
	for _, cancel := range s.cancels {
		cancel()
	}
	s.cancels = nil
}

// markZone wraps v in a bubblezone mark when a global zone manager exists.
func markZone(id, v string) string {
	if zone.DefaultManager == nil {
		return v
	}
	return zone.Mark(id, v)
}
