package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"folio/internal/logging"
)

// ErrDialogNotFound is returned by Open when the trigger names no registered dialog.
var ErrDialogNotFound = errors.New("dialog not found")

// Direction selects which way Tab moves focus.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Panel is one of the two mutually exclusive views inside the works dialog.
type Panel int

const (
	PanelGallery Panel = iota
	PanelUpload
)

func (p Panel) String() string {
	if p == PanelUpload {
		return "upload"
	}
	return "gallery"
}

// Other returns the panel that is hidden when p is shown.
func (p Panel) Other() Panel {
	if p == PanelUpload {
		return PanelGallery
	}
	return PanelUpload
}

// Trigger is an element that opens a dialog. Href is a fragment such as "#modal1".
type Trigger struct {
	Href string
}

// TargetID strips the leading '#' from Href.
func (t Trigger) TargetID() string {
	return strings.TrimPrefix(t.Href, "#")
}

// DialogContent supplies a dialog's elements. Focusables are in tab order.
type DialogContent interface {
	Focusables(p Panel) []Focusable
	// CloseControls returns the zone IDs that close the dialog when clicked.
	CloseControls() []string
	View(p Panel) string
}

// Dialog is a hidden-by-default modal container.
type Dialog struct {
	ID      string
	Content DialogContent

	panel      Panel
	display    bool
	ariaHidden bool
	ariaModal  bool
}

// NewDialog returns a hidden dialog showing its gallery panel.
func NewDialog(id string, content DialogContent) *Dialog {
	return &Dialog{ID: id, Content: content, ariaHidden: true}
}

func (d *Dialog) Visible() bool    { return d.display }
func (d *Dialog) AriaHidden() bool { return d.ariaHidden }
func (d *Dialog) AriaModal() bool  { return d.ariaModal }
func (d *Dialog) Panel() Panel     { return d.panel }

// PanelVisible reports whether p is the panel on screen. Exactly one panel is
// visible while the dialog is.
func (d *Dialog) PanelVisible(p Panel) bool {
	return d.display && d.panel == p
}

// TogglePanel swaps the visible panel.
func (d *Dialog) TogglePanel() {
	d.panel = d.panel.Other()
}

// StopZone is the inner region whose clicks never reach the backdrop.
func (d *Dialog) StopZone() string {
	return d.ID + "/stop"
}

// Render draws the dialog centered over a width x height backdrop. The
// backdrop carries the dialog's own zone so clicks outside the box close it.
func (d *Dialog) Render(width, height int) string {
	if !d.display {
		return ""
	}
	box := markZone(d.StopZone(), Styles.Box.Render(d.Content.View(d.panel)))
	if width <= 0 || height <= 0 {
		return markZone(d.ID, box)
	}
	return markZone(d.ID, lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box))
}

func (d *Dialog) show() {
	d.display = true
	d.ariaHidden = false
	d.ariaModal = true
}

func (d *Dialog) hide() {
	d.display = false
	d.ariaHidden = true
	d.ariaModal = false
}

// DialogClosedMsg is emitted once each time a dialog closes.
type DialogClosedMsg struct {
	ID string
}

// Controller owns the single active dialog, its captured focus ring and the
// click handlers registered for the current opening.
type Controller struct {
	clicks  *ClickRouter
	logger  *slog.Logger
	dialogs map[string]*Dialog

	active     *Dialog
	focusables []Focusable
	ring       FocusManager
	scope      *listenerScope
}

// NewController creates a controller that registers dialog click handlers on clicks.
func NewController(clicks *ClickRouter, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = logging.Discard()
	}
	c := &Controller{
		clicks:  clicks,
		logger:  logger,
		dialogs: make(map[string]*Dialog),
	}
	c.ring.OnChange = func(from, to string) {
		c.logger.Debug("focus moved", "from", from, "to", to)
	}
	return c
}

// Register makes d reachable by triggers whose href names d.ID.
func (c *Controller) Register(d *Dialog) {
	c.dialogs[d.ID] = d
}

// Dialog looks up a registered dialog.
func (c *Controller) Dialog(id string) (*Dialog, bool) {
	d, ok := c.dialogs[id]
	return d, ok
}

// Active returns the open dialog or nil.
func (c *Controller) Active() *Dialog { return c.active }

// IsOpen reports whether a dialog is open.
func (c *Controller) IsOpen() bool { return c.active != nil }

// Focusables returns the focus set captured when the dialog opened.
func (c *Controller) Focusables() []Focusable {
	return append([]Focusable(nil), c.focusables...)
}

// Focused returns the element holding focus, or nil.
func (c *Controller) Focused() Focusable {
	if i := c.ring.Index(); i >= 0 && i < len(c.focusables) {
		return c.focusables[i]
	}
	return nil
}

// Open shows the dialog named by t, closing any dialog already open. Focus
// moves to the first focusable element.
func (c *Controller) Open(t Trigger) (tea.Cmd, error) {
	d, ok := c.dialogs[t.TargetID()]
	if !ok {
		c.logger.Error("open dialog", "href", t.Href, "error", ErrDialogNotFound)
		return nil, fmt.Errorf("open %q: %w", t.Href, ErrDialogNotFound)
	}

	var cmds []tea.Cmd
	if c.active != nil {
		cmds = append(cmds, c.Close())
	}

	c.active = d
	d.show()
	cmds = append(cmds, c.capture())

	scope := newListenerScope(c.clicks)
	closeOnClick := func() (tea.Cmd, bool) { return c.Close(), false }
	scope.listen(d.ID, closeOnClick)
	for _, id := range d.Content.CloseControls() {
		scope.listen(id, closeOnClick)
	}
	scope.listen(d.StopZone(), func() (tea.Cmd, bool) { return nil, true })
	c.scope = scope

	c.logger.Debug("dialog opened", "id", d.ID, "panel", d.panel, "focusables", len(c.focusables))
	return tea.Batch(cmds...), nil
}

// Close hides the active dialog and releases its click handlers. Closing with
// no dialog open is a no-op.
func (c *Controller) Close() tea.Cmd {
	d := c.active
	if d == nil {
		return nil
	}
	for _, f := range c.focusables {
		f.Blur()
	}
	d.hide()
	c.scope.release()
	c.scope = nil
	c.active = nil
	c.focusables = nil
	c.ring.Reset(nil)

	c.logger.Debug("dialog closed", "id", d.ID)
	return func() tea.Msg { return DialogClosedMsg{ID: d.ID} }
}

// CycleFocus moves focus one step in dir relative to current. A current
// element outside the focus set counts as sitting before the first element.
func (c *Controller) CycleFocus(dir Direction, current Focusable) tea.Cmd {
	if c.active == nil || len(c.focusables) == 0 {
		return nil
	}
	c.ring.Current = ""
	if current != nil {
		c.ring.Current = current.FocusID()
	}
	var next string
	if dir == Backward {
		next = c.ring.Prev()
	} else {
		next = c.ring.Next()
	}
	return c.focus(next)
}

// TogglePanel swaps the active dialog's panel and scopes the focus ring to
// the newly visible panel, focusing its first element.
func (c *Controller) TogglePanel() tea.Cmd {
	if c.active == nil {
		return nil
	}
	for _, f := range c.focusables {
		f.Blur()
	}
	c.active.TogglePanel()
	c.logger.Debug("dialog panel", "id", c.active.ID, "panel", c.active.panel)
	return c.capture()
}

// HandleKey processes a key while a dialog may be open. Escape closes, Tab
// and Shift+Tab cycle focus and other keys go to the focused element. The
// key counts as consumed only when a dialog is open.
func (c *Controller) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if c.active == nil {
		return false, nil
	}
	switch msg.String() {
	case "esc":
		return true, c.Close()
	case "tab":
		return true, c.CycleFocus(Forward, c.Focused())
	case "shift+tab":
		return true, c.CycleFocus(Backward, c.Focused())
	}
	if f := c.Focused(); f != nil {
		return true, f.Update(msg)
	}
	return true, nil
}

// Forward passes a non-key message, such as a cursor blink, to the focused element.
func (c *Controller) Forward(msg tea.Msg) tea.Cmd {
	if f := c.Focused(); f != nil {
		return f.Update(msg)
	}
	return nil
}

// capture reads the focus set from the visible panel and focuses its first element.
func (c *Controller) capture() tea.Cmd {
	c.focusables = c.active.Content.Focusables(c.active.panel)
	ids := make([]string, len(c.focusables))
	for i, f := range c.focusables {
		ids[i] = f.FocusID()
	}
	c.ring.Reset(ids)
	if len(ids) == 0 {
		return nil
	}
	return c.focus(ids[0])
}

func (c *Controller) focus(id string) tea.Cmd {
	var cmd tea.Cmd
	for _, f := range c.focusables {
		if f.FocusID() == id {
			cmd = f.Focus()
		} else {
			f.Blur()
		}
	}
	c.ring.SetFocus(id)
	return cmd
}
