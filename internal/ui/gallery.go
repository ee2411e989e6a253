package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"folio/internal/api"
	"folio/internal/ui/textutil"
)

// Click zones on the gallery screen.
const (
	ZoneEditLink   = "gallery/edit"
	ZoneEditBanner = "gallery/banner"
	ZoneSessionNav = "gallery/session"
)

// FilterZone is the click zone of the filter button for categoryID (0 is All).
func FilterZone(categoryID int) string {
	return fmt.Sprintf("gallery/filter/%d", categoryID)
}

// GalleryView is the public portfolio: a filter bar above the works grid.
// In admin mode the filter bar is replaced by the edit controls.
type GalleryView struct {
	Works      []api.Work
	Categories []api.Category
	Filter     int  // active category; 0 is All
	Admin      bool // a session token is present
	Status     string

	cursor  int // filter bar position; 0 is All
	loading bool
	spinner spinner.Model
	width   int
}

// Ensure GalleryView implements View.
var _ View = (*GalleryView)(nil)

// NewGalleryView creates an empty gallery.
func NewGalleryView() *GalleryView {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = Styles.Status
	return &GalleryView{spinner: s, width: 80}
}

// Init implements View.
func (g *GalleryView) Init() tea.Cmd {
	return g.SetLoading(true)
}

// SetLoading sets the loading state and returns a command to start the spinner.
func (g *GalleryView) SetLoading(loading bool) tea.Cmd {
	g.loading = loading
	if loading {
		return g.spinner.Tick
	}
	return nil
}

// SetCategories replaces the filter buttons, keeping the active filter when
// its category still exists.
func (g *GalleryView) SetCategories(cats []api.Category) {
	g.Categories = cats
	g.cursor = 0
	for i, c := range cats {
		if c.ID == g.Filter {
			g.cursor = i + 1
			return
		}
	}
	g.Filter = 0
}

// filterIDs returns the category IDs in filter bar order, All first.
func (g *GalleryView) filterIDs() []int {
	ids := make([]int, 0, len(g.Categories)+1)
	ids = append(ids, 0)
	for _, c := range g.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// Update implements View.
func (g *GalleryView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		g.width = msg.Width
		return g, nil
	case spinner.TickMsg:
		if g.loading {
			var cmd tea.Cmd
			g.spinner, cmd = g.spinner.Update(msg)
			return g, cmd
		}
		return g, nil
	case tea.KeyMsg:
		if g.Admin {
			return g, nil
		}
		ids := g.filterIDs()
		switch msg.String() {
		case "left", "h":
			g.cursor = (g.cursor - 1 + len(ids)) % len(ids)
		case "right", "l":
			g.cursor = (g.cursor + 1) % len(ids)
		case "enter":
			id := ids[g.cursor]
			return g, func() tea.Msg { return SelectFilterMsg{CategoryID: id} }
		}
	}
	return g, nil
}

// View implements View.
func (g *GalleryView) View() string {
	var b strings.Builder
	if g.Admin {
		b.WriteString(markZone(ZoneEditBanner, Styles.Banner.Width(max(g.width, 20)).Render("✎ Edit mode")))
		b.WriteString("\n")
	}

	nav := "login"
	if g.Admin {
		nav = "logout"
	}
	b.WriteString(Styles.Title.Render("Sophie Bluel") + "  " + markZone(ZoneSessionNav, Styles.Muted.Render(nav)))
	b.WriteString("\n\n")

	title := "My Projects"
	if g.loading {
		title += " " + g.spinner.View()
	}
	header := Styles.Section.Render(title)
	if g.Admin {
		header += "  " + markZone(ZoneEditLink, Styles.Hint.Render("✎ edit"))
	}
	b.WriteString(header)
	b.WriteString("\n")

	if !g.Admin {
		b.WriteString(g.filterBar())
		b.WriteString("\n")
	}
	b.WriteString(g.grid())
	b.WriteString("\n")
	if g.Status != "" {
		b.WriteString(Styles.Status.Render(g.Status))
		b.WriteString("\n")
	}
	hint := "←/→: filter  enter: apply  SPC: commands  q: quit"
	if g.Admin {
		hint = "SPC e: edit  SPC l: logout  SPC: commands  q: quit"
	}
	b.WriteString(Styles.Hint.Render(hint))
	return b.String()
}

func (g *GalleryView) filterBar() string {
	buttons := make([]string, 0, len(g.Categories)+1)
	for i, id := range g.filterIDs() {
		label := "All"
		if i > 0 {
			label = g.Categories[i-1].Name
		}
		style := Styles.Filter
		if id == g.Filter {
			style = Styles.FilterActive
		}
		if i == g.cursor {
			style = style.BorderForeground(lipgloss.Color(ColorHighlight))
		}
		buttons = append(buttons, markZone(FilterZone(id), style.Render(label)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

func (g *GalleryView) grid() string {
	if len(g.Works) == 0 {
		if g.loading {
			return Styles.Empty.Render("Loading…")
		}
		return Styles.Empty.Render("No works in this category")
	}
	cols := max(g.width/(lipgloss.Width(Styles.Card.Render(""))+1), 1)
	var rows []string
	var row []string
	for _, w := range g.Works {
		card := Styles.Card.Render(
			Styles.Normal.Render(textutil.Truncate(w.Title, 20)) + "\n" +
				Styles.Muted.Render(textutil.FileLabel(w.ImageURL, 20)))
		row = append(row, card)
		if len(row) == cols {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(rows, "\n")
}
