package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"folio/internal/api"
	"folio/internal/upload"
	"folio/internal/ui/textutil"
)

// EditDialogID is the works dialog opened by the "#modal1" edit trigger.
const EditDialogID = "modal1"

// EditTrigger opens the works dialog.
var EditTrigger = Trigger{Href: "#" + EditDialogID}

const previewWidth, previewHeight = 32, 8

// WorksDialog is the content of the works dialog: a gallery panel that lists
// works with delete controls, and an upload panel with the new-work form.
type WorksDialog struct {
	dialog *Dialog
	clicks *ClickRouter

	closeBtn *Button
	grid     *WorkGrid
	addPhoto *Button

	back     *Button
	file     *TextField
	title    *TextField
	category *Select
	submit   *Button

	image      *upload.Image
	pickedFrom string
	preview    string
	galleryErr string
	formErr    string
	limit      string

	trashCancels []func()
}

var _ DialogContent = (*WorksDialog)(nil)

// NewWorksDialog builds the works dialog and its content. The add-photo and
// back buttons listen for clicks for the lifetime of the dialog.
func NewWorksDialog(clicks *ClickRouter) (*Dialog, *WorksDialog) {
	id := EditDialogID
	w := &WorksDialog{clicks: clicks}
	w.closeBtn = NewButton(id+"/close", "✕", func() tea.Msg { return CloseDialogMsg{} })
	w.grid = &WorkGrid{
		ID: id + "/works",
		OnDelete: func(work api.Work) tea.Cmd {
			return func() tea.Msg { return DeleteWorkMsg{ID: work.ID} }
		},
	}
	w.addPhoto = NewButton(id+"/add-photo", "Add a photo", func() tea.Msg { return TogglePanelMsg{} })
	w.back = NewButton(id+"/back", "←", func() tea.Msg { return TogglePanelMsg{} })
	w.file = NewTextField(id+"/file", "", "~/Pictures/photo.jpg")
	w.file.OnSubmit = func(value string) tea.Cmd {
		return func() tea.Msg { return PickImageMsg{Path: value} }
	}
	w.title = NewTextField(id+"/title", "Title", "")
	w.category = NewSelect(id+"/category", "Category")
	w.submit = NewButton(id+"/submit", "Submit", func() tea.Msg { return SubmitWorkMsg{} })

	w.SetUploadLimit(upload.DefaultMaxBytes)
	w.dialog = NewDialog(id, w)

	w.onClick(w.addPhoto, PanelGallery)
	w.onClick(w.back, PanelUpload)
	w.onClick(w.submit, PanelUpload)
	return w.dialog, w
}

// SetUploadLimit updates the size hints shown next to the file picker.
func (w *WorksDialog) SetUploadLimit(maxBytes int64) {
	w.limit = "jpg, png: " + upload.FormatLimit(maxBytes) + " max"
	w.file.Label = "Image file (" + w.limit + ")"
}

func (w *WorksDialog) onClick(b *Button, p Panel) {
	w.clicks.Listen(b.ID, func() (tea.Cmd, bool) {
		if !w.dialog.PanelVisible(p) {
			return nil, false
		}
		return b.OnPress, false
	})
}

// Focusables implements DialogContent.
func (w *WorksDialog) Focusables(p Panel) []Focusable {
	if p == PanelUpload {
		return []Focusable{w.back, w.closeBtn, w.file, w.title, w.category, w.submit}
	}
	return []Focusable{w.closeBtn, w.grid, w.addPhoto}
}

// CloseControls implements DialogContent.
func (w *WorksDialog) CloseControls() []string {
	return []string{w.closeBtn.ID}
}

// SetWorks shows works in the gallery panel and rebinds their delete icons.
// Delete clicks do not propagate to the dialog.
func (w *WorksDialog) SetWorks(works []api.Work) {
	for _, cancel := range w.trashCancels {
		cancel()
	}
	w.trashCancels = w.trashCancels[:0]
	w.grid.SetWorks(works)
	for _, work := range works {
		id := work.ID
		w.trashCancels = append(w.trashCancels, w.clicks.Listen(w.grid.TrashZone(id), func() (tea.Cmd, bool) {
			if !w.dialog.PanelVisible(PanelGallery) {
				return nil, false
			}
			return func() tea.Msg { return DeleteWorkMsg{ID: id} }, true
		}))
	}
}

// SetCategories fills the category select.
func (w *WorksDialog) SetCategories(cats []api.Category) {
	opts := make([]Option, len(cats))
	for i, c := range cats {
		opts[i] = Option{Value: c.ID, Label: c.Name}
	}
	w.category.SetOptions(opts)
}

// SetGalleryError shows msg under the works list; empty clears it.
func (w *WorksDialog) SetGalleryError(msg string) { w.galleryErr = msg }

// SetFormError shows msg above the upload form; empty clears it.
func (w *WorksDialog) SetFormError(msg string) { w.formErr = msg }

// SetImage records a validated image and its rendered preview.
func (w *WorksDialog) SetImage(img *upload.Image, preview string) {
	w.image = img
	w.pickedFrom = strings.TrimSpace(w.file.Value())
	w.preview = preview
	w.formErr = ""
}

// ClearImage drops the picked image, e.g. after a rejected pick.
func (w *WorksDialog) ClearImage() {
	w.image = nil
	w.pickedFrom = ""
	w.preview = ""
}

// PendingPath returns the file field value when it has not been inspected yet.
func (w *WorksDialog) PendingPath() (string, bool) {
	v := strings.TrimSpace(w.file.Value())
	if v == "" || (w.image != nil && v == w.pickedFrom) {
		return "", false
	}
	return v, true
}

// Draft returns the form as an upload draft.
func (w *WorksDialog) Draft() upload.Draft {
	d := upload.NewDraft()
	d.Image = w.image
	d.Title = w.title.Value()
	if o, ok := w.category.Selected(); ok {
		d.CategoryID = o.Value
	}
	return d
}

// ResetDraft empties the form after a successful upload.
func (w *WorksDialog) ResetDraft() {
	w.ClearImage()
	w.file.Reset()
	w.title.Reset()
	w.category.SelectValue(upload.DefaultCategoryID)
	w.formErr = ""
}

// View implements DialogContent.
func (w *WorksDialog) View(p Panel) string {
	if p == PanelUpload {
		return w.uploadView()
	}
	return w.galleryView()
}

func (w *WorksDialog) galleryView() string {
	var b strings.Builder
	b.WriteString(topBar("", w.closeBtn.View()))
	b.WriteString("\n")
	b.WriteString(Styles.Title.Render("Photo gallery"))
	b.WriteString("\n\n")
	b.WriteString(w.grid.View())
	b.WriteString("\n")
	if w.galleryErr != "" {
		b.WriteString(Styles.BoxDanger.Render(w.galleryErr))
		b.WriteString("\n")
	}
	b.WriteString(Styles.Hint.Render("d: delete selected  tab: next  esc: close"))
	b.WriteString("\n\n")
	b.WriteString(w.addPhoto.View())
	return b.String()
}

func (w *WorksDialog) uploadView() string {
	var b strings.Builder
	b.WriteString(topBar(w.back.View(), w.closeBtn.View()))
	b.WriteString("\n")
	b.WriteString(Styles.Title.Render("Add photo"))
	b.WriteString("\n\n")
	if w.formErr != "" {
		b.WriteString(Styles.BoxDanger.Render(w.formErr))
		b.WriteString("\n")
	}
	photo := Styles.Empty.Render("+ Add photo\n" + w.limit)
	if w.preview != "" {
		photo = w.preview
	}
	b.WriteString(Styles.Input.Width(previewWidth + 2).Render(photo))
	b.WriteString("\n")
	for _, f := range []Focusable{w.file, w.title, w.category} {
		b.WriteString(f.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	w.submit.Dimmed = w.Draft().Validate() != nil
	b.WriteString(w.submit.View())
	return b.String()
}

// topBar places left and right controls at the edges of a 40 column row.
func topBar(left, right string) string {
	left = textutil.PadRight(left, 40-textutil.Width(right))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}
