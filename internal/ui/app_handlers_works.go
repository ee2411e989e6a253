package ui

import (
	"errors"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"

	"folio/internal/api"
	"folio/internal/upload"
)

// DeleteFailedText is shown in the works dialog when a delete is refused.
const DeleteFailedText = "There was an error"

// handleWorksLoaded shows works in the gallery and the works dialog. Results
// for a filter that is no longer active are dropped.
func (a *appModelAdapter) handleWorksLoaded(msg WorksLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.CategoryID != a.Gallery.Filter {
		return a, nil
	}
	a.Gallery.SetLoading(false)
	if msg.Err != nil {
		a.Logger.Error("load works", "error", msg.Err, "status", api.StatusCode(msg.Err))
		a.Gallery.Status = "Could not load works: " + msg.Err.Error()
		return a, nil
	}
	a.Gallery.Status = ""
	a.Gallery.Works = msg.Works
	a.Editor.SetWorks(msg.Works)
	a.Logger.Debug("works loaded", "count", len(msg.Works), "category", msg.CategoryID)
	return a, nil
}

// handleCategoriesLoaded fills the filter bar and the upload form and binds
// a click handler to each filter button.
func (a *appModelAdapter) handleCategoriesLoaded(msg CategoriesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.Logger.Error("load categories", "error", msg.Err, "status", api.StatusCode(msg.Err))
		a.Gallery.Status = "Could not load categories: " + msg.Err.Error()
		return a, nil
	}
	a.Gallery.SetCategories(msg.Categories)
	a.Editor.SetCategories(msg.Categories)

	for _, cancel := range a.filterCancels {
		cancel()
	}
	a.filterCancels = a.filterCancels[:0]
	for _, id := range a.Gallery.filterIDs() {
		a.filterCancels = append(a.filterCancels, a.Clicks.Listen(FilterZone(id), func() (tea.Cmd, bool) {
			if a.Mode != ModeGallery || a.Gallery.Admin {
				return nil, false
			}
			return func() tea.Msg { return SelectFilterMsg{CategoryID: id} }, true
		}))
	}
	return a, nil
}

// handleOpenDialog opens the works dialog for admins.
func (a *appModelAdapter) handleOpenDialog(msg OpenDialogMsg) (tea.Model, tea.Cmd) {
	if !a.Gallery.Admin {
		a.Gallery.Status = "Log in to edit works"
		return a, nil
	}
	cmd, err := a.Dialogs.Open(msg.Trigger)
	if err != nil {
		a.Gallery.Status = err.Error()
		return a, nil
	}
	a.Editor.SetGalleryError("")
	return a, cmd
}

func (a *appModelAdapter) handleDeleteWork(msg DeleteWorkMsg) (tea.Model, tea.Cmd) {
	token := a.token()
	if token == "" {
		a.Logger.Error("delete work", "id", msg.ID, "error", "auth token missing")
		a.Editor.SetGalleryError(DeleteFailedText)
		return a, nil
	}
	a.Logger.Info("deleting work", "id", msg.ID)
	return a, deleteWorkCmd(a.API, token, msg.ID)
}

// handleWorkDeleted reloads works after a delete. A 401 or 500 from the API
// shows the generic error; other failures are logged only.
func (a *appModelAdapter) handleWorkDeleted(msg WorkDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		status := api.StatusCode(msg.Err)
		a.Logger.Error("delete work", "id", msg.ID, "status", status, "error", msg.Err)
		if status == http.StatusUnauthorized || status == http.StatusInternalServerError {
			a.Editor.SetGalleryError(DeleteFailedText)
		}
		return a, nil
	}
	a.Editor.SetGalleryError("")
	return a, tea.Batch(a.Gallery.SetLoading(true), loadWorksCmd(a.API, a.Gallery.Filter))
}

// handleImagePicked shows the preview, or the validation message for a
// rejected file. A pick started by submit resumes the submission.
func (a *appModelAdapter) handleImagePicked(msg ImagePickedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.Logger.Warn("image rejected", "error", msg.Err)
		a.Editor.ClearImage()
		a.Editor.SetFormError(upload.Message(msg.Err))
		return a, nil
	}
	a.Editor.SetImage(msg.Image, msg.Preview)
	if msg.Submit {
		return a, func() tea.Msg { return SubmitWorkMsg{} }
	}
	return a, nil
}

// handleSubmitWork validates the draft and posts it. A file path typed but
// never confirmed is inspected first.
func (a *appModelAdapter) handleSubmitWork() (tea.Model, tea.Cmd) {
	if path, ok := a.Editor.PendingPath(); ok {
		return a, inspectImageCmd(path, a.MaxUploadBytes, true)
	}
	draft := a.Editor.Draft()
	nw, err := draft.NewWork()
	if err != nil {
		a.Editor.SetFormError(upload.Message(err))
		return a, nil
	}
	token := a.token()
	if token == "" {
		a.Logger.Error("create work", "error", "auth token missing")
		return a, nil
	}
	a.Editor.SetFormError("")
	a.Logger.Info("uploading work", "title", nw.Title, "category", nw.CategoryID, "file", nw.Filename)
	return a, createWorkCmd(a.API, token, nw)
}

// handleWorkCreated resets the form and returns to the gallery panel on
// success. Any other status shows the response body.
func (a *appModelAdapter) handleWorkCreated(msg WorkCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.Logger.Error("create work", "status", api.StatusCode(msg.Err), "error", msg.Err)
		body := msg.Err.Error()
		var se *api.StatusError
		if errors.As(msg.Err, &se) {
			body = se.Body
		}
		a.Editor.SetFormError("There was an error: " + body)
		return a, nil
	}
	a.Logger.Info("work created", "id", msg.Work.ID)
	a.Editor.ResetDraft()
	var cmds []tea.Cmd
	if d := a.Dialogs.Active(); d != nil && d.Panel() == PanelUpload {
		cmds = append(cmds, a.Dialogs.TogglePanel())
	}
	cmds = append(cmds, a.Gallery.SetLoading(true), loadWorksCmd(a.API, a.Gallery.Filter))
	return a, tea.Batch(cmds...)
}

// token returns the session token, or "" when there is none or it cannot be read.
func (a *AppModel) token() string {
	t, err := a.Session.Token()
	if err != nil {
		a.Logger.Error("read session", "error", err)
		return ""
	}
	return t
}
