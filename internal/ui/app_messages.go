package ui

import (
	"folio/internal/api"
	"folio/internal/upload"
)

// OpenDialogMsg is sent when an edit trigger is activated (SPC e, click on the
// edit link or the edit mode banner).
type OpenDialogMsg struct {
	Trigger Trigger
}

// CloseDialogMsg is sent by a dialog's close button.
type CloseDialogMsg struct{}

// TogglePanelMsg switches the works dialog between its gallery and upload panels.
type TogglePanelMsg struct{}

// RefreshMsg reloads works and categories (SPC r).
type RefreshMsg struct{}

// WorksLoadedMsg carries the works list. CategoryID is the filter that was
// active when the load started; 0 means all.
type WorksLoadedMsg struct {
	Works      []api.Work
	CategoryID int
	Err        error
}

// CategoriesLoadedMsg carries the category list for the filter bar and the upload form.
type CategoriesLoadedMsg struct {
	Categories []api.Category
	Err        error
}

// SelectFilterMsg is sent when a filter button is chosen. 0 selects All.
type SelectFilterMsg struct {
	CategoryID int
}

// ToggleSessionMsg is the login/logout nav link: it shows the login form when
// logged out and logs out otherwise.
type ToggleSessionMsg struct{}

// ShowLoginMsg switches to the login screen.
type ShowLoginMsg struct{}

// BackToGalleryMsg leaves the login screen without logging in.
type BackToGalleryMsg struct{}

// LogoutMsg clears the session token.
type LogoutMsg struct{}

// LoginSubmitMsg is sent when the login form is submitted.
type LoginSubmitMsg struct {
	Email    string
	Password string
}

// LoginResultMsg carries the outcome of a login request.
type LoginResultMsg struct {
	Result api.LoginResult
	Err    error
}

// DeleteWorkMsg asks to delete one work (trash icon or d in the works grid).
type DeleteWorkMsg struct {
	ID int
}

// WorkDeletedMsg carries the outcome of a delete request.
type WorkDeletedMsg struct {
	ID  int
	Err error
}

// PickImageMsg asks to inspect the image file at Path.
type PickImageMsg struct {
	Path string
}

// ImagePickedMsg carries an inspected image and its terminal preview. Submit
// is set when the pick was started by a form submission that should resume.
type ImagePickedMsg struct {
	Image   *upload.Image
	Preview string
	Submit  bool
	Err     error
}

// SubmitWorkMsg is sent when the upload form is submitted.
type SubmitWorkMsg struct{}

// WorkCreatedMsg carries the outcome of an upload.
type WorkCreatedMsg struct {
	Work api.Work
	Err  error
}
