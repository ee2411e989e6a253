package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"folio/internal/api"
	"folio/internal/upload"
)

// GalleryAPI is the subset of the works API the UI calls.
type GalleryAPI interface {
	ListWorks(ctx context.Context) ([]api.Work, error)
	ListCategories(ctx context.Context) ([]api.Category, error)
	Login(ctx context.Context, creds api.Credentials) (api.LoginResult, error)
	CreateWork(ctx context.Context, token string, w api.NewWork) (api.Work, error)
	DeleteWork(ctx context.Context, token string, id int) error
}

// loadWorksCmd fetches every work and filters them by categoryID client-side.
func loadWorksCmd(c GalleryAPI, categoryID int) tea.Cmd {
	return func() tea.Msg {
		works, err := c.ListWorks(context.Background())
		if err != nil {
			return WorksLoadedMsg{CategoryID: categoryID, Err: err}
		}
		return WorksLoadedMsg{Works: api.FilterWorks(works, categoryID), CategoryID: categoryID}
	}
}

func loadCategoriesCmd(c GalleryAPI) tea.Cmd {
	return func() tea.Msg {
		cats, err := c.ListCategories(context.Background())
		return CategoriesLoadedMsg{Categories: cats, Err: err}
	}
}

func loginCmd(c GalleryAPI, email, password string) tea.Cmd {
	return func() tea.Msg {
		res, err := c.Login(context.Background(), api.Credentials{Email: email, Password: password})
		return LoginResultMsg{Result: res, Err: err}
	}
}

func deleteWorkCmd(c GalleryAPI, token string, id int) tea.Cmd {
	return func() tea.Msg {
		return WorkDeletedMsg{ID: id, Err: c.DeleteWork(context.Background(), token, id)}
	}
}

func createWorkCmd(c GalleryAPI, token string, nw api.NewWork) tea.Cmd {
	return func() tea.Msg {
		w, err := c.CreateWork(context.Background(), token, nw)
		return WorkCreatedMsg{Work: w, Err: err}
	}
}

// inspectImageCmd validates the file at path and renders its preview off the
// update loop, since both read and decode the whole image.
func inspectImageCmd(path string, maxBytes int64, submit bool) tea.Cmd {
	return func() tea.Msg {
		img, err := upload.Inspect(path, maxBytes)
		if err != nil {
			return ImagePickedMsg{Submit: submit, Err: err}
		}
		preview, err := upload.Preview(img, previewWidth, previewHeight)
		if err != nil {
			// Sniffed as an image but undecodable; still uploadable.
			preview = ""
		}
		return ImagePickedMsg{Image: img, Preview: preview, Submit: submit}
	}
}
