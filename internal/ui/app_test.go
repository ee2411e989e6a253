package ui

import (
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/api"
	"folio/internal/apitest"
	"folio/internal/session"
)

var uiPkg = reflect.TypeOf(RefreshMsg{}).PkgPath()

// collect runs cmd and every command batched inside it, returning the
// messages produced before all of them finish or the wait expires.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	out := make(chan tea.Msg, 256)
	var wg sync.WaitGroup
	var run func(c tea.Cmd)
	run = func(c tea.Cmd) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, sub := range batch {
					if sub != nil {
						run(sub)
					}
				}
				return
			}
			if msg != nil {
				out <- msg
			}
		}()
	}
	run(cmd)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}

	var msgs []tea.Msg
	for {
		select {
		case m := <-out:
			msgs = append(msgs, m)
		default:
			return msgs
		}
	}
}

// settle feeds the messages cmd produces back into a until no more of this
// package's messages appear. Spinner ticks and cursor blinks are dropped.
func settle(t *testing.T, a tea.Model, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil && i < 20; i++ {
		var next []tea.Cmd
		for _, msg := range collect(cmd) {
			if reflect.TypeOf(msg).PkgPath() != uiPkg {
				continue
			}
			_, c := a.Update(msg)
			next = append(next, c)
		}
		cmd = tea.Batch(next...)
	}
}

func send(t *testing.T, a tea.Model, msg tea.Msg) {
	t.Helper()
	_, cmd := a.Update(msg)
	settle(t, a, cmd)
}

func press(t *testing.T, a tea.Model, keys ...string) {
	t.Helper()
	for _, k := range keys {
		send(t, a, keyMsg(k))
	}
}

func newTestApp(t *testing.T, store session.Store) (*appModelAdapter, *apitest.Server) {
	t.Helper()
	srv := apitest.New(t)
	client, err := api.NewClient(srv.BaseURL())
	require.NoError(t, err)

	a := NewAppModel(Deps{API: client, Session: store}).AsTeaModel().(*appModelAdapter)
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	settle(t, a, a.Init())
	return a, srv
}

func login(t *testing.T, a *appModelAdapter) {
	t.Helper()
	send(t, a, ShowLoginMsg{})
	send(t, a, LoginSubmitMsg{Email: "sophie.bluel@test.tld", Password: "S0phie"})
	require.True(t, a.Gallery.Admin, "login should succeed")
}

func openEditor(t *testing.T, a *appModelAdapter) {
	t.Helper()
	press(t, a, " ", "e")
	require.True(t, a.Dialogs.IsOpen(), "SPC e should open the works dialog")
}

func TestApp_StartupLoadsGallery(t *testing.T) {
	a, _ := newTestApp(t, nil)

	assert.Equal(t, ModeGallery, a.Mode)
	assert.False(t, a.Gallery.Admin)
	assert.Len(t, a.Gallery.Works, 4)
	assert.Len(t, a.Gallery.Categories, 3)
	assert.Contains(t, a.View(), "Abajour")
	assert.Contains(t, a.View(), "Hotels & restaurants")
}

func TestApp_FilterByCategory(t *testing.T) {
	a, srv := newTestApp(t, nil)

	send(t, a, SelectFilterMsg{CategoryID: 2})
	require.Len(t, a.Gallery.Works, 2)
	for _, w := range a.Gallery.Works {
		assert.Equal(t, 2, w.CategoryID)
	}

	send(t, a, SelectFilterMsg{CategoryID: 0})
	assert.Len(t, a.Gallery.Works, 4)

	press(t, a, "right", "enter")
	assert.Equal(t, 1, a.Gallery.Filter)
	assert.Len(t, a.Gallery.Works, 1)

	for _, r := range srv.Requests() {
		assert.Equal(t, http.MethodGet, r.Method, "filtering never asks the server to filter")
	}
}

func TestApp_FilterClick(t *testing.T) {
	a, _ := newTestApp(t, nil)

	settle(t, a, a.Clicks.Dispatch([]string{FilterZone(3)}))
	assert.Equal(t, 3, a.Gallery.Filter)
	assert.Len(t, a.Gallery.Works, 1)
}

func TestApp_StaleWorksDropped(t *testing.T) {
	a, _ := newTestApp(t, nil)
	send(t, a, SelectFilterMsg{CategoryID: 1})

	a.Update(WorksLoadedMsg{CategoryID: 0, Works: make([]api.Work, 9)})
	assert.Len(t, a.Gallery.Works, 1)
}

func TestApp_EditRequiresLogin(t *testing.T) {
	a, _ := newTestApp(t, nil)

	press(t, a, " ", "e")
	assert.False(t, a.Dialogs.IsOpen())
	assert.Contains(t, a.Gallery.Status, "Log in")
}

func TestApp_LoginFailure(t *testing.T) {
	a, _ := newTestApp(t, nil)

	send(t, a, ToggleSessionMsg{})
	require.Equal(t, ModeLogin, a.Mode)

	typeText(func(m tea.Msg) { a.Update(m) }, "sophie.bluel@test.tld")
	press(t, a, "tab")
	typeText(func(m tea.Msg) { a.Update(m) }, "wrong")
	press(t, a, "enter")

	assert.Equal(t, ModeLogin, a.Mode)
	assert.Equal(t, LoginFailedText, a.Login.Err)
	assert.False(t, session.LoggedIn(a.Session))
	assert.Contains(t, a.View(), LoginFailedText)

	send(t, a, LoginSubmitMsg{Email: "nobody@test.tld", Password: "x"})
	assert.Equal(t, LoginFailedText, a.Login.Err, "unknown user reads the same")
}

func TestApp_LoginSuccess(t *testing.T) {
	a, _ := newTestApp(t, nil)

	send(t, a, ToggleSessionMsg{})
	typeText(func(m tea.Msg) { a.Update(m) }, "sophie.bluel@test.tld")
	press(t, a, "tab")
	typeText(func(m tea.Msg) { a.Update(m) }, "S0phie")
	press(t, a, "enter")

	assert.Equal(t, ModeGallery, a.Mode)
	assert.True(t, a.Gallery.Admin)
	tok, err := a.Session.Token()
	require.NoError(t, err)
	assert.Equal(t, apitest.Token, tok)

	view := a.View()
	assert.Contains(t, view, "Edit mode")
	assert.Contains(t, view, "logout")
}

func TestApp_LoginEscapeReturnsToGallery(t *testing.T) {
	a, _ := newTestApp(t, nil)
	send(t, a, ShowLoginMsg{})
	press(t, a, "esc")
	assert.Equal(t, ModeGallery, a.Mode)
	assert.Nil(t, a.Login)
}

func TestApp_DialogKeyboard(t *testing.T) {
	a, _ := newTestApp(t, nil)
	login(t, a)
	openEditor(t, a)

	d := a.Dialogs.Active()
	assert.Equal(t, EditDialogID, d.ID)
	assert.True(t, d.PanelVisible(PanelGallery))
	assert.Equal(t, "modal1/close", focusedID(a.Dialogs))

	press(t, a, "tab")
	assert.Equal(t, "modal1/works", focusedID(a.Dialogs))
	press(t, a, "tab", "tab")
	assert.Equal(t, "modal1/close", focusedID(a.Dialogs), "tab wraps")
	press(t, a, "shift+tab")
	assert.Equal(t, "modal1/add-photo", focusedID(a.Dialogs), "shift+tab wraps")

	press(t, a, "q")
	assert.True(t, a.Dialogs.IsOpen(), "q is trapped inside the dialog")

	press(t, a, "esc")
	assert.False(t, a.Dialogs.IsOpen())
	assert.False(t, d.Visible())
	assert.True(t, d.AriaHidden())
}

func TestApp_DialogClicks(t *testing.T) {
	a, _ := newTestApp(t, nil)
	login(t, a)

	settle(t, a, a.Clicks.Dispatch([]string{ZoneEditLink}))
	require.True(t, a.Dialogs.IsOpen())
	d := a.Dialogs.Active()

	settle(t, a, a.Clicks.Dispatch([]string{"modal1/works", d.StopZone(), d.ID}))
	assert.True(t, a.Dialogs.IsOpen(), "clicks inside the box keep it open")

	settle(t, a, a.Clicks.Dispatch([]string{d.ID}))
	assert.False(t, a.Dialogs.IsOpen(), "backdrop click closes")

	settle(t, a, a.Clicks.Dispatch([]string{ZoneEditBanner}))
	require.True(t, a.Dialogs.IsOpen())
	settle(t, a, a.Clicks.Dispatch([]string{"modal1/close", d.StopZone(), d.ID}))
	assert.False(t, a.Dialogs.IsOpen())
	assert.Equal(t, 0, a.Clicks.Listeners(d.StopZone()))
}

func TestApp_EscapeWithoutDialog(t *testing.T) {
	a, _ := newTestApp(t, nil)
	login(t, a)

	press(t, a, "esc")
	assert.False(t, a.Dialogs.IsOpen())
	assert.Equal(t, ModeGallery, a.Mode)
}

func TestApp_DeleteWork(t *testing.T) {
	a, srv := newTestApp(t, nil)
	login(t, a)
	openEditor(t, a)

	press(t, a, "tab", "d")
	assert.Len(t, srv.Works(), 3)
	assert.Len(t, a.Gallery.Works, 3)
	assert.True(t, a.Dialogs.IsOpen(), "dialog stays open after a delete")

	var deletes int
	for _, r := range srv.Requests() {
		if r.Method == http.MethodDelete {
			deletes++
			assert.Equal(t, "/works/1", r.Path)
			assert.Equal(t, "Bearer "+apitest.Token, r.Authorization)
		}
	}
	assert.Equal(t, 1, deletes)
}

func TestApp_DeleteFailureShowsError(t *testing.T) {
	a, srv := newTestApp(t, nil)
	login(t, a)
	openEditor(t, a)
	srv.ForceStatus(http.MethodDelete, "/works/{id}", http.StatusInternalServerError)

	send(t, a, DeleteWorkMsg{ID: 2})
	assert.Len(t, srv.Works(), 4)
	assert.Contains(t, a.View(), DeleteFailedText)

	press(t, a, "esc")
	openEditor(t, a)
	assert.NotContains(t, a.View(), DeleteFailedText, "reopening clears the error")
}

func TestApp_UploadFlow(t *testing.T) {
	a, srv := newTestApp(t, nil)
	login(t, a)
	openEditor(t, a)

	send(t, a, TogglePanelMsg{})
	d := a.Dialogs.Active()
	require.True(t, d.PanelVisible(PanelUpload))
	assert.Equal(t, "modal1/back", focusedID(a.Dialogs))

	send(t, a, SubmitWorkMsg{})
	assert.Contains(t, a.View(), "Please fill in all fields.")
	assert.Empty(t, srv.Uploads())

	a.Editor.file.SetValue(writeTestPNG(t))
	a.Editor.title.SetValue("Villa")
	a.Editor.category.Update(keyMsg("right"))
	send(t, a, SubmitWorkMsg{})

	uploads := srv.Uploads()
	require.Len(t, uploads, 1)
	assert.Equal(t, "Villa", uploads[0].Title)
	assert.Equal(t, "2", uploads[0].Category)
	assert.Equal(t, "photo.png", uploads[0].Filename)
	assert.Equal(t, "image/png", uploads[0].ContentType)

	assert.True(t, d.PanelVisible(PanelGallery), "back on the gallery panel")
	assert.Equal(t, "modal1/close", focusedID(a.Dialogs))
	assert.Len(t, a.Gallery.Works, 5)
	assert.Empty(t, a.Editor.Draft().Title, "form was reset")
	assert.Nil(t, a.Editor.Draft().Image)
}

func TestApp_UploadRejectsBadFile(t *testing.T) {
	a, _ := newTestApp(t, nil)
	login(t, a)
	openEditor(t, a)
	send(t, a, TogglePanelMsg{})

	txt := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("not a picture"), 0o644))
	send(t, a, PickImageMsg{Path: txt})
	assert.Contains(t, a.View(), "Invalid format. JPG or PNG only.")
	assert.Nil(t, a.Editor.Draft().Image)
}

func TestApp_UploadTooLarge(t *testing.T) {
	srv := apitest.New(t)
	client, err := api.NewClient(srv.BaseURL())
	require.NoError(t, err)
	a := NewAppModel(Deps{API: client, MaxUploadBytes: 10}).AsTeaModel().(*appModelAdapter)
	settle(t, a, a.Init())
	login(t, a)
	openEditor(t, a)
	send(t, a, TogglePanelMsg{})

	assert.Contains(t, a.View(), "jpg, png: 10 bytes max")

	send(t, a, PickImageMsg{Path: writeTestPNG(t)})
	assert.Contains(t, a.View(), "The image must not exceed 10 bytes.")
}

func TestApp_UploadServerError(t *testing.T) {
	a, srv := newTestApp(t, nil)
	login(t, a)
	openEditor(t, a)
	send(t, a, TogglePanelMsg{})
	srv.ForceStatus(http.MethodPost, "/works", http.StatusInternalServerError)

	send(t, a, PickImageMsg{Path: writeTestPNG(t)})
	a.Editor.title.SetValue("Villa")
	send(t, a, SubmitWorkMsg{})

	assert.Contains(t, a.View(), "There was an error: ")
	assert.True(t, a.Dialogs.Active().PanelVisible(PanelUpload), "stays on the form")
	assert.NotNil(t, a.Editor.Draft().Image, "draft is kept for a retry")
}

func TestApp_Logout(t *testing.T) {
	a, _ := newTestApp(t, nil)
	login(t, a)
	openEditor(t, a)

	send(t, a, ToggleSessionMsg{})
	assert.False(t, a.Gallery.Admin)
	assert.False(t, a.Dialogs.IsOpen())
	assert.False(t, session.LoggedIn(a.Session))
	assert.NotContains(t, a.View(), "Edit mode")
}

func TestApp_QuitKeys(t *testing.T) {
	a, _ := newTestApp(t, nil)

	_, cmd := a.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	login(t, a)
	openEditor(t, a)
	_, cmd = a.Update(keyMsg("ctrl+c"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd(), "ctrl+c quits even inside a dialog")
}

func TestApp_PersistedSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	store, err := session.NewFileStore(path)
	require.NoError(t, err)

	a, srv := newTestApp(t, store)
	login(t, a)

	reopened, err := session.NewFileStore(path)
	require.NoError(t, err)
	client, err := api.NewClient(srv.BaseURL())
	require.NoError(t, err)
	b := NewAppModel(Deps{API: client, Session: reopened})
	assert.True(t, b.Gallery.Admin, "a stored token starts in edit mode")
}

func TestApp_LeaderHelpShown(t *testing.T) {
	a, _ := newTestApp(t, nil)
	press(t, a, " ")
	view := a.View()
	assert.Contains(t, view, "Refresh")
	assert.Contains(t, view, "Edit works")
	press(t, a, "esc")
	assert.NotContains(t, a.View(), "Refresh")
}
