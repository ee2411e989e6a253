package ui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"folio/internal/logging"
	"folio/internal/session"
	"folio/internal/upload"
)

// AppModel is the root model. It switches between the gallery and login
// screens and owns the works dialog.
type AppModel struct {
	Mode       AppMode
	Gallery    *GalleryView
	Login      *LoginView
	Dialogs    *Controller
	Clicks     *ClickRouter
	Editor     *WorksDialog
	KeyHandler *KeyHandler

	API            GalleryAPI
	Session        session.Store
	Logger         *slog.Logger
	MaxUploadBytes int64

	filterCancels []func()
	width, height int
}

// Deps are the collaborators NewAppModel wires into the UI.
type Deps struct {
	API            GalleryAPI
	Session        session.Store // nil keeps the token in memory
	Logger         *slog.Logger  // nil discards logs
	MaxUploadBytes int64         // <= 0 uses upload.DefaultMaxBytes
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel creates the root application model.
func NewAppModel(deps Deps) *AppModel {
	if deps.Session == nil {
		deps.Session = session.NewMemoryStore()
	}
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = upload.DefaultMaxBytes
	}

	clicks := NewClickRouter()
	dialogs := NewController(clicks, deps.Logger.With("component", "dialog"))
	dialog, editor := NewWorksDialog(clicks)
	editor.SetUploadLimit(deps.MaxUploadBytes)
	dialogs.Register(dialog)

	openEditor := func() tea.Msg { return OpenDialogMsg{Trigger: EditTrigger} }
	reg := NewKeybindRegistry()
	reg.BindWithDesc("q", tea.Quit, "Quit")
	reg.BindWithDesc("ctrl+c", tea.Quit, "Quit")
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")
	reg.BindWithDesc("SPC r", func() tea.Msg { return RefreshMsg{} }, "Refresh")
	reg.BindWithDesc("SPC l", func() tea.Msg { return ToggleSessionMsg{} }, "Login/Logout")
	reg.BindWithDescForMode("SPC e", openEditor, "Edit works", []AppMode{ModeGallery})

	m := &AppModel{
		Mode:           ModeGallery,
		Gallery:        NewGalleryView(),
		Dialogs:        dialogs,
		Clicks:         clicks,
		Editor:         editor,
		KeyHandler:     NewKeyHandler(reg),
		API:            deps.API,
		Session:        deps.Session,
		Logger:         deps.Logger,
		MaxUploadBytes: deps.MaxUploadBytes,
	}
	m.Gallery.Admin = session.LoggedIn(m.Session)

	send := func(msg tea.Msg) ClickHandler {
		return func() (tea.Cmd, bool) {
			if m.Mode != ModeGallery {
				return nil, false
			}
			return func() tea.Msg { return msg }, false
		}
	}
	clicks.Listen(ZoneEditLink, send(OpenDialogMsg{Trigger: EditTrigger}))
	clicks.Listen(ZoneEditBanner, send(OpenDialogMsg{Trigger: EditTrigger}))
	clicks.Listen(ZoneSessionNav, send(ToggleSessionMsg{}))
	return m
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return tea.Batch(a.Gallery.Init(), a.reload())
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.Gallery.Update(msg)
		return a, nil
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return a, nil
		}
		return a, a.Clicks.Dispatch(a.Clicks.HitPath(msg))
	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case RefreshMsg:
		return a, tea.Batch(a.Gallery.SetLoading(true), a.reload())
	case WorksLoadedMsg:
		return a.handleWorksLoaded(msg)
	case CategoriesLoadedMsg:
		return a.handleCategoriesLoaded(msg)
	case SelectFilterMsg:
		a.Gallery.Filter = msg.CategoryID
		return a, tea.Batch(a.Gallery.SetLoading(true), loadWorksCmd(a.API, msg.CategoryID))

	case OpenDialogMsg:
		return a.handleOpenDialog(msg)
	case CloseDialogMsg:
		return a, a.Dialogs.Close()
	case DialogClosedMsg:
		a.Editor.SetGalleryError("")
		return a, nil
	case TogglePanelMsg:
		return a, a.Dialogs.TogglePanel()
	case DeleteWorkMsg:
		return a.handleDeleteWork(msg)
	case WorkDeletedMsg:
		return a.handleWorkDeleted(msg)
	case PickImageMsg:
		return a, inspectImageCmd(msg.Path, a.MaxUploadBytes, false)
	case ImagePickedMsg:
		return a.handleImagePicked(msg)
	case SubmitWorkMsg:
		return a.handleSubmitWork()
	case WorkCreatedMsg:
		return a.handleWorkCreated(msg)

	case ToggleSessionMsg:
		if session.LoggedIn(a.Session) {
			return a, func() tea.Msg { return LogoutMsg{} }
		}
		return a, func() tea.Msg { return ShowLoginMsg{} }
	case ShowLoginMsg:
		return a.handleShowLogin()
	case BackToGalleryMsg:
		a.setMode(ModeGallery)
		a.Login = nil
		return a, nil
	case LoginSubmitMsg:
		return a.handleLoginSubmit(msg)
	case LoginResultMsg:
		return a.handleLoginResult(msg)
	case LogoutMsg:
		return a.handleLogout()
	}

	// Everything else (spinner ticks, cursor blinks) goes to the focused
	// dialog element and the current screen.
	var cmds []tea.Cmd
	if a.Dialogs.IsOpen() {
		cmds = append(cmds, a.Dialogs.Forward(msg))
	}
	v, cmd := a.currentView().Update(msg)
	a.setCurrentView(v)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// handleKey routes a key: the open dialog first, then keybindings on the
// gallery, then the current screen.
func (a *appModelAdapter) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	if consumed, cmd := a.Dialogs.HandleKey(msg); consumed {
		return cmd
	}
	if a.Mode == ModeGallery && a.KeyHandler != nil {
		if consumed, cmd := a.KeyHandler.Handle(msg); consumed {
			return cmd
		}
	}
	v, cmd := a.currentView().Update(msg)
	a.setCurrentView(v)
	return cmd
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	var out string
	if d := a.Dialogs.Active(); d != nil {
		out = d.Render(a.width, a.height)
	} else {
		out = a.currentView().View()
		if a.KeyHandler != nil && a.KeyHandler.LeaderWaiting {
			out += "\n" + RenderKeybindHelp(a.KeyHandler, a.Mode)
		}
	}
	if zone.DefaultManager != nil {
		return zone.Scan(out)
	}
	return out
}

func (a *appModelAdapter) currentView() View {
	if a.Mode == ModeLogin && a.Login != nil {
		return a.Login
	}
	return a.Gallery
}

func (a *appModelAdapter) setCurrentView(v View) {
	switch v := v.(type) {
	case *GalleryView:
		a.Gallery = v
	case *LoginView:
		a.Login = v
	}
}

func (a *AppModel) setMode(m AppMode) {
	a.Mode = m
	if a.KeyHandler != nil {
		a.KeyHandler.Mode = m
		a.KeyHandler.Reset()
	}
}

// reload fetches categories and works for the active filter.
func (a *AppModel) reload() tea.Cmd {
	if a.API == nil {
		return nil
	}
	return tea.Batch(loadCategoriesCmd(a.API), loadWorksCmd(a.API, a.Gallery.Filter))
}
