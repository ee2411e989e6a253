package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (a *appModelAdapter) handleShowLogin() (tea.Model, tea.Cmd) {
	closed := a.Dialogs.Close()
	a.Login = NewLoginView()
	a.setMode(ModeLogin)
	return a, tea.Batch(closed, a.Login.Init())
}

func (a *appModelAdapter) handleLoginSubmit(msg LoginSubmitMsg) (tea.Model, tea.Cmd) {
	if a.Login == nil {
		return a, nil
	}
	a.Login.Busy = true
	a.Login.Err = ""
	return a, loginCmd(a.API, msg.Email, msg.Password)
}

// handleLoginResult stores the token and returns to the gallery in admin
// mode. Any failure shows the same message so the form does not reveal which
// field was wrong.
func (a *appModelAdapter) handleLoginResult(msg LoginResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.Logger.Warn("login failed", "error", msg.Err)
		if a.Login != nil {
			a.Login.SetError(LoginFailedText)
		}
		return a, nil
	}
	if err := a.Session.SetToken(msg.Result.Token); err != nil {
		a.Logger.Error("store session", "error", err)
		if a.Login != nil {
			a.Login.SetError("Could not save the session: " + err.Error())
		}
		return a, nil
	}
	a.Logger.Info("logged in", "user", msg.Result.UserID)
	a.Login = nil
	a.Gallery.Admin = true
	a.Gallery.Status = ""
	a.setMode(ModeGallery)
	return a, nil
}

// handleLogout drops the token, closes any dialog and returns to the public gallery.
func (a *appModelAdapter) handleLogout() (tea.Model, tea.Cmd) {
	if err := a.Session.Clear(); err != nil {
		a.Logger.Error("clear session", "error", err)
	}
	a.Logger.Info("logged out")
	a.Gallery.Admin = false
	a.setMode(ModeGallery)
	return a, a.Dialogs.Close()
}
