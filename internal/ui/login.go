package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// LoginFailedText is shown when the API rejects the credentials.
const LoginFailedText = "Please check your email and/or password"

// LoginView is the login form: email, password and a submit button.
type LoginView struct {
	Err  string
	Busy bool

	email    *TextField
	password *TextField
	submit   *Button
	focus    FocusManager
}

// Ensure LoginView implements View.
var _ View = (*LoginView)(nil)

// NewLoginView creates a login form with the email field focused.
func NewLoginView() *LoginView {
	v := &LoginView{
		email:    NewTextField("login/email", "E-mail", "name@example.com"),
		password: NewTextField("login/password", "Password", "").Masked(),
	}
	v.submit = NewButton("login/submit", "Log in", v.submitCmd())
	v.email.OnSubmit = func(string) tea.Cmd { return v.focusID(v.password.ID) }
	v.password.OnSubmit = func(string) tea.Cmd { return v.submitCmd() }
	v.focus = FocusManager{Order: []string{v.email.ID, v.password.ID, v.submit.ID}}
	return v
}

func (v *LoginView) fields() []Focusable {
	return []Focusable{v.email, v.password, v.submit}
}

// Init implements View.
func (v *LoginView) Init() tea.Cmd {
	return v.focusID(v.email.ID)
}

func (v *LoginView) submitCmd() tea.Cmd {
	return func() tea.Msg {
		return LoginSubmitMsg{
			Email:    strings.TrimSpace(v.email.Value()),
			Password: v.password.Value(),
		}
	}
}

func (v *LoginView) focusID(id string) tea.Cmd {
	var cmd tea.Cmd
	for _, f := range v.fields() {
		if f.FocusID() == id {
			cmd = f.Focus()
		} else {
			f.Blur()
		}
	}
	v.focus.SetFocus(id)
	return cmd
}

// Focused returns the ID of the focused field.
func (v *LoginView) Focused() string { return v.focus.Current }

// SetError shows msg above the form and re-enables it.
func (v *LoginView) SetError(msg string) {
	v.Err = msg
	v.Busy = false
}

// Update implements View.
func (v *LoginView) Update(msg tea.Msg) (View, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			return v, func() tea.Msg { return BackToGalleryMsg{} }
		case "tab", "down":
			return v, v.focusID(v.focus.Next())
		case "shift+tab", "up":
			return v, v.focusID(v.focus.Prev())
		}
		if v.Busy {
			return v, nil
		}
	}
	for _, f := range v.fields() {
		if f.FocusID() == v.focus.Current {
			return v, f.Update(msg)
		}
	}
	return v, nil
}

// View implements View.
func (v *LoginView) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render("Log In"))
	b.WriteString("\n\n")
	if v.Err != "" {
		b.WriteString(Styles.BoxDanger.Render(v.Err))
		b.WriteString("\n")
	}
	b.WriteString(v.email.View())
	b.WriteString("\n")
	b.WriteString(v.password.View())
	b.WriteString("\n\n")
	b.WriteString(v.submit.View())
	b.WriteString("\n")
	if v.Busy {
		b.WriteString(Styles.Status.Render("Logging in…"))
		b.WriteString("\n")
	}
	b.WriteString(Styles.Hint.Render("tab: next field  enter: submit  esc: back"))
	return Styles.Box.Render(b.String())
}
