package ui

// AppMode represents the top-level screen: the public gallery or the login form.
type AppMode int

const (
	ModeGallery AppMode = iota
	ModeLogin
)

func (m AppMode) String() string {
	switch m {
	case ModeGallery:
		return "Gallery"
	case ModeLogin:
		return "Login"
	default:
		return "Unknown"
	}
}
