package api

import "io"

// Category groups works in the gallery filter bar.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Work is a single portfolio entry.
type Work struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	ImageURL   string    `json:"imageUrl"`
	CategoryID int       `json:"categoryId"`
	UserID     int       `json:"userId"`
	Category   *Category `json:"category,omitempty"`
}

// Credentials is the body of POST /users/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	UserID int    `json:"userId"`
	Token  string `json:"token"`
}

// NewWork is a work to upload. Image is streamed into the "image" form field.
type NewWork struct {
	Title       string
	CategoryID  int
	Filename    string
	ContentType string
	Image       io.Reader
}

// FilterWorks returns the works whose CategoryID matches categoryID.
// A categoryID of zero means no filter and returns works unchanged.
func FilterWorks(works []Work, categoryID int) []Work {
	if categoryID == 0 {
		return works
	}
	out := make([]Work, 0, len(works))
	for _, w := range works {
		if w.CategoryID == categoryID {
			out = append(out, w)
		}
	}
	return out
}
