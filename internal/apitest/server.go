// Package apitest runs an in-process fake of the portfolio API for tests.
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"folio/internal/api"
)

// Token is the bearer token handed out by a successful login.
const Token = "test-token"

// Request records what the fake saw for one call.
type Request struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
}

// Upload records a POST /works form.
type Upload struct {
	Title       string
	Category    string
	Filename    string
	ContentType string
	Size        int
}

// Server is a fake API with seedable works, categories and users.
// All fields are guarded by mu; use the accessor methods from tests.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	works      []api.Work
	categories []api.Category
	users      map[string]string
	nextID     int
	requests   []Request
	uploads    []Upload
	forced     map[string]int // "METHOD /path-template" -> status
}

// New starts a fake server seeded with the default categories and works and one
// user (sophie.bluel@test.tld / S0phie). It is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		categories: []api.Category{
			{ID: 1, Name: "Objets"},
			{ID: 2, Name: "Appartements"},
			{ID: 3, Name: "Hotels & restaurants"},
		},
		users:  map[string]string{"sophie.bluel@test.tld": "S0phie"},
		forced: make(map[string]int),
	}
	s.works = []api.Work{
		{ID: 1, Title: "Abajour Tahina", ImageURL: "http://localhost:5678/images/abajour-tahina.png", CategoryID: 1, UserID: 1},
		{ID: 2, Title: "Appartement Paris V", ImageURL: "http://localhost:5678/images/appartement-paris-v.png", CategoryID: 2, UserID: 1},
		{ID: 3, Title: "Restaurant Sushisen - Londres", ImageURL: "http://localhost:5678/images/restaurant-sushisen-londres.png", CategoryID: 3, UserID: 1},
		{ID: 4, Title: "Villa “La Balisiere” - Port Louis", ImageURL: "http://localhost:5678/images/la-balisiere.png", CategoryID: 2, UserID: 1},
	}
	s.nextID = len(s.works) + 1

	r := mux.NewRouter()
	a := r.PathPrefix("/api").Subrouter()
	a.Use(s.record)
	a.HandleFunc("/works", s.listWorks).Methods(http.MethodGet)
	a.HandleFunc("/categories", s.listCategories).Methods(http.MethodGet)
	a.HandleFunc("/users/login", s.login).Methods(http.MethodPost)
	a.Handle("/works", s.requireToken(http.HandlerFunc(s.createWork))).Methods(http.MethodPost)
	a.Handle("/works/{id:[0-9]+}", s.requireToken(http.HandlerFunc(s.deleteWork))).Methods(http.MethodDelete)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root to hand to api.NewClient.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

// ForceStatus makes every request matching method and route template (e.g.
// "/works/{id}") answer with status instead of the normal handler.
func (s *Server) ForceStatus(method, route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forced[method+" "+route] = status
}

// SetWorks replaces the seeded works.
func (s *Server) SetWorks(works []api.Work) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.works = append([]api.Work(nil), works...)
}

// Works returns a copy of the current works.
func (s *Server) Works() []api.Work {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.Work(nil), s.works...)
}

// Requests returns a copy of every request seen so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Uploads returns a copy of every accepted upload.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          strings.TrimPrefix(r.URL.Path, "/api"),
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get(api.RequestIDHeader),
		})
		status := 0
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				tpl = strings.TrimPrefix(tpl, "/api")
				tpl = strings.Replace(tpl, "{id:[0-9]+}", "{id}", 1)
				status = s.forced[r.Method+" "+tpl]
			}
		}
		s.mu.Unlock()

		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listWorks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Works())
}

func (s *Server) listCategories(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	cats := append([]api.Category(nil), s.categories...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds api.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	s.mu.Lock()
	password, ok := s.users[creds.Email]
	s.mu.Unlock()
	switch {
	case !ok:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "user not found"})
	case password != creds.Password:
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Not Authorized"})
	default:
		writeJSON(w, http.StatusOK, api.LoginResult{UserID: 1, Token: Token})
	}
}

func (s *Server) createWork(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}
	title := r.FormValue("title")
	category := r.FormValue("category")
	catID, err := strconv.Atoi(category)
	if title == "" || err != nil {
		http.Error(w, "Something wrong occured", http.StatusBadRequest)
		return
	}
	file, hdr, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Something wrong occured", http.StatusBadRequest)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	work := api.Work{
		ID:         s.nextID,
		Title:      title,
		ImageURL:   "http://localhost:5678/images/" + hdr.Filename,
		CategoryID: catID,
		UserID:     1,
	}
	s.nextID++
	s.works = append(s.works, work)
	s.uploads = append(s.uploads, Upload{
		Title:       title,
		Category:    category,
		Filename:    hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Size:        len(data),
	})
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, work)
}

func (s *Server) deleteWork(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, work := range s.works {
		if work.ID == id {
			s.works = append(s.works[:i], s.works[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	http.Error(w, "not found", http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
