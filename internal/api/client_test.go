package api_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/api"
	"folio/internal/apitest"
)

func newClient(t *testing.T, srv *apitest.Server) *api.Client {
	t.Helper()
	c, err := api.NewClient(srv.BaseURL(), api.WithTimeout(2*time.Second))
	require.NoError(t, err)
	return c
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	_, err := api.NewClient("ftp://example.com/api")
	require.Error(t, err)

	_, err = api.NewClient("http://[::1")
	require.Error(t, err)
}

func TestNewClient_DefaultsAndTrailingSlash(t *testing.T) {
	c, err := api.NewClient("")
	require.NoError(t, err)
	assert.Equal(t, api.DefaultBaseURL, c.BaseURL())

	c, err = api.NewClient("http://localhost:5678/api/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5678/api", c.BaseURL())
}

func TestListWorksAndCategories(t *testing.T) {
	srv := apitest.New(t)
	c := newClient(t, srv)
	ctx := context.Background()

	works, err := c.ListWorks(ctx)
	require.NoError(t, err)
	require.Len(t, works, 4)
	assert.Equal(t, "Abajour Tahina", works[0].Title)
	assert.Equal(t, 1, works[0].CategoryID)

	cats, err := c.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 3)
	assert.Equal(t, "Objets", cats[0].Name)

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	for _, r := range reqs {
		assert.Empty(t, r.Authorization, "public endpoints get no token")
		_, err := uuid.Parse(r.RequestID)
		assert.NoError(t, err, "request id should be a UUID")
	}
	assert.NotEqual(t, reqs[0].RequestID, reqs[1].RequestID)
}

func TestListWorks_ServerError(t *testing.T) {
	srv := apitest.New(t)
	srv.ForceStatus(http.MethodGet, "/works", http.StatusInternalServerError)
	c := newClient(t, srv)

	_, err := c.ListWorks(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, api.StatusCode(err))

	var se *api.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "list works", se.Op)
}

func TestLogin(t *testing.T) {
	srv := apitest.New(t)
	c := newClient(t, srv)
	ctx := context.Background()

	res, err := c.Login(ctx, api.Credentials{Email: "sophie.bluel@test.tld", Password: "S0phie"})
	require.NoError(t, err)
	assert.Equal(t, apitest.Token, res.Token)
	assert.Equal(t, 1, res.UserID)

	_, err = c.Login(ctx, api.Credentials{Email: "sophie.bluel@test.tld", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))

	_, err = c.Login(ctx, api.Credentials{Email: "nobody@test.tld", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, api.StatusCode(err))
}

func TestCreateWork(t *testing.T) {
	srv := apitest.New(t)
	c := newClient(t, srv)

	created, err := c.CreateWork(context.Background(), apitest.Token, api.NewWork{
		Title:       "Structures Thermopolis",
		CategoryID:  3,
		Filename:    "thermopolis.png",
		ContentType: "image/png",
		Image:       strings.NewReader("\x89PNG fake bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Structures Thermopolis", created.Title)
	assert.Equal(t, 3, created.CategoryID)
	assert.Equal(t, 5, created.ID)

	ups := srv.Uploads()
	require.Len(t, ups, 1)
	assert.Equal(t, "3", ups[0].Category)
	assert.Equal(t, "thermopolis.png", ups[0].Filename)
	assert.Equal(t, "image/png", ups[0].ContentType)

	reqs := srv.Requests()
	assert.Equal(t, "Bearer "+apitest.Token, reqs[len(reqs)-1].Authorization)
}

func TestCreateWork_Unauthorized(t *testing.T) {
	srv := apitest.New(t)
	c := newClient(t, srv)

	_, err := c.CreateWork(context.Background(), "stale", api.NewWork{
		Title:      "x",
		CategoryID: 1,
		Filename:   "x.png",
		Image:      strings.NewReader("x"),
	})
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	assert.Empty(t, srv.Uploads())
}

func TestCreateWork_NoImage(t *testing.T) {
	c, err := api.NewClient("http://localhost:1/api")
	require.NoError(t, err)
	_, err = c.CreateWork(context.Background(), "t", api.NewWork{Title: "x"})
	require.Error(t, err)
}

func TestDeleteWork(t *testing.T) {
	srv := apitest.New(t)
	c := newClient(t, srv)
	ctx := context.Background()

	require.NoError(t, c.DeleteWork(ctx, apitest.Token, 2))
	for _, w := range srv.Works() {
		assert.NotEqual(t, 2, w.ID)
	}

	err := c.DeleteWork(ctx, apitest.Token, 99)
	assert.Equal(t, http.StatusNotFound, api.StatusCode(err))

	err = c.DeleteWork(ctx, "", 1)
	assert.True(t, api.IsUnauthorized(err))
}

func TestDeleteWork_ForcedServerError(t *testing.T) {
	srv := apitest.New(t)
	srv.ForceStatus(http.MethodDelete, "/works/{id}", http.StatusInternalServerError)
	c := newClient(t, srv)

	err := c.DeleteWork(context.Background(), apitest.Token, 1)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, api.StatusCode(err))
	assert.Len(t, srv.Works(), 4)
}

func TestFilterWorks(t *testing.T) {
	works := []api.Work{
		{ID: 1, CategoryID: 1},
		{ID: 2, CategoryID: 2},
		{ID: 3, CategoryID: 2},
	}
	assert.Len(t, api.FilterWorks(works, 0), 3)
	got := api.FilterWorks(works, 2)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, 3, got[1].ID)
	assert.Empty(t, api.FilterWorks(works, 7))
}

func TestStatusError_Message(t *testing.T) {
	err := &api.StatusError{Op: "create work", StatusCode: 400, Body: "Something wrong occured"}
	assert.Equal(t, "create work: unexpected status 400: Something wrong occured", err.Error())
	err = &api.StatusError{Op: "delete work", StatusCode: 500}
	assert.Equal(t, "delete work: unexpected status 500", err.Error())
	assert.Equal(t, 0, api.StatusCode(errors.New("plain")))
}
