package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/SergeyParamoshkin/sportsnews/internal/config"
	"github.com/SergeyParamoshkin/sportsnews/internal/di"
	"github.com/SergeyParamoshkin/sportsnews/internal/metrics"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newServer(t *testing.T) *Client {
	t.Helper()

	cfg := &config.Config{
		Env:                 config.EnvDevelopment,
		DatabaseURL:         ":memory:",
		JWTSecret:           "client-test-secret",
		JWTExpiresIn:        time.Hour,
		JWTCookieExpireDays: 1,
		UploadDir:           t.TempDir(),
		UploadBaseURL:       "/uploads",
		RateLimit:           1000,
	}

	app, cleanup, err := di.InitializeApp(cfg, zaptest.NewLogger(t).Sugar(), metrics.Default())
	require.NoError(t, err)
	t.Cleanup(cleanup)
	assert.Nil(t, app.KeepAlive)

	srv := httptest.NewServer(app.Router)
	t.Cleanup(srv.Close)

	return &Client{Addr: srv.URL, Client: *srv.Client()}
}

func TestPing(t *testing.T) {
	c := newServer(t)

	s, err := c.Ping(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "pong", s)
}

func TestSignupLoginMe(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()

	created, err := c.Signup(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Data.UserName)

	admin, err := c.Login(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, created.Data.ID, admin.ID)
	assert.NotEmpty(t, c.Token)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)
}

func TestLoginFailureIsAPIError(t *testing.T) {
	c := newServer(t)

	_, err := c.Login(context.Background(), "nobody", "whatever")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "fail", apiErr.Status)
	assert.Equal(t, "Incorrect username or password", apiErr.Message)
	assert.Empty(t, c.Token)
}

func TestArticles(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()

	list, err := c.ListArticles(ctx, url.Values{"page": {"2"}, "limit": {"5"}})
	require.NoError(t, err)
	assert.Equal(t, "success", list.Status)
	assert.Equal(t, 2, list.CurrentPage)
	assert.Empty(t, list.Data)

	_, err = c.Article(ctx, "no-such-article")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Blog not found", apiErr.Message)
}

func TestDeleteArticleNeedsLogin(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()

	err := c.DeleteArticle(ctx, uuid.NewString())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	_, err = c.Signup(ctx, "bob", "secret123")
	require.NoError(t, err)
	_, err = c.Login(ctx, "bob", "secret123")
	require.NoError(t, err)

	err = c.DeleteArticle(ctx, uuid.NewString())
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}
