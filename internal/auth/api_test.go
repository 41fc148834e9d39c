package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SergeyParamoshkin/sportsnews/internal/errresponse"
	"github.com/SergeyParamoshkin/sportsnews/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	handler *Handler
	router  http.Handler
	admins  *store.AdminStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := store.Open(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	t.Cleanup(func() { _ = store.Close(db) })

	tokens, err := NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	admins := store.NewAdminStore(db)
	svc, err := NewService(admins, tokens)
	require.NoError(t, err)

	h := NewHandler(svc, CookiePolicy{MaxDays: 1}, errresponse.NewResponder(false))

	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Get("/logout", h.Logout)
	r.Group(func(r chi.Router) {
		r.Use(h.Protect)
		r.Get("/", h.ListAdmins)
		r.Get("/me", h.Me)
		r.Delete("/{id}", h.DeleteAdmin)
	})

	return &testEnv{handler: h, router: r, admins: admins}
}

func (e *testEnv) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	}

	return rec, decoded
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie set", CookieName)

	return nil
}

func TestSignup(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPost, "/signup", `{"username":"alice","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Admin created successfully", body["message"])
	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["id"])
	assert.Equal(t, "alice", data["userName"])
	assert.Contains(t, data["avatar"], "seed=alice")
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "secret123")

	stored, err := env.admins.GetByUsername(t.Context(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.Password)
}

func TestSignupValidation(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []string{``, `{}`, `{"username":"alice"}`, `{"password":"x"}`} {
		rec, decoded := env.do(t, http.MethodPost, "/signup", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "Username and password are required", decoded["message"], body)
	}

	rec, _ := env.do(t, http.MethodPost, "/signup", `{"username":"alice","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, decoded := env.do(t, http.MethodPost, "/signup", `{"username":"alice","password":"other"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decoded["message"], "Duplicate field value")
}

func TestLoginAndProtect(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodPost, "/signup", `{"username":"alice","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := env.do(t, http.MethodPost, "/login", `{"username":"alice","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "success", body["status"])
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	admin := body["data"].(map[string]interface{})["admin"].(map[string]interface{})
	assert.Equal(t, "alice", admin["username"])
	assert.NotContains(t, rec.Body.String(), "password")

	cookie := sessionCookie(t, rec)
	assert.Equal(t, token, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	rec, body = env.do(t, http.MethodGet, "/me", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", body["admin"].(map[string]interface{})["username"])

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	bearer := httptest.NewRecorder()
	env.router.ServeHTTP(bearer, req)
	assert.Equal(t, http.StatusOK, bearer.Code)

	rec, body = env.do(t, http.MethodGet, "/", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["results"])
	assert.EqualValues(t, 1, body["totalItems"])
}

func TestLoginFailuresAreUniform(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodPost, "/signup", `{"username":"alice","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	wrongPass, wrongPassBody := env.do(t, http.MethodPost, "/login", `{"username":"alice","password":"nope"}`)
	unknown, unknownBody := env.do(t, http.MethodPost, "/login", `{"username":"bob","password":"secret123"}`)

	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, "Incorrect username or password", wrongPassBody["message"])
	assert.Equal(t, wrongPassBody, unknownBody)
	assert.Empty(t, wrongPass.Result().Cookies())

	rec, body := env.do(t, http.MethodPost, "/login", `{"username":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please provide username and password!", body["message"])
}

func TestProtectRejects(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "You are not logged in! Please log in to get access.", body["message"])

	rec, body = env.do(t, http.MethodGet, "/me", "", &http.Cookie{Name: CookieName, Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token. Please log in again!", body["message"])

	rec, _ = env.do(t, http.MethodPost, "/signup", `{"username":"alice","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = env.do(t, http.MethodPost, "/login", `{"username":"alice","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)

	alice, err := env.admins.GetByUsername(t.Context(), "alice")
	require.NoError(t, err)

	rec, _ = env.do(t, http.MethodDelete, "/"+alice.ID, "", cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, body = env.do(t, http.MethodGet, "/me", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Admin no longer exists.", body["message"])
}

func TestProtectFallsBackToBearer(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodPost, "/signup", `{"username":"alice","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, body := env.do(t, http.MethodPost, "/login", `{"username":"alice","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	meWith := func(cookie *http.Cookie, authorization string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		return rec
	}

	stale := &http.Cookie{Name: CookieName, Value: "stale.token.value"}
	assert.Equal(t, http.StatusOK, meWith(stale, "Bearer "+token).Code)
	assert.Equal(t, http.StatusUnauthorized, meWith(stale, "").Code)
	assert.Equal(t, http.StatusUnauthorized, meWith(stale, "Bearer garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, meWith(nil, "Bearer ").Code)
}

func TestDeleteAdminNotFound(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/signup", `{"username":"alice","password":"secret123"}`)
	env.do(t, http.MethodPost, "/signup", `{"username":"bob","password":"secret123"}`)
	rec, _ := env.do(t, http.MethodPost, "/login", `{"username":"alice","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)

	rec, body := env.do(t, http.MethodDelete, "/7d0c2f8e-8f0a-4a55-bb0e-4c1d2b9f6a10", "", cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No admin found with that ID", body["message"])

	rec, _ = env.do(t, http.MethodDelete, "/not-a-uuid", "", cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged out", body["message"])

	cookie := sessionCookie(t, rec)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}
