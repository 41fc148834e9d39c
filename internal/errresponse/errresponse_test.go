package errresponse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SergeyParamoshkin/sportsnews/internal/apperr"
	"github.com/SergeyParamoshkin/sportsnews/internal/store"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(t *testing.T, development bool, err error) (int, map[string]interface{}) {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/article", nil)
	NewResponder(development).Respond(rec, req, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return rec.Code, body
}

func TestTranslate(t *testing.T) {
	type payload struct {
		Title string `validate:"required"`
	}
	verr := validator.New().Struct(payload{})
	require.Error(t, verr)

	tests := []struct {
		name    string
		err     error
		kind    apperr.Kind
		message string
	}{
		{"app error", fmt.Errorf("wrapped: %w", apperr.NotFound("Article not found")), apperr.KindNotFound, "Article not found"},
		{"invalid id", &store.InvalidIDError{Field: "id", Value: "42"}, apperr.KindBadRequest, "Invalid id: 42."},
		{"duplicate", &store.DuplicateError{Field: "slug", Value: "derby", Err: errors.New("UNIQUE")}, apperr.KindBadRequest,
			`Duplicate field value: {"slug":"derby"}. Please use another value!`},
		{"validation", verr, apperr.KindBadRequest, "Invalid input data. Title is required"},
		{"expired token", fmt.Errorf("verify: %w", jwt.ErrTokenExpired), apperr.KindUnauthorized, "Your token has expired please login again."},
		{"bad signature", jwt.ErrTokenSignatureInvalid, apperr.KindUnauthorized, "Invalid token. Please log in again!"},
		{"unknown", errors.New("driver: bad connection"), apperr.KindUnexpected, "driver: bad connection"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(tt.err)
			assert.Equal(t, tt.kind, got.Kind())
			assert.Equal(t, tt.message, got.Message())
		})
	}
}

func TestRespondProductionHidesUnexpected(t *testing.T) {
	code, body := respond(t, false, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, genericMessage, body["message"])
	assert.NotContains(t, body, "error")
}

func TestRespondProductionShowsOperational(t *testing.T) {
	code, body := respond(t, false, apperr.BadRequest("Image file is required"))

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "fail", body["status"])
	assert.Equal(t, "Image file is required", body["message"])
	assert.NotContains(t, body, "error")
}

func TestRespondDevelopmentEchoesDetail(t *testing.T) {
	code, body := respond(t, true, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "pq: connection refused", body["message"])
	assert.Equal(t, "pq: connection refused", body["error"])
	assert.Equal(t, "unexpected", body["kind"])
}

func TestNotFoundRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nowhere?x=1", nil)
	NewResponder(false).NotFound(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Can't find /nowhere?x=1 on this server!")
}
