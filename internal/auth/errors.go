package auth

import (
	"errors"
	"io"
	"net/http"

	"github.com/SergeyParamoshkin/sportsnews/internal/apperr"
	"github.com/go-chi/render"
)

// bindCredentials treats an empty body as empty credentials so the service
// reports which fields are missing.
func bindCredentials(r *http.Request) (*CredentialsRequest, error) {
	data := &CredentialsRequest{}
	err := render.Bind(r, data)

	var maxErr *http.MaxBytesError
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return data, nil
	case errors.As(err, &maxErr):
		return nil, err
	default:
		return nil, apperr.Wrap(apperr.BadRequest("Invalid request body"), err)
	}
}
