package errresponse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/SergeyParamoshkin/sportsnews/internal/apperr"
	"github.com/SergeyParamoshkin/sportsnews/internal/logging"
	"github.com/SergeyParamoshkin/sportsnews/internal/store"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
)

const genericMessage = "Something went very wrong!"

// ErrResponse renderer type for handling all sorts of errors.
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText string `json:"status"`          // "fail" for client errors, "error" otherwise
	Message    string `json:"message"`         // user-level message
	ErrorText  string `json:"error,omitempty"` // raw error, development only
	Kind       string `json:"kind,omitempty"`  // error kind, development only
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)

	return nil
}

// Responder is the single place errors turn into HTTP responses.
// In development it echoes the raw error; otherwise non-operational errors
// collapse into a generic message and are only logged.
type Responder struct {
	development bool
}

func NewResponder(development bool) *Responder {
	return &Responder{development: development}
}

func (rs *Responder) Respond(w http.ResponseWriter, r *http.Request, err error) {
	appErr := Translate(err)
	logger := logging.FromContext(r.Context())

	resp := &ErrResponse{
		Err:            err,
		HTTPStatusCode: appErr.Status(),
		StatusText:     statusText(appErr.Status()),
		Message:        appErr.Message(),
	}

	switch {
	case rs.development:
		resp.ErrorText = err.Error()
		resp.Kind = appErr.Kind().String()
	case !appErr.IsOperational():
		resp.Message = genericMessage
	}

	if appErr.Status() >= http.StatusInternalServerError {
		logger.Errorw("request failed",
			"error", err,
			"kind", appErr.Kind().String(),
			"method", r.Method,
			"path", r.URL.Path,
		)
	}

	if rerr := render.Render(w, r, resp); rerr != nil {
		logger.Errorw("render error response", "error", rerr)
	}
}

// NotFound answers routes nobody registered.
func (rs *Responder) NotFound(w http.ResponseWriter, r *http.Request) {
	rs.Respond(w, r, apperr.NotFound(fmt.Sprintf("Can't find %s on this server!", r.URL.RequestURI())))
}

func (rs *Responder) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	resp := &ErrResponse{
		HTTPStatusCode: http.StatusMethodNotAllowed,
		StatusText:     statusText(http.StatusMethodNotAllowed),
		Message:        fmt.Sprintf("Method %s not allowed on %s", r.Method, r.URL.Path),
	}
	if err := render.Render(w, r, resp); err != nil {
		logging.FromContext(r.Context()).Errorw("render error response", "error", err)
	}
}

// TooManyRequests answers callers the rate limiter turned away.
func (rs *Responder) TooManyRequests(w http.ResponseWriter, r *http.Request) {
	resp := &ErrResponse{
		HTTPStatusCode: http.StatusTooManyRequests,
		StatusText:     statusText(http.StatusTooManyRequests),
		Message:        "Too many requests from this IP, please try again in an hour!",
	}
	if err := render.Render(w, r, resp); err != nil {
		logging.FromContext(r.Context()).Errorw("render error response", "error", err)
	}
}

// Translate maps err onto the taxonomy. Known datastore, validation and
// token failures become operational errors with a safe message; anything
// unrecognized is Unexpected.
func Translate(err error) *apperr.Error {
	if appErr, ok := apperr.As(err); ok {
		return appErr
	}

	var (
		invalidID   *store.InvalidIDError
		dup         *store.DuplicateError
		validation  validator.ValidationErrors
		maxBytesErr *http.MaxBytesError
	)

	switch {
	case errors.As(err, &invalidID):
		return apperr.Wrap(apperr.BadRequest(fmt.Sprintf("Invalid %s: %s.", invalidID.Field, invalidID.Value)), err)
	case errors.As(err, &dup):
		return apperr.Wrap(apperr.BadRequest(fmt.Sprintf(
			"Duplicate field value: %s. Please use another value!", duplicateValue(dup),
		)), err)
	case errors.As(err, &validation):
		return apperr.Wrap(apperr.BadRequest("Invalid input data. "+validationMessages(validation)), err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperr.Wrap(apperr.Unauthorized("Your token has expired please login again."), err)
	case isTokenError(err):
		return apperr.Wrap(apperr.Unauthorized("Invalid token. Please log in again!"), err)
	case errors.As(err, &maxBytesErr):
		return apperr.Wrap(apperr.BadRequest("Request body too large"), err)
	default:
		return apperr.Unexpected(err)
	}
}

func isTokenError(err error) bool {
	for _, target := range []error{
		jwt.ErrTokenMalformed,
		jwt.ErrTokenUnverifiable,
		jwt.ErrTokenSignatureInvalid,
		jwt.ErrTokenNotValidYet,
		jwt.ErrTokenInvalidClaims,
		jwt.ErrTokenUsedBeforeIssued,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

func duplicateValue(dup *store.DuplicateError) string {
	b, err := json.Marshal(map[string]string{dup.Field: dup.Value})
	if err != nil {
		return "Duplicate field"
	}

	return string(b)
}

func validationMessages(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}

	return strings.Join(msgs, ". ")
}

func statusText(status int) string {
	if status >= 400 && status < 500 {
		return "fail"
	}

	return "error"
}
