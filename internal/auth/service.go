package auth

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/SergeyParamoshkin/sportsnews/internal/apperr"
	"github.com/SergeyParamoshkin/sportsnews/internal/model"
	"github.com/SergeyParamoshkin/sportsnews/internal/store"
)

const avatarBaseURL = "https://api.dicebear.com/7.x/adventurer/svg?seed="

var (
	ErrSignupCredentials = apperr.BadRequest("Username and password are required")
	ErrLoginCredentials  = apperr.BadRequest("Please provide username and password!")
	ErrBadCredentials    = apperr.Unauthorized("Incorrect username or password")
	ErrNotLoggedIn       = apperr.Unauthorized("You are not logged in! Please log in to get access.")
	ErrAdminGone         = apperr.Unauthorized("Admin no longer exists.")
	ErrAdminNotFound     = apperr.NotFound("No admin found with that ID")
)

// Repository is the admin persistence. *store.AdminStore satisfies it.
type Repository interface {
	Create(ctx context.Context, admin *model.Admin) error
	GetByID(ctx context.Context, id string) (*model.Admin, error)
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
	List(ctx context.Context) ([]model.Admin, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	repo   Repository
	tokens *TokenManager

	// compared against when the username is unknown so both failure paths
	// cost one bcrypt comparison
	dummyHash string
}

func NewService(repo Repository, tokens *TokenManager) (*Service, error) {
	dummy, err := HashPassword("sportsnews-placeholder")
	if err != nil {
		return nil, err
	}

	return &Service{repo: repo, tokens: tokens, dummyHash: dummy}, nil
}

func AvatarURL(username string) string {
	return avatarBaseURL + url.QueryEscape(username)
}

// Signup creates an admin. No session is issued.
func (s *Service) Signup(ctx context.Context, username, password string) (*model.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrSignupCredentials
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	admin := &model.Admin{
		Username: username,
		Password: hash,
		Avatar:   AvatarURL(username),
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, err
	}

	return admin, nil
}

// Login verifies the credentials and issues a token. Unknown usernames and
// wrong passwords fail identically.
func (s *Service) Login(ctx context.Context, username, password string) (*model.Admin, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", ErrLoginCredentials
	}

	admin, err := s.repo.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, store.ErrAdminNotFound):
		CheckPassword(s.dummyHash, password)

		return nil, "", ErrBadCredentials
	case err != nil:
		return nil, "", err
	}

	if !CheckPassword(admin.Password, password) {
		return nil, "", ErrBadCredentials
	}

	token, err := s.tokens.Issue(admin.ID)
	if err != nil {
		return nil, "", err
	}

	return admin, token, nil
}

// Authenticate resolves a session token to a live admin.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.Admin, error) {
	if token == "" {
		return nil, ErrNotLoggedIn
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	admin, err := s.repo.GetByID(ctx, claims.ID)
	var invalidID *store.InvalidIDError
	if errors.Is(err, store.ErrAdminNotFound) || errors.As(err, &invalidID) {
		return nil, apperr.Wrap(ErrAdminGone, err)
	}
	if err != nil {
		return nil, err
	}

	return admin, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.Admin, error) {
	admin, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, store.ErrAdminNotFound) {
		return nil, apperr.Wrap(apperr.Unauthorized("Admin not found"), err)
	}

	return admin, err
}

// List returns every admin with the total count.
func (s *Service) List(ctx context.Context) ([]model.Admin, int64, error) {
	admins, err := s.repo.List(ctx)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return admins, total, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, store.ErrAdminNotFound) {
		return apperr.Wrap(ErrAdminNotFound, err)
	}

	return err
}
