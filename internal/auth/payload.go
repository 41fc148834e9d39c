package auth

import (
	"net/http"

	"github.com/SergeyParamoshkin/sportsnews/internal/adminpayload"
	"github.com/go-chi/render"
)

const statusSuccess = "success"

// CredentialsRequest is the signup and login body.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *CredentialsRequest) Bind(r *http.Request) error {
	return nil
}

type SignupData struct {
	ID       string `json:"id"`
	UserName string `json:"userName"`
	Avatar   string `json:"avatar"`
}

type SignupResponse struct {
	Status  string     `json:"status"`
	Message string     `json:"message"`
	Data    SignupData `json:"data"`
}

func (sr *SignupResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, http.StatusCreated)

	return nil
}

type AdminData struct {
	Admin *adminpayload.AdminPayload `json:"admin"`
}

type LoginResponse struct {
	Status string    `json:"status"`
	Token  string    `json:"token"`
	Data   AdminData `json:"data"`
}

func (lr *LoginResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type MeResponse struct {
	Admin *adminpayload.AdminPayload `json:"admin"`
}

func (mr *MeResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type UsersData struct {
	Users []*adminpayload.AdminPayload `json:"users"`
}

type AdminListResponse struct {
	Status     string    `json:"status"`
	Results    int       `json:"results"`
	TotalItems int64     `json:"totalItems"`
	Data       UsersData `json:"data"`
}

func (lr *AdminListResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type LogoutResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (lr *LogoutResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
