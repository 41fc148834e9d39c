// Package client is a small Go client for the sports news API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/SergeyParamoshkin/sportsnews/internal/adminpayload"
	"github.com/SergeyParamoshkin/sportsnews/internal/articleresponse"
	"github.com/SergeyParamoshkin/sportsnews/internal/auth"
)

const apiPrefix = "/api/v1"

// Client talks to one API server. Token is sent as a bearer token once set,
// either directly or by Login.
type Client struct {
	http.Client
	Addr  string
	Token string
}

// APIError is a non-2xx answer carrying the server's error payload.
type APIError struct {
	StatusCode int    `json:"-"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s: %s", e.StatusCode, e.Status, e.Message)
}

func (c *Client) Ping(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Addr+"/ping", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

func (c *Client) Signup(ctx context.Context, username, password string) (*auth.SignupResponse, error) {
	out := &auth.SignupResponse{}
	err := c.do(ctx, http.MethodPost, "/auth/signup", auth.CredentialsRequest{Username: username, Password: password}, out)
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Login authenticates and keeps the issued token for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (*adminpayload.AdminPayload, error) {
	out := &auth.LoginResponse{}
	err := c.do(ctx, http.MethodPost, "/auth/login", auth.CredentialsRequest{Username: username, Password: password}, out)
	if err != nil {
		return nil, err
	}
	c.Token = out.Token

	return out.Data.Admin, nil
}

func (c *Client) Me(ctx context.Context) (*adminpayload.AdminPayload, error) {
	out := &auth.MeResponse{}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, out); err != nil {
		return nil, err
	}

	return out.Admin, nil
}

// ListArticles passes query through as is: page, limit, sortBy, search,
// category, istrending, isRecent.
func (c *Client) ListArticles(ctx context.Context, query url.Values) (*articleresponse.ListResponse, error) {
	path := "/article"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	out := &articleresponse.ListResponse{}
	if err := c.do(ctx, http.MethodGet, path, nil, out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) Article(ctx context.Context, slug string) (*articleresponse.ArticleResponse, error) {
	out := &articleresponse.SingleResponse{}
	if err := c.do(ctx, http.MethodGet, "/article/"+url.PathEscape(slug), nil, out); err != nil {
		return nil, err
	}

	return out.Data, nil
}

func (c *Client) DeleteArticle(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/article/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.Addr, "/")+apiPrefix+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)

		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
