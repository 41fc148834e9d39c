package football

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SergeyParamoshkin/sportsnews/internal/logging"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const (
	authHeader = "X-Auth-Token"

	maxBodyBytes = 4 << 20

	outcomeOK        = "ok"
	outcomeClient    = "client_error"
	outcomeServer    = "server_error"
	outcomeTransport = "transport_error"
	outcomeRejected  = "rejected"
)

// UpstreamError is a non-2xx answer from the provider.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("football-data: status %d", e.Status)
	}

	return fmt.Sprintf("football-data: status %d: %s", e.Status, e.Message)
}

// Observer receives one call per upstream round trip.
type Observer interface {
	ObserveUpstream(ctx context.Context, endpoint, outcome string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveUpstream(context.Context, string, string, time.Duration) {}

// Client talks to the football-data.org v4 API. Calls go through a circuit
// breaker that only counts transport failures and 5xx answers.
type Client struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	cb       *gobreaker.CircuitBreaker[[]byte]
	observer Observer
}

type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

func WithObserver(o Observer) ClientOption {
	return func(c *Client) {
		if o != nil {
			c.observer = o
		}
	}
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.SugaredLogger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	c.cb = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "football-data",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			var upErr *UpstreamError
			if errors.As(err, &upErr) {
				return upErr.Status < http.StatusInternalServerError
			}

			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnw("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return c
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Get fetches path (relative to the base URL) and decodes the JSON answer
// into out. endpoint labels the call in metrics.
func (c *Client) Get(ctx context.Context, endpoint, path string, query url.Values, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	start := time.Now()
	body, err := c.cb.Execute(func() ([]byte, error) {
		return c.fetch(ctx, target)
	})
	c.observer.ObserveUpstream(ctx, endpoint, outcome(err), time.Since(start))

	if err != nil {
		logging.FromContext(ctx).Warnw("football-data request failed", "endpoint", endpoint, "url", target, "error", err)

		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}

	return nil
}

func (c *Client) fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(authHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("football-data request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read football-data response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Status: resp.StatusCode, Message: upstreamMessage(body)}
	}

	return body, nil
}

// upstreamMessage pulls the provider's "message" field out of an error body.
func upstreamMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	return payload.Message
}

func outcome(err error) string {
	var upErr *UpstreamError

	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return outcomeRejected
	case errors.As(err, &upErr) && upErr.Status < http.StatusInternalServerError:
		return outcomeClient
	case errors.As(err, &upErr):
		return outcomeServer
	default:
		return outcomeTransport
	}
}
