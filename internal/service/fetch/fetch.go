package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/gearstock/console/internal/errs"
	"github.com/gearstock/console/internal/session"
)

type Config struct {
	BaseURL string        `envconfig:"LENDING_API_URL" required:"true"`
	Timeout time.Duration `envconfig:"LENDING_API_TIMEOUT" default:"1m"`
}

// Auth carries one request's session identity. A zero Auth makes an
// unauthenticated call (credential exchange, registration).
type Auth struct {
	SessionID string
	Token     string
}

// Client is the single outbound door to the lending API. It attaches the
// bearer token, and on a 401 clears the caller's session before failing the
// call with ErrSessionExpired. Callers cannot recover from that error.
type Client struct {
	log      *zap.Logger
	client   *http.Client
	base     string
	sessions session.Store
}

func NewClient(log *zap.Logger, cfg Config, sessions session.Store) *Client {
	return &Client{
		log:      log,
		client:   &http.Client{Timeout: cfg.Timeout},
		base:     strings.TrimRight(cfg.BaseURL, "/"),
		sessions: sessions,
	}
}

// Do performs a request against the lending API. contentType is set as
// given; multipart callers pass the boundary-bearing value from their
// writer, JSON callers pass echo.MIMEApplicationJSON, and an empty value
// sets no content-type header at all.
func (c *Client) Do(ctx context.Context, method, path string, body io.Reader, contentType string, auth Auth) (*http.Response, error) {
	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if auth.Token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+auth.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		if auth.SessionID != "" {
			if err := c.sessions.Delete(ctx, auth.SessionID); err != nil {
				c.log.Warn("clear session after 401", zap.Error(err))
			}
		}
		return nil, errs.ErrSessionExpired
	}
	return resp, nil
}

// DoJSON marshals v (when non-nil) and performs a JSON request.
func (c *Client) DoJSON(ctx context.Context, method, path string, v any, auth Auth) (*http.Response, error) {
	var body io.Reader
	if v != nil {
		b := bytes.NewBuffer(nil)
		if err := json.NewEncoder(b).Encode(v); err != nil {
			return nil, err
		}
		body = b
	}
	return c.Do(ctx, method, path, body, echo.MIMEApplicationJSON, auth)
}

// DecodeJSON decodes a response body, tolerating bodies served as plain text
// that still contain JSON.
func DecodeJSON(resp *http.Response, out any) error {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(bytes.TrimSpace(data), out); err != nil {
		return errs.ErrBadPayload
	}
	return nil
}

// ErrorMessage extracts a human-readable message from a failed response:
// JSON `message` or `title` when present, the raw text otherwise.
func ErrorMessage(resp *http.Response, fallback string) string {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return fallback
	}
	var payload struct {
		Message string `json:"message"`
		Title   string `json:"title"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Title != "" {
			return payload.Title
		}
	}
	return string(bytes.TrimSpace(data))
}
