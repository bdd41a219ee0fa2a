package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okulov/chatter/internal/client/models"
	"github.com/okulov/chatter/internal/logging"
)

// HTTPClient talks JSON over HTTP to the Chatter server.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the server at baseURL. jarPath is where
// the session cookie is persisted between runs.
func NewHTTPClient(baseURL string, jarPath string, logger logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http: &http.Client{
			Jar:     newSessionJar(jarPath),
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

type registerRequest struct {
	FirstName            string `json:"firstName"`
	LastName             string `json:"lastName"`
	Username             string `json:"username"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	User *models.User `json:"user"`
}

type usersResponse struct {
	Count int            `json:"count"`
	Users []*models.User `json:"users"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *HTTPClient) Register(ctx context.Context, p RegisterParams) (*models.User, error) {
	body := registerRequest{
		FirstName:            p.FirstName,
		LastName:             p.LastName,
		Username:             p.Username,
		Email:                p.Email,
		Password:             p.Password,
		PasswordConfirmation: p.PasswordConfirmation,
	}
	var resp userResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", body, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *HTTPClient) Login(ctx context.Context, identifier, password string) (*models.User, error) {
	var resp userResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", loginRequest{Username: identifier, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.User, error) {
	var resp userResponse
	if err := c.doJSON(ctx, http.MethodGet, "/auth/profile", nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *HTTPClient) Users(ctx context.Context) ([]*models.User, error) {
	var resp usersResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/users", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// Ping hits the health route.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/", nil, nil)
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// doJSON sends one request and decodes the response into out when out is
// non-nil. Transport failures map to ErrUnavailable; error statuses map to
// the package sentinels, wrapped with the server's message when it sent one.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug(ctx, "request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.statusError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}
	return nil
}

func (c *HTTPClient) statusError(resp *http.Response) error {
	var body errorResponse
	msg := resp.Status
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		msg = body.Error
	}

	var sentinel error
	switch resp.StatusCode {
	case http.StatusBadRequest:
		sentinel = ErrBadRequest
	case http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusConflict:
		sentinel = ErrConflict
	default:
		sentinel = ErrUnavailable
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}
