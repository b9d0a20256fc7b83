// Package client is the typed HTTP client of the roster API used by rosterctl.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"roster/internal/auth"
	"roster/internal/errors"
	"roster/internal/handler"
	"roster/internal/model"
)

// Client talks to the roster REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates an API client. timeout bounds every call; zero means no limit.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(slog.String("component", "api_client")),
	}
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp handler.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/login", "", handler.LoginRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login: empty token in response")
	}
	return resp.Token, nil
}

// ListEmployees returns the roster ordered by PSC.
func (c *Client) ListEmployees(ctx context.Context, token string) ([]model.Employee, error) {
	employees := make([]model.Employee, 0)
	if err := c.do(ctx, http.MethodGet, "/api/employees", token, nil, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// ListProjects returns the projects ordered by description.
func (c *Client) ListProjects(ctx context.Context, token string) ([]model.Project, error) {
	projects := make([]model.Project, 0)
	if err := c.do(ctx, http.MethodGet, "/api/projects", token, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// UpdateEmployee writes both editable fields of one row. Any failure other
// than ErrUnauthorized is reported as ErrRowSaveFailed.
func (c *Client) UpdateEmployee(ctx context.Context, token, psc string, tagID *string, projectID *int64) error {
	var ack handler.MessageResponse
	err := c.do(ctx, http.MethodPut, "/api/employees/"+url.PathEscape(psc), token, handler.UpdateEmployeeRequest{
		TagID:     tagID,
		ProjectID: projectID,
	}, &ack)
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, errors.ErrUnauthorized):
		return err
	default:
		return fmt.Errorf("%w: %s: %w", errors.ErrRowSaveFailed, psc, err)
	}
}

// APIError is a non-2xx answer that is not an authorization failure.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api status %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api status %d: %s", e.StatusCode, e.Message)
}

// Unwrap lets errors.Is match the taxonomy behind the status code.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return errors.ErrEmployeeNotFound
	case e.StatusCode >= http.StatusInternalServerError:
		return errors.ErrStoreUnavailable
	default:
		return nil
	}
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", auth.BearerHeader(token))
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(path, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body errors.ErrorResponse
	_ = json.Unmarshal(raw, &body)
	if body.Error == "" {
		body.Error = strings.TrimSpace(string(raw))
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// the login route answers 401 for bad credentials, everything else for the gate
		if path == "/api/login" {
			return errors.ErrInvalidCredentials
		}
		return fmt.Errorf("%w: %s", errors.ErrUnauthorized, body.Code)
	}
	return &APIError{StatusCode: resp.StatusCode, Code: body.Code, Message: body.Error}
}
