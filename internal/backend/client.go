// Package backend is the HTTP client for the evaluation backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when the backend does not know the requested user.
var ErrNotFound = errors.New("not found")

// HTTPError is a non-2xx backend response.
type HTTPError struct {
	Status  int
	Message string
}

// Error formats the status and message.
func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d", e.Status)
	}
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// Client talks to the evaluation backend.
type Client struct {
	baseURL string
	client  *http.Client
}

// New constructs a client for the given base URL.
func New(baseURL string) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), client: &http.Client{}}
}

// NewWithTimeout constructs a client for the given base URL with a request timeout.
func NewWithTimeout(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// UserContext fetches the contact, client and locations linked to a host user.
func (c *Client) UserContext(ctx context.Context, hostUserID int64) (UserContext, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/user-context/"+strconv.FormatInt(hostUserID, 10), nil)
	if err != nil {
		return UserContext{}, err
	}
	if status == http.StatusNotFound {
		return UserContext{}, ErrNotFound
	}
	if status < 200 || status > 299 {
		return UserContext{}, decodeHTTPError(status, body)
	}
	var res UserContext
	if err := json.Unmarshal(body, &res); err != nil {
		return UserContext{}, fmt.Errorf("decode user context: %w", err)
	}
	return res, nil
}

// SubmitEvaluation posts a completed evaluation.
func (c *Client) SubmitEvaluation(ctx context.Context, req SubmissionRequest) (SubmissionResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return SubmissionResponse{}, err
	}
	body, status, err := c.do(ctx, http.MethodPost, "/evaluations", payload)
	if err != nil {
		return SubmissionResponse{}, err
	}
	if status < 200 || status > 299 {
		return SubmissionResponse{}, decodeHTTPError(status, body)
	}
	var res SubmissionResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return SubmissionResponse{}, fmt.Errorf("decode submission response: %w", err)
	}
	return res, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func decodeHTTPError(status int, body []byte) error {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err == nil {
		if resp.Error != "" {
			return &HTTPError{Status: status, Message: resp.Error}
		}
		if resp.Message != "" {
			return &HTTPError{Status: status, Message: resp.Message}
		}
	}
	return &HTTPError{Status: status}
}
