// Package botapi is the HTTP client for the remote support-bot backend. It
// owns transport concerns only: request shape, auth header, and the retry
// policy. Reply payloads stay opaque here; pkg/payload interprets them.
package botapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIError is a non-2xx reply from the bot backend.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("bot api: %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("bot api: server error (%d)", e.StatusCode)
}

// Result carries the raw reply body plus how many attempts it took, so the
// caller can surface a transient retry notice when the first try failed.
type Result struct {
	Body     []byte
	Attempts int
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	policy     RetryPolicy
}

func NewClient(baseURL, apiKey string, timeout time.Duration, policy RetryPolicy) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		policy: policy,
	}
}

// SendMessage posts one user turn to the backend chat endpoint, retrying
// transient failures per the policy. The returned body is the raw reply.
func (c *Client) SendMessage(ctx context.Context, sessionID, message string) (*Result, error) {
	body, err := json.Marshal(chatRequest{Message: message, SessionID: sessionID})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.policy.MaxAttempts(); attempt++ {
		if attempt > 1 {
			if err := c.policy.Wait(ctx, attempt-1); err != nil {
				return nil, err
			}
		}

		reply, err := c.post(ctx, body)
		if err == nil {
			return &Result{Body: reply, Attempts: attempt}, nil
		}
		lastErr = err
		if !c.policy.IsRetryable(err) {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) post(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	reply, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Detail: statusMessage(resp.StatusCode)}
		var detail struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(reply, &detail) == nil && detail.Detail != "" {
			apiErr.Detail = detail.Detail
		}
		return nil, apiErr
	}
	return reply, nil
}

func statusMessage(code int) string {
	switch code {
	case http.StatusTooManyRequests:
		return "Too many requests - please wait before trying again"
	case http.StatusInternalServerError:
		return "Server is experiencing high traffic - please try again shortly"
	case http.StatusBadGateway:
		return "Server temporarily unavailable"
	case http.StatusServiceUnavailable:
		return "Service temporarily unavailable"
	case http.StatusGatewayTimeout:
		return "Request timed out - please try again"
	}
	return fmt.Sprintf("Server error (%d)", code)
}

// UserMessage maps a final (post-retry) failure to the message shown in the
// chat, mirroring the tone of the rest of the widget copy.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusInternalServerError:
			return "I'm experiencing high traffic right now. Please wait a moment and try again."
		case http.StatusTooManyRequests:
			return "Too many requests. Please wait a few seconds before trying again."
		case http.StatusBadGateway, http.StatusServiceUnavailable:
			return "Service temporarily unavailable. Please try again in a moment."
		case http.StatusGatewayTimeout:
			return "The request timed out. Please try again."
		}
		return "I apologize, but I'm having trouble processing that. Please try again."
	}
	return "Network connection issue. Please check your connection and try again."
}
