// Package client talks to the moderation REST API on behalf of modctl. It
// owns the rule that an authentication or restriction rejection clears the
// local session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/lenslink/moderation-service/internal/api/dto"
	"github.com/lenslink/moderation-service/internal/config"
	"github.com/lenslink/moderation-service/internal/session"
	apperrors "github.com/lenslink/moderation-service/pkg/util"
)

type authMode int

const (
	authNone authMode = iota
	// authSession needs a token but tolerates a restricted snapshot.
	authSession
	// authActive additionally refuses locally when the snapshot is restricted.
	authActive
)

// Client is a thin typed wrapper over the REST API.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions *session.Manager
	logger   *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for interceptor diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New builds a client. A zero timeout in cfg leaves requests unbounded.
func New(cfg config.ClientConfig, sessions *session.Manager, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     &http.Client{Timeout: cfg.Timeout()},
		sessions: sessions,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sessions exposes the session manager the client writes to.
func (c *Client) Sessions() *session.Manager {
	return c.sessions
}

func (c *Client) do(ctx context.Context, mode authMode, method, path string, body, out any) error {
	var token string
	if mode != authNone {
		sess := c.sessions.Current()
		if sess == nil || sess.Token == "" {
			return apperrors.NewUnauthorized("no active session")
		}
		if mode == authActive && sess.User != nil && sess.User.Restricted {
			reason := ""
			if sess.User.RestrictionReason != nil {
				reason = *sess.User.RestrictionReason
			}
			return apperrors.NewAccountRestricted(reason)
		}
		token = sess.Token
	}
	return c.send(ctx, token, method, path, body, out)
}

func (c *Client) send(ctx context.Context, token, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewValidationError("unencodable request", map[string]any{"error": err.Error()})
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperrors.NewTransportError(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.NewTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewTransportError(err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return apperrors.NewTransportError(fmt.Errorf("decode response: %w", err))
		}
		return nil
	}

	apiErr := decodeError(resp.StatusCode, raw)
	c.intercept(token, apiErr)
	return apiErr
}

// intercept clears the session when the server rejects the caller's identity
// or reports the account as restricted.
func (c *Client) intercept(token string, err error) {
	if token == "" {
		return
	}
	if !errors.Is(err, apperrors.ErrUnauthorized) && !errors.Is(err, apperrors.ErrAccountRestricted) {
		return
	}
	c.logger.Info("clearing session after rejected request", zap.Error(err))
	if clearErr := c.sessions.Clear(); clearErr != nil {
		c.logger.Warn("failed to clear session", zap.Error(clearErr))
	}
}

func decodeError(status int, raw []byte) error {
	if status >= http.StatusInternalServerError {
		return apperrors.NewTransportError(fmt.Errorf("server returned %d: %s", status, snippet(raw)))
	}
	var env dto.ErrorEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Error.Code == "" {
		code := codeForStatus(status)
		return apperrors.NewDomainError(code, http.StatusText(status), status, nil)
	}
	return apperrors.NewDomainError(env.Error.Code, env.Error.Message, status, env.Error.Details)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.CodeValidation
	case http.StatusUnauthorized:
		return apperrors.CodeUnauthorized
	case http.StatusForbidden:
		return apperrors.CodeForbidden
	case http.StatusNotFound:
		return apperrors.CodeNotFound
	case http.StatusConflict:
		return apperrors.CodeInvalidState
	}
	return apperrors.CodeTransport
}

func snippet(raw []byte) string {
	const limit = 200
	text := strings.TrimSpace(string(raw))
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}

func escape(id string) string {
	return url.PathEscape(id)
}
