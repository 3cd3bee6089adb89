// Package judgeapi maps typed requests to the judge's HTTP contract and maps
// every failure to a *common.APIError. It holds no UI state and never
// retries: each call is sent once.
package judgeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"judge_client/internal/common"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 8 << 20

// AuthSource supplies the Authorization header for identity-scoped calls.
// *session.Store satisfies it.
type AuthSource interface {
	CurrentAuthHeader() (string, bool)
}

type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:8080/api".
	BaseURL string
	// HTTPClient is used for all requests. If nil, a client with no
	// explicit timeout is used.
	HTTPClient *http.Client
	Auth       AuthSource
	// OnAuthorizationFailure, if set, is called when an identity-scoped call
	// that carried a credential is rejected with 401/403, i.e. the server
	// has evicted the token.
	OnAuthorizationFailure func(ctx context.Context)
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

type Client struct {
	baseURL     string
	httpClient  *http.Client
	auth        AuthSource
	onAuthError func(ctx context.Context)
	logger      *slog.Logger
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("judgeapi: BaseURL is required")
	}
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("judgeapi: invalid BaseURL %q: %w", cfg.BaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("judgeapi: BaseURL %q must be http or https", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:  httpClient,
		auth:        cfg.Auth,
		onAuthError: cfg.OnAuthorizationFailure,
		logger:      logger,
	}, nil
}

// call describes one HTTP exchange.
type call struct {
	op       string
	method   string
	path     string
	query    url.Values
	body     any
	authed   bool   // attach the credential when one is held
	fallback string // message used when the server does not supply one
	// kind maps a non-success status to a failure kind. Nil means
	// common.KindFromStatus.
	kind func(status int) error
}

// exchange is what came back from a request that reached the server.
type exchange struct {
	status     int
	body       []byte
	sentAuth   bool
	requestID  string
	durationMs int64
}

// send performs the request. The only error it returns is a transport
// failure.
func (c *Client) send(ctx context.Context, cl call) (*exchange, error) {
	requestURL := c.baseURL + cl.path
	if len(cl.query) > 0 {
		requestURL += "?" + cl.query.Encode()
	}

	var bodyReader io.Reader
	if cl.body != nil {
		encoded, err := json.Marshal(cl.body)
		if err != nil {
			return nil, c.failure(cl, 0, common.ErrRequestFailed, cl.fallback, err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, cl.method, requestURL, bodyReader)
	if err != nil {
		return nil, c.failure(cl, 0, common.ErrRequestFailed, cl.fallback, err)
	}

	requestID := uuid.NewString()
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	request.Header.Set("X-Request-ID", requestID)

	sentAuth := false
	if cl.authed && c.auth != nil {
		if header, ok := c.auth.CurrentAuthHeader(); ok {
			request.Header.Set("Authorization", header)
			sentAuth = true
		}
	}

	started := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		c.logger.Warn("judge request failed", "op", cl.op, "request_id", requestID, "error", err)
		return nil, c.failure(cl, 0, common.ErrTransport, fmt.Sprintf("%s: %v", cl.fallback, err), err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, c.failure(cl, response.StatusCode, common.ErrTransport, fmt.Sprintf("%s: %v", cl.fallback, err), err)
	}

	ex := &exchange{
		status:     response.StatusCode,
		body:       body,
		sentAuth:   sentAuth,
		requestID:  requestID,
		durationMs: time.Since(started).Milliseconds(),
	}
	c.logger.Debug("judge request", "op", cl.op, "method", cl.method, "path", cl.path,
		"status", ex.status, "request_id", requestID, "duration_ms", ex.durationMs)
	return ex, nil
}

// do sends the call and decodes a successful body into out.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	ex, err := c.send(ctx, cl)
	if err != nil {
		return err
	}

	if ex.status >= 200 && ex.status < 300 {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(ex.body, out); err != nil {
			return c.failure(cl, ex.status, common.ErrRequestFailed, cl.fallback+": invalid response", err)
		}
		return nil
	}

	// Error bodies are optional; an unparseable one just means no message.
	var errBody common.ErrorResponse
	_ = json.Unmarshal(ex.body, &errBody)
	message := errBody.Text()
	if message == "" {
		message = cl.fallback
	}

	kindOf := cl.kind
	if kindOf == nil {
		kindOf = common.KindFromStatus
	}
	kind := kindOf(ex.status)

	if kind == common.ErrAuthorizationRequired && ex.sentAuth && c.onAuthError != nil {
		c.logger.Info("server rejected the session credential", "op", cl.op, "status", ex.status)
		c.onAuthError(ctx)
	}
	return c.failure(cl, ex.status, kind, message, nil)
}

func (c *Client) failure(cl call, status int, kind error, message string, cause error) *common.APIError {
	return &common.APIError{
		Op:         cl.op,
		StatusCode: status,
		Message:    message,
		Kind:       kind,
		Err:        cause,
	}
}

// authKinds maps every non-success status of signup/login to AuthFailure.
func authKinds(int) error {
	return common.ErrAuthFailure
}

// plainKinds is for public reads where no status has special meaning.
func plainKinds(int) error {
	return common.ErrRequestFailed
}

// scopedKinds is for identity-scoped calls: 401/403 mean the credential is
// missing or no longer valid.
func scopedKinds(status int) error {
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return common.ErrAuthorizationRequired
	}
	return common.ErrRequestFailed
}
