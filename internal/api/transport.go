// Package api implements the REST client for the nexo backend: a shared
// transport, a generic resource client, and the authentication flow.
package api

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
	"time"

	"github.com/tyha2404/nexo-app/internal/log"
)

const authorizationHeader = "Authorization"

// ErrUnauthorized is returned after a 401 response. By the time the
// caller sees it the session has already been cleared and the
// OnUnauthorized hook has fired.
var ErrUnauthorized = errors.New("session invalidated: authentication required")

// SessionState is the slice of the session store the transport needs:
// the current token before each request, and eviction on 401.
type SessionState interface {
	Token(ctx context.Context) string
	Clear(ctx context.Context) error
}

// Transport is the single HTTP client shared by every resource client.
// The token is read from the session store per request, so a login that
// happens after construction is picked up without rebuilding clients.
type Transport struct {
	baseURL        string
	client         *http.Client
	session        SessionState
	onUnauthorized func()
	logger         *log.Logger
}

// TransportOptions configures a Transport. BaseURL and Session are
// required; the rest default sensibly.
type TransportOptions struct {
	BaseURL string
	Session SessionState

	// HTTPClient overrides the default client. No explicit timeout is
	// configured on the default; cancellation is the caller's context.
	HTTPClient *http.Client

	// OnUnauthorized runs after a 401 has cleared the session. The
	// application shell decides what "go to login" means.
	OnUnauthorized func()

	Logger *log.Logger
}

func NewTransport(opts TransportOptions) (*Transport, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("transport: base URL is required")
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("transport: invalid base URL: %w", err)
	}
	if opts.Session == nil {
		return nil, errors.New("transport: session state is required")
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentTransport)
	}

	return &Transport{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		client:         client,
		session:        opts.Session,
		onUnauthorized: opts.OnUnauthorized,
		logger:         logger,
	}, nil
}

// Do executes one request against the API. A non-nil body is sent as
// JSON; a non-nil out receives the decoded response body. A 401 clears
// the session, fires the OnUnauthorized hook, and yields ErrUnauthorized.
func (t *Transport) Do(ctx context.Context, method, subPath string, query url.Values, body, out any) error {
	endpoint := t.baseURL + subPath
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := t.session.Token(ctx); token != "" {
		req.Header.Set(authorizationHeader, "Bearer "+token)
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, subPath, err)
	}
	defer resp.Body.Close()

	t.logger.DebugContext(ctx, "Request completed",
		log.FieldMethod, method,
		log.FieldPath, subPath,
		log.FieldStatusCode, resp.StatusCode,
		log.FieldDuration, time.Since(start).Milliseconds())

	if resp.StatusCode == http.StatusUnauthorized {
		t.invalidateSession(ctx)
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: unexpected status %d", method, subPath, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response body: %w", err)
		}
	}
	return nil
}

func (t *Transport) invalidateSession(ctx context.Context) {
	if err := t.session.Clear(ctx); err != nil {
		t.logger.ErrorContext(ctx, "Failed to clear session after 401", log.FieldError, err.Error())
	}
	t.logger.WarnContext(ctx, "Session invalidated by 401 response")
	if t.onUnauthorized != nil {
		t.onUnauthorized()
	}
}
