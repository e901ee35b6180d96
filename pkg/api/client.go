package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/smnshzh/MarketVisit/internal/logger"
	"github.com/smnshzh/MarketVisit/pkg/httpclient"
)

// DefaultTimeout is the per-attempt ceiling.
const DefaultTimeout = 30 * time.Second

// CredentialsMode controls whether the stored session is attached to a request.
// The zero value includes credentials.
type CredentialsMode string

const (
	CredentialsInclude CredentialsMode = "include"
	CredentialsOmit    CredentialsMode = "omit"
)

// RequestOptions is the per-call request descriptor.
type RequestOptions struct {
	Method string
	// Body is JSON-encoded unless it is already []byte or json.RawMessage.
	Body        any
	Headers     map[string]string
	Credentials CredentialsMode
}

// SessionStore persists the backend session token between calls.
type SessionStore interface {
	Session() (string, bool, error)
	SaveSession(token string) error
	ClearSession() error
}

// CallObservation summarizes one logical call for metrics.
type CallObservation struct {
	Endpoint   string
	Method     string
	Outcome    string
	StatusCode int
	Attempts   int
	FellBack   bool
	Duration   time.Duration
}

// Observer receives one observation per completed call.
type Observer interface {
	ObserveCall(obs CallObservation)
}

// Options configures a Client.
type Options struct {
	Locations Locations
	// Fallback narrows fallback eligibility; nil permits every eligible fallback.
	Fallback FallbackPolicy
	// Timeout bounds each attempt; zero means DefaultTimeout.
	Timeout   time.Duration
	Transport httpclient.Client
	Sessions  SessionStore
	Messages  Messages
	Observer  Observer
	Logger    logger.Logger
}

// Client issues JSON requests against the store directory backend with a
// single primary-to-secondary fallback on network failures.
type Client struct {
	locations Locations
	fallback  FallbackPolicy
	timeout   time.Duration
	transport httpclient.Client
	sessions  SessionStore
	messages  Messages
	observer  Observer
	log       logger.Logger
}

// NewClient builds a Client, filling unset options with defaults.
func NewClient(opts Options) *Client {
	c := &Client{
		locations: opts.Locations.withDefaults(),
		fallback:  opts.Fallback,
		timeout:   opts.Timeout,
		transport: opts.Transport,
		sessions:  opts.Sessions,
		messages:  opts.Messages.withDefaults(),
		observer:  opts.Observer,
		log:       logger.Ensure(opts.Logger),
	}
	if c.fallback == nil {
		c.fallback = AlwaysFallback
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.transport == nil {
		// attempt contexts enforce the timeout
		c.transport = httpclient.NewRestyClient(0)
	}
	if c.sessions == nil {
		c.sessions = &MemorySessions{}
	}
	return c
}

// Locations returns the resolved location configuration.
func (c *Client) Locations() Locations { return c.locations }

// Sessions exposes the session store backing credential inclusion.
func (c *Client) Sessions() SessionStore { return c.sessions }

// Call performs one logical request and decodes the JSON response into out
// (out may be nil to only validate the body). Every failure after the request
// is built is an *Error.
func (c *Client) Call(ctx context.Context, endpoint string, opts RequestOptions, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	req, err := c.buildRequest(endpoint, opts)
	if err != nil {
		return err
	}

	primary := c.locations.Primary()
	secondary := c.locations.Secondary()

	err = c.attempt(ctx, primary, endpoint, req, out)
	attempts := 1
	fellBack := false

	if c.shouldFallback(ctx, err, primary, secondary) {
		c.log.WarnObj("api primary unreachable, retrying fallback", "api_fallback", map[string]any{
			"endpoint":  endpoint,
			"primary":   primary,
			"secondary": secondary,
			"error":     causeText(err),
		})
		attempts++
		fellBack = true
		err = c.attempt(ctx, secondary, endpoint, req, out)
	}

	c.observe(endpoint, req.Method, err, attempts, fellBack, time.Since(start))
	return err
}

func (c *Client) shouldFallback(ctx context.Context, err error, primary, secondary string) bool {
	if err == nil || !IsKind(err, KindNetwork) {
		return false
	}
	if ctx.Err() != nil {
		return false
	}
	if c.locations.Hosted || secondary == "" || sameLocation(primary, secondary) {
		return false
	}
	return c.fallback.AllowFallback(primary, secondary)
}

// attempt dispatches req against one base location.
func (c *Client) attempt(ctx context.Context, base, endpoint string, req httpclient.Request, out any) error {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req.URL = joinURL(base, endpoint)
	c.log.DebugObj("api request", "api_request", map[string]any{
		"url":      req.URL,
		"method":   req.Method,
		"has_body": len(req.Body) > 0,
	})

	resp, err := c.transport.Do(attemptCtx, req)
	if err != nil {
		return c.transportError(base, err)
	}

	status := resp.StatusCode()
	c.log.DebugObj("api response", "api_response", map[string]any{
		"url":    req.URL,
		"status": status,
	})

	if status < 200 || status > 299 {
		return &Error{
			Kind:       KindHTTP,
			StatusCode: status,
			Message:    httpErrorMessage(status, resp.Header(), resp.Body()),
			Location:   base,
		}
	}
	if status == http.StatusNoContent {
		return nil
	}
	return c.decode(base, resp.Body(), out)
}

func (c *Client) decode(base string, body []byte, out any) error {
	var err error
	if out == nil {
		if !json.Valid(body) {
			err = errors.New("response body is not valid JSON")
		}
	} else {
		err = json.Unmarshal(body, out)
	}
	if err != nil {
		return &Error{Kind: KindDecode, Message: c.messages.Decode, Location: base, Err: err}
	}
	return nil
}

// transportError classifies a failure that produced no response.
func (c *Client) transportError(base string, err error) error {
	if isTimeout(err) {
		return &Error{Kind: KindTimeout, Message: c.messages.Timeout, Location: base, Err: err}
	}
	return &Error{Kind: KindNetwork, Message: c.messages.Unreachable, Location: base, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (c *Client) buildRequest(endpoint string, opts RequestOptions) (httpclient.Request, error) {
	if strings.TrimSpace(endpoint) == "" {
		return httpclient.Request{}, fmt.Errorf("%w: endpoint is empty", ErrInvalidRequest)
	}

	method, err := normalizeMethod(opts.Method)
	if err != nil {
		return httpclient.Request{}, err
	}

	body, err := encodeBody(opts.Body)
	if err != nil {
		return httpclient.Request{}, err
	}

	headers := map[string]string{
		"Content-Type":  "application/json",
		"Accept":        "application/json",
		"Cache-Control": "no-cache",
	}
	if opts.Credentials != CredentialsOmit {
		if token, ok, err := c.sessions.Session(); err != nil {
			c.log.WarnObj("session lookup failed", "session_error", err.Error())
		} else if ok && token != "" {
			headers["Authorization"] = "Bearer " + token
		}
	}
	for k, v := range opts.Headers {
		headers[k] = v
	}

	return httpclient.Request{Method: method, Headers: headers, Body: body}, nil
}

var allowedMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodOptions: {},
}

func normalizeMethod(raw string) (string, error) {
	method := strings.ToUpper(strings.TrimSpace(raw))
	if method == "" {
		return http.MethodGet, nil
	}
	if _, ok := allowedMethods[method]; !ok {
		return "", fmt.Errorf("%w: unsupported method %q", ErrInvalidRequest, raw)
	}
	return method, nil
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("%w: encode body: %v", ErrInvalidRequest, err)
		}
		return raw, nil
	}
}

func (c *Client) observe(endpoint, method string, err error, attempts int, fellBack bool, d time.Duration) {
	if c.observer == nil {
		return
	}
	obs := CallObservation{
		Endpoint: endpointPath(endpoint),
		Method:   method,
		Outcome:  "ok",
		Attempts: attempts,
		FellBack: fellBack,
		Duration: d,
	}
	if apiErr, ok := AsError(err); ok {
		obs.Outcome = apiErr.Kind.String()
		obs.StatusCode = apiErr.StatusCode
	}
	c.observer.ObserveCall(obs)
}

// endpointPath strips the query string so metric labels stay bounded.
func endpointPath(endpoint string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		return endpoint[:i]
	}
	return endpoint
}

func causeText(err error) string {
	if apiErr, ok := AsError(err); ok && apiErr.Err != nil {
		return apiErr.Err.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// MemorySessions is an in-process SessionStore.
type MemorySessions struct {
	mu    sync.RWMutex
	token string
}

func (m *MemorySessions) Session() (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != "", nil
}

func (m *MemorySessions) SaveSession(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemorySessions) ClearSession() error {
	return m.SaveSession("")
}
