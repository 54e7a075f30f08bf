// Package intercept provides the process-wide HTTP interception substrate.
// A Registry installs itself as http.DefaultTransport while enabled and
// dispatches outbound calls to registered matchers or handlers. Interception
// state is global to the process: only one registry may be live at a time,
// and nesting two live registries is unsupported.
package intercept

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sync"
	"time"

	"go.uber.org/zap"

	"go.netreplay.io/netreplay/pkg/matcher"
	"go.netreplay.io/netreplay/pkg/models"
)

// DefaultTimeout bounds passthrough network calls that carry no deadline of
// their own.
const DefaultTimeout = 30 * time.Second

// AnyURI matches every request URI; it backs the universal record handler.
var AnyURI = regexp.MustCompile(`.*`)

// ErrAlreadyEnabled is returned when a second registry is enabled while
// another one is live.
var ErrAlreadyEnabled = errors.New("another interception registry is already enabled")

// Handler produces a response for an intercepted request. It runs with
// interception still active; handlers that need the network go through
// Passthrough.
type Handler func(req *http.Request) (*http.Response, error)

type patternEntry struct {
	method  models.Method
	pattern *regexp.Regexp
	handler Handler
}

var (
	activeMu sync.Mutex
	active   *Registry
)

// Registry owns interception state for one session: an ordered catalog of
// exact matchers serving canned responses, plus pattern handlers consulted
// when every exact matcher has declined.
type Registry struct {
	logger       *zap.Logger
	enabled      bool
	allowNetwork bool
	catalog      *matcher.Catalog
	patterns     []patternEntry
	real         http.RoundTripper
}

// NewRegistry returns a registry that is not yet enabled.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		logger:  logger,
		catalog: matcher.NewCatalog(),
	}
}

// Enable installs the registry as http.DefaultTransport, saving the
// previous transport for passthrough. Re-enabling a live registry only
// updates allowNetwork; enabling while a different registry is live fails
// with ErrAlreadyEnabled.
func (r *Registry) Enable(allowNetwork bool) error {
	activeMu.Lock()
	defer activeMu.Unlock()

	if active == r {
		r.allowNetwork = allowNetwork
		return nil
	}
	if active != nil {
		return ErrAlreadyEnabled
	}

	r.real = http.DefaultTransport
	http.DefaultTransport = r
	r.enabled = true
	r.allowNetwork = allowNetwork
	active = r
	return nil
}

// Disable restores the saved transport. It is idempotent and safe to call
// on a registry that was never enabled.
func (r *Registry) Disable() {
	activeMu.Lock()
	defer activeMu.Unlock()

	if active != r {
		return
	}
	http.DefaultTransport = r.real
	r.enabled = false
	active = nil
}

// Reset drops every registered matcher and pattern handler.
func (r *Registry) Reset() {
	r.catalog.Reset()
	r.patterns = nil
}

// Passthrough returns the transport that reaches the real network.
func (r *Registry) Passthrough() http.RoundTripper {
	if r.real != nil {
		return r.real
	}
	return http.DefaultTransport
}

// RegisterExact adds a canned-response matcher for replay.
func (r *Registry) RegisterExact(m *matcher.Matcher, responses []*models.ResponseRecord) {
	r.catalog.Register(m, responses)
}

// RegisterPattern adds a handler for every request whose method and URI
// match. Pattern handlers are consulted only after the exact catalog.
func (r *Registry) RegisterPattern(method models.Method, pattern *regexp.Regexp, handler Handler) {
	r.patterns = append(r.patterns, patternEntry{method: method, pattern: pattern, handler: handler})
}

// RoundTrip implements http.RoundTripper: exact matchers first, then
// pattern handlers, then the real network when allowed. With the network
// disallowed an unmatched request fails with ErrNoMatchingRecording.
func (r *Registry) RoundTrip(req *http.Request) (*http.Response, error) {
	if !r.enabled {
		return r.Passthrough().RoundTrip(req)
	}

	method := models.Method(req.Method)
	uri := req.URL.String()

	if rec, ok := r.catalog.Find(method, uri); ok {
		r.logger.Debug("serving recorded response",
			zap.String("method", req.Method), zap.String("uri", uri))
		return cannedResponse(req, rec), nil
	}

	for _, p := range r.patterns {
		if p.method == method && p.pattern.MatchString(uri) {
			return p.handler(req)
		}
	}

	if r.allowNetwork {
		return r.Passthrough().RoundTrip(req)
	}

	return nil, fmt.Errorf("%s %s: %w", req.Method, uri, models.ErrNoMatchingRecording)
}

// cannedResponse rebuilds an http.Response from a recorded transaction.
// Recorded headers are forced verbatim; the body is re-encoded from its
// decoded form.
func cannedResponse(req *http.Request, rec *models.ResponseRecord) *http.Response {
	body := models.EncodeBody(rec.Body)
	header := make(http.Header, len(rec.Headers))
	for k, v := range rec.Headers {
		header.Set(k, v)
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", rec.Status, http.StatusText(rec.Status)),
		StatusCode:    rec.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}
