// Package replay implements the record/replay manager. A Manager owns one
// session: on entry it decides between replaying an existing recording and
// recording through the real network, registers the corresponding matchers
// with the interception registry, and on exit releases interception and
// conditionally persists the captured transactions.
//
// Interception state is process-wide, so only one Manager may be live at a
// time; starting a second one fails while the first holds the registry.
package replay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go.netreplay.io/netreplay/pkg/filter"
	"go.netreplay.io/netreplay/pkg/intercept"
	"go.netreplay.io/netreplay/pkg/matcher"
	"go.netreplay.io/netreplay/pkg/models"
	"go.netreplay.io/netreplay/pkg/platform/codec"
	"go.netreplay.io/netreplay/utils"
)

// Options configures a Manager.
type Options struct {
	// Path is the recording file location. The codec applies its own
	// suffix. Ignored when Codec is set explicitly.
	Path string
	// RecordOnError persists captured transactions even when the session
	// ends with an error.
	RecordOnError bool
	// FilterHeaders, FilterQuerystring and FilterURI redact fields before
	// persistence and during matching.
	FilterHeaders     filter.Spec
	FilterQuerystring filter.Spec
	FilterURI         filter.Spec
	// Codec overrides the default JSON codec at Path.
	Codec codec.Codec
	// Mode is the record mode; defaults to once.
	Mode models.RecordMode
	// Registry overrides the default interception registry.
	Registry *intercept.Registry
}

// Manager orchestrates one record/replay session.
type Manager struct {
	logger   *zap.Logger
	codec    codec.Codec
	registry *intercept.Registry
	mode     models.RecordMode

	recordOnError bool
	filterHeaders filter.Spec
	filterQuery   filter.Spec
	filterURI     filter.Spec

	session string
	txns    []*models.Transaction

	// replaying is set when a recording existed at entry and the mode
	// permitted replay. Such sessions are read-only except under append.
	replaying bool
	started   bool
}

// NewManager validates the options and builds a manager. The session is not
// active until Start.
func NewManager(logger *zap.Logger, opts Options) (*Manager, error) {
	mode := opts.Mode
	if mode == "" {
		mode = models.ModeOnce
	}
	if err := mode.Validate(); err != nil {
		return nil, err
	}

	c := opts.Codec
	if c == nil {
		if opts.Path == "" {
			return nil, fmt.Errorf("either a recording path or a codec is required")
		}
		c = codec.NewJSON(logger, opts.Path)
	}

	registry := opts.Registry
	if registry == nil {
		registry = intercept.NewRegistry(logger)
	}

	return &Manager{
		logger:        logger,
		codec:         c,
		registry:      registry,
		mode:          mode,
		recordOnError: opts.RecordOnError,
		filterHeaders: opts.FilterHeaders,
		filterQuery:   opts.FilterQuerystring,
		filterURI:     opts.FilterURI,
		session:       uuid.New().String(),
	}, nil
}

// Path returns the resolved recording file location.
func (m *Manager) Path() string {
	return m.codec.Path()
}

// Transactions returns the transactions captured or loaded so far.
func (m *Manager) Transactions() []*models.Transaction {
	return m.txns
}

// Start activates interception for the session. With an existing recording
// and a replay-capable mode it loads the transactions and registers each as
// a canned matcher; otherwise it registers the universal record handler for
// every supported method. Under append both happen at once, so unmatched
// calls fall through to the network and are appended.
func (m *Manager) Start(ctx context.Context) error {
	if m.started {
		return fmt.Errorf("replay manager already started")
	}

	if m.codec.Exists() && m.mode.CanReplay() {
		txns, err := m.codec.Read(ctx)
		if err != nil {
			return err
		}
		m.txns = txns
		m.replaying = true

		// Only append keeps the network reachable during replay; for once
		// and replay-only an unmatched request must fail fast.
		allowNetwork := m.mode == models.ModeAppend
		if err := m.registry.Enable(allowNetwork); err != nil {
			return err
		}
		m.registerRecorded()
		if m.mode == models.ModeAppend {
			m.registerRecordHandler()
		}
		m.started = true
		m.logger.Debug("replaying recorded interactions",
			zap.String("session", m.session),
			zap.String("path", m.codec.Path()),
			zap.Int("transactions", len(m.txns)))
		return nil
	}

	if err := m.registry.Enable(true); err != nil {
		return err
	}
	m.registerRecordHandler()
	m.started = true
	m.logger.Debug("recording network interactions",
		zap.String("session", m.session),
		zap.String("mode", m.mode.String()))
	return nil
}

// Stop releases interception unconditionally and idempotently, then
// persists the transaction list when the session and mode allow it. runErr
// is the error the session body ended with, nil for a clean exit.
func (m *Manager) Stop(ctx context.Context, runErr error) error {
	m.registry.Disable()
	m.registry.Reset()

	if runErr != nil && !m.recordOnError {
		m.logger.Debug("not recording due to error",
			zap.String("session", m.session), zap.Error(runErr))
		return nil
	}
	if m.replaying && m.mode != models.ModeAppend {
		m.logger.Debug("replay session is read-only", zap.String("session", m.session))
		return nil
	}
	if !m.mode.CanRecord() {
		m.logger.Debug("recording is disabled",
			zap.String("session", m.session), zap.String("mode", m.mode.String()))
		return nil
	}

	if err := m.codec.Write(ctx, m.txns); err != nil {
		utils.LogError(m.logger, err, "failed to persist the recording",
			zap.String("session", m.session))
		return err
	}
	return nil
}

// registerRecorded turns every loaded transaction into an exact matcher
// with querystring matching on. Duplicate URIs merge newest-first in the
// catalog, so the most recently recorded response is served first.
func (m *Manager) registerRecorded() {
	for _, txn := range m.txns {
		uri := matcher.AddQuerystring(txn.Request.URI, txn.Request.Querystring)
		resp := txn.Response
		m.registry.RegisterExact(
			matcher.New(txn.Request.Method, uri, true, m.filterURI, m.filterQuery),
			[]*models.ResponseRecord{&resp},
		)
	}
}

// registerRecordHandler registers the universal passthrough handler for
// every supported method.
func (m *Manager) registerRecordHandler() {
	for _, method := range models.Methods() {
		m.registry.RegisterPattern(method, intercept.AnyURI, m.record)
	}
}

// record is the passthrough handler: it re-issues the intercepted call
// against the real network, appends the filtered transaction, and hands the
// unmodified response back to the caller.
func (m *Manager) record(req *http.Request) (*http.Response, error) {
	if !m.mode.CanRecord() {
		return nil, fmt.Errorf("%w with record mode %q", models.ErrRecordingDisabled, m.mode)
	}

	var reqBody []byte
	if req.Body != nil {
		var err error
		reqBody, err = io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read the request body: %w", err)
		}
	}

	// Interception is released while the real call is in flight so the
	// outbound request is not intercepted recursively.
	m.registry.Disable()
	defer func() {
		if err := m.registry.Enable(true); err != nil {
			utils.LogError(m.logger, err, "failed to re-enable interception after recording",
				zap.String("session", m.session))
		}
	}()

	ctx := req.Context()
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, intercept.DefaultTimeout)
		defer cancel()
	}

	outReq := req.Clone(ctx)
	outReq.Body = io.NopCloser(bytes.NewReader(reqBody))
	outReq.ContentLength = int64(len(reqBody))

	client := &http.Client{Transport: m.registry.Passthrough()}
	resp, err := client.Do(outReq)
	if err != nil {
		return nil, err
	}
	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read the response body: %w", err)
	}

	m.txns = append(m.txns, m.buildTransaction(req, reqBody, resp, respBody))
	m.logger.Debug("recorded transaction",
		zap.String("session", m.session),
		zap.String("method", req.Method),
		zap.String("uri", req.URL.String()),
		zap.Int("status", resp.StatusCode))

	resp.Body = io.NopCloser(bytes.NewReader(respBody))
	return resp, nil
}

// buildTransaction assembles the filtered request/response records. The
// response Content-Length is recomputed from the filtered decoded body so a
// later replay passes transport-level length validation; the recomputation
// is skipped for binary placeholder bodies.
func (m *Manager) buildTransaction(req *http.Request, reqBody []byte, resp *http.Response, respBody []byte) *models.Transaction {
	decodedRespBody := models.DecodeBody(respBody)

	respHeaders := filter.Headers(headerMap(resp.Header), m.filterHeaders)
	if _, ok := respHeaders["Content-Length"]; ok {
		if length, ok := models.BodyLength(decodedRespBody); ok {
			respHeaders["Content-Length"] = length
		}
	}

	return &models.Transaction{
		Request: models.RequestRecord{
			URI:         filter.URI(req.URL.String(), m.filterURI),
			Method:      models.Method(req.Method),
			Headers:     filter.Headers(headerMap(req.Header), m.filterHeaders),
			Body:        models.DecodeBody(reqBody),
			Querystring: filter.Querystring(req.URL.Query(), m.filterQuery),
		},
		Response: models.ResponseRecord{
			Status:  resp.StatusCode,
			Body:    decodedRespBody,
			Headers: respHeaders,
		},
	}
}

// headerMap flattens an http.Header into the persisted single-valued form.
func headerMap(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vs := range h {
		out[k] = strings.Join(vs, ", ")
	}
	return out
}
