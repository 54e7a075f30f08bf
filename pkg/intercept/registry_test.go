package intercept

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go.netreplay.io/netreplay/pkg/matcher"
	"go.netreplay.io/netreplay/pkg/models"
)

func TestRegistry_EnableDisable(t *testing.T) {
	orig := http.DefaultTransport
	r := NewRegistry(zap.NewNop())

	require.NoError(t, r.Enable(false))
	assert.Same(t, r, http.DefaultTransport)

	r.Disable()
	assert.Same(t, orig, http.DefaultTransport)

	// Disable is idempotent.
	r.Disable()
	assert.Same(t, orig, http.DefaultTransport)
}

func TestRegistry_SingleLiveConstraint(t *testing.T) {
	a := NewRegistry(zap.NewNop())
	b := NewRegistry(zap.NewNop())

	require.NoError(t, a.Enable(false))
	defer a.Disable()

	err := b.Enable(false)
	assert.ErrorIs(t, err, ErrAlreadyEnabled)

	// Re-enabling the live registry only updates the network flag.
	assert.NoError(t, a.Enable(true))
}

func TestRegistry_ServesCannedResponse(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	require.NoError(t, r.Enable(false))
	defer r.Disable()

	r.RegisterExact(
		matcher.New(models.MethodGet, "https://example.com/users", false, nil, nil),
		[]*models.ResponseRecord{{
			Status:  200,
			Body:    map[string]any{"ok": true},
			Headers: map[string]string{"Content-Type": "application/json"},
		}},
	)

	resp, err := http.Get("https://example.com/users")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestRegistry_NoMatchNetworkDisabled(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	require.NoError(t, r.Enable(false))
	defer r.Disable()

	_, err := http.Get("https://example.com/missing")
	assert.ErrorIs(t, err, models.ErrNoMatchingRecording)
}

func TestRegistry_PatternHandler(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	require.NoError(t, r.Enable(false))
	defer r.Disable()

	handled := errors.New("handled")
	r.RegisterPattern(models.MethodGet, AnyURI, func(req *http.Request) (*http.Response, error) {
		return nil, handled
	})

	_, err := http.Get("https://example.com/anything")
	assert.ErrorIs(t, err, handled)
}

// TestRegistry_ExactBeforePattern pins the dispatch order: the exact
// catalog is consulted before any pattern handler.
func TestRegistry_ExactBeforePattern(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	require.NoError(t, r.Enable(false))
	defer r.Disable()

	r.RegisterPattern(models.MethodGet, AnyURI, func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("pattern handler must not run")
	})
	r.RegisterExact(
		matcher.New(models.MethodGet, "https://example.com/users", false, nil, nil),
		[]*models.ResponseRecord{{Status: 204}},
	)

	resp, err := http.Get("https://example.com/users")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 204, resp.StatusCode)
}

func TestRegistry_PassthroughWhenAllowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("live"))
	}))
	defer srv.Close()

	r := NewRegistry(zap.NewNop())
	require.NoError(t, r.Enable(true))
	defer r.Disable()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "live", string(body))
}
