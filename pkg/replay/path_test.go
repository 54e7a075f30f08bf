package replay

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go.netreplay.io/netreplay/pkg/models"
)

func namedFixture(context.Context) error { return nil }

func TestRecordingPath_NamedFunction(t *testing.T) {
	path := RecordingPath(namedFixture, "recordings")
	assert.Equal(t, filepath.Join("recordings", "namedFixture"), path)
}

// Closures carry synthetic funcN qualifiers, which are stripped so the
// recording is named after the enclosing function.
func TestRecordingPath_Closure(t *testing.T) {
	fn := func(context.Context) error { return nil }
	path := RecordingPath(fn, "recordings")
	assert.Equal(t, filepath.Join("recordings", "TestRecordingPath_Closure"), path)
}

func TestRun_RecordsAndReplays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	t.Cleanup(srv.Close)

	opts := Options{Path: filepath.Join(t.TempDir(), "run"), Mode: models.ModeOnce}
	var first, second string

	err := Run(context.Background(), zap.NewNop(), opts, func(context.Context) error {
		resp, err := http.Get(srv.URL)
		if err != nil {
			return err
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		first = string(body)
		return nil
	})
	require.NoError(t, err)

	srv.Close() // replay must work offline
	err = Run(context.Background(), zap.NewNop(), opts, func(context.Context) error {
		resp, err := http.Get(srv.URL)
		if err != nil {
			return err
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		second = string(body)
		return nil
	})
	require.NoError(t, err)
	assert.JSONEq(t, first, second)
}

func TestRun_PropagatesError(t *testing.T) {
	opts := Options{Path: filepath.Join(t.TempDir(), "fail"), Mode: models.ModeOnce}
	boom := errors.New("boom")

	err := Run(context.Background(), zap.NewNop(), opts, func(context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// The failed session must not persist.
	_, statErr := os.Stat(opts.Path + ".json")
	assert.True(t, os.IsNotExist(statErr))
}

// TestRun_ReleasesOnPanic: interception is released on every exit path.
func TestRun_ReleasesOnPanic(t *testing.T) {
	orig := http.DefaultTransport
	opts := Options{Path: filepath.Join(t.TempDir(), "panic"), Mode: models.ModeOnce}

	assert.Panics(t, func() {
		_ = Run(context.Background(), zap.NewNop(), opts, func(context.Context) error {
			panic("unexpected")
		})
	})
	assert.Same(t, orig, http.DefaultTransport)
}
