package codec

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go.netreplay.io/netreplay/pkg/models"
)

func sampleTxns() []*models.Transaction {
	return []*models.Transaction{
		{
			Request: models.RequestRecord{
				URI:         "https://api.example.com/users",
				Method:      models.MethodGet,
				Headers:     map[string]string{"Accept": "application/json"},
				Body:        "",
				Querystring: map[string][]string{"page": {"1"}},
			},
			Response: models.ResponseRecord{
				Status:  200,
				Body:    map[string]any{"page": float64(1)},
				Headers: map[string]string{"Content-Type": "application/json"},
			},
		},
	}
}

func TestJSON_SuffixForced(t *testing.T) {
	c := NewJSON(zap.NewNop(), "/tmp/rec/TestFoo")
	assert.Equal(t, "/tmp/rec/TestFoo.json", c.Path())

	c = NewJSON(zap.NewNop(), "/tmp/rec/TestFoo.yaml")
	assert.Equal(t, "/tmp/rec/TestFoo.json", c.Path())
}

func TestYAML_SuffixForced(t *testing.T) {
	c := NewYAML(zap.NewNop(), "/tmp/rec/TestFoo.json")
	assert.Equal(t, "/tmp/rec/TestFoo.yaml", c.Path())
}

func TestJSON_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewJSON(zap.NewNop(), filepath.Join(t.TempDir(), "nested", "rec"))

	assert.False(t, c.Exists())
	require.NoError(t, c.Write(ctx, sampleTxns()))
	assert.True(t, c.Exists())

	loaded, err := c.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleTxns(), loaded)
}

func TestJSON_PrettyPrinted(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "rec")
	c := NewJSON(zap.NewNop(), path)
	require.NoError(t, c.Write(ctx, sampleTxns()))

	data, err := os.ReadFile(c.Path())
	require.NoError(t, err)
	// Two-space indent for reviewable diffs.
	assert.True(t, strings.Contains(string(data), "\n  {"))
}

func TestJSON_EmptyListWritesArray(t *testing.T) {
	ctx := context.Background()
	c := NewJSON(zap.NewNop(), filepath.Join(t.TempDir(), "rec"))
	require.NoError(t, c.Write(ctx, nil))

	data, err := os.ReadFile(c.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	loaded, err := c.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestJSON_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	c := NewJSON(zap.NewNop(), filepath.Join(dir, "rec"))
	require.NoError(t, os.WriteFile(c.Path(), []byte("{not json"), 0o644))

	_, err := c.Read(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), c.Path())
}

func TestYAML_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewYAML(zap.NewNop(), filepath.Join(t.TempDir(), "rec"))

	require.NoError(t, c.Write(ctx, sampleTxns()))
	loaded, err := c.Read(ctx)
	require.NoError(t, err)

	require.Len(t, loaded, 1)
	assert.Equal(t, sampleTxns()[0].Request.URI, loaded[0].Request.URI)
	assert.Equal(t, 200, loaded[0].Response.Status)
}
