package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"go.netreplay.io/netreplay/pkg/filter"
	"go.netreplay.io/netreplay/pkg/platform/codec"
)

func TestCodecFor_Extension(t *testing.T) {
	logger := zap.NewNop()

	c := codecFor(logger, "json", "rec.yaml")
	assert.IsType(t, &codec.YAML{}, c)

	c = codecFor(logger, "yaml", "rec.json")
	assert.IsType(t, &codec.JSON{}, c)

	// No extension: the configured serializer decides.
	c = codecFor(logger, "yaml", "rec")
	assert.IsType(t, &codec.YAML{}, c)
	c = codecFor(logger, "json", "rec")
	assert.IsType(t, &codec.JSON{}, c)
}

func TestSpecFromMap(t *testing.T) {
	spec := specFromMap(map[string]string{"Authorization": "", "X-Api-Key": "REDACTED"})

	filtered := filter.Headers(map[string]string{
		"Authorization": "Bearer s",
		"X-Api-Key":     "k",
	}, spec)

	assert.NotContains(t, filtered, "Authorization")
	assert.Equal(t, "REDACTED", filtered["X-Api-Key"])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "this is...", truncate("this is a long value", 10))
}
