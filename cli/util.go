package cli

import (
	"path/filepath"

	"go.uber.org/zap"

	"go.netreplay.io/netreplay/pkg/filter"
	"go.netreplay.io/netreplay/pkg/platform/codec"
)

// codecFor picks the codec for a recording path: the file extension wins,
// falling back to the configured serializer.
func codecFor(logger *zap.Logger, serializer, path string) codec.Codec {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return codec.NewYAML(logger, path)
	case ".json":
		return codec.NewJSON(logger, path)
	}
	if serializer == "yaml" {
		return codec.NewYAML(logger, path)
	}
	return codec.NewJSON(logger, path)
}

// specFromMap converts CLI filter values into a filter spec. An empty
// replacement deletes the field.
func specFromMap(m map[string]string) filter.Spec {
	spec := make(filter.Spec, len(m))
	for k, v := range m {
		if v == "" {
			spec[k] = filter.Delete()
		} else {
			spec[k] = filter.Literal(v)
		}
	}
	return spec
}

// truncate shortens a cell value for table display.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
