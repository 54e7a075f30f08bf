// Package codec persists ordered transaction lists to durable recording
// files. The file format is pluggable; JSON is the default, YAML the
// alternate. Codecs force their suffix onto the configured path so a
// recording's format is always visible in its name.
package codec

import (
	"context"
	"path/filepath"
	"strings"

	"go.netreplay.io/netreplay/pkg/models"
)

// Codec converts the in-memory transaction list to and from a recording
// file. Implementations are stateless aside from the target path.
type Codec interface {
	// Path returns the resolved recording file location, suffix included.
	Path() string
	// Exists reports whether a recording is present at Path.
	Exists() bool
	// Read loads the recorded transactions. A malformed file is a hard
	// error; no partial recovery is attempted.
	Read(ctx context.Context) ([]*models.Transaction, error)
	// Write persists the transactions as a full overwrite, creating parent
	// directories as needed.
	Write(ctx context.Context, txns []*models.Transaction) error
}

// withSuffix swaps any existing extension on path for the codec's own.
func withSuffix(path, suffix string) string {
	if ext := filepath.Ext(path); ext != "" {
		path = strings.TrimSuffix(path, ext)
	}
	return path + suffix
}
