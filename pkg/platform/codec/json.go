package codec

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"go.netreplay.io/netreplay/pkg/models"
)

// JSON persists recordings as a pretty-printed top-level array, two-space
// indented for reviewable diffs in version control.
type JSON struct {
	logger *zap.Logger
	path   string
}

// NewJSON builds the default codec for the given path, forcing a .json
// suffix.
func NewJSON(logger *zap.Logger, path string) *JSON {
	return &JSON{logger: logger, path: withSuffix(path, ".json")}
}

func (c *JSON) Path() string {
	return c.path
}

func (c *JSON) Exists() bool {
	_, err := os.Stat(c.path)
	return err == nil
}

func (c *JSON) Read(ctx context.Context) ([]*models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read the recording at %s: %w", c.path, err)
	}
	var txns []*models.Transaction
	if err := json.Unmarshal(data, &txns); err != nil {
		return nil, fmt.Errorf("failed to decode the recording at %s: %w", c.path, err)
	}
	return txns, nil
}

func (c *JSON) Write(ctx context.Context, txns []*models.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if txns == nil {
		txns = []*models.Transaction{}
	}
	data, err := json.MarshalIndent(txns, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode the recording: %w", err)
	}
	data = append(data, '\n')
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create the recording directory: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write the recording at %s: %w", c.path, err)
	}
	c.logger.Debug("wrote recording", zap.String("path", c.path), zap.Int("transactions", len(txns)))
	return nil
}
