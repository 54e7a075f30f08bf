package codec

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	yamlLib "gopkg.in/yaml.v3"

	"go.netreplay.io/netreplay/pkg/models"
)

// YAML is the alternate codec: the same logical structure as JSON, encoded
// with yaml.v3 under a .yaml suffix.
type YAML struct {
	logger *zap.Logger
	path   string
}

// NewYAML builds the YAML codec for the given path, forcing a .yaml suffix.
func NewYAML(logger *zap.Logger, path string) *YAML {
	return &YAML{logger: logger, path: withSuffix(path, ".yaml")}
}

func (c *YAML) Path() string {
	return c.path
}

func (c *YAML) Exists() bool {
	_, err := os.Stat(c.path)
	return err == nil
}

func (c *YAML) Read(ctx context.Context) ([]*models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read the recording at %s: %w", c.path, err)
	}
	var txns []*models.Transaction
	if err := yamlLib.Unmarshal(data, &txns); err != nil {
		return nil, fmt.Errorf("failed to decode the recording at %s: %w", c.path, err)
	}
	return txns, nil
}

func (c *YAML) Write(ctx context.Context, txns []*models.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if txns == nil {
		txns = []*models.Transaction{}
	}
	var buf bytes.Buffer
	enc := yamlLib.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(txns); err != nil {
		return fmt.Errorf("failed to encode the recording: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize the recording encoding: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create the recording directory: %w", err)
	}
	if err := os.WriteFile(c.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write the recording at %s: %w", c.path, err)
	}
	c.logger.Debug("wrote recording", zap.String("path", c.path), zap.Int("transactions", len(txns)))
	return nil
}
