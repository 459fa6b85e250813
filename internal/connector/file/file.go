// Package file streams an uploaded file from local disk.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/crimson-sun/edurisk/internal/connector"
	"github.com/crimson-sun/edurisk/internal/model"
)

func init() {
	connector.Register("file", func() connector.Connector {
		return &Connector{}
	})
}

// Connector reads Config.Path.
type Connector struct{}

func (c *Connector) Stream(ctx context.Context, cfg connector.Config) (<-chan model.Chunk, error) {
	if cfg.Path == "" {
		return nil, errors.New("file connector: path is required")
	}
	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("file connector: %w", err)
	}
	return connector.Pump(ctx, f, cfg.Size(), f.Close), nil
}
