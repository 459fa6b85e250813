// Package stdin streams an upload piped into the process.
package stdin

import (
	"context"
	"io"
	"os"

	"github.com/crimson-sun/edurisk/internal/connector"
	"github.com/crimson-sun/edurisk/internal/model"
)

func init() {
	connector.Register("stdin", func() connector.Connector {
		return &Connector{Reader: os.Stdin}
	})
}

// Connector reads Reader, os.Stdin when registered.
type Connector struct {
	Reader io.Reader
}

func (c *Connector) Stream(ctx context.Context, cfg connector.Config) (<-chan model.Chunk, error) {
	return connector.Pump(ctx, c.Reader, cfg.Size(), nil), nil
}
