package connector

import (
	"context"
	"errors"
	"io"

	"github.com/crimson-sun/edurisk/internal/model"
)

// DefaultChunkSize is used when Config.ChunkSize is not positive.
const DefaultChunkSize = 32 << 10

// Connector defines the interface all upload sources must implement.
type Connector interface {
	// Stream sends the source's bytes in chunks until end-of-stream. A read
	// failure arrives as a Chunk with Err set. The channel is closed when
	// the producer stops.
	Stream(ctx context.Context, cfg Config) (<-chan model.Chunk, error)
}

// Config holds provider-specific source settings.
type Config struct {
	Provider  string
	Path      string
	ChunkSize int
	Extra     map[string]string
}

// Size returns the effective chunk size.
func (c Config) Size() int {
	if c.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return c.ChunkSize
}

// Pump reads r in chunks of size bytes and sends them on the returned
// channel. closeFn, if non-nil, runs when the producer stops.
func Pump(ctx context.Context, r io.Reader, size int, closeFn func() error) <-chan model.Chunk {
	ch := make(chan model.Chunk)
	go func() {
		defer close(ch)
		if closeFn != nil {
			defer closeFn()
		}
		send := func(c model.Chunk) bool {
			select {
			case ch <- c:
				return true
			case <-ctx.Done():
				return false
			}
		}
		for ctx.Err() == nil {
			buf := make([]byte, size)
			n, err := r.Read(buf)
			if n > 0 && !send(model.Chunk{Data: buf[:n]}) {
				return
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				send(model.Chunk{Err: err})
				return
			}
		}
	}()
	return ch
}
