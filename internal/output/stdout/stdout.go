package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/crimson-sun/edurisk/internal/model"
	"github.com/crimson-sun/edurisk/internal/output"
)

// Output writes JSON-encoded results to stdout, one per line unless pretty.
type Output struct {
	mu        sync.Mutex
	enc       *json.Encoder
	verbosity output.Verbosity
}

// New creates a stdout Output with verbosity-aware field omission and
// optional pretty-printed JSON.
func New(verbosity output.Verbosity, pretty bool) *Output {
	return NewWriter(os.Stdout, verbosity, pretty)
}

// NewWriter is New over an arbitrary writer.
func NewWriter(w io.Writer, verbosity output.Verbosity, pretty bool) *Output {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return &Output{enc: enc, verbosity: verbosity}
}

func (o *Output) Write(_ context.Context, s model.ScoredStudent) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.enc.Encode(output.Format(s, o.verbosity)); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
