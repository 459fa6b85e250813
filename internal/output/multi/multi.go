package multi

import (
	"context"
	"errors"

	"github.com/crimson-sun/edurisk/internal/model"
	"github.com/crimson-sun/edurisk/internal/output"
)

// Multi fans results out to several outputs in order. A failing output
// does not stop delivery to the ones after it.
type Multi struct {
	outputs []output.Output
}

// New creates a Multi over outputs.
func New(outputs ...output.Output) *Multi {
	return &Multi{outputs: outputs}
}

// Write delivers s to every output and joins their errors.
func (m *Multi) Write(ctx context.Context, s model.ScoredStudent) error {
	return m.each(func(o output.Output) error { return o.Write(ctx, s) })
}

// Close closes every output and joins their errors.
func (m *Multi) Close() error {
	return m.each(output.Output.Close)
}

func (m *Multi) each(fn func(output.Output) error) error {
	var errs []error
	for _, o := range m.outputs {
		if err := fn(o); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
