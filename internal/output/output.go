package output

import (
	"context"

	"github.com/crimson-sun/edurisk/internal/model"
)

// Output defines the interface for scored-student destinations.
type Output interface {
	Write(ctx context.Context, s model.ScoredStudent) error
	Close() error
}
