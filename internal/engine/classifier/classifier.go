package classifier

import "github.com/crimson-sun/edurisk/internal/model"

// Default upper bounds (inclusive) of the low and medium bands.
const (
	DefaultLowMax    = 0.3
	DefaultMediumMax = 0.6
)

// Classifier maps a scalar risk score onto a severity level.
type Classifier struct {
	LowMax    float64
	MediumMax float64
}

// New creates a Classifier with the default bands.
func New() *Classifier {
	return &Classifier{LowMax: DefaultLowMax, MediumMax: DefaultMediumMax}
}

// Classify returns low for score <= LowMax, medium for score <= MediumMax,
// and high otherwise. Scores are expected to be rounded to two decimals.
func (c *Classifier) Classify(score float64) model.RiskLevel {
	switch {
	case score <= c.LowMax:
		return model.RiskLow
	case score <= c.MediumMax:
		return model.RiskMedium
	default:
		return model.RiskHigh
	}
}
