package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/crimson-sun/edurisk/internal/model"
)

// Verbosity controls which fields of a result are emitted.
type Verbosity int

const (
	Minimal Verbosity = iota
	Standard
	Full
)

func (v Verbosity) String() string {
	switch v {
	case Minimal:
		return "minimal"
	case Full:
		return "full"
	default:
		return "standard"
	}
}

// ParseVerbosity maps "minimal", "standard" or "full" to a Verbosity.
func ParseVerbosity(s string) (Verbosity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minimal":
		return Minimal, nil
	case "", "standard":
		return Standard, nil
	case "full":
		return Full, nil
	default:
		return Standard, fmt.Errorf("unknown verbosity %q", s)
	}
}

// Result is the wire form of a scored student.
type Result struct {
	StudentID       string             `json:"studentId,omitempty"`
	RiskScore       float64            `json:"riskScore"`
	RiskLevel       model.RiskLevel    `json:"riskLevel"`
	Factors         *model.RiskFactors `json:"factors,omitempty"`
	Recommendations []string           `json:"recommendations,omitempty"`
	Augmented       bool               `json:"augmented,omitempty"`
	AssessedAt      time.Time          `json:"assessedAt"`
	Error           string             `json:"error,omitempty"`
}

// Format flattens s into a Result with fields stripped according to
// verbosity. At Minimal, Factors and Recommendations are omitted.
func Format(s model.ScoredStudent, verbosity Verbosity) Result {
	a := s.Assessment
	r := Result{
		StudentID:  s.StudentID,
		RiskScore:  a.RiskScore,
		RiskLevel:  a.RiskLevel,
		Augmented:  a.Augmented,
		AssessedAt: a.AssessedAt,
		Error:      s.Error,
	}
	if verbosity != Minimal {
		factors := a.Factors
		r.Factors = &factors
		r.Recommendations = a.Recommendations
	}
	return r
}
