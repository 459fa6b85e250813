// Package recommend maps risk factors to actionable recommendations.
package recommend

import (
	"fmt"
	"slices"

	"github.com/crimson-sun/edurisk/internal/model"
)

// Threshold is the factor value above which its recommendations apply.
const Threshold = 0.5

// Factor names one of the four risk sub-factors.
type Factor string

const (
	FactorAttendance Factor = "attendance"
	FactorAcademic   Factor = "academic"
	FactorFinancial  Factor = "financial"
	FactorEngagement Factor = "engagement"
)

// order is the fixed reporting order of factors.
var order = []Factor{FactorAttendance, FactorAcademic, FactorFinancial, FactorEngagement}

// Value returns the sub-score of f.
func (f Factor) Value(rf model.RiskFactors) float64 {
	switch f {
	case FactorAttendance:
		return rf.Attendance
	case FactorAcademic:
		return rf.Academic
	case FactorFinancial:
		return rf.Financial
	case FactorEngagement:
		return rf.Engagement
	default:
		return 0
	}
}

// Entry is a catalog node: a factor and the recommendations it triggers.
type Entry struct {
	Factor          Factor
	Desc            string
	Recommendations []string
}

// Generator produces recommendation lists from a catalog.
type Generator struct {
	byFactor map[Factor][]string
	fallback []string
}

// New creates a Generator. Every factor must have an entry.
func New(entries []Entry, fallback []string) (*Generator, error) {
	g := &Generator{
		byFactor: make(map[Factor][]string, len(entries)),
		fallback: slices.Clone(fallback),
	}
	for _, e := range entries {
		g.byFactor[e.Factor] = slices.Clone(e.Recommendations)
	}
	for _, f := range order {
		if _, ok := g.byFactor[f]; !ok {
			return nil, fmt.Errorf("recommend: no catalog entry for factor %q", f)
		}
	}
	return g, nil
}

// Default returns a Generator over the built-in catalog.
func Default() *Generator {
	g, err := New(DefaultCatalog(), DefaultFallback())
	if err != nil {
		panic(err)
	}
	return g
}

// Generate lists the recommendations of every factor above Threshold, in
// factor order, or the fallback list when none is.
func (g *Generator) Generate(rf model.RiskFactors) []string {
	var out []string
	for _, f := range order {
		if f.Value(rf) > Threshold {
			out = append(out, g.byFactor[f]...)
		}
	}
	if len(out) == 0 {
		return slices.Clone(g.fallback)
	}
	return out
}
