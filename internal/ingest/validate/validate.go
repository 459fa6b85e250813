// Package validate turns normalized rows into typed records, one rule set per
// record kind.
package validate

import (
	"fmt"
	"time"

	"github.com/crimson-sun/edurisk/internal/ingest/normalize"
	"github.com/crimson-sun/edurisk/internal/model"
)

// Reason explains why a row was rejected.
type Reason string

const (
	ReasonMissingStudentID  Reason = "missing student id"
	ReasonMissingField      Reason = "missing required field"
	ReasonNonPositiveTotal  Reason = "total classes must be positive"
	ReasonNonPositiveMax    Reason = "max score must be positive"
	ReasonNonPositiveAmount Reason = "amount must be positive"
	ReasonInvalidDueDate    Reason = "invalid due date"
	ReasonUnknownKind       Reason = "unknown record kind"
)

// Rejection describes a dropped row.
type Rejection struct {
	Reason Reason
	Field  normalize.Field // set for ReasonMissingField
}

func (r Rejection) String() string {
	if r.Reason == ReasonMissingField {
		return fmt.Sprintf("%s %s", r.Reason, r.Field)
	}
	return string(r.Reason)
}

// Validator applies the per-kind rules. Now supplies the defaults for
// absent dates, months and years.
type Validator struct {
	Now func() time.Time
}

// New returns a Validator using the wall clock.
func New() *Validator {
	return &Validator{Now: time.Now}
}

// Validate returns a fully valid record, or ok=false with the reason the row
// was dropped. It never panics on malformed input.
func (v *Validator) Validate(kind model.Kind, row normalize.Row) (rec model.Record, rej Rejection, ok bool) {
	now := v.Now().UTC().Truncate(time.Second)
	switch kind {
	case model.KindStudent:
		return student(row)
	case model.KindAttendance:
		return attendance(row, now)
	case model.KindAssessment:
		return assessment(row, now)
	case model.KindFee:
		return fee(row, now)
	default:
		return nil, Rejection{Reason: ReasonUnknownKind}, false
	}
}

// requireFields collects the given fields or reports the first one missing.
// A missing student id has its own reason.
func requireFields(row normalize.Row, fields ...normalize.Field) (map[normalize.Field]string, Rejection, bool) {
	vals := make(map[normalize.Field]string, len(fields))
	for _, f := range fields {
		val, ok := row.Get(f)
		if !ok {
			if f == normalize.FieldStudentID {
				return nil, Rejection{Reason: ReasonMissingStudentID}, false
			}
			return nil, Rejection{Reason: ReasonMissingField, Field: f}, false
		}
		vals[f] = val
	}
	return vals, Rejection{}, true
}
