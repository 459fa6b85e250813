// Package aggregate folds validated records into per-student feature
// vectors for the scoring engine.
package aggregate

import (
	"maps"
	"slices"
	"time"

	"github.com/crimson-sun/edurisk/internal/model"
)

const day = 24 * time.Hour

// Group buckets records by the student they belong to.
func Group(records []model.Record) map[string][]model.Record {
	out := make(map[string][]model.Record)
	for _, r := range records {
		id := r.StudentKey()
		out[id] = append(out[id], r)
	}
	return out
}

// BuildAll builds a request for every student present in records, sorted
// by student id.
func BuildAll(records []model.Record, now time.Time) []model.ScoreRequest {
	groups := Group(records)
	ids := slices.Sorted(maps.Keys(groups))

	out := make([]model.ScoreRequest, 0, len(ids))
	for _, id := range ids {
		fv, ok := Build(id, groups[id], now)
		if !ok {
			continue
		}
		out = append(out, model.ScoreRequest{StudentID: id, Features: fv})
	}
	return out
}

// Build derives the feature vector of studentID from records. Records of
// other students are ignored. It reports false when the student has none.
func Build(studentID string, records []model.Record, now time.Time) (model.StudentFeatureVector, bool) {
	var (
		found     bool
		total     int
		attended  int
		grades    []float64
		submitted int
		attempts  int
		latestFee *model.FeeRecord
	)

	for _, r := range records {
		if r.StudentKey() != studentID {
			continue
		}
		found = true
		switch rec := r.(type) {
		case model.StudentRecord:
			// identity only
		case model.AttendanceRecord:
			total += rec.TotalClasses
			attended += rec.AttendedClasses
		case model.AssessmentRecord:
			grades = append(grades, rec.Percentage())
			if rec.ObtainedScore > 0 {
				submitted++
			}
			attempts += rec.Attempts
		case model.FeeRecord:
			if latestFee == nil || rec.DueDate.After(latestFee.DueDate) {
				latestFee = &rec
			}
		}
	}
	if !found {
		return model.StudentFeatureVector{}, false
	}

	fv := model.StudentFeatureVector{
		AttendancePercentage:     100,
		AssignmentSubmissionRate: 100,
		FeePaymentStatus:         model.FeePaid,
	}
	if total > 0 {
		fv.AttendancePercentage = float64(attended) / float64(total) * 100
	}
	if n := len(grades); n > 0 {
		var sum float64
		for _, g := range grades {
			sum += g
		}
		fv.AverageGrade = sum / float64(n)
		fv.AssignmentSubmissionRate = float64(submitted) / float64(n) * 100
		fv.NumberOfAttempts = float64(attempts) / float64(n)
	}
	if latestFee != nil {
		fv.FeePaymentStatus, fv.DaysSinceLastPayment = feeState(*latestFee, now)
	}
	fv.EngagementScore = (fv.AttendancePercentage + fv.AssignmentSubmissionRate) / 2
	return fv, true
}

// feeState reports the payment status of a fee and the days elapsed since
// it was paid or, when unpaid and past due, since it fell due.
func feeState(f model.FeeRecord, now time.Time) (model.FeeStatus, int) {
	if f.PaidDate != nil {
		return model.FeePaid, daysBetween(*f.PaidDate, now)
	}
	status := f.Status
	if status == "" {
		status = model.FeePending
	}
	if status == model.FeePaid {
		return status, 0
	}
	if now.After(f.DueDate) {
		return status, daysBetween(f.DueDate, now)
	}
	return status, 0
}

func daysBetween(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	return int(to.Sub(from) / day)
}
