package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidFeatures is returned when a feature vector holds values the
// scoring rules are not defined for.
var ErrInvalidFeatures = errors.New("invalid feature vector")

// FeeStatus is the payment state derived from a student's fee records.
type FeeStatus string

const (
	FeePaid    FeeStatus = "paid"
	FeePending FeeStatus = "pending"
	FeeOverdue FeeStatus = "overdue"
)

// ParseFeeStatus maps free text onto a FeeStatus. Unrecognized text is kept
// as-is so scoring can treat it as an unknown status.
func ParseFeeStatus(s string) FeeStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "paid", "complete", "completed", "cleared":
		return FeePaid
	case "pending", "due", "unpaid", "partial":
		return FeePending
	case "overdue", "late", "defaulted":
		return FeeOverdue
	default:
		return FeeStatus(s)
	}
}

// StudentFeatureVector is the seven-dimensional per-student summary consumed
// by the scoring engine.
type StudentFeatureVector struct {
	AttendancePercentage     float64   `json:"attendancePercentage"`     // [0,100]
	AverageGrade             float64   `json:"averageGrade"`             // [0,100]
	AssignmentSubmissionRate float64   `json:"assignmentSubmissionRate"` // [0,100]
	NumberOfAttempts         float64   `json:"numberOfAttempts"`         // >= 0
	FeePaymentStatus         FeeStatus `json:"feePaymentStatus"`
	DaysSinceLastPayment     int       `json:"daysSinceLastPayment"` // >= 0
	EngagementScore          float64   `json:"engagementScore"`      // [0,100]
}

// Validate reports whether every dimension is a finite number in its range.
func (v StudentFeatureVector) Validate() error {
	pcts := []struct {
		name string
		val  float64
	}{
		{"attendancePercentage", v.AttendancePercentage},
		{"averageGrade", v.AverageGrade},
		{"assignmentSubmissionRate", v.AssignmentSubmissionRate},
		{"engagementScore", v.EngagementScore},
	}
	for _, p := range pcts {
		if math.IsNaN(p.val) || p.val < 0 || p.val > 100 {
			return fmt.Errorf("%w: %s=%v outside [0,100]", ErrInvalidFeatures, p.name, p.val)
		}
	}
	if math.IsNaN(v.NumberOfAttempts) || math.IsInf(v.NumberOfAttempts, 0) || v.NumberOfAttempts < 0 {
		return fmt.Errorf("%w: numberOfAttempts=%v", ErrInvalidFeatures, v.NumberOfAttempts)
	}
	if v.DaysSinceLastPayment < 0 {
		return fmt.Errorf("%w: daysSinceLastPayment=%d", ErrInvalidFeatures, v.DaysSinceLastPayment)
	}
	return nil
}

// ScoreRequest pairs a feature vector with the student it describes.
type ScoreRequest struct {
	StudentID string               `json:"studentId"`
	Features  StudentFeatureVector `json:"features"`
}
