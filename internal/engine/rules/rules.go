// Package rules implements the deterministic, explainable risk rules. Every
// function is pure and returns a value in [0,1].
package rules

import (
	"math"

	"github.com/crimson-sun/edurisk/internal/model"
)

// Weights of each sub-factor in the composite score. They sum to 1.
const (
	WeightAttendance = 0.3
	WeightAcademic   = 0.4
	WeightFinancial  = 0.2
	WeightEngagement = 0.1
)

// AttendanceRisk maps an attendance percentage to a risk value.
func AttendanceRisk(pct float64) float64 {
	switch {
	case pct >= 90:
		return 0.1
	case pct >= 80:
		return 0.3
	case pct >= 70:
		return 0.6
	case pct >= 60:
		return 0.8
	default:
		return 1.0
	}
}

// AcademicRisk sums grade, submission and attempt penalties, capped at 1.
// Penalties are accumulated in tenths so the sum is exact.
func AcademicRisk(grade, submissionRate, attempts float64) float64 {
	var tenths int

	switch {
	case grade < 40:
		tenths += 4
	case grade < 60:
		tenths += 3
	case grade < 75:
		tenths += 2
	default:
		tenths++
	}

	switch {
	case submissionRate < 50:
		tenths += 3
	case submissionRate < 75:
		tenths += 2
	case submissionRate < 90:
		tenths++
	}

	switch {
	case attempts > 3:
		tenths += 3
	case attempts > 2:
		tenths += 2
	case attempts > 1:
		tenths++
	}

	return float64(min(tenths, 10)) / 10
}

// FinancialRisk maps payment status and days since the last payment to a
// risk value. Unknown statuses score 0.5.
func FinancialRisk(status model.FeeStatus, daysSincePayment int) float64 {
	switch status {
	case model.FeePaid:
		return 0.1
	case model.FeePending:
		if daysSincePayment > 30 {
			return 0.6
		}
		return 0.3
	case model.FeeOverdue:
		if daysSincePayment > 90 {
			return 1.0
		}
		return 0.8
	default:
		return 0.5
	}
}

// EngagementRisk maps an engagement score to a risk value.
func EngagementRisk(score float64) float64 {
	switch {
	case score >= 80:
		return 0.1
	case score >= 60:
		return 0.3
	case score >= 40:
		return 0.6
	case score >= 20:
		return 0.8
	default:
		return 1.0
	}
}

// Factors evaluates all four rules against a feature vector.
func Factors(v model.StudentFeatureVector) model.RiskFactors {
	return model.RiskFactors{
		Attendance: AttendanceRisk(v.AttendancePercentage),
		Academic:   AcademicRisk(v.AverageGrade, v.AssignmentSubmissionRate, v.NumberOfAttempts),
		Financial:  FinancialRisk(v.FeePaymentStatus, v.DaysSinceLastPayment),
		Engagement: EngagementRisk(v.EngagementScore),
	}
}

// Composite returns the weighted sum of the factors rounded to two decimals.
func Composite(f model.RiskFactors) float64 {
	return Round2(f.Attendance*WeightAttendance +
		f.Academic*WeightAcademic +
		f.Financial*WeightFinancial +
		f.Engagement*WeightEngagement)
}

// Round2 rounds half away from zero to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
