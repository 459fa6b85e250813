package model

import "time"

// RiskLevel is the severity bucket of a risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskFactors holds the four independent sub-scores, each in [0,1].
// Higher is riskier.
type RiskFactors struct {
	Attendance float64 `json:"attendance"`
	Academic   float64 `json:"academic"`
	Financial  float64 `json:"financial"`
	Engagement float64 `json:"engagement"`
}

// RiskAssessment is the scoring engine's output for one student.
type RiskAssessment struct {
	RiskScore       float64     `json:"riskScore"`
	RiskLevel       RiskLevel   `json:"riskLevel"`
	Factors         RiskFactors `json:"factors"`
	Recommendations []string    `json:"recommendations"`
	Augmented       bool        `json:"augmented,omitempty"` // augmentation blend applied
	AssessedAt      time.Time   `json:"assessedAt"`
}

// ScoredStudent is the unit handed to outputs.
type ScoredStudent struct {
	StudentID  string         `json:"studentId,omitempty"`
	Assessment RiskAssessment `json:"assessment"`
	Error      string         `json:"error,omitempty"` // set when the placeholder was substituted
}
