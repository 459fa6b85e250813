package edurisk

import (
	"github.com/crimson-sun/edurisk/internal/engine/augment"
	"github.com/crimson-sun/edurisk/internal/ingest"
	"github.com/crimson-sun/edurisk/internal/ingest/parser"
	"github.com/crimson-sun/edurisk/internal/model"
)

// Re-exported domain types. They are aliases so values pass freely between
// this package and its callers.
type (
	FeatureVector  = model.StudentFeatureVector
	FeeStatus      = model.FeeStatus
	Assessment     = model.RiskAssessment
	RiskFactors    = model.RiskFactors
	RiskLevel      = model.RiskLevel
	IngestResult   = model.IngestResult
	QualityReport  = model.QualityReport
	Record         = model.Record
	ScoreRequest   = model.ScoreRequest
	ScoredStudent  = model.ScoredStudent
	Augmentor      = augment.Augmentor
	AugmentorInput = augment.Input
)

const (
	FeePaid    = model.FeePaid
	FeePending = model.FeePending
	FeeOverdue = model.FeeOverdue

	RiskLow    = model.RiskLow
	RiskMedium = model.RiskMedium
	RiskHigh   = model.RiskHigh
)

// Errors callers may match with errors.Is.
var (
	ErrUnknownFormat   = ingest.ErrUnknownFormat
	ErrUnknownDataType = ingest.ErrUnknownKind
	ErrEmptyInput      = parser.ErrEmptyInput
	ErrNoWorksheet     = parser.ErrNoWorksheet
	ErrDecode          = parser.ErrDecode
	ErrInvalidFeatures = model.ErrInvalidFeatures
)
