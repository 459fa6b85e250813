// Package engine turns student feature vectors into risk assessments.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/crimson-sun/edurisk/internal/engine/augment"
	"github.com/crimson-sun/edurisk/internal/engine/classifier"
	"github.com/crimson-sun/edurisk/internal/engine/recommend"
	"github.com/crimson-sun/edurisk/internal/engine/rules"
	"github.com/crimson-sun/edurisk/internal/model"
)

// Blend weights applied when an augmentor is ready.
const (
	RuleWeight = 0.7
	MLWeight   = 0.3
)

// ManualReview is the sole recommendation of a placeholder assessment.
const ManualReview = "Manual review required"

// placeholderScore is used for every field of a failed batch item.
const placeholderScore = 0.8

// Engine orchestrates the factors → composite → blend → classify →
// recommend pipeline.
type Engine struct {
	classifier  *classifier.Classifier
	recommender *recommend.Generator
	augment     *augment.Capability
	now         func() time.Time
	concurrency int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for AssessedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithConcurrency caps the number of items scored in parallel by
// PredictBatch. Values < 1 select GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(e *Engine) { e.concurrency = n }
}

// New creates an Engine. A nil capability means no augmentation.
func New(cls *classifier.Classifier, rec *recommend.Generator, aug *augment.Capability, opts ...Option) *Engine {
	if aug == nil {
		aug = augment.Unavailable()
	}
	e := &Engine{
		classifier:  cls,
		recommender: rec,
		augment:     aug,
		now:         time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	if e.concurrency < 1 {
		e.concurrency = runtime.GOMAXPROCS(0)
	}
	return e
}

// Default creates an Engine with the standard bands and catalog and no
// augmentor.
func Default(opts ...Option) *Engine {
	return New(classifier.New(), recommend.Default(), augment.Unavailable(), opts...)
}

// Predict scores one feature vector. The only error is
// model.ErrInvalidFeatures; augmentor failures fall back to the rule score.
func (e *Engine) Predict(fv model.StudentFeatureVector) (model.RiskAssessment, error) {
	if err := fv.Validate(); err != nil {
		return model.RiskAssessment{}, err
	}

	factors := rules.Factors(fv)
	score := rules.Composite(factors)
	augmented := false

	if p, err := e.augment.Predict(fv); err == nil {
		score = rules.Round2(RuleWeight*score + MLWeight*p)
		augmented = true
	} else if !errors.Is(err, augment.ErrUnavailable) {
		slog.Warn("augmentor failed, using rule-based score", "error", err)
	}

	return model.RiskAssessment{
		RiskScore:       score,
		RiskLevel:       e.classifier.Classify(score),
		Factors:         factors,
		Recommendations: e.recommender.Generate(factors),
		Augmented:       augmented,
		AssessedAt:      e.now(),
	}, nil
}

// Placeholder returns the fixed assessment substituted for a failed item.
func (e *Engine) Placeholder() model.RiskAssessment {
	return model.RiskAssessment{
		RiskScore: placeholderScore,
		RiskLevel: model.RiskHigh,
		Factors: model.RiskFactors{
			Attendance: placeholderScore,
			Academic:   placeholderScore,
			Financial:  placeholderScore,
			Engagement: placeholderScore,
		},
		Recommendations: []string{ManualReview},
		AssessedAt:      e.now(),
	}
}

// PredictBatch scores every vector independently. The result has the same
// length and order as fvs; a failed item becomes the placeholder.
func (e *Engine) PredictBatch(fvs []model.StudentFeatureVector) []model.RiskAssessment {
	out, _ := e.predictAll(fvs)
	return out
}

// ScoreBatch is PredictBatch over identified requests. Failed items carry
// the placeholder and the error text.
func (e *Engine) ScoreBatch(reqs []model.ScoreRequest) []model.ScoredStudent {
	fvs := make([]model.StudentFeatureVector, len(reqs))
	for i, r := range reqs {
		fvs[i] = r.Features
	}
	assessments, errs := e.predictAll(fvs)

	out := make([]model.ScoredStudent, len(reqs))
	for i, r := range reqs {
		out[i] = model.ScoredStudent{StudentID: r.StudentID, Assessment: assessments[i]}
		if errs[i] != nil {
			out[i].Error = errs[i].Error()
		}
	}
	return out
}

func (e *Engine) predictAll(fvs []model.StudentFeatureVector) ([]model.RiskAssessment, []error) {
	out := make([]model.RiskAssessment, len(fvs))
	errs := make([]error, len(fvs))

	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, fv := range fvs {
		g.Go(func() error {
			a, err := e.safePredict(fv)
			if err != nil {
				slog.Warn("batch item failed, substituting placeholder", "index", i, "error", err)
				a = e.Placeholder()
				errs[i] = err
			}
			out[i] = a
			return nil
		})
	}
	_ = g.Wait()
	return out, errs
}

func (e *Engine) safePredict(fv model.StudentFeatureVector) (a model.RiskAssessment, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine: panic while scoring: %v", r)
		}
	}()
	return e.Predict(fv)
}

// Close releases the augmentor, if any.
func (e *Engine) Close() error {
	return e.augment.Close()
}

// AugmentState reports whether an augmentor is serving predictions,
// loading a lazy one if needed.
func (e *Engine) AugmentState() augment.State {
	return e.augment.State()
}
