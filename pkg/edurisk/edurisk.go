package edurisk

import (
	"fmt"

	"github.com/crimson-sun/edurisk/internal/aggregate"
	"github.com/crimson-sun/edurisk/internal/engine"
	"github.com/crimson-sun/edurisk/internal/engine/augment"
	"github.com/crimson-sun/edurisk/internal/engine/classifier"
	"github.com/crimson-sun/edurisk/internal/engine/recommend"
	"github.com/crimson-sun/edurisk/internal/ingest"
	"github.com/crimson-sun/edurisk/internal/ingest/normalize"
	"github.com/crimson-sun/edurisk/internal/model"
)

// Client ingests files and scores students. Safe for concurrent use.
type Client struct {
	processor *ingest.Processor
	engine    *engine.Engine
	opts      options
}

// New creates a Client. It fails only on invalid header aliases; a bad
// augment model surfaces later as rule-only scoring.
func New(opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	table := normalize.DefaultTable()
	if len(o.aliases) > 0 {
		var err error
		if table, err = table.Extend(o.aliases); err != nil {
			return nil, fmt.Errorf("edurisk: %w", err)
		}
	}

	eng := engine.New(classifier.New(), recommend.Default(), capability(o),
		engine.WithClock(o.clock),
		engine.WithConcurrency(o.concurrency),
	)
	return &Client{
		processor: ingest.New(ingest.WithAliases(table), ingest.WithClock(o.clock)),
		engine:    eng,
		opts:      o,
	}, nil
}

func capability(o options) *augment.Capability {
	switch {
	case o.augmentor != nil:
		return augment.Ready(o.augmentor)
	case o.augmentModel != "":
		var lo []augment.Option
		if o.runtimeLibrary != "" {
			lo = append(lo, augment.WithRuntimeLibrary(o.runtimeLibrary))
		}
		return augment.Lazy(func() (augment.Augmentor, error) {
			return augment.Load(o.augmentModel, lo...)
		})
	default:
		return augment.Unavailable()
	}
}

// ProcessFile ingests one uploaded file. dataType is "students",
// "attendance", "assessments" or "fees"; the format comes from the file
// extension. Row-level problems are reported in the result, not as errors.
func (c *Client) ProcessFile(buf []byte, filename, dataType string) (IngestResult, error) {
	kind, err := model.ParseKind(dataType)
	if err != nil {
		return IngestResult{}, fmt.Errorf("%w: %q", ErrUnknownDataType, dataType)
	}
	return c.processor.ProcessFile(buf, filename, kind)
}

// PredictRisk scores one feature vector. The only error is
// ErrInvalidFeatures.
func (c *Client) PredictRisk(fv FeatureVector) (Assessment, error) {
	return c.engine.Predict(fv)
}

// PredictBatchRisk scores every vector; invalid ones get a fixed high-risk
// placeholder asking for manual review. The result matches fvs by index.
func (c *Client) PredictBatchRisk(fvs []FeatureVector) []Assessment {
	return c.engine.PredictBatch(fvs)
}

// Assess aggregates validated records per student and scores each one,
// ordered by student id.
func (c *Client) Assess(records []Record) []ScoredStudent {
	reqs := aggregate.BuildAll(records, c.opts.clock())
	return c.engine.ScoreBatch(reqs)
}

// AugmentationReady reports whether scores are being blended with a model.
// It triggers a lazy model load.
func (c *Client) AugmentationReady() bool {
	return c.engine.AugmentState() == augment.StateReady
}

// Close releases model resources.
func (c *Client) Close() error {
	return c.engine.Close()
}
