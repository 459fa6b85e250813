package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/crimson-sun/edurisk/internal/model"
	"github.com/crimson-sun/edurisk/internal/output"
)

// Scorer scores a batch of requests; *engine.Engine satisfies it.
type Scorer interface {
	ScoreBatch(reqs []model.ScoreRequest) []model.ScoredStudent
}

const defaultFlushWindow = 500 * time.Millisecond

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithFlushWindow sets how long Stream holds the first pending request
// before scoring the batch. Default: 500ms.
func WithFlushWindow(d time.Duration) Option {
	return func(p *Pipeline) { p.window = d }
}

// WithMaxBatch flushes as soon as n requests are pending. 0 means no limit.
func WithMaxBatch(n int) Option {
	return func(p *Pipeline) { p.maxBatch = n }
}

// Pipeline connects a scorer to an output.
type Pipeline struct {
	scorer   Scorer
	output   output.Output
	window   time.Duration
	maxBatch int
	failed   atomic.Int64
}

// New creates a Pipeline.
func New(scorer Scorer, out output.Output, opts ...Option) *Pipeline {
	p := &Pipeline{
		scorer: scorer,
		output: out,
		window: defaultFlushWindow,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Score scores reqs as one batch and writes every result in input order.
func (p *Pipeline) Score(ctx context.Context, reqs []model.ScoreRequest) error {
	if len(reqs) == 0 {
		return nil
	}
	for _, s := range p.scorer.ScoreBatch(reqs) {
		if s.Error != "" {
			p.failed.Add(1)
			slog.Warn("student scored as placeholder", "student_id", s.StudentID, "error", s.Error)
		}
		if err := p.output.Write(ctx, s); err != nil {
			return fmt.Errorf("pipeline output: %w", err)
		}
	}
	return nil
}

// Stream scores requests as they arrive, batching them by window and size.
// It returns nil once in is closed and drained. On cancellation the pending
// batch is still written before ctx.Err() is returned.
func (p *Pipeline) Stream(ctx context.Context, in <-chan model.ScoreRequest) error {
	buf := newBatchBuffer(p.window, p.maxBatch)
	for {
		select {
		case <-ctx.Done():
			if err := p.Score(context.WithoutCancel(ctx), buf.take()); err != nil {
				return err
			}
			return ctx.Err()
		case req, ok := <-in:
			if !ok {
				return p.Score(ctx, buf.take())
			}
			if buf.add(req) {
				if err := p.Score(ctx, buf.take()); err != nil {
					return err
				}
			}
		case <-buf.flushCh():
			if err := p.Score(ctx, buf.take()); err != nil {
				return err
			}
		}
	}
}

// Failed reports how many students were replaced by the placeholder.
func (p *Pipeline) Failed() int64 {
	return p.failed.Load()
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	return p.output.Close()
}
