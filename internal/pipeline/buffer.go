package pipeline

import (
	"time"

	"github.com/crimson-sun/edurisk/internal/model"
)

// batchBuffer accumulates requests until the window elapses or the batch
// is full. It is owned by a single Stream loop.
type batchBuffer struct {
	window  time.Duration
	maxSize int // 0 = unlimited

	pending []model.ScoreRequest
	timer   *time.Timer
}

func newBatchBuffer(window time.Duration, maxSize int) *batchBuffer {
	return &batchBuffer{window: window, maxSize: maxSize}
}

// add appends req, starting the window on the first pending request. It
// reports whether the batch is full.
func (b *batchBuffer) add(req model.ScoreRequest) bool {
	b.pending = append(b.pending, req)
	if len(b.pending) == 1 {
		b.timer = time.NewTimer(b.window)
	}
	return b.maxSize > 0 && len(b.pending) >= b.maxSize
}

// flushCh returns the window's channel, or nil while nothing is pending.
func (b *batchBuffer) flushCh() <-chan time.Time {
	if b.timer == nil {
		return nil
	}
	return b.timer.C
}

// take empties the buffer and stops the window.
func (b *batchBuffer) take() []model.ScoreRequest {
	reqs := b.pending
	b.pending = nil
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	return reqs
}
