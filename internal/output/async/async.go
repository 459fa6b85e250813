package async

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/crimson-sun/edurisk/internal/model"
	"github.com/crimson-sun/edurisk/internal/output"
)

const (
	defaultBufferSize   = 1024
	defaultDrainTimeout = 5 * time.Second
)

// Option configures an Async wrapper.
type Option func(*Async)

// WithBufferSize sets the channel capacity. Default: 1024.
func WithBufferSize(n int) Option {
	return func(a *Async) { a.bufSize = n }
}

// WithOnError sets the callback for inner Write failures. Default: slog warning.
func WithOnError(f func(error)) Option {
	return func(a *Async) { a.errFunc = f }
}

// WithDropOnFull makes Write discard the result instead of blocking when
// the buffer is full.
func WithDropOnFull() Option {
	return func(a *Async) { a.dropOnFull = true }
}

// WithDrainTimeout bounds how long Close waits for buffered results.
func WithDrainTimeout(d time.Duration) Option {
	return func(a *Async) { a.drainTimeout = d }
}

// Async hands results to a background goroutine that writes them to the
// wrapped output. Inner errors go to errFunc, never back to the caller.
type Async struct {
	inner        output.Output
	ch           chan model.ScoredStudent
	done         chan struct{}
	errFunc      func(error)
	bufSize      int
	dropOnFull   bool
	drainTimeout time.Duration
	dropped      atomic.Int64
	closeOnce    sync.Once
}

// New wraps inner and starts the drain goroutine.
func New(inner output.Output, opts ...Option) *Async {
	a := &Async{
		inner:        inner,
		bufSize:      defaultBufferSize,
		drainTimeout: defaultDrainTimeout,
		errFunc:      func(err error) { slog.Warn("async output write error", "error", err) },
	}
	for _, opt := range opts {
		opt(a)
	}
	a.ch = make(chan model.ScoredStudent, a.bufSize)
	a.done = make(chan struct{})
	go a.drain()
	return a
}

// Write enqueues s. It blocks while the buffer is full unless drop-on-full
// is set, and gives up with ctx.Err() if ctx ends first.
func (a *Async) Write(ctx context.Context, s model.ScoredStudent) error {
	if a.dropOnFull {
		select {
		case a.ch <- s:
		default:
			a.dropped.Add(1)
			slog.Warn("async output buffer full, dropping result", "student_id", s.StudentID)
		}
		return nil
	}
	select {
	case a.ch <- s:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dropped reports how many results were discarded on a full buffer.
func (a *Async) Dropped() int64 {
	return a.dropped.Load()
}

// Close stops accepting results, waits up to the drain timeout for the
// buffer to empty, then closes the inner output.
func (a *Async) Close() error {
	var err error
	a.closeOnce.Do(func() {
		close(a.ch)
		select {
		case <-a.done:
		case <-time.After(a.drainTimeout):
			slog.Warn("async output drain timed out", "pending", len(a.ch))
		}
		err = a.inner.Close()
	})
	return err
}

func (a *Async) drain() {
	defer close(a.done)
	for s := range a.ch {
		if err := a.inner.Write(context.Background(), s); err != nil {
			a.errFunc(err)
		}
	}
}
