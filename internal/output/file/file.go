// Package file writes scored students to NDJSON files, one file per scoring
// run when the path carries a {run} placeholder.
package file

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/crimson-sun/edurisk/internal/model"
	"github.com/crimson-sun/edurisk/internal/output"
)

// RunPlaceholder in a path is replaced by the run id.
const RunPlaceholder = "{run}"

const (
	defaultBufSize = 64 << 10
	maxSegments    = 10
)

// Option configures a file Output.
type Option func(*Output)

// WithMaxSize starts a new segment once the current one would grow past
// bytes. 0 keeps a single file.
func WithMaxSize(bytes int64) Option {
	return func(o *Output) { o.maxSize = bytes }
}

// WithBufSize sets the write buffer size.
func WithBufSize(bytes int) Option {
	return func(o *Output) { o.bufSize = bytes }
}

// WithRunID names the scoring run. Without it a random id is used.
func WithRunID(id string) Option {
	return func(o *Output) { o.tally.RunID = id }
}

// WithSummary writes a run summary next to the results on Close.
func WithSummary() Option {
	return func(o *Output) { o.summary = true }
}

// Tally counts what a run has written.
type Tally struct {
	RunID        string    `json:"runId"`
	Students     int       `json:"students"`
	Low          int       `json:"low"`
	Medium       int       `json:"medium"`
	High         int       `json:"high"`
	ManualReview int       `json:"manualReview"`
	Segments     int       `json:"segments"`
	ClosedAt     time.Time `json:"closedAt,omitzero"`
}

func (t *Tally) add(s model.ScoredStudent) {
	t.Students++
	if s.Error != "" {
		t.ManualReview++
	}
	switch s.Assessment.RiskLevel {
	case model.RiskLow:
		t.Low++
	case model.RiskMedium:
		t.Medium++
	case model.RiskHigh:
		t.High++
	}
}

// Output appends results to a file. Rotated segments keep the extension,
// so scores.ndjson is followed by scores.1.ndjson, scores.2.ndjson and so
// on, newest first. At most maxSegments old segments are kept.
type Output struct {
	mu        sync.Mutex
	path      string
	verbosity output.Verbosity
	maxSize   int64
	bufSize   int
	summary   bool

	f     *os.File
	w     *bufio.Writer
	size  int64
	tally Tally
}

// New opens the run's file, appending if it already exists.
func New(path string, verbosity output.Verbosity, opts ...Option) (*Output, error) {
	o := &Output{verbosity: verbosity, bufSize: defaultBufSize}
	for _, opt := range opts {
		opt(o)
	}
	if o.tally.RunID == "" {
		o.tally.RunID = uuid.NewString()
	}
	o.path = strings.ReplaceAll(path, RunPlaceholder, o.tally.RunID)
	if err := o.open(); err != nil {
		return nil, err
	}
	o.tally.Segments = 1
	return o, nil
}

// Path is the file currently written to.
func (o *Output) Path() string { return o.path }

// Tally returns the counts written so far.
func (o *Output) Tally() Tally {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.tally
}

// Write appends s as one JSON line.
func (o *Output) Write(_ context.Context, s model.ScoredStudent) error {
	line, err := json.Marshal(output.Format(s, o.verbosity))
	if err != nil {
		return fmt.Errorf("file output: %s: %w", s.StudentID, err)
	}
	line = append(line, '\n')

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.maxSize > 0 && o.size > 0 && o.size+int64(len(line)) > o.maxSize {
		if err := o.rotate(); err != nil {
			return fmt.Errorf("file output: rotate %s: %w", o.path, err)
		}
	}
	n, err := o.w.Write(line)
	o.size += int64(n)
	if err != nil {
		return fmt.Errorf("file output: write %s: %w", o.path, err)
	}
	o.tally.add(s)
	return nil
}

// Close flushes pending lines, closes the file and, when enabled, writes the
// run summary.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.w.Flush(); err != nil {
		o.f.Close()
		return fmt.Errorf("file output: flush %s: %w", o.path, err)
	}
	if err := o.f.Close(); err != nil {
		return fmt.Errorf("file output: close %s: %w", o.path, err)
	}
	if !o.summary {
		return nil
	}
	o.tally.ClosedAt = time.Now().UTC().Truncate(time.Second)
	data, err := json.MarshalIndent(o.tally, "", "  ")
	if err != nil {
		return fmt.Errorf("file output: summary: %w", err)
	}
	return os.WriteFile(SummaryPath(o.path), append(data, '\n'), 0o644)
}

// SummaryPath is where the run summary for path is written.
func SummaryPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".summary.json"
}

// Segment names the n-th rotated file of path.
func Segment(path string, n int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s.%d%s", strings.TrimSuffix(path, ext), n, ext)
}

func (o *Output) open() error {
	if dir := filepath.Dir(o.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("file output: %w", err)
		}
	}
	f, err := os.OpenFile(o.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("file output: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("file output: %w", err)
	}
	o.f, o.w, o.size = f, bufio.NewWriterSize(f, o.bufSize), info.Size()
	return nil
}

func (o *Output) rotate() error {
	if err := o.w.Flush(); err != nil {
		return err
	}
	if err := o.f.Close(); err != nil {
		return err
	}
	for n := maxSegments - 1; n >= 1; n-- {
		// Gaps are normal until maxSegments rotations have happened.
		_ = os.Rename(Segment(o.path, n), Segment(o.path, n+1))
	}
	if err := os.Rename(o.path, Segment(o.path, 1)); err != nil {
		return err
	}
	o.tally.Segments++
	return o.open()
}
