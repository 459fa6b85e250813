// Package ingest turns uploaded tabular files into validated, deduplicated
// records plus a quality report.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/crimson-sun/edurisk/internal/engine/dedup"
	"github.com/crimson-sun/edurisk/internal/ingest/format"
	"github.com/crimson-sun/edurisk/internal/ingest/normalize"
	"github.com/crimson-sun/edurisk/internal/ingest/parser"
	"github.com/crimson-sun/edurisk/internal/ingest/validate"
	"github.com/crimson-sun/edurisk/internal/model"
)

var (
	// ErrUnknownFormat is returned for files whose extension is not recognized.
	ErrUnknownFormat = errors.New("ingest: unknown file format")
	// ErrUnknownKind is returned when the declared data type is not one of
	// the four record kinds.
	ErrUnknownKind = errors.New("ingest: unknown data type")
)

// Option configures a Processor.
type Option func(*Processor)

// WithAliases replaces the default header alias table.
func WithAliases(t *normalize.Table) Option {
	return func(p *Processor) { p.aliases = t }
}

// WithClock sets the clock used for defaults and ProcessedAt.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) { p.logger = l }
}

// Processor runs the ingestion pipeline: detect, parse, normalize, validate,
// deduplicate, assess. It holds no per-call state and is safe for concurrent
// use.
type Processor struct {
	aliases   *normalize.Table
	validator *validate.Validator
	now       func() time.Time
	logger    *slog.Logger
}

// New creates a Processor.
func New(opts ...Option) *Processor {
	p := &Processor{
		aliases: normalize.DefaultTable(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	p.validator = &validate.Validator{Now: p.now}
	return p
}

// ProcessFile ingests an in-memory file. It fails only when the format is
// unknown or the content cannot be decoded at all; bad rows are dropped and
// reported in the quality report.
func (p *Processor) ProcessFile(buf []byte, filename string, kind model.Kind) (model.IngestResult, error) {
	f, err := p.check(filename, kind)
	if err != nil {
		return model.IngestResult{}, err
	}
	return p.process(bytes.NewReader(buf), filename, f, kind)
}

// ProcessStream ingests a file pushed as chunks. Delimited text is parsed as
// chunks arrive; spreadsheets are buffered until end-of-stream. It returns
// once the stream ends, a chunk carries an error, or ctx is cancelled.
func (p *Processor) ProcessStream(ctx context.Context, chunks <-chan model.Chunk, filename string, kind model.Kind) (model.IngestResult, error) {
	f, err := p.check(filename, kind)
	if err != nil {
		return model.IngestResult{}, err
	}

	if f == format.Spreadsheet {
		var buf bytes.Buffer
		for {
			select {
			case <-ctx.Done():
				return model.IngestResult{}, fmt.Errorf("ingest %s: %w", filename, ctx.Err())
			case c, ok := <-chunks:
				if !ok {
					return p.process(&buf, filename, f, kind)
				}
				if c.Err != nil {
					return model.IngestResult{}, fmt.Errorf("ingest %s: %w", filename, c.Err)
				}
				buf.Write(c.Data)
			}
		}
	}

	pr, pw := io.Pipe()
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		pump(ctx, chunks, pw, stop)
	}()
	defer func() {
		close(stop)
		pr.Close()
		<-done
	}()
	return p.process(pr, filename, f, kind)
}

// pump copies chunks into the pipe until end-of-stream, a chunk error,
// cancellation, or stop.
func pump(ctx context.Context, chunks <-chan model.Chunk, pw *io.PipeWriter, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			pw.CloseWithError(io.ErrClosedPipe)
			return
		case <-ctx.Done():
			pw.CloseWithError(ctx.Err())
			return
		case c, ok := <-chunks:
			if !ok {
				pw.Close()
				return
			}
			if c.Err != nil {
				pw.CloseWithError(c.Err)
				return
			}
			if _, err := pw.Write(c.Data); err != nil {
				return
			}
		}
	}
}

func (p *Processor) check(filename string, kind model.Kind) (format.Format, error) {
	f := format.Detect(filename)
	if f == format.Unknown {
		return f, fmt.Errorf("%w: %q", ErrUnknownFormat, filename)
	}
	switch kind {
	case model.KindStudent, model.KindAttendance, model.KindAssessment, model.KindFee:
		return f, nil
	default:
		return f, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
}

func (p *Processor) process(r io.Reader, filename string, f format.Format, kind model.Kind) (model.IngestResult, error) {
	prs, err := parser.For(f)
	if err != nil {
		return model.IngestResult{}, fmt.Errorf("ingest %s: %w", filename, err)
	}

	var (
		records  []model.Record
		rowOf    []int // data-row number of each record
		issues   []issue
		total    int
		rejected int
	)
	for raw, err := range prs.Rows(r) {
		if err != nil {
			return model.IngestResult{}, fmt.Errorf("ingest %s: %w", filename, err)
		}
		total++
		rec, rej, ok := p.validator.Validate(kind, p.aliases.Normalize(raw))
		if !ok {
			rejected++
			issues = append(issues, issue{row: total, text: rej.String()})
			continue
		}
		records = append(records, rec)
		rowOf = append(rowOf, total)
	}

	kept, dups := dedup.Report(records)
	for _, d := range dups {
		issues = append(issues, issue{
			row:  rowOf[d.Index],
			text: fmt.Sprintf("duplicate of row %d", rowOf[d.Original]),
		})
	}

	quality := assessQuality(total, len(kept), rejected, len(dups), issues)
	summary := model.Summary{
		RunID:       uuid.NewString(),
		Filename:    filename,
		FileType:    f.String(),
		DataType:    kind,
		ProcessedAt: p.now().UTC(),
	}

	p.logger.Info("ingest complete",
		"run_id", summary.RunID,
		"file", filename,
		"type", kind.String(),
		"rows", total,
		"valid", quality.ValidRecords,
		"rejected", rejected,
		"duplicates", len(dups),
	)

	return model.IngestResult{Records: kept, Quality: quality, Summary: summary}, nil
}
