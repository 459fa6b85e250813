// Package parser turns delimited-text and spreadsheet buffers into lazy
// sequences of raw rows.
package parser

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/crimson-sun/edurisk/internal/ingest/format"
	"github.com/crimson-sun/edurisk/internal/model"
)

var (
	// ErrEmptyInput means the input has no header row.
	ErrEmptyInput = errors.New("parser: empty input")
	// ErrNoWorksheet means a workbook decoded but holds no sheets.
	ErrNoWorksheet = errors.New("parser: workbook has no worksheets")
	// ErrDecode means the bytes are not a valid instance of the format.
	ErrDecode = errors.New("parser: cannot decode input")
)

// Parser produces raw rows from a reader. The returned sequence is lazy and
// single-use: it consumes r as it is ranged over. The first non-nil error it
// yields ends the sequence and is fatal for the file.
type Parser interface {
	Rows(r io.Reader) iter.Seq2[model.RawRow, error]
}

// For returns the parser for a detected format.
func For(f format.Format) (Parser, error) {
	switch f {
	case format.Delimited:
		return Delimited{}, nil
	case format.Spreadsheet:
		return Spreadsheet{}, nil
	default:
		return nil, fmt.Errorf("parser: no parser for format %s", f)
	}
}
