package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/crimson-sun/edurisk/internal/model"
)

const utf8BOM = "\ufeff"

// Delimited parses comma-separated text. The first record is the header;
// every following record is emitted as a data row keyed by header.
type Delimited struct{}

// Rows streams r record by record.
func (Delimited) Rows(r io.Reader) iter.Seq2[model.RawRow, error] {
	return func(yield func(model.RawRow, error) bool) {
		cr := csv.NewReader(r)
		cr.LazyQuotes = true
		cr.FieldsPerRecord = -1

		header, err := cr.Read()
		if errors.Is(err, io.EOF) {
			yield(nil, ErrEmptyInput)
			return
		}
		if err != nil {
			yield(nil, readError(err))
			return
		}
		if len(header) > 0 {
			header[0] = strings.TrimPrefix(header[0], utf8BOM)
		}
		for i := range header {
			header[i] = strings.TrimSpace(header[i])
		}

		for {
			rec, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, readError(err))
				return
			}
			if !yield(zip(header, rec), nil) {
				return
			}
		}
	}
}

// readError separates malformed content from failures of the underlying
// reader, which are passed through unchanged.
func readError(err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return err
}

// zip pairs cells with headers positionally. Cells without a named header are
// ignored; missing trailing cells are absent from the row.
func zip(header, cells []string) model.RawRow {
	row := make(model.RawRow, 0, len(header))
	for i, h := range header {
		if h == "" || i >= len(cells) {
			continue
		}
		row = append(row, model.Cell{Header: h, Value: cells[i]})
	}
	return row
}
