package parser

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/crimson-sun/edurisk/internal/model"
)

// Spreadsheet parses the first sheet of an OOXML workbook. Row 1 holds the
// headers; rows with no populated cells are dropped.
type Spreadsheet struct{}

// Rows decodes the whole workbook before yielding the first row.
func (Spreadsheet) Rows(r io.Reader) iter.Seq2[model.RawRow, error] {
	return func(yield func(model.RawRow, error) bool) {
		f, err := excelize.OpenReader(r)
		if err != nil {
			yield(nil, fmt.Errorf("%w: %w", ErrDecode, err))
			return
		}
		defer f.Close()

		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			yield(nil, ErrNoWorksheet)
			return
		}

		rows, err := f.Rows(sheets[0])
		if err != nil {
			yield(nil, fmt.Errorf("%w: sheet %q: %w", ErrDecode, sheets[0], err))
			return
		}
		defer rows.Close()

		var header []string
		for rows.Next() {
			cols, err := rows.Columns()
			if err != nil {
				yield(nil, fmt.Errorf("%w: %w", ErrDecode, err))
				return
			}
			if header == nil {
				header = make([]string, len(cols))
				for i, c := range cols {
					header[i] = strings.TrimSpace(c)
				}
				continue
			}
			row := populated(header, cols)
			if len(row) == 0 {
				continue
			}
			if !yield(row, nil) {
				return
			}
		}
		if err := rows.Error(); err != nil {
			yield(nil, fmt.Errorf("%w: %w", ErrDecode, err))
			return
		}
		if header == nil {
			yield(nil, ErrEmptyInput)
		}
	}
}

func populated(header, cols []string) model.RawRow {
	row := make(model.RawRow, 0, len(header))
	for i, h := range header {
		if h == "" || i >= len(cols) || strings.TrimSpace(cols[i]) == "" {
			continue
		}
		row = append(row, model.Cell{Header: h, Value: cols[i]})
	}
	return row
}
