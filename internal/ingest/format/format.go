package format

import (
	"path/filepath"
	"strings"
)

// Format is the tabular encoding of an uploaded file.
type Format int

const (
	Unknown Format = iota
	Delimited
	Spreadsheet
)

func (f Format) String() string {
	switch f {
	case Delimited:
		return "csv"
	case Spreadsheet:
		return "excel"
	default:
		return "unknown"
	}
}

// Detect classifies a file by its extension. No content sniffing is done.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return Delimited
	case ".xlsx", ".xls":
		return Spreadsheet
	default:
		return Unknown
	}
}
