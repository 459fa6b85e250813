package ingest

import (
	"fmt"
	"slices"

	"github.com/crimson-sun/edurisk/internal/model"
)

type issue struct {
	row  int
	text string
}

// assessQuality builds the report for one ingestion call. Issues are ordered
// by row and capped at model.MaxIssues.
func assessQuality(total, valid, rejected, duplicates int, issues []issue) model.QualityReport {
	q := model.QualityReport{
		TotalRecords:   total,
		ValidRecords:   valid,
		InvalidRecords: total - valid,
		RejectedRows:   rejected,
		DuplicateRows:  duplicates,
		Issues:         []string{},
	}
	if total > 0 {
		q.CompletenessRate = float64(valid) / float64(total) * 100
	}

	slices.SortStableFunc(issues, func(a, b issue) int { return a.row - b.row })
	for _, is := range issues {
		if len(q.Issues) == model.MaxIssues {
			break
		}
		q.Issues = append(q.Issues, fmt.Sprintf("row %d: %s", is.row, is.text))
	}
	return q
}
