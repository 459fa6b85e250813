package model

import "time"

// MaxIssues caps QualityReport.Issues.
const MaxIssues = 20

// QualityReport summarizes one ingestion call.
type QualityReport struct {
	TotalRecords     int      `json:"totalRecords"`
	ValidRecords     int      `json:"validRecords"`
	InvalidRecords   int      `json:"invalidRecords"`
	CompletenessRate float64  `json:"completenessRate"` // [0,100]
	Issues           []string `json:"issues"`
	RejectedRows     int      `json:"rejectedRows"`
	DuplicateRows    int      `json:"duplicateRows"`
}

// Summary describes the file an ingestion call processed.
type Summary struct {
	RunID       string    `json:"runId"`
	Filename    string    `json:"filename"`
	FileType    string    `json:"fileType"`
	DataType    Kind      `json:"dataType"`
	ProcessedAt time.Time `json:"processedAt"`
}

// IngestResult is the output of one ingestion call.
type IngestResult struct {
	Records []Record      `json:"records"`
	Quality QualityReport `json:"quality"`
	Summary Summary       `json:"summary"`
}
