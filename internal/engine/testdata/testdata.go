package testdata

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/crimson-sun/edurisk/internal/model"
)

//go:embed corpus.json
var corpusJSON []byte

// CorpusEntry is a feature vector with its expected rule-based assessment.
type CorpusEntry struct {
	Description     string                     `json:"description"`
	Features        model.StudentFeatureVector `json:"features"`
	ExpectedFactors model.RiskFactors          `json:"expected_factors"`
	ExpectedScore   float64                    `json:"expected_score"`
	ExpectedLevel   model.RiskLevel            `json:"expected_level"`
}

// LoadCorpus parses the embedded corpus.json and returns all entries.
func LoadCorpus() ([]CorpusEntry, error) {
	var entries []CorpusEntry
	if err := json.Unmarshal(corpusJSON, &entries); err != nil {
		return nil, fmt.Errorf("parse corpus.json: %w", err)
	}
	return entries, nil
}
