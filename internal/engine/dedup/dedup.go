package dedup

import (
	"strings"

	"github.com/crimson-sun/edurisk/internal/model"
)

// Duplicate records a dropped input index and the index of the record it
// duplicated.
type Duplicate struct {
	Index    int
	Original int
}

// Records drops every record whose natural key was already seen. The first
// occurrence wins and survivors keep their input order.
func Records(records []model.Record) []model.Record {
	out, _ := Report(records)
	return out
}

// Report is Records that also lists the dropped duplicates.
func Report(records []model.Record) ([]model.Record, []Duplicate) {
	if len(records) == 0 {
		return nil, nil
	}

	seen := make(map[string]int, len(records))
	out := make([]model.Record, 0, len(records))
	var dups []Duplicate

	for i, r := range records {
		k := key(r)
		if first, exists := seen[k]; exists {
			dups = append(dups, Duplicate{Index: i, Original: first})
			continue
		}
		seen[k] = i
		out = append(out, r)
	}
	return out, dups
}

// key joins the kind and natural key with a separator that cannot appear in
// normalized cell text.
func key(r model.Record) string {
	return r.Kind().String() + "\x00" + strings.Join(r.NaturalKey(), "\x00")
}
