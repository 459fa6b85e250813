package edurisk

import "github.com/crimson-sun/edurisk/internal/engine/recommend"

// CatalogEntry describes the recommendations issued for one risk factor.
type CatalogEntry struct {
	Factor          string   // attendance, academic, financial, engagement
	Description     string
	Recommendations []string // issued when the factor exceeds the threshold
}

// RecommendationThreshold is the factor value above which a factor's
// recommendations are issued.
const RecommendationThreshold = recommend.Threshold

// Catalog returns the recommendation catalog in reporting order. It is a
// copy; changing it has no effect.
func Catalog() []CatalogEntry {
	entries := recommend.DefaultCatalog()
	out := make([]CatalogEntry, len(entries))
	for i, e := range entries {
		out[i] = CatalogEntry{
			Factor:          string(e.Factor),
			Description:     e.Desc,
			Recommendations: e.Recommendations,
		}
	}
	return out
}
