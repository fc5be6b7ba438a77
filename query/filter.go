package query

import (
	"strings"

	"procurement-dashboard/models"
)

// DefaultThreshold is the relevance score a recommended article must reach.
const DefaultThreshold = 0.35

// Filter returns the articles that pass every active filter in st. The input
// is not modified; when nothing matches the result is empty, not nil.
func Filter(articles []models.Article, st State, threshold float64) []models.Article {
	var preds []func(models.Article) bool

	// Tag and score checks run before the search scan.
	if st.Tag != "" {
		tag := st.Tag
		preds = append(preds, func(a models.Article) bool { return a.HasTag(tag) })
	}
	if st.OnlyRecommended {
		preds = append(preds, func(a models.Article) bool { return a.RelevanceScore >= threshold })
	}
	if st.Search != "" {
		q := strings.ToLower(st.Search)
		preds = append(preds, func(a models.Article) bool { return matchesSearch(a, q) })
	}

	out := make([]models.Article, 0, len(articles))
next:
	for _, a := range articles {
		for _, p := range preds {
			if !p(a) {
				continue next
			}
		}
		out = append(out, a)
	}
	return out
}

// matchesSearch expects q already lower-cased.
func matchesSearch(a models.Article, q string) bool {
	if strings.Contains(strings.ToLower(a.Title), q) || strings.Contains(strings.ToLower(a.Source), q) {
		return true
	}
	for _, t := range a.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}
