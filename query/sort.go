package query

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"procurement-dashboard/models"
)

type sortItem struct {
	article models.Article
	instant time.Time
}

// Sort returns a new slice ordered by key. The sort is stable and Desc negates
// the comparator, so rows with equal keys keep their input order in both
// directions. An unknown key compares everything as equal.
func Sort(articles []models.Article, key SortKey, dir Direction) []models.Article {
	items := make([]sortItem, len(articles))
	for i, a := range articles {
		items[i].article = a
		if key == KeyDate {
			items[i].instant = a.Instant()
		}
	}

	sign := 1
	if dir == Desc {
		sign = -1
	}
	slices.SortStableFunc(items, func(x, y sortItem) int {
		return sign * compare(x, y, key)
	})

	out := make([]models.Article, len(items))
	for i, it := range items {
		out[i] = it.article
	}
	return out
}

func compare(x, y sortItem, key SortKey) int {
	a, b := x.article, y.article
	switch key {
	case KeyDate:
		return x.instant.Compare(y.instant)
	case KeyRelevance:
		return cmp.Compare(a.RelevanceScore, b.RelevanceScore)
	case KeyID:
		return strings.Compare(a.ID, b.ID)
	case KeyTitle:
		return strings.Compare(a.Title, b.Title)
	case KeySource:
		return strings.Compare(a.Source, b.Source)
	case KeySummary:
		return strings.Compare(a.Summary, b.Summary)
	case KeyURL:
		return strings.Compare(a.URL, b.URL)
	case KeyTags:
		return strings.Compare(strings.Join(a.Tags, ","), strings.Join(b.Tags, ","))
	default:
		return 0
	}
}
