package query

import "procurement-dashboard/models"

func fixture() []models.Article {
	return []models.Article{
		{ID: "a", Title: "Tender reform announced", Source: "Gov", Date: "2024-01-10T00:00:00+00:00", RelevanceScore: 0.5, Tags: []string{"AI"}},
		{ID: "b", Title: "Cyber budget", Source: "Defence News", Date: "2024-03-01T00:00:00+00:00", RelevanceScore: 0.2, Tags: []string{"Cyber"}},
		{ID: "c", Title: "Single source pricing", Source: "NAO", Date: "2024-02-15", RelevanceScore: 0.35, Tags: []string{"SSRO", "AI"}},
		{ID: "d", Title: "", Source: "", Date: "", RelevanceScore: 0, Tags: nil},
		{ID: "e", Title: "Industrial base review", Source: "Gov", Date: "Thu, 15 Feb 2024 00:00:00 GMT", RelevanceScore: 0.9, Tags: []string{"industrial base"}},
	}
}

func ids(articles []models.Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.ID
	}
	return out
}
