// Package view derives the ordered, annotated rows and the page summaries the
// renderers consume. Nothing here mutates articles or performs I/O.
package view

import (
	"fmt"
	"slices"

	"procurement-dashboard/models"
	"procurement-dashboard/query"
)

const (
	chartTopN      = 12
	chartLabelMax  = 30
	displayDateFmt = "Jan 02, 2006"
)

// LikeChecker answers like-set membership for annotation.
type LikeChecker interface {
	IsLiked(id string) bool
}

type Row struct {
	Article     models.Article `json:"article"`
	Liked       bool           `json:"liked"`
	DisplayDate string         `json:"display_date"`
	Score       string         `json:"score"`
}

type Stats struct {
	Total        int     `json:"total"`
	Visible      int     `json:"visible"`
	Recommended  int     `json:"recommended"`
	LikedVisible int     `json:"liked_visible"`
	AvgRelevance float64 `json:"avg_relevance"`
}

type TagOption struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type Bar struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type Charts struct {
	Themes    []Bar `json:"themes"`
	Solutions []Bar `json:"solutions"`
}

// Model is everything a renderer needs for one frame.
type Model struct {
	Rows       []Row       `json:"rows"`
	State      query.State `json:"state"`
	Stats      Stats       `json:"stats"`
	TagOptions []TagOption `json:"tag_options"`
	Charts     *Charts     `json:"charts"`
	Threshold  float64     `json:"threshold"`
}

// Build filters, sorts and annotates articles for st.
func Build(articles []models.Article, st query.State, threshold float64, liked LikeChecker) []Row {
	ordered := query.Sort(query.Filter(articles, st, threshold), st.SortKey, st.SortDir)

	rows := make([]Row, len(ordered))
	for i, a := range ordered {
		rows[i] = Row{
			Article:     a,
			Liked:       liked.IsLiked(a.ID),
			DisplayDate: displayDate(a),
			Score:       fmt.Sprintf("%.2f", a.RelevanceScore),
		}
	}
	return rows
}

// BuildModel builds rows plus the summaries. themes may be nil.
func BuildModel(articles []models.Article, themes *models.Themes, st query.State, threshold float64, liked LikeChecker) Model {
	rows := Build(articles, st, threshold, liked)
	return Model{
		Rows:       rows,
		State:      st,
		Stats:      summarize(articles, rows, threshold),
		TagOptions: TagOptions(articles),
		Charts:     BuildCharts(themes),
		Threshold:  threshold,
	}
}

func displayDate(a models.Article) string {
	t := a.Instant()
	if t.IsZero() {
		return a.Date
	}
	return t.Format(displayDateFmt)
}

func summarize(articles []models.Article, rows []Row, threshold float64) Stats {
	s := Stats{Total: len(articles), Visible: len(rows)}
	for _, a := range articles {
		if a.RelevanceScore >= threshold {
			s.Recommended++
		}
	}
	var sum float64
	for _, r := range rows {
		if r.Liked {
			s.LikedVisible++
		}
		sum += r.Article.RelevanceScore
	}
	if len(rows) > 0 {
		s.AvgRelevance = sum / float64(len(rows))
	}
	return s
}

// TagOptions counts tag usage across articles, most used first. Ties keep
// the order in which tags were first seen.
func TagOptions(articles []models.Article) []TagOption {
	counts := map[string]int{}
	var order []string
	for _, a := range articles {
		for _, t := range a.Tags {
			if _, ok := counts[t]; !ok {
				order = append(order, t)
			}
			counts[t]++
		}
	}

	out := make([]TagOption, len(order))
	for i, t := range order {
		out[i] = TagOption{Tag: t, Count: counts[t]}
	}
	slices.SortStableFunc(out, func(a, b TagOption) int { return b.Count - a.Count })
	return out
}

// BuildCharts takes the first entries of each series as given; nil themes
// means no chart section.
func BuildCharts(themes *models.Themes) *Charts {
	if themes == nil {
		return nil
	}
	c := &Charts{Themes: []Bar{}, Solutions: []Bar{}}
	for _, t := range themes.Themes[:min(chartTopN, len(themes.Themes))] {
		c.Themes = append(c.Themes, Bar{Label: t.Name, Count: t.Count})
	}
	for _, s := range themes.TopSolutions[:min(chartTopN, len(themes.TopSolutions))] {
		c.Solutions = append(c.Solutions, Bar{Label: truncate(s.Text, chartLabelMax), Count: s.Count})
	}
	return c
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
