package crawler

import (
	"sort"
	"time"

	"procurement-dashboard/models"
)

const themesLimit = 50

// BuildThemes counts tags and solutions across articles. Each series holds
// the 50 most common entries; equal counts keep first-seen order.
func BuildThemes(articles []models.Article, now time.Time) models.Themes {
	tags := newCounter()
	sols := newCounter()
	for _, a := range articles {
		for _, t := range a.Tags {
			tags.add(t)
		}
		for _, s := range a.Solutions {
			sols.add(s)
		}
	}

	th := models.Themes{
		Updated:      now.UTC().Format("2006-01-02T15:04:05.000000") + "Z",
		Themes:       []models.ThemeCount{},
		TopSolutions: []models.SolutionCount{},
	}
	for _, k := range tags.mostCommon(themesLimit) {
		th.Themes = append(th.Themes, models.ThemeCount{Name: k, Count: tags.counts[k]})
	}
	for _, k := range sols.mostCommon(themesLimit) {
		th.TopSolutions = append(th.TopSolutions, models.SolutionCount{Text: k, Count: sols.counts[k]})
	}
	return th
}

type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(k string) {
	if _, ok := c.counts[k]; !ok {
		c.order = append(c.order, k)
	}
	c.counts[k]++
}

func (c *counter) mostCommon(n int) []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	sort.SliceStable(keys, func(i, j int) bool { return c.counts[keys[i]] > c.counts[keys[j]] })
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
