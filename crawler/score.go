package crawler

import (
	"math"
	"net/url"
	"sort"
	"strings"
	"time"

	"procurement-dashboard/config"
)

var baseKeywords = []string{
	"defence procurement", "defense procurement", "acquisition", "tender", "contracting",
	"de&s", "industrial base", "nao", "equipment plan", "ssro", "single source",
}

// Meta is what is known about an item before its text is scored.
type Meta struct {
	Title string
	URL   string
	Date  time.Time
}

// Score rates relevance in [-1, 1], rounded to three decimals.
func Score(meta Meta, text string, cfg config.CrawlConfig, now time.Time) float64 {
	title := strings.ToLower(meta.Title)
	host := ""
	if u, err := url.Parse(strings.ToLower(meta.URL)); err == nil {
		host = u.Hostname()
	}
	content := strings.ToLower(text)

	score := 0.0
	for _, d := range cfg.PreferDomains {
		if strings.Contains(host, strings.ToLower(d)) {
			score += 0.08
		}
	}
	for _, k := range baseKeywords {
		if strings.Contains(title, k) {
			score += 0.10
		}
		if strings.Contains(content, k) {
			score += 0.06
		}
	}
	for _, k := range cfg.Keywords.Problems {
		if strings.Contains(content, strings.ToLower(k)) {
			score += 0.02
		}
	}
	for _, k := range cfg.Keywords.Solutions {
		if strings.Contains(content, strings.ToLower(k)) {
			score += 0.02
		}
	}

	minChars := cfg.MinChars
	if minChars <= 0 {
		minChars = 800
	}
	if len(content) >= minChars {
		score += 0.10
	} else {
		score -= 0.08
	}

	if !meta.Date.IsZero() {
		recDays := cfg.PreferRecencyDays
		if recDays <= 0 {
			recDays = 365
		}
		ageDays := int(now.Sub(meta.Date).Hours() / 24)
		if ageDays <= recDays {
			score += 0.06
		} else {
			score -= 0.04
		}
	}

	score = math.Max(-1, math.Min(1, score))
	return math.Round(score*1000) / 1000
}

// Tags returns the configured keywords found in text, sorted.
func Tags(text string, kw config.Keywords) []string {
	content := strings.ToLower(text)
	set := map[string]struct{}{}
	for _, list := range [][]string{kw.Problems, kw.Solutions} {
		for _, k := range list {
			if strings.Contains(content, strings.ToLower(k)) {
				set[k] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
