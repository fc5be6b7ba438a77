package models

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Article is one item of the articles document. Optional fields decode to
// their zero value: empty strings, a zero score and no tags.
type Article struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Source         string   `json:"source"`
	Summary        string   `json:"summary"`
	URL            string   `json:"url"`
	Date           string   `json:"date"`
	RelevanceScore float64  `json:"relevance_score"`
	Tags           []string `json:"tags"`
	Solutions      []string `json:"solutions,omitempty"`
	ContentHash    string   `json:"content_hash,omitempty"`
	ContentLength  int      `json:"content_length,omitempty"`
}

// Instant parses Date. Dates that cannot be parsed yield the zero time, which
// orders before every real date.
func (a Article) Instant() time.Time {
	return ParseDate(a.Date)
}

// HasTag reports exact, case-sensitive membership of tag.
func (a Article) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (a Article) DisplayTitle() string {
	if strings.TrimSpace(a.Title) == "" {
		return "(untitled)"
	}
	return a.Title
}

// ParseDate accepts any layout dateparse understands. Values without a zone
// are read as UTC.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}
