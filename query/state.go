// Package query holds the user's filter and sort preferences and the pure
// filter and sort functions that derive the visible rows from them.
package query

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownSortKey   = errors.New("unknown sort key")
	ErrUnknownDirection = errors.New("unknown sort direction")
)

type SortKey string

const (
	KeyID        SortKey = "id"
	KeyTitle     SortKey = "title"
	KeySource    SortKey = "source"
	KeySummary   SortKey = "summary"
	KeyURL       SortKey = "url"
	KeyDate      SortKey = "date"
	KeyRelevance SortKey = "relevance_score"
	KeyTags      SortKey = "tags"
)

var sortKeys = []SortKey{KeyID, KeyTitle, KeySource, KeySummary, KeyURL, KeyDate, KeyRelevance, KeyTags}

// SortKeys lists every sortable article field.
func SortKeys() []SortKey {
	out := make([]SortKey, len(sortKeys))
	copy(out, sortKeys)
	return out
}

func ParseSortKey(s string) (SortKey, error) {
	for _, k := range sortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Asc, Desc:
		return Direction(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

func (d Direction) Flip() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// State is the current filter and sort preference record. Fields are only
// changed through the setters, which keep SortKey and SortDir inside their
// enums.
type State struct {
	SortKey         SortKey   `json:"sort_key"`
	SortDir         Direction `json:"sort_dir"`
	Search          string    `json:"search"`
	Tag             string    `json:"tag"`
	OnlyRecommended bool      `json:"only_recommended"`
}

func DefaultState() State {
	return State{SortKey: KeyDate, SortDir: Desc}
}

func (s *State) SetSearch(text string) { s.Search = text }

func (s *State) SetTag(tag string) { s.Tag = tag }

func (s *State) SetOnlyRecommended(on bool) { s.OnlyRecommended = on }

// ClickColumn applies a column header click. Clicking the active column
// flips the direction; any other column becomes active, descending.
func (s *State) ClickColumn(key SortKey) error {
	if _, err := ParseSortKey(string(key)); err != nil {
		return err
	}
	if s.SortKey == key {
		s.SortDir = s.SortDir.Flip()
		return nil
	}
	s.SortKey = key
	s.SortDir = Desc
	return nil
}
