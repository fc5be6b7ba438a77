// Package likes persists the set of liked article ids under one key of a
// key-value surface. Reads never fail: missing or corrupt data is an empty set.
package likes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"procurement-dashboard/metrics"
)

// DefaultKey is the storage key the like-set lives under.
const DefaultKey = "likedArticles"

var (
	errNotFound = errors.New("like-set not stored")
	errSurface  = errors.New("surface read failed")
)

// Surface is the key-value persistence the store reads and writes.
type Surface interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

type Store struct {
	surface Surface
	key     string
	logger  *slog.Logger
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func New(surface Surface, key string, opts ...Option) *Store {
	if key == "" {
		key = DefaultKey
	}
	s := &Store{surface: surface, key: key, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Key() string { return s.key }

// Load reads the persisted set. Any failure collapses to an empty set.
func (s *Store) Load(ctx context.Context) Set {
	set, err := s.load(ctx)
	if err != nil {
		reason := "corrupt"
		switch {
		case errors.Is(err, errNotFound):
			reason = "missing"
		case errors.Is(err, errSurface):
			reason = "surface"
		}
		if reason != "missing" {
			metrics.RecordStorageRecovery(reason)
			s.logger.Debug("like-set unreadable, using empty set", "key", s.key, "reason", reason, "error", err)
		}
		return NewSet()
	}
	return set
}

func (s *Store) load(ctx context.Context) (Set, error) {
	raw, found, err := s.surface.Get(ctx, s.key)
	if err != nil {
		return Set{}, fmt.Errorf("%w: %w", errSurface, err)
	}
	if !found {
		return Set{}, errNotFound
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return Set{}, fmt.Errorf("decoding %s: %w", s.key, err)
	}
	return NewSet(ids...), nil
}

func (s *Store) IsLiked(ctx context.Context, id string) bool {
	return s.Load(ctx).Has(id)
}

// Toggle flips membership of id and writes the whole set back. It reports
// the new membership; only a failed write is returned as an error.
func (s *Store) Toggle(ctx context.Context, id string) (bool, error) {
	set := s.Load(ctx)
	liked := set.Toggle(id)

	raw, err := json.Marshal(set.IDs())
	if err != nil {
		return !liked, fmt.Errorf("encoding %s: %w", s.key, err)
	}
	if err := s.surface.Set(ctx, s.key, string(raw)); err != nil {
		metrics.RecordLikeToggle("error")
		return !liked, fmt.Errorf("writing %s: %w", s.key, err)
	}

	if liked {
		metrics.RecordLikeToggle("liked")
	} else {
		metrics.RecordLikeToggle("unliked")
	}
	s.logger.Debug("like toggled", "id", id, "liked", liked)
	return liked, nil
}
