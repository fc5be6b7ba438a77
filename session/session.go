// Package session owns the page state: the loaded dataset, the query
// preferences and the like-set. Every event mutates one thing and returns a
// freshly recomputed view model.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"procurement-dashboard/likes"
	"procurement-dashboard/loader"
	"procurement-dashboard/metrics"
	"procurement-dashboard/models"
	"procurement-dashboard/query"
	"procurement-dashboard/view"
)

const (
	EventLoad          = "load"
	EventSearchChanged = "search_changed"
	EventTagChanged    = "tag_changed"
	EventRecommended   = "recommended_toggled"
	EventSortClicked   = "sort_column_clicked"
	EventLikeToggled   = "like_toggled"
)

// Session serialises events with a mutex, standing in for a single UI thread.
type Session struct {
	mu        sync.Mutex
	articles  []models.Article
	themes    *models.Themes
	state     query.State
	likes     *likes.Store
	threshold float64
	logger    *slog.Logger
}

type Option func(*Session)

func WithThreshold(th float64) Option {
	return func(s *Session) { s.threshold = th }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithState starts the session from st instead of the defaults.
func WithState(st query.State) Option {
	return func(s *Session) { s.state = st }
}

func New(ds *loader.Dataset, store *likes.Store, opts ...Option) *Session {
	s := &Session{
		articles:  ds.Articles,
		themes:    ds.Themes,
		state:     query.DefaultState(),
		likes:     store,
		threshold: query.DefaultThreshold,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a copy of the current preferences.
func (s *Session) State() query.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Threshold() float64 { return s.threshold }

// View recomputes the model without changing anything.
func (s *Session) View(ctx context.Context) view.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recompute(ctx, EventLoad)
}

func (s *Session) OnSearchChange(ctx context.Context, text string) view.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SetSearch(text)
	return s.recompute(ctx, EventSearchChanged)
}

func (s *Session) OnTagChange(ctx context.Context, tag string) view.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SetTag(tag)
	return s.recompute(ctx, EventTagChanged)
}

func (s *Session) OnRecommendedToggle(ctx context.Context, on bool) view.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SetOnlyRecommended(on)
	return s.recompute(ctx, EventRecommended)
}

// OnSortColumnClick rejects keys outside the sortable fields and leaves the
// state unchanged in that case.
func (s *Session) OnSortColumnClick(ctx context.Context, key query.SortKey) (view.Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.state.ClickColumn(key); err != nil {
		return view.Model{}, err
	}
	return s.recompute(ctx, EventSortClicked), nil
}

// OnLikeToggle flips the like for id. On a storage write failure the model
// is still recomputed and returned along with the error.
func (s *Session) OnLikeToggle(ctx context.Context, id string) (view.Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.likes.Toggle(ctx, id)
	if err != nil {
		s.logger.Error("like toggle failed", "id", id, "error", err)
	}
	return s.recompute(ctx, EventLikeToggled), err
}

func (s *Session) recompute(ctx context.Context, event string) view.Model {
	start := time.Now()
	m := view.BuildModel(s.articles, s.themes, s.state, s.threshold, s.likes.Load(ctx))
	elapsed := time.Since(start)

	metrics.RecordEvent(event, elapsed.Seconds(), len(m.Rows))
	s.logger.Debug("view recomputed",
		"event", event,
		"rows", len(m.Rows),
		"sort_key", s.state.SortKey,
		"sort_dir", s.state.SortDir,
		"duration", elapsed,
	)
	return m
}
