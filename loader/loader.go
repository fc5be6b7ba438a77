// Package loader acquires the dataset documents: the primary source first,
// then the fallback. If both fail the load fails; nothing is substituted.
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"procurement-dashboard/metrics"
	"procurement-dashboard/models"
)

var ErrLoadFailed = errors.New("dataset load failed")

type Config struct {
	Articles         Source
	ArticlesFallback Source
	Themes           Source
	ThemesFallback   Source
	Logger           *slog.Logger
}

// Dataset is the loaded input of the core. Themes is nil when neither themes
// source could be read.
type Dataset struct {
	Articles []models.Article
	Themes   *models.Themes
}

// Attempt decodes the primary source, then the fallback. Fetch and decode
// errors of both are joined under ErrLoadFailed.
func Attempt[T any](ctx context.Context, document string, primary, fallback Source) (T, Source, error) {
	var errs []error
	for _, src := range []Source{primary, fallback} {
		if src == nil {
			continue
		}
		v, err := fetchJSON[T](ctx, src)
		if err == nil {
			metrics.RecordDatasetLoad(document, src.String(), "ok")
			return v, src, nil
		}
		metrics.RecordDatasetLoad(document, src.String(), "error")
		errs = append(errs, fmt.Errorf("%s: %w", src, err))
	}
	if len(errs) == 0 {
		errs = append(errs, errors.New("no source configured"))
	}
	var zero T
	return zero, nil, fmt.Errorf("%w: %s: %w", ErrLoadFailed, document, errors.Join(errs...))
}

func fetchJSON[T any](ctx context.Context, src Source) (T, error) {
	var v T
	raw, err := src.Fetch(ctx)
	if err != nil {
		return v, err
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return v, errors.New("document is null")
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decoding: %w", err)
	}
	return v, nil
}

// Load fetches both documents concurrently. A missing themes document is
// logged and tolerated; a missing articles document fails the load.
func Load(ctx context.Context, cfg Config) (*Dataset, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var (
		articles []models.Article
		themes   *models.Themes
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, src, err := Attempt[[]models.Article](gctx, "articles", cfg.Articles, cfg.ArticlesFallback)
		if err != nil {
			return err
		}
		articles = v
		logger.Info("articles loaded", "source", src.String(), "count", len(articles))
		return nil
	})
	g.Go(func() error {
		v, src, err := Attempt[models.Themes](gctx, "themes", cfg.Themes, cfg.ThemesFallback)
		if err != nil {
			logger.Warn("themes unavailable, charts disabled", "error", err)
			return nil
		}
		themes = &v
		logger.Info("themes loaded", "source", src.String(), "themes", len(themes.Themes))
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if articles == nil {
		articles = []models.Article{}
	}
	return &Dataset{Articles: articles, Themes: themes}, nil
}
