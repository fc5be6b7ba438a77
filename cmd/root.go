// Package cmd contains the dashboard CLI: the HTTP server, a terminal view
// of the same table, like-set maintenance and the dataset crawler.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"procurement-dashboard/config"
	"procurement-dashboard/database"
	"procurement-dashboard/likes"
	"procurement-dashboard/loader"
	applog "procurement-dashboard/logger"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Defence procurement article dashboard",
	Long: `dashboard serves a filterable, sortable table of scored articles about
defence procurement, with likes that persist between visits.

Example usage:
  dashboard serve                      # Serve the dashboard on :8090
  dashboard view --recommended         # Print recommended articles
  dashboard view --sort date --sort date
  dashboard likes toggle <id>          # Like or unlike an article
  dashboard crawl                      # Refresh data/articles.json and themes.json
  dashboard build                      # Crawl, then publish the documents to site/`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is .dashboard.yaml)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("articles", "", "articles document path or URL")
	pf.String("themes", "", "themes document path or URL")
	pf.String("storage", "", "like-set storage: sqlite, redis or memory")
	pf.String("db", "", "sqlite database path")
	pf.String("redis-url", "", "redis URL for the redis storage driver")
	pf.Float64("threshold", 0, "relevance score at or above which an article is recommended")
	pf.String("data-dir", "", "directory the crawler writes documents to")
	pf.String("site-dir", "", "directory build publishes documents to")
}

func initConfig(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading .env: %w", err)
	}

	var err error
	cfg, err = config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger = applog.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	logger.Debug("configuration loaded",
		"articles", cfg.Data.Articles,
		"themes", cfg.Data.Themes,
		"storage", cfg.Storage.Driver,
		"threshold", cfg.Filter.RecommendThreshold,
	)
	return nil
}

// loadDataset reads the articles and themes documents named by the config.
func loadDataset(ctx context.Context) (*loader.Dataset, error) {
	return loader.Load(ctx, loader.Config{
		Articles:         sourceFor(cfg.Data.Articles),
		ArticlesFallback: sourceFor(cfg.Data.ArticlesFallback),
		Themes:           sourceFor(cfg.Data.Themes),
		ThemesFallback:   sourceFor(cfg.Data.ThemesFallback),
		Logger:           logger,
	})
}

func sourceFor(location string) loader.Source {
	if location == "" {
		return nil
	}
	return loader.SourceFor(location)
}

// openLikes opens the configured storage surface. The returned closer
// releases it.
func openLikes() (*likes.Store, io.Closer, error) {
	var (
		surface likes.Surface
		closer  io.Closer = nopCloser{}
	)

	switch cfg.Storage.Driver {
	case "sqlite":
		db, err := database.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		surface = database.NewSQLiteKV(db)
		closer = closerFunc(func() error { return database.Close(db) })
	case "redis":
		kv, err := database.NewRedisKVWithURL(cfg.Storage.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		surface = kv
		closer = kv
	case "memory":
		surface = likes.NewMemorySurface()
	default:
		return nil, nil, errors.New("unknown storage driver " + cfg.Storage.Driver)
	}

	logger.Debug("like storage opened", "driver", cfg.Storage.Driver, "key", cfg.Storage.Key)
	return likes.New(surface, cfg.Storage.Key, likes.WithLogger(logger)), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
