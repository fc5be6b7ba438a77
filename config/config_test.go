package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, ":8090", cfg.Server.Addr)
	assert.Equal(t, "data/articles.json", cfg.Data.Articles)
	assert.Equal(t, "site/articles.sample.json", cfg.Data.ArticlesFallback)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "likedArticles", cfg.Storage.Key)
	assert.Equal(t, 0.35, cfg.Filter.RecommendThreshold)
	assert.Equal(t, 800, cfg.Crawl.MinChars)
	assert.Equal(t, "gpt-4o-mini", cfg.Crawl.AI.Model)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
  cors_origins: ["http://localhost:5173"]
storage:
  driver: memory
filter:
  recommend_threshold: 0.5
crawl:
  feeds:
    - name: NAO
      url: https://www.nao.org.uk/feed/
  keywords:
    problems: [delays, cost overrun]
    solutions: [open standards]
`), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 0.5, cfg.Filter.RecommendThreshold)
	require.Len(t, cfg.Crawl.Feeds, 1)
	assert.Equal(t, Feed{Name: "NAO", URL: "https://www.nao.org.uk/feed/"}, cfg.Crawl.Feeds[0])
	assert.Equal(t, []string{"delays", "cost overrun"}, cfg.Crawl.Keywords.Problems)
}

func TestLoad_EnvAndFlags(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DASHBOARD_SERVER_ADDR", ":7000")
	t.Setenv("DASHBOARD_STORAGE_KEY", "likes.v2")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("addr", "", "")
	fs.Float64("threshold", 0.35, "")
	require.NoError(t, fs.Parse([]string{"--threshold", "0.6"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Addr, "unset flag does not override env")
	assert.Equal(t, "likes.v2", cfg.Storage.Key)
	assert.Equal(t, 0.6, cfg.Filter.RecommendThreshold)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Storage: StorageConfig{Driver: "sqlite", SQLitePath: "x.db", Key: "likedArticles"},
			Filter:  FilterConfig{RecommendThreshold: 0.35},
			Logging: LoggingConfig{Format: "text"},
		}
	}
	require.NoError(t, Validate(valid()))

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown driver", func(c *Config) { c.Storage.Driver = "etcd" }, "unknown storage.driver"},
		{"redis without url", func(c *Config) { c.Storage.Driver = "redis" }, "redis_url"},
		{"sqlite without path", func(c *Config) { c.Storage.SQLitePath = "" }, "sqlite_path"},
		{"empty key", func(c *Config) { c.Storage.Key = "" }, "storage.key"},
		{"threshold too high", func(c *Config) { c.Filter.RecommendThreshold = 1.5 }, "out of range"},
		{"threshold negative", func(c *Config) { c.Filter.RecommendThreshold = -0.1 }, "out of range"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"feed without url", func(c *Config) { c.Crawl.Feeds = []Feed{{Name: "x"}} }, "crawl.feeds[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAIConfig_Key(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")

	assert.Equal(t, "env-key", AIConfig{}.Key())
	assert.Equal(t, "cfg-key", AIConfig{APIKey: "cfg-key"}.Key())
}
