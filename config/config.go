// Package config provides Viper-based configuration for the dashboard.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config represents the complete dashboard configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Data    DataConfig    `mapstructure:"data"`
	Site    SiteConfig    `mapstructure:"site"`
	Storage StorageConfig `mapstructure:"storage"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
	Crawl   CrawlConfig   `mapstructure:"crawl"`
}

type ServerConfig struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// DataConfig locates the dataset documents. Each may be a path or an
// http(s) URL; the fallbacks are tried when the primary cannot be read.
type DataConfig struct {
	Dir              string `mapstructure:"dir"`
	Articles         string `mapstructure:"articles"`
	ArticlesFallback string `mapstructure:"articles_fallback"`
	Themes           string `mapstructure:"themes"`
	ThemesFallback   string `mapstructure:"themes_fallback"`
}

type SiteConfig struct {
	Dir string `mapstructure:"dir"`
}

// StorageConfig selects the like-set persistence surface
type StorageConfig struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
	RedisURL   string `mapstructure:"redis_url"`
	Key        string `mapstructure:"key"`
}

type FilterConfig struct {
	RecommendThreshold float64 `mapstructure:"recommend_threshold"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CrawlConfig drives the feed crawler that produces the dataset documents
type CrawlConfig struct {
	Feeds             []Feed   `mapstructure:"feeds"`
	Keywords          Keywords `mapstructure:"keywords"`
	PreferDomains     []string `mapstructure:"prefer_domains"`
	ExcludeTerms      []string `mapstructure:"exclude_terms"`
	MinChars          int      `mapstructure:"min_chars"`
	PreferRecencyDays int      `mapstructure:"prefer_recency_days"`
	AI                AIConfig `mapstructure:"ai"`
}

type Feed struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

type Keywords struct {
	Problems  []string `mapstructure:"problems"`
	Solutions []string `mapstructure:"solutions"`
}

type AIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// Key returns the configured API key, falling back to OPENAI_API_KEY.
func (a AIConfig) Key() string {
	if a.APIKey != "" {
		return a.APIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"addr":      "server.addr",
	"articles":  "data.articles",
	"themes":    "data.themes",
	"storage":   "storage.driver",
	"db":        "storage.sqlite_path",
	"redis-url": "storage.redis_url",
	"threshold": "filter.recommend_threshold",
	"log-level": "logging.level",
	"data-dir":  "data.dir",
	"site-dir":  "site.dir",
}

// Load reads configuration from file, environment and flags, in increasing
// order of precedence. A missing default config file is not an error.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".dashboard")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/dashboard")
	}

	v.SetEnvPrefix("DASHBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8090")
	v.SetDefault("server.cors_origins", []string{})

	v.SetDefault("data.dir", "data")
	v.SetDefault("data.articles", "data/articles.json")
	v.SetDefault("data.articles_fallback", "site/articles.sample.json")
	v.SetDefault("data.themes", "data/themes.json")
	v.SetDefault("data.themes_fallback", "site/themes.sample.json")
	v.SetDefault("site.dir", "site")

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.sqlite_path", "data/dashboard.db")
	v.SetDefault("storage.redis_url", "")
	v.SetDefault("storage.key", "likedArticles")

	v.SetDefault("filter.recommend_threshold", 0.35)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("crawl.min_chars", 800)
	v.SetDefault("crawl.prefer_recency_days", 365)
	v.SetDefault("crawl.ai.model", "gpt-4o-mini")
	v.SetDefault("crawl.ai.base_url", "")
	v.SetDefault("crawl.ai.api_key", "")
}

// Validate checks the configuration for invalid values
func Validate(cfg *Config) error {
	switch cfg.Storage.Driver {
	case "sqlite":
		if cfg.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path is required for the sqlite driver")
		}
	case "redis":
		if cfg.Storage.RedisURL == "" {
			return errors.New("storage.redis_url is required for the redis driver")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown storage.driver %q (want sqlite, redis or memory)", cfg.Storage.Driver)
	}

	if cfg.Storage.Key == "" {
		return errors.New("storage.key must not be empty")
	}

	if th := cfg.Filter.RecommendThreshold; th < 0 || th > 1 {
		return fmt.Errorf("filter.recommend_threshold %v out of range [0,1]", th)
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown logging.format %q (want text or json)", cfg.Logging.Format)
	}

	for i, f := range cfg.Crawl.Feeds {
		if f.URL == "" {
			return fmt.Errorf("crawl.feeds[%d] has no url", i)
		}
	}

	return nil
}
