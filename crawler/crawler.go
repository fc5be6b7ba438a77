// Package crawler produces the dataset documents the dashboard loads: it
// reads the configured feeds, scores and tags each new article, and counts
// themes and proposed solutions across the whole collection.
package crawler

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"procurement-dashboard/config"
	"procurement-dashboard/metrics"
	"procurement-dashboard/models"
)

const (
	userAgent    = "Mozilla/5.0 (defence-proc-monitor)"
	minTextChars = 400
	summaryLen   = 5
	feedWorkers  = 4
	dateLayout   = "2006-01-02T15:04:05-07:00"
)

type Crawler struct {
	cfg        config.CrawlConfig
	parser     *gofeed.Parser
	client     *http.Client
	summarizer Summarizer
	logger     *slog.Logger
	now        func() time.Time
}

type Option func(*Crawler)

func WithSummarizer(s Summarizer) Option {
	return func(c *Crawler) { c.summarizer = s }
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Crawler) { c.client = client }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Crawler) { c.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(c *Crawler) { c.now = now }
}

func New(cfg config.CrawlConfig, opts ...Option) *Crawler {
	c := &Crawler{
		cfg:    cfg,
		client: &http.Client{Timeout: 20 * time.Second},
		logger: slog.Default(),
		now:    time.Now,
	}
	if s := NewLLMSummarizer(cfg.AI); s != nil {
		c.summarizer = s
	}
	for _, opt := range opts {
		opt(c)
	}
	c.parser = gofeed.NewParser()
	c.parser.Client = c.client
	c.parser.UserAgent = userAgent
	return c
}

// Result is the merged collection after a crawl.
type Result struct {
	Articles   []models.Article
	Themes     models.Themes
	Added      int
	FeedErrors []error
}

type entry struct {
	title  string
	link   string
	source string
	date   time.Time
	html   string
	desc   string
}

// Run crawls every feed and merges new articles into existing. Feed failures
// are collected in the result rather than aborting the crawl.
func (c *Crawler) Run(ctx context.Context, existing []models.Article) (*Result, error) {
	seenURLs := map[string]struct{}{}
	seenHashes := map[string]struct{}{}
	for _, a := range existing {
		seenURLs[a.URL] = struct{}{}
		if a.ContentHash != "" {
			seenHashes[a.ContentHash] = struct{}{}
		}
	}

	entries, feedErrs := c.collect(ctx, seenURLs)

	var processed []models.Article
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a, ok := c.process(ctx, e, seenHashes)
		if !ok {
			continue
		}
		processed = append(processed, a)
	}

	all := make([]models.Article, 0, len(existing)+len(processed))
	all = append(all, existing...)
	all = append(all, processed...)
	slices.SortStableFunc(all, func(a, b models.Article) int {
		return b.Instant().Compare(a.Instant())
	})

	c.logger.Info("crawl finished", "new", len(processed), "total", len(all), "feed_errors", len(feedErrs))
	return &Result{
		Articles:   all,
		Themes:     BuildThemes(all, c.now()),
		Added:      len(processed),
		FeedErrors: feedErrs,
	}, nil
}

func (c *Crawler) collect(ctx context.Context, seenURLs map[string]struct{}) ([]entry, []error) {
	var (
		mu      sync.Mutex
		perFeed = make([][]entry, len(c.cfg.Feeds))
		errs    []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(feedWorkers)
	for i, f := range c.cfg.Feeds {
		i, f := i, f
		g.Go(func() error {
			entries, err := c.fetchFeed(gctx, f, seenURLs)
			if err != nil {
				c.logger.Warn("feed failed", "feed", f.Name, "url", f.URL, "error", err)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return nil
			}
			perFeed[i] = entries
			return nil
		})
	}
	_ = g.Wait()

	// Feed order is kept so runs are reproducible; a link seen in two feeds
	// is taken from the first.
	var out []entry
	taken := map[string]struct{}{}
	for _, entries := range perFeed {
		for _, e := range entries {
			if _, dup := taken[e.link]; dup {
				continue
			}
			taken[e.link] = struct{}{}
			out = append(out, e)
		}
	}
	return out, errs
}

func (c *Crawler) fetchFeed(ctx context.Context, f config.Feed, seenURLs map[string]struct{}) ([]entry, error) {
	feed, err := c.parser.ParseURLWithContext(f.URL, ctx)
	if err != nil {
		metrics.RecordFeedFetch("error")
		return nil, fmt.Errorf("fetching %s: %w", f.Name, err)
	}
	metrics.RecordFeedFetch("ok")

	var out []entry
	for _, item := range feed.Items {
		link := item.Link
		if link == "" {
			link = item.GUID
		}
		if link == "" {
			continue
		}
		if _, seen := seenURLs[link]; seen {
			continue
		}
		title := normText(item.Title)
		if c.excluded(title, link) {
			continue
		}
		out = append(out, entry{
			title:  title,
			link:   link,
			source: f.Name,
			date:   c.itemDate(item),
			html:   item.Content,
			desc:   item.Description,
		})
	}
	return out, nil
}

func (c *Crawler) excluded(title, link string) bool {
	hay := strings.ToLower(title + " " + link)
	for _, t := range c.cfg.ExcludeTerms {
		if strings.Contains(hay, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

func (c *Crawler) itemDate(item *gofeed.Item) time.Time {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.UTC()
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.UTC()
	}
	if t := models.ParseDate(item.Published); !t.IsZero() {
		return t.UTC()
	}
	return c.now().UTC()
}

func (c *Crawler) process(ctx context.Context, e entry, seenHashes map[string]struct{}) (models.Article, bool) {
	html := e.html
	if html == "" {
		page, err := c.fetchPage(ctx, e.link)
		if err != nil {
			c.logger.Debug("page fetch failed, using feed description", "url", e.link, "error", err)
			page = e.desc
		}
		html = page
	}

	text := ExtractText(html)
	if len(text) < minTextChars {
		metrics.RecordCrawlItem("too_short")
		return models.Article{}, false
	}
	hash := ContentHash(text)
	if _, dup := seenHashes[hash]; dup {
		metrics.RecordCrawlItem("duplicate")
		return models.Article{}, false
	}
	seenHashes[hash] = struct{}{}
	metrics.RecordCrawlItem("added")

	summary := Summarize(text, summaryLen)
	if c.summarizer != nil {
		if s, err := c.summarizer.Summarize(ctx, text); err != nil {
			c.logger.Warn("summarizer failed, using extractive summary", "url", e.link, "error", err)
		} else if s != "" {
			summary = s
		}
	}

	title := e.title
	if title == "" {
		title = string([]rune(text)[:min(90, len([]rune(text)))]) + "…"
	}

	return models.Article{
		ID:             articleID(e.link),
		Title:          title,
		URL:            e.link,
		Source:         e.source,
		Date:           e.date.Format(dateLayout),
		Summary:        summary,
		RelevanceScore: Score(Meta{Title: e.title, URL: e.link, Date: e.date}, text, c.cfg, c.now()),
		Tags:           Tags(text, c.cfg.Keywords),
		Solutions:      Solutions(text),
		ContentHash:    hash,
		ContentLength:  len(text),
	}, true
}

func (c *Crawler) fetchPage(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GET %s: status %d", link, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func articleID(link string) string {
	h := md5.Sum([]byte(link))
	return hex.EncodeToString(h[:])
}
