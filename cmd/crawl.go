package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"procurement-dashboard/crawler"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Refresh the dataset documents from the configured feeds",
	Long: `Read every feed under crawl.feeds, score and tag the new articles and
merge them into <data-dir>/articles.json. themes.json is rebuilt from the
merged collection.

An OpenAI-compatible endpoint summarises articles when crawl.ai.api_key or
OPENAI_API_KEY is set; otherwise summaries are extractive.`,
	Args: cobra.NoArgs,
	RunE: runCrawl,
}

func init() {
	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, args []string) error {
	return crawl(cmd)
}

func crawl(cmd *cobra.Command) error {
	if len(cfg.Crawl.Feeds) == 0 {
		return errors.New("no feeds configured under crawl.feeds")
	}

	existing := crawler.ReadArticles(filepath.Join(cfg.Data.Dir, crawler.ArticlesFile))
	c := crawler.New(cfg.Crawl, crawler.WithLogger(logger))

	res, err := c.Run(cmd.Context(), existing)
	if err != nil {
		return fmt.Errorf("crawling: %w", err)
	}
	if err := crawler.WriteDocuments(cfg.Data.Dir, res.Articles, res.Themes); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d new, %d total, %d feed errors -> %s\n",
		res.Added, len(res.Articles), len(res.FeedErrors), cfg.Data.Dir)
	return nil
}
