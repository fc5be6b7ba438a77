package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"procurement-dashboard/crawler"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Crawl, then publish the dataset documents to the site directory",
	Args:  cobra.NoArgs,
	RunE:  runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().Bool("skip-crawl", false, "publish the current documents without crawling")
}

func runBuild(cmd *cobra.Command, args []string) error {
	skip, _ := cmd.Flags().GetBool("skip-crawl")
	if !skip {
		if err := crawl(cmd); err != nil {
			return err
		}
	}

	copied, err := crawler.Publish(cfg.Data.Dir, cfg.Site.Dir)
	if err != nil {
		return fmt.Errorf("publishing: %w", err)
	}
	if len(copied) == 0 {
		return fmt.Errorf("nothing to publish in %s", cfg.Data.Dir)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "published %s -> %s\n", strings.Join(copied, ", "), cfg.Site.Dir)
	return nil
}
