package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"procurement-dashboard/output"
	"procurement-dashboard/query"
	"procurement-dashboard/session"
	"procurement-dashboard/view"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Print the article table",
	Long: `Print the article table as the dashboard would show it.

Each --sort is applied as a click on that column header: a new column sorts
descending, clicking the same column again flips the direction.

Examples:
  dashboard view
  dashboard view --search tender --tag delay
  dashboard view --recommended --sort relevance_score --sort relevance_score
  dashboard view --json`,
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().String("search", "", "case-insensitive text filter")
	viewCmd.Flags().String("tag", "", "only articles carrying this tag")
	viewCmd.Flags().Bool("recommended", false, "only articles at or above the threshold")
	viewCmd.Flags().StringArray("sort", nil, "click a column header (repeatable): "+sortKeyList())
	viewCmd.Flags().Bool("json", false, "output the view model as JSON")
	viewCmd.Flags().Bool("no-color", false, "disable colours")
}

func runView(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	search, _ := cmd.Flags().GetString("search")
	tag, _ := cmd.Flags().GetString("tag")
	recommended, _ := cmd.Flags().GetBool("recommended")
	sorts, _ := cmd.Flags().GetStringArray("sort")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")

	st := query.DefaultState()
	st.SetSearch(search)
	st.SetTag(tag)
	st.SetOnlyRecommended(recommended)
	for _, s := range sorts {
		key, err := query.ParseSortKey(s)
		if err != nil {
			return fmt.Errorf("%w (want one of %s)", err, sortKeyList())
		}
		if err := st.ClickColumn(key); err != nil {
			return err
		}
	}

	ds, err := loadDataset(ctx)
	if err != nil {
		return err
	}
	store, closer, err := openLikes()
	if err != nil {
		return fmt.Errorf("opening like storage: %w", err)
	}
	defer closer.Close()

	sess := session.New(ds, store,
		session.WithThreshold(cfg.Filter.RecommendThreshold),
		session.WithLogger(logger),
		session.WithState(st),
	)
	m := sess.View(ctx)

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}

	printer := output.NewPrinter(cmd.OutOrStdout(), output.ResolveColors(noColor))
	return printModel(printer, m)
}

func printModel(p *output.Printer, m view.Model) error {
	p.Header("Articles: %d of %d shown, %d recommended, %d liked, avg relevance %.2f",
		m.Stats.Visible, m.Stats.Total, m.Stats.Recommended, m.Stats.LikedVisible, m.Stats.AvgRelevance)
	p.Line("sorted by %s %s", m.State.SortKey, m.State.SortDir)

	if len(m.Rows) == 0 {
		p.Warn("no articles match the current filters")
		return nil
	}

	tbl := output.NewTable(p.Out(), []string{"", "date", "title", "source", "score", "tags", "id"})
	for _, r := range m.Rows {
		tbl.AddRow([]string{
			p.Star(r.Liked),
			r.DisplayDate,
			r.Article.DisplayTitle(),
			r.Article.Source,
			p.Score(r.Score, r.Article.RelevanceScore >= m.Threshold),
			strings.Join(r.Article.Tags, ", "),
			r.Article.ID,
		})
	}
	return tbl.Render()
}

func sortKeyList() string {
	keys := query.SortKeys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
