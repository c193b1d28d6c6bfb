package cli

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abfi/biolens/internal/api"
	"github.com/abfi/biolens/internal/charts"
)

// trendDays is the sentiment trend window shown under the index.
const trendDays = 30

// defaultFeedLimit caps the document feed listing.
const defaultFeedLimit = 20

// newSentimentCmd creates the sentiment command group.
func newSentimentCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "sentiment", Short: "Lending sentiment intelligence"}
	cmd.AddCommand(newSentimentIndexCmd(), newSentimentLendersCmd(), newSentimentFeedCmd())
	return cmd
}

func newSentimentIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Today's lending sentiment index with trend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			var (
				idx   *api.SentimentIndex
				trend []api.SentimentTrend
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var gErr error
				idx, gErr = client.CurrentSentimentIndex(ctx)
				return gErr
			})
			g.Go(func() error {
				var gErr error
				trend, gErr = client.SentimentTrendSeries(ctx, trendDays)
				return gErr
			})
			if err := g.Wait(); err != nil {
				return err
			}

			cmd.Printf("overall index %+.1f (%s)\n", idx.OverallIndex, idx.Date)
			cmd.Printf("daily %+.1f  weekly %+.1f  monthly %+.1f\n",
				idx.DailyChange, idx.WeeklyChange, idx.MonthlyChange)
			cmd.Printf("%d bullish / %d bearish / %d neutral across %d documents\n",
				idx.BullishCount, idx.BearishCount, idx.NeutralCount, idx.DocumentsAnalyzed)

			fear := idx.FearComponents
			cmd.Println()
			cmd.Println(charts.BarChart([]charts.BarItem{
				{Label: "Regulatory", Value: fear.RegulatoryRisk},
				{Label: "Technology", Value: fear.TechnologyRisk},
				{Label: "Feedstock", Value: fear.FeedstockRisk},
				{Label: "Counterparty", Value: fear.CounterpartyRisk},
				{Label: "Market", Value: fear.MarketRisk},
				{Label: "ESG", Value: fear.ESGConcerns},
			}, 24, charts.BullishStyle))

			if len(trend) > 0 {
				net := make([]float64, len(trend))
				for i, p := range trend {
					net[i] = p.NetSentiment
				}
				cmd.Printf("\n%dd net sentiment %s\n", trendDays, charts.Sparkline(net))
			}
			return nil
		},
	}
}

func newSentimentLendersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lenders",
		Short: "Per-lender sentiment scores",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			scores, err := client.LenderScores(cmd.Context())
			if err != nil {
				return err
			}

			for _, s := range scores {
				cmd.Printf("%-28s %+6.1f  %+5.1f 30d  %3d docs  %s\n",
					s.Lender, s.Sentiment, s.Change30D, s.Documents, charts.Sparkline(s.Trend))
			}
			return nil
		},
	}
}

func newSentimentFeedCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Recent analyzed documents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			feed, err := client.DocumentFeed(cmd.Context(), limit)
			if err != nil {
				return err
			}

			for _, item := range feed {
				cmd.Printf("%-7s %+5.2f  %s  %s (%s)\n",
					item.Sentiment, item.SentimentScore, item.PublishedDate, item.Title, item.Source)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultFeedLimit, "maximum documents to list")
	return cmd
}
