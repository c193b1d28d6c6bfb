package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abfi/biolens/internal/api"
	"github.com/abfi/biolens/internal/charts"
)

// newPolicyCmd creates the policy command group.
func newPolicyCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "policy", Short: "Policy and mandate intelligence"}
	cmd.AddCommand(
		newPolicyKPIsCmd(), newPolicyTimelineCmd(),
		newPolicyScenariosCmd(), newPolicyOfftakeCmd(),
	)
	return cmd
}

func newPolicyKPIsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kpis",
		Short: "Policy landscape KPI cards",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			kpis, err := client.PolicyKPIs(cmd.Context())
			if err != nil {
				return err
			}

			for _, k := range kpis {
				cmd.Printf("%-24s %4d  %s\n", k.Label, k.Value, k.Subtitle)
			}
			return nil
		},
	}
}

func newPolicyTimelineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timeline",
		Short: "Jurisdiction timeline and status board summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			var (
				events []api.PolicyTimelineEvent
				board  []api.KanbanColumn
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var gErr error
				events, gErr = client.PolicyTimeline(ctx)
				return gErr
			})
			g.Go(func() error {
				var gErr error
				board, gErr = client.PolicyKanban(ctx)
				return gErr
			})
			if err := g.Wait(); err != nil {
				return err
			}

			for _, e := range events {
				cmd.Printf("%s  %-4s %-50s [%s]\n", e.Date, e.Jurisdiction, e.Title, e.EventType)
			}

			if len(board) > 0 {
				parts := make([]string, len(board))
				for i, col := range board {
					parts[i] = strings.ToUpper(col.Status) + ": " + strconv.Itoa(len(col.Items))
				}
				cmd.Printf("\nboard: %s\n", strings.Join(parts, "  "))
			}
			return nil
		},
	}
}

func newPolicyScenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "Mandate revenue scenarios",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			scenarios, err := client.MandateScenarios(cmd.Context())
			if err != nil {
				return err
			}

			items := make([]charts.BarItem, len(scenarios))
			for i, s := range scenarios {
				items[i] = charts.BarItem{Label: s.Name, Value: s.RevenueImpact}
			}
			cmd.Println(charts.BarChart(items, 24, charts.BullishStyle))

			for _, s := range scenarios {
				cmd.Printf("%-20s mandate %s  revenue impact %.1f\n",
					s.Name, s.MandateLevel, s.RevenueImpact)
			}
			return nil
		},
	}
}

func newPolicyOfftakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "offtake",
		Short: "Offtake market agreements",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			agreements, err := client.OfftakeMarket(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Printf("%-24s %-20s %-12s %-8s %s\n", "OFFTAKER", "MANDATE", "VOLUME", "TERM", "PREMIUM")
			for _, a := range agreements {
				cmd.Printf("%-24s %-20s %-12s %-8s %s\n",
					a.Offtaker, a.Mandate, a.Volume, a.Term, a.Premium)
			}
			return nil
		},
	}
}
