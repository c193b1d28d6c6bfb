package cli

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/abfi/biolens/internal/api"
)

// newCarbonCmd creates the carbon command group.
func newCarbonCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "carbon", Short: "Carbon markets and revenue estimation"}
	cmd.AddCommand(
		newCarbonCalcCmd(),
		newCarbonScenariosCmd(),
		newCarbonPricesCmd(),
		newCarbonMethodologiesCmd(),
		newCarbonCIScoresCmd(),
	)
	return cmd
}

func newCarbonPricesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prices",
		Short: "Current carbon market prices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			prices, err := client.CarbonMarketPrices(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Printf("ACCU spot           A$%.2f\n", prices.AccuSpot)
			cmd.Printf("ACCU forward (1y)   A$%.2f\n", prices.AccuForward1Y)
			cmd.Printf("CORSIA eligible     A$%.2f\n", prices.CorsiaEligible)
			cmd.Printf("EU ETS              A$%.2f\n", prices.EUETS)
			cmd.Printf("Voluntary premium   A$%.2f\n", prices.VoluntaryPremium)
			cmd.Printf("As of %s (%s)\n", prices.AsOfDate, prices.Source)
			return nil
		},
	}
}

func newCarbonMethodologiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methodologies",
		Short: "Crediting methodologies for bioenergy projects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			methods, err := client.CarbonMethodologies(cmd.Context())
			if err != nil {
				return err
			}

			for _, m := range methods {
				cmd.Printf("%-40s %-10s %s\n", m.Name, m.Status, m.Pathway)
				cmd.Printf("  fuels: %s  baseline: %s  crediting: %s\n",
					strings.Join(m.ApplicableFuels, ", "), m.BaselineApproach, m.CreditingPeriod)
				for _, req := range m.Requirements {
					cmd.Printf("  - %s\n", req)
				}
			}
			return nil
		},
	}
}

func newCarbonCIScoresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ci-scores",
		Short: "Carbon intensity scores per feedstock (gCO2e/MJ)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			table, err := client.CIScores(cmd.Context())
			if err != nil {
				return err
			}

			feedstocks := make([]string, 0, len(table.Scores))
			for f := range table.Scores {
				feedstocks = append(feedstocks, f)
			}
			sort.Strings(feedstocks)
			for _, f := range feedstocks {
				cmd.Printf("%-24s %6.1f\n", f, table.Scores[f])
			}
			if table.Source != "" {
				cmd.Printf("Source: %s\n", table.Source)
			}
			return nil
		},
	}
}

func newCarbonCalcCmd() *cobra.Command {
	var in api.CarbonCalculatorInput

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Estimate annual carbon revenue for a project",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := in.Validate(); err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			result, err := client.CalculateCarbonRevenue(cmd.Context(), in)
			if err != nil {
				return err
			}

			// Localized grouping keeps six-figure revenues readable.
			p := message.NewPrinter(language.English)
			cmd.Println(p.Sprintf("ACCU credits          %d", result.ACCUCredits))
			cmd.Println(p.Sprintf("ACCU revenue          A$%.0f", result.ACCURevenue))
			cmd.Println(p.Sprintf("Safeguard benefit     A$%.0f", result.SafeguardBenefit))
			cmd.Println(p.Sprintf("Total annual revenue  A$%.0f", result.TotalAnnualRevenue))
			cmd.Println(p.Sprintf("Sensitivity (+/-20%%)  A$%.0f - A$%.0f",
				result.SensitivityLow, result.SensitivityHigh))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.ProjectType, "project-type", "", "project type (default server-side)")
	cmd.Flags().Float64Var(&in.AnnualOutputTonnes, "output-tonnes", 0, "annual output in tonnes")
	cmd.Flags().Float64Var(&in.EmissionFactor, "emission-factor", 0, "abatement factor per tonne")
	cmd.Flags().Float64Var(&in.CarbonPrice, "carbon-price", 0, "carbon price in AUD per credit")
	cmd.Flags().IntVar(&in.BaselineYear, "baseline-year", 0, "safeguard baseline year")
	_ = cmd.MarkFlagRequired("output-tonnes")
	_ = cmd.MarkFlagRequired("emission-factor")
	_ = cmd.MarkFlagRequired("carbon-price")
	return cmd
}

func newCarbonScenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "Preset project scenarios for the calculator",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			scenarios, err := client.CarbonScenarios(cmd.Context())
			if err != nil {
				return err
			}

			for _, s := range scenarios {
				cmd.Printf("%-24s %10.0f t/yr  factor %.2f  %s\n",
					s.Name, s.AnnualOutputTonnes, s.EmissionFactor, s.Description)
			}
			return nil
		},
	}
}
