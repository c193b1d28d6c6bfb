package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abfi/biolens/internal/api"
	"github.com/abfi/biolens/internal/charts"
)

// ohlcChartHeight is the row count of the candlestick chart in plain output.
const ohlcChartHeight = 12

// newPricesCmd creates the prices command group.
func newPricesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "prices", Short: "Commodity price intelligence"}
	cmd.AddCommand(
		newPricesKPIsCmd(), newPricesOHLCCmd(), newPricesHeatmapCmd(),
		newPricesForwardCmd(), newPricesCommoditiesCmd(),
	)
	return cmd
}

func newPricesKPIsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kpis",
		Short: "Current price KPIs across tracked commodities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			kpis, err := client.PriceKPIs(cmd.Context())
			if err != nil {
				return err
			}

			for _, k := range kpis {
				cmd.Printf("%-14s %10.2f %s/%s  %+.1f%% (%s)\n",
					k.Commodity, k.Price, k.Currency, k.Unit, k.ChangePct, k.ChangeDirection)
			}
			return nil
		},
	}
}

func newPricesOHLCCmd() *cobra.Command {
	var region, period string

	cmd := &cobra.Command{
		Use:   "ohlc <commodity>",
		Short: "Candlestick history with technical indicators",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			commodity := args[0]

			// The series and its indicators come from separate endpoints;
			// fetch them together.
			var (
				series     *api.PriceTimeSeries
				indicators []api.TechnicalIndicator
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var gErr error
				series, gErr = client.OHLC(ctx, commodity, region, period)
				return gErr
			})
			g.Go(func() error {
				var gErr error
				indicators, gErr = client.Technicals(ctx, commodity, region)
				return gErr
			})
			if err := g.Wait(); err != nil {
				return err
			}

			candles := make([]charts.OHLC, len(series.Data))
			for i, p := range series.Data {
				candles[i] = charts.OHLC{Open: p.Open, High: p.High, Low: p.Low, Close: p.Close}
			}
			cmd.Printf("%s / %s (%s)\n", series.Commodity, series.Region, series.Source)
			cmd.Println(charts.CandleChart(candles, ohlcChartHeight))

			last := series.Data[len(series.Data)-1]
			cmd.Printf("last close %.2f on %s\n", last.Close, last.Date)

			if len(indicators) > 0 {
				cmd.Println()
				for _, ind := range indicators {
					cmd.Printf("%-20s %10.2f  %s\n", ind.Name, ind.Value, strings.ToUpper(ind.Signal))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "trading region (default server-side)")
	cmd.Flags().StringVar(&period, "period", "", "history window, e.g. 3m, 1y")
	return cmd
}

func newPricesHeatmapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "heatmap <commodity>",
		Short: "Regional price comparison",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			hm, err := client.Heatmap(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			cells := make([]charts.HeatCell, len(hm.Regions))
			for i, r := range hm.Regions {
				cells[i] = charts.HeatCell{Label: r.Region, Value: r.Price, ChangePct: r.ChangePct}
			}
			cmd.Println(charts.HeatmapRow(cells))

			for _, r := range hm.Regions {
				cmd.Printf("%-6s %-20s %10.2f %s  %+.1f%%\n",
					r.Region, r.RegionName, r.Price, r.Currency, r.ChangePct)
			}
			return nil
		},
	}
}

func newPricesForwardCmd() *cobra.Command {
	var region string

	cmd := &cobra.Command{
		Use:   "forward <commodity>",
		Short: "Forward curve by tenor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			curve, err := client.Forward(cmd.Context(), args[0], region)
			if err != nil {
				return err
			}

			cmd.Printf("%s / %s  shape: %s  as of %s\n",
				curve.Commodity, curve.Region, curve.CurveShape, curve.AsOfDate)

			values := make([]float64, len(curve.Points))
			for i, p := range curve.Points {
				values[i] = p.Price
			}
			cmd.Println(charts.Sparkline(values))

			for _, p := range curve.Points {
				cmd.Printf("%-6s %10.2f  %+.2f vs spot\n", p.Tenor, p.Price, p.ChangeFromSpot)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "trading region (default server-side)")
	return cmd
}

func newPricesCommoditiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commodities",
		Short: "List tracked commodities and regions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			catalog, err := client.Commodities(cmd.Context())
			if err != nil {
				return err
			}

			for _, c := range catalog.Commodities {
				cmd.Printf("%-16s %-24s per %s\n", c.ID, c.Name, c.Unit)
			}
			if len(catalog.Regions) > 0 {
				names := make([]string, len(catalog.Regions))
				for i, r := range catalog.Regions {
					names[i] = fmt.Sprintf("%s (%s)", r.ID, r.Name)
				}
				cmd.Printf("regions: %s\n", strings.Join(names, ", "))
			}
			return nil
		},
	}
}
