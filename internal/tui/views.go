package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"

	"github.com/abfi/biolens/internal/api"
	"github.com/abfi/biolens/internal/charts"
	"github.com/abfi/biolens/internal/query"
)

const fearBarWidth = 20

// renderState maps a snapshot to its loading/error/success presentation.
// The success body only runs when data is present, so renderers can assert
// their payload type without nil checks.
func renderState(s query.Snapshot, body func() string) string {
	switch s.Status {
	case query.StatusIdle, query.StatusLoading:
		return MutedStyle.Render("loading...")
	case query.StatusError:
		return ErrorStyle.Render(fmt.Sprintf("error: %v", s.Err)) +
			MutedStyle.Render("  (press r to retry)")
	case query.StatusSuccess:
		out := body()
		if s.Fetching {
			out += "\n" + MutedStyle.Render("refreshing...")
		}
		return out
	default:
		return ""
	}
}

// --- Sentiment tab ---

func (m DashboardModel) sentimentView() string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render("MARKET SENTIMENT"))
	b.WriteString("\n")
	b.WriteString(renderState(m.snapshot("sentiment", "index"), func() string {
		idx, ok := m.snapshot("sentiment", "index").Data.(*api.SentimentIndex)
		if !ok {
			return ErrorStyle.Render("unexpected payload")
		}
		return renderSentimentIndex(idx)
	}))

	b.WriteString("\n\n")
	b.WriteString(HeaderStyle.Render("LENDER SCORES"))
	b.WriteString("\n")
	b.WriteString(renderState(m.snapshot("sentiment", "lenders"), func() string {
		return m.lenderTable.View()
	}))

	b.WriteString("\n\n")
	b.WriteString(HeaderStyle.Render("DOCUMENT FEED"))
	b.WriteString("\n")
	b.WriteString(renderState(m.snapshot("sentiment", "feed"), func() string {
		feed, ok := m.snapshot("sentiment", "feed").Data.([]api.DocumentFeedItem)
		if !ok {
			return ErrorStyle.Render("unexpected payload")
		}
		return renderDocumentFeed(feed)
	}))

	return b.String()
}

func renderSentimentIndex(idx *api.SentimentIndex) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s  %s\n",
		ValueStyle.Render(fmt.Sprintf("%+.1f", idx.OverallIndex)),
		LabelStyle.Render("overall index"),
		changeStyle(idx.DailyChange).Render(fmt.Sprintf("%+.1f today", idx.DailyChange)))
	fmt.Fprintf(&b, "%s\n",
		LabelStyle.Render(fmt.Sprintf("%d bullish / %d bearish / %d neutral across %d documents",
			idx.BullishCount, idx.BearishCount, idx.NeutralCount, idx.DocumentsAnalyzed)))

	fear := idx.FearComponents
	b.WriteString(charts.BarChart([]charts.BarItem{
		{Label: "Regulatory", Value: fear.RegulatoryRisk},
		{Label: "Technology", Value: fear.TechnologyRisk},
		{Label: "Feedstock", Value: fear.FeedstockRisk},
		{Label: "Counterparty", Value: fear.CounterpartyRisk},
		{Label: "Market", Value: fear.MarketRisk},
		{Label: "ESG", Value: fear.ESGConcerns},
	}, fearBarWidth, LabelStyle))

	return b.String()
}

func renderDocumentFeed(feed []api.DocumentFeedItem) string {
	if len(feed) == 0 {
		return MutedStyle.Render("no documents")
	}
	var b strings.Builder
	for i, item := range feed {
		if i > 0 {
			b.WriteString("\n")
		}
		marker := MutedStyle
		switch item.Sentiment {
		case "BULLISH":
			marker = PositiveStyle
		case "BEARISH":
			marker = NegativeStyle
		}
		fmt.Fprintf(&b, "%s %s %s",
			marker.Render(fmt.Sprintf("%-7s", item.Sentiment)),
			item.Title,
			LabelStyle.Render(fmt.Sprintf("(%s, %s)", item.Source, item.PublishedDate)))
	}
	return b.String()
}

// newLenderTable builds the lender score table, one row per lender with a
// sparkline of its recent trend.
func newLenderTable(scores []api.LenderScore) table.Model {
	columns := []table.Column{
		{Title: "Lender", Width: 24},
		{Title: "Score", Width: 7},
		{Title: "30d", Width: 7},
		{Title: "Docs", Width: 5},
		{Title: "Trend", Width: 14},
	}

	rows := make([]table.Row, len(scores))
	for i, s := range scores {
		rows[i] = table.Row{
			s.Lender,
			fmt.Sprintf("%+.1f", s.Sentiment),
			fmt.Sprintf("%+.1f", s.Change30D),
			fmt.Sprintf("%d", s.Documents),
			charts.Sparkline(s.Trend),
		}
	}

	height := len(rows) + 1
	if height < 4 {
		height = 4
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)

	return t
}

// rebuildLenderTable refreshes the table when lender data changes.
func (m *DashboardModel) rebuildLenderTable() {
	s := m.snapshot("sentiment", "lenders")
	if s.Status != query.StatusSuccess {
		return
	}
	scores, ok := s.Data.([]api.LenderScore)
	if !ok {
		return
	}
	cursor := m.lenderTable.Cursor()
	m.lenderTable = newLenderTable(scores)
	if cursor < len(scores) {
		m.lenderTable.SetCursor(cursor)
	}
}

// --- Prices tab ---

func (m DashboardModel) pricesView() string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render("PRICE KPIS"))
	b.WriteString("\n")
	b.WriteString(renderState(m.snapshot("prices", "kpis"), func() string {
		kpis, ok := m.snapshot("prices", "kpis").Data.([]api.PriceKPI)
		if !ok {
			return ErrorStyle.Render("unexpected payload")
		}
		return renderPriceKPIs(kpis)
	}))

	commodity := m.cfg.Commodity
	b.WriteString("\n\n")
	b.WriteString(HeaderStyle.Render(strings.ToUpper(commodity) + " OHLC"))
	b.WriteString("\n")
	b.WriteString(renderState(m.snapshot("prices", "ohlc", commodity), func() string {
		series, ok := m.snapshot("prices", "ohlc", commodity).Data.(*api.PriceTimeSeries)
		if !ok {
			return ErrorStyle.Render("unexpected payload")
		}
		return renderCandles(series)
	}))

	b.WriteString("\n\n")
	b.WriteString(HeaderStyle.Render("REGIONAL HEATMAP"))
	b.WriteString("\n")
	b.WriteString(renderState(m.snapshot("prices", "heatmap", commodity), func() string {
		hm, ok := m.snapshot("prices", "heatmap", commodity).Data.(*api.RegionalHeatmap)
		if !ok {
			return ErrorStyle.Render("unexpected payload")
		}
		return renderHeatmap(hm)
	}))

	return b.String()
}

func renderPriceKPIs(kpis []api.PriceKPI) string {
	if len(kpis) == 0 {
		return MutedStyle.Render("no price data")
	}
	var b strings.Builder
	for i, k := range kpis {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%-14s %s %s %s",
			k.Commodity,
			ValueStyle.Render(fmt.Sprintf("%.2f", k.Price)),
			LabelStyle.Render(fmt.Sprintf("%s/%s", k.Currency, k.Unit)),
			changeStyle(k.ChangePct).Render(fmt.Sprintf("%+.1f%%", k.ChangePct)))
	}
	return b.String()
}

func renderCandles(series *api.PriceTimeSeries) string {
	if len(series.Data) == 0 {
		return MutedStyle.Render("no series data")
	}
	candles := make([]charts.OHLC, len(series.Data))
	for i, p := range series.Data {
		candles[i] = charts.OHLC{Open: p.Open, High: p.High, Low: p.Low, Close: p.Close}
	}
	chart := charts.CandleChart(candles, candleHeight)
	last := series.Data[len(series.Data)-1]
	footer := LabelStyle.Render(fmt.Sprintf("%s  last close %.2f (%s)",
		series.Region, last.Close, last.Date))
	return chart + "\n" + footer
}

func renderHeatmap(hm *api.RegionalHeatmap) string {
	if len(hm.Regions) == 0 {
		return MutedStyle.Render("no regional data")
	}
	cells := make([]charts.HeatCell, len(hm.Regions))
	for i, r := range hm.Regions {
		cells[i] = charts.HeatCell{Label: r.Region, Value: r.Price, ChangePct: r.ChangePct}
	}
	return charts.HeatmapRow(cells)
}

// --- Policy tab ---

func (m DashboardModel) policyView() string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render("POLICY KPIS"))
	b.WriteString("\n")
	b.WriteString(renderState(m.snapshot("policy", "kpis"), func() string {
		kpis, ok := m.snapshot("policy", "kpis").Data.([]api.PolicyKPI)
		if !ok {
			return ErrorStyle.Render("unexpected payload")
		}
		return renderPolicyKPIs(kpis)
	}))

	b.WriteString("\n\n")
	b.WriteString(HeaderStyle.Render("TIMELINE"))
	b.WriteString("\n")
	b.WriteString(renderState(m.snapshot("policy", "timeline"), func() string {
		events, ok := m.snapshot("policy", "timeline").Data.([]api.PolicyTimelineEvent)
		if !ok {
			return ErrorStyle.Render("unexpected payload")
		}
		return renderPolicyTimeline(events)
	}))

	return b.String()
}

func renderPolicyKPIs(kpis []api.PolicyKPI) string {
	if len(kpis) == 0 {
		return MutedStyle.Render("no policy data")
	}
	items := make([]charts.BarItem, len(kpis))
	for i, k := range kpis {
		items[i] = charts.BarItem{Label: k.Label, Value: float64(k.Value)}
	}
	return charts.BarChart(items, fearBarWidth, LabelStyle)
}

func renderPolicyTimeline(events []api.PolicyTimelineEvent) string {
	if len(events) == 0 {
		return MutedStyle.Render("no timeline events")
	}
	var b strings.Builder
	for i, e := range events {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s %s %s",
			LabelStyle.Render(e.Date),
			ValueStyle.Render(e.Jurisdiction),
			e.Title,
			MutedStyle.Render("["+e.EventType+"]"))
	}
	return b.String()
}
