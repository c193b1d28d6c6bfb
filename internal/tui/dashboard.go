// Package tui implements the interactive market-intelligence dashboard. It
// subscribes to the query cache and adapts cache notifications into Bubble
// Tea messages, rendering each query in an explicit loading/error/success
// state.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abfi/biolens/internal/api"
	"github.com/abfi/biolens/internal/query"
)

// updateBuffer sizes the channel between cache listeners and the Bubble Tea
// loop. Listeners never block: the channel is a wake-up signal, and the
// model re-reads every handle's current state when it drains.
const updateBuffer = 256

// feedLimit caps the document feed shown on the sentiment tab.
const feedLimit = 8

// defaultCommodity is charted when none is configured.
const defaultCommodity = "woodchips"

// candleHeight is the row count of the OHLC chart.
const candleHeight = 10

// QueryUpdatedMsg wakes the Bubble Tea loop after a cache entry changed.
type QueryUpdatedMsg struct {
	Snapshot query.Snapshot
}

// Tab identifies one dashboard tab.
type Tab int

// Dashboard tabs in display order.
const (
	TabSentiment Tab = iota
	TabPrices
	TabPolicy
	numTabs
)

// Title returns the tab's display name.
func (t Tab) Title() string {
	switch t {
	case TabSentiment:
		return "Sentiment"
	case TabPrices:
		return "Prices"
	case TabPolicy:
		return "Policy"
	default:
		return "Unknown"
	}
}

// Config tunes the dashboard's query policies.
type Config struct {
	Commodity       string
	StaleTime       time.Duration
	RefetchInterval time.Duration
	RefetchOnFocus  bool
}

// dashboardQuery pairs a cache key with its fetch function.
type dashboardQuery struct {
	key   query.Key
	fetch query.FetchFunc
	tab   Tab
}

// DashboardModel is the Bubble Tea model for the dashboard.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type DashboardModel struct {
	cache  *query.Cache
	client *api.Client
	cfg    Config

	tab    Tab
	width  int
	height int

	updates   chan query.Snapshot
	handles   []*query.Handle
	tabOf     map[string]Tab
	snapshots map[string]query.Snapshot

	lenderTable table.Model
	quitting    bool
}

// NewDashboard subscribes to every dashboard query and returns the model.
// The caller owns the cache and closes it after the program exits.
func NewDashboard(cache *query.Cache, client *api.Client, cfg Config) (*DashboardModel, error) {
	if cfg.Commodity == "" {
		cfg.Commodity = defaultCommodity
	}

	m := &DashboardModel{
		cache:     cache,
		client:    client,
		cfg:       cfg,
		updates:   make(chan query.Snapshot, updateBuffer),
		tabOf:     make(map[string]Tab),
		snapshots: make(map[string]query.Snapshot),
	}
	m.lenderTable = newLenderTable(nil)

	policy := query.Policy{
		StaleTime:       cfg.StaleTime,
		RefetchInterval: cfg.RefetchInterval,
		Enabled:         true,
		RefetchOnFocus:  cfg.RefetchOnFocus,
	}

	for _, q := range m.queries() {
		h, err := cache.Subscribe(q.key, q.fetch, policy, m.onUpdate)
		if err != nil {
			m.Release()
			return nil, err
		}
		m.handles = append(m.handles, h)
		m.tabOf[q.key.String()] = q.tab
		m.snapshots[q.key.String()] = h.CurrentState()
	}
	return m, nil
}

// queries enumerates every subscription the dashboard holds.
func (m *DashboardModel) queries() []dashboardQuery {
	c := m.client
	commodity := m.cfg.Commodity

	return []dashboardQuery{
		{query.NewKey("sentiment", "index"), func(ctx context.Context) (any, error) {
			return c.CurrentSentimentIndex(ctx)
		}, TabSentiment},
		{query.NewKey("sentiment", "lenders"), func(ctx context.Context) (any, error) {
			return c.LenderScores(ctx)
		}, TabSentiment},
		{query.NewKey("sentiment", "feed"), func(ctx context.Context) (any, error) {
			return c.DocumentFeed(ctx, feedLimit)
		}, TabSentiment},
		{query.NewKey("prices", "kpis"), func(ctx context.Context) (any, error) {
			return c.PriceKPIs(ctx)
		}, TabPrices},
		{query.NewKey("prices", "ohlc", commodity), func(ctx context.Context) (any, error) {
			return c.OHLC(ctx, commodity, "", "")
		}, TabPrices},
		{query.NewKey("prices", "heatmap", commodity), func(ctx context.Context) (any, error) {
			return c.Heatmap(ctx, commodity)
		}, TabPrices},
		{query.NewKey("policy", "kpis"), func(ctx context.Context) (any, error) {
			return c.PolicyKPIs(ctx)
		}, TabPolicy},
		{query.NewKey("policy", "timeline"), func(ctx context.Context) (any, error) {
			return c.PolicyTimeline(ctx)
		}, TabPolicy},
	}
}

// onUpdate is the cache listener. It must never block the cache, so a full
// channel drops the signal; syncSnapshots recovers the latest state on the
// next drain.
func (m *DashboardModel) onUpdate(s query.Snapshot) {
	select {
	case m.updates <- s:
	default:
	}
}

// Release unsubscribes every query. Safe to call more than once.
func (m *DashboardModel) Release() {
	for _, h := range m.handles {
		h.Unsubscribe()
	}
}

// Init starts draining cache notifications (Bubble Tea interface).
func (m DashboardModel) Init() tea.Cmd {
	return m.waitForUpdate()
}

// waitForUpdate blocks on the next cache notification.
func (m DashboardModel) waitForUpdate() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return nil
		}
		return QueryUpdatedMsg{Snapshot: s}
	}
}

// Update handles messages (Bubble Tea interface).
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.FocusMsg:
		// Terminal regained focus: let stale opted-in queries refetch.
		m.cache.NotifyFocus()
		return m, nil

	case QueryUpdatedMsg:
		m.syncSnapshots()
		return m, m.waitForUpdate()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.lenderTable, cmd = m.lenderTable.Update(msg)
	return m, cmd
}

// syncSnapshots re-reads every handle's current state. Dropped channel
// signals are harmless because this runs on every drain.
func (m *DashboardModel) syncSnapshots() {
	for _, h := range m.handles {
		s := h.CurrentState()
		m.snapshots[h.Key().String()] = s
	}
	m.rebuildLenderTable()
}

func (m DashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit, keyCtrlC:
		m.quitting = true
		m.Release()
		return m, tea.Quit
	case keyTab:
		m.tab = (m.tab + 1) % numTabs
		return m, nil
	case keyShiftTab:
		m.tab = (m.tab + numTabs - 1) % numTabs
		return m, nil
	case keyOne:
		m.tab = TabSentiment
		return m, nil
	case keyTwo:
		m.tab = TabPrices
		return m, nil
	case keyThree:
		m.tab = TabPolicy
		return m, nil
	case keyRefresh:
		m.refetchCurrentTab()
		return m, nil
	default:
		var cmd tea.Cmd
		m.lenderTable, cmd = m.lenderTable.Update(msg)
		return m, cmd
	}
}

// refetchCurrentTab forces a refetch of every query shown on the active tab.
func (m *DashboardModel) refetchCurrentTab() {
	for _, h := range m.handles {
		if m.tabOf[h.Key().String()] == m.tab {
			h.Refetch()
		}
	}
}

// ActiveTab returns the currently selected tab.
func (m DashboardModel) ActiveTab() Tab {
	return m.tab
}

// View renders the dashboard (Bubble Tea interface).
func (m DashboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.tab {
	case TabSentiment:
		b.WriteString(m.sentimentView())
	case TabPrices:
		b.WriteString(m.pricesView())
	case TabPolicy:
		b.WriteString(m.policyView())
	}

	b.WriteString("\n\n")
	b.WriteString(MutedStyle.Render("tab/1-3: switch  r: refresh  q: quit"))
	return b.String()
}

func (m DashboardModel) renderTabs() string {
	parts := make([]string, 0, numTabs)
	for t := TabSentiment; t < numTabs; t++ {
		style := InactiveTabStyle
		if t == m.tab {
			style = ActiveTabStyle
		}
		parts = append(parts, style.Render(t.Title()))
	}
	return strings.Join(parts, " ")
}

// snapshot returns the stored state for a key path.
func (m DashboardModel) snapshot(segments ...string) query.Snapshot {
	return m.snapshots[query.NewKey(segments...).String()]
}
