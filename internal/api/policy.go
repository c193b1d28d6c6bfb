package api

import (
	"context"

	"github.com/tidwall/gjson"
)

// kanbanColumns is the column order of the policy board. The endpoint
// returns a free-form object keyed by status, so ordering lives here.
var kanbanColumns = []string{"proposed", "review", "enacted", "expired"}

// PolicyKPI is one policy dashboard KPI card.
type PolicyKPI struct {
	Label    string `json:"label"`
	Value    int    `json:"value"`
	Subtitle string `json:"subtitle"`
}

// PolicyTimelineEvent is one event on the jurisdiction timeline.
type PolicyTimelineEvent struct {
	Jurisdiction string `json:"jurisdiction"`
	Date         string `json:"date"`
	EventType    string `json:"event_type"` // enacted, consultation_open, expected_decision
	Title        string `json:"title"`
	PolicyID     string `json:"policy_id"`
}

// KanbanItem is one policy card on the status board.
type KanbanItem struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Jurisdiction string `json:"jurisdiction"`
	PolicyType   string `json:"policy_type"`
	Status       string `json:"status"`
	Summary      string `json:"summary"`
}

// KanbanColumn is an ordered board column.
type KanbanColumn struct {
	Status string
	Items  []KanbanItem
}

// MandateScenario compares revenue impact across mandate levels.
type MandateScenario struct {
	Name          string  `json:"name"`
	MandateLevel  string  `json:"mandate_level"`
	RevenueImpact float64 `json:"revenue_impact"`
}

// OfftakeAgreement is one row of the offtake market table.
type OfftakeAgreement struct {
	Offtaker string `json:"offtaker"`
	Mandate  string `json:"mandate"`
	Volume   string `json:"volume"`
	Term     string `json:"term"`
	Premium  string `json:"premium"`
}

// PolicyKPIs returns the policy dashboard KPI cards.
func (c *Client) PolicyKPIs(ctx context.Context) ([]PolicyKPI, error) {
	var out []PolicyKPI
	if err := c.GetJSON(ctx, "/policy/kpis", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PolicyTimeline returns timeline events for the given year.
func (c *Client) PolicyTimeline(ctx context.Context) ([]PolicyTimelineEvent, error) {
	var out []PolicyTimelineEvent
	if err := c.GetJSON(ctx, "/policy/timeline", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PolicyKanban returns the status board. The upstream payload is a
// free-form object keyed by status, so it is walked with gjson and
// normalized into ordered columns; unknown statuses are appended after the
// known ones.
func (c *Client) PolicyKanban(ctx context.Context) ([]KanbanColumn, error) {
	res, err := c.GetResult(ctx, "/policy/kanban", nil)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string][]KanbanItem)
	var extra []string
	res.ForEach(func(status, items gjson.Result) bool {
		col := make([]KanbanItem, 0, int(items.Get("#").Int()))
		items.ForEach(func(_, item gjson.Result) bool {
			col = append(col, KanbanItem{
				ID:           item.Get("id").String(),
				Title:        item.Get("title").String(),
				Jurisdiction: item.Get("jurisdiction").String(),
				PolicyType:   item.Get("policy_type").String(),
				Status:       item.Get("status").String(),
				Summary:      item.Get("summary").String(),
			})
			return true
		})
		s := status.String()
		byStatus[s] = col
		known := false
		for _, k := range kanbanColumns {
			if k == s {
				known = true
				break
			}
		}
		if !known {
			extra = append(extra, s)
		}
		return true
	})

	var cols []KanbanColumn
	for _, status := range append(append([]string{}, kanbanColumns...), extra...) {
		if items, ok := byStatus[status]; ok {
			cols = append(cols, KanbanColumn{Status: status, Items: items})
		}
	}
	return cols, nil
}

// MandateScenarios returns the mandate level revenue comparison.
func (c *Client) MandateScenarios(ctx context.Context) ([]MandateScenario, error) {
	var out []MandateScenario
	if err := c.GetJSON(ctx, "/policy/mandate-scenarios", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OfftakeMarket returns active offtake agreements.
func (c *Client) OfftakeMarket(ctx context.Context) ([]OfftakeAgreement, error) {
	var out []OfftakeAgreement
	if err := c.GetJSON(ctx, "/policy/offtake-market", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
