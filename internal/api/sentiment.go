package api

import (
	"context"
	"net/url"
	"strconv"
)

// FearComponents breaks the fear side of the index into risk categories,
// each a percentage share.
type FearComponents struct {
	RegulatoryRisk   float64 `json:"regulatory_risk"`
	TechnologyRisk   float64 `json:"technology_risk"`
	FeedstockRisk    float64 `json:"feedstock_risk"`
	CounterpartyRisk float64 `json:"counterparty_risk"`
	MarketRisk       float64 `json:"market_risk"`
	ESGConcerns      float64 `json:"esg_concerns"`
}

// SentimentIndex is the daily lending sentiment index (-100 to +100) with
// document counts and fear component breakdown.
type SentimentIndex struct {
	Date              string         `json:"date"`
	OverallIndex      float64        `json:"overall_index"`
	BullishCount      int            `json:"bullish_count"`
	BearishCount      int            `json:"bearish_count"`
	NeutralCount      int            `json:"neutral_count"`
	DocumentsAnalyzed int            `json:"documents_analyzed"`
	FearComponents    FearComponents `json:"fear_components"`
	DailyChange       float64        `json:"daily_change"`
	WeeklyChange      float64        `json:"weekly_change"`
	MonthlyChange     float64        `json:"monthly_change"`
}

// SentimentTrend is one point of the bullish/bearish time series.
type SentimentTrend struct {
	Date         string  `json:"date"`
	Bullish      float64 `json:"bullish"`
	Bearish      float64 `json:"bearish"`
	NetSentiment float64 `json:"net_sentiment"`
}

// LenderScore is per-lender sentiment with a sparkline series.
type LenderScore struct {
	Lender    string    `json:"lender"`
	Sentiment float64   `json:"sentiment"`
	Change30D float64   `json:"change_30d"`
	Documents int       `json:"documents"`
	Trend     []float64 `json:"trend"`
}

// DocumentFeedItem is one entry of the real-time document feed.
type DocumentFeedItem struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Source         string  `json:"source"`
	PublishedDate  string  `json:"published_date"`
	Sentiment      string  `json:"sentiment"` // BULLISH, BEARISH, NEUTRAL
	SentimentScore float64 `json:"sentiment_score"`
	URL            string  `json:"url"`
}

// CurrentSentimentIndex returns today's sentiment index.
func (c *Client) CurrentSentimentIndex(ctx context.Context) (*SentimentIndex, error) {
	var out SentimentIndex
	if err := c.GetJSON(ctx, "/sentiment/index", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SentimentTrendSeries returns the bullish/bearish series for the last
// days days.
func (c *Client) SentimentTrendSeries(ctx context.Context, days int) ([]SentimentTrend, error) {
	params := url.Values{"days": {strconv.Itoa(days)}}
	var out []SentimentTrend
	if err := c.GetJSON(ctx, "/sentiment/trend", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LenderScores returns per-lender sentiment scores.
func (c *Client) LenderScores(ctx context.Context) ([]LenderScore, error) {
	var out []LenderScore
	if err := c.GetJSON(ctx, "/sentiment/lenders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DocumentFeed returns the most recent analyzed documents, newest first.
func (c *Client) DocumentFeed(ctx context.Context, limit int) ([]DocumentFeedItem, error) {
	params := url.Values{"limit": {strconv.Itoa(limit)}}
	var out []DocumentFeedItem
	if err := c.GetJSON(ctx, "/sentiment/documents/feed", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}
