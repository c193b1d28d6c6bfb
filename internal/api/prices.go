package api

import (
	"context"
	"fmt"
	"net/url"
)

// queryParams builds url.Values from key/value pairs, omitting empty
// values. The price endpoints validate region and period as strict enums,
// so an empty parameter must be left off the request entirely for the
// server-side default to apply.
func queryParams(pairs ...string) url.Values {
	var params url.Values
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		if params == nil {
			params = url.Values{}
		}
		params.Set(pairs[i], pairs[i+1])
	}
	return params
}

// PriceKPI is one dashboard KPI card: current price plus change indicator.
type PriceKPI struct {
	Commodity       string  `json:"commodity"`
	Price           float64 `json:"price"`
	Currency        string  `json:"currency"`
	Unit            string  `json:"unit"`
	ChangePct       float64 `json:"change_pct"`
	ChangeDirection string  `json:"change_direction"` // up, down, flat
}

// OHLCPoint is one candlestick data point. Date is ISO-8601 (YYYY-MM-DD).
type OHLCPoint struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int     `json:"volume"`
}

// Bullish reports whether the candle closed at or above its open. Candle
// coloring keys off this comparison alone.
func (p OHLCPoint) Bullish() bool {
	return p.Close >= p.Open
}

// PriceTimeSeries is an OHLC series for one commodity and region.
type PriceTimeSeries struct {
	Commodity string      `json:"commodity"`
	Region    string      `json:"region"`
	Data      []OHLCPoint `json:"data"`
	Source    string      `json:"source"`
}

// RegionalPrice is one cell of the regional heatmap.
type RegionalPrice struct {
	Region     string  `json:"region"`
	RegionName string  `json:"region_name"`
	Price      float64 `json:"price"`
	ChangePct  float64 `json:"change_pct"`
	Currency   string  `json:"currency"`
}

// RegionalHeatmap is the regional price comparison for one commodity.
type RegionalHeatmap struct {
	Commodity string          `json:"commodity"`
	Regions   []RegionalPrice `json:"regions"`
}

// ForwardPoint is one tenor on the forward curve.
type ForwardPoint struct {
	Tenor          string  `json:"tenor"` // Spot, M3, M6, M9, M12
	Price          float64 `json:"price"`
	ChangeFromSpot float64 `json:"change_from_spot"`
}

// ForwardCurve describes the forward price structure for a commodity.
type ForwardCurve struct {
	Commodity  string         `json:"commodity"`
	Region     string         `json:"region"`
	CurveShape string         `json:"curve_shape"` // contango, backwardation, flat
	Points     []ForwardPoint `json:"points"`
	AsOfDate   string         `json:"as_of_date"`
}

// TechnicalIndicator is one computed indicator with its trading signal.
type TechnicalIndicator struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Signal string  `json:"signal"` // buy, sell, neutral
}

// CommodityInfo describes one tradeable commodity.
type CommodityInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// RegionInfo describes one trading region.
type RegionInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CommodityCatalog lists available commodities and regions.
type CommodityCatalog struct {
	Commodities []CommodityInfo `json:"commodities"`
	Regions     []RegionInfo    `json:"regions"`
}

// PriceKPIs returns the KPI cards for all tracked commodities.
func (c *Client) PriceKPIs(ctx context.Context) ([]PriceKPI, error) {
	var out []PriceKPI
	if err := c.GetJSON(ctx, "/prices/kpis", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CurrentPrice returns the KPI for a single commodity in a region.
func (c *Client) CurrentPrice(ctx context.Context, commodity, region string) (*PriceKPI, error) {
	params := queryParams("region", region)
	var out PriceKPI
	if err := c.GetJSON(ctx, "/prices/current/"+url.PathEscape(commodity), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OHLC returns candlestick data for a commodity over the given period
// (1M, 3M, 6M, 1Y, 2Y, 5Y).
func (c *Client) OHLC(ctx context.Context, commodity, region, period string) (*PriceTimeSeries, error) {
	params := queryParams("region", region, "period", period)
	var out PriceTimeSeries
	if err := c.GetJSON(ctx, "/prices/ohlc/"+url.PathEscape(commodity), params, &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, fmt.Errorf("api /prices/ohlc/%s: empty series", commodity)
	}
	return &out, nil
}

// Heatmap returns the regional price comparison for a commodity.
func (c *Client) Heatmap(ctx context.Context, commodity string) (*RegionalHeatmap, error) {
	var out RegionalHeatmap
	if err := c.GetJSON(ctx, "/prices/heatmap/"+url.PathEscape(commodity), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Forward returns the forward curve for a commodity.
func (c *Client) Forward(ctx context.Context, commodity, region string) (*ForwardCurve, error) {
	params := queryParams("region", region)
	var out ForwardCurve
	if err := c.GetJSON(ctx, "/prices/forward/"+url.PathEscape(commodity), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Technicals returns computed technical indicators for a commodity.
func (c *Client) Technicals(ctx context.Context, commodity, region string) ([]TechnicalIndicator, error) {
	params := queryParams("region", region)
	var out []TechnicalIndicator
	if err := c.GetJSON(ctx, "/prices/technicals/"+url.PathEscape(commodity), params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Commodities returns the catalog of commodities and regions.
func (c *Client) Commodities(ctx context.Context) (*CommodityCatalog, error) {
	var out CommodityCatalog
	if err := c.GetJSON(ctx, "/prices/commodities", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
