package api

import (
	"context"

	"github.com/tidwall/gjson"
)

// CarbonPrices is the current carbon market price snapshot: ACCU spot and
// forward, plus international benchmarks.
type CarbonPrices struct {
	AccuSpot         float64 `json:"accu_spot"`
	AccuForward1Y    float64 `json:"accu_forward_1y"`
	CorsiaEligible   float64 `json:"corsia_eligible"`
	EUETS            float64 `json:"eu_ets"`
	VoluntaryPremium float64 `json:"voluntary_premium"`
	AsOfDate         string  `json:"as_of_date"`
	Source           string  `json:"source"`
}

// CarbonMethodology describes one crediting methodology available to
// bioenergy projects.
type CarbonMethodology struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Pathway          string   `json:"pathway"`
	ApplicableFuels  []string `json:"applicable_fuels"`
	BaselineApproach string   `json:"baseline_approach"`
	CreditingPeriod  string   `json:"crediting_period"`
	Status           string   `json:"status"`
	Requirements     []string `json:"requirements,omitempty"`
}

// CIScoreTable holds carbon intensity scores per feedstock, in
// gCO2e/MJ. Lower is better.
type CIScoreTable struct {
	Scores map[string]float64
	Source string
}

// Carbon calculator input bounds. The upstream validates nothing, so the
// client rejects obviously broken submissions before they hit the wire.
const (
	minAnnualOutputTonnes = 1.0
	minEmissionFactor     = 0.01
	minCarbonPrice        = 0.0
)

// CarbonCalculatorInput is the carbon revenue calculator submission.
type CarbonCalculatorInput struct {
	ProjectType        string  `json:"project_type"`
	AnnualOutputTonnes float64 `json:"annual_output_tonnes"`
	EmissionFactor     float64 `json:"emission_factor"`
	BaselineYear       int     `json:"baseline_year"`
	CarbonPrice        float64 `json:"carbon_price"`
}

// CarbonCalculatorResult is the revenue projection returned by the
// calculator: ACCU credits and revenue, safeguard mechanism benefit, and a
// ±20% carbon price sensitivity band.
type CarbonCalculatorResult struct {
	ACCUCredits        int     `json:"accu_credits"`
	ACCURevenue        float64 `json:"accu_revenue"`
	SafeguardBenefit   float64 `json:"safeguard_benefit"`
	TotalAnnualRevenue float64 `json:"total_annual_revenue"`
	SensitivityLow     float64 `json:"sensitivity_low"`
	SensitivityHigh    float64 `json:"sensitivity_high"`
}

// CarbonScenario is one predefined calculator scenario.
type CarbonScenario struct {
	Name               string  `json:"name"`
	AnnualOutputTonnes float64 `json:"annual_output_tonnes"`
	EmissionFactor     float64 `json:"emission_factor"`
	Description        string  `json:"description"`
}

// Validate checks the submission for values the calculator cannot work with.
func (in CarbonCalculatorInput) Validate() error {
	if in.AnnualOutputTonnes < minAnnualOutputTonnes {
		return &ValidationError{Field: "annual_output_tonnes", Reason: "must be at least 1 tonne"}
	}
	if in.EmissionFactor < minEmissionFactor {
		return &ValidationError{Field: "emission_factor", Reason: "must be positive"}
	}
	if in.CarbonPrice < minCarbonPrice {
		return &ValidationError{Field: "carbon_price", Reason: "cannot be negative"}
	}
	return nil
}

// ValidationError describes a rejected calculator input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

// CalculateCarbonRevenue submits the calculator form. This is a write
// operation: the result is returned to the caller and never cached.
func (c *Client) CalculateCarbonRevenue(ctx context.Context, in CarbonCalculatorInput) (*CarbonCalculatorResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.ProjectType == "" {
		in.ProjectType = "bioenergy_plant"
	}
	var out CarbonCalculatorResult
	if err := c.PostJSON(ctx, "/policy/carbon-calculator", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CarbonMarketPrices returns the current carbon price snapshot.
func (c *Client) CarbonMarketPrices(ctx context.Context) (*CarbonPrices, error) {
	var out CarbonPrices
	if err := c.GetJSON(ctx, "/carbon/prices", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CarbonMethodologies returns the crediting methodologies catalog.
func (c *Client) CarbonMethodologies(ctx context.Context) ([]CarbonMethodology, error) {
	var out []CarbonMethodology
	if err := c.GetJSON(ctx, "/carbon/methodologies", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CIScores returns carbon intensity scores per feedstock. The endpoint
// returns a flat object mixing numeric scores with a "source" string, so
// the response is walked rather than decoded into a struct.
func (c *Client) CIScores(ctx context.Context) (*CIScoreTable, error) {
	result, err := c.GetResult(ctx, "/carbon/ci-scores", nil)
	if err != nil {
		return nil, err
	}
	table := &CIScoreTable{Scores: map[string]float64{}}
	result.ForEach(func(key, value gjson.Result) bool {
		if key.String() == "source" {
			table.Source = value.String()
			return true
		}
		if value.Type == gjson.Number {
			table.Scores[key.String()] = value.Float()
		}
		return true
	})
	return table, nil
}

// CarbonScenarios returns the predefined calculator scenarios.
func (c *Client) CarbonScenarios(ctx context.Context) ([]CarbonScenario, error) {
	var wrapper struct {
		Scenarios []CarbonScenario `json:"scenarios"`
	}
	if err := c.GetJSON(ctx, "/policy/carbon-calculator/scenarios", nil, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Scenarios, nil
}
