package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abfi/biolens/internal/api"
)

func TestGetJSONDecodesTypedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/prices/kpis", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"commodity":"UCO","price":1245,"currency":"AUD","unit":"MT","change_pct":2.3,"change_direction":"up"},
			{"commodity":"Tallow","price":892,"currency":"AUD","unit":"MT","change_pct":-1.2,"change_direction":"down"}
		]`))
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL)
	kpis, err := client.PriceKPIs(context.Background())
	require.NoError(t, err)
	require.Len(t, kpis, 2)
	assert.Equal(t, "UCO", kpis[0].Commodity)
	assert.InDelta(t, 1245.0, kpis[0].Price, 0.001)
	assert.Equal(t, "down", kpis[1].ChangeDirection)
}

func TestEmptyRegionAndPeriodAreOmittedFromQuery(t *testing.T) {
	var lastQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastQuery.Store(r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"commodity":"UCO","region":"AUS","source":"test","data":[{"date":"2025-06-02","open":1,"high":2,"low":0.5,"close":1.5,"volume":100}]}`))
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL)

	// The API validates region and period as strict enums; defaulted calls
	// must send no query string at all, not empty parameters.
	_, err := client.OHLC(context.Background(), "UCO", "", "")
	require.NoError(t, err)
	assert.Empty(t, lastQuery.Load())

	_, err = client.OHLC(context.Background(), "UCO", "AUS", "6M")
	require.NoError(t, err)
	assert.Equal(t, "period=6M&region=AUS", lastQuery.Load())

	_, err = client.OHLC(context.Background(), "UCO", "", "3M")
	require.NoError(t, err)
	assert.Equal(t, "period=3M", lastQuery.Load())
}

func TestNon2xxReturnsAPIErrorWithStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Commodity XYZ not found"}`))
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL)
	_, err := client.CurrentPrice(context.Background(), "XYZ", "AUS")
	require.Error(t, err)

	apiErr, ok := api.AsAPIError(err)
	require.True(t, ok, "non-2xx must surface as *APIError")
	assert.Equal(t, http.StatusNotFound, apiErr.HTTPStatus())
	assert.Contains(t, apiErr.Body, "Commodity XYZ not found")
	assert.False(t, apiErr.Retryable(), "4xx is not retryable")
}

func TestTransportFailureIsNotAnAPIError(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	client := api.NewClient(srv.URL)
	err := client.GetJSON(context.Background(), "/prices/kpis", nil, &[]api.PriceKPI{})
	require.Error(t, err)
	_, ok := api.AsAPIError(err)
	assert.False(t, ok, "transport failures are a distinct error class")
}

func TestTimeoutFailsFast(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	client := api.NewClient(srv.URL, api.WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))

	start := time.Now()
	err := client.GetJSON(context.Background(), "/sentiment/index", nil, &api.SentimentIndex{})
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second, "timeout must not hang")
}

func TestRetryRecoversFromServerErrors(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"commodity":"UCO","region":"AUS","source":"test","data":[{"date":"2025-06-02","open":1,"high":2,"low":0.5,"close":1.5,"volume":100}]}`))
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, api.WithRetry(true))
	series, err := client.OHLC(context.Background(), "UCO", "AUS", "1M")
	require.NoError(t, err)
	assert.Equal(t, int64(3), hits.Load())
	assert.Len(t, series.Data, 1)
}

func TestRetryDoesNotRepeatClientErrors(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, api.WithRetry(true))
	err := client.GetJSON(context.Background(), "/prices/kpis", nil, &[]api.PriceKPI{})
	require.Error(t, err)
	assert.Equal(t, int64(1), hits.Load(), "4xx must fail on the first attempt")
}

func TestCalculateCarbonRevenue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/policy/carbon-calculator", r.URL.Path)

		var in api.CarbonCalculatorInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.InDelta(t, 50000.0, in.AnnualOutputTonnes, 0.001)
		assert.Equal(t, "bioenergy_plant", in.ProjectType, "default project type applied")

		_, _ = w.Write([]byte(`{
			"accu_credits": 42500,
			"accu_revenue": 1466250.0,
			"safeguard_benefit": 733125.0,
			"total_annual_revenue": 2199375.0,
			"sensitivity_low": 1759500.0,
			"sensitivity_high": 2639250.0
		}`))
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL)
	result, err := client.CalculateCarbonRevenue(context.Background(), api.CarbonCalculatorInput{
		AnnualOutputTonnes: 50000,
		EmissionFactor:     0.85,
		CarbonPrice:        34.50,
	})
	require.NoError(t, err)
	assert.Equal(t, 42500, result.ACCUCredits)
	assert.InDelta(t, 2199375.0, result.TotalAnnualRevenue, 0.001)
}

func TestCarbonInputValidationRejectsBeforeNetwork(t *testing.T) {
	client := api.NewClient("http://127.0.0.1:1") // would fail if dialed

	tests := []struct {
		name  string
		in    api.CarbonCalculatorInput
		field string
	}{
		{
			name:  "zero output",
			in:    api.CarbonCalculatorInput{EmissionFactor: 0.85, CarbonPrice: 30},
			field: "annual_output_tonnes",
		},
		{
			name:  "zero emission factor",
			in:    api.CarbonCalculatorInput{AnnualOutputTonnes: 1000, CarbonPrice: 30},
			field: "emission_factor",
		},
		{
			name:  "negative carbon price",
			in:    api.CarbonCalculatorInput{AnnualOutputTonnes: 1000, EmissionFactor: 0.85, CarbonPrice: -1},
			field: "carbon_price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.CalculateCarbonRevenue(context.Background(), tt.in)
			require.Error(t, err)
			var vErr *api.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestCarbonMarketPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/carbon/prices", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"accu_spot": 34.50,
			"accu_forward_1y": 36.80,
			"corsia_eligible": 18.20,
			"eu_ets": 105.40,
			"voluntary_premium": 8.50,
			"as_of_date": "2025-06-02",
			"source": "mock"
		}`))
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL)
	prices, err := client.CarbonMarketPrices(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 34.50, prices.AccuSpot, 0.001)
	assert.InDelta(t, 105.40, prices.EUETS, 0.001)
	assert.Equal(t, "2025-06-02", prices.AsOfDate)
}

func TestCIScoresSkipsNonNumericFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/carbon/ci-scores", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"used_cooking_oil": 14.0,
			"tallow": 22.5,
			"canola": 47.0,
			"source": "CORSIA default values"
		}`))
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL)
	table, err := client.CIScores(context.Background())
	require.NoError(t, err)
	assert.Len(t, table.Scores, 3)
	assert.InDelta(t, 14.0, table.Scores["used_cooking_oil"], 0.001)
	assert.Equal(t, "CORSIA default values", table.Source)
	assert.NotContains(t, table.Scores, "source")
}

func TestPolicyKanbanNormalizesColumns(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"review": [{"id":"p3","title":"RFS Update Fed","jurisdiction":"Federal","policy_type":"regulation","status":"review"}],
			"proposed": [
				{"id":"p1","title":"SAF Mandate QLD","jurisdiction":"QLD","policy_type":"mandate","status":"proposed"},
				{"id":"p2","title":"LCFS NSW","jurisdiction":"NSW","policy_type":"regulation","status":"proposed"}
			],
			"stalled": [{"id":"p9","title":"Odd One","jurisdiction":"NT","policy_type":"mandate","status":"stalled"}]
		}`))
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL)
	cols, err := client.PolicyKanban(context.Background())
	require.NoError(t, err)
	require.Len(t, cols, 3)

	// Known statuses come first in board order, unknown ones trail.
	assert.Equal(t, "proposed", cols[0].Status)
	assert.Len(t, cols[0].Items, 2)
	assert.Equal(t, "review", cols[1].Status)
	assert.Equal(t, "stalled", cols[2].Status)
	assert.Equal(t, "SAF Mandate QLD", cols[0].Items[0].Title)
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantErr bool
	}{
		{name: "supported", version: "1.0.0", wantErr: false},
		{name: "supported patch", version: "1.4.2", wantErr: false},
		{name: "major bump", version: "2.0.0", wantErr: true},
		{name: "garbage", version: "latest", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"api_version":"` + tt.version + `","environment":"test","data_freshness":{"price_index":"2025-06-02T00:00:00Z"}}`))
			}))
			defer srv.Close()

			client := api.NewClient(srv.URL)
			err := client.CheckVersion(context.Background())
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestStatusExtractsFreshness(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"api_version":"1.0.0",
			"environment":"production",
			"models":{"sentiment":{"name":"x"}},
			"data_freshness":{"sentiment_index":"2025-06-01T06:00:00Z","price_index":"2025-05-30T00:00:00Z"}
		}`))
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL)
	st, err := client.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "production", st.Environment)
	assert.Equal(t, "2025-06-01T06:00:00Z", st.DataFreshness["sentiment_index"])
}
