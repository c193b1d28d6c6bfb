package cli_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abfi/biolens/internal/cli"
	"github.com/abfi/biolens/internal/config"
)

// execute runs the CLI against an optional test server and returns the
// combined output. The config dir is isolated per test.
func execute(t *testing.T, srvURL string, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvVarConfigDir, t.TempDir())

	root := cli.NewRootCmd("test")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)

	full := args
	if srvURL != "" {
		full = append(full, "--api-url", srvURL, "--skip-version-check")
	}
	root.SetArgs(full)

	err := root.Execute()
	return buf.String(), err
}

func TestRootHelpListsCommandGroups(t *testing.T) {
	out, err := execute(t, "", "--help")
	require.NoError(t, err)

	for _, name := range []string{"sentiment", "prices", "policy", "carbon", "config", "dashboard", "status"} {
		assert.Contains(t, out, name)
	}
}

func TestPricesKPIs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/prices/kpis", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"commodity": "woodchips", "price": 214.5, "currency": "AUD",
			 "unit": "tonne", "change_pct": 1.4, "change_direction": "up"}
		]`))
	}))
	defer srv.Close()

	out, err := execute(t, srv.URL, "prices", "kpis")
	require.NoError(t, err)
	assert.Contains(t, out, "woodchips")
	assert.Contains(t, out, "214.50")
	assert.Contains(t, out, "+1.4%")
}

func TestSentimentLendersRenderSparklines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"lender": "Commonwealth Bank", "sentiment": 71.0, "change_30d": 2.5,
			 "documents": 12, "trend": [0, 50, 100]}
		]`))
	}))
	defer srv.Close()

	out, err := execute(t, srv.URL, "sentiment", "lenders")
	require.NoError(t, err)
	assert.Contains(t, out, "Commonwealth Bank")
	assert.Contains(t, out, "▁")
	assert.Contains(t, out, "█")
}

func TestPolicyTimelineSummarizesBoard(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/policy/timeline", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"jurisdiction": "AU", "date": "2026-07-01", "event_type": "enacted",
			 "title": "SAF blending mandate", "policy_id": "au-saf-1"}
		]`))
	})
	mux.HandleFunc("/api/v1/policy/kanban", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"proposed": [{"id": "p1", "title": "Draft mandate", "status": "proposed"}],
			"enacted": [{"id": "p2", "title": "Live mandate", "status": "enacted"},
			            {"id": "p3", "title": "Other mandate", "status": "enacted"}]
		}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, err := execute(t, srv.URL, "policy", "timeline")
	require.NoError(t, err)
	assert.Contains(t, out, "SAF blending mandate")
	assert.Contains(t, out, "PROPOSED: 1")
	assert.Contains(t, out, "ENACTED: 2")
}

func TestCarbonCalcSubmitsAndRendersResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/policy/carbon-calculator", r.URL.Path)

		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.InDelta(t, 50000.0, in["annual_output_tonnes"], 0.001)
		assert.InDelta(t, 0.8, in["emission_factor"], 0.001)
		assert.InDelta(t, 35.0, in["carbon_price"], 0.001)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"accu_credits": 40000, "accu_revenue": 1400000,
			"safeguard_benefit": 700000, "total_annual_revenue": 2100000,
			"sensitivity_low": 1680000, "sensitivity_high": 2520000
		}`))
	}))
	defer srv.Close()

	out, err := execute(t, srv.URL, "carbon", "calc",
		"--output-tonnes", "50000", "--emission-factor", "0.8", "--carbon-price", "35")
	require.NoError(t, err)
	assert.Contains(t, out, "40,000")
	assert.Contains(t, out, "A$2,100,000")
	assert.Contains(t, out, "A$1,680,000")
}

func TestCarbonPricesRendersBenchmarks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/carbon/prices", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"accu_spot": 34.5, "accu_forward_1y": 36.8, "corsia_eligible": 18.2,
			"eu_ets": 105.4, "voluntary_premium": 8.5,
			"as_of_date": "2026-08-25", "source": "mock"
		}`))
	}))
	defer srv.Close()

	out, err := execute(t, srv.URL, "carbon", "prices")
	require.NoError(t, err)
	assert.Contains(t, out, "ACCU spot")
	assert.Contains(t, out, "A$34.50")
	assert.Contains(t, out, "A$105.40")
	assert.Contains(t, out, "2026-08-25")
}

func TestCarbonCIScoresSortsFeedstocks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/carbon/ci-scores", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tallow": 22.5, "canola": 47.0, "source": "CORSIA default values"}`))
	}))
	defer srv.Close()

	out, err := execute(t, srv.URL, "carbon", "ci-scores")
	require.NoError(t, err)
	assert.Contains(t, out, "canola")
	assert.Contains(t, out, "22.5")
	assert.Contains(t, out, "Source: CORSIA default values")
	assert.Less(t, strings.Index(out, "canola"), strings.Index(out, "tallow"))
}

func TestCarbonCalcRejectsInvalidInput(t *testing.T) {
	_, err := execute(t, "http://unused.invalid", "carbon", "calc",
		"--output-tonnes", "0", "--emission-factor", "0.8", "--carbon-price", "35")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "annual_output_tonnes")
}

func TestCarbonCalcRequiresFlags(t *testing.T) {
	_, err := execute(t, "", "carbon", "calc")
	require.Error(t, err)
}

func TestVersionCheckBlocksIncompatibleAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"api_version": "3.0.0", "environment": "production"}`))
	}))
	defer srv.Close()

	_, err := execute(t, "", "prices", "kpis", "--api-url", srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}

func TestConfigInitThenValidate(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvVarConfigDir, dir)

	root := cli.NewRootCmd("test")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"config", "init"})
	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "wrote")

	buf.Reset()
	root = cli.NewRootCmd("test")
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"config", "validate"})
	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "configuration ok")
}

func TestDashboardRequiresTerminal(t *testing.T) {
	_, err := execute(t, "", "dashboard")
	require.ErrorIs(t, err, cli.ErrNotATerminal)
}

func TestStatusRendersFreshness(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"api_version": "1.2.0", "environment": "production",
			"data_freshness": {"sentiment": "2026-08-25T06:00:00Z", "prices": "2026-08-25T05:30:00Z"}
		}`))
	}))
	defer srv.Close()

	out, err := execute(t, srv.URL, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.0")
	assert.Contains(t, out, "sentiment")
}
