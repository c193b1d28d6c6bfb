package api

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/tidwall/gjson"
)

// supportedAPIRange is the API version range this client understands.
// Version checking can be skipped with the --skip-version-check flag.
const supportedAPIRange = ">= 1.0.0, < 2.0.0"

// APIStatus summarizes the deployment the client is talking to.
type APIStatus struct {
	Version       string
	Environment   string
	DataFreshness map[string]string
}

// Status fetches /status. The payload nests per-model metadata the client
// has no use for, so only the stable fields are extracted.
func (c *Client) Status(ctx context.Context) (*APIStatus, error) {
	res, err := c.GetResult(ctx, "/status", nil)
	if err != nil {
		return nil, err
	}

	st := &APIStatus{
		Version:       res.Get("api_version").String(),
		Environment:   res.Get("environment").String(),
		DataFreshness: make(map[string]string),
	}
	res.Get("data_freshness").ForEach(func(k, v gjson.Result) bool {
		st.DataFreshness[k.String()] = v.String()
		return true
	})
	return st, nil
}

// CheckVersion verifies the deployment's API version falls inside the
// supported range.
func (c *Client) CheckVersion(ctx context.Context) error {
	st, err := c.Status(ctx)
	if err != nil {
		return fmt.Errorf("version check: %w", err)
	}

	v, err := semver.NewVersion(st.Version)
	if err != nil {
		return fmt.Errorf("version check: invalid api version %q: %w", st.Version, err)
	}

	constraint, err := semver.NewConstraint(supportedAPIRange)
	if err != nil {
		return fmt.Errorf("version check: %w", err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("api version %s outside supported range %q", st.Version, supportedAPIRange)
	}
	return nil
}
