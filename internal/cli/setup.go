package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abfi/biolens/internal/api"
	"github.com/abfi/biolens/internal/config"
)

// loadConfig loads configuration and applies CLI flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Logging.Level = "debug"
		cfg.Logging.File = ""
	}
	if apiURL, _ := cmd.Flags().GetString("api-url"); apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	return cfg, nil
}

// newClient builds the API client for a command, verifying version
// compatibility against the server unless --skip-version-check is set.
func newClient(cmd *cobra.Command) (*api.Client, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	opts := []api.ClientOption{api.WithLogger(logger)}
	if cfg.API.Retry {
		opts = append(opts, api.WithRetry(true))
	}
	client := api.NewClient(cfg.ResolvedBaseURL(), opts...)

	skip, _ := cmd.Flags().GetBool("skip-version-check")
	if !skip {
		if verErr := client.CheckVersion(cmd.Context()); verErr != nil {
			return nil, fmt.Errorf("api version check failed (use --skip-version-check to bypass): %w", verErr)
		}
	}
	return client, nil
}
