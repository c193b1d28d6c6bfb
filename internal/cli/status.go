package cli

import (
	"sort"

	"github.com/spf13/cobra"
)

// newStatusCmd reports upstream API health and data freshness.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Upstream API version and data freshness",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			st, err := client.Status(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Printf("api version %s (%s)\n", st.Version, st.Environment)

			models := make([]string, 0, len(st.DataFreshness))
			for model := range st.DataFreshness {
				models = append(models, model)
			}
			sort.Strings(models)
			for _, model := range models {
				cmd.Printf("%-20s %s\n", model, st.DataFreshness[model])
			}
			return nil
		},
	}
}
