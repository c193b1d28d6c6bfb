package cli

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/abfi/biolens/internal/query"
	"github.com/abfi/biolens/internal/tui"
)

// ErrNotATerminal is returned when the dashboard is launched without a TTY.
var ErrNotATerminal = errors.New("dashboard requires an interactive terminal")

// newDashboardCmd launches the interactive TUI.
func newDashboardCmd() *cobra.Command {
	var commodity string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Interactive market-intelligence dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(os.Stdout) {
				return ErrNotATerminal
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			cache := query.New(query.WithLogger(logger))
			defer cache.Close()

			model, err := tui.NewDashboard(cache, client, tui.Config{
				Commodity:       commodity,
				StaleTime:       cfg.Refresh.StaleTime,
				RefetchInterval: cfg.Refresh.RefetchInterval,
				RefetchOnFocus:  cfg.RefetchOnFocus(),
			})
			if err != nil {
				return err
			}
			defer model.Release()

			p := tea.NewProgram(*model, tea.WithAltScreen(), tea.WithReportFocus())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&commodity, "commodity", "", "commodity charted on the prices tab")
	return cmd
}
