package commands

import (
	"fmt"
	"os"

	"magnify-backend/lib/serviceutil"
	"magnify-backend/services/tracker"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(overviewCmd)
}

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Prints the currently published course overview table.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig()
		store := createStore(ctx, cfg)

		overviewKey := cfg.Keys.Overview
		if overviewKey == "" {
			overviewKey = "course_data/overview.csv"
		}
		raw, err := store.Get(ctx, overviewKey)
		if err != nil {
			serviceutil.Fatal("failed to fetch overview", err)
		}
		overview, err := tracker.DecodeOverview(raw)
		if err != nil {
			serviceutil.Fatal("failed to decode overview", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Course", "Capacity", "Available", "Waitlist", "% Available"})
		for _, row := range overview {
			t.AppendRow(table.Row{
				row.Course,
				row.Capacity,
				row.Available,
				row.Waitlist,
				fmt.Sprintf("%.1f%%", row.PercentAvailable*100),
			})
		}
		t.Render()
	},
}
