package commands

import (
	"log/slog"
	"time"

	"magnify-backend/lib/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(ratesCmd)
}

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Rebuilds the seat-opening rate table from published course data.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig()

		service, cleanup := createService(ctx, cfg)
		defer cleanup()

		t1 := time.Now()
		err := service.RunRates(ctx)
		if err != nil {
			serviceutil.Fatal("rate calculation failed", err)
		}
		slog.Info("rates published", "seconds", time.Since(t1).Seconds())
	},
}
