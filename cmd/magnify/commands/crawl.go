package commands

import (
	"log/slog"
	"time"

	"magnify-backend/lib/serviceutil"
	"magnify-backend/lib/telemetry"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(crawlCmd)
}

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Runs one full crawl: index courses, scrape sections, merge history, publish.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig()

		slog.Info("starting crawl", "term", cfg.Term, "bucket", cfg.Bucket)
		telemetry.InstrumentPerfStats(ctx)

		service, cleanup := createService(ctx, cfg)
		defer cleanup()

		t1 := time.Now()
		err := service.Run(ctx)
		if err != nil {
			serviceutil.Fatal("crawl failed", err)
		}
		slog.Info("crawl complete", "seconds", time.Since(t1).Seconds())
	},
}
