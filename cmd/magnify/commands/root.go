package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"magnify-backend/lib/blobstore"
	"magnify-backend/lib/configutil"
	"magnify-backend/lib/scrapers/courseguide"
	"magnify-backend/lib/serviceutil"
	"magnify-backend/lib/sqliteutil"
	"magnify-backend/lib/telemetry"
	"magnify-backend/services/tracker"
	"magnify-backend/services/tracker/db"

	"github.com/spf13/cobra"
)

type Config struct {
	// catalog term code, e.g. "w_22_2370"
	Term    string `json:"term"`
	BaseUrl string `json:"base_url"`
	Bucket  string `json:"bucket"`
	Workers int    `json:"workers"`
	// path of the per-day course index cache, empty disables it
	IndexDb        string       `json:"index_db"`
	TimeoutSeconds int          `json:"timeout_seconds"`
	Keys           tracker.Keys `json:"keys"`
}

var verbose *bool

var rootCmd = &cobra.Command{
	Use:   "magnify",
	Short: "magnify crawls the course guide and publishes seat availability data.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.BaseUrl == "" {
		cfg.BaseUrl = "https://www.lsa.umich.edu"
	}
	return cfg
}

func createStore(ctx context.Context, cfg Config) blobstore.Store {
	store, err := blobstore.NewS3(ctx, cfg.Bucket)
	if err != nil {
		serviceutil.Fatal("failed to initialize blob store", err)
	}
	return store
}

func createService(ctx context.Context, cfg Config) (*tracker.Service, func()) {
	client, err := courseguide.NewClient(courseguide.ClientOptions{
		BaseUrl: cfg.BaseUrl,
		Term:    cfg.Term,
		Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		// timeouts retry forever, the crawl is a batch job
		Retry: courseguide.RetryPolicy{Backoff: time.Second},
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize course guide client", err)
	}

	opts := tracker.ServiceOptions{
		Client:  client,
		Store:   createStore(ctx, cfg),
		Keys:    cfg.Keys,
		Workers: cfg.Workers,
	}

	cleanup := func() {}
	if cfg.IndexDb != "" {
		indexDB, err := sqliteutil.OpenDB(db.Schema, cfg.IndexDb)
		if err != nil {
			serviceutil.Fatal("failed to open index cache", err)
		}
		opts.IndexDB = indexDB
		cleanup = func() { indexDB.Close() }
	}

	return tracker.NewService(opts), cleanup
}
