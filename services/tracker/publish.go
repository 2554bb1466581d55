package tracker

import (
	"context"
	"fmt"
	"log/slog"

	"magnify-backend/lib/blobstore"
	"magnify-backend/lib/textutil"
)

// Keys names the blobs the pipeline publishes. Zero values fall back
// to the deployment's canonical layout.
type Keys struct {
	History   string `json:"history"`
	Overview  string `json:"overview"`
	Rates     string `json:"rates"`
	CourseDir string `json:"course_dir"`
}

func (k Keys) withDefaults() Keys {
	if k.History == "" {
		k.History = "data/course_data.csv"
	}
	if k.Overview == "" {
		k.Overview = "course_data/overview.csv"
	}
	if k.Rates == "" {
		k.Rates = "course_data/rates.csv"
	}
	if k.CourseDir == "" {
		k.CourseDir = "course_data/course/"
	}
	return k
}

// all published blobs are dashboard-facing CSVs cached for an hour
var publishOptions = blobstore.PutOptions{
	ContentType:         "application/csv",
	CacheControlSeconds: 3600,
	Public:              true,
}

// PublishHistory uploads the canonical full-history blob and one
// filtered blob per course, keyed by the course's slug. Nothing is
// written until the merged table is complete, so the published files
// are always internally consistent snapshots.
func PublishHistory(ctx context.Context, store blobstore.Store, keys Keys, records []Record) error {
	keys = keys.withDefaults()

	err := store.Put(ctx, keys.History, EncodeRecords(records), publishOptions)
	if err != nil {
		return fmt.Errorf("put history: %w", err)
	}

	byCourse := map[string][]Record{}
	for _, rec := range records {
		byCourse[rec.Course] = append(byCourse[rec.Course], rec)
	}

	for course, courseRecords := range byCourse {
		key := keys.CourseDir + textutil.Slugify(course) + ".csv"
		err := store.Put(ctx, key, EncodeCourseRecords(courseRecords), publishOptions)
		if err != nil {
			return fmt.Errorf("put %s: %w", key, err)
		}
	}

	slog.InfoContext(ctx, "published history", "rows", len(records), "courses", len(byCourse))
	return nil
}

func PublishOverview(ctx context.Context, store blobstore.Store, keys Keys, overview []OverviewRow) error {
	keys = keys.withDefaults()
	err := store.Put(ctx, keys.Overview, EncodeOverview(overview), publishOptions)
	if err != nil {
		return fmt.Errorf("put overview: %w", err)
	}
	slog.InfoContext(ctx, "published overview", "rows", len(overview))
	return nil
}

func PublishRates(ctx context.Context, store blobstore.Store, keys Keys, rates []RateRecord) error {
	keys = keys.withDefaults()
	err := store.Put(ctx, keys.Rates, EncodeRates(rates), publishOptions)
	if err != nil {
		return fmt.Errorf("put rates: %w", err)
	}
	slog.InfoContext(ctx, "published rates", "rows", len(rates))
	return nil
}
