package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"magnify-backend/lib/blobstore"
)

// RateRecord is one section's estimated seats-opened-per-day.
type RateRecord struct {
	ClassNo string
	Rate    float64
}

// fallback window when a section's history is too short to span a
// whole day, keeps the denominator away from zero
const fallbackWindowDays = 25

// SectionRate estimates how fast seats open up for one section given
// its full observation history. Walking from the most recent bucket
// backward, the first bucket with a positive open-seat count anchors
// the window: rate = (max open seats ever - seats at that bucket) /
// whole days back to the oldest bucket, with a 25 day fallback when
// the window truncates to zero days. A section that has never had a
// positive count rates 0, seats there simply don't open.
//
// This is a heuristic, not a statistically rigorous rate; both the
// anchor choice and the fallback are load-bearing for dashboard
// continuity.
func SectionRate(records []Record) float64 {
	if len(records) == 0 {
		return 0
	}

	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Hour.After(sorted[j].Hour)
	})

	maxSeats := 0
	for _, rec := range sorted {
		if rec.OpenSeats > maxSeats {
			maxSeats = rec.OpenSeats
		}
	}

	oldest := sorted[len(sorted)-1].Hour
	for _, rec := range sorted {
		if rec.OpenSeats <= 0 {
			continue
		}
		days := int(rec.Hour.Sub(oldest).Hours() / 24)
		if days == 0 {
			days = fallbackWindowDays
		}
		return float64(maxSeats-rec.OpenSeats) / float64(days)
	}
	return 0
}

// CourseRates computes one RateRecord per distinct class number in a
// course's history, in first-appearance order.
func CourseRates(records []Record) []RateRecord {
	byClass := map[string][]Record{}
	var order []string
	for _, rec := range records {
		if _, ok := byClass[rec.ClassNo]; !ok {
			order = append(order, rec.ClassNo)
		}
		byClass[rec.ClassNo] = append(byClass[rec.ClassNo], rec)
	}

	out := make([]RateRecord, 0, len(order))
	for _, classNo := range order {
		out = append(out, RateRecord{
			ClassNo: classNo,
			Rate:    SectionRate(byClass[classNo]),
		})
	}
	return out
}

// ComputeRates rebuilds the rate table from the published per-course
// blobs, driven by the overview table's course list. It runs under
// the same bounded-parallelism policy as the crawl and is
// independently schedulable from it. A missing per-course blob is
// skipped with a warning so one stale overview row can't sink the
// whole table.
func ComputeRates(ctx context.Context, store blobstore.Store, courseDir string, overview []OverviewRow, workers int) ([]RateRecord, error) {
	if workers <= 0 {
		workers = defaultWorkers
	}

	results := make([][]RateRecord, len(overview))
	errs := make([]error, len(overview))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				row := overview[i]
				slug := fmt.Sprintf("%s-%d", strings.ToLower(row.Dept), row.CourseNum)
				key := courseDir + slug + ".csv"

				raw, err := store.Get(ctx, key)
				if errors.Is(err, blobstore.ErrNotFound) {
					slog.WarnContext(ctx, "no per-course history blob, skipping", "course", row.Course, "key", key)
					continue
				}
				if err != nil {
					errs[i] = fmt.Errorf("get %s: %w", key, err)
					continue
				}

				records, err := DecodeCourseRecords(raw)
				if err != nil {
					errs[i] = fmt.Errorf("decode %s: %w", key, err)
					continue
				}
				results[i] = CourseRates(records)
			}
		}()
	}

	for i := range overview {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	err := errors.Join(errs...)
	if err != nil {
		return nil, err
	}

	var out []RateRecord
	for _, rates := range results {
		out = append(out, rates...)
	}
	return out, nil
}
