package tracker

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"magnify-backend/lib/scrapers/courseguide"
)

// SectionScraper is the per-course scrape capability, implemented by
// *courseguide.Client and faked in tests.
type SectionScraper interface {
	ScrapeSections(ctx context.Context, course, url string) ([]courseguide.Observation, error)
}

const defaultWorkers = 6

// Crawl scrapes every indexed course under bounded parallelism and
// flattens the results. Course keys are processed in sorted order and
// results are gathered by task index, so output order is stable
// across runs regardless of which fetch finishes first.
//
// Courses whose pages yield no schedule rows are skipped with a
// warning. Scrape errors are fatal to the whole crawl: the retry
// policy already absorbed timeouts, anything left is a transport
// failure that would make the published snapshot lie by omission.
func Crawl(ctx context.Context, scraper SectionScraper, index map[string]string, workers int) ([]courseguide.Observation, error) {
	if workers <= 0 {
		workers = defaultWorkers
	}

	courses := make([]string, 0, len(index))
	for course := range index {
		courses = append(courses, course)
	}
	sort.Strings(courses)

	slog.InfoContext(ctx, "crawling courses", "count", len(courses), "workers", workers)

	results := make([][]courseguide.Observation, len(courses))
	errs := make([]error, len(courses))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				course := courses[i]
				results[i], errs[i] = scraper.ScrapeSections(ctx, course, index[course])
			}
		}()
	}

	for i := range courses {
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

	var out []courseguide.Observation
	for i, sections := range results {
		if len(sections) == 0 {
			slog.WarnContext(ctx, "course may not exist, skipped in this output", "course", courses[i])
			continue
		}
		out = append(out, sections...)
	}
	return out, nil
}
