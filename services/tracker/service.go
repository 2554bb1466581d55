package tracker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"magnify-backend/lib/blobstore"
	"magnify-backend/lib/chrono"
	"magnify-backend/lib/scrapers/courseguide"
	"magnify-backend/services/tracker/db"
)

// Service composes the crawl-and-aggregate pipeline. Each stage is a
// pure function with explicit inputs and outputs; Service only wires
// them together and owns the collaborators.
type Service struct {
	client  *courseguide.Client
	store   blobstore.Store
	qry     *db.Queries
	keys    Keys
	workers int
}

type ServiceOptions struct {
	Client *courseguide.Client
	Store  blobstore.Store
	// optional, enables the per-day course index cache
	IndexDB *sql.DB
	Keys    Keys
	Workers int
}

func NewService(opts ServiceOptions) *Service {
	var qry *db.Queries
	if opts.IndexDB != nil {
		qry = db.New(opts.IndexDB)
	}
	return &Service{
		client:  opts.Client,
		store:   opts.Store,
		qry:     qry,
		keys:    opts.Keys.withDefaults(),
		workers: opts.Workers,
	}
}

// Run executes one full crawl: discover departments, index courses,
// scrape every section, merge into prior history, rebuild the
// overview, publish. Nothing is uploaded until every stage has
// completed in memory.
func (s *Service) Run(ctx context.Context) error {
	index, err := s.courseIndex(ctx)
	if err != nil {
		return err
	}

	observations, err := Crawl(ctx, s.client, index, s.workers)
	if err != nil {
		return fmt.Errorf("crawl: %w", err)
	}

	prior, err := s.loadPriorHistory(ctx)
	if err != nil {
		return err
	}

	records := MergeHistory(ctx, prior, observations)
	overview := BuildOverview(ctx, records)

	err = PublishHistory(ctx, s.store, s.keys, records)
	if err != nil {
		return err
	}
	return PublishOverview(ctx, s.store, s.keys, overview)
}

// RunRates rebuilds the rate table from the published overview and
// per-course blobs. Independently schedulable from Run.
func (s *Service) RunRates(ctx context.Context) error {
	raw, err := s.store.Get(ctx, s.keys.Overview)
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	overview, err := DecodeOverview(raw)
	if err != nil {
		return fmt.Errorf("decode overview: %w", err)
	}

	rates, err := ComputeRates(ctx, s.store, s.keys.CourseDir, overview, s.workers)
	if err != nil {
		return err
	}
	return PublishRates(ctx, s.store, s.keys, rates)
}

// courseIndex returns today's course -> URL index, from the local
// cache when a run already built it today. Indexing is the slowest
// non-parallel stage, the cache makes same-day re-runs cheap.
func (s *Service) courseIndex(ctx context.Context) (map[string]string, error) {
	day := chrono.Now().Format("2006-01-02")

	if s.qry != nil {
		cached, err := s.qry.GetCourseIndex(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("read index cache: %w", err)
		}
		if len(cached) > 0 {
			slog.InfoContext(ctx, "loaded course index from cache", "day", day, "courses", len(cached))
			return cached, nil
		}
	}

	deps, err := s.client.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "discovered departments", "count", deps.Len())

	index, err := s.client.IndexCourses(ctx, deps)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "indexed courses", "count", len(index))

	if s.qry != nil {
		err = s.qry.SaveCourseIndex(ctx, day, index)
		if err != nil {
			return nil, fmt.Errorf("save index cache: %w", err)
		}
	}
	return index, nil
}

func (s *Service) loadPriorHistory(ctx context.Context) ([]Record, error) {
	raw, err := s.store.Get(ctx, s.keys.History)
	if errors.Is(err, blobstore.ErrNotFound) {
		slog.InfoContext(ctx, "no preexisting history blob, starting fresh")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get prior history: %w", err)
	}

	prior, err := DecodeRecords(raw)
	if err != nil {
		return nil, fmt.Errorf("decode prior history: %w", err)
	}
	return prior, nil
}
