package usecase

import (
	"context"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"

	"github.com/oddsight/oddsight/internal/config"
	"github.com/oddsight/oddsight/internal/domain/match"
	"github.com/oddsight/oddsight/internal/extract"
	"github.com/oddsight/oddsight/internal/merge"
	"github.com/oddsight/oddsight/internal/platform/id"
	"github.com/oddsight/oddsight/internal/platform/logging"
	"github.com/oddsight/oddsight/internal/schema"
)

// SheetFetcher downloads one source URL as named cell grids.
type SheetFetcher interface {
	FetchGrids(ctx context.Context, sourceURL string) (map[string]schema.Grid, error)
}

// SourceOutcome records how one configured source fared in a run.
type SourceOutcome struct {
	SportID    string
	Format     string
	URL        string
	Matches    int
	Skipped    int
	DurationMs int64
	Err        error
}

// IngestReport summarizes one full ingest cycle. RunID correlates the
// report with the run's log lines.
type IngestReport struct {
	RunID        string
	Sources      []SourceOutcome
	SportsStored int
	Failed       int
}

// IngestService runs the full pipeline: fetch every configured source,
// extract canonical batches, merge them per sport, and swap the merged
// snapshots into the repository. A failing source never aborts the run.
type IngestService struct {
	fetcher       SheetFetcher
	repo          match.CollectionRepository
	archive       match.CollectionRepository
	enrich        *EnrichService
	ids           id.Generator
	sources       []config.Source
	sourceTimeout time.Duration
	maxParallel   int
	logger        *logging.Logger
}

func NewIngestService(
	fetcher SheetFetcher,
	repo match.CollectionRepository,
	archive match.CollectionRepository,
	sources []config.Source,
	sourceTimeout time.Duration,
	maxParallel int,
	logger *logging.Logger,
) *IngestService {
	if logger == nil {
		logger = logging.Default()
	}
	if maxParallel < 1 {
		maxParallel = 4
	}
	if sourceTimeout <= 0 {
		sourceTimeout = 45 * time.Second
	}

	return &IngestService{
		fetcher:       fetcher,
		repo:          repo,
		archive:       archive,
		ids:           id.NewRandomGenerator(),
		sources:       sources,
		sourceTimeout: sourceTimeout,
		maxParallel:   maxParallel,
		logger:        logger,
	}
}

// WithEnrichment hooks badge enrichment into the pipeline, applied to each
// merged sport snapshot before it is stored.
func (s *IngestService) WithEnrichment(enrich *EnrichService) *IngestService {
	s.enrich = enrich
	return s
}

// Run executes one ingest cycle. The returned error covers run-level
// failures only; per-source failures land in the report.
func (s *IngestService) Run(ctx context.Context) (IngestReport, error) {
	ctx, span := startUsecaseSpan(ctx, "IngestService.Run")
	defer span.End()

	if len(s.sources) == 0 {
		return IngestReport{}, fmt.Errorf("%w: no sources configured", ErrInvalidInput)
	}

	runID, err := s.ids.NewID()
	if err != nil {
		return IngestReport{}, fmt.Errorf("generate run id: %w", err)
	}

	outcomes := make([]SourceOutcome, len(s.sources))
	results := make([]extract.Result, len(s.sources))

	p := pool.New().WithMaxGoroutines(s.maxParallel)
	for i, src := range s.sources {
		p.Go(func() {
			start := time.Now()
			res, err := s.runSource(ctx, src)
			outcomes[i] = SourceOutcome{
				SportID:    src.SportID,
				Format:     src.Format,
				URL:        src.URL,
				Matches:    len(res.Batch.Matches),
				Skipped:    res.Skipped,
				DurationMs: time.Since(start).Milliseconds(),
				Err:        err,
			}
			results[i] = res
		})
	}
	p.Wait()

	// Fold batches per sport in configured source order so reruns over the
	// same payloads produce identical snapshots.
	merged := make(map[string]match.Collection)
	var sportOrder []string
	report := IngestReport{RunID: runID, Sources: outcomes}
	for i, src := range s.sources {
		if outcomes[i].Err != nil {
			report.Failed++
			s.logger.WarnContext(ctx, "source skipped",
				"run_id", runID,
				"sport_id", src.SportID,
				"format", src.Format,
				"error", outcomes[i].Err,
			)
			continue
		}
		if _, ok := merged[src.SportID]; !ok {
			sportOrder = append(sportOrder, src.SportID)
		}
		merged[src.SportID] = merge.Batches(merged[src.SportID], results[i].Batch)
	}

	for _, sportID := range sportOrder {
		if s.enrich != nil {
			enriched, err := s.enrich.Enrich(ctx, merged[sportID])
			if err != nil {
				s.logger.WarnContext(ctx, "enrichment failed", "sport_id", sportID, "error", err)
			} else {
				merged[sportID] = enriched
			}
		}
		if err := s.repo.ReplaceSport(ctx, sportID, merged[sportID]); err != nil {
			return report, fmt.Errorf("replace sport %s: %w", sportID, err)
		}
		if s.archive != nil {
			if err := s.archive.ReplaceSport(ctx, sportID, merged[sportID]); err != nil {
				// The in-memory snapshot already advanced; losing the
				// durable copy is worth a warning, not a failed run.
				s.logger.WarnContext(ctx, "archive sport failed", "sport_id", sportID, "error", err)
			}
		}
		report.SportsStored++
		s.logger.InfoContext(ctx, "sport snapshot replaced",
			"run_id", runID,
			"sport_id", sportID,
			"matches", len(merged[sportID].Matches),
			"leagues", len(merged[sportID].Leagues),
		)
	}

	return report, nil
}

func (s *IngestService) runSource(ctx context.Context, src config.Source) (extract.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.sourceTimeout)
	defer cancel()

	grids, err := s.fetcher.FetchGrids(ctx, src.URL)
	if err != nil {
		return extract.Result{}, crerr.Wrapf(err, "fetch %s source", src.SportID)
	}

	tag, err := extract.ParseTag(src.Format)
	if err != nil {
		return extract.Result{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	extractor, err := extract.ForTag(tag)
	if err != nil {
		return extract.Result{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	res, err := extractor.Extract(extract.Input{
		SportID:   src.SportID,
		SportName: src.SportName,
		SportIcon: src.SportIcon,
		Source:    src.URL,
		Sheets:    grids,
	})
	if err != nil {
		if crerr.Is(err, extract.ErrNoRows) {
			return extract.Result{}, fmt.Errorf("%w: %v", ErrSourceUnusable, err)
		}
		return extract.Result{}, err
	}

	return res, nil
}
