// Package app wires configuration, clients, repositories, and services
// into a runnable ingestion process.
package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/oddsight/oddsight/external/livescore"
	"github.com/oddsight/oddsight/external/logos"
	"github.com/oddsight/oddsight/external/sheets"
	"github.com/oddsight/oddsight/internal/config"
	"github.com/oddsight/oddsight/internal/domain/live"
	"github.com/oddsight/oddsight/internal/domain/match"
	"github.com/oddsight/oddsight/internal/infrastructure/repository/memory"
	"github.com/oddsight/oddsight/internal/infrastructure/repository/postgres"
	"github.com/oddsight/oddsight/internal/platform/cache"
	"github.com/oddsight/oddsight/internal/platform/logging"
	"github.com/oddsight/oddsight/internal/platform/resilience"
	"github.com/oddsight/oddsight/internal/usecase"
)

type App struct {
	Config config.Config
	Logger *logging.Logger
	Ingest *usecase.IngestService
	Live   *usecase.LiveScoreService
	Query  *usecase.QueryService

	db *sqlx.DB
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("at least one source must be configured")
	}

	repo := memory.NewCollectionRepository()

	var archive match.CollectionRepository
	var db *sqlx.DB
	if cfg.DBEnabled {
		var err error
		db, err = postgres.Connect(ctx, cfg.DBURL, cfg.DBDisablePreparedBinary)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		logger.Info("postgres archive connected", "db_name", dbNameFromURL(cfg.DBURL))
		archive = postgres.NewCollectionRepository(db)
	}

	sheetsClient := sheets.NewClient(sheets.ClientConfig{
		Timeout:    cfg.SheetsTimeout,
		MaxRetries: cfg.SheetsMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SheetsCircuitEnabled,
			FailureThreshold: cfg.SheetsCircuitFailureCount,
			OpenTimeout:      cfg.SheetsCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SheetsCircuitHalfOpenMaxReq,
		},
	})

	ingest := usecase.NewIngestService(
		sheetsClient,
		repo,
		archive,
		cfg.Sources,
		cfg.IngestSourceTimeout,
		len(cfg.Sources),
		logger,
	)

	if cfg.LogoBaseURL != "" {
		logoClient := logos.NewClient(logos.ClientConfig{
			BaseURL: cfg.LogoBaseURL,
			Timeout: cfg.LogoTimeout,
			Cache:   cache.NewStore(cfg.CacheTTL, cfg.CacheNegativeTTL),
			Logger:  logger,
		})
		ingest.WithEnrichment(usecase.NewEnrichService(logoClient, cfg.EnrichWorkers, logger))
	}

	var liveSvc *usecase.LiveScoreService
	if cfg.LiveScoreBaseURL != "" {
		scoreClient := livescore.NewClient(livescore.ClientConfig{
			BaseURL: cfg.LiveScoreBaseURL,
			Timeout: cfg.LiveScoreTimeout,
			Logger:  logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.LiveScoreCircuitEnabled,
				FailureThreshold: cfg.LiveScoreCircuitFailureCount,
				OpenTimeout:      cfg.LiveScoreCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.LiveScoreCircuitHalfOpenMaxReq,
			},
		})
		liveSvc = usecase.NewLiveScoreService(
			scoreClient,
			live.NewBoard(cfg.Thresholds),
			sportIDs(cfg.Sources),
			logger,
		)
	}

	query := usecase.NewQueryService(repo, cfg.Thresholds, liveSvc, logger)

	return &App{
		Config: cfg,
		Logger: logger,
		Ingest: ingest,
		Live:   liveSvc,
		Query:  query,
		db:     db,
	}, nil
}

func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func sportIDs(sources []config.Source) []string {
	seen := make(map[string]struct{}, len(sources))
	var out []string
	for _, src := range sources {
		if _, ok := seen[src.SportID]; ok {
			continue
		}
		seen[src.SportID] = struct{}{}
		out = append(out, src.SportID)
	}

	return out
}
