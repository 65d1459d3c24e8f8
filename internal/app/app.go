package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/fpl-optimizer/db"
	"github.com/riskibarqy/fpl-optimizer/external/fplapi"
	"github.com/riskibarqy/fpl-optimizer/internal/config"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/fantasy"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/fixture"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/playerstats"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/prediction"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/rawdata"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/recommendation"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/team"
	cacherepo "github.com/riskibarqy/fpl-optimizer/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fpl-optimizer/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fpl-optimizer/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fpl-optimizer/internal/infrastructure/repository/sqlite"
	"github.com/riskibarqy/fpl-optimizer/internal/optimizer"
	basecache "github.com/riskibarqy/fpl-optimizer/internal/platform/cache"
	idgen "github.com/riskibarqy/fpl-optimizer/internal/platform/id"
	"github.com/riskibarqy/fpl-optimizer/internal/platform/logging"
	"github.com/riskibarqy/fpl-optimizer/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

// App is the wired set of services shared by the CLI and the MCP server.
type App struct {
	Config config.Config
	Logger *logging.Logger

	Ingestion   *usecase.IngestionService
	Predictions *usecase.PredictionService
	Lineups     *usecase.LineupService
	Transfers   *usecase.TransferService
	Fixtures    *usecase.FixtureService
	Players     *usecase.PlayerService
	Refresh     *usecase.RefreshService

	closers []func() error
}

type repositories struct {
	teams           team.Repository
	players         player.Repository
	gameweeks       gameweek.Repository
	fixtures        fixture.Repository
	stats           playerstats.Repository
	predictions     prediction.Repository
	squads          fantasy.SquadRepository
	transfers       fantasy.TransferRepository
	recommendations recommendation.Repository
	rawData         rawdata.Repository
}

// New builds the store selected by cfg.StoreDriver and every service on top
// of it. Close releases database handles.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	a := &App{Config: cfg, Logger: logger}

	repos, err := a.openStore(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	if cfg.SnapshotPath != "" {
		snapshots, err := sqlite.Open(ctx, cfg.SnapshotPath)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.closers = append(a.closers, snapshots.Close)
		repos.rawData = snapshots
		logger.Info("snapshot store enabled", "path", cfg.SnapshotPath)
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.teams = cacherepo.NewTeamRepository(repos.teams, store)
		repos.players = cacherepo.NewPlayerRepository(repos.players, store)
		repos.fixtures = cacherepo.NewFixtureRepository(repos.fixtures, store)
		repos.gameweeks = cacherepo.NewGameweekRepository(repos.gameweeks, store)
	}

	table, err := config.LoadScoringTable(cfg.ScoringRulesPath)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	client := fplapi.NewClient(fplapi.ClientConfig{
		BaseURL:       cfg.FPLBaseURL,
		UserAgent:     cfg.FPLUserAgent,
		Timeout:       cfg.FPLTimeout,
		MaxRetries:    cfg.FPLMaxRetries,
		RatePerSecond: cfg.FPLRatePerSec,
		Burst:         cfg.FPLRateBurst,
		Logger:        logger.Named("fplapi"),
	})

	engine := optimizer.NewEngine(optimizer.Config{
		Rules:     fantasy.DefaultRules(),
		NodeLimit: cfg.SolverNodeLimit,
		Logger:    logger.Named("optimizer"),
	})

	optimizerRepos := usecase.OptimizerRepositories{
		Players:         repos.players,
		Gameweeks:       repos.gameweeks,
		Predictions:     repos.predictions,
		Squads:          repos.squads,
		Transfers:       repos.transfers,
		Recommendations: repos.recommendations,
	}
	solverCfg := usecase.SolverConfig{Timeout: cfg.SolverTimeout, Horizon: cfg.PredictHorizon}
	ids := idgen.NewUUIDGenerator()

	a.Ingestion = usecase.NewIngestionService(client, usecase.IngestionRepositories{
		Teams:     repos.teams,
		Players:   repos.players,
		Gameweeks: repos.gameweeks,
		Fixtures:  repos.fixtures,
		Stats:     repos.stats,
		Squads:    repos.squads,
		Transfers: repos.transfers,
		RawData:   repos.rawData,
	}, cfg.IngestWorkers, logger)
	a.Predictions = usecase.NewPredictionService(
		repos.players,
		repos.fixtures,
		repos.gameweeks,
		repos.stats,
		repos.predictions,
		table,
		usecase.PredictionConfig{Window: cfg.PredictWindow, Horizon: cfg.PredictHorizon},
		logger,
	)
	a.Lineups = usecase.NewLineupService(optimizerRepos, engine, ids, solverCfg, logger)
	a.Transfers = usecase.NewTransferService(optimizerRepos, engine, ids, solverCfg, cfg.BatchWorkers, logger)
	a.Fixtures = usecase.NewFixtureService(repos.teams, repos.fixtures, repos.gameweeks)
	a.Players = usecase.NewPlayerService(repos.players, repos.predictions)
	a.Refresh = usecase.NewRefreshService(a.Ingestion, a.Predictions, logger)

	return a, nil
}

// Persistent reports whether data survives the process. The memory store
// starts empty on every run.
func (a *App) Persistent() bool {
	return a.Config.StoreDriver == config.StorePostgres
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) openStore(ctx context.Context) (repositories, error) {
	switch a.Config.StoreDriver {
	case config.StorePostgres:
		dbx, err := openPostgres(ctx, a.Config)
		if err != nil {
			return repositories{}, err
		}
		a.closers = append(a.closers, dbx.Close)
		a.Logger.Info("postgres connected", "db", redactDBURL(a.Config.DBURL))

		if a.Config.DBAutoMigrate {
			if err := migrateUp(a.Config.DBURL); err != nil {
				return repositories{}, err
			}
			a.Logger.Info("database migrations applied")
		}

		return repositories{
			teams:           postgres.NewTeamRepository(dbx),
			players:         postgres.NewPlayerRepository(dbx),
			gameweeks:       postgres.NewGameweekRepository(dbx),
			fixtures:        postgres.NewFixtureRepository(dbx),
			stats:           postgres.NewPlayerStatsRepository(dbx),
			predictions:     postgres.NewPredictionRepository(dbx),
			squads:          postgres.NewSquadRepository(dbx),
			transfers:       postgres.NewTransferRepository(dbx),
			recommendations: postgres.NewRecommendationRepository(dbx),
			rawData:         postgres.NewRawDataRepository(dbx),
		}, nil
	default:
		return repositories{
			teams:           memory.NewTeamRepository(nil),
			players:         memory.NewPlayerRepository(nil),
			gameweeks:       memory.NewGameweekRepository(),
			fixtures:        memory.NewFixtureRepository(nil),
			stats:           memory.NewPlayerStatsRepository(),
			predictions:     memory.NewPredictionRepository(),
			squads:          memory.NewSquadRepository(),
			transfers:       memory.NewTransferRepository(),
			recommendations: memory.NewRecommendationRepository(),
			rawData:         memory.NewRawDataRepository(),
		}, nil
	}
}

func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dbx, err := otelsqlx.Open("postgres", cfg.DBURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := dbx.PingContext(ctx); err != nil {
		_ = dbx.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return dbx, nil
}

func migrateUp(dbURL string) error {
	m, err := db.NewMigrator(dbURL)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = m.Close()
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
