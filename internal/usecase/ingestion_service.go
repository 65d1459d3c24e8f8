package usecase

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/fantasy"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/fixture"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/playerstats"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/rawdata"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/team"
	"github.com/riskibarqy/fpl-optimizer/internal/platform/logging"
)

const defaultIngestWorkers = 4

type IngestionRepositories struct {
	Teams     team.Repository
	Players   player.Repository
	Gameweeks gameweek.Repository
	Fixtures  fixture.Repository
	Stats     playerstats.Repository
	Squads    fantasy.SquadRepository
	Transfers fantasy.TransferRepository
	// RawData is optional; snapshots are skipped when nil.
	RawData rawdata.Repository
}

// IngestionService pulls FPL data into the local store.
type IngestionService struct {
	provider FPLProvider
	repos    IngestionRepositories
	workers  int
	logger   *logging.Logger
	now      func() time.Time
}

func NewIngestionService(provider FPLProvider, repos IngestionRepositories, workers int, logger *logging.Logger) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = defaultIngestWorkers
	}

	return &IngestionService{
		provider: provider,
		repos:    repos,
		workers:  workers,
		logger:   logger,
		now:      time.Now,
	}
}

type SyncReferenceResult struct {
	Teams           int `json:"teams"`
	Players         int `json:"players"`
	Gameweeks       int `json:"gameweeks"`
	Fixtures        int `json:"fixtures"`
	CurrentGameweek int `json:"current_gameweek"`
	Snapshots       int `json:"snapshots"`
}

// SyncReference loads teams, players, gameweeks and fixtures.
func (s *IngestionService) SyncReference(ctx context.Context) (SyncReferenceResult, error) {
	ctx, span := startSpan(ctx, "IngestionService.SyncReference")
	defer span.End()

	bootstrap, err := s.provider.FetchBootstrap(ctx)
	if err != nil {
		return SyncReferenceResult{}, fmt.Errorf("fetch bootstrap: %w", err)
	}
	if err := s.repos.Teams.UpsertMany(ctx, bootstrap.Teams); err != nil {
		return SyncReferenceResult{}, fmt.Errorf("upsert teams: %w", err)
	}
	if err := s.repos.Players.UpsertMany(ctx, bootstrap.Players); err != nil {
		return SyncReferenceResult{}, fmt.Errorf("upsert players: %w", err)
	}
	if err := s.repos.Gameweeks.UpsertMany(ctx, bootstrap.Gameweeks); err != nil {
		return SyncReferenceResult{}, fmt.Errorf("upsert gameweeks: %w", err)
	}

	fixtures, fixturePayloads, err := s.provider.FetchFixtures(ctx)
	if err != nil {
		return SyncReferenceResult{}, fmt.Errorf("fetch fixtures: %w", err)
	}
	if err := s.repos.Fixtures.UpsertMany(ctx, fixtures); err != nil {
		return SyncReferenceResult{}, fmt.Errorf("upsert fixtures: %w", err)
	}

	payloads := append(append([]rawdata.Payload(nil), bootstrap.RawPayloads...), fixturePayloads...)
	result := SyncReferenceResult{
		Teams:           len(bootstrap.Teams),
		Players:         len(bootstrap.Players),
		Gameweeks:       len(bootstrap.Gameweeks),
		Fixtures:        len(fixtures),
		CurrentGameweek: gameweek.Current(bootstrap.Gameweeks),
		Snapshots:       s.storeSnapshots(ctx, payloads),
	}

	s.logger.InfoContext(ctx, "reference data synced",
		"teams", result.Teams,
		"players", result.Players,
		"gameweeks", result.Gameweeks,
		"fixtures", result.Fixtures,
		"current_gameweek", result.CurrentGameweek,
	)
	return result, nil
}

type SyncHistoriesInput struct {
	// PlayerIDs limits the sync; empty means every stored player.
	PlayerIDs []int64 `validate:"dive,gt=0"`
	Workers   int     `validate:"gte=0,lte=64"`
}

type SyncHistoriesResult struct {
	Requested int     `json:"requested"`
	Succeeded int     `json:"succeeded"`
	Failed    int     `json:"failed"`
	Lines     int     `json:"lines"`
	FailedIDs []int64 `json:"failed_ids,omitempty"`
}

// SyncPlayerHistories fetches element-summary history for players through a
// bounded worker pool. One player's failure does not stop the others.
func (s *IngestionService) SyncPlayerHistories(ctx context.Context, input SyncHistoriesInput) (SyncHistoriesResult, error) {
	ctx, span := startSpan(ctx, "IngestionService.SyncPlayerHistories")
	defer span.End()

	if err := validateInput(ctx, input); err != nil {
		return SyncHistoriesResult{}, err
	}

	playerIDs := input.PlayerIDs
	if len(playerIDs) == 0 {
		players, err := s.repos.Players.ListAll(ctx)
		if err != nil {
			return SyncHistoriesResult{}, fmt.Errorf("list players: %w", err)
		}
		playerIDs = make([]int64, 0, len(players))
		for _, p := range players {
			playerIDs = append(playerIDs, p.ID)
		}
	}
	result := SyncHistoriesResult{Requested: len(playerIDs)}
	if len(playerIDs) == 0 {
		return result, nil
	}

	workerCount := input.Workers
	if workerCount <= 0 {
		workerCount = s.workers
	}
	if workerCount > len(playerIDs) {
		workerCount = len(playerIDs)
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return SyncHistoriesResult{}, fmt.Errorf("create history worker pool: %w", err)
	}
	defer pool.Release()

	var (
		workers   sync.WaitGroup
		mu        sync.Mutex
		payloads  []rawdata.Payload
		failedIDs []int64
		succeeded atomic.Int64
		lines     atomic.Int64
	)
	markFailed := func(id int64) {
		mu.Lock()
		failedIDs = append(failedIDs, id)
		mu.Unlock()
	}

	for _, playerID := range playerIDs {
		if ctx.Err() != nil {
			break
		}
		workers.Add(1)
		submitErr := pool.Submit(func() {
			defer workers.Done()

			history, raw, err := s.provider.FetchPlayerHistory(ctx, playerID)
			if err != nil {
				s.logger.WarnContext(ctx, "fetch player history failed", "player_id", playerID, "error", err)
				markFailed(playerID)
				return
			}
			if err := s.repos.Stats.ReplaceForPlayer(ctx, playerID, history); err != nil {
				s.logger.WarnContext(ctx, "store player history failed", "player_id", playerID, "error", err)
				markFailed(playerID)
				return
			}

			succeeded.Add(1)
			lines.Add(int64(len(history)))
			mu.Lock()
			payloads = append(payloads, raw...)
			mu.Unlock()
		})
		if submitErr != nil {
			workers.Done()
			markFailed(playerID)
			s.logger.WarnContext(ctx, "submit player history task failed", "player_id", playerID, "error", submitErr)
		}
	}
	workers.Wait()

	result.Succeeded = int(succeeded.Load())
	result.Lines = int(lines.Load())
	slices.Sort(failedIDs)
	result.FailedIDs = failedIDs
	result.Failed = len(failedIDs)
	s.storeSnapshots(ctx, payloads)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("sync player histories: %w", err)
	}
	if result.Succeeded == 0 {
		return result, fmt.Errorf("%w: no player history could be fetched", ErrDependencyUnavailable)
	}

	s.logger.InfoContext(ctx, "player histories synced",
		"requested", result.Requested,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"lines", result.Lines,
		"workers", workerCount,
	)
	return result, nil
}

type ImportManagerInput struct {
	ManagerID int64 `validate:"gt=0"`
	// Gameweek defaults to the current gameweek.
	Gameweek int `validate:"gte=0,lte=38"`
}

type ImportManagerResult struct {
	Squad     fantasy.Squad `json:"squad"`
	Transfers int           `json:"transfers"`
}

// ImportManager stores a manager's picks, bank and transfer history.
func (s *IngestionService) ImportManager(ctx context.Context, input ImportManagerInput) (ImportManagerResult, error) {
	ctx, span := startSpan(ctx, "IngestionService.ImportManager", managerAttr(input.ManagerID))
	defer span.End()

	if err := validateInput(ctx, input); err != nil {
		return ImportManagerResult{}, err
	}

	gw := input.Gameweek
	if gw == 0 {
		current, err := currentGameweek(ctx, s.repos.Gameweeks)
		if err != nil {
			return ImportManagerResult{}, err
		}
		gw = current
	}

	picks, pickPayloads, err := s.provider.FetchManagerPicks(ctx, input.ManagerID, gw)
	if err != nil {
		return ImportManagerResult{}, fmt.Errorf("fetch manager picks: %w", err)
	}
	transfers, transferPayloads, err := s.provider.FetchManagerTransfers(ctx, input.ManagerID)
	if err != nil {
		return ImportManagerResult{}, fmt.Errorf("fetch manager transfers: %w", err)
	}

	squad := fantasy.Squad{
		ManagerID: input.ManagerID,
		Gameweek:  gw,
		PlayerIDs: picks.PlayerIDs,
		Bank:      picks.Bank,
		UpdatedAt: s.now().UTC(),
	}
	if err := squad.ValidateBasic(); err != nil {
		return ImportManagerResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.repos.Squads.Upsert(ctx, squad); err != nil {
		return ImportManagerResult{}, fmt.Errorf("upsert manager squad: %w", err)
	}
	if err := s.repos.Transfers.ReplaceForManager(ctx, input.ManagerID, transfers); err != nil {
		return ImportManagerResult{}, fmt.Errorf("replace manager transfers: %w", err)
	}
	s.storeSnapshots(ctx, append(pickPayloads, transferPayloads...))

	s.logger.InfoContext(ctx, "manager imported",
		"manager_id", input.ManagerID,
		"gameweek", gw,
		"picks", len(squad.PlayerIDs),
		"bank", squad.Bank,
		"transfers", len(transfers),
	)
	return ImportManagerResult{Squad: squad, Transfers: len(transfers)}, nil
}

// storeSnapshots keeps raw payloads when a snapshot store is configured.
// Failures are logged; snapshots never fail a sync.
func (s *IngestionService) storeSnapshots(ctx context.Context, payloads []rawdata.Payload) int {
	if s.repos.RawData == nil || len(payloads) == 0 {
		return 0
	}
	if err := s.repos.RawData.UpsertMany(ctx, payloads); err != nil {
		s.logger.WarnContext(ctx, "store raw payload snapshots failed", "count", len(payloads), "error", err)
		return 0
	}
	return len(payloads)
}

// currentGameweek resolves the current event from the stored calendar.
func currentGameweek(ctx context.Context, repo gameweek.Repository) (int, error) {
	items, err := repo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list gameweeks: %w", err)
	}
	if len(items) == 0 {
		return 0, fmt.Errorf("%w: gameweeks are not synced yet", ErrNotFound)
	}
	return gameweek.Current(items), nil
}
