package cache

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/fixture"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/team"
	basecache "github.com/riskibarqy/fpl-optimizer/internal/platform/cache"
	"github.com/riskibarqy/fpl-optimizer/internal/platform/logging"
)

const (
	teamPrefix     = "team:"
	playerPrefix   = "player:"
	fixturePrefix  = "fixture:"
	gameweekPrefix = "gameweek:"
)

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) ListAll(ctx context.Context) ([]team.Team, error) {
	v, err := r.cache.GetOrLoad(ctx, teamPrefix+"list", func(ctx context.Context) (any, error) {
		items, err := r.next.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID int64) (team.Team, bool, error) {
	key := teamPrefix + "id:" + strconv.FormatInt(teamID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return cachedTeamByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeamByID)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) UpsertMany(ctx context.Context, teams []team.Team) error {
	if err := r.next.UpsertMany(ctx, teams); err != nil {
		return err
	}
	invalidate(ctx, r.cache, teamPrefix)
	return nil
}

type cachedTeamByID struct {
	value  team.Team
	exists bool
}

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) ListAll(ctx context.Context) ([]player.Player, error) {
	v, err := r.cache.GetOrLoad(ctx, playerPrefix+"list", func(ctx context.Context) (any, error) {
		items, err := r.next.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

// GetByIDs keys on the requested order since results follow it.
func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []int64) ([]player.Player, error) {
	parts := make([]string, 0, len(playerIDs))
	for _, id := range playerIDs {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	key := playerPrefix + "ids:" + strings.Join(parts, ",")
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.GetByIDs(ctx, slices.Clone(playerIDs))
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) UpsertMany(ctx context.Context, players []player.Player) error {
	if err := r.next.UpsertMany(ctx, players); err != nil {
		return err
	}
	invalidate(ctx, r.cache, playerPrefix)
	return nil
}

type FixtureRepository struct {
	next  fixture.Repository
	cache *basecache.Store
}

func NewFixtureRepository(next fixture.Repository, cache *basecache.Store) *FixtureRepository {
	return &FixtureRepository{next: next, cache: cache}
}

func (r *FixtureRepository) ListAll(ctx context.Context) ([]fixture.Fixture, error) {
	return r.load(ctx, fixturePrefix+"list", r.next.ListAll)
}

func (r *FixtureRepository) ListByGameweekRange(ctx context.Context, fromGameweek, toGameweek int) ([]fixture.Fixture, error) {
	key := fixturePrefix + "range:" + strconv.Itoa(fromGameweek) + ":" + strconv.Itoa(toGameweek)
	return r.load(ctx, key, func(ctx context.Context) ([]fixture.Fixture, error) {
		return r.next.ListByGameweekRange(ctx, fromGameweek, toGameweek)
	})
}

func (r *FixtureRepository) UpsertMany(ctx context.Context, items []fixture.Fixture) error {
	if err := r.next.UpsertMany(ctx, items); err != nil {
		return err
	}
	invalidate(ctx, r.cache, fixturePrefix)
	return nil
}

func (r *FixtureRepository) load(ctx context.Context, key string, fn func(context.Context) ([]fixture.Fixture, error)) ([]fixture.Fixture, error) {
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		return append([]fixture.Fixture(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]fixture.Fixture)
	return append([]fixture.Fixture(nil), items...), nil
}

type GameweekRepository struct {
	next  gameweek.Repository
	cache *basecache.Store
}

func NewGameweekRepository(next gameweek.Repository, cache *basecache.Store) *GameweekRepository {
	return &GameweekRepository{next: next, cache: cache}
}

func (r *GameweekRepository) ListAll(ctx context.Context) ([]gameweek.Gameweek, error) {
	v, err := r.cache.GetOrLoad(ctx, gameweekPrefix+"list", func(ctx context.Context) (any, error) {
		items, err := r.next.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		return append([]gameweek.Gameweek(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]gameweek.Gameweek)
	return append([]gameweek.Gameweek(nil), items...), nil
}

func (r *GameweekRepository) UpsertMany(ctx context.Context, items []gameweek.Gameweek) error {
	if err := r.next.UpsertMany(ctx, items); err != nil {
		return err
	}
	invalidate(ctx, r.cache, gameweekPrefix)
	return nil
}

// invalidate drops one repository's entries after a write and reports the
// store's running counters.
func invalidate(ctx context.Context, store *basecache.Store, prefix string) {
	store.DeletePrefix(ctx, prefix)
	st := store.Stats()
	logging.Default().DebugContext(ctx, "cache invalidated",
		"prefix", prefix, "hits", st.Hits, "misses", st.Misses, "loads", st.Loads)
}
