package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/recommendation"
	"github.com/riskibarqy/fpl-optimizer/internal/platform/logging"
)

func newTestLineupService(w *testWorld) *LineupService {
	svc := NewLineupService(w.optimizerRepos(), testEngine(), &sequenceIDGenerator{}, SolverConfig{Timeout: 30 * time.Second}, logging.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 8, 21, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestLineupService_SelectLineup_StoredSquad(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	w.seedSquad(t, 0)
	w.seedPoints(t, squadPoints(map[int64]float64{44: 9, 54: 8}))
	svc := newTestLineupService(w)

	got, err := svc.SelectLineup(context.Background(), SelectLineupInput{ManagerID: testManagerID, Persist: true})
	if err != nil {
		t.Fatalf("select lineup: %v", err)
	}
	if len(got.Gameweeks) != 1 || got.Gameweeks[0] != 3 {
		t.Fatalf("unexpected gameweeks: %v", got.Gameweeks)
	}
	if len(got.Selection.Starters) != 11 || len(got.Selection.Bench) != 4 {
		t.Fatalf("unexpected selection sizes: starters=%d bench=%d", len(got.Selection.Starters), len(got.Selection.Bench))
	}
	if got.Selection.Captain.PlayerID != 44 {
		t.Fatalf("unexpected captain: %d", got.Selection.Captain.PlayerID)
	}
	if got.Selection.ViceCaptain.PlayerID != 54 {
		t.Fatalf("unexpected vice captain: %d", got.Selection.ViceCaptain.PlayerID)
	}

	keepers := 0
	for _, p := range got.Selection.Starters {
		if p.Position == player.PositionGoalkeeper {
			keepers++
		}
	}
	if keepers != 1 {
		t.Fatalf("expected one starting goalkeeper, got %d", keepers)
	}

	if got.RecommendationID == "" {
		t.Fatalf("expected recommendation id")
	}
	saved, err := w.recommendations.ListByManager(context.Background(), testManagerID, 10)
	if err != nil {
		t.Fatalf("list recommendations: %v", err)
	}
	if len(saved) != 1 || saved[0].Kind != recommendation.KindLineup || saved[0].Gameweek != 3 {
		t.Fatalf("unexpected saved recommendations: %+v", saved)
	}

	var decoded LineupResult
	if err := sonic.Unmarshal(saved[0].Payload, &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded.Selection.Captain.PlayerID != 44 {
		t.Fatalf("unexpected captain in payload: %d", decoded.Selection.Captain.PlayerID)
	}
}

func TestLineupService_SelectLineup_ExplicitPlayers(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	w.seedPoints(t, squadPoints(map[int64]float64{66: 12}))
	svc := newTestLineupService(w)

	got, err := svc.SelectLineup(context.Background(), SelectLineupInput{PlayerIDs: testSquadIDs, Persist: true})
	if err != nil {
		t.Fatalf("select lineup: %v", err)
	}
	if got.Selection.Captain.PlayerID != 66 {
		t.Fatalf("unexpected captain: %d", got.Selection.Captain.PlayerID)
	}
	if got.RecommendationID != "" {
		t.Fatalf("anonymous lineups must not be persisted, got id %s", got.RecommendationID)
	}
}

func TestLineupService_SelectLineup_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input SelectLineupInput
		want  error
	}{
		{name: "no squad source", input: SelectLineupInput{}, want: ErrInvalidInput},
		{name: "negative horizon", input: SelectLineupInput{ManagerID: testManagerID, Horizon: -1}, want: ErrInvalidInput},
		{name: "squad not imported", input: SelectLineupInput{ManagerID: 999}, want: ErrNotFound},
		{name: "unknown player", input: SelectLineupInput{PlayerIDs: append(append([]int64(nil), testSquadIDs[:14]...), 999)}, want: ErrNotFound},
		{name: "short squad", input: SelectLineupInput{PlayerIDs: testSquadIDs[:14]}, want: ErrInvalidInput},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			w := newTestWorld(t)
			svc := newTestLineupService(w)

			_, err := svc.SelectLineup(context.Background(), tc.input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
