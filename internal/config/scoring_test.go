package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/scoring"
)

func TestLoadScoringTable_EmptyPathUsesDefaults(t *testing.T) {
	t.Parallel()

	table, err := LoadScoringTable("  ")
	if err != nil {
		t.Fatalf("load scoring table: %v", err)
	}
	if got := table.Points(scoring.CategoryAssists, player.PositionMidfielder, 2); got != 6 {
		t.Fatalf("unexpected default assist points: %v", got)
	}
}

func TestLoadScoringTable_AppliesOverrides(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rules.yaml")
	body := []byte(`rules:
  - category: saves
    multiplier: 0.5
  - category: goals_scored
    by_position:
      gk: 6
      DEF: 6
      MID: 6
      FWD: 6
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	table, err := LoadScoringTable(path)
	if err != nil {
		t.Fatalf("load scoring table: %v", err)
	}
	if got := table.Points(scoring.CategorySaves, player.PositionGoalkeeper, 4); math.Abs(got-2) > 1e-9 {
		t.Fatalf("unexpected save points: %v", got)
	}
	if got := table.Points(scoring.CategoryGoalsScored, player.PositionForward, 1); got != 6 {
		t.Fatalf("unexpected forward goal points: %v", got)
	}
	if got := table.Points(scoring.CategoryGoalsScored, player.PositionGoalkeeper, 1); got != 6 {
		t.Fatalf("unexpected keeper goal points: %v", got)
	}
	if got := table.Points(scoring.CategoryAssists, player.PositionForward, 1); got != 3 {
		t.Fatalf("untouched category changed: %v", got)
	}
}

func TestParseScoringTable_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want error
	}{
		{name: "unknown category", body: "rules:\n  - category: tackles\n    multiplier: 1\n", want: scoring.ErrUnknownCategory},
		{name: "unknown position", body: "rules:\n  - category: assists\n    by_position: {GKP: 1}\n", want: scoring.ErrInvalidRule},
		{name: "duplicate category", body: "rules:\n  - category: assists\n    multiplier: 1\n  - category: assists\n    multiplier: 2\n"},
		{name: "missing multiplier", body: "rules:\n  - category: assists\n"},
		{name: "malformed yaml", body: "rules: [\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseScoringTable([]byte(tc.body))
			if err == nil {
				t.Fatalf("expected error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadScoringTable_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadScoringTable(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
