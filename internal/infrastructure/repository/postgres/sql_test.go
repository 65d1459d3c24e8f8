package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/scoring"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get squad: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped sql.ErrNoRows to be not found")
	}
	if isNotFound(fakeErr("pq: relation squads does not exist")) {
		t.Fatalf("expected unrelated error to be ignored")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches sqlstate", func(t *testing.T) {
		err := fakeErr(`pq: duplicate key value violates unique constraint "recommendations_pkey" (23505)`)
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for unique violation")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		if isUniqueViolation(fakeErr("pq: relation recommendations does not exist")) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestChunk(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	got := chunk(items, 2)
	if len(got) != 3 || len(got[2]) != 1 || got[2][0] != 5 {
		t.Fatalf("unexpected chunks: %v", got)
	}
	if len(chunk([]int{}, 2)) != 0 {
		t.Fatalf("expected no chunks for empty input")
	}
}

func TestDecodeCategoryMap(t *testing.T) {
	raw, err := encodeCategoryMap(map[scoring.Category]float64{
		scoring.CategoryGoalsScored: 4.5,
		scoring.CategoryMinutes:     2,
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got := decodeCategoryMap(raw)
	if got[scoring.CategoryGoalsScored] != 4.5 || got[scoring.CategoryMinutes] != 2 {
		t.Fatalf("unexpected decoded map: %v", got)
	}

	got = decodeCategoryMap(`{"goals_scored":1,"dribbles":9}`)
	if len(got) != 1 {
		t.Fatalf("expected unknown categories to be skipped, got %v", got)
	}
	if len(decodeCategoryMap("not json")) != 0 {
		t.Fatalf("expected invalid json to decode as empty")
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
