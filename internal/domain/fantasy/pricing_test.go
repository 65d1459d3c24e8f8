package fantasy

import (
	"errors"
	"testing"
	"time"
)

func TestSalePrice(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 8, 10, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		history []Purchase
		current int64
		want    int64
	}{
		{
			name:    "price rise shares half of the profit",
			history: []Purchase{{PlayerInID: 7, PlayerInCost: 50, Time: base}},
			current: 60,
			want:    55,
		},
		{
			name:    "odd rise rounds down",
			history: []Purchase{{PlayerInID: 7, PlayerInCost: 50, Time: base}},
			current: 53,
			want:    51,
		},
		{
			name:    "price fall sells at current value",
			history: []Purchase{{PlayerInID: 7, PlayerInCost: 50, Time: base}},
			current: 48,
			want:    48,
		},
		{
			name:    "no history sells at current value",
			history: []Purchase{{PlayerInID: 8, PlayerInCost: 40, Time: base}},
			current: 55,
			want:    55,
		},
		{
			name: "most recent purchase wins",
			history: []Purchase{
				{PlayerInID: 7, PlayerInCost: 40, Time: base},
				{PlayerInID: 7, PlayerInCost: 56, Time: base.Add(72 * time.Hour)},
				{PlayerInID: 7, PlayerInCost: 45, Time: base.Add(24 * time.Hour)},
			},
			current: 60,
			want:    58,
		},
		{
			name:    "selling a player only counts as history of the other player",
			history: []Purchase{{PlayerInID: 9, PlayerInCost: 45, PlayerOutID: 7, PlayerOutCost: 70, Time: base}},
			current: 62,
			want:    62,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SalePrice(7, tc.history, tc.current); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestSalePrices(t *testing.T) {
	t.Parallel()

	history := []Purchase{{PlayerInID: 1, PlayerInCost: 50, Time: time.Now()}}
	got, err := SalePrices([]int64{1, 2}, history, map[int64]int64{1: 60, 2: 45})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[1] != 55 || got[2] != 45 {
		t.Fatalf("unexpected sale prices: %v", got)
	}

	_, err = SalePrices([]int64{1, 3}, history, map[int64]int64{1: 60})
	if !errors.Is(err, ErrPlayerLookupFailure) {
		t.Fatalf("expected ErrPlayerLookupFailure, got %v", err)
	}
}
