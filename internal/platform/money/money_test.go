package money

import "testing"

func TestToTenths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		units float64
		want  int64
	}{
		{units: 0, want: 0},
		{units: 1, want: 10},
		{units: 0.3, want: 3},
		{units: 100.05, want: 1000},
		{units: 2.29, want: 22},
		{units: -0.5, want: -5},
	}

	for _, tc := range tests {
		got, err := ToTenths(tc.units)
		if err != nil {
			t.Fatalf("ToTenths(%v): unexpected error: %v", tc.units, err)
		}
		if got != tc.want {
			t.Fatalf("ToTenths(%v): expected %d, got %d", tc.units, tc.want, got)
		}
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	if got := Format(52); got != "5.2" {
		t.Fatalf("expected 5.2, got %s", got)
	}
	if got := Format(-15); got != "-1.5" {
		t.Fatalf("expected -1.5, got %s", got)
	}
	if got := Format(1000); got != "100.0" {
		t.Fatalf("expected 100.0, got %s", got)
	}
	if !FromTenths(55).Equal(FromTenths(550).Div(FromTenths(100))) {
		t.Fatalf("expected decimal arithmetic to stay exact")
	}
}
