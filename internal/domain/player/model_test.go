package player

import "testing"

func TestPositionFromCode(t *testing.T) {
	t.Parallel()

	for code, want := range map[int]Position{1: PositionGoalkeeper, 2: PositionDefender, 3: PositionMidfielder, 4: PositionForward} {
		got, err := PositionFromCode(code)
		if err != nil {
			t.Fatalf("code %d: unexpected error: %v", code, err)
		}
		if got != want {
			t.Fatalf("code %d: expected %s, got %s", code, want, got)
		}
		if got.Code() != code {
			t.Fatalf("position %s: expected code %d, got %d", got, code, got.Code())
		}
	}

	for _, code := range []int{0, 5, -1} {
		if _, err := PositionFromCode(code); err == nil {
			t.Fatalf("code %d: expected error", code)
		}
	}
}

func TestPlayerValidate(t *testing.T) {
	t.Parallel()

	valid := Player{ID: 1, TeamID: 2, Name: "Bukayo Saka", WebName: "Saka", Position: PositionMidfielder, Price: 90}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if valid.DisplayName() != "Saka" {
		t.Fatalf("expected web name, got %q", valid.DisplayName())
	}

	invalid := valid
	invalid.Position = "COACH"
	if err := invalid.Validate(); err == nil {
		t.Fatalf("expected error for unknown position")
	}

	invalid = valid
	invalid.Price = 0
	if err := invalid.Validate(); err == nil {
		t.Fatalf("expected error for zero price")
	}
}
