package fantasy

import (
	"errors"
	"testing"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
)

func validSquad() []player.Player {
	return []player.Player{
		{ID: 1, TeamID: 1, Position: player.PositionGoalkeeper, Price: 50},
		{ID: 2, TeamID: 2, Position: player.PositionGoalkeeper, Price: 45},
		{ID: 3, TeamID: 1, Position: player.PositionDefender, Price: 60},
		{ID: 4, TeamID: 2, Position: player.PositionDefender, Price: 55},
		{ID: 5, TeamID: 3, Position: player.PositionDefender, Price: 50},
		{ID: 6, TeamID: 4, Position: player.PositionDefender, Price: 45},
		{ID: 7, TeamID: 5, Position: player.PositionDefender, Price: 40},
		{ID: 8, TeamID: 1, Position: player.PositionMidfielder, Price: 100},
		{ID: 9, TeamID: 3, Position: player.PositionMidfielder, Price: 80},
		{ID: 10, TeamID: 4, Position: player.PositionMidfielder, Price: 70},
		{ID: 11, TeamID: 5, Position: player.PositionMidfielder, Price: 60},
		{ID: 12, TeamID: 6, Position: player.PositionMidfielder, Price: 50},
		{ID: 13, TeamID: 6, Position: player.PositionForward, Price: 110},
		{ID: 14, TeamID: 7, Position: player.PositionForward, Price: 75},
		{ID: 15, TeamID: 8, Position: player.PositionForward, Price: 55},
	}
}

func TestValidateSquad(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func([]player.Player, *Rules) []player.Player
		targetErr error
	}{
		{
			name:      "valid squad",
			mutate:    func(squad []player.Player, _ *Rules) []player.Player { return squad },
			targetErr: nil,
		},
		{
			name:      "invalid size",
			mutate:    func(squad []player.Player, _ *Rules) []player.Player { return squad[:14] },
			targetErr: ErrInvalidSquadSize,
		},
		{
			name: "team limit exceeded",
			mutate: func(squad []player.Player, _ *Rules) []player.Player {
				squad[4].TeamID = 1
				return squad
			},
			targetErr: ErrExceededTeamLimit,
		},
		{
			name: "composition mismatch",
			mutate: func(squad []player.Player, _ *Rules) []player.Player {
				squad[6].Position = player.PositionForward
				return squad
			},
			targetErr: ErrInvalidComposition,
		},
		{
			name: "duplicate player",
			mutate: func(squad []player.Player, _ *Rules) []player.Player {
				squad[1].ID = 1
				return squad
			},
			targetErr: ErrDuplicatePlayerInSquad,
		},
		{
			name: "unknown position",
			mutate: func(squad []player.Player, _ *Rules) []player.Player {
				squad[0].Position = player.Position("UNK")
				return squad
			},
			targetErr: ErrUnknownPlayerPosition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRules()
			squad := tt.mutate(validSquad(), &cfg)

			err := ValidateSquad(squad, cfg)
			if tt.targetErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			if !errors.Is(err, tt.targetErr) {
				t.Fatalf("expected error %v, got %v", tt.targetErr, err)
			}
		})
	}
}

func TestValidateStartingEleven(t *testing.T) {
	rules := DefaultRules()
	squad := validSquad()

	// 1 GK, 5 DEF, 3 MID, 2 FWD.
	starters := []player.Player{squad[0], squad[2], squad[3], squad[4], squad[5], squad[6], squad[7], squad[8], squad[9], squad[12], squad[13]}
	if err := ValidateStartingEleven(starters, rules); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := Formation(starters); got != "5-3-2" {
		t.Fatalf("expected formation 5-3-2, got %s", got)
	}

	twoKeepers := append([]player.Player(nil), starters...)
	twoKeepers[10] = squad[1]
	if err := ValidateStartingEleven(twoKeepers, rules); !errors.Is(err, ErrInsufficientFormation) {
		t.Fatalf("expected ErrInsufficientFormation, got %v", err)
	}

	noForward := append([]player.Player(nil), starters...)
	noForward[9] = squad[10]
	noForward[10] = squad[11]
	if err := ValidateStartingEleven(noForward, rules); !errors.Is(err, ErrInsufficientFormation) {
		t.Fatalf("expected ErrInsufficientFormation, got %v", err)
	}
}
