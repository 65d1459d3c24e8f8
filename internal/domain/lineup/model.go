package lineup

import (
	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
)

// Pick is one squad member in a selection.
type Pick struct {
	PlayerID int64
	Name     string
	TeamID   int64
	Position player.Position
	Points   float64
}

// Selection is the chosen starting eleven for a gameweek. Starters keep the
// input order of the squad; Bench is ordered by substitution priority.
type Selection struct {
	Starters       []Pick
	Bench          []Pick
	Captain        Pick
	ViceCaptain    Pick
	Formation      string
	ExpectedPoints float64
}

func (s Selection) StarterIDs() []int64 {
	out := make([]int64, 0, len(s.Starters))
	for _, p := range s.Starters {
		out = append(out, p.PlayerID)
	}
	return out
}

func (s Selection) BenchIDs() []int64 {
	out := make([]int64, 0, len(s.Bench))
	for _, p := range s.Bench {
		out = append(out, p.PlayerID)
	}
	return out
}
