package optimizer

import (
	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
)

func candidate(id, team int64, pos player.Position, price int64, points float64) Candidate {
	return Candidate{
		Player: player.Player{ID: id, TeamID: team, Name: "player", WebName: "", Position: pos, Price: price},
		Points: points,
	}
}

// baseSquad is a legal 15-man squad: team 1 is already at the cap.
func baseSquad() []Candidate {
	return []Candidate{
		candidate(1, 1, player.PositionGoalkeeper, 50, 5),
		candidate(2, 2, player.PositionGoalkeeper, 45, 3),
		candidate(3, 1, player.PositionDefender, 60, 6),
		candidate(4, 2, player.PositionDefender, 55, 5),
		candidate(5, 3, player.PositionDefender, 50, 4),
		candidate(6, 4, player.PositionDefender, 45, 3),
		candidate(7, 5, player.PositionDefender, 40, 2),
		candidate(8, 1, player.PositionMidfielder, 100, 9),
		candidate(9, 3, player.PositionMidfielder, 80, 8),
		candidate(10, 4, player.PositionMidfielder, 70, 7),
		candidate(11, 5, player.PositionMidfielder, 60, 6),
		candidate(12, 6, player.PositionMidfielder, 50, 5),
		candidate(13, 6, player.PositionForward, 110, 10),
		candidate(14, 7, player.PositionForward, 75, 7),
		candidate(15, 8, player.PositionForward, 55, 4),
	}
}

func squadIDs(items []Candidate) []int64 {
	out := make([]int64, 0, len(items))
	for _, c := range items {
		out = append(out, c.Player.ID)
	}
	return out
}
