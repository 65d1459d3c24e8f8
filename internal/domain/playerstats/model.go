package playerstats

import "github.com/riskibarqy/fpl-optimizer/internal/domain/scoring"

// StatLine is one player's record for one fixture, as published in the FPL
// element-summary history. A double gameweek yields two lines for the same
// gameweek.
type StatLine struct {
	PlayerID        int64
	FixtureID       int64
	Gameweek        int
	OpponentTeamID  int64
	WasHome         bool
	Minutes         int
	GoalsScored     int
	Assists         int
	CleanSheets     int
	GoalsConceded   int
	OwnGoals        int
	PenaltiesSaved  int
	PenaltiesMissed int
	YellowCards     int
	RedCards        int
	Saves           int
	Bonus           int
	TotalPoints     int
}

// Value returns the statistic recorded for a scoring category.
func (s StatLine) Value(c scoring.Category) float64 {
	switch c {
	case scoring.CategoryMinutes:
		return float64(s.Minutes)
	case scoring.CategoryGoalsScored:
		return float64(s.GoalsScored)
	case scoring.CategoryAssists:
		return float64(s.Assists)
	case scoring.CategoryCleanSheets:
		return float64(s.CleanSheets)
	case scoring.CategoryGoalsConceded:
		return float64(s.GoalsConceded)
	case scoring.CategoryOwnGoals:
		return float64(s.OwnGoals)
	case scoring.CategoryPenaltiesSaved:
		return float64(s.PenaltiesSaved)
	case scoring.CategoryPenaltiesMissed:
		return float64(s.PenaltiesMissed)
	case scoring.CategoryYellowCards:
		return float64(s.YellowCards)
	case scoring.CategoryRedCards:
		return float64(s.RedCards)
	case scoring.CategorySaves:
		return float64(s.Saves)
	case scoring.CategoryBonus:
		return float64(s.Bonus)
	default:
		return 0
	}
}
