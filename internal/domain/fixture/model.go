package fixture

import "time"

// Fixture represents one Premier League match. Gameweek is zero while the
// match is not yet scheduled into an event.
type Fixture struct {
	ID             int64
	Gameweek       int
	HomeTeamID     int64
	AwayTeamID     int64
	KickoffAt      *time.Time
	HomeDifficulty int
	AwayDifficulty int
	HomeScore      *int
	AwayScore      *int
	Finished       bool
}

func (f Fixture) Scheduled() bool {
	return f.Gameweek > 0
}

// Involves reports whether teamID plays in the fixture.
func (f Fixture) Involves(teamID int64) bool {
	return f.HomeTeamID == teamID || f.AwayTeamID == teamID
}

// CountByTeamAndGameweek counts scheduled fixtures per team per gameweek so
// blank and double gameweeks are visible to the predictor.
func CountByTeamAndGameweek(items []Fixture) map[int64]map[int]int {
	out := make(map[int64]map[int]int)
	add := func(teamID int64, gw int) {
		perGW, ok := out[teamID]
		if !ok {
			perGW = make(map[int]int)
			out[teamID] = perGW
		}
		perGW[gw]++
	}
	for _, item := range items {
		if !item.Scheduled() {
			continue
		}
		add(item.HomeTeamID, item.Gameweek)
		add(item.AwayTeamID, item.Gameweek)
	}
	return out
}
