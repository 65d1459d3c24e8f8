package gameweek

import "time"

// LastGameweek is the final event of a Premier League season.
const LastGameweek = 38

// Gameweek is one FPL event.
type Gameweek struct {
	ID         int
	Name       string
	DeadlineAt time.Time
	Finished   bool
	IsCurrent  bool
	IsNext     bool
}

// Current returns the event flagged current. Before the season starts no
// event is current, so the last finished event is used, and 1 when nothing
// has finished yet.
func Current(items []Gameweek) int {
	lastFinished := 0
	for _, item := range items {
		if item.IsCurrent {
			return item.ID
		}
		if item.Finished && item.ID > lastFinished {
			lastFinished = item.ID
		}
	}
	if lastFinished > 0 {
		return lastFinished
	}
	return 1
}

// Horizon returns the gameweeks after current that a prediction should
// cover, capped at the last gameweek of the season.
func Horizon(current, length int) []int {
	if length <= 0 {
		return nil
	}
	out := make([]int, 0, length)
	for gw := current + 1; gw <= current+length && gw <= LastGameweek; gw++ {
		out = append(out, gw)
	}
	return out
}
