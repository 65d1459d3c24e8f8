package optimizer

import (
	"github.com/riskibarqy/fpl-optimizer/internal/domain/fantasy"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
)

type groupKey struct {
	team     int64
	position player.Position
}

// pruneDominated drops incoming candidates that can never be needed. Within
// one team and position, q dominates p when q scores at least as much and
// costs no more (pool order breaks exact ties). Any squad using p can only
// hold fewer than min(team cap, position quota) players of that group, so
// if p has that many dominators one of them is free to replace it at no
// loss. Current squad players are always kept since their cost is a sale
// price, not a market value.
func pruneDominated(entries []poolEntry, rules fantasy.Rules) []poolEntry {
	groups := make(map[groupKey][]int)
	for i, entry := range entries {
		if entry.current {
			continue
		}
		key := groupKey{team: entry.candidate.Player.TeamID, position: entry.candidate.Player.Position}
		groups[key] = append(groups[key], i)
	}

	drop := make([]bool, len(entries))
	for key, members := range groups {
		limit := rules.MaxPlayersPerTeam
		if quota := rules.Composition[key.position]; quota < limit {
			limit = quota
		}
		if len(members) <= limit {
			continue
		}
		for _, p := range members {
			dominators := 0
			for _, q := range members {
				if q != p && dominates(entries[q], entries[p]) {
					dominators++
				}
			}
			if dominators >= limit {
				drop[p] = true
			}
		}
	}

	kept := make([]poolEntry, 0, len(entries))
	for i, entry := range entries {
		if !drop[i] {
			kept = append(kept, entry)
		}
	}
	return kept
}

func dominates(q, p poolEntry) bool {
	qp, pp := q.candidate.Player.Price, p.candidate.Player.Price
	if q.points < p.points || qp > pp {
		return false
	}
	return q.points > p.points || qp < pp || q.index < p.index
}
