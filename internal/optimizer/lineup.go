package optimizer

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/fantasy"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/lineup"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
	"github.com/riskibarqy/fpl-optimizer/internal/platform/ilp"
)

const tieTol = 1e-9

// SelectStartingXI picks eleven starters and a captain from a full squad so
// that starter points plus the captain's points again are maximal. The vice
// captain is the best remaining starter; the bench is ordered by points.
// Among equal-points alternatives the player listed first in squad wins.
func (e *Engine) SelectStartingXI(ctx context.Context, squad []Candidate) (lineup.Selection, error) {
	rules := e.rules
	if len(squad) != rules.SquadSize {
		return lineup.Selection{}, fmt.Errorf("%w: expected %d, got %d", fantasy.ErrInvalidSquadSize, rules.SquadSize, len(squad))
	}
	seen := make(map[int64]struct{}, len(squad))
	for _, c := range squad {
		if _, dup := seen[c.Player.ID]; dup {
			return lineup.Selection{}, fmt.Errorf("%w: %d", fantasy.ErrDuplicatePlayerInSquad, c.Player.ID)
		}
		seen[c.Player.ID] = struct{}{}
	}
	if err := validatePositions(squad); err != nil {
		return lineup.Selection{}, err
	}

	model := ilp.NewModel("starting_xi", ilp.Maximize)
	start := make([]int, len(squad))
	capt := make([]int, len(squad))
	for i, c := range squad {
		start[i] = model.AddBinary(fmt.Sprintf("start_%d", c.Player.ID), c.Points)
	}
	for i, c := range squad {
		capt[i] = model.AddBinary(fmt.Sprintf("capt_%d", c.Player.ID), c.Points)
	}

	model.AddConstraint("starters", ilp.Equal, float64(rules.StartingSize), unitTerms(start)...)
	model.AddConstraint("captain", ilp.Equal, 1, unitTerms(capt)...)
	for i, c := range squad {
		model.AddConstraint(fmt.Sprintf("captain_starts_%d", c.Player.ID), ilp.LessEq, 0,
			ilp.Term{Var: capt[i], Coef: 1},
			ilp.Term{Var: start[i], Coef: -1},
		)
	}

	byPosition := make(map[player.Position][]int)
	for i, c := range squad {
		byPosition[c.Player.Position] = append(byPosition[c.Player.Position], start[i])
	}
	model.AddConstraint("starting_goalkeepers", ilp.Equal, float64(rules.StartingGoalkeepers),
		unitTerms(byPosition[player.PositionGoalkeeper])...)
	for _, pos := range player.OrderedPositions {
		if pos == player.PositionGoalkeeper {
			continue
		}
		if minimum := rules.StartingMin[pos]; minimum > 0 {
			model.AddConstraint("starting_min_"+string(pos), ilp.GreaterEq, float64(minimum),
				unitTerms(byPosition[pos])...)
		}
	}

	sol, err := ilp.Solve(ctx, model, ilp.Options{NodeLimit: e.nodeLimit})
	if err != nil {
		return lineup.Selection{}, fmt.Errorf("%w: %w", fantasy.ErrNoFeasibleLineup, err)
	}
	e.logger.DebugContext(ctx, "starting eleven solved", "nodes", sol.Nodes, "objective", sol.Objective)

	starting := make([]bool, len(squad))
	for i := range squad {
		starting[i] = sol.IsSet(start[i])
	}
	e.preferListedFirst(squad, starting)

	selection := lineup.Selection{}
	starters := make([]player.Player, 0, rules.StartingSize)
	bench := make([]Candidate, 0, len(squad)-rules.StartingSize)
	captainIdx := -1
	for i, c := range squad {
		if !starting[i] {
			bench = append(bench, c)
			continue
		}
		selection.Starters = append(selection.Starters, toPick(c, c.Points))
		starters = append(starters, c.Player)
		selection.ExpectedPoints += c.Points
		if captainIdx < 0 || c.Points > squad[captainIdx].Points {
			captainIdx = i
		}
	}
	if captainIdx < 0 {
		return lineup.Selection{}, fmt.Errorf("%w: solver returned no starters", fantasy.ErrNoFeasibleLineup)
	}
	if err := fantasy.ValidateStartingEleven(starters, rules); err != nil {
		return lineup.Selection{}, fmt.Errorf("%w: %w", fantasy.ErrNoFeasibleLineup, err)
	}

	captain := squad[captainIdx]
	selection.Captain = toPick(captain, captain.Points)
	selection.ExpectedPoints += captain.Points

	viceIdx := -1
	for i, c := range squad {
		if i == captainIdx || !starting[i] {
			continue
		}
		if viceIdx < 0 || c.Points > squad[viceIdx].Points {
			viceIdx = i
		}
	}
	if viceIdx >= 0 {
		selection.ViceCaptain = toPick(squad[viceIdx], squad[viceIdx].Points)
	}

	sort.SliceStable(bench, func(i, j int) bool {
		return bench[i].Points > bench[j].Points
	})
	for _, c := range bench {
		selection.Bench = append(selection.Bench, toPick(c, c.Points))
	}
	selection.Formation = fantasy.Formation(starters)

	return selection, nil
}

// preferListedFirst swaps a starter for an earlier-listed bench player on
// equal points while the eleven stays legal. Every swap lowers the sum of
// starter positions, so the loop ends.
func (e *Engine) preferListedFirst(squad []Candidate, starting []bool) {
	for changed := true; changed; {
		changed = false
		for b := range squad {
			if starting[b] {
				continue
			}
			for s := len(squad) - 1; s > b; s-- {
				if !starting[s] || math.Abs(squad[s].Points-squad[b].Points) > tieTol {
					continue
				}
				starting[s], starting[b] = false, true
				if fantasy.ValidateStartingEleven(startersOf(squad, starting), e.rules) == nil {
					changed = true
					break
				}
				starting[s], starting[b] = true, false
			}
		}
	}
}

func startersOf(squad []Candidate, starting []bool) []player.Player {
	out := make([]player.Player, 0, len(squad))
	for i, c := range squad {
		if starting[i] {
			out = append(out, c.Player)
		}
	}
	return out
}

func unitTerms(vars []int) []ilp.Term {
	out := make([]ilp.Term, 0, len(vars))
	for _, v := range vars {
		out = append(out, ilp.Term{Var: v, Coef: 1})
	}
	return out
}
