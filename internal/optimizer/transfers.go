package optimizer

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/fantasy"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
	"github.com/riskibarqy/fpl-optimizer/internal/platform/ilp"
	"github.com/riskibarqy/fpl-optimizer/internal/platform/money"
)

// TransferRequest is the input of OptimizeTransfers.
type TransferRequest struct {
	Pool         []Candidate
	CurrentSquad []int64
	// Points overrides Candidate.Points when set; players absent from it score zero.
	Points       map[int64]float64
	Budget       float64
	MaxTransfers int
	History      []fantasy.Purchase
}

type poolEntry struct {
	index     int
	candidate Candidate
	points    float64
	current   bool
	sale      int64
}

// OptimizeTransfers finds the 15-man squad with maximal predicted points that
// is reachable from the current squad with 1..MaxTransfers transfers while
// keeping the net spend within Budget. Outgoing players are valued at their
// sale price. Only a proven optimum is returned.
func (e *Engine) OptimizeTransfers(ctx context.Context, req TransferRequest) (fantasy.TransferPlan, error) {
	rules := e.rules
	entries, err := e.prepareTransferPool(req)
	if err != nil {
		return fantasy.TransferPlan{}, err
	}
	budget, err := money.ToTenths(req.Budget)
	if err != nil {
		return fantasy.TransferPlan{}, fmt.Errorf("%w: %w", fantasy.ErrInvalidBudget, err)
	}

	kept := pruneDominated(entries, rules)

	model := ilp.NewModel("transfers", ilp.Maximize)
	vars := make([]int, len(kept))
	size := make([]ilp.Term, 0, len(kept))
	incoming := make([]ilp.Term, 0, len(kept))
	spend := make([]ilp.Term, 0, len(kept))
	byPosition := make(map[player.Position][]ilp.Term)
	byTeam := make(map[int64][]ilp.Term)
	var teams []int64
	var currentSale int64

	for i, entry := range kept {
		v := model.AddBinary(fmt.Sprintf("select_%d", entry.candidate.Player.ID), entry.points)
		vars[i] = v
		unit := ilp.Term{Var: v, Coef: 1}
		size = append(size, unit)
		if entry.current {
			spend = append(spend, ilp.Term{Var: v, Coef: float64(entry.sale)})
			currentSale += entry.sale
		} else {
			incoming = append(incoming, unit)
			spend = append(spend, ilp.Term{Var: v, Coef: float64(entry.candidate.Player.Price)})
		}
		pos := entry.candidate.Player.Position
		byPosition[pos] = append(byPosition[pos], unit)
		team := entry.candidate.Player.TeamID
		if _, ok := byTeam[team]; !ok {
			teams = append(teams, team)
		}
		byTeam[team] = append(byTeam[team], unit)
	}

	model.AddConstraint("squad_size", ilp.Equal, float64(rules.SquadSize), size...)
	model.AddConstraint("transfers_min", ilp.GreaterEq, 1, incoming...)
	model.AddConstraint("transfers_max", ilp.LessEq, float64(req.MaxTransfers), incoming...)
	// Σ_in price·x − Σ_out sale·(1−x) ≤ budget, with the constant moved right.
	model.AddConstraint("budget", ilp.LessEq, float64(budget+currentSale), spend...)
	for _, pos := range player.OrderedPositions {
		model.AddConstraint("composition_"+string(pos), ilp.Equal, float64(rules.Composition[pos]), byPosition[pos]...)
	}
	for _, team := range teams {
		if len(byTeam[team]) <= rules.MaxPlayersPerTeam {
			continue
		}
		model.AddConstraint(fmt.Sprintf("team_%d", team), ilp.LessEq, float64(rules.MaxPlayersPerTeam), byTeam[team]...)
	}

	sol, err := ilp.Solve(ctx, model, ilp.Options{NodeLimit: e.nodeLimit})
	if err != nil {
		return fantasy.TransferPlan{}, fmt.Errorf("%w: %w", fantasy.ErrNoFeasibleTransferPlan, err)
	}
	e.logger.DebugContext(ctx, "transfer model solved",
		"pool", len(entries),
		"kept", len(kept),
		"nodes", sol.Nodes,
		"objective", sol.Objective,
	)

	selected := make(map[int64]bool, rules.SquadSize)
	for i, entry := range kept {
		if sol.IsSet(vars[i]) {
			selected[entry.candidate.Player.ID] = true
		}
	}

	plan, err := buildPlan(entries, selected, budget)
	if err != nil {
		return fantasy.TransferPlan{}, err
	}
	if err := e.checkPlan(plan, entries, req.MaxTransfers, budget); err != nil {
		return fantasy.TransferPlan{}, err
	}
	return plan, nil
}

func (e *Engine) prepareTransferPool(req TransferRequest) ([]poolEntry, error) {
	rules := e.rules
	if len(req.CurrentSquad) != rules.SquadSize {
		return nil, fmt.Errorf("%w: expected %d, got %d", fantasy.ErrInvalidSquadSize, rules.SquadSize, len(req.CurrentSquad))
	}
	if req.MaxTransfers < 1 || req.MaxTransfers > len(req.Pool) {
		return nil, fmt.Errorf("%w: max_transfers=%d pool=%d", fantasy.ErrInvalidTransferBound, req.MaxTransfers, len(req.Pool))
	}
	if err := validatePositions(req.Pool); err != nil {
		return nil, err
	}

	index := make(map[int64]int, len(req.Pool))
	valuations := make(map[int64]int64, len(req.Pool))
	for i, c := range req.Pool {
		if _, dup := index[c.Player.ID]; dup {
			return nil, fmt.Errorf("%w: %d", fantasy.ErrDuplicatePlayerInPool, c.Player.ID)
		}
		index[c.Player.ID] = i
		valuations[c.Player.ID] = c.Player.Price
	}

	current := make(map[int64]struct{}, len(req.CurrentSquad))
	for _, id := range req.CurrentSquad {
		if _, dup := current[id]; dup {
			return nil, fmt.Errorf("%w: %d", fantasy.ErrDuplicatePlayerInSquad, id)
		}
		current[id] = struct{}{}
	}
	sales, err := fantasy.SalePrices(req.CurrentSquad, req.History, valuations)
	if err != nil {
		return nil, err
	}

	entries := make([]poolEntry, len(req.Pool))
	for i, c := range req.Pool {
		points := c.Points
		if req.Points != nil {
			points = req.Points[c.Player.ID]
		}
		_, isCurrent := current[c.Player.ID]
		entries[i] = poolEntry{
			index:     i,
			candidate: c,
			points:    points,
			current:   isCurrent,
			sale:      sales[c.Player.ID],
		}
	}
	return entries, nil
}

func buildPlan(entries []poolEntry, selected map[int64]bool, budget int64) (fantasy.TransferPlan, error) {
	plan := fantasy.TransferPlan{Budget: budget}
	var in, out []poolEntry
	for _, entry := range entries {
		id := entry.candidate.Player.ID
		switch {
		case selected[id] && !entry.current:
			in = append(in, entry)
		case !selected[id] && entry.current:
			out = append(out, entry)
		}
		if selected[id] {
			plan.NewSquad = append(plan.NewSquad, id)
			plan.ExpectedPoints += entry.points
		}
	}
	if len(in) != len(out) {
		return fantasy.TransferPlan{}, fmt.Errorf("%w: unbalanced transfers in=%d out=%d", fantasy.ErrNoFeasibleTransferPlan, len(in), len(out))
	}

	byPosition := func(items []poolEntry) {
		sort.SliceStable(items, func(i, j int) bool {
			return positionRank(items[i].candidate.Player.Position) < positionRank(items[j].candidate.Player.Position)
		})
	}
	byPosition(in)
	byPosition(out)

	for i := range in {
		pair := fantasy.TransferPair{
			In:  pairSide(in[i], in[i].candidate.Player.Price),
			Out: pairSide(out[i], out[i].sale),
		}
		pair.PredictedGain = pair.In.Points - pair.Out.Points
		pair.Cost = pair.In.Price - pair.Out.Price

		plan.Pairs = append(plan.Pairs, pair)
		plan.TransfersIn = append(plan.TransfersIn, pair.In.PlayerID)
		plan.TransfersOut = append(plan.TransfersOut, pair.Out.PlayerID)
		plan.PointsGain += pair.PredictedGain
		plan.TotalCost += pair.In.Price
		plan.TotalSale += pair.Out.Price
	}
	plan.TransferCount = len(plan.Pairs)
	plan.NetCost = plan.TotalCost - plan.TotalSale
	plan.RemainingBank = budget - plan.NetCost
	return plan, nil
}

func pairSide(entry poolEntry, price int64) fantasy.PairSide {
	p := entry.candidate.Player
	return fantasy.PairSide{
		PlayerID:       p.ID,
		Name:           p.DisplayName(),
		TeamID:         p.TeamID,
		Position:       p.Position,
		Price:          price,
		Points:         entry.points,
		CategoryPoints: entry.candidate.CategoryPoints,
	}
}

// checkPlan re-verifies the solver output against the squad rules with exact
// integer arithmetic.
func (e *Engine) checkPlan(plan fantasy.TransferPlan, entries []poolEntry, maxTransfers int, budget int64) error {
	if plan.TransferCount < 1 || plan.TransferCount > maxTransfers {
		return fmt.Errorf("%w: transfer count %d outside 1..%d", fantasy.ErrNoFeasibleTransferPlan, plan.TransferCount, maxTransfers)
	}
	if plan.NetCost > budget {
		return fmt.Errorf("%w: net cost %d exceeds budget %d", fantasy.ErrNoFeasibleTransferPlan, plan.NetCost, budget)
	}

	byID := make(map[int64]player.Player, len(entries))
	for _, entry := range entries {
		byID[entry.candidate.Player.ID] = entry.candidate.Player
	}
	squad := make([]player.Player, 0, len(plan.NewSquad))
	for _, id := range plan.NewSquad {
		squad = append(squad, byID[id])
	}
	if err := fantasy.ValidateSquad(squad, e.rules); err != nil {
		return fmt.Errorf("%w: %w", fantasy.ErrNoFeasibleTransferPlan, err)
	}
	return nil
}
