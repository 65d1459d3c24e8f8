package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
	"github.com/riskibarqy/fpl-optimizer/internal/interfaces/dto"
	"github.com/riskibarqy/fpl-optimizer/internal/platform/money"
	"github.com/riskibarqy/fpl-optimizer/internal/usecase"
)

type managerImport struct {
	ManagerID int64   `json:"manager_id"`
	Gameweek  int     `json:"gameweek"`
	Players   int     `json:"players"`
	Bank      float64 `json:"bank"`
	Transfers int     `json:"transfers"`
}

type syncReport struct {
	Reference usecase.SyncReferenceResult  `json:"reference"`
	Managers  []managerImport              `json:"managers,omitempty"`
	Histories *usecase.SyncHistoriesResult `json:"histories,omitempty"`
}

func (r *Runner) runSync(ctx context.Context, args []string) error {
	fs := r.newFlagSet("sync")
	histories := fs.Bool("histories", false, "also fetch element-summary history")
	workers := fs.Int("workers", 0, "history fetch workers (0 = configured default)")
	var players, managers idList
	fs.Var(&players, "players", "limit history sync to these player ids")
	fs.Var(&managers, "manager", "import squad and transfers of these managers")
	if err := r.parseFlags(fs, args); err != nil {
		return err
	}

	ref, err := r.svc.Sync.SyncReference(ctx)
	if err != nil {
		return err
	}
	report := syncReport{Reference: ref}

	for _, managerID := range managers {
		res, err := r.svc.Sync.ImportManager(ctx, usecase.ImportManagerInput{ManagerID: managerID})
		if err != nil {
			return err
		}
		report.Managers = append(report.Managers, managerImport{
			ManagerID: managerID,
			Gameweek:  res.Squad.Gameweek,
			Players:   len(res.Squad.PlayerIDs),
			Bank:      money.FromTenths(res.Squad.Bank).InexactFloat64(),
			Transfers: res.Transfers,
		})
	}

	if *histories {
		res, err := r.svc.Sync.SyncPlayerHistories(ctx, usecase.SyncHistoriesInput{PlayerIDs: players, Workers: *workers})
		if err != nil {
			return err
		}
		report.Histories = &res
	}

	r.emit(report, func(w io.Writer) {
		pairs := [][2]string{
			{"current gameweek", strconv.Itoa(ref.CurrentGameweek)},
			{"teams", strconv.Itoa(ref.Teams)},
			{"players", strconv.Itoa(ref.Players)},
			{"gameweeks", strconv.Itoa(ref.Gameweeks)},
			{"fixtures", strconv.Itoa(ref.Fixtures)},
			{"snapshots", strconv.Itoa(ref.Snapshots)},
		}
		for _, m := range report.Managers {
			pairs = append(pairs, [2]string{
				fmt.Sprintf("manager %d", m.ManagerID),
				fmt.Sprintf("gw%d, %d players, bank %.1f, %d transfers", m.Gameweek, m.Players, m.Bank, m.Transfers),
			})
		}
		if h := report.Histories; h != nil {
			pairs = append(pairs,
				[2]string{"histories", fmt.Sprintf("%d/%d players, %d lines", h.Succeeded, h.Requested, h.Lines)},
			)
			if h.Failed > 0 {
				pairs = append(pairs, [2]string{"history failures", joinIDs(h.FailedIDs)})
			}
		}
		renderPairs(w, pairs)
	})
	return nil
}

func (r *Runner) runPredict(ctx context.Context, args []string) error {
	fs := r.newFlagSet("predict")
	gameweek := fs.Int("gameweek", 0, "last played gameweek (0 = current)")
	horizon := fs.Int("horizon", 0, "gameweeks to predict (0 = configured default)")
	window := fs.Int("window", 0, "past gameweeks feeding the averages (0 = configured default)")
	if err := r.parseFlags(fs, args); err != nil {
		return err
	}

	res, err := r.svc.Predict.Predict(ctx, usecase.PredictInput{Gameweek: *gameweek, Horizon: *horizon, Window: *window})
	if err != nil {
		return err
	}

	r.emit(res, func(w io.Writer) {
		renderPairs(w, [][2]string{
			{"current gameweek", strconv.Itoa(res.CurrentGameweek)},
			{"gameweeks", joinInts(res.Gameweeks)},
			{"players", strconv.Itoa(res.Players)},
			{"predictions", strconv.Itoa(res.Predictions)},
		})
	})
	return nil
}

func (r *Runner) runLineup(ctx context.Context, args []string) error {
	fs := r.newFlagSet("lineup")
	managerID := fs.Int64("manager", 0, "manager whose stored squad is used")
	var players idList
	fs.Var(&players, "players", "explicit 15 player ids instead of a stored squad")
	horizon := fs.Int("horizon", 0, "gameweeks to sum predicted points over")
	persist := fs.Bool("persist", false, "store the result as a recommendation")
	refresh := fs.Bool("refresh", r.autoRefresh, "sync and predict before selecting")
	if err := r.parseFlags(fs, args); err != nil {
		return err
	}

	if *refresh {
		if err := r.refresh(ctx, managerIDs(*managerID), *horizon, false); err != nil {
			return err
		}
	}

	res, err := r.svc.Lineups.SelectLineup(ctx, usecase.SelectLineupInput{
		ManagerID: *managerID,
		PlayerIDs: players,
		Horizon:   *horizon,
		Persist:   *persist,
	})
	if err != nil {
		return err
	}

	out := dto.FromLineup(res)
	r.emit(out, func(w io.Writer) {
		fmt.Fprintf(w, "Gameweeks %s | formation %s | expected %.2f\n",
			joinInts(out.Gameweeks), out.Formation, out.ExpectedPoints)

		rows := make([][]string, 0, len(out.Starters)+len(out.Bench))
		for _, p := range out.Starters {
			role := ""
			switch p.PlayerID {
			case out.Captain.PlayerID:
				role = "C"
			case out.ViceCaptain.PlayerID:
				role = "VC"
			}
			rows = append(rows, pickRow(p, role))
		}
		for i, p := range out.Bench {
			rows = append(rows, pickRow(p, fmt.Sprintf("B%d", i+1)))
		}
		renderTable(w, []string{"Role", "Player", "Pos", "Team", "Points"}, rows)
		if out.RecommendationID != "" {
			fmt.Fprintf(w, "saved as %s\n", out.RecommendationID)
		}
	})
	return nil
}

func (r *Runner) runTransfers(ctx context.Context, args []string) error {
	fs := r.newFlagSet("transfers")
	managerID := fs.Int64("manager", 0, "manager to optimize")
	maxTransfers := fs.Int("max", 1, "maximum number of transfers")
	var budget optionalFloat
	fs.Var(&budget, "budget", "spendable budget in millions (default: bank)")
	horizon := fs.Int("horizon", 0, "gameweeks to sum predicted points over")
	persist := fs.Bool("persist", false, "store the result as a recommendation")
	refresh := fs.Bool("refresh", r.autoRefresh, "sync and predict before optimizing")
	if err := r.parseFlags(fs, args); err != nil {
		return err
	}

	if *refresh {
		if err := r.refresh(ctx, managerIDs(*managerID), *horizon, false); err != nil {
			return err
		}
	}

	res, err := r.svc.Transfers.OptimizeTransfers(ctx, usecase.OptimizeTransfersInput{
		ManagerID:    *managerID,
		MaxTransfers: *maxTransfers,
		Budget:       budget.ptr(),
		Horizon:      *horizon,
		Persist:      *persist,
	})
	if err != nil {
		return err
	}

	out := dto.FromTransferResult(res)
	r.emit(out, func(w io.Writer) { renderTransferPlan(w, out) })
	return nil
}

func (r *Runner) runBatch(ctx context.Context, args []string) error {
	fs := r.newFlagSet("batch")
	var managers idList
	fs.Var(&managers, "managers", "comma separated manager ids")
	maxTransfers := fs.Int("max", 1, "maximum number of transfers per manager")
	horizon := fs.Int("horizon", 0, "gameweeks to sum predicted points over")
	workers := fs.Int("workers", 0, "parallel optimizations (0 = configured default)")
	persist := fs.Bool("persist", false, "store each result as a recommendation")
	refresh := fs.Bool("refresh", r.autoRefresh, "sync and predict before optimizing")
	if err := r.parseFlags(fs, args); err != nil {
		return err
	}

	if *refresh {
		if err := r.refresh(ctx, managers, *horizon, false); err != nil {
			return err
		}
	}

	items, err := r.svc.Transfers.OptimizeBatch(ctx, usecase.BatchInput{
		ManagerIDs:   managers,
		MaxTransfers: *maxTransfers,
		Horizon:      *horizon,
		Workers:      *workers,
		Persist:      *persist,
	})
	if err != nil {
		return err
	}

	out := dto.FromBatch(items)
	r.emit(out, func(w io.Writer) {
		rows := make([][]string, 0, len(out))
		for _, item := range out {
			if item.Plan == nil {
				rows = append(rows, []string{strconv.FormatInt(item.ManagerID, 10), "-", "-", "-", "-", item.Error})
				continue
			}
			rows = append(rows, []string{
				strconv.FormatInt(item.ManagerID, 10),
				transferSummary(*item.Plan),
				fmt.Sprintf("%.2f", item.Plan.PointsGain),
				fmt.Sprintf("%.1f", item.Plan.NetCost),
				fmt.Sprintf("%.1f", item.Plan.RemainingBank),
				"",
			})
		}
		renderTable(w, []string{"Manager", "Transfers", "Gain", "Net cost", "Bank", "Error"}, rows)
	})
	return nil
}

func (r *Runner) runPrice(ctx context.Context, args []string) error {
	fs := r.newFlagSet("price")
	managerID := fs.Int64("manager", 0, "manager owning the player")
	playerID := fs.Int64("player", 0, "player to value")
	refresh := fs.Bool("refresh", r.autoRefresh, "sync reference data and the manager before pricing")
	if err := r.parseFlags(fs, args); err != nil {
		return err
	}

	if *refresh {
		if err := r.refresh(ctx, managerIDs(*managerID), 0, true); err != nil {
			return err
		}
	}

	res, err := r.svc.Transfers.SalePrice(ctx, usecase.SalePriceInput{ManagerID: *managerID, PlayerID: *playerID})
	if err != nil {
		return err
	}

	out := dto.FromSalePrice(res)
	r.emit(out, func(w io.Writer) {
		renderPairs(w, [][2]string{
			{"player", fmt.Sprintf("%s (%d)", out.Name, out.PlayerID)},
			{"current value", fmt.Sprintf("%.1f", out.CurrentValue)},
			{"sale price", fmt.Sprintf("%.1f", out.SalePrice)},
		})
	})
	return nil
}

func (r *Runner) runFixtures(ctx context.Context, args []string) error {
	fs := r.newFlagSet("fixtures")
	horizon := fs.Int("horizon", 1, "upcoming gameweeks to list")
	refresh := fs.Bool("refresh", r.autoRefresh, "sync reference data first")
	if err := r.parseFlags(fs, args); err != nil {
		return err
	}

	if *refresh {
		if err := r.refresh(ctx, nil, 0, true); err != nil {
			return err
		}
	}

	items, err := r.svc.Fixtures.ListUpcoming(ctx, *horizon)
	if err != nil {
		return err
	}

	out := dto.FromFixtures(items)
	r.emit(out, func(w io.Writer) {
		rows := make([][]string, 0, len(out))
		for _, f := range out {
			rows = append(rows, []string{
				strconv.Itoa(f.Gameweek),
				f.HomeTeam,
				f.AwayTeam,
				f.KickoffAt,
				fmt.Sprintf("%d-%d", f.HomeDifficulty, f.AwayDifficulty),
			})
		}
		renderTable(w, []string{"GW", "Home", "Away", "Kickoff", "FDR"}, rows)
	})
	return nil
}

func (r *Runner) runTop(ctx context.Context, args []string) error {
	fs := r.newFlagSet("top")
	gameweek := fs.Int("gameweek", 0, "gameweek to rank (required)")
	position := fs.String("position", "", "GK, DEF, MID or FWD")
	limit := fs.Int("limit", 20, "number of players")
	refresh := fs.Bool("refresh", r.autoRefresh, "sync and predict first")
	if err := r.parseFlags(fs, args); err != nil {
		return err
	}

	if *refresh {
		if err := r.refresh(ctx, nil, 0, false); err != nil {
			return err
		}
	}

	items, err := r.svc.Players.TopPlayers(ctx, usecase.TopPlayersInput{
		Gameweek: *gameweek,
		Position: player.Position(strings.ToUpper(strings.TrimSpace(*position))),
		Limit:    *limit,
	})
	if err != nil {
		return err
	}

	out := dto.FromRankedPlayers(items)
	r.emit(out, func(w io.Writer) {
		rows := make([][]string, 0, len(out))
		for i, p := range out {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				p.Name,
				p.Position,
				strconv.FormatInt(p.TeamID, 10),
				fmt.Sprintf("%.1f", p.Price),
				fmt.Sprintf("%.2f", p.Points),
			})
		}
		renderTable(w, []string{"#", "Player", "Pos", "Team", "Price", "Points"}, rows)
	})
	return nil
}

func (r *Runner) refresh(ctx context.Context, managers []int64, horizon int, skipHistories bool) error {
	if r.svc.Refresh == nil {
		return nil
	}

	res, err := r.svc.Refresh.Refresh(ctx, usecase.RefreshInput{
		ManagerIDs:    managers,
		SkipHistories: skipHistories,
		Horizon:       horizon,
	})
	if err != nil {
		return err
	}
	r.logger.InfoContext(ctx, "data refreshed",
		"success", res.SuccessCount,
		"failed", res.FailedCount,
		"skipped", res.SkippedCount,
	)
	return nil
}

func renderTransferPlan(w io.Writer, out dto.TransferPlan) {
	fmt.Fprintf(w, "Manager %d | gameweeks %s | %d transfer(s) | gain %.2f | expected %.2f\n",
		out.ManagerID, joinInts(out.Gameweeks), out.TransferCount, out.PointsGain, out.ExpectedPoints)

	rows := make([][]string, 0, len(out.Pairs))
	for _, pair := range out.Pairs {
		rows = append(rows, []string{
			fmt.Sprintf("%s (%s)", pair.Out.Name, pair.Out.Position),
			fmt.Sprintf("%.1f", pair.Out.Price),
			fmt.Sprintf("%s (%s)", pair.In.Name, pair.In.Position),
			fmt.Sprintf("%.1f", pair.In.Price),
			fmt.Sprintf("%.2f", pair.PredictedGain),
		})
	}
	renderTable(w, []string{"Out", "Sale", "In", "Price", "Gain"}, rows)

	fmt.Fprintf(w, "sale %.1f | cost %.1f | net %.1f | budget %.1f | bank after %.1f\n",
		out.TotalSale, out.TotalCost, out.NetCost, out.Budget, out.RemainingBank)
	if out.RecommendationID != "" {
		fmt.Fprintf(w, "saved as %s\n", out.RecommendationID)
	}
}

func transferSummary(plan dto.TransferPlan) string {
	if plan.TransferCount == 0 {
		return "none"
	}
	parts := make([]string, 0, len(plan.Pairs))
	for _, pair := range plan.Pairs {
		parts = append(parts, fmt.Sprintf("%s -> %s", pair.Out.Name, pair.In.Name))
	}
	return strings.Join(parts, ", ")
}

func pickRow(p dto.Pick, role string) []string {
	return []string{role, p.Name, p.Position, strconv.FormatInt(p.TeamID, 10), fmt.Sprintf("%.2f", p.Points)}
}

func managerIDs(id int64) []int64 {
	if id <= 0 {
		return nil
	}
	return []int64{id}
}

func joinInts(items []int) string {
	parts := make([]string, 0, len(items))
	for _, v := range items {
		parts = append(parts, strconv.Itoa(v))
	}
	return strings.Join(parts, ",")
}

func joinIDs(items []int64) string {
	parts := make([]string, 0, len(items))
	for _, v := range items {
		parts = append(parts, strconv.FormatInt(v, 10))
	}
	return strings.Join(parts, ",")
}
