package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/fantasy"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/lineup"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
	"github.com/riskibarqy/fpl-optimizer/internal/platform/logging"
	"github.com/riskibarqy/fpl-optimizer/internal/usecase"
)

type fakeRefresher struct {
	calls []usecase.RefreshInput
	err   error
}

func (f *fakeRefresher) Refresh(_ context.Context, input usecase.RefreshInput) (usecase.RefreshResult, error) {
	f.calls = append(f.calls, input)
	if f.err != nil {
		return usecase.RefreshResult{}, f.err
	}
	return usecase.RefreshResult{SuccessCount: 3}, nil
}

type fakeLineups struct {
	input usecase.SelectLineupInput
}

func (f *fakeLineups) SelectLineup(_ context.Context, input usecase.SelectLineupInput) (usecase.LineupResult, error) {
	f.input = input
	captain := lineup.Pick{PlayerID: 10, Name: "Salah", TeamID: 12, Position: player.PositionMidfielder, Points: 9.5}
	vice := lineup.Pick{PlayerID: 11, Name: "Haaland", TeamID: 13, Position: player.PositionForward, Points: 8.25}
	return usecase.LineupResult{
		ManagerID: input.ManagerID,
		Gameweeks: []int{5},
		Selection: lineup.Selection{
			Starters:       []lineup.Pick{captain, vice},
			Bench:          []lineup.Pick{{PlayerID: 20, Name: "Bench Keeper", TeamID: 1, Position: player.PositionGoalkeeper}},
			Captain:        captain,
			ViceCaptain:    vice,
			Formation:      "3-4-3",
			ExpectedPoints: 61.333,
		},
	}, nil
}

type fakeTransfers struct {
	transfersInput usecase.OptimizeTransfersInput
	priceInput     usecase.SalePriceInput
	err            error
}

func (f *fakeTransfers) OptimizeTransfers(_ context.Context, input usecase.OptimizeTransfersInput) (usecase.TransferResult, error) {
	f.transfersInput = input
	if f.err != nil {
		return usecase.TransferResult{}, f.err
	}
	return usecase.TransferResult{
		ManagerID: input.ManagerID,
		Gameweeks: []int{5},
		Plan: fantasy.TransferPlan{
			TransferCount: 1,
			TransfersIn:   []int64{30},
			TransfersOut:  []int64{20},
			Pairs: []fantasy.TransferPair{{
				In:            fantasy.PairSide{PlayerID: 30, Name: "Palmer", Position: player.PositionMidfielder, Price: 105, Points: 7},
				Out:           fantasy.PairSide{PlayerID: 20, Name: "Gordon", Position: player.PositionMidfielder, Price: 75, Points: 3},
				PredictedGain: 4,
				Cost:          30,
			}},
			PointsGain:    4,
			TotalCost:     105,
			TotalSale:     75,
			NetCost:       30,
			Budget:        35,
			RemainingBank: 5,
		},
	}, nil
}

func (f *fakeTransfers) OptimizeBatch(_ context.Context, input usecase.BatchInput) ([]usecase.BatchItem, error) {
	items := make([]usecase.BatchItem, 0, len(input.ManagerIDs))
	for _, id := range input.ManagerIDs {
		if id == 404 {
			items = append(items, usecase.BatchItem{ManagerID: id, Err: usecase.ErrNotFound})
			continue
		}
		items = append(items, usecase.BatchItem{ManagerID: id, Result: usecase.TransferResult{ManagerID: id}})
	}
	return items, nil
}

func (f *fakeTransfers) SalePrice(_ context.Context, input usecase.SalePriceInput) (usecase.SalePriceResult, error) {
	f.priceInput = input
	if f.err != nil {
		return usecase.SalePriceResult{}, f.err
	}
	return usecase.SalePriceResult{
		ManagerID:    input.ManagerID,
		PlayerID:     input.PlayerID,
		Name:         "Saka",
		CurrentValue: 72,
		SalePrice:    69,
	}, nil
}

type testRunner struct {
	runner    *Runner
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	refresher *fakeRefresher
	lineups   *fakeLineups
	transfers *fakeTransfers
}

func newTestRunner(autoRefresh bool) *testRunner {
	tr := &testRunner{
		stdout:    &bytes.Buffer{},
		stderr:    &bytes.Buffer{},
		refresher: &fakeRefresher{},
		lineups:   &fakeLineups{},
		transfers: &fakeTransfers{},
	}
	tr.runner = NewRunner(Services{
		Refresh:   tr.refresher,
		Lineups:   tr.lineups,
		Transfers: tr.transfers,
	}, Options{
		AutoRefresh: autoRefresh,
		Stdout:      tr.stdout,
		Stderr:      tr.stderr,
		Logger:      logging.NewNop(),
	})
	return tr
}

type pricePayload struct {
	PlayerID     int64   `json:"player_id"`
	CurrentValue float64 `json:"current_value"`
	SalePrice    float64 `json:"sale_price"`
}

type priceEnvelope struct {
	Data  *pricePayload `json:"data"`
	Error *errorBody    `json:"error"`
}

func TestRunner_PriceJSON(t *testing.T) {
	t.Parallel()

	tr := newTestRunner(false)
	code := tr.runner.Run(context.Background(), []string{"-json", "price", "-manager", "100", "-player", "7"})
	if code != exitOK {
		t.Fatalf("unexpected exit code %d, stderr: %s", code, tr.stderr.String())
	}

	var got priceEnvelope
	if err := sonic.Unmarshal(tr.stdout.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, tr.stdout.String())
	}
	if got.Error != nil || got.Data == nil {
		t.Fatalf("unexpected envelope: %s", tr.stdout.String())
	}
	if got.Data.PlayerID != 7 || got.Data.CurrentValue != 7.2 || got.Data.SalePrice != 6.9 {
		t.Fatalf("unexpected price payload: %+v", *got.Data)
	}
	if tr.transfers.priceInput.ManagerID != 100 {
		t.Fatalf("manager id not passed: %+v", tr.transfers.priceInput)
	}
	if len(tr.refresher.calls) != 0 {
		t.Fatalf("refresh should not run without auto refresh: %+v", tr.refresher.calls)
	}
}

func TestRunner_ErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		err        error
		wantCode   int
		wantReason string
	}{
		{name: "invalid input", err: fmt.Errorf("%w: manager id is required", usecase.ErrInvalidInput), wantCode: exitInvalidInput, wantReason: "invalidInput"},
		{name: "not found", err: fmt.Errorf("%w: manager squad", usecase.ErrNotFound), wantCode: exitNotFound, wantReason: "notFound"},
		{name: "dependency", err: fmt.Errorf("%w: fpl api", usecase.ErrDependencyUnavailable), wantCode: exitDependencyUnavailable, wantReason: "dependencyUnavailable"},
		{name: "infeasible", err: fantasy.ErrNoFeasibleTransferPlan, wantCode: exitInfeasible, wantReason: "infeasible"},
		{name: "unknown", err: errors.New("boom"), wantCode: exitError, wantReason: "internalError"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tr := newTestRunner(false)
			tr.transfers.err = tc.err
			code := tr.runner.Run(context.Background(), []string{"-json", "price", "-manager", "1", "-player", "2"})
			if code != tc.wantCode {
				t.Fatalf("exit code: got %d want %d", code, tc.wantCode)
			}

			var got priceEnvelope
			if err := sonic.Unmarshal(tr.stdout.Bytes(), &got); err != nil {
				t.Fatalf("decode output: %v\n%s", err, tr.stdout.String())
			}
			if got.Error == nil || got.Error.Reason != tc.wantReason || got.Error.Code != tc.wantCode {
				t.Fatalf("unexpected error body: %s", tr.stdout.String())
			}
		})
	}
}

func TestRunner_ErrorWithoutJSONGoesToStderr(t *testing.T) {
	t.Parallel()

	tr := newTestRunner(false)
	tr.transfers.err = fmt.Errorf("%w: player 9 is not in the squad", usecase.ErrNotFound)
	code := tr.runner.Run(context.Background(), []string{"price", "-manager", "1", "-player", "9"})
	if code != exitNotFound {
		t.Fatalf("unexpected exit code %d", code)
	}
	if tr.stdout.Len() != 0 {
		t.Fatalf("stdout should be empty, got %q", tr.stdout.String())
	}
	if !strings.Contains(tr.stderr.String(), "error (notFound)") {
		t.Fatalf("unexpected stderr: %q", tr.stderr.String())
	}
}

func TestRunner_UsageErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		args []string
	}{
		{name: "no command", args: nil},
		{name: "unknown command", args: []string{"deploy"}},
		{name: "unknown flag", args: []string{"price", "-colour", "red"}},
		{name: "extra argument", args: []string{"price", "-manager", "1", "extra"}},
		{name: "bad id list", args: []string{"batch", "-managers", "1,x"}},
		{name: "bad budget", args: []string{"transfers", "-budget", "lots"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tr := newTestRunner(false)
			if code := tr.runner.Run(context.Background(), tc.args); code != exitUsage {
				t.Fatalf("exit code: got %d want %d", code, exitUsage)
			}
			if tr.stderr.Len() == 0 {
				t.Fatalf("expected usage output on stderr")
			}
		})
	}
}

func TestRunner_AutoRefresh(t *testing.T) {
	t.Parallel()

	t.Run("lineup refreshes its manager", func(t *testing.T) {
		t.Parallel()

		tr := newTestRunner(true)
		if code := tr.runner.Run(context.Background(), []string{"lineup", "-manager", "7", "-horizon", "2"}); code != exitOK {
			t.Fatalf("unexpected exit code %d: %s", code, tr.stderr.String())
		}
		if len(tr.refresher.calls) != 1 {
			t.Fatalf("expected one refresh, got %d", len(tr.refresher.calls))
		}
		call := tr.refresher.calls[0]
		if len(call.ManagerIDs) != 1 || call.ManagerIDs[0] != 7 || call.Horizon != 2 || call.SkipHistories {
			t.Fatalf("unexpected refresh input: %+v", call)
		}
	})

	t.Run("price skips histories", func(t *testing.T) {
		t.Parallel()

		tr := newTestRunner(true)
		if code := tr.runner.Run(context.Background(), []string{"price", "-manager", "7", "-player", "3"}); code != exitOK {
			t.Fatalf("unexpected exit code %d: %s", code, tr.stderr.String())
		}
		if len(tr.refresher.calls) != 1 || !tr.refresher.calls[0].SkipHistories {
			t.Fatalf("unexpected refresh calls: %+v", tr.refresher.calls)
		}
	})

	t.Run("flag disables refresh", func(t *testing.T) {
		t.Parallel()

		tr := newTestRunner(true)
		if code := tr.runner.Run(context.Background(), []string{"lineup", "-manager", "7", "-refresh=false"}); code != exitOK {
			t.Fatalf("unexpected exit code %d: %s", code, tr.stderr.String())
		}
		if len(tr.refresher.calls) != 0 {
			t.Fatalf("refresh should be skipped: %+v", tr.refresher.calls)
		}
	})

	t.Run("refresh failure stops the command", func(t *testing.T) {
		t.Parallel()

		tr := newTestRunner(true)
		tr.refresher.err = fmt.Errorf("%w: bootstrap", usecase.ErrDependencyUnavailable)
		if code := tr.runner.Run(context.Background(), []string{"lineup", "-manager", "7"}); code != exitDependencyUnavailable {
			t.Fatalf("unexpected exit code %d", code)
		}
		if tr.lineups.input.ManagerID != 0 {
			t.Fatalf("lineup should not run after a failed refresh")
		}
	})
}

func TestRunner_TransfersBudgetFlag(t *testing.T) {
	t.Parallel()

	tr := newTestRunner(false)
	if code := tr.runner.Run(context.Background(), []string{"transfers", "-manager", "5", "-max", "2"}); code != exitOK {
		t.Fatalf("unexpected exit code %d: %s", code, tr.stderr.String())
	}
	if tr.transfers.transfersInput.Budget != nil || tr.transfers.transfersInput.MaxTransfers != 2 {
		t.Fatalf("unexpected input without budget: %+v", tr.transfers.transfersInput)
	}
	if !strings.Contains(tr.stdout.String(), "Palmer") || !strings.Contains(tr.stdout.String(), "Gordon") {
		t.Fatalf("table should list both players:\n%s", tr.stdout.String())
	}

	tr = newTestRunner(false)
	if code := tr.runner.Run(context.Background(), []string{"transfers", "-manager", "5", "-budget", "3.5"}); code != exitOK {
		t.Fatalf("unexpected exit code %d: %s", code, tr.stderr.String())
	}
	budget := tr.transfers.transfersInput.Budget
	if budget == nil || *budget != 3.5 {
		t.Fatalf("budget not forwarded: %+v", budget)
	}
}

func TestRunner_LineupTable(t *testing.T) {
	t.Parallel()

	tr := newTestRunner(false)
	if code := tr.runner.Run(context.Background(), []string{"lineup", "-players", "1,2,3"}); code != exitOK {
		t.Fatalf("unexpected exit code %d: %s", code, tr.stderr.String())
	}
	if got := tr.lineups.input.PlayerIDs; len(got) != 3 || got[2] != 3 {
		t.Fatalf("player ids not parsed: %v", got)
	}

	out := tr.stdout.String()
	for _, want := range []string{"formation 3-4-3", "expected 61.33", "Salah", "VC", "B1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunner_BatchKeepsFailures(t *testing.T) {
	t.Parallel()

	tr := newTestRunner(false)
	code := tr.runner.Run(context.Background(), []string{"-json", "batch", "-managers", "1,404", "-managers", "2"})
	if code != exitOK {
		t.Fatalf("unexpected exit code %d: %s", code, tr.stderr.String())
	}

	var got struct {
		Data []struct {
			ManagerID int64           `json:"manager_id"`
			Plan      *map[string]any `json:"plan"`
			Error     string          `json:"error"`
		} `json:"data"`
	}
	if err := sonic.Unmarshal(tr.stdout.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(got.Data) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got.Data))
	}
	if got.Data[1].ManagerID != 404 || got.Data[1].Error == "" || got.Data[1].Plan != nil {
		t.Fatalf("failed manager not reported: %+v", got.Data[1])
	}
	if got.Data[2].ManagerID != 2 || got.Data[2].Plan == nil {
		t.Fatalf("unexpected last item: %+v", got.Data[2])
	}
}
