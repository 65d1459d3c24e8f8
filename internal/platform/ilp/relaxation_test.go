package ilp

import (
	"context"
	"errors"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expiringCtx reports err from Err once it has been asked more than budget times.
type expiringCtx struct {
	context.Context
	budget int64
	calls  atomic.Int64
	err    error
}

func newExpiringCtx(budget int64, err error) *expiringCtx {
	return &expiringCtx{Context: context.Background(), budget: budget, err: err}
}

func (c *expiringCtx) Err() error {
	if c.calls.Add(1) > c.budget {
		return c.err
	}
	return nil
}

func TestSolveStandardForm_DegenerateCyclingExample(t *testing.T) {
	t.Parallel()

	// Beale's example cycles under textbook Dantzig pricing.
	cost := []float64{-0.75, 20, -0.5, 6}
	rows := []lpRow{
		{coefs: []float64{0.25, -8, -1, 9}, op: LessEq, rhs: 0},
		{coefs: []float64{0.5, -12, -0.5, 3}, op: LessEq, rhs: 0},
		{coefs: []float64{0, 0, 1, 0}, op: LessEq, rhs: 1},
	}

	x, res, err := solveStandardForm(context.Background(), cost, rows)
	require.NoError(t, err)
	require.Equal(t, lpOptimal, res)

	obj := 0.0
	for j, c := range cost {
		obj += c * x[j]
	}
	assert.InDelta(t, -1.25, obj, 1e-9)
	assert.InDelta(t, 1, x[2], 1e-9)
}

func TestSolveStandardForm_Infeasible(t *testing.T) {
	t.Parallel()

	rows := []lpRow{
		{coefs: []float64{1, 1}, op: GreaterEq, rhs: 3},
		{coefs: []float64{1, 0}, op: LessEq, rhs: 1},
		{coefs: []float64{0, 1}, op: LessEq, rhs: 1},
	}
	_, res, err := solveStandardForm(context.Background(), []float64{1, 1}, rows)
	require.NoError(t, err)
	assert.Equal(t, lpInfeasible, res)
}

func TestSolveStandardForm_ExpiredMidSolve(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	const nVars, nRows = 120, 80
	cost := make([]float64, nVars)
	for j := range cost {
		cost[j] = -float64(1 + rng.Intn(5))
	}
	rows := make([]lpRow, 0, nRows)
	for i := 0; i < nRows; i++ {
		coefs := make([]float64, nVars)
		for j := range coefs {
			coefs[j] = float64(rng.Intn(4))
		}
		rows = append(rows, lpRow{coefs: coefs, op: LessEq, rhs: float64(10 + rng.Intn(20))})
	}

	ctx := newExpiringCtx(3, context.DeadlineExceeded)
	_, _, err := solveStandardForm(ctx, cost, rows)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInterrupted))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, int64(4), ctx.calls.Load())
}

func TestSolve_InterruptedInsideRootRelaxation(t *testing.T) {
	t.Parallel()

	m := NewModel("knapsack", Maximize)
	terms := make([]Term, 0, 5)
	for i, w := range []float64{5, 7, 4, 4, 2} {
		idx := m.AddBinary("item", float64(10+i))
		terms = append(terms, Term{Var: idx, Coef: w})
	}
	m.AddConstraint("capacity", LessEq, 13, terms...)

	// The node loop asks once; the first pivot check sees the cancellation.
	sol, err := Solve(newExpiringCtx(1, context.Canceled), m, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInterrupted))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, StatusInterrupted, sol.Status)
	assert.Equal(t, 1, sol.Nodes)
}

func TestSolve_TiedObjectivesUnderDeadline(t *testing.T) {
	t.Parallel()

	const nVars = 14
	for seed := int64(0); seed < 30; seed++ {
		rng := rand.New(rand.NewSource(seed))

		m := NewModel("ties", Maximize)
		size := make([]Term, 0, nVars)
		weight := make([]Term, 0, nVars)
		groups := map[int][]Term{}
		for i := 0; i < nVars; i++ {
			// Few distinct values so the relaxations are full of ties.
			idx := m.AddBinary("x", float64(rng.Intn(3))*1.5)
			size = append(size, Term{idx, 1})
			weight = append(weight, Term{idx, float64(4 + rng.Intn(3))})
			g := rng.Intn(4)
			groups[g] = append(groups[g], Term{idx, 1})
		}
		m.AddConstraint("size", Equal, 6, size...)
		m.AddConstraint("weight", LessEq, 30, weight...)
		for g := 0; g < 4; g++ {
			if len(groups[g]) > 0 {
				m.AddConstraint("group", LessEq, 2, groups[g]...)
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		started := time.Now()
		sol, err := Solve(ctx, m, Options{})
		cancel()
		require.Less(t, time.Since(started), 4*time.Second, "seed %d did not return", seed)

		best, feasible := bruteForce(m)
		if !feasible {
			assert.True(t, errors.Is(err, ErrInfeasible), "seed %d: %v", seed, err)
			continue
		}
		require.NoError(t, err, "seed %d", seed)
		assert.InDelta(t, best, sol.Objective, 1e-9, "seed %d", seed)
		assert.True(t, m.Feasible(sol.Values, 1e-9), "seed %d", seed)
	}
}

func bruteForce(m *Model) (float64, bool) {
	n := m.NumVars()
	best := 0.0
	feasible := false
	values := make([]float64, n)
	for mask := 0; mask < 1<<n; mask++ {
		for i := range values {
			values[i] = float64((mask >> i) & 1)
		}
		if !m.Feasible(values, 1e-9) {
			continue
		}
		if obj := m.objectiveValue(values); !feasible || obj > best {
			best = obj
			feasible = true
		}
	}
	return best, feasible
}
