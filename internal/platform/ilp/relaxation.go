package ilp

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	reducedCostTol = 1e-9
	pivotTol       = 1e-9
	ratioTol       = 1e-12
	artificialTol  = 1e-7
	boundTol       = 1e-9

	// blandAfter is the run of degenerate pivots that switches pricing to
	// Bland's rule until the objective moves again.
	blandAfter = 8
)

type lpRow struct {
	coefs []float64
	op    Op
	rhs   float64
}

type relaxation struct {
	feasible  bool
	objective float64
	values    []float64
}

// relax solves the LP relaxation of a node. Fixed variables are substituted
// out; free variables that appear in no remaining row are set by the sign of
// their cost. Upper bounds x <= 1 are only added for variables that exceed
// them, and the node remembers them so child nodes start from the same rows.
// A cancelled ctx stops the simplex between pivots with ErrInterrupted.
func (s *searcher) relax(ctx context.Context, nd *node) (relaxation, error) {
	n := len(s.cost)
	values := make([]float64, n)
	base := 0.0

	column := make([]int, n)
	free := make([]int, 0, n)
	for v := 0; v < n; v++ {
		column[v] = -1
		if nd.fixed[v] != unfixed {
			values[v] = float64(nd.fixed[v])
			base += s.cost[v] * values[v]
			continue
		}
		column[v] = len(free)
		free = append(free, v)
	}

	used := make([]bool, len(free))
	rows := make([]lpRow, 0, len(s.model.constraints))
	for _, con := range s.model.constraints {
		rhs := con.RHS
		dense := make([]float64, len(free))
		for _, t := range con.Terms {
			if column[t.Var] < 0 {
				rhs -= t.Coef * values[t.Var]
				continue
			}
			dense[column[t.Var]] += t.Coef
		}

		nonzero := false
		for j, c := range dense {
			if c != 0 {
				nonzero = true
				used[j] = true
			}
		}
		if !nonzero {
			if !satisfies(con.Op, 0, rhs, feasibilityTol) {
				return relaxation{}, nil
			}
			continue
		}
		rows = append(rows, lpRow{coefs: dense, op: con.Op, rhs: rhs})
	}

	active := make([]int, 0, len(free))
	for j, v := range free {
		if used[j] {
			active = append(active, j)
			continue
		}
		if s.cost[v] < 0 {
			values[v] = 1
			base += s.cost[v]
		}
	}
	if len(active) == 0 {
		return relaxation{feasible: true, objective: base, values: values}, nil
	}

	cost := make([]float64, len(active))
	compact := make([]lpRow, len(rows))
	for k, j := range active {
		cost[k] = s.cost[free[j]]
	}
	for i, row := range rows {
		coefs := make([]float64, len(active))
		for k, j := range active {
			coefs[k] = row.coefs[j]
		}
		compact[i] = lpRow{coefs: coefs, op: row.op, rhs: row.rhs}
	}

	for {
		structural := append([]lpRow(nil), compact...)
		for k, j := range active {
			if !nd.bounded[free[j]] {
				continue
			}
			coefs := make([]float64, len(active))
			coefs[k] = 1
			structural = append(structural, lpRow{coefs: coefs, op: LessEq, rhs: 1})
		}

		x, res, err := solveStandardForm(ctx, cost, structural)
		if err != nil {
			return relaxation{}, err
		}
		switch res {
		case lpInfeasible:
			return relaxation{}, nil
		case lpUnbounded:
			added := false
			for _, j := range active {
				if !nd.bounded[free[j]] {
					nd.bounded[free[j]] = true
					added = true
				}
			}
			if !added {
				return relaxation{}, fmt.Errorf("%w: bounded relaxation reported unbounded", ErrNumerical)
			}
			continue
		}

		exceeded := false
		for k, j := range active {
			if x[k] > 1+boundTol && !nd.bounded[free[j]] {
				nd.bounded[free[j]] = true
				exceeded = true
			}
		}
		if exceeded {
			continue
		}

		objective := base
		for k, j := range active {
			v := free[j]
			val := math.Max(0, math.Min(1, x[k]))
			values[v] = val
			objective += s.cost[v] * val
		}
		return relaxation{feasible: true, objective: objective, values: values}, nil
	}
}

type lpResult int

const (
	lpOptimal lpResult = iota
	lpInfeasible
	lpUnbounded
)

// solveStandardForm minimizes cost·x over the rows with x >= 0. Rows are
// normalized to a non-negative right-hand side and given a slack or an
// artificial column, so the slack/artificial set is a feasible starting basis.
// Artificial columns carry a big-M cost; a solution that keeps any of them
// positive means the rows cannot be satisfied.
func solveStandardForm(ctx context.Context, cost []float64, rows []lpRow) ([]float64, lpResult, error) {
	nStruct := len(cost)
	m := len(rows)

	extra := 0
	for _, row := range rows {
		if normalizedOp(row) == GreaterEq {
			extra += 2
		} else {
			extra++
		}
	}
	nCols := nStruct + extra

	scale := 0.0
	for _, c := range cost {
		scale = math.Max(scale, math.Abs(c))
	}
	if scale == 0 {
		scale = 1
	}
	bigM := 1e3 * float64(nStruct+1)

	c := make([]float64, nCols)
	for j, v := range cost {
		c[j] = v / scale
	}
	tb := newTableau(m, nCols)
	artificial := make([]int, 0, m)

	next := nStruct
	for i, row := range rows {
		norm := 0.0
		for _, v := range row.coefs {
			norm = math.Max(norm, math.Abs(v))
		}
		sign := 1.0
		if row.rhs < 0 {
			sign = -1
		}
		dst := tb.row(i)
		for j, v := range row.coefs {
			if v != 0 {
				dst[j] = sign * v / norm
			}
		}
		dst[nCols] = sign * row.rhs / norm

		switch normalizedOp(row) {
		case LessEq:
			dst[next] = 1
			tb.basis[i] = next
			next++
		case GreaterEq:
			dst[next] = -1
			next++
			dst[next] = 1
			c[next] = bigM
			tb.basis[i] = next
			artificial = append(artificial, next)
			next++
		default:
			dst[next] = 1
			c[next] = bigM
			tb.basis[i] = next
			artificial = append(artificial, next)
			next++
		}
	}
	tb.price(c)

	res, err := tb.solve(ctx)
	if err != nil || res != lpOptimal {
		return nil, res, err
	}

	x := tb.primal()
	for _, col := range artificial {
		if x[col] > artificialTol {
			return nil, lpInfeasible, nil
		}
	}
	return x[:nStruct], lpOptimal, nil
}

// tableau is a dense simplex tableau. Rows 0..m-1 hold the constraints with
// the right-hand side in the last column; row m holds the reduced costs and
// the negated objective.
type tableau struct {
	t     *mat.Dense
	m, n  int
	basis []int
}

func newTableau(m, n int) *tableau {
	return &tableau{
		t:     mat.NewDense(m+1, n+1, nil),
		m:     m,
		n:     n,
		basis: make([]int, m),
	}
}

func (tb *tableau) row(i int) []float64 {
	return tb.t.RawRowView(i)
}

// price fills the objective row for cost c relative to the starting basis,
// whose columns must already be unit vectors.
func (tb *tableau) price(c []float64) {
	obj := tb.row(tb.m)
	copy(obj, c)
	obj[tb.n] = 0
	for i, col := range tb.basis {
		if c[col] != 0 {
			floats.AddScaled(obj, -c[col], tb.row(i))
		}
	}
}

// pivotBudget caps the pivots of one solve. Bland pricing on degenerate runs
// already rules out cycling; the cap bounds numerical drift.
func (tb *tableau) pivotBudget() int {
	return 50*(tb.m+tb.n) + 1000
}

// solve runs the primal simplex from the current basis. Pricing takes the most
// negative reduced cost until blandAfter consecutive degenerate pivots, then
// the lowest-index candidate until a pivot makes progress.
func (tb *tableau) solve(ctx context.Context) (lpResult, error) {
	limit := tb.pivotBudget()
	degenerate := 0
	for iter := 0; iter < limit; iter++ {
		if err := ctx.Err(); err != nil {
			return lpOptimal, fmt.Errorf("%w after %d pivots: %w", ErrInterrupted, iter, err)
		}
		col := tb.entering(degenerate >= blandAfter)
		if col < 0 {
			return lpOptimal, nil
		}
		r, step := tb.leaving(col)
		if r < 0 {
			return lpUnbounded, nil
		}
		if step <= ratioTol {
			degenerate++
		} else {
			degenerate = 0
		}
		tb.pivot(r, col)
	}
	return lpOptimal, fmt.Errorf("%w: no optimum after %d pivots", ErrNumerical, limit)
}

func (tb *tableau) entering(bland bool) int {
	obj := tb.row(tb.m)
	best := -1
	bestVal := -reducedCostTol
	for j := 0; j < tb.n; j++ {
		if obj[j] >= -reducedCostTol {
			continue
		}
		if bland {
			return j
		}
		if obj[j] < bestVal {
			best = j
			bestVal = obj[j]
		}
	}
	return best
}

// leaving runs the ratio test for column col. Ties go to the row whose basic
// variable has the lowest index.
func (tb *tableau) leaving(col int) (int, float64) {
	r := -1
	best := math.Inf(1)
	for i := 0; i < tb.m; i++ {
		row := tb.row(i)
		if row[col] <= pivotTol {
			continue
		}
		ratio := math.Max(row[tb.n], 0) / row[col]
		switch {
		case r < 0, ratio < best-ratioTol:
			r, best = i, ratio
		case ratio <= best+ratioTol && tb.basis[i] < tb.basis[r]:
			r, best = i, math.Min(best, ratio)
		}
	}
	return r, best
}

func (tb *tableau) pivot(r, col int) {
	prow := tb.row(r)
	floats.Scale(1/prow[col], prow)
	prow[col] = 1
	for i := 0; i <= tb.m; i++ {
		if i == r {
			continue
		}
		row := tb.row(i)
		if f := row[col]; f != 0 {
			floats.AddScaled(row, -f, prow)
			row[col] = 0
		}
	}
	tb.basis[r] = col
}

func (tb *tableau) primal() []float64 {
	x := make([]float64, tb.n)
	for i, col := range tb.basis {
		x[col] = math.Max(0, tb.row(i)[tb.n])
	}
	return x
}

func normalizedOp(row lpRow) Op {
	if row.rhs >= 0 {
		return row.op
	}
	switch row.op {
	case LessEq:
		return GreaterEq
	case GreaterEq:
		return LessEq
	default:
		return Equal
	}
}
