package ilp

import (
	"context"
	"errors"
	"fmt"
	"math"
)

const (
	DefaultNodeLimit = 200000

	integralityTol = 1e-6
	feasibilityTol = 1e-6
	pruneTol       = 1e-9
)

type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusInfeasible
	StatusNodeLimit
	StatusInterrupted
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusNodeLimit:
		return "node_limit"
	case StatusInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

type Options struct {
	// NodeLimit caps the number of branch-and-bound nodes. Zero means DefaultNodeLimit.
	NodeLimit int
}

// Solution holds the best assignment found. Values are exactly 0 or 1 and
// Objective is expressed in the model's own sense.
type Solution struct {
	Status    Status
	Objective float64
	Values    []float64
	Nodes     int
}

// IsSet reports whether variable v takes value 1.
func (s Solution) IsSet(v int) bool {
	return v >= 0 && v < len(s.Values) && s.Values[v] > 0.5
}

const unfixed int8 = -1

type node struct {
	fixed   []int8
	bounded []bool
}

func (nd *node) child(v int, value int8) *node {
	fixed := make([]int8, len(nd.fixed))
	copy(fixed, nd.fixed)
	fixed[v] = value
	bounded := make([]bool, len(nd.bounded))
	copy(bounded, nd.bounded)
	return &node{fixed: fixed, bounded: bounded}
}

type searcher struct {
	model *Model
	// cost is the objective in minimization form.
	cost []float64
}

// Solve runs depth-first branch and bound over LP relaxations. The 1-branch
// of a split is explored first so an incumbent shows up early. The context is
// checked between nodes and between simplex pivots. Anything other than a proven optimum is returned
// together with a non-nil error; a node-limit stop still carries the best
// incumbent, if one was found.
func Solve(ctx context.Context, m *Model, opts Options) (Solution, error) {
	if m == nil {
		return Solution{}, fmt.Errorf("%w: nil model", ErrInvalidModel)
	}
	if err := m.validate(); err != nil {
		return Solution{}, err
	}
	limit := opts.NodeLimit
	if limit <= 0 {
		limit = DefaultNodeLimit
	}

	s := &searcher{model: m, cost: make([]float64, len(m.objective))}
	for i, c := range m.objective {
		if m.sense == Maximize {
			s.cost[i] = -c
		} else {
			s.cost[i] = c
		}
	}

	root := &node{fixed: make([]int8, len(s.cost)), bounded: make([]bool, len(s.cost))}
	for i := range root.fixed {
		root.fixed[i] = unfixed
	}

	var (
		incumbent    []float64
		incumbentObj = math.Inf(1)
		nodes        int
		stack        = []*node{root}
	)

	result := func(status Status) Solution {
		sol := Solution{Status: status, Nodes: nodes}
		if incumbent != nil {
			sol.Values = incumbent
			sol.Objective = m.objectiveValue(incumbent)
		}
		return sol
	}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return result(StatusInterrupted), fmt.Errorf("%w after %d nodes: %w", ErrInterrupted, nodes, err)
		}
		if nodes >= limit {
			return result(StatusNodeLimit), fmt.Errorf("%w: limit=%d", ErrNodeLimit, limit)
		}

		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodes++

		relaxed, err := s.relax(ctx, nd)
		if errors.Is(err, ErrInterrupted) {
			return result(StatusInterrupted), fmt.Errorf("solve %q at node %d: %w", m.name, nodes, err)
		}
		if err != nil {
			return result(StatusUnknown), fmt.Errorf("solve %q at node %d: %w", m.name, nodes, err)
		}
		if !relaxed.feasible {
			continue
		}
		if incumbent != nil && relaxed.objective >= incumbentObj-pruneTol {
			continue
		}

		branchVar := mostFractional(relaxed.values)
		if branchVar < 0 {
			candidate := roundAll(relaxed.values)
			if !m.Feasible(candidate, feasibilityTol) {
				continue
			}
			obj := 0.0
			for i, c := range s.cost {
				obj += c * candidate[i]
			}
			if obj < incumbentObj-pruneTol {
				incumbent = candidate
				incumbentObj = obj
			}
			continue
		}

		stack = append(stack, nd.child(branchVar, 0), nd.child(branchVar, 1))
	}

	if incumbent == nil {
		return result(StatusInfeasible), fmt.Errorf("%w: model %q", ErrInfeasible, m.name)
	}
	return result(StatusOptimal), nil
}

// mostFractional returns the variable farthest from integrality, lowest index
// on ties, or -1 when every value is integral.
func mostFractional(values []float64) int {
	best := -1
	bestFrac := integralityTol
	for i, v := range values {
		frac := math.Abs(v - math.Round(v))
		if frac > bestFrac {
			best = i
			bestFrac = frac
		}
	}
	return best
}

func roundAll(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Round(v)
	}
	return out
}
