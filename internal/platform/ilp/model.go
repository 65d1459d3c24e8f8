package ilp

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidModel = errors.New("ilp: invalid model")
	ErrInfeasible   = errors.New("ilp: problem is infeasible")
	ErrNodeLimit    = errors.New("ilp: node limit reached before optimality was proven")
	ErrInterrupted  = errors.New("ilp: search interrupted")
	ErrNumerical    = errors.New("ilp: numerical failure in lp relaxation")
)

type Sense int

const (
	Maximize Sense = iota
	Minimize
)

type Op int

const (
	LessEq Op = iota
	GreaterEq
	Equal
)

func (o Op) String() string {
	switch o {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	case Equal:
		return "="
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Term is one coefficient of a linear expression.
type Term struct {
	Var  int
	Coef float64
}

type Constraint struct {
	Name  string
	Terms []Term
	Op    Op
	RHS   float64
}

// Model is a pure binary integer program: every variable is restricted to {0, 1}.
type Model struct {
	name        string
	sense       Sense
	varNames    []string
	objective   []float64
	constraints []Constraint
}

func NewModel(name string, sense Sense) *Model {
	return &Model{name: name, sense: sense}
}

func (m *Model) Name() string {
	return m.name
}

// AddBinary registers a 0/1 variable and returns its index.
func (m *Model) AddBinary(name string, objCoef float64) int {
	m.varNames = append(m.varNames, name)
	m.objective = append(m.objective, objCoef)
	return len(m.objective) - 1
}

func (m *Model) AddConstraint(name string, op Op, rhs float64, terms ...Term) {
	copied := make([]Term, len(terms))
	copy(copied, terms)
	m.constraints = append(m.constraints, Constraint{
		Name:  name,
		Terms: copied,
		Op:    op,
		RHS:   rhs,
	})
}

func (m *Model) NumVars() int {
	return len(m.objective)
}

func (m *Model) NumConstraints() int {
	return len(m.constraints)
}

func (m *Model) VarName(v int) string {
	if v < 0 || v >= len(m.varNames) {
		return ""
	}
	return m.varNames[v]
}

func (m *Model) validate() error {
	if len(m.objective) == 0 {
		return fmt.Errorf("%w: model %q has no variables", ErrInvalidModel, m.name)
	}
	for i, c := range m.objective {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: objective coefficient of %q is not finite", ErrInvalidModel, m.varNames[i])
		}
	}
	for _, con := range m.constraints {
		if con.Op != LessEq && con.Op != GreaterEq && con.Op != Equal {
			return fmt.Errorf("%w: constraint %q has unknown operator %d", ErrInvalidModel, con.Name, int(con.Op))
		}
		if math.IsNaN(con.RHS) || math.IsInf(con.RHS, 0) {
			return fmt.Errorf("%w: constraint %q has non-finite rhs", ErrInvalidModel, con.Name)
		}
		for _, t := range con.Terms {
			if t.Var < 0 || t.Var >= len(m.objective) {
				return fmt.Errorf("%w: constraint %q references unknown variable %d", ErrInvalidModel, con.Name, t.Var)
			}
			if math.IsNaN(t.Coef) || math.IsInf(t.Coef, 0) {
				return fmt.Errorf("%w: constraint %q has non-finite coefficient", ErrInvalidModel, con.Name)
			}
		}
	}
	return nil
}

// Feasible reports whether a 0/1 assignment satisfies every constraint within tol.
func (m *Model) Feasible(values []float64, tol float64) bool {
	if len(values) != len(m.objective) {
		return false
	}
	for _, con := range m.constraints {
		lhs := 0.0
		for _, t := range con.Terms {
			lhs += t.Coef * values[t.Var]
		}
		if !satisfies(con.Op, lhs, con.RHS, tol) {
			return false
		}
	}
	return true
}

func (m *Model) objectiveValue(values []float64) float64 {
	total := 0.0
	for i, c := range m.objective {
		total += c * values[i]
	}
	return total
}

func satisfies(op Op, lhs, rhs, tol float64) bool {
	switch op {
	case LessEq:
		return lhs <= rhs+tol
	case GreaterEq:
		return lhs >= rhs-tol
	default:
		return math.Abs(lhs-rhs) <= tol
	}
}
