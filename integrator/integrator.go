package integrator

import (
	"errors"
	"fmt"

	"github.com/simlin/ltm/model"
)

// ErrAlgebraicLoop indicates the model has a cycle among flow/auxiliary
// variables that never passes through a stock. Package partition still
// reports such a cycle as a (discarded) strongly connected component,
// but this Euler engine has no simultaneous-equation solver and cannot
// evaluate it; a real system-dynamics model never needs one, since
// instantaneous variables are defined to be a function of already-known
// values within a step.
var ErrAlgebraicLoop = errors.New("integrator: algebraic loop among non-stock variables")

// AlgebraicLoopError wraps ErrAlgebraicLoop with the id of one variable
// caught in the cycle, so a caller that rejects the model can report
// which variable to fix (§7 "surfaced failures carry the offending
// variable id").
type AlgebraicLoopError struct {
	VariableID string
}

func (e *AlgebraicLoopError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAlgebraicLoop, e.VariableID)
}

func (e *AlgebraicLoopError) Unwrap() error { return ErrAlgebraicLoop }

// Engine evaluates a compiled model.Model one Euler step at a time. The
// topological order of its flow/auxiliary variables is computed once at
// construction and reused for every step.
type Engine struct {
	m     *model.Model
	order []int
}

// New builds an Engine for m, computing the evaluation order of its
// flow/auxiliary variables. Returns ErrAlgebraicLoop if any such
// variables form a cycle outside a stock.
func New(m *model.Model) (*Engine, error) {
	order, err := topoSortNonStocks(m)
	if err != nil {
		return nil, err
	}
	return &Engine{m: m, order: order}, nil
}

// InitialValues evaluates every stock's initial equation and every
// flow/auxiliary's equation at t=0, in that order.
func (e *Engine) InitialValues() ([]float64, error) {
	values := make([]float64, e.m.NumVariables())
	for _, v := range e.m.Variables() {
		if v.Kind != model.KindStock {
			continue
		}
		val, err := evalEq(v.InitialEquation, v.InitialInputs, values)
		if err != nil {
			return nil, fmt.Errorf("integrator: initial value of %q: %w", v.ID, err)
		}
		values[v.Index] = val
	}
	if err := e.evalNonStocks(values); err != nil {
		return nil, err
	}
	return values, nil
}

// Step advances prevValues by one step of size dt, integrating every
// stock via forward Euler using the flow values already present in
// prevValues, then re-evaluating every flow/auxiliary from the new stock
// values.
func (e *Engine) Step(prevValues []float64, dt float64) ([]float64, error) {
	curr := make([]float64, len(prevValues))
	for _, v := range e.m.Variables() {
		if v.Kind != model.KindStock {
			continue
		}
		net := 0.0
		for _, f := range v.Inflows {
			net += prevValues[f]
		}
		for _, f := range v.Outflows {
			net -= prevValues[f]
		}
		next := prevValues[v.Index] + dt*net
		if v.NonNegative && next < 0 {
			next = 0
		}
		curr[v.Index] = next
	}
	if err := e.evalNonStocks(curr); err != nil {
		return nil, err
	}
	return curr, nil
}

func (e *Engine) evalNonStocks(values []float64) error {
	for _, idx := range e.order {
		v := e.m.Variable(idx)
		val, err := evalEq(v.Equation, v.Inputs, values)
		if err != nil {
			return fmt.Errorf("integrator: variable %q: %w", v.ID, err)
		}
		values[idx] = val
	}
	return nil
}

func evalEq(eq model.EquationFunc, inputs []int, values []float64) (float64, error) {
	args := make([]float64, len(inputs))
	for i, idx := range inputs {
		args[i] = values[idx]
	}
	return eq(args)
}

// topoSortNonStocks computes Kahn's algorithm over the subgraph induced
// by flow/auxiliary variables and the ordinary (non-flow-to-stock) edges
// between them, picking the smallest-index ready node first so the
// result is deterministic.
func topoSortNonStocks(m *model.Model) ([]int, error) {
	n := m.NumVariables()
	include := make([]bool, n)
	for _, v := range m.Variables() {
		include[v.Index] = v.Kind != model.KindStock
	}

	indegree := make([]int, n)
	adjacency := make([][]int, n)
	for _, e := range m.Edges() {
		if !include[e.Source] || !include[e.Target] {
			continue
		}
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)
		indegree[e.Target]++
	}

	var ready []int
	for i := 0; i < n; i++ {
		if include[i] && indegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	var order []int
	for len(ready) > 0 {
		// smallest-index ready node first, scanning rather than keeping a
		// heap: partition sizes targeted by this analysis keep this cheap.
		minPos := 0
		for i := 1; i < len(ready); i++ {
			if ready[i] < ready[minPos] {
				minPos = i
			}
		}
		v := ready[minPos]
		ready = append(ready[:minPos], ready[minPos+1:]...)
		order = append(order, v)

		for _, w := range adjacency[v] {
			indegree[w]--
			if indegree[w] == 0 {
				ready = append(ready, w)
			}
		}
	}

	total := 0
	for i := 0; i < n; i++ {
		if include[i] {
			total++
		}
	}
	if len(order) != total {
		for i := 0; i < n; i++ {
			if include[i] && indegree[i] > 0 {
				return nil, &AlgebraicLoopError{VariableID: m.Variable(i).ID}
			}
		}
	}
	return order, nil
}
