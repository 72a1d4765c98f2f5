package model

import "fmt"

// Builder accumulates Variables before Compile freezes them into a Model.
// Unlike core.Graph, a Builder is not safe for concurrent use: models are
// assembled once, single-threaded, by the equation-compilation front end
// (an external collaborator), then shared read-only across runs.
//
// Declaration is two-phase: Declare* reserves an ID and its Kind; Set*
// attaches the equation and dependency IDs. Splitting them this way lets a
// flow and the stock it feeds reference each other — a flow's equation
// commonly reads the very stock it is declared as an inflow/outflow of,
// which a single-pass "declare and wire in one call" API cannot express.
type Builder struct {
	vars      []*Variable
	indexByID map[string]int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{indexByID: make(map[string]int)}
}

func (b *Builder) declare(id string, kind Kind) (int, error) {
	if id == "" {
		return 0, ErrEmptyVariableID
	}
	if _, exists := b.indexByID[id]; exists {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateVariableID, id)
	}
	v := &Variable{Index: len(b.vars), ID: id, Kind: kind}
	b.vars = append(b.vars, v)
	b.indexByID[id] = v.Index
	return v.Index, nil
}

// DeclareAux reserves id as an auxiliary variable. Call SetEquation before
// Compile.
func (b *Builder) DeclareAux(id string) (int, error) { return b.declare(id, KindAux) }

// DeclareFlow reserves id as a flow variable. Call SetEquation before
// Compile.
func (b *Builder) DeclareFlow(id string) (int, error) { return b.declare(id, KindFlow) }

// DeclareStock reserves id as a stock variable. Call SetInitial and
// SetFlows before Compile.
func (b *Builder) DeclareStock(id string) (int, error) { return b.declare(id, KindStock) }

func (b *Builder) variable(id string) (*Variable, error) {
	idx, ok := b.indexByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrVariableNotFound, id)
	}
	return b.vars[idx], nil
}

// SetEquation attaches eq to a previously declared Flow or Auxiliary,
// reading the variables named in inputIDs in that order.
func (b *Builder) SetEquation(id string, eq EquationFunc, inputIDs ...string) error {
	if eq == nil {
		return ErrNilEquation
	}
	v, err := b.variable(id)
	if err != nil {
		return err
	}
	inputs, err := b.resolveAll(inputIDs)
	if err != nil {
		return err
	}
	v.Equation = eq
	v.Inputs = inputs
	return nil
}

// SetInitial attaches a Stock's t=0 equation, reading the variables named
// in inputIDs in that order.
func (b *Builder) SetInitial(id string, eq EquationFunc, inputIDs ...string) error {
	if eq == nil {
		return ErrNilInitialEquation
	}
	v, err := b.variable(id)
	if err != nil {
		return err
	}
	inputs, err := b.resolveAll(inputIDs)
	if err != nil {
		return err
	}
	v.InitialEquation = eq
	v.InitialInputs = inputs
	return nil
}

// SetFlows attaches a Stock's inflow and outflow lists; every id in both
// must already have been declared with DeclareFlow.
func (b *Builder) SetFlows(id string, inflowIDs, outflowIDs []string, nonNegative bool) error {
	v, err := b.variable(id)
	if err != nil {
		return err
	}
	if v.Inflows, err = b.resolveFlows(inflowIDs); err != nil {
		return err
	}
	if v.Outflows, err = b.resolveFlows(outflowIDs); err != nil {
		return err
	}
	v.NonNegative = nonNegative
	return nil
}

// AddAux is a convenience wrapper for the common case where id has no
// forward references to declare: DeclareAux followed by SetEquation.
func (b *Builder) AddAux(id string, eq EquationFunc, inputIDs ...string) (int, error) {
	idx, err := b.DeclareAux(id)
	if err != nil {
		return 0, err
	}
	if err := b.SetEquation(id, eq, inputIDs...); err != nil {
		return 0, err
	}
	return idx, nil
}

// AddFlow is a convenience wrapper for the common case where id has no
// forward references to declare: DeclareFlow followed by SetEquation.
func (b *Builder) AddFlow(id string, eq EquationFunc, inputIDs ...string) (int, error) {
	idx, err := b.DeclareFlow(id)
	if err != nil {
		return 0, err
	}
	if err := b.SetEquation(id, eq, inputIDs...); err != nil {
		return 0, err
	}
	return idx, nil
}

// AddStock is a convenience wrapper for the common case where id's
// inflows/outflows and initial-equation inputs are all already declared:
// DeclareStock followed by SetInitial and SetFlows.
func (b *Builder) AddStock(id string, initEq EquationFunc, initInputIDs []string, inflowIDs, outflowIDs []string, nonNegative bool) (int, error) {
	idx, err := b.DeclareStock(id)
	if err != nil {
		return 0, err
	}
	if err := b.SetInitial(id, initEq, initInputIDs...); err != nil {
		return 0, err
	}
	if err := b.SetFlows(id, inflowIDs, outflowIDs, nonNegative); err != nil {
		return 0, err
	}
	return idx, nil
}

func (b *Builder) resolveAll(ids []string) ([]int, error) {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		idx, ok := b.indexByID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrVariableNotFound, id)
		}
		out = append(out, idx)
	}
	return out, nil
}

func (b *Builder) resolveFlows(ids []string) ([]int, error) {
	out, err := b.resolveAll(ids)
	if err != nil {
		return nil, err
	}
	for _, idx := range out {
		if b.vars[idx].Kind != KindFlow {
			return nil, fmt.Errorf("%w: %q", ErrNotAFlow, b.vars[idx].ID)
		}
	}
	return out, nil
}

// DependsOn tags the structural polarity of the dependency edge from
// sourceID to targetID that targetID's Inputs already imply; it adds no
// edge of its own. Most
// dependency edges need no explicit tag and default to PolarityUnknown at
// Compile; use DependsOn only when a compiled equation's monotone form has
// already been analyzed and a polarity tag is available (an external
// collaborator's job — see SPEC_FULL.md §1).
func (b *Builder) DependsOn(sourceID, targetID string, polarity Polarity) error {
	source, ok := b.indexByID[sourceID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrVariableNotFound, sourceID)
	}
	tv, err := b.variable(targetID)
	if err != nil {
		return err
	}
	for i, in := range tv.Inputs {
		if in == source {
			tv.polarityOverride(i, polarity)
			return nil
		}
	}
	return fmt.Errorf("model: %q does not read %q, cannot tag polarity", targetID, sourceID)
}

// polarityOverride is set lazily: Variable carries no per-input polarity
// slice by default (most inputs are PolarityUnknown), so the override is
// recorded on a side map populated only when DependsOn is called.
func (v *Variable) polarityOverride(inputPos int, polarity Polarity) {
	if v.inputPolarity == nil {
		v.inputPolarity = make(map[int]Polarity, 1)
	}
	v.inputPolarity[inputPos] = polarity
}
