package model

import "errors"

// Sentinel errors for model construction and lookup.
var (
	// ErrEmptyVariableID indicates a Variable was declared with an empty ID.
	ErrEmptyVariableID = errors.New("model: variable ID is empty")

	// ErrDuplicateVariableID indicates two variables were declared with the same ID.
	ErrDuplicateVariableID = errors.New("model: duplicate variable ID")

	// ErrVariableNotFound indicates a reference to a variable ID that was never declared.
	ErrVariableNotFound = errors.New("model: variable not found")

	// ErrNilEquation indicates a Flow or Auxiliary was declared without an equation.
	ErrNilEquation = errors.New("model: equation is nil")

	// ErrNilInitialEquation indicates a Stock was declared without an initial-value equation.
	ErrNilInitialEquation = errors.New("model: stock initial equation is nil")

	// ErrNotAFlow indicates a Stock's inflow/outflow list referenced a variable that is not a Flow.
	ErrNotAFlow = errors.New("model: inflow/outflow target is not a flow")

	// ErrDanglingEdge indicates an edge references a variable index outside the arena.
	ErrDanglingEdge = errors.New("model: edge references an unknown variable")
)

// Kind tags the role a Variable plays in the stock-and-flow structure.
type Kind int

const (
	// KindStock is an accumulator whose value changes only via its inflows minus outflows.
	KindStock Kind = iota
	// KindFlow is a rate variable computed each step, feeding one or two stocks.
	KindFlow
	// KindAux is a variable computed each step from other variables.
	KindAux
)

// String renders Kind for logging and diagnostics.
func (k Kind) String() string {
	switch k {
	case KindStock:
		return "stock"
	case KindFlow:
		return "flow"
	case KindAux:
		return "aux"
	default:
		return "unknown"
	}
}

// Polarity is the structural (equation-derived) sign of a dependency edge,
// fixed at compile time and never replaced by a runtime sign (§4.2).
type Polarity int

const (
	// PolarityUnknown marks an edge whose input appears with mixed sign or
	// under a non-monotone function of other inputs (Richardson 1995).
	PolarityUnknown Polarity = iota
	// PolarityPositive marks a monotonically increasing dependency.
	PolarityPositive
	// PolarityNegative marks a monotonically decreasing dependency.
	PolarityNegative
)

// String renders Polarity using the conventional +/-/? notation.
func (p Polarity) String() string {
	switch p {
	case PolarityPositive:
		return "+"
	case PolarityNegative:
		return "-"
	default:
		return "?"
	}
}

// EquationFunc is an opaque pure function of a variable's declared inputs,
// evaluated in the order Variable.Inputs lists them. It must never mutate
// shared state; the partial-change evaluator (package evaluator) is
// agnostic to how it is implemented and calls it many times per step with
// different input combinations.
//
// A non-nil error (division by zero, domain error, overflow) is treated by
// the evaluator as an evaluation failure: the caller records a sentinel
// NaN score for the edge at that step rather than propagating the error,
// per the Equation-evaluation failure taxonomy.
type EquationFunc func(inputs []float64) (float64, error)

// Variable is one node of the dependency graph: a stock, flow, or
// auxiliary, identified by Index (its position in Model.Variables, stable
// for the Model's lifetime) and by a human-readable ID.
type Variable struct {
	// Index is this variable's position in the owning Model's arena.
	Index int

	// ID uniquely identifies this variable. For arrayed variables this is
	// expected to already encode the subscript tuple (e.g. "sales[east]"):
	// each flattened cell is a distinct Variable.
	ID string

	// Kind is Stock, Flow, or Auxiliary.
	Kind Kind

	// Equation computes this variable's value from Inputs. Required for
	// Flow and Auxiliary; nil for Stock (stocks integrate their flows
	// rather than being recomputed from an equation each step).
	Equation EquationFunc

	// Inputs lists the variable indices Equation reads from, in the order
	// Equation expects them.
	Inputs []int

	// InitialEquation computes a Stock's value at t=0. Required for Stock,
	// nil otherwise.
	InitialEquation EquationFunc

	// InitialInputs lists the variable indices InitialEquation reads from.
	InitialInputs []int

	// Inflows lists the variable indices of Flow variables that add to this
	// Stock. Non-empty only for Stock.
	Inflows []int

	// Outflows lists the variable indices of Flow variables that subtract
	// from this Stock. Non-empty only for Stock.
	Outflows []int

	// NonNegative, if true, clamps a Stock's integrated value at zero. Only
	// meaningful for Stock.
	NonNegative bool

	// inputPolarity holds structural-polarity overrides keyed by position
	// in Inputs, set via Builder.DependsOn. Absent entries default to
	// PolarityUnknown when Compile builds edges.
	inputPolarity map[int]Polarity
}

// Edge is a directed dependency from Source to Target: Target's equation
// reads Source, either directly (an ordinary dependency) or implicitly (a
// flow feeding a stock it is attached to).
type Edge struct {
	// Index is this edge's position in the owning Model's arena.
	Index int

	// Source is the variable index this edge reads from.
	Source int

	// Target is the variable index this edge feeds into.
	Target int

	// Polarity is the structural polarity, fixed at compile time.
	Polarity Polarity

	// FlowToStock marks an implicit flow-into-stock edge, scored by the
	// flow-to-stock formula (§4.2) rather than the instantaneous formula.
	// When true, Outflow distinguishes an outflow (subtracts) from an
	// inflow (adds).
	FlowToStock bool

	// Outflow is only meaningful when FlowToStock is true: true if Source
	// is one of Target's outflows, false if it is one of Target's inflows.
	Outflow bool
}
