package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simlin/ltm/model"
)

func constEq(v float64) model.EquationFunc {
	return func(inputs []float64) (float64, error) { return v, nil }
}

func sumEq(inputs []float64) (float64, error) {
	total := 0.0
	for _, v := range inputs {
		total += v
	}
	return total, nil
}

func TestBuilder_SimpleStockFlow(t *testing.T) {
	b := model.NewBuilder()

	_, err := b.AddAux("target", constEq(10))
	require.NoError(t, err)

	_, err = b.DeclareStock("s")
	require.NoError(t, err)

	_, err = b.AddFlow("adjust", func(in []float64) (float64, error) {
		return (in[0] - in[1]) / 5, nil
	}, "target", "s")
	require.NoError(t, err)

	err = b.SetInitial("s", constEq(0))
	require.NoError(t, err)
	err = b.SetFlows("s", []string{"adjust"}, nil, false)
	require.NoError(t, err)

	m, err := b.Compile()
	require.NoError(t, err)

	assert.Equal(t, 3, m.NumVariables())
	// two ordinary edges (target -> adjust, s -> adjust) and one flow edge
	// (adjust -> s): adjust reading "s" is an ordinary stock-to-flow
	// dependency edge, distinct from the implicit flow-to-stock edge.
	sIdx, ok := m.VariableByID("s")
	require.True(t, ok)
	foundFlowToStock := false
	for _, ei := range m.IncomingEdges(sIdx) {
		e := m.Edge(ei)
		if e.FlowToStock {
			foundFlowToStock = true
			assert.False(t, e.Outflow)
		}
	}
	assert.True(t, foundFlowToStock)
}

func TestBuilder_DanglingEdgeIsGraphInconsistency(t *testing.T) {
	b := model.NewBuilder()
	_, err := b.AddStock("s", constEq(0), nil, []string{"missing-flow"}, nil, false)
	require.ErrorIs(t, err, model.ErrVariableNotFound) // resolveFlows fails at reference time, not at Compile

	m, err := b.Compile()
	require.NoError(t, err)
	sIdx, _ := m.VariableByID("s")
	assert.Empty(t, m.IncomingEdges(sIdx)) // the rejected reference leaves no edge behind
}

func TestBuilder_InflowMustBeAFlow(t *testing.T) {
	b := model.NewBuilder()
	_, err := b.AddAux("notAFlow", constEq(1))
	require.NoError(t, err)

	_, err = b.AddStock("s", constEq(0), nil, []string{"notAFlow"}, nil, false)
	require.ErrorIs(t, err, model.ErrNotAFlow)
}

func TestBuilder_DuplicateID(t *testing.T) {
	b := model.NewBuilder()
	_, err := b.AddAux("x", constEq(1))
	require.NoError(t, err)
	_, err = b.AddAux("x", constEq(2))
	require.ErrorIs(t, err, model.ErrDuplicateVariableID)
}

func TestBuilder_DependsOnOverridesPolarity(t *testing.T) {
	b := model.NewBuilder()
	_, err := b.AddAux("a", constEq(1))
	require.NoError(t, err)
	_, err = b.AddAux("b", sumEq, "a")
	require.NoError(t, err)
	require.NoError(t, b.DependsOn("a", "b", model.PolarityNegative))

	m, err := b.Compile()
	require.NoError(t, err)

	bIdx, _ := m.VariableByID("b")
	edges := m.IncomingEdges(bIdx)
	require.Len(t, edges, 1)
	assert.Equal(t, model.PolarityNegative, m.Edge(edges[0]).Polarity)
}

func TestModel_HashStableAcrossRebuilds(t *testing.T) {
	build := func() *model.Model {
		b := model.NewBuilder()
		_, _ = b.AddAux("a", constEq(1))
		_, _ = b.AddAux("b", sumEq, "a")
		m, err := b.Compile()
		require.NoError(t, err)
		return m
	}

	m1, m2 := build(), build()
	assert.Equal(t, m1.Hash(), m2.Hash())
}

func TestModel_CacheRoundTrip(t *testing.T) {
	b := model.NewBuilder()
	_, _ = b.AddAux("a", constEq(1))
	m, err := b.Compile()
	require.NoError(t, err)

	_, ok := m.CacheGet("loops")
	assert.False(t, ok)

	m.CacheSet("loops", []int{1, 2, 3})
	v, ok := m.CacheGet("loops")
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, v)
}
