package evaluator_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simlin/ltm/evaluator"
	"github.com/simlin/ltm/model"
)

func buildAdditive(t *testing.T) *model.Model {
	t.Helper()
	b := model.NewBuilder()
	_, err := b.AddAux("x", func(in []float64) (float64, error) { return 3, nil })
	require.NoError(t, err)
	_, err = b.AddAux("y", func(in []float64) (float64, error) { return 5, nil })
	require.NoError(t, err)
	_, err = b.AddAux("z", func(in []float64) (float64, error) {
		return in[0] + in[1], nil
	}, "x", "y")
	require.NoError(t, err)
	m, err := b.Compile()
	require.NoError(t, err)
	return m
}

func TestEvaluate_AdditiveSumsToTotalDelta(t *testing.T) {
	m := buildAdditive(t)
	xIdx, _ := m.VariableByID("x")
	yIdx, _ := m.VariableByID("y")
	zIdx, _ := m.VariableByID("z")

	prev := make([]float64, m.NumVariables())
	prev[xIdx], prev[yIdx] = 3, 5
	prev[zIdx] = 8

	curr := make([]float64, m.NumVariables())
	curr[xIdx], curr[yIdx] = 7, 9
	curr[zIdx] = 16

	partials, failures := evaluator.Evaluate(m, prev, curr)
	assert.Empty(t, failures)

	var sum float64
	for _, e := range m.IncomingEdges(zIdx) {
		sum += partials[e]
	}
	assert.InDelta(t, curr[zIdx]-prev[zIdx], sum, 1e-9) // I1: additive equations sum exactly
}

func TestEvaluate_EquationErrorProducesNaNAndFailure(t *testing.T) {
	b := model.NewBuilder()
	_, err := b.AddAux("x", func(in []float64) (float64, error) { return 1, nil })
	require.NoError(t, err)
	_, err = b.AddAux("z", func(in []float64) (float64, error) {
		if in[0] == 0 {
			return 0, errors.New("division by zero")
		}
		return 1 / in[0], nil
	}, "x")
	require.NoError(t, err)
	m, err := b.Compile()
	require.NoError(t, err)

	xIdx, _ := m.VariableByID("x")
	zIdx, _ := m.VariableByID("z")
	prev := make([]float64, m.NumVariables())
	prev[xIdx] = 0
	curr := make([]float64, m.NumVariables())
	curr[xIdx] = 0 // still zero this step -> re-eval with curr[x]=0 fails

	partials, failures := evaluator.Evaluate(m, prev, curr)
	require.Len(t, failures, 1)
	assert.Equal(t, "z", failures[0].VariableID)

	edgeIdx := m.IncomingEdges(zIdx)[0]
	assert.True(t, math.IsNaN(partials[edgeIdx]))
}

func TestEvaluate_SkipsFlowToStockAndStockTargets(t *testing.T) {
	b := model.NewBuilder()
	_, err := b.AddFlow("f", func(in []float64) (float64, error) { return 2, nil })
	require.NoError(t, err)
	_, err = b.AddStock("s", func(in []float64) (float64, error) { return 0, nil }, nil, []string{"f"}, nil, false)
	require.NoError(t, err)
	m, err := b.Compile()
	require.NoError(t, err)

	prev := make([]float64, m.NumVariables())
	curr := make([]float64, m.NumVariables())
	partials, failures := evaluator.Evaluate(m, prev, curr)
	assert.Empty(t, failures)
	assert.Equal(t, make([]float64, m.NumEdges()), partials) // nothing to re-evaluate
}
