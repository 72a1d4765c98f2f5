package partition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simlin/ltm/model"
	"github.com/simlin/ltm/partition"
)

func id(m *model.Model, s string) int {
	i, _ := m.VariableByID(s)
	return i
}

func TestCompute_SingleStockBalancingLoop(t *testing.T) {
	b := model.NewBuilder()
	_, err := b.AddAux("target", func(in []float64) (float64, error) { return 10, nil })
	require.NoError(t, err)
	_, err = b.DeclareStock("s")
	require.NoError(t, err)
	_, err = b.AddFlow("adjust", func(in []float64) (float64, error) { return (in[0] - in[1]) / 5, nil }, "target", "s")
	require.NoError(t, err)
	err = b.SetInitial("s", func(in []float64) (float64, error) { return 0, nil })
	require.NoError(t, err)
	err = b.SetFlows("s", []string{"adjust"}, nil, false)
	require.NoError(t, err)
	m, err := b.Compile()
	require.NoError(t, err)

	parts := partition.Compute(m)
	require.Len(t, parts, 1)
	assert.ElementsMatch(t, []int{id(m, "s"), id(m, "adjust")}, parts[0].Variables)
	assert.True(t, parts[0].Contains(id(m, "s")))
	assert.False(t, parts[0].Contains(id(m, "target")))
}

func TestCompute_AcyclicGraphHasNoPartitions(t *testing.T) {
	b := model.NewBuilder()
	_, err := b.AddAux("a", func(in []float64) (float64, error) { return 1, nil })
	require.NoError(t, err)
	_, err = b.AddAux("b", func(in []float64) (float64, error) { return in[0], nil }, "a")
	require.NoError(t, err)
	m, err := b.Compile()
	require.NoError(t, err)

	assert.Empty(t, partition.Compute(m))
}

func TestCompute_CycleWithoutStockIsDiscarded(t *testing.T) {
	b := model.NewBuilder()
	_, err := b.DeclareAux("a")
	require.NoError(t, err)
	_, err = b.AddAux("b", func(in []float64) (float64, error) { return in[0], nil }, "a")
	require.NoError(t, err)
	err = b.SetEquation("a", func(in []float64) (float64, error) { return in[0], nil }, "b")
	require.NoError(t, err)
	m, err := b.Compile()
	require.NoError(t, err)

	assert.Empty(t, partition.Compute(m))
}

func TestCompute_TwoIndependentPartitions(t *testing.T) {
	b := model.NewBuilder()
	// Loop 1
	_, err := b.DeclareStock("s1")
	require.NoError(t, err)
	_, err = b.AddFlow("f1", func(in []float64) (float64, error) { return in[0], nil }, "s1")
	require.NoError(t, err)
	err = b.SetInitial("s1", func(in []float64) (float64, error) { return 0, nil })
	require.NoError(t, err)
	err = b.SetFlows("s1", []string{"f1"}, nil, false)
	require.NoError(t, err)
	// Loop 2, disjoint
	_, err = b.DeclareStock("s2")
	require.NoError(t, err)
	_, err = b.AddFlow("f2", func(in []float64) (float64, error) { return in[0], nil }, "s2")
	require.NoError(t, err)
	err = b.SetInitial("s2", func(in []float64) (float64, error) { return 0, nil })
	require.NoError(t, err)
	err = b.SetFlows("s2", []string{"f2"}, nil, false)
	require.NoError(t, err)
	m, err := b.Compile()
	require.NoError(t, err)

	parts := partition.Compute(m)
	require.Len(t, parts, 2)
}
