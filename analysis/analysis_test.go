package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simlin/ltm/analysis"
	"github.com/simlin/ltm/linkscore"
	"github.com/simlin/ltm/loopdiscovery"
	"github.com/simlin/ltm/model"
	"github.com/simlin/ltm/partition"
)

func buildTaggedSingleLoopModel(t *testing.T, adjustPolarity model.Polarity) *model.Model {
	t.Helper()
	b := model.NewBuilder()
	_, err := b.DeclareStock("s")
	require.NoError(t, err)
	_, err = b.AddFlow("adjust", func(in []float64) (float64, error) { return -in[0] / 5, nil }, "s")
	require.NoError(t, err)
	require.NoError(t, b.DependsOn("s", "adjust", adjustPolarity))
	require.NoError(t, b.SetInitial("s", func(in []float64) (float64, error) { return 0, nil }))
	require.NoError(t, b.SetFlows("s", nil, []string{"adjust"}, false))
	m, err := b.Compile()
	require.NoError(t, err)
	return m
}

func buildSingleLoopModel(t *testing.T) *model.Model {
	t.Helper()
	b := model.NewBuilder()
	_, err := b.DeclareStock("s")
	require.NoError(t, err)
	_, err = b.AddFlow("adjust", func(in []float64) (float64, error) { return -in[0] / 5, nil }, "s")
	require.NoError(t, err)
	require.NoError(t, b.SetInitial("s", func(in []float64) (float64, error) { return 0, nil }))
	require.NoError(t, b.SetFlows("s", nil, []string{"adjust"}, false))
	m, err := b.Compile()
	require.NoError(t, err)
	return m
}

func TestAnalysis_RecordAndLookupRoundTrip(t *testing.T) {
	m := buildSingleLoopModel(t)
	parts := partition.Compute(m)
	require.Len(t, parts, 1)
	pid := parts[0].ID

	a := analysis.New(m, parts)
	assert.Equal(t, 0, a.Steps())

	links := make([]linkscore.Record, m.NumEdges())
	links[0] = linkscore.Record{Magnitude: 0.2, Sign: -1}
	loops := []loopdiscovery.Loop{{ID: 0, PartitionID: pid, Variables: []int{0, 1}, Edges: []int{0}}}

	a.RecordStep(analysis.StepSnapshot{
		Links: links,
		Partitions: map[int]analysis.PartitionSnapshot{
			pid: {
				Loops:       loops,
				Raw:         []float64{-0.2},
				Relative:    []float64{-1.0},
				Dominant:    []int{0},
				Denominator: 0.2,
			},
		},
	})

	assert.Equal(t, 1, a.Steps())

	rec, ok := a.LinkScore(0, 0)
	require.True(t, ok)
	assert.Equal(t, 0.2, rec.Magnitude)

	raw, ok := a.LoopRawScore(0, pid, 0)
	require.True(t, ok)
	assert.Equal(t, -0.2, raw)

	relative, ok := a.LoopRelativeScore(0, pid, 0)
	require.True(t, ok)
	assert.Equal(t, -1.0, relative)

	denom, ok := a.NormalizationDenominator(0, pid)
	require.True(t, ok)
	assert.Equal(t, 0.2, denom)

	dominant, ok := a.DominantSet(0, pid)
	require.True(t, ok)
	assert.Equal(t, []int{0}, dominant)
}

func TestAnalysis_OutOfRangeLookupsReportNotOK(t *testing.T) {
	m := buildSingleLoopModel(t)
	parts := partition.Compute(m)
	a := analysis.New(m, parts)

	_, ok := a.LinkScore(0, 0)
	assert.False(t, ok)

	_, ok = a.LoopRawScore(5, 0, 0)
	assert.False(t, ok)
}

func TestAnalysis_RuntimePolarityFoldsHistory(t *testing.T) {
	m := buildSingleLoopModel(t)
	parts := partition.Compute(m)
	pid := parts[0].ID
	a := analysis.New(m, parts)

	for _, raw := range []float64{-1, -2, -3} {
		a.RecordStep(analysis.StepSnapshot{
			Links: make([]linkscore.Record, m.NumEdges()),
			Partitions: map[int]analysis.PartitionSnapshot{
				pid: {Raw: []float64{raw}, Relative: []float64{-1}},
			},
		})
	}

	assert.Equal(t, "B", a.RuntimePolarity(pid, 0, 0, 3).String())
}

func TestAnalysis_StructuralPolarityIsFixedNotRuntime(t *testing.T) {
	b := model.NewBuilder()
	_, err := b.AddAux("a", func(in []float64) (float64, error) { return 1, nil })
	require.NoError(t, err)
	_, err = b.AddAux("b", func(in []float64) (float64, error) { return in[0], nil }, "a")
	require.NoError(t, err)
	require.NoError(t, b.DependsOn("a", "b", model.PolarityPositive))
	m, err := b.Compile()
	require.NoError(t, err)

	a := analysis.New(m, nil)
	bIdx, _ := m.VariableByID("b")
	edgeIdx := m.IncomingEdges(bIdx)[0]

	p, ok := a.StructuralPolarity(edgeIdx)
	require.True(t, ok)
	assert.Equal(t, model.PolarityPositive, p)
}

func TestAnalysis_LoopStructuralPolarityEvenOddNegativeCount(t *testing.T) {
	cases := []struct {
		name           string
		adjustPolarity model.Polarity
		want           model.Polarity
	}{
		// s->adjust negative, adjust->s negative (outflow): two negatives, even.
		{"two negative edges is positive", model.PolarityNegative, model.PolarityPositive},
		// s->adjust positive, adjust->s negative (outflow): one negative, odd.
		{"one negative edge is negative", model.PolarityPositive, model.PolarityNegative},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := buildTaggedSingleLoopModel(t, c.adjustPolarity)
			parts := partition.Compute(m)
			require.Len(t, parts, 1)

			a := analysis.New(m, parts)
			loops, ok := loopdiscovery.DiscoverExhaustive(m, parts[0], 10)
			require.True(t, ok)
			require.Len(t, loops, 1)

			assert.Equal(t, c.want, a.LoopStructuralPolarity(loops[0]))
		})
	}
}

func TestAnalysis_LoopStructuralPolarityUnknownIfAnyEdgeUnknown(t *testing.T) {
	m := buildSingleLoopModel(t)
	parts := partition.Compute(m)
	require.Len(t, parts, 1)

	a := analysis.New(m, parts)
	loops, ok := loopdiscovery.DiscoverExhaustive(m, parts[0], 10)
	require.True(t, ok)
	require.Len(t, loops, 1)

	assert.Equal(t, model.PolarityUnknown, a.LoopStructuralPolarity(loops[0]))
}
