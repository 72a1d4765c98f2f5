package loopscore_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simlin/ltm/linkscore"
	"github.com/simlin/ltm/loopdiscovery"
	"github.com/simlin/ltm/loopscore"
)

func rec(magnitude, sign float64) linkscore.Record {
	return linkscore.Record{Magnitude: magnitude, Sign: sign}
}

func TestRaw_ProductOfSignedScores(t *testing.T) {
	links := []linkscore.Record{rec(2, 1), rec(3, -1)}
	loops := []loopdiscovery.Loop{{Edges: []int{0, 1}}}

	raw := loopscore.Raw(loops, links)
	assert.InDelta(t, -6.0, raw[0], 1e-9)
}

func TestRaw_ZeroFactorYieldsZero(t *testing.T) {
	links := []linkscore.Record{rec(0, 0), rec(5, 1)}
	loops := []loopdiscovery.Loop{{Edges: []int{0, 1}}}

	raw := loopscore.Raw(loops, links)
	assert.Equal(t, 0.0, raw[0])
}

func TestRaw_NaNFactorYieldsNaN(t *testing.T) {
	links := []linkscore.Record{rec(math.NaN(), 1), rec(5, 1)}
	loops := []loopdiscovery.Loop{{Edges: []int{0, 1}}}

	raw := loopscore.Raw(loops, links)
	assert.True(t, math.IsNaN(raw[0]))
}

func TestRelative_NormalizesWithinPartition(t *testing.T) {
	raw := []float64{3, -1, 0}
	relative := loopscore.Relative(raw)
	// denominator = 3+1+0 = 4
	assert.InDelta(t, 0.75, relative[0], 1e-9)
	assert.InDelta(t, -0.25, relative[1], 1e-9)
	assert.Equal(t, 0.0, relative[2])
}

func TestRelative_ZeroDenominatorIsUndefinedZero(t *testing.T) {
	relative := loopscore.Relative([]float64{0, 0, 0})
	assert.Equal(t, []float64{0, 0, 0}, relative)
}

func TestRelative_NaNExcludedFromDenominatorButSurfacedOnOwnLoop(t *testing.T) {
	raw := []float64{math.NaN(), 2, -2}
	relative := loopscore.Relative(raw)
	assert.True(t, math.IsNaN(relative[0]))
	assert.InDelta(t, 0.5, relative[1], 1e-9)
	assert.InDelta(t, -0.5, relative[2], 1e-9)
}

func TestRelative_StaysWithinUnitRange(t *testing.T) {
	raw := []float64{7, -3, 1, 0.0001}
	relative := loopscore.Relative(raw)
	for _, r := range relative {
		assert.LessOrEqual(t, r, 1.0)
		assert.GreaterOrEqual(t, r, -1.0)
	}
}

func TestRuntime_Classification(t *testing.T) {
	assert.Equal(t, loopscore.PolarityReinforcing, loopscore.Runtime([]float64{1, 2, 3}))
	assert.Equal(t, loopscore.PolarityBalancing, loopscore.Runtime([]float64{-1, -2, -3}))
	assert.Equal(t, loopscore.PolarityMixed, loopscore.Runtime([]float64{1, -2, 3}))
	assert.Equal(t, loopscore.PolarityMixed, loopscore.Runtime([]float64{1, 0, 3}))
	assert.Equal(t, loopscore.PolarityMixed, loopscore.Runtime([]float64{1, math.NaN(), 3}))
	assert.Equal(t, "R", loopscore.PolarityReinforcing.String())
	assert.Equal(t, "B", loopscore.PolarityBalancing.String())
	assert.Equal(t, "U", loopscore.PolarityMixed.String())
}

func TestDominant_MinimalSetCrossingHalf(t *testing.T) {
	// three loops with |relative| = 0.5, 0.3, 0.2 -> the single 0.5 loop
	// alone already reaches the threshold and is the minimal dominant set.
	relative := []float64{0.5, 0.3, 0.2}
	dominant := loopscore.Dominant(relative)
	assert.Equal(t, []int{0}, dominant)
}

func TestDominant_RequiresTwoLoops(t *testing.T) {
	relative := []float64{0.3, 0.3, 0.3, -0.1}
	dominant := loopscore.Dominant(relative)
	require := assert.New(t)
	require.Len(dominant, 2)
	sum := 0.0
	for _, idx := range dominant {
		sum += math.Abs(relative[idx])
	}
	require.GreaterOrEqual(sum, 0.5)
}

func TestDominant_EmptyAtEquilibrium(t *testing.T) {
	dominant := loopscore.Dominant([]float64{0, 0, 0})
	assert.Empty(t, dominant)
}
