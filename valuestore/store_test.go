package valuestore_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simlin/ltm/valuestore"
)

func TestStore_SealAndRead(t *testing.T) {
	s := valuestore.New(2, 1, valuestore.WithCapacityHint(4))

	s.Seal([]float64{1, 10}, []float64{0})
	s.Seal([]float64{2, 12}, []float64{2})
	s.Seal([]float64{4, 16}, []float64{4})

	assert.Equal(t, 3, s.Steps())
	assert.Equal(t, 4.0, s.Value(2, 0))
	assert.Equal(t, 16.0, s.Value(2, 1))
	assert.Equal(t, 4.0, s.Partial(2, 0))

	assert.True(t, math.IsNaN(s.Delta(0, 0)))
	assert.Equal(t, 1.0, s.Delta(1, 0)) // 2-1
	assert.Equal(t, 2.0, s.Delta(2, 0)) // 4-2

	assert.True(t, math.IsNaN(s.SecondDelta(0, 0)))
	assert.True(t, math.IsNaN(s.SecondDelta(1, 0)))
	assert.Equal(t, 1.0, s.SecondDelta(2, 0)) // Delta(2)-Delta(1) = 2-1
}

func TestStore_SealCopiesBackingArray(t *testing.T) {
	s := valuestore.New(1, 1)
	buf := []float64{5}
	pbuf := []float64{1}
	s.Seal(buf, pbuf)
	buf[0] = 999
	pbuf[0] = 999
	assert.Equal(t, 5.0, s.Value(0, 0))
	assert.Equal(t, 1.0, s.Partial(0, 0))
}
