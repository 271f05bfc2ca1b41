package randengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/utils/randengine"
)

func TestWeightedIndex(t *testing.T) {
	e := randengine.New(42)
	counts := [3]int{}
	for range 10000 {
		i := e.WeightedIndex([]int{1, 2, 7})
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, 3)
		counts[i]++
	}
	// 频率大致与权重成正比
	assert.InDelta(t, 1000, counts[0], 200)
	assert.InDelta(t, 2000, counts[1], 300)
	assert.InDelta(t, 7000, counts[2], 400)
}

func TestWeightedIndexSingle(t *testing.T) {
	e := randengine.New(1)
	for range 100 {
		assert.Equal(t, 0, e.WeightedIndex([]int{5}))
	}
}

func TestExponential(t *testing.T) {
	e := randengine.New(7)
	sum := 0.0
	n := 20000
	for range n {
		x := e.Exponential(2)
		assert.GreaterOrEqual(t, x, 0.0)
		sum += x
	}
	assert.InDelta(t, 2, sum/float64(n), 0.1)
}

func TestUniformRange(t *testing.T) {
	e := randengine.New(3)
	for range 1000 {
		x := e.UniformRange(14.9, 18.3)
		assert.GreaterOrEqual(t, x, 14.9)
		assert.Less(t, x, 18.3)
	}
}

func TestReproducibility(t *testing.T) {
	a := randengine.New(99)
	b := randengine.New(99)
	for range 100 {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}
