package simulation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/simulation"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/utils/config"
)

func TestNewFromConfig(t *testing.T) {
	c, err := config.Parse([]byte(`
control:
  step: {start: 0, total: 600}
  seed: 1
segments:
  - points: [[0, 0], [100, 0]]
    lanes: 2
  - type: quadratic
    points: [[100, 0], [110, 10], [100, 20]]
  - type: cubic
    points: [[100, 20], [50, 30], [10, 10], [0, 0]]
generators:
  - rate: 30
    templates:
      - {path: [0, 1, 2], weight: 2}
      - {path: [0], v: 16.6}
`))
	require.NoError(t, err)

	sim, err := simulation.NewFromConfig(c)
	require.NoError(t, err)
	assert.Len(t, sim.Segments(), 3)
	assert.Equal(t, 2, sim.Segments()[0].LaneCount())
	assert.Equal(t, 1, sim.Segments()[1].LaneCount())
	assert.InDelta(t, 100, sim.Segments()[0].Length(), 1e-9)
	assert.Equal(t, 1.0/60, sim.Clock().DT)

	// 构造出的场景可直接推进
	sim.Run(60)
	assert.Equal(t, int32(60), sim.StepCount())
}

func TestNewFromConfigErrors(t *testing.T) {
	// 退化几何：控制点少于2个
	c, err := config.Parse([]byte(`
control:
  step: {start: 0, total: 1}
segments:
  - points: [[0, 0]]
`))
	require.NoError(t, err)
	_, err = simulation.NewFromConfig(c)
	assert.Error(t, err)

	// 贝塞尔控制点数不符
	c, err = config.Parse([]byte(`
control:
  step: {start: 0, total: 1}
segments:
  - type: quadratic
    points: [[0, 0], [1, 1]]
`))
	require.NoError(t, err)
	_, err = simulation.NewFromConfig(c)
	assert.Error(t, err)

	// 未知曲线类型
	c, err = config.Parse([]byte(`
control:
  step: {start: 0, total: 1}
segments:
  - type: spiral
    points: [[0, 0], [1, 1]]
`))
	require.NoError(t, err)
	_, err = simulation.NewFromConfig(c)
	assert.Error(t, err)

	// 非正到达率
	c, err = config.Parse([]byte(`
control:
  step: {start: 0, total: 1}
segments:
  - points: [[0, 0], [1, 0]]
generators:
  - rate: 0
    templates:
      - {path: [0]}
`))
	require.NoError(t, err)
	_, err = simulation.NewFromConfig(c)
	assert.Error(t, err)
}
