package output_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/clock"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/entity/segment"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/entity/vehicle"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/output"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/simulation"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/utils/randengine"
)

// newFinishedSim 构建一个含已完成行程车辆的小场景
// 说明：20米单车道路段，车辆以恒定10米/秒行驶，行程时间约2秒
func newFinishedSim(t *testing.T) *simulation.Simulation {
	t.Helper()
	clk := clock.New(config.ControlStep{Start: 0, Total: 600, Interval: 1.0 / 60})
	sim := simulation.New(clk, randengine.New(1))
	seg, err := segment.NewPolylineSegment([]geometry.Point{{X: 0, Y: 0}, {X: 20, Y: 0}}, 1)
	require.NoError(t, err)
	sim.AddSegment(seg)

	tmpl := vehicle.Template{
		Path:     []int{0},
		Length:   lo.ToPtr(4.0),
		MinGap:   lo.ToPtr(4.0),
		Headway:  lo.ToPtr(1.0),
		MaxV:     lo.ToPtr(10.0),
		MaxA:     lo.ToPtr(1.44),
		MaxB:     lo.ToPtr(4.61),
		InitialV: lo.ToPtr(10.0),
	}
	// 先后注入两辆车，保证各自无前车、以自由流通过
	sim.AddVehicle(vehicle.New(tmpl, sim.Engine()))
	sim.Run(180)
	sim.AddVehicle(vehicle.New(tmpl, sim.Engine()))
	sim.Run(180)
	return sim
}

func TestSummarize(t *testing.T) {
	sim := newFinishedSim(t)
	s := output.Summarize(sim)
	assert.Equal(t, 2, s.Vehicles)
	assert.Equal(t, 2, s.Departures)
	assert.Equal(t, 2, s.Arrivals)
	// 20米、10米/秒，行程时间约2秒（含步长量化误差）
	assert.InDelta(t, 2.0, s.MeanTravelTime, 0.1)
	assert.Less(t, s.StdTravelTime, 0.1)
}

func TestSummarizeEmpty(t *testing.T) {
	clk := clock.New(config.ControlStep{Start: 0, Total: 1, Interval: 1.0 / 60})
	sim := simulation.New(clk, randengine.New(1))
	s := output.Summarize(sim)
	assert.Equal(t, 0, s.Vehicles)
	assert.Zero(t, s.MeanTravelTime)
	assert.Zero(t, s.StdTravelTime)
}

func TestTravelTimes(t *testing.T) {
	sim := newFinishedSim(t)
	times := output.TravelTimes(sim)
	require.Len(t, times, 2)
	for _, tt := range times {
		assert.InDelta(t, 2.0, tt, 0.1)
	}
}

func TestWriteReport(t *testing.T) {
	sim := newFinishedSim(t)
	path := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, output.WriteReport(sim, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "<html"))
	assert.True(t, strings.Contains(string(data), "Histogram of Travel Times"))
}
