package simulation

import (
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"

	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/clock"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/entity/generator"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/entity/segment"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/entity/vehicle"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/utils/randengine"
)

// NewFromConfig 按场景配置组装模拟器
// 功能：创建时钟与随机数引擎，依次构造路段与生成器
// 参数：c-场景配置（已经过config.Parse校验与缺省填充）
// 返回：就绪的模拟器与可能的构造错误
func NewFromConfig(c config.Config) (*Simulation, error) {
	engine := randengine.New(c.Control.Seed)
	sim := New(clock.New(c.Control.Step), engine)
	for i, sc := range c.Segments {
		seg, err := buildSegment(sc)
		if err != nil {
			return nil, fmt.Errorf("simulation: segment %d: %w", i, err)
		}
		sim.AddSegment(seg)
	}
	for i, gc := range c.Generators {
		templates := lo.Map(gc.Templates, func(t config.VehicleTemplate, _ int) vehicle.Template {
			return vehicle.Template{
				Weight:   t.Weight,
				Path:     t.Path,
				Length:   t.Length,
				MinGap:   t.MinGap,
				Headway:  t.Headway,
				MaxV:     t.MaxV,
				MaxA:     t.MaxA,
				MaxB:     t.MaxB,
				InitialV: t.InitialV,
			}
		})
		gen, err := generator.New(templates, gc.Rate, engine)
		if err != nil {
			return nil, fmt.Errorf("simulation: generator %d: %w", i, err)
		}
		sim.AddGenerator(gen)
	}
	return sim, nil
}

// buildSegment 按配置构造单个路段
func buildSegment(sc config.Segment) (*segment.Segment, error) {
	points := lo.Map(sc.Points, func(p []float64, _ int) geometry.Point {
		return geometry.Point{X: p[0], Y: p[1]}
	})
	switch sc.Type {
	case "", "polyline":
		return segment.NewPolylineSegment(points, sc.Lanes)
	case "quadratic":
		if len(points) != 3 {
			return nil, fmt.Errorf("quadratic curve needs exactly 3 control points, got %d", len(points))
		}
		return segment.NewQuadraticSegment(points[0], points[1], points[2], sc.Lanes)
	case "cubic":
		if len(points) != 4 {
			return nil, fmt.Errorf("cubic curve needs exactly 4 control points, got %d", len(points))
		}
		return segment.NewCubicSegment(points[0], points[1], points[2], points[3], sc.Lanes)
	default:
		return nil, fmt.Errorf("unknown curve type %q", sc.Type)
	}
}
