package segment

import (
	"fmt"
	"iter"
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/google/uuid"

	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/utils/container"
)

const (
	// 弧长反解二分的最大迭代次数，防止容差小于求积精度时死循环
	maxInvertIterations = 64
	// 采样路径使用的弧长容差（米）
	sampleTolerance = 0.01
)

// Segment 路段实体
// 功能：将一条参数曲线与车道数、在段车辆队列绑定为可通行的路段
// 说明：队列按进入时间排序（队首最早进入、位置最靠前），该顺序即跟车的
// 前车/后车顺序，与车道无关；队列只存车辆标识符，车辆本体由Simulation持有
type Segment struct {
	curve         Curve
	controlPoints []geometry.Point
	laneCount     int
	length        float64
	vehicles      *container.Queue[uuid.UUID]
}

// newSegment 组装路段
// 说明：几何合法性由各曲线构造函数负责，此处校验车道数
func newSegment(curve Curve, controlPoints []geometry.Point, laneCount int) (*Segment, error) {
	if laneCount < 1 {
		return nil, fmt.Errorf("segment: lane count must be positive, got %d", laneCount)
	}
	return &Segment{
		curve:         curve,
		controlPoints: controlPoints,
		laneCount:     laneCount,
		length:        curve.Length(),
		vehicles:      container.NewQueue[uuid.UUID](),
	}, nil
}

// NewPolylineSegment 创建折线路段
// 参数：points-控制点序列（至少2个），laneCount-车道数
// 返回：路段与可能的构造错误
func NewPolylineSegment(points []geometry.Point, laneCount int) (*Segment, error) {
	curve, err := NewPolyline(points)
	if err != nil {
		return nil, err
	}
	return newSegment(curve, points, laneCount)
}

// NewQuadraticSegment 创建二次贝塞尔路段
// 参数：start-起点，control-控制点，end-终点，laneCount-车道数
func NewQuadraticSegment(start, control, end geometry.Point, laneCount int) (*Segment, error) {
	curve, err := NewQuadraticBezier(start, control, end)
	if err != nil {
		return nil, err
	}
	return newSegment(curve, []geometry.Point{start, control, end}, laneCount)
}

// NewCubicSegment 创建三次贝塞尔路段
// 参数：start-起点，control1/control2-控制点，end-终点，laneCount-车道数
func NewCubicSegment(start, control1, control2, end geometry.Point, laneCount int) (*Segment, error) {
	curve, err := NewCubicBezier(start, control1, control2, end)
	if err != nil {
		return nil, err
	}
	return newSegment(curve, []geometry.Point{start, control1, control2, end}, laneCount)
}

// Length 获取路段总长度（米）
func (s *Segment) Length() float64 {
	return s.length
}

// LaneCount 获取车道数
func (s *Segment) LaneCount() int {
	return s.laneCount
}

// ControlPoints 获取控制点序列（供渲染等外部使用，调用方不得修改）
func (s *Segment) ControlPoints() []geometry.Point {
	return s.controlPoints
}

// Position 计算进度t处的坐标（t裁剪到[0,1]）
func (s *Segment) Position(t float64) geometry.Point {
	return s.curve.Position(t)
}

// Heading 计算进度t处的航向角（弧度，已展开）
func (s *Segment) Heading(t float64) float64 {
	return s.curve.Heading(t)
}

// InvertArcLength 弧长反解
// 功能：求进度t，使得从from到t的弧长与targetLength的偏差不超过tolerance
// 参数：from-起始进度，targetLength-目标弧长（米），tolerance-容差（米）
// 返回：满足条件的进度t
// 算法说明：
// 1. 若从from到1的最大可达弧长仍小于目标，目标不可达，直接返回1（曲线耗尽）
// 2. 否则在[from, 1]上二分：每次对中点做数值积分，与目标比较收缩区间
// 3. 积分值进入容差范围即终止；迭代次数设上限以防容差低于求积精度
func (s *Segment) InvertArcLength(from, targetLength, tolerance float64) float64 {
	from = clampT(from)
	if arcLength(s.curve, from, 1) < targetLength {
		return 1
	}
	lower, upper := from, 1.0
	mid := (lower + upper) / 2
	for range maxInvertIterations {
		integ := arcLength(s.curve, from, mid)
		if math.Abs(integ-targetLength) <= tolerance {
			break
		}
		if integ < targetLength {
			lower = mid
		} else {
			upper = mid
		}
		mid = (lower + upper) / 2
	}
	return mid
}

// SampledPath 按弧长近似等距采样路段
// 功能：生成至多resolution个沿曲线近似等距分布的坐标点序列
// 参数：resolution-采样点数（至少2）
// 返回：惰性、可重复遍历的点序列；首点为Position(0)，若反解提前到达
// 进度1则提前结束
func (s *Segment) SampledPath(resolution int) iter.Seq[geometry.Point] {
	return func(yield func(geometry.Point) bool) {
		if !yield(s.curve.Position(0)) {
			return
		}
		if resolution < 2 {
			return
		}
		target := s.length / float64(resolution-1)
		from := 0.0
		for range resolution - 1 {
			t := s.InvertArcLength(from, target, sampleTolerance)
			if !yield(s.curve.Position(t)) {
				return
			}
			if t >= 1 {
				break
			}
			from = t
		}
	}
}

// VehicleCount 获取在段车辆数
func (s *Segment) VehicleCount() int {
	return s.vehicles.Len()
}

// FrontVehicle 获取队首（最靠前）车辆标识符
// 返回：标识符与是否存在
func (s *Segment) FrontVehicle() (uuid.UUID, bool) {
	if s.vehicles.Len() == 0 {
		return uuid.UUID{}, false
	}
	return s.vehicles.Front(), true
}

// VehicleIDs 获取在段车辆标识符快照（队首到队尾）
func (s *Segment) VehicleIDs() []uuid.UUID {
	return s.vehicles.Values()
}

// EnqueueVehicle 车辆进入路段（追加到队尾）
func (s *Segment) EnqueueVehicle(id uuid.UUID) {
	s.vehicles.PushBack(id)
}

// DequeueVehicle 队首车辆离开路段
// 返回：离开的车辆标识符
func (s *Segment) DequeueVehicle() uuid.UUID {
	return s.vehicles.PopFront()
}
