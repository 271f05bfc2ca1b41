package segment

import (
	"fmt"
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"gonum.org/v1/gonum/integrate/quad"
)

const (
	// 弧长积分的Gauss-Legendre求积节点数
	quadratureNodes = 32
	// 航向角展开参考表的采样点数
	headingSamples = 64
)

// Curve 参数曲线
// 功能：定义路段几何的统一契约，进度参数t∈[0,1]映射到平面位置与航向
// 说明：所有实现对t做[0,1]裁剪；航向角为展开后的切向角（无2π跳变）
type Curve interface {
	Position(t float64) geometry.Point // 进度t处的坐标
	Heading(t float64) float64         // 进度t处的切向角（弧度，已展开）
	DerivativeMagnitude(t float64) float64
	Length() float64 // 曲线总长度（米）
}

// clampT 将进度参数裁剪到[0,1]
func clampT(t float64) float64 {
	return math.Min(1, math.Max(0, t))
}

// unwrapNear 将角度按2π周期折叠到参考角附近
// 功能：选取raw+2kπ中与ref最接近的值，消除atan2的±π跳变
func unwrapNear(raw, ref float64) float64 {
	for raw-ref > math.Pi {
		raw -= 2 * math.Pi
	}
	for raw-ref < -math.Pi {
		raw += 2 * math.Pi
	}
	return raw
}

// arcLength 计算曲线上[from, to]参数区间的弧长
// 功能：对导数模长做数值积分
// 参数：c-曲线，from/to-参数区间
// 返回：弧长（米）
func arcLength(c Curve, from, to float64) float64 {
	if to <= from {
		return 0
	}
	return quad.Fixed(c.DerivativeMagnitude, from, to, quadratureNodes, nil, 0)
}

// Polyline 折线曲线
// 功能：依次线性插值通过全部控制点的分段线性曲线
// 说明：参数空间在控制点之间均匀划分（每相邻两点占据相等的参数区间，
// 与物理长度无关）；航向角取各线段方向角展开后的线性插值
type Polyline struct {
	points   []geometry.Point
	headings []float64 // 各线段方向角（已展开）
	length   float64
}

// NewPolyline 创建折线曲线
// 参数：points-控制点序列（至少2个）
// 返回：折线曲线与可能的构造错误
func NewPolyline(points []geometry.Point) (*Polyline, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("segment: degenerate geometry: polyline needs at least 2 control points, got %d", len(points))
	}
	headings := make([]float64, len(points)-1)
	length := 0.0
	for i := 0; i+1 < len(points); i++ {
		dx := points[i+1].X - points[i].X
		dy := points[i+1].Y - points[i].Y
		headings[i] = math.Atan2(dy, dx)
		if i > 0 {
			headings[i] = unwrapNear(headings[i], headings[i-1])
		}
		length += math.Hypot(dx, dy)
	}
	return &Polyline{points: points, headings: headings, length: length}, nil
}

// span 定位参数t所在的线段
// 返回：线段下标与段内比例
func (p *Polyline) span(t float64) (int, float64) {
	u := clampT(t) * float64(len(p.points)-1)
	i := int(u)
	if i > len(p.points)-2 {
		i = len(p.points) - 2
	}
	return i, u - float64(i)
}

func (p *Polyline) Position(t float64) geometry.Point {
	i, k := p.span(t)
	return geometry.Blend(p.points[i], p.points[i+1], k)
}

// Heading 计算进度t处的航向角
// 说明：只有一条线段时航向恒定；多段时在各段方向角之间线性插值，
// 段方向角均匀分布在参数[0,1]上
func (p *Polyline) Heading(t float64) float64 {
	if len(p.headings) == 1 {
		return p.headings[0]
	}
	u := clampT(t) * float64(len(p.headings)-1)
	i := int(u)
	if i > len(p.headings)-2 {
		i = len(p.headings) - 2
	}
	k := u - float64(i)
	return p.headings[i] + k*(p.headings[i+1]-p.headings[i])
}

func (p *Polyline) DerivativeMagnitude(t float64) float64 {
	i, _ := p.span(t)
	dx := p.points[i+1].X - p.points[i].X
	dy := p.points[i+1].Y - p.points[i].Y
	return math.Hypot(dx, dy) * float64(len(p.points)-1)
}

func (p *Polyline) Length() float64 {
	return p.length
}

// bezier 贝塞尔曲线公共实现
// 说明：由各阶构造函数填充位置/导数计算，长度与航向展开参考表在构造时一次计算
type bezier struct {
	at        func(t float64) geometry.Point
	deriv     func(t float64) geometry.Point
	length    float64
	unwrapped []float64 // 均匀采样的展开航向角参考表
}

// initBezier 完成贝塞尔曲线的公共初始化
// 算法说明：
// 1. 数值积分导数模长得到总长度
// 2. 均匀采样切向角并逐点展开，作为Heading的折叠参考
func (b *bezier) initBezier() {
	b.length = quad.Fixed(b.DerivativeMagnitude, 0, 1, quadratureNodes, nil, 0)
	b.unwrapped = make([]float64, headingSamples+1)
	for i := 0; i <= headingSamples; i++ {
		d := b.deriv(float64(i) / headingSamples)
		raw := math.Atan2(d.Y, d.X)
		if i > 0 {
			raw = unwrapNear(raw, b.unwrapped[i-1])
		}
		b.unwrapped[i] = raw
	}
}

func (b *bezier) Position(t float64) geometry.Point {
	return b.at(clampT(t))
}

func (b *bezier) Heading(t float64) float64 {
	t = clampT(t)
	d := b.deriv(t)
	ref := b.unwrapped[int(t*headingSamples)]
	return unwrapNear(math.Atan2(d.Y, d.X), ref)
}

func (b *bezier) DerivativeMagnitude(t float64) float64 {
	d := b.deriv(clampT(t))
	return math.Hypot(d.X, d.Y)
}

func (b *bezier) Length() float64 {
	return b.length
}

// QuadraticBezier 二次贝塞尔曲线
type QuadraticBezier struct {
	bezier
}

// NewQuadraticBezier 创建二次贝塞尔曲线
// 参数：start-起点，control-控制点，end-终点
func NewQuadraticBezier(start, control, end geometry.Point) (*QuadraticBezier, error) {
	c := &QuadraticBezier{}
	c.at = func(t float64) geometry.Point {
		u := 1 - t
		return geometry.Point{
			X: u*u*start.X + 2*u*t*control.X + t*t*end.X,
			Y: u*u*start.Y + 2*u*t*control.Y + t*t*end.Y,
		}
	}
	c.deriv = func(t float64) geometry.Point {
		u := 1 - t
		return geometry.Point{
			X: 2*u*(control.X-start.X) + 2*t*(end.X-control.X),
			Y: 2*u*(control.Y-start.Y) + 2*t*(end.Y-control.Y),
		}
	}
	c.initBezier()
	return c, nil
}

// CubicBezier 三次贝塞尔曲线
type CubicBezier struct {
	bezier
}

// NewCubicBezier 创建三次贝塞尔曲线
// 参数：start-起点，control1/control2-控制点，end-终点
func NewCubicBezier(start, control1, control2, end geometry.Point) (*CubicBezier, error) {
	c := &CubicBezier{}
	c.at = func(t float64) geometry.Point {
		u := 1 - t
		return geometry.Point{
			X: u*u*u*start.X + 3*u*u*t*control1.X + 3*u*t*t*control2.X + t*t*t*end.X,
			Y: u*u*u*start.Y + 3*u*u*t*control1.Y + 3*u*t*t*control2.Y + t*t*t*end.Y,
		}
	}
	c.deriv = func(t float64) geometry.Point {
		u := 1 - t
		return geometry.Point{
			X: 3*u*u*(control1.X-start.X) + 6*u*t*(control2.X-control1.X) + 3*t*t*(end.X-control2.X),
			Y: 3*u*u*(control1.Y-start.Y) + 6*u*t*(control2.Y-control1.Y) + 3*t*t*(end.Y-control2.Y),
		}
	}
	c.initBezier()
	return c, nil
}
