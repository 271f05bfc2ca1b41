package vehicle

import (
	"math"

	"github.com/google/uuid"

	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/utils/randengine"
)

// 车辆物理参数默认采样区间（区间外的取值只能由模板显式指定）
const (
	lengthLow, lengthHigh   = 3.6, 4.4   // 车长（米）
	minGapLow, minGapHigh   = 3.0, 5.0   // 最小车距（米）
	headwayLow, headwayHigh = 0.8, 1.2   // 安全车头时距（秒）
	maxVLow, maxVHigh       = 14.9, 18.3 // 最大速度（米/秒）
	maxALow, maxAHigh       = 1.3, 1.6   // 最大加速度（米/秒²）
	maxBLow, maxBHigh       = 4.1, 5.1   // 最大减速度（米/秒²）

	// 变道冷却时长的采样区间（秒）
	lcCooldownLow, lcCooldownHigh = 4.0, 6.0
)

// Template 车辆配置模板
// 功能：描述生成器抽取车辆时使用的一种车辆配置
// 说明：指针字段为nil时对应参数按默认区间随机采样，否则固定为指定值；
// Path为路段下标构成的行程
type Template struct {
	Weight   int      // 抽取权重（正整数）
	Path     []int    // 行程（路段下标序列）
	Length   *float64 // 车长（米）
	MinGap   *float64 // 最小车距（米）
	Headway  *float64 // 安全车头时距（秒）
	MaxV     *float64 // 最大速度（米/秒）
	MaxA     *float64 // 最大加速度（米/秒²）
	MaxB     *float64 // 最大减速度（米/秒²）
	InitialV *float64 // 初始速度（米/秒），默认0
}

// Snapshot 车辆运动学快照
// 功能：记录某一时刻车辆的位置、速度与车长，作为跟车计算中前车的稳定视图
// 说明：模拟循环在动力学阶段开始前对全部车辆取快照，保证后车读到的
// 是前车本步更新前的状态
type Snapshot struct {
	S      float64 // 在当前路段上的位置（米）
	V      float64 // 速度（米/秒）
	Length float64 // 车长（米）
}

// Vehicle 车辆实体
// 功能：持有车辆的物理参数、运动学状态、行程与事件时间戳
// 说明：由Simulation的车辆表唯一持有，路段队列仅引用其标识符
type Vehicle struct {
	id uuid.UUID

	// 物理参数（创建时确定，之后不变）
	length  float64
	minGap  float64
	headway float64
	maxV    float64
	maxA    float64
	maxB    float64
	sqrtAB  float64 // 预计算的2*sqrt(maxA*maxB)

	// 运动学状态
	s       float64 // 在当前路段上的位置（米）
	v       float64 // 速度（米/秒），恒非负
	a       float64 // 下一步使用的加速度（米/秒²）
	lane    int     // 车道下标，0为最右侧
	stopped bool    // 强制停车标志

	// 行程
	path      []int // 路段下标序列
	pathIndex int   // 当前行程下标

	// 变道冷却
	lcCooldown       float64 // 剩余冷却时间（秒）
	lcCooldownPeriod float64 // 每次变道后重置的冷却时长（秒）

	// 事件时间戳，至多记录一次
	departureTime *float64
	arrivalTime   *float64
}

// sample 取模板值或在默认区间内采样
func sample(fixed *float64, low, high float64, engine *randengine.Engine) float64 {
	if fixed != nil {
		return *fixed
	}
	return engine.UniformRange(low, high)
}

// New 按模板创建车辆
// 功能：生成一辆新车，未被模板固定的物理参数逐项独立采样
// 参数：tmpl-配置模板，engine-随机数引擎
// 返回：车辆指针
func New(tmpl Template, engine *randengine.Engine) *Vehicle {
	v := &Vehicle{
		id:               uuid.New(),
		length:           sample(tmpl.Length, lengthLow, lengthHigh, engine),
		minGap:           sample(tmpl.MinGap, minGapLow, minGapHigh, engine),
		headway:          sample(tmpl.Headway, headwayLow, headwayHigh, engine),
		maxV:             sample(tmpl.MaxV, maxVLow, maxVHigh, engine),
		maxA:             sample(tmpl.MaxA, maxALow, maxAHigh, engine),
		maxB:             sample(tmpl.MaxB, maxBLow, maxBHigh, engine),
		path:             append([]int(nil), tmpl.Path...),
		lcCooldownPeriod: engine.UniformRange(lcCooldownLow, lcCooldownHigh),
	}
	if tmpl.InitialV != nil {
		v.v = *tmpl.InitialV
	}
	v.sqrtAB = 2 * math.Sqrt(v.maxA*v.maxB)
	return v
}

// ID 获取车辆标识符
func (v *Vehicle) ID() uuid.UUID { return v.id }

// S 获取在当前路段上的位置（米）
func (v *Vehicle) S() float64 { return v.s }

// V 获取速度（米/秒）
func (v *Vehicle) V() float64 { return v.v }

// A 获取下一步使用的加速度（米/秒²）
func (v *Vehicle) A() float64 { return v.a }

// Lane 获取车道下标
func (v *Vehicle) Lane() int { return v.lane }

// Length 获取车长（米）
func (v *Vehicle) Length() float64 { return v.length }

// MinGap 获取最小车距（米）
func (v *Vehicle) MinGap() float64 { return v.minGap }

// MaxV 获取最大速度（米/秒）
func (v *Vehicle) MaxV() float64 { return v.maxV }

// Stopped 获取强制停车标志
func (v *Vehicle) Stopped() bool { return v.stopped }

// SetStopped 设置强制停车标志
// 说明：置位后车辆按舒适制动减速到0，复位后恢复跟车模型
func (v *Vehicle) SetStopped(stopped bool) { v.stopped = stopped }

// SetLane 设置车道下标（生成器在插入前指定入口车道）
func (v *Vehicle) SetLane(lane int) { v.lane = lane }

// ResetS 将位置重置为路段起点（跨段转移时调用）
func (v *Vehicle) ResetS() { v.s = 0 }

// Path 获取行程（调用方不得修改）
func (v *Vehicle) Path() []int { return v.path }

// PathIndex 获取当前行程下标
func (v *Vehicle) PathIndex() int { return v.pathIndex }

// HasNextSegment 判断行程中是否还有后续路段
func (v *Vehicle) HasNextSegment() bool { return v.pathIndex+1 < len(v.path) }

// AdvancePath 行程推进到下一路段
// 返回：新的当前路段下标
func (v *Vehicle) AdvancePath() int {
	v.pathIndex++
	return v.path[v.pathIndex]
}

// Snapshot 取车辆运动学快照
func (v *Vehicle) Snapshot() Snapshot {
	return Snapshot{S: v.s, V: v.v, Length: v.length}
}

// DepartureTime 获取出发时间
// 返回：出发时间与是否已记录
func (v *Vehicle) DepartureTime() (float64, bool) {
	if v.departureTime == nil {
		return 0, false
	}
	return *v.departureTime, true
}

// ArrivalTime 获取到达时间
// 返回：到达时间与是否已记录
func (v *Vehicle) ArrivalTime() (float64, bool) {
	if v.arrivalTime == nil {
		return 0, false
	}
	return *v.arrivalTime, true
}

// MarkDeparted 记录出发时间
// 功能：首次调用时记录出发时间
// 返回：本次调用是否完成了记录
func (v *Vehicle) MarkDeparted(t float64) bool {
	if v.departureTime != nil {
		return false
	}
	v.departureTime = &t
	return true
}

// MarkArrived 记录到达时间
// 功能：行程结束时记录到达时间，至多一次且必须晚于出发
// 返回：本次调用是否完成了记录
func (v *Vehicle) MarkArrived(t float64) bool {
	if v.arrivalTime != nil || v.departureTime == nil {
		return false
	}
	v.arrivalTime = &t
	return true
}
