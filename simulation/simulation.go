package simulation

import (
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/clock"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/entity"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/entity/generator"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/entity/segment"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/entity/vehicle"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/utils/randengine"
)

// 模拟进度日志的输出间隔（步）
const progressLogInterval = 3600

// Simulation 模拟器
// 功能：持有路段、车辆表与生成器，按固定步长推进全局时间，
// 编排动力学更新、跨段转移、变道评估与生成器
// 说明：单线程同步执行；车辆表是车辆的唯一所有者，路段队列只引用标识符
type Simulation struct {
	clk    *clock.Clock
	engine *randengine.Engine

	segments   []*segment.Segment
	vehicles   map[uuid.UUID]*vehicle.Vehicle
	generators []*generator.Generator

	departures []float64 // 出发时间日志（按记录顺序追加）
	arrivals   []float64 // 到达时间日志（按记录顺序追加）
}

// New 创建模拟器
// 参数：clk-仿真时钟，engine-随机数引擎
// 返回：空场景的模拟器
func New(clk *clock.Clock, engine *randengine.Engine) *Simulation {
	return &Simulation{
		clk:      clk,
		engine:   engine,
		vehicles: make(map[uuid.UUID]*vehicle.Vehicle),
	}
}

// Clock 获取仿真时钟
func (sim *Simulation) Clock() *clock.Clock {
	return sim.clk
}

// Engine 获取随机数引擎
func (sim *Simulation) Engine() *randengine.Engine {
	return sim.engine
}

// AddSegment 添加路段
// 返回：路段下标（行程以该下标引用路段）
func (sim *Simulation) AddSegment(seg *segment.Segment) int {
	sim.segments = append(sim.segments, seg)
	return len(sim.segments) - 1
}

// AddGenerator 添加车辆生成器
func (sim *Simulation) AddGenerator(gen *generator.Generator) {
	sim.generators = append(sim.generators, gen)
}

// AddVehicle 注入车辆
// 功能：将车辆放入车辆表、记录出发时间并加入首路段队列
// 说明：出发时间只在首次注入时记录
func (sim *Simulation) AddVehicle(veh *vehicle.Vehicle) {
	sim.vehicles[veh.ID()] = veh
	if veh.MarkDeparted(sim.clk.T) {
		sim.departures = append(sim.departures, sim.clk.T)
	}
	if path := veh.Path(); len(path) > 0 {
		sim.segments[path[0]].EnqueueVehicle(veh.ID())
	}
}

// Segment 按下标获取路段
func (sim *Simulation) Segment(index int) entity.ISegment {
	return sim.segments[index]
}

// Segments 枚举全部路段（供渲染等外部使用，调用方不得修改）
func (sim *Simulation) Segments() []*segment.Segment {
	return sim.segments
}

// Vehicle 按标识符获取车辆
func (sim *Simulation) Vehicle(id uuid.UUID) *vehicle.Vehicle {
	return sim.vehicles[id]
}

// Vehicles 获取车辆表（供外部查询，调用方不得修改）
func (sim *Simulation) Vehicles() map[uuid.UUID]*vehicle.Vehicle {
	return sim.vehicles
}

// Departures 获取出发时间日志（只追加，调用方不得修改）
func (sim *Simulation) Departures() []float64 {
	return sim.departures
}

// Arrivals 获取到达时间日志（只追加，调用方不得修改）
func (sim *Simulation) Arrivals() []float64 {
	return sim.arrivals
}

// T 获取当前仿真时间（秒）
func (sim *Simulation) T() float64 {
	return sim.clk.T
}

// StepCount 获取当前步数
func (sim *Simulation) StepCount() int32 {
	return sim.clk.InternalStep
}

// Step 推进模拟一步
// 功能：按固定阶段顺序推进全部状态，各阶段在所有路段上完成后才进入下一阶段
// 算法说明：
//  1. 快照：记录每个路段在段车辆的更新前状态
//  2. 动力学：每个路段从队首（最靠前）开始依次更新，队首无前车，其余
//     以队列中前一辆的快照为前车，保证后车读到前车的更新前位置
//  3. 转移：检查各路段队首，到达段末的车辆若行程已尽则记录到达（至多
//     一次），否则推进行程并进入下一路段队列；两种情况都重置位置并出队
//  4. 变道：对每个多车道路段，用队列构建车道占用快照，逐车做冷却门控
//     的变道决策
//  5. 生成器：逐个推进
//  6. 时钟前进一步
func (sim *Simulation) Step() {
	dt := sim.clk.DT

	// 快照阶段
	ids := make([][]uuid.UUID, len(sim.segments))
	snapshots := make([][]vehicle.Snapshot, len(sim.segments))
	for i, seg := range sim.segments {
		ids[i] = seg.VehicleIDs()
		snapshots[i] = make([]vehicle.Snapshot, len(ids[i]))
		for j, id := range ids[i] {
			snapshots[i][j] = sim.vehicles[id].Snapshot()
		}
	}

	// 动力学阶段
	for i := range sim.segments {
		for j, id := range ids[i] {
			var leader *vehicle.Snapshot
			if j > 0 {
				leader = &snapshots[i][j-1]
			}
			sim.vehicles[id].Update(leader, dt)
		}
	}

	// 转移阶段
	for _, seg := range sim.segments {
		id, ok := seg.FrontVehicle()
		if !ok {
			continue
		}
		veh := sim.vehicles[id]
		if veh.S() < seg.Length() {
			continue
		}
		if veh.HasNextSegment() {
			next := veh.AdvancePath()
			// 下一路段车道数可能更少，进入前收敛车道下标
			veh.SetLane(lo.Clamp(veh.Lane(), 0, sim.segments[next].LaneCount()-1))
			sim.segments[next].EnqueueVehicle(id)
		} else if veh.MarkArrived(sim.clk.T) {
			sim.arrivals = append(sim.arrivals, sim.clk.T)
		}
		veh.ResetS()
		seg.DequeueVehicle()
	}

	// 变道阶段
	for _, seg := range sim.segments {
		if seg.LaneCount() < 2 || seg.VehicleCount() == 0 {
			continue
		}
		occupants := sim.laneOccupants(seg)
		for _, id := range seg.VehicleIDs() {
			sim.vehicles[id].DecideLane(seg.LaneCount(), occupants)
		}
	}

	// 生成器阶段
	for _, gen := range sim.generators {
		gen.Tick(sim)
	}

	sim.clk.Tick()
}

// laneOccupants 构建路段的车道占用快照
func (sim *Simulation) laneOccupants(seg *segment.Segment) []vehicle.LaneOccupant {
	ids := seg.VehicleIDs()
	occupants := make([]vehicle.LaneOccupant, len(ids))
	for i, id := range ids {
		veh := sim.vehicles[id]
		occupants[i] = vehicle.LaneOccupant{
			ID:     id,
			Lane:   veh.Lane(),
			S:      veh.S(),
			V:      veh.V(),
			Length: veh.Length(),
		}
	}
	return occupants
}

// Run 推进模拟若干步
// 参数：steps-步数
func (sim *Simulation) Run(steps int) {
	for i := 0; i < steps; i++ {
		sim.Step()
		if sim.clk.InternalStep%progressLogInterval == 0 {
			log.Infof("t=%s vehicles=%d departures=%d arrivals=%d",
				sim.clk, len(sim.vehicles), len(sim.departures), len(sim.arrivals))
		}
	}
}
