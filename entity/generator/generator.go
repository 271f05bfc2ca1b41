package generator

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/entity"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/entity/vehicle"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/utils/randengine"
)

// Generator 车辆生成器
// 功能：按泊松到达过程在路段入口随机生成车辆，受入口车距约束
// 说明：任意时刻恰有一辆候选车等待插入；候选车仅在有空间时被消费，
// 全车道拥堵时直接丢弃并重新抽取（无积压队列）
type Generator struct {
	templates []vehicle.Template
	weights   []int
	rate      float64 // 目标平均到达率（辆/分钟）
	engine    *randengine.Engine

	nextSpawnAt float64          // 下一次生成时刻（秒）
	candidate   *vehicle.Vehicle // 待插入的候选车
}

// New 创建车辆生成器
// 功能：校验配置并初始化第一辆候选车与第一个生成时刻
// 参数：templates-带权模板列表，rate-到达率（辆/分钟），engine-随机数引擎
// 返回：生成器与可能的构造错误
func New(templates []vehicle.Template, rate float64, engine *randengine.Engine) (*Generator, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("generator: rate must be positive, got %f", rate)
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("generator: at least one vehicle template is required")
	}
	for i, tmpl := range templates {
		if tmpl.Weight <= 0 {
			return nil, fmt.Errorf("generator: template %d: weight must be positive, got %d", i, tmpl.Weight)
		}
		if len(tmpl.Path) == 0 {
			return nil, fmt.Errorf("generator: template %d: empty path", i)
		}
	}
	g := &Generator{
		templates: templates,
		weights:   lo.Map(templates, func(t vehicle.Template, _ int) int { return t.Weight }),
		rate:      rate,
		engine:    engine,
	}
	g.candidate = g.pickCandidate()
	g.nextSpawnAt = g.engine.Exponential(g.meanInterarrival())
	return g, nil
}

// meanInterarrival 目标平均到达间隔（秒）
func (g *Generator) meanInterarrival() float64 {
	return 60 / g.rate
}

// pickCandidate 抽取候选车
// 功能：按权重抽取模板并实例化一辆新车（未固定的物理参数每次重新采样）
// 返回：候选车
func (g *Generator) pickCandidate() *vehicle.Vehicle {
	return vehicle.New(g.templates[g.engine.WeightedIndex(g.weights)], g.engine)
}

// Candidate 获取当前候选车（仅供检视）
func (g *Generator) Candidate() *vehicle.Vehicle {
	return g.candidate
}

// Tick 生成器推进
// 功能：到达预定生成时刻时尝试把候选车插入其行程首路段
// 参数：sim-模拟器视图
// 算法说明：
//  1. 未到生成时刻则不动作
//  2. 按下标升序扫描首路段的车道，取第一条入口空闲的车道：该车道上
//     最后进入的占用者（若有）距入口需超过候选车的最小车距+车长
//  3. 找到则指定车道并插入（AddVehicle记录出发）；无论成败都重新抽取
//     候选车，并以当前时刻为基准重排下一次生成时刻
func (g *Generator) Tick(sim entity.ISimulation) {
	t := sim.Clock().T
	if t < g.nextSpawnAt {
		return
	}
	seg := sim.Segment(g.candidate.Path()[0])
	if lane, ok := g.freeLane(sim, seg); ok {
		g.candidate.SetLane(lane)
		sim.AddVehicle(g.candidate)
		log.Debugf("generator: spawned vehicle %s on lane %d at %s", g.candidate.ID(), lane, sim.Clock())
	} else {
		log.Debugf("generator: all lanes congested at %s, candidate dropped", sim.Clock())
	}
	g.candidate = g.pickCandidate()
	g.nextSpawnAt = t + g.engine.Exponential(g.meanInterarrival())
}

// freeLane 寻找候选车可进入的车道
// 功能：按下标升序返回第一条满足入口车距约束的车道
// 返回：车道下标与是否找到
func (g *Generator) freeLane(sim entity.ISimulation, seg entity.ISegment) (int, bool) {
	margin := g.candidate.MinGap() + g.candidate.Length()
	ids := seg.VehicleIDs()
	for lane := 0; lane < seg.LaneCount(); lane++ {
		free := true
		// 队列按进入时间排序，倒序找到该车道最后进入的占用者即入口最近的一辆
		for i := len(ids) - 1; i >= 0; i-- {
			veh := sim.Vehicle(ids[i])
			if veh.Lane() != lane {
				continue
			}
			free = veh.S() > margin
			break
		}
		if free {
			return lane, true
		}
	}
	return -1, false
}
