package vehicle

import (
	"math"

	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/google/uuid"
)

const (
	// IDM速度项指数
	idmTheta = 4
	// 车距下限（米），避免加速度公式中的零车距
	idmGapFloor = 0.1
	// 靠右行驶偏置：右侧车道空闲时，加速度损失不超过该值即接受变道
	keepRightGainBias = -0.5
)

// LaneOccupant 车道占用快照
// 功能：变道决策所需的同路段其他车辆视图，由模拟循环从路段队列构建
type LaneOccupant struct {
	ID     uuid.UUID // 车辆标识符
	Lane   int       // 车道下标
	S      float64   // 在路段上的位置（米）
	V      float64   // 速度（米/秒）
	Length float64   // 车长（米）
}

// Update 推进车辆动力学一步
// 功能：更新位置与速度，并计算下一步使用的加速度
// 参数：leader-前车快照（队首车辆传nil），dt-时间步长（秒）
// 算法说明：
//  1. 变道冷却计时随dt递减，下限0
//  2. 运动学推进：v+a*dt与x+v*dt+a*dt²/2；若投影速度为负，改为解析求出
//     速度恰好衰减到0时到达的位置（x - v²/(2a)），避免单步内速度越过0
//  3. 硬安全约束：若推进后与前车距离小于前车位置-前车车长-本车最小车距，
//     将位置钳制到该边界并把速度对齐前车，防止数值激进步长下的穿插
//  4. 用IDM公式计算下一步加速度；stopped置位时改为舒适制动-maxB*v/maxV
func (v *Vehicle) Update(leader *Snapshot, dt float64) {
	v.lcCooldown = math.Max(v.lcCooldown-dt, 0)

	if v.v+v.a*dt < 0 {
		v.s -= 0.5 * v.v * v.v / v.a
		v.v = 0
	} else {
		v.v += v.a * dt
		v.s += v.v*dt + 0.5*v.a*dt*dt
	}
	if leader != nil {
		if bound := leader.S - leader.Length - v.minGap; v.s > bound {
			v.s = bound
			v.v = leader.V
		}
	}
	v.s = math.Max(v.s, 0)

	v.a = v.follow(v.v, leader)
	if v.stopped {
		v.a = -v.maxB * v.v / v.maxV
	}
}

// follow 跟车模型（IDM）
// 功能：根据本车速度与前车快照计算加速度
// 参数：speed-本车速度，leader-前车快照（可为nil）
// 返回：加速度（米/秒²）
// 算法说明：
// https://en.wikipedia.org/wiki/Intelligent_driver_model
// s_star = minGap + max(0, headway*v + v*(v-vLead)/(2*sqrt(maxA*maxB)))
// a = maxA * (1 - (v/maxV)^4 - (s_star/gap)^2)
// 无前车时取车距为无穷大，车辆向maxV渐进加速；有前车时车距下限0.1米
func (v *Vehicle) follow(speed float64, leader *Snapshot) float64 {
	gap := mathutil.INF
	vLead := speed
	if leader != nil {
		gap = math.Max(leader.S-v.s-leader.Length, idmGapFloor)
		vLead = leader.V
	}
	sStar := v.minGap + math.Max(0, v.headway*speed+(speed-vLead)*speed/v.sqrtAB)
	return v.maxA * (1 - math.Pow(speed/v.maxV, idmTheta) - math.Pow(sStar/gap, 2))
}

// laneFree 判断候选车道在本车纵向位置附近是否空闲
// 说明：候选车道上任一他车与本车纵向距离小于最小车距即视为不空闲
func (v *Vehicle) laneFree(lane int, occupants []LaneOccupant) bool {
	for _, occ := range occupants {
		if occ.ID == v.id || occ.Lane != lane {
			continue
		}
		if math.Abs(occ.S-v.s) < v.minGap {
			return false
		}
	}
	return true
}

// hypotheticalLeader 求候选车道上的假想前车
// 功能：返回候选车道上位于本车前方、距离最近的占用者快照
// 返回：前车快照，不存在时为nil
func (v *Vehicle) hypotheticalLeader(lane int, occupants []LaneOccupant) *Snapshot {
	var lead *Snapshot
	best := mathutil.INF
	for _, occ := range occupants {
		if occ.ID == v.id || occ.Lane != lane {
			continue
		}
		if d := occ.S - v.s; d >= 0 && d < best {
			best = d
			lead = &Snapshot{S: occ.S, V: occ.V, Length: occ.Length}
		}
	}
	return lead
}

// DecideLane 变道决策
// 功能：在冷却允许时评估相邻车道，返回（可能不变的）车道下标并更新自身车道
// 参数：maxLanes-路段车道数，occupants-同路段车道占用快照
// 返回：决策后的车道下标，恒在[0, maxLanes)内
// 算法说明：
//  1. 冷却未结束时不动作
//  2. 靠右偏好：右侧一条车道空闲时，计算移过去相对留在原车道的假想加速度
//     增益，增益不低于-0.5即变道（对靠右行驶的强偏置），该判定优先于其余
//     判定
//  3. 否则对每条空闲的相邻车道，以其最近前方占用者为假想前车计算假想加
//     速度，选增益严格为正且最大的车道；无正增益则不变道
//  4. 任何变道都重置冷却计时
func (v *Vehicle) DecideLane(maxLanes int, occupants []LaneOccupant) int {
	if v.lcCooldown > 0 {
		return v.lane
	}
	current := v.follow(v.v, v.hypotheticalLeader(v.lane, occupants))

	if right := v.lane - 1; v.lane > 0 && v.laneFree(right, occupants) {
		gain := v.follow(v.v, v.hypotheticalLeader(right, occupants)) - current
		if gain >= keepRightGainBias {
			v.lane = right
			v.lcCooldown = v.lcCooldownPeriod
		}
		return v.lane
	}

	bestLane, bestGain := v.lane, 0.0
	for _, lane := range []int{v.lane - 1, v.lane + 1} {
		if lane < 0 || lane >= maxLanes || !v.laneFree(lane, occupants) {
			continue
		}
		gain := v.follow(v.v, v.hypotheticalLeader(lane, occupants)) - current
		if gain > bestGain {
			bestLane, bestGain = lane, gain
		}
	}
	if bestLane != v.lane {
		v.lane = bestLane
		v.lcCooldown = v.lcCooldownPeriod
	}
	return v.lane
}
