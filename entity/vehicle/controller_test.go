package vehicle_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/entity/vehicle"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/utils/randengine"
)

const dt = 1.0 / 60

func TestFreeFlowVelocityBounds(t *testing.T) {
	e := randengine.New(10)
	v := vehicle.New(fixedTemplate(0), e)

	// 无前车时速度非负、不超过maxV，且渐进逼近maxV
	for range 3600 {
		v.Update(nil, dt)
		assert.GreaterOrEqual(t, v.V(), 0.0)
		assert.LessOrEqual(t, v.V(), v.MaxV()+1e-9)
	}
	assert.Greater(t, v.V(), 0.9*v.MaxV())
}

func TestPositionMonotonicFreeFlow(t *testing.T) {
	e := randengine.New(11)
	v := vehicle.New(fixedTemplate(0), e)
	prev := v.S()
	for range 600 {
		v.Update(nil, dt)
		assert.GreaterOrEqual(t, v.S(), prev)
		prev = v.S()
	}
}

func TestNoInterpenetration(t *testing.T) {
	e := randengine.New(12)
	tmpl := fixedTemplate(0)
	tmpl.InitialV = lo.ToPtr(10.0)
	v := vehicle.New(tmpl, e)

	// 静止前车：跟车后永不越过前车尾部-最小车距边界
	leader := &vehicle.Snapshot{S: 50, V: 0, Length: 4}
	bound := leader.S - leader.Length - v.MinGap()
	for range 3600 {
		v.Update(leader, dt)
		assert.LessOrEqual(t, v.S(), bound+1e-9)
		assert.GreaterOrEqual(t, v.V(), 0.0)
	}
	// 最终应停在边界附近
	assert.InDelta(t, bound, v.S(), 1.0)
	assert.InDelta(t, 0, v.V(), 0.1)
}

func TestHardClampAggressiveStep(t *testing.T) {
	e := randengine.New(13)
	tmpl := fixedTemplate(0)
	tmpl.InitialV = lo.ToPtr(16.0)
	v := vehicle.New(tmpl, e)

	// 数值激进的大步长下靠硬约束防止穿插
	leader := &vehicle.Snapshot{S: 12, V: 0, Length: 4}
	v.Update(leader, 2.0)
	assert.LessOrEqual(t, v.S(), leader.S-leader.Length-v.MinGap()+1e-9)
	assert.Equal(t, leader.V, v.V())
}

func TestStoppedComfortBraking(t *testing.T) {
	e := randengine.New(14)
	tmpl := fixedTemplate(0)
	tmpl.InitialV = lo.ToPtr(10.0)
	v := vehicle.New(tmpl, e)
	v.SetStopped(true)

	for range 3600 {
		v.Update(nil, dt)
		assert.GreaterOrEqual(t, v.V(), 0.0)
	}
	assert.InDelta(t, 0, v.V(), 0.2)
}

func occupant(lane int, s, length float64) vehicle.LaneOccupant {
	return vehicle.LaneOccupant{ID: uuid.New(), Lane: lane, S: s, V: 0, Length: length}
}

func TestDecideLaneKeepRight(t *testing.T) {
	e := randengine.New(15)
	v := vehicle.New(fixedTemplate(0), e)
	v.SetLane(2)

	// 右侧车道空闲且无前车：增益0 >= -0.5，接受靠右变道
	assert.Equal(t, 1, v.DecideLane(3, nil))
	assert.Equal(t, 1, v.Lane())
}

func TestDecideLaneCooldownIdempotent(t *testing.T) {
	e := randengine.New(16)
	v := vehicle.New(fixedTemplate(0), e)
	v.SetLane(2)

	assert.Equal(t, 1, v.DecideLane(3, nil))
	// 冷却期内反复评估不再变道
	for range 100 {
		assert.Equal(t, 1, v.DecideLane(3, nil))
	}
}

func TestDecideLaneKeepRightRejectedOnBigLoss(t *testing.T) {
	e := randengine.New(17)
	tmpl := fixedTemplate(0)
	tmpl.InitialV = lo.ToPtr(16.0)
	v := vehicle.New(tmpl, e)
	v.SetLane(1)

	// 右侧车道空闲（占用者距离超过minGap）但其前车很近，增益远低于-0.5
	occupants := []vehicle.LaneOccupant{occupant(0, 6, 4)}
	assert.Equal(t, 1, v.DecideLane(2, occupants))
}

func TestDecideLaneGainMove(t *testing.T) {
	e := randengine.New(18)
	tmpl := fixedTemplate(0)
	tmpl.InitialV = lo.ToPtr(10.0)
	v := vehicle.New(tmpl, e)
	v.SetLane(0)

	// 本车道前方拥堵、左侧空闲：正增益触发向左变道
	occupants := []vehicle.LaneOccupant{occupant(0, 10, 4)}
	assert.Equal(t, 1, v.DecideLane(2, occupants))
	assert.Equal(t, 1, v.Lane())
}

func TestDecideLaneStaysWithoutGain(t *testing.T) {
	e := randengine.New(19)
	v := vehicle.New(fixedTemplate(0), e)
	v.SetLane(0)

	// 空路上无增益可图：留在原车道
	assert.Equal(t, 0, v.DecideLane(3, nil))
}

func TestDecideLaneNeverLeavesRange(t *testing.T) {
	e := randengine.New(20)
	v := vehicle.New(fixedTemplate(0), e)
	v.SetLane(0)
	for range 10 {
		lane := v.DecideLane(1, nil)
		assert.GreaterOrEqual(t, lane, 0)
		assert.Less(t, lane, 1)
	}
}

func TestDecideLaneBlockedNeighbor(t *testing.T) {
	e := randengine.New(21)
	v := vehicle.New(fixedTemplate(0), e)
	v.SetLane(1)

	// 右侧车道被紧邻占用（纵向距离小于minGap）时靠右判定不适用，
	// 左侧也无增益，保持原车道
	occupants := []vehicle.LaneOccupant{occupant(0, 1, 4)}
	assert.Equal(t, 1, v.DecideLane(3, occupants))
}
