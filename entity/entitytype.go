// 实体间共享的接口定义，避免各实体包与simulation包之间的循环依赖
package entity

import (
	"github.com/google/uuid"

	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/clock"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/entity/vehicle"
)

// ISegment 路段只读视图
// 功能：生成器与外部消费者访问路段所需的最小接口
type ISegment interface {
	Length() float64         // 路段总长度（米）
	LaneCount() int          // 车道数
	VehicleIDs() []uuid.UUID // 在段车辆标识符（队首到队尾）
}

// ISimulation 模拟器视图
// 功能：生成器向模拟注入车辆所需的最小接口，由simulation.Simulation实现
type ISimulation interface {
	Clock() *clock.Clock                   // 仿真时钟
	Segment(index int) ISegment            // 按下标获取路段
	Vehicle(id uuid.UUID) *vehicle.Vehicle // 按标识符获取车辆
	AddVehicle(v *vehicle.Vehicle)         // 注入车辆（记录出发并放入首路段队列）
}
