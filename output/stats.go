// 统计与报表输出，消费模拟核心的公开状态（时间戳日志、车辆表、路段枚举）
package output

import (
	"gonum.org/v1/gonum/stat"

	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/simulation"
)

// Summary 模拟结果摘要
type Summary struct {
	Vehicles       int     // 进入过模拟的车辆总数
	Departures     int     // 出发记录数
	Arrivals       int     // 到达记录数
	MeanTravelTime float64 // 完成行程车辆的平均行程时间（秒）
	StdTravelTime  float64 // 行程时间标准差（秒）
}

// TravelTimes 收集完成行程车辆的行程时间
// 功能：遍历车辆表，对出发与到达都已记录的车辆计算到达-出发
// 返回：行程时间列表（秒，顺序不保证）
func TravelTimes(sim *simulation.Simulation) []float64 {
	var times []float64
	for _, veh := range sim.Vehicles() {
		dep, ok := veh.DepartureTime()
		if !ok {
			continue
		}
		arr, ok := veh.ArrivalTime()
		if !ok {
			continue
		}
		times = append(times, arr-dep)
	}
	return times
}

// Summarize 计算模拟结果摘要
func Summarize(sim *simulation.Simulation) Summary {
	times := TravelTimes(sim)
	s := Summary{
		Vehicles:   len(sim.Vehicles()),
		Departures: len(sim.Departures()),
		Arrivals:   len(sim.Arrivals()),
	}
	if len(times) > 0 {
		s.MeanTravelTime = stat.Mean(times, nil)
		s.StdTravelTime = stat.StdDev(times, nil)
	}
	return s
}
