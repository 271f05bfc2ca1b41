package output

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/simulation"
)

// 报表直方图的分箱数
const histogramBins = 20

// histogram 将数值序列分箱
// 功能：在[min, max]上等宽分箱，返回箱标签与计数
func histogram(values []float64, bins int) ([]string, []opts.BarData) {
	labels := make([]string, bins)
	counts := make([]opts.BarData, bins)
	if len(values) == 0 {
		return labels, counts
	}
	low, high := values[0], values[0]
	for _, v := range values {
		low = math.Min(low, v)
		high = math.Max(high, v)
	}
	width := (high - low) / float64(bins)
	if width == 0 {
		width = 1
	}
	raw := make([]int, bins)
	for _, v := range values {
		i := int((v - low) / width)
		if i >= bins {
			i = bins - 1
		}
		raw[i]++
	}
	for i := range raw {
		labels[i] = fmt.Sprintf("%.1f", low+float64(i)*width)
		counts[i] = opts.BarData{Value: raw[i]}
	}
	return labels, counts
}

// newHistogramChart 创建直方图
func newHistogramChart(title, series string, values []float64) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))
	labels, counts := histogram(values, histogramBins)
	bar.SetXAxis(labels).AddSeries(series, counts)
	return bar
}

// WriteReport 输出HTML报表
// 功能：生成出发、到达、行程时间直方图与行程时间-出发时间散点图
// 参数：sim-模拟器，path-输出文件路径
// 返回：可能的I/O错误
func WriteReport(sim *simulation.Simulation, path string) error {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Travel Time vs. Departure Time"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "departure (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "travel time (s)"}),
	)
	type pair struct{ dep, travel float64 }
	var pairs []pair
	for _, veh := range sim.Vehicles() {
		dep, ok := veh.DepartureTime()
		if !ok {
			continue
		}
		arr, ok := veh.ArrivalTime()
		if !ok {
			continue
		}
		pairs = append(pairs, pair{dep, arr - dep})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].dep < pairs[j].dep })
	data := make([]opts.ScatterData, len(pairs))
	travelTimes := make([]float64, len(pairs))
	for i, p := range pairs {
		data[i] = opts.ScatterData{Value: []interface{}{p.dep, p.travel}}
		travelTimes[i] = p.travel
	}
	scatter.AddSeries("travel", data)

	page := components.NewPage()
	page.AddCharts(
		newHistogramChart("Histogram of Vehicle Departures", "departures", sim.Departures()),
		newHistogramChart("Histogram of Vehicle Arrivals", "arrivals", sim.Arrivals()),
		newHistogramChart("Histogram of Travel Times", "travel times", travelTimes),
		scatter,
	)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	defer f.Close()
	return page.Render(f)
}
