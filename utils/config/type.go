package config

// ControlStep 指定模拟时间范围和间隔的配置项
type ControlStep struct {
	Start    int32   `yaml:"start"`              // 开始步数
	Total    int32   `yaml:"total"`              // 总步数
	Interval float64 `yaml:"interval,omitempty"` // 每步的时间间隔（秒），缺省为1/60
}

// Control 模拟控制配置
type Control struct {
	Step ControlStep `yaml:"step"`           // 时间控制
	Seed uint64      `yaml:"seed,omitempty"` // 随机数种子
}

// Segment 路段配置
// 说明：type为polyline（折线，至少2个控制点）、quadratic（二次贝塞尔，
// 恰好3个控制点）或cubic（三次贝塞尔，恰好4个控制点）
type Segment struct {
	Type   string      `yaml:"type,omitempty"`  // 曲线类型，缺省为polyline
	Points [][]float64 `yaml:"points"`          // 控制点坐标列表，每项为[x, y]
	Lanes  int         `yaml:"lanes,omitempty"` // 车道数，缺省为1
}

// VehicleTemplate 车辆配置模板
// 说明：物理参数缺省时按默认有界分布逐车采样，指定时固定
type VehicleTemplate struct {
	Weight   int      `yaml:"weight,omitempty"`  // 抽取权重，缺省为1
	Path     []int    `yaml:"path"`              // 行程（路段下标序列）
	Length   *float64 `yaml:"length,omitempty"`  // 车长（米）
	MinGap   *float64 `yaml:"min_gap,omitempty"` // 最小车距（米）
	Headway  *float64 `yaml:"headway,omitempty"` // 安全车头时距（秒）
	MaxV     *float64 `yaml:"max_v,omitempty"`   // 最大速度（米/秒）
	MaxA     *float64 `yaml:"max_a,omitempty"`   // 最大加速度（米/秒²）
	MaxB     *float64 `yaml:"max_b,omitempty"`   // 最大减速度（米/秒²）
	InitialV *float64 `yaml:"v,omitempty"`       // 初始速度（米/秒）
}

// Generator 车辆生成器配置
type Generator struct {
	Rate      float64           `yaml:"rate"`      // 目标到达率（辆/分钟）
	Templates []VehicleTemplate `yaml:"templates"` // 带权模板列表
}

// Config YAML配置文件的根结构
type Config struct {
	Control    Control     `yaml:"control"`              // 模拟过程控制
	Segments   []Segment   `yaml:"segments"`             // 路段列表
	Generators []Generator `yaml:"generators,omitempty"` // 生成器列表
}
