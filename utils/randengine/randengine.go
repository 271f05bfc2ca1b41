// 随机数引擎，包装了golang.org/x/exp/rand，提供模拟所需的常用随机数生成方法
package randengine

import (
	"flag"
	"log"

	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数生成
)

// Engine 随机数引擎
// 功能：为模拟提供可复现的随机数生成，显式传入各组件而非使用全局随机源
// 说明：基于golang.org/x/exp/rand库，单线程模拟中不加锁
type Engine struct {
	*rand.Rand // 底层随机数生成器
}

// New 创建随机数引擎
// 功能：使用给定种子（加上种子偏移量）初始化一个新的随机数引擎实例
// 参数：seed-随机数种子
// 返回：随机数引擎指针
// 说明：种子偏移量允许在不修改配置的情况下改变随机数序列
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// WeightedIndex 按整数权重生成随机下标
// 功能：根据权重数组生成离散分布的随机下标
// 参数：weights-正整数权重数组
// 返回：随机生成的下标（0到len(weights)-1）
// 算法说明：
// 1. 计算总权重
// 2. 在[1, 总权重]范围内生成均匀随机整数
// 3. 依次减去各权重，返回第一个使累计值降到0以下的下标
func (e *Engine) WeightedIndex(weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		log.Panicf("randengine: WeightedIndex: bad total weight %d", total)
	}
	r := e.Intn(total) + 1
	for i, w := range weights {
		r -= w
		if r <= 0 {
			return i
		}
	}
	log.Panicf("randengine: WeightedIndex: total: %d remainder: %d", total, r)
	return -1
}

// Exponential 生成指数分布随机数
// 功能：生成均值为mean的指数分布随机数，用于泊松到达过程的到达间隔
// 参数：mean-期望均值（秒）
// 返回：非负随机数
func (e *Engine) Exponential(mean float64) float64 {
	return e.ExpFloat64() * mean
}

// UniformRange 生成[low, high)范围内的均匀随机数
// 功能：用于车辆物理参数的有界分布采样
// 参数：low-下界，high-上界
// 返回：范围内的随机浮点数
func (e *Engine) UniformRange(low, high float64) float64 {
	return low + e.Float64()*(high-low)
}

// PTrue 以指定概率返回true
// 功能：根据给定概率返回布尔值
// 参数：p-返回true的概率（0.0到1.0之间）
// 返回：true或false
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}
