package config

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

const defaultInterval = 1.0 / 60 // 缺省时间步长（秒）

// Parse 解析YAML场景配置
// 功能：严格解析配置数据（未知字段报错），填充缺省值并做构造前校验
// 参数：data-YAML数据
// 返回：配置与可能的错误
func Parse(data []byte) (Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	if c.Control.Step.Interval == 0 {
		c.Control.Step.Interval = defaultInterval
	}
	if c.Control.Step.Interval < 0 {
		return c, fmt.Errorf("config: step interval must be positive, got %f", c.Control.Step.Interval)
	}
	for i := range c.Segments {
		if c.Segments[i].Lanes == 0 {
			c.Segments[i].Lanes = 1
		}
		for j, p := range c.Segments[i].Points {
			if len(p) != 2 {
				return c, fmt.Errorf("config: segment %d: point %d must be [x, y]", i, j)
			}
		}
	}
	for i := range c.Generators {
		for j := range c.Generators[i].Templates {
			tmpl := &c.Generators[i].Templates[j]
			if tmpl.Weight == 0 {
				tmpl.Weight = 1
			}
			for _, idx := range tmpl.Path {
				if idx < 0 || idx >= len(c.Segments) {
					return c, fmt.Errorf("config: generator %d: template %d: path references unknown segment %d", i, j, idx)
				}
			}
		}
	}
	return c, nil
}
