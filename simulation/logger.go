package simulation

import "github.com/sirupsen/logrus"

// log 模拟循环模块的日志记录器
var log = logrus.WithField("module", "simulation")
