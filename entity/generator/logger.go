package generator

import "github.com/sirupsen/logrus"

// log 生成器模块的日志记录器
var log = logrus.WithField("module", "generator")
