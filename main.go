package main

import (
	"flag"
	"os"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"

	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/output"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/simulation"
	"github.com/tsinghua-fib-lab/microtraffic-sim-oss/utils/config"
)

var (
	// 场景配置文件路径
	configPath = flag.String("config", "", "scenario config file path")
	// HTML报表输出路径，设置为空则不输出报表
	reportPath = flag.String("report", "", "HTML report output path (empty means no report)")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "日志级别（可选项：trace debug info warn error critical off）")

	log = logrus.WithField("module", "main")
)

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}
	if *configPath == "" {
		log.Panic("config file must be specified")
	}
	file, err := os.ReadFile(*configPath)
	if err != nil {
		log.Panicf("config file load err: %v", err)
	}
	c, err := config.Parse(file)
	if err != nil {
		log.Panicf("config file load err: %v", err)
	}
	log.Infof("%+v", c)

	sim, err := simulation.NewFromConfig(c)
	if err != nil {
		log.Panicf("scenario build err: %v", err)
	}
	sim.Run(int(c.Control.Step.Total))

	s := output.Summarize(sim)
	log.Infof("finished at %s: vehicles=%d departures=%d arrivals=%d mean_travel=%.2fs std_travel=%.2fs",
		sim.Clock(), s.Vehicles, s.Departures, s.Arrivals, s.MeanTravelTime, s.StdTravelTime)

	if *reportPath != "" {
		if err := output.WriteReport(sim, *reportPath); err != nil {
			log.Errorf("report write err: %v", err)
		} else {
			log.Infof("report written to %s", *reportPath)
		}
	}
}
