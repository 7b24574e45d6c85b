package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/timerzz/rangedl/pkg/config"
	"github.com/urfave/cli/v2"
)

var conf *config.Config

func main() {
	app := &cli.App{
		Name:  "rangedl",
		Usage: "基于 HTTP Range 的分段下载和文件服务",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "设置配置文件，格式为 yaml",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "设置日志级别，如 debug、info、warn",
			},
		},
		Before: func(c *cli.Context) error {
			var err error
			if conf, err = config.Load(c.String("config")); err != nil {
				return err
			}
			if c.IsSet("log-level") {
				conf.Log.Level = c.String("log-level")
			}
			return setupLog(conf.Log)
		},
		Commands: []*cli.Command{
			getCommand(),
			serveCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func setupLog(c config.LogConfig) error {
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetOutput(os.Stderr)
	return nil
}
