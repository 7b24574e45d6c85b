package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/timerzz/rangedl/dl"
	"github.com/timerzz/rangedl/pkg/progressbar"
	"github.com/timerzz/rangedl/pkg/utils"
	"github.com/urfave/cli/v2"
)

func getCommand() *cli.Command {
	return &cli.Command{
		Name:  "get",
		Usage: "分段下载一个文件",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "u",
				Aliases:  []string{"url"},
				Usage:    "设置要下载的url",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "o",
				Aliases: []string{"output"},
				Usage:   "设置保存的文件名称，默认使用服务器返回的文件名或url中的文件名",
			},
			&cli.StringFlag{
				Name:    "d",
				Aliases: []string{"dir"},
				Usage:   "设置保存的目录",
			},
			&cli.IntFlag{
				Name:  "thread",
				Usage: "设置分段数，也是最大并发数",
			},
			&cli.IntFlag{
				Name:  "read-timeout",
				Usage: "设置每次读取的超时时间，单位秒",
			},
			&cli.IntFlag{
				Name:    "t",
				Aliases: []string{"timeout"},
				Usage:   "设置获取文件信息的超时时间，单位秒",
			},
			&cli.IntFlag{
				Name:    "r",
				Aliases: []string{"retry"},
				Usage:   "设置获取文件信息的重试次数",
			},
			&cli.StringFlag{
				Name:  "proxy",
				Usage: "设置使用的代理，格式如：http://localhost:3000",
			},
			&cli.BoolFlag{
				Name:  "fail-fast",
				Usage: "一个分段失败后立即停止其他分段",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "下载结束后把结果和失败的分段写入 yaml 文件",
			},
		},
		Action: runGet,
	}
}

// downloadConfig 配置文件中的值作为默认值，命令行参数优先
func downloadConfig(c *cli.Context) dl.Config {
	d := conf.Download
	cfg := dl.Config{
		URL:          c.String("u"),
		Dir:          d.Dir,
		Workers:      d.Workers,
		ReadTimeout:  d.ReadTimeout,
		ProbeTimeout: d.ProbeTimeout,
		ProbeRetries: d.ProbeRetries,
		Proxy:        d.Proxy,
		FailFast:     d.FailFast,
	}
	if c.IsSet("d") {
		cfg.Dir = c.String("d")
	}
	if c.IsSet("o") {
		cfg.Dest = utils.ResolveDest(cfg.Dir, c.String("o"), "", cfg.URL)
	}
	if c.IsSet("thread") {
		cfg.Workers = c.Int("thread")
	}
	if c.IsSet("read-timeout") {
		cfg.ReadTimeout = time.Second * time.Duration(c.Int("read-timeout"))
	}
	if c.IsSet("t") {
		cfg.ProbeTimeout = time.Second * time.Duration(c.Int("t"))
	}
	if c.IsSet("r") {
		cfg.ProbeRetries = c.Int("r")
	}
	if c.IsSet("proxy") {
		cfg.Proxy = c.String("proxy")
	}
	if c.IsSet("fail-fast") {
		cfg.FailFast = c.Bool("fail-fast")
	}
	return cfg
}

func runGet(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := dl.New(downloadConfig(c))

	bar := progressbar.New(
		progressbar.WithInterval(time.Second),
		progressbar.WithStepHook(func(b *progressbar.Bar) {
			b.SetLength(d.Size())
			b.SetSize(d.Downloaded())
			b.SetSegments(d.Progress())
		}),
		progressbar.WithTitle("正在下载"),
		progressbar.WithFinishHook(func() {
			fmt.Println()
		}),
	)
	go bar.Run()
	res, err := d.Run(ctx)
	bar.Finish()

	if res == nil {
		return err
	}
	printResult(res)
	if ct := d.Resource().ContentType; ct != "" {
		fmt.Printf(" 类型：%s\n", ct)
	}
	if path := c.String("report"); path != "" {
		if rerr := saveReport(path, res); rerr != nil {
			logrus.Errorf("保存下载报告失败：%v", rerr)
		}
	}
	if err != nil {
		return errors.WithMessage(err, "下载被中断")
	}
	if !res.Succeeded {
		return cli.Exit(fmt.Sprintf("%d 个分段下载失败", len(res.Failed)), 1)
	}
	return nil
}

func saveReport(path string, res *dl.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = res.WriteReport(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func printResult(res *dl.Result) {
	var speed int64
	if s := res.Elapsed.Seconds(); s > 0 {
		speed = int64(float64(res.Written) / s)
	}
	fmt.Printf(" 文件：%s\n 大小：%s  耗时：%s  平均速度：%s / s\n",
		res.Path,
		utils.SizeFormat(res.Written),
		res.Elapsed.Round(time.Millisecond),
		utils.SizeFormat(speed))
	for _, f := range res.Failed {
		fmt.Printf(" 失败分段 %d：bytes=%s  %v\n", f.Index, f.Span(), f.Err)
	}
}
