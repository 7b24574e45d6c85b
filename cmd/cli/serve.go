package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/timerzz/rangedl/serve"
	"github.com/urfave/cli/v2"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "提供支持 Range 请求的文件下载服务",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "设置监听地址",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "设置提供下载的本地目录",
			},
			&cli.StringFlag{
				Name:  "bucket",
				Usage: "设置提供下载的存储桶，如 s3://bucket?region=us-east-1、gs://bucket、file:///data",
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := conf.Serve
	if c.IsSet("addr") {
		s.Addr = c.String("addr")
	}
	if c.IsSet("dir") {
		s.Dir, s.Bucket = c.String("dir"), ""
	}
	if c.IsSet("bucket") {
		s.Bucket = c.String("bucket")
	}

	var store serve.Store = serve.DirStore{Root: s.Dir}
	if s.Bucket != "" {
		bucket, err := blob.OpenBucket(ctx, s.Bucket)
		if err != nil {
			return errors.Wrapf(err, "打开存储桶 %s 失败", s.Bucket)
		}
		defer bucket.Close()
		store = serve.BucketStore{Bucket: bucket}
		logrus.Infof("使用存储桶 %s", s.Bucket)
	} else {
		logrus.Infof("使用目录 %s", s.Dir)
	}

	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           serve.NewRouter(store),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("监听 %s", s.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "服务异常退出")
	case <-ctx.Done():
	}

	logrus.Info("正在关闭服务...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
