package dl

import (
	"time"

	"github.com/panjf2000/ants/v2"
)

const (
	DefaultWorkers      = 8
	DefaultReadTimeout  = 5 * time.Second
	DefaultProbeTimeout = 15 * time.Second
)

type Config struct {
	URL  string // 要下载的资源
	Dest string // 保存的文件路径，为空时根据 Dir 和资源的文件名确定
	Dir  string // Dest 为空时保存的目录

	Workers      int           // 分段数，也是最大并发数
	ReadTimeout  time.Duration // 每次读取的超时时间，不是整个下载的超时
	ProbeTimeout time.Duration // HEAD 请求的超时时间
	ProbeRetries int           // HEAD 请求的重试次数，分段下载不会重试
	Proxy        string
	FailFast     bool // 一个分段失败后取消其他分段

	// Pool 外部传入的协程池，为空时按 Workers 创建
	Pool *ants.Pool
}

func (c *Config) withDefaults() Config {
	cfg := *c
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}
	return cfg
}
