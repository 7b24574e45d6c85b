package config

import (
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，如 RANGEDL_DOWNLOAD_WORKERS
const EnvPrefix = "RANGEDL"

type Config struct {
	Download DownloadConfig `mapstructure:"download" yaml:"download"`
	Serve    ServeConfig    `mapstructure:"serve" yaml:"serve"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

type DownloadConfig struct {
	Dir          string        `mapstructure:"dir" yaml:"dir"`
	Workers      int           `mapstructure:"workers" yaml:"workers"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout" yaml:"probe_timeout"`
	ProbeRetries int           `mapstructure:"probe_retries" yaml:"probe_retries"`
	Proxy        string        `mapstructure:"proxy" yaml:"proxy"`
	FailFast     bool          `mapstructure:"fail_fast" yaml:"fail_fast"`
}

type ServeConfig struct {
	Addr   string `mapstructure:"addr" yaml:"addr"`
	Dir    string `mapstructure:"dir" yaml:"dir"`
	Bucket string `mapstructure:"bucket" yaml:"bucket"` // gocloud bucket url，如 s3://bucket?region=us-east-1
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Load 读取配置。path 为空时只使用默认值和环境变量
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("download.dir", ".")
	v.SetDefault("download.workers", 8)
	v.SetDefault("download.read_timeout", 5*time.Second)
	v.SetDefault("download.probe_timeout", 15*time.Second)
	v.SetDefault("download.probe_retries", 0)
	v.SetDefault("download.proxy", "")
	v.SetDefault("download.fail_fast", false)
	v.SetDefault("serve.addr", ":8080")
	v.SetDefault("serve.dir", ".")
	v.SetDefault("serve.bucket", "")
	v.SetDefault("log.level", "info")

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrapf(err, "配置文件不存在：%s", path)
		}
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "读取配置文件失败：%s", path)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "解析配置失败")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Download.Workers <= 0 {
		return errors.Errorf("download.workers 必须大于 0，当前为 %d", c.Download.Workers)
	}
	if c.Download.ReadTimeout <= 0 {
		return errors.New("download.read_timeout 必须大于 0")
	}
	if c.Download.ProbeTimeout <= 0 {
		return errors.New("download.probe_timeout 必须大于 0")
	}
	if c.Download.ProbeRetries < 0 {
		c.Download.ProbeRetries = 0
	}
	if c.Download.Proxy != "" {
		if _, err := url.Parse(c.Download.Proxy); err != nil {
			return errors.Wrap(err, "download.proxy 格式错误")
		}
	}
	if c.Download.Dir == "" {
		c.Download.Dir = "."
	}
	if c.Serve.Addr == "" {
		return errors.New("serve.addr 不能为空")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.level 格式错误")
	}
	return nil
}
