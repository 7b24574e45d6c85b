package progressbar

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/timerzz/rangedl/pkg/utils"
)

type cfg struct {
	interval   time.Duration
	stepHook   func(*Bar)
	finishHook func()
	title      string
	out        io.Writer
}

// Bar 按字节显示下载进度，同时显示完成的分段数
type Bar struct {
	lock sync.Mutex

	total    int64 //分段总数
	cur      int64 //完成的分段数
	length   int64 //文件大小
	size     int64 //已下载字节数
	lastSize int64
	lastTime time.Time

	cfg cfg

	finish chan struct{}
	done   chan struct{}
}

func New(opts ...Option) *Bar {
	c := cfg{interval: time.Second, out: os.Stdout}
	for _, opt := range opts {
		opt(&c)
	}
	return &Bar{
		cfg:    c,
		finish: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (b *Bar) Run() {
	defer close(b.done)
	ticker := time.NewTicker(b.cfg.interval)
	defer ticker.Stop()
	b.lastTime = time.Now()
	for {
		select {
		case <-ticker.C:
			if b.cfg.stepHook != nil {
				b.cfg.stepHook(b)
			}
			if b.length <= 0 {
				continue
			}
			b.render()
			b.lastTime = time.Now()
		case <-b.finish:
			if b.cfg.stepHook != nil {
				b.cfg.stepHook(b)
			}
			if b.length > 0 {
				b.render()
			}
			if b.cfg.finishHook != nil {
				b.cfg.finishHook()
			}
			return
		}
	}
}

func (b *Bar) render() {
	b.lock.Lock()
	defer b.lock.Unlock()
	_, _ = fmt.Fprintf(b.cfg.out, "\r %s %6.2f%%  %s/%s  分段 %d/%d %20s",
		b.cfg.title,
		100*float64(b.size)/float64(b.length),
		utils.SizeFormat(b.size), utils.SizeFormat(b.length),
		b.cur, b.total,
		utils.SpeedFormat(b.lastTime, b.size-b.lastSize))
}

// SetSegments 设置完成的分段数和分段总数
func (b *Bar) SetSegments(cur, total int64) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.cur, b.total = cur, total
}

// SetLength 设置文件大小
func (b *Bar) SetLength(t int64) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.length = t
}

// SetSize 设置已下载的字节数
func (b *Bar) SetSize(t int64) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.lastSize, b.size = b.size, t
}

// Finish 停止刷新并等待最后一次渲染完成
func (b *Bar) Finish() {
	b.finish <- struct{}{}
	<-b.done
}

type Option func(*cfg)

func WithInterval(duration time.Duration) Option {
	return func(cfg *cfg) {
		cfg.interval = duration
	}
}

func WithTitle(title string) Option {
	return func(cfg *cfg) {
		cfg.title = title
	}
}

func WithWriter(w io.Writer) Option {
	return func(cfg *cfg) {
		cfg.out = w
	}
}

func WithStepHook(h func(self *Bar)) Option {
	return func(cfg *cfg) {
		cfg.stepHook = h
	}
}

func WithFinishHook(h func()) Option {
	return func(cfg *cfg) {
		cfg.finishHook = h
	}
}
