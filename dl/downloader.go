package dl

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/imroc/req/v3"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"
	"github.com/timerzz/rangedl/pkg/utils"
)

type Downloader struct {
	id  string
	cfg Config //配置

	client *req.Client //http客户端
	sink   *Sink
	log    *logrus.Entry

	lock     sync.RWMutex // 保护 resource 和 dest，Run 开始下载前写入一次
	resource Resource
	dest     string
	segments []*Segment

	size       atomic.Int64 //文件大小
	total      atomic.Int64 //分段总数
	complete   atomic.Int64 //完成的分段数
	downloaded atomic.Int64 //已经下载的字节数
}

func New(cfg Config) *Downloader {
	cfg = cfg.withDefaults()

	// 整个请求不设超时，由 ReadTimeout 控制每次读取
	client := req.C().
		SetTimeout(0).
		SetLogger(logrus.StandardLogger()).
		DisableAutoReadResponse().
		DisableCompression().
		DisableAutoDecode()
	if cfg.Proxy != "" {
		client = client.SetProxyURL(cfg.Proxy)
	}

	id := ksuid.New().String()
	return &Downloader{
		id:     id,
		cfg:    cfg,
		client: client,
		log:    logrus.WithFields(logrus.Fields{"transfer": id, "url": cfg.URL}),
	}
}

// ID 本次下载的标识
func (d *Downloader) ID() string {
	return d.id
}

// Run 下载文件，阻塞到所有分段都结束。
//
// 获取资源信息或创建文件失败时返回 *ProbeError / *SinkError，不会启动任何分段。
// 其他情况总是返回 Result，单个分段的失败记录在 Result.Failed 中。
// ctx 被取消时返回 Result 和 ctx 的错误，写了一半的文件需要调用方清理。
func (d *Downloader) Run(ctx context.Context) (*Result, error) {
	started := time.Now()

	res, err := d.probe(ctx)
	if err != nil {
		return nil, err
	}
	d.size.Store(res.Size)
	if !res.AcceptRanges {
		d.log.Warn("服务器不支持分段下载，使用单线程下载")
	}

	segments, err := Plan(res.Size, d.cfg.Workers, res.AcceptRanges)
	if err != nil {
		return nil, &ProbeError{URL: d.cfg.URL, Err: err}
	}
	d.segments = segments
	d.total.Store(int64(len(segments)))

	dest := d.cfg.Dest
	if dest == "" {
		dest = utils.ResolveDest(d.cfg.Dir, "", res.FileName, d.cfg.URL)
	}
	d.lock.Lock()
	d.resource, d.dest = res, dest
	d.lock.Unlock()

	// 单线程下载时不需要预分配，顺序写入即可
	sink, err := CreateSink(dest, res.Size, !segments[0].Sequential)
	if err != nil {
		return nil, err
	}
	d.sink = sink

	pool := d.cfg.Pool
	if pool == nil {
		if pool, err = ants.NewPool(d.cfg.Workers, ants.WithLogger(logrus.StandardLogger())); err != nil {
			_ = sink.Close()
			return nil, errors.Wrap(err, "创建协程池失败")
		}
		defer pool.Release()
	}

	d.log.Infof("开始下载到 %s，大小 %s，分段 %d 个", sink.Path(), utils.SizeFormat(res.Size), len(segments))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for _, s := range segments {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if d.execute(runCtx, s) != nil && d.cfg.FailFast {
				cancel()
			}
		})
		if err != nil {
			wg.Done()
			s.setStatus(StatusFailed, &SegmentError{Index: s.Index, Start: s.Start, End: s.End, Err: errors.Wrap(err, "提交任务失败")})
			d.log.Errorf("提交任务失败：%v", err)
		}
	}
	wg.Wait()

	closeErr := sink.Close()
	result := newResult(d, time.Since(started))

	if ctx.Err() != nil {
		return result, ctx.Err()
	}
	if closeErr != nil {
		result.Succeeded = false
		return result, &SinkError{Path: sink.Path(), Err: closeErr}
	}

	if result.Succeeded {
		d.log.Infof("下载完成，耗时 %s", result.Elapsed)
	} else {
		d.log.Errorf("下载未完成，%d 个分段失败", len(result.Failed))
	}
	return result, nil
}

// Dest 保存的文件路径，Run 获取资源信息之后才能确定，在此之前为空
func (d *Downloader) Dest() string {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.dest
}

// Resource 资源信息，Run 获取资源信息之前为空
func (d *Downloader) Resource() Resource {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.resource
}

// Size 文件大小
func (d *Downloader) Size() int64 {
	return d.size.Load()
}

// Downloaded 已经下载的大小
func (d *Downloader) Downloaded() int64 {
	return d.downloaded.Load()
}

// Progress 获取完成的分段数和分段总数
func (d *Downloader) Progress() (int64, int64) {
	return d.complete.Load(), d.total.Load()
}
