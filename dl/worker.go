package dl

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/timerzz/nio"
	"github.com/timerzz/rangedl/pkg/byterange"
)

const chunkSize = 32 * 1024

var bufPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, chunkSize)
		return &b
	},
}

// execute 下载一个分段并更新它的状态，失败不重试
func (d *Downloader) execute(ctx context.Context, s *Segment) error {
	log := d.log.WithFields(logrus.Fields{"segment": s.Index, "range": s.Span().String()})
	s.setStatus(StatusInProgress, nil)

	var err error
	if ctx.Err() != nil {
		err = errors.Wrap(context.Cause(ctx), "下载已取消")
	} else {
		err = d.fetch(ctx, s)
	}
	if err != nil {
		err = &SegmentError{Index: s.Index, Start: s.Start, End: s.End, Err: err}
		s.setStatus(StatusFailed, err)
		log.Errorf("分段下载失败：%v", err)
		return err
	}

	s.setStatus(StatusDone, nil)
	d.complete.Add(1)
	log.Debug("分段下载完成")
	return nil
}

// fetch 请求一个分段并写到 sink 中 s.Start 的位置。
// ReadTimeout 在发请求前开始计时，每读到一块数据重新计时。
func (d *Downloader) fetch(ctx context.Context, s *Segment) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	timeout := d.cfg.ReadTimeout
	watchdog := time.AfterFunc(timeout, func() { cancel(ErrReadTimeout) })
	defer watchdog.Stop()

	r := d.client.R().SetContext(ctx)
	expect := http.StatusOK
	if !s.Sequential {
		r.SetHeader("Range", s.Span().Header())
		expect = http.StatusPartialContent
	}

	resp, err := r.Get(d.cfg.URL)
	if err != nil {
		return interrupted(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != expect {
		return errors.Wrapf(ErrUnexpectedStatus, "期望 %d，实际 %d", expect, resp.StatusCode)
	}
	if !s.Sequential {
		if err = d.checkContentRange(s, resp.Header.Get("Content-Range")); err != nil {
			return err
		}
	}

	w := nio.NWriter(d.sink.Section(s.Start, s.Len()), func(n int) {
		d.downloaded.Add(int64(n))
	})

	bp := bufPool.Get().(*[]byte)
	defer bufPool.Put(bp)
	buf := *bp

	var written int64
	for {
		watchdog.Reset(timeout)
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return errors.Wrap(werr, "写入文件失败")
			}
			written += int64(n)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return interrupted(ctx, rerr)
		}
	}

	if written != s.Len() {
		return errors.Wrapf(ErrShortBody, "期望 %d 字节，实际 %d 字节", s.Len(), written)
	}
	return nil
}

// checkContentRange 206 返回的区间必须和请求的一致，否则写入的位置是错的
func (d *Downloader) checkContentRange(s *Segment, raw string) error {
	span, size, err := byterange.ParseContentRange(raw)
	if err != nil {
		return errors.Wrap(ErrContentRange, err.Error())
	}
	total := d.size.Load()
	if span != s.Span() || (size != -1 && size != total) {
		return errors.Wrapf(ErrContentRange, "期望 %s，实际 %q", s.Span().ContentRange(total), raw)
	}
	return nil
}

// interrupted 如果是超时或取消导致的错误，返回对应的原因
func interrupted(ctx context.Context, err error) error {
	if cause := context.Cause(ctx); cause != nil {
		return errors.Wrap(cause, err.Error())
	}
	return err
}
