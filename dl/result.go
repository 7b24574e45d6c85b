package dl

import (
	"time"

	"github.com/timerzz/rangedl/pkg/byterange"
)

// FailedSegment 失败的分段，调用方可以按区间重新下载
type FailedSegment struct {
	Index int
	Start int64
	End   int64
	Err   error
}

func (f FailedSegment) Span() byterange.Span {
	return byterange.Span{Start: f.Start, End: f.End}
}

// Result 一次下载的结果，所有分段结束后生成
type Result struct {
	ID       string
	URL      string
	Path     string
	Resource Resource
	Segments []*Segment

	Succeeded bool
	Failed    []FailedSegment // 按分段顺序
	Written   int64
	Elapsed   time.Duration
}

func newResult(d *Downloader, elapsed time.Duration) *Result {
	r := &Result{
		ID:        d.id,
		URL:       d.cfg.URL,
		Path:      d.Dest(),
		Resource:  d.Resource(),
		Segments:  d.segments,
		Succeeded: true,
		Written:   d.downloaded.Load(),
		Elapsed:   elapsed,
	}
	for _, s := range d.segments {
		if s.Status() == StatusDone {
			continue
		}
		r.Succeeded = false
		err := s.Err()
		if err == nil {
			err = &SegmentError{Index: s.Index, Start: s.Start, End: s.End, Err: errNotFinished}
		}
		r.Failed = append(r.Failed, FailedSegment{Index: s.Index, Start: s.Start, End: s.End, Err: err})
	}
	return r
}
