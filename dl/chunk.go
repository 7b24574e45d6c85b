package dl

import (
	"sync"

	"github.com/timerzz/rangedl/pkg/byterange"
)

const (
	StatusFailed = Status(iota - 1)
	StatusPending
	StatusInProgress
	StatusDone
)

type Status int

func (s Status) String() string {
	switch s {
	case StatusFailed:
		return "failed"
	case StatusPending:
		return "pending"
	case StatusInProgress:
		return "in-progress"
	case StatusDone:
		return "done"
	}
	return "unknown"
}

// Segment 一个分段，[Start, End] 闭区间。
// 状态只由负责它的 worker 修改，Downloader 在 worker 结束后读取。
type Segment struct {
	Index      int
	Start      int64
	End        int64
	Sequential bool // 服务器不支持 Range，整个文件一次读完

	lock   sync.Mutex
	status Status
	err    error
}

// Len 分段的字节数
func (s *Segment) Len() int64 {
	return s.End - s.Start + 1
}

func (s *Segment) Span() byterange.Span {
	return byterange.Span{Start: s.Start, End: s.End}
}

func (s *Segment) Status() Status {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.status
}

// Err 失败原因，没有失败时为 nil
func (s *Segment) Err() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.err
}

func (s *Segment) setStatus(status Status, err error) {
	s.lock.Lock()
	s.status = status
	s.err = err
	s.lock.Unlock()
}
