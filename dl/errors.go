package dl

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrUnexpectedStatus = errors.New("响应状态码不符合预期")
	ErrReadTimeout      = errors.New("读取超时")
	ErrShortBody        = errors.New("响应内容长度不足")
	ErrSectionOverflow  = errors.New("写入超出分段范围")
	ErrContentRange     = errors.New("Content-Range 与请求的区间不一致")

	errNotFinished = errors.New("分段没有执行完")
)

// ProbeError 获取资源信息失败，此时不会下载任何分段
type ProbeError struct {
	URL string
	Err error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("获取 %s 的信息失败：%v", e.URL, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// SinkError 创建或预分配目标文件失败，此时不会启动任何 worker
type SinkError struct {
	Path string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("创建目标文件 %s 失败：%v", e.Path, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// SegmentError 单个分段下载失败
type SegmentError struct {
	Index int
	Start int64
	End   int64
	Err   error
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("分段 %d [%d-%d] 下载失败：%v", e.Index, e.Start, e.End, e.Err)
}

func (e *SegmentError) Unwrap() error { return e.Err }
