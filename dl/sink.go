package dl

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Sink 下载的目标文件。
// 所有分段共用一个 *os.File，WriteAt 对不相交的区域并发写是安全的。
type Sink struct {
	path string
	file *os.File
}

// CreateSink 创建目标文件，preallocate 为 true 时把文件长度设置为 size
func CreateSink(path string, size int64, preallocate bool) (*Sink, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, &SinkError{Path: path, Err: err}
		}
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, &SinkError{Path: path, Err: err}
	}
	if preallocate {
		// Linux 上 Truncate 会创建稀疏文件
		if err = f.Truncate(size); err != nil {
			_ = f.Close()
			return nil, &SinkError{Path: path, Err: errors.Wrapf(err, "预分配 %d 字节", size)}
		}
	}
	return &Sink{path: path, file: f}, nil
}

func (s *Sink) Path() string {
	return s.path
}

// Section 返回只能写 [offset, offset+length) 的 Writer
func (s *Sink) Section(offset, length int64) io.Writer {
	return &sectionWriter{w: s.file, base: offset, limit: length}
}

// Close 同步到磁盘并关闭，写了一半的文件不会被删除
func (s *Sink) Close() error {
	if err := s.file.Sync(); err != nil {
		_ = s.file.Close()
		return err
	}
	return s.file.Close()
}

type sectionWriter struct {
	w     io.WriterAt
	base  int64
	off   int64
	limit int64
}

func (w *sectionWriter) Write(p []byte) (int, error) {
	if int64(len(p)) > w.limit-w.off {
		return 0, ErrSectionOverflow
	}
	n, err := w.w.WriteAt(p, w.base+w.off)
	w.off += int64(n)
	return n, err
}
