package serve

import (
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"
	"gocloud.dev/blob"
)

// Source 按区间读取资源，返回的 Reader 最多读出 length 个字节
type Source interface {
	ReadRange(ctx context.Context, offset, length int64) (io.ReadCloser, error)
}

// SourceFunc 函数形式的 Source
type SourceFunc func(ctx context.Context, offset, length int64) (io.ReadCloser, error)

func (f SourceFunc) ReadRange(ctx context.Context, offset, length int64) (io.ReadCloser, error) {
	return f(ctx, offset, length)
}

// ReaderAtSource 适用于文件、bytes.Reader 等支持随机读取的资源
func ReaderAtSource(r io.ReaderAt) Source {
	return SourceFunc(func(_ context.Context, offset, length int64) (io.ReadCloser, error) {
		return io.NopCloser(io.NewSectionReader(r, offset, length)), nil
	})
}

// StreamSource 只能顺序读取的资源，先跳过 offset 个字节再读 length 个字节。
// 只能使用一次。
func StreamSource(r io.Reader) Source {
	var once sync.Once
	return SourceFunc(func(_ context.Context, offset, length int64) (io.ReadCloser, error) {
		used := true
		once.Do(func() { used = false })
		if used {
			return nil, errors.New("StreamSource 只能读取一次")
		}
		if _, err := io.CopyN(io.Discard, r, offset); err != nil {
			return nil, errors.Wrapf(err, "跳过 %d 字节失败", offset)
		}
		rc := struct {
			io.Reader
			io.Closer
		}{Reader: io.LimitReader(r, length), Closer: io.NopCloser(nil)}
		if c, ok := r.(io.Closer); ok {
			rc.Closer = c
		}
		return rc, nil
	})
}

// BucketSource 从 gocloud bucket 中的对象按区间读取
func BucketSource(bucket *blob.Bucket, key string) Source {
	return SourceFunc(func(ctx context.Context, offset, length int64) (io.ReadCloser, error) {
		r, err := bucket.NewRangeReader(ctx, key, offset, length, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "读取 %s 失败", key)
		}
		return r, nil
	})
}
