package serve

import (
	"context"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
)

var ErrNotFound = errors.New("文件不存在")

// Store 按名字打开资源，返回的 Closer 在请求结束后关闭
type Store interface {
	Open(ctx context.Context, name string) (*Responder, io.Closer, error)
}

// DirStore 本地目录，名字不能跳出 Root
type DirStore struct {
	Root string
}

func (s DirStore) Open(_ context.Context, name string) (*Responder, io.Closer, error) {
	clean := path.Clean("/" + name)
	if clean == "/" {
		return nil, nil, ErrNotFound
	}
	full, err := s.resolve(clean)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, errors.Wrapf(err, "打开 %s 失败", full)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, errors.Wrapf(err, "读取 %s 信息失败", full)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, nil, ErrNotFound
	}

	rd := NewResponder(info.Size(), ReaderAtSource(f))
	rd.Name = info.Name()
	rd.ContentType = mime.TypeByExtension(filepath.Ext(full))
	return rd, f, nil
}

// resolve 解析符号链接，指向 Root 之外的文件按不存在处理
func (s DirStore) resolve(clean string) (string, error) {
	root, err := filepath.EvalSymlinks(s.Root)
	if err != nil {
		return "", errors.Wrapf(err, "解析目录 %s 失败", s.Root)
	}
	full, err := filepath.EvalSymlinks(filepath.Join(root, filepath.FromSlash(clean)))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", errors.Wrapf(err, "解析 %s 失败", clean)
	}
	rel, err := filepath.Rel(root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrNotFound
	}
	return full, nil
}

// BucketStore gocloud bucket，支持 file://、mem://、s3://、gs:// 等
type BucketStore struct {
	Bucket *blob.Bucket
}

func (s BucketStore) Open(ctx context.Context, name string) (*Responder, io.Closer, error) {
	key := path.Clean("/" + name)[1:]
	if key == "" {
		return nil, nil, ErrNotFound
	}
	attrs, err := s.Bucket.Attributes(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, nil, ErrNotFound
		}
		return nil, nil, errors.Wrapf(err, "读取 %s 信息失败", key)
	}

	rd := NewResponder(attrs.Size, BucketSource(s.Bucket, key))
	rd.Name = path.Base(key)
	rd.ContentType = attrs.ContentType
	return rd, io.NopCloser(nil), nil
}
