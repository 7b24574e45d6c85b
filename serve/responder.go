package serve

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"github.com/timerzz/rangedl/pkg/byterange"
)

const (
	HeaderRange              = "Range"
	HeaderAcceptRanges       = "Accept-Ranges"
	HeaderContentRange       = "Content-Range"
	HeaderContentLength      = "Content-Length"
	HeaderContentType        = "Content-Type"
	HeaderContentDisposition = "Content-Disposition"

	defaultContentType = "application/octet-stream"
)

// Responder 根据 Range 头计算要返回的区间，并从 Source 读出对应的字节
type Responder struct {
	size int64
	src  Source

	// Name 不为空时设置 Content-Disposition
	Name string
	// ContentType 为空时使用 application/octet-stream
	ContentType string
}

func NewResponder(size int64, src Source) *Responder {
	return &Responder{size: size, src: src}
}

func (rd *Responder) Size() int64 {
	return rd.size
}

// Response 要写回客户端的内容，Body 为 nil 表示没有响应体
type Response struct {
	Status int
	Header http.Header
	Span   byterange.Span
	Body   io.ReadCloser
}

// Close 关闭 Body
func (r *Response) Close() error {
	if r.Body == nil {
		return nil
	}
	return r.Body.Close()
}

// Respond 处理 Range 头，rangeHeader 为空表示请求没有带 Range。
//
// 没有 Range 返回 200 和整个文件；格式错误或超出范围返回 416；否则返回 206。
// 只有 Source 读取失败时才返回 error。
func (rd *Responder) Respond(ctx context.Context, rangeHeader string) (*Response, error) {
	h := make(http.Header)
	h.Set(HeaderAcceptRanges, "bytes")

	v, err := byterange.Parse(rangeHeader)
	if err == nil && v.Kind == byterange.None {
		return rd.full(ctx, h)
	}

	var span byterange.Span
	if err == nil {
		span, err = v.Resolve(rd.size)
	}
	if err != nil {
		h.Set(HeaderContentRange, byterange.FormatUnsatisfied(rd.size))
		return &Response{Status: http.StatusRequestedRangeNotSatisfiable, Header: h}, nil
	}

	rd.setEntityHeaders(h)
	h.Set(HeaderContentRange, span.ContentRange(rd.size))
	h.Set(HeaderContentLength, strconv.FormatInt(span.Len(), 10))
	body, err := rd.src.ReadRange(ctx, span.Start, span.Len())
	if err != nil {
		return nil, errors.Wrapf(err, "读取区间 %s 失败", span)
	}
	return &Response{Status: http.StatusPartialContent, Header: h, Span: span, Body: body}, nil
}

// full 200，返回整个文件
func (rd *Responder) full(ctx context.Context, h http.Header) (*Response, error) {
	rd.setEntityHeaders(h)
	h.Set(HeaderContentLength, strconv.FormatInt(rd.size, 10))
	resp := &Response{Status: http.StatusOK, Header: h}
	if rd.size <= 0 {
		return resp, nil
	}
	body, err := rd.src.ReadRange(ctx, 0, rd.size)
	if err != nil {
		return nil, errors.Wrap(err, "读取文件失败")
	}
	resp.Span = byterange.Span{Start: 0, End: rd.size - 1}
	resp.Body = body
	return resp, nil
}

func (rd *Responder) setEntityHeaders(h http.Header) {
	ct := rd.ContentType
	if ct == "" {
		ct = defaultContentType
	}
	h.Set(HeaderContentType, ct)
	if rd.Name != "" {
		h.Set(HeaderContentDisposition, ContentDisposition(rd.Name))
	}
}
