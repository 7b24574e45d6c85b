package dl

import (
	"context"
	"mime"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// Resource 通过 HEAD 请求得到的资源信息，创建后不再修改
type Resource struct {
	Size         int64
	AcceptRanges bool
	ContentType  string
	FileName     string // Content-Disposition 中的文件名，可能为空
}

// probe 发送 HEAD 请求获取资源大小以及是否支持分段下载
func (d *Downloader) probe(ctx context.Context) (Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.ProbeTimeout)
	defer cancel()

	r := d.client.R().SetContext(ctx)
	if d.cfg.ProbeRetries > 0 {
		r.SetRetryCount(d.cfg.ProbeRetries)
	}
	resp, err := r.Head(d.cfg.URL)
	if err != nil {
		return Resource{}, &ProbeError{URL: d.cfg.URL, Err: err}
	}
	if resp.Body != nil {
		_ = resp.Body.Close()
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return Resource{}, &ProbeError{URL: d.cfg.URL, Err: errors.Wrapf(ErrUnexpectedStatus, "HEAD 返回 %d", resp.StatusCode)}
	}
	if resp.ContentLength <= 0 {
		return Resource{}, &ProbeError{URL: d.cfg.URL, Err: errors.Errorf("文件不存在或大小未知：Content-Length=%d", resp.ContentLength)}
	}

	res := Resource{
		Size:         resp.ContentLength,
		AcceptRanges: acceptsRanges(resp.Header),
		ContentType:  resp.Header.Get("Content-Type"),
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			res.FileName = params["filename"]
		}
	}
	return res, nil
}

// acceptsRanges Accept-Ranges 为 bytes(不区分大小写)时才支持分段下载
func acceptsRanges(h http.Header) bool {
	for _, v := range h.Values("Accept-Ranges") {
		if strings.EqualFold(strings.TrimSpace(v), "bytes") {
			return true
		}
	}
	return false
}
