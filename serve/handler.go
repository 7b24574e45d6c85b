package serve

import (
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

// Write 把 resp 写到 w 并关闭 resp.Body，HEAD 请求只写响应头
func Write(w http.ResponseWriter, r *http.Request, resp *Response) error {
	defer resp.Close()

	for k, vs := range resp.Header {
		w.Header()[k] = vs
	}
	w.WriteHeader(resp.Status)
	if resp.Body == nil || r.Method == http.MethodHead {
		return nil
	}
	_, err := io.Copy(w, resp.Body)
	return err
}

// ServeHTTP 让 Responder 可以直接作为 http.Handler 使用
func (rd *Responder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp, err := rd.Respond(r.Context(), r.Header.Get(HeaderRange))
	if err != nil {
		logrus.Errorf("处理请求 %s 失败：%v", r.URL.Path, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if err = Write(w, r, resp); err != nil {
		logrus.Warnf("发送 %s 中断：%v", r.URL.Path, err)
	}
}

// ContentDisposition 下载时的文件名，非 ASCII 的文件名放在 filename* 中避免乱码
func ContentDisposition(name string) string {
	var fallback strings.Builder
	for _, r := range name {
		switch {
		case r == '"' || r == '\\' || r < 0x20 || r > 0x7e:
			fallback.WriteByte('_')
		default:
			fallback.WriteRune(r)
		}
	}
	encoded := strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
	return `attachment; filename="` + fallback.String() + `"; filename*=UTF-8''` + encoded
}
