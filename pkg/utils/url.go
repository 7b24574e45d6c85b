package utils

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

const DefaultFileName = "index.html"

// FileNameFromURL 取 url 路径的最后一段作为文件名，取不到时返回空
func FileNameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." || name == ".." {
		return ""
	}
	return name
}

// ResolveDest 确定保存路径，依次使用 output、Content-Disposition 中的文件名、url 中的文件名
func ResolveDest(dir, output, disposition, rawURL string) string {
	name := output
	if name == "" {
		name = filepath.Base(strings.ReplaceAll(disposition, "\\", "/"))
		if name == "." || name == "/" || name == ".." {
			name = ""
		}
	}
	if name == "" {
		name = FileNameFromURL(rawURL)
	}
	if name == "" {
		name = DefaultFileName
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}
