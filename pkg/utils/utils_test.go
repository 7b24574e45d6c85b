package utils

import (
	"path/filepath"
	"testing"
)

func TestSizeFormat(t *testing.T) {
	cases := map[int64]string{
		0:           "0.00 B",
		1023:        "1023.00 B",
		1024:        "1.00 KB",
		1536:        "1.50 KB",
		5 << 20:     "5.00 MB",
		3 << 30:     "3.00 GB",
		1<<60 + 100: "1024.00 PB",
	}
	for size, want := range cases {
		if got := SizeFormat(size); got != want {
			t.Errorf("SizeFormat(%d) = %q, want %q", size, got, want)
		}
	}
}

func TestFileNameFromURL(t *testing.T) {
	cases := map[string]string{
		"http://example.com/a/b/file.zip":       "file.zip",
		"http://example.com/file.zip?x=1#frag":  "file.zip",
		"http://example.com/%E6%8A%A5%E5%91%8A": "报告",
		"http://example.com/":                   "",
		"http://example.com":                    "",
		"://bad":                                "",
	}
	for raw, want := range cases {
		if got := FileNameFromURL(raw); got != want {
			t.Errorf("FileNameFromURL(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestResolveDest(t *testing.T) {
	dir := filepath.FromSlash("/data")
	cases := []struct {
		output, disposition, url, want string
	}{
		{"out.bin", "cd.bin", "http://h/u.bin", filepath.Join(dir, "out.bin")},
		{"", "cd.bin", "http://h/u.bin", filepath.Join(dir, "cd.bin")},
		{"", "../../etc/passwd", "http://h/u.bin", filepath.Join(dir, "passwd")},
		{"", "", "http://h/u.bin", filepath.Join(dir, "u.bin")},
		{"", "", "http://h/", filepath.Join(dir, DefaultFileName)},
	}
	for _, c := range cases {
		if got := ResolveDest(dir, c.output, c.disposition, c.url); got != c.want {
			t.Errorf("ResolveDest(%q, %q, %q) = %q, want %q", c.output, c.disposition, c.url, got, c.want)
		}
	}
}
