package utils

import (
	"fmt"
	"time"
)

var units = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// SizeFormat 把字节数转成可读的大小，如 1.50 MB
func SizeFormat(size int64) string {
	showSize := float64(size)
	idx := 0
	for showSize >= 1024 && idx < len(units)-1 {
		showSize = showSize / 1024
		idx++
	}
	return fmt.Sprintf("%.2f %s", showSize, units[idx])
}

// SpeedFormat 计算从 lastTime 到现在下载 size 字节的速度
func SpeedFormat(lastTime time.Time, size int64) string {
	s := time.Since(lastTime).Seconds()
	if s <= 0 {
		return SizeFormat(0) + " / s"
	}
	return SizeFormat(int64(float64(size)/s)) + " / s"
}
