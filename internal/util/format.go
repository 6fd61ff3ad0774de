package util

import "fmt"

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatFileSize 文件大小转为可读形式（1024 进制），如 1.5 MB
func FormatFileSize(bytes int64) string {
	if bytes < 1024 {
		if bytes < 0 {
			bytes = 0
		}
		return fmt.Sprintf("%d B", bytes)
	}
	v := float64(bytes)
	unit := 0
	for v >= 1024 && unit < len(sizeUnits)-1 {
		v /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", v, sizeUnits[unit])
}
