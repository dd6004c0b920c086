package util

import (
	"fmt"
	"strings"
	"time"
)

// 파일명에 사용할 수 없는 문자
var unsafeChars = []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}

// SafeFileName 파일명으로 쓸 수 없는 문자를 밑줄로 치환
func SafeFileName(name string) string {
	for _, ch := range unsafeChars {
		name = strings.ReplaceAll(name, ch, "_")
	}
	return strings.TrimSpace(name)
}

// OutputFileName 패턴의 {timestamp}를 현재 시각으로 치환한 출력 파일명
func OutputFileName(pattern string, now time.Time) string {
	name := strings.ReplaceAll(pattern, "{timestamp}", now.Format("20060102_150405"))
	return SafeFileName(name)
}

// FormatFileSize 사람이 읽기 쉬운 파일 크기 표기
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGT"[exp])
}
