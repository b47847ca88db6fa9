package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	UsernameMaxLen = 50
	// bcrypt 只处理前 72 字节
	PasswordMaxBytes = 72
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	digitsPattern   = regexp.MustCompile(`^[0-9]+$`)
)

// ValidateUsername checks if the username meets the requirements.
func ValidateUsername(username string) (bool, string) {
	if username == "" {
		return false, "请输入用户名"
	}

	if utf8.RuneCountInString(username) > UsernameMaxLen {
		return false, fmt.Sprintf("用户名最多%d个字符", UsernameMaxLen)
	}

	// 允许英文大小写、数字和下划线
	if !usernamePattern.MatchString(username) {
		return false, "用户名只能包含英文大小写、数字和下划线"
	}

	if digitsPattern.MatchString(username) {
		return false, "用户名不能为纯数字"
	}

	return true, ""
}

// ValidatePassword checks if the password meets the requirements.
// Returns true if valid, otherwise false and an error message.
func ValidatePassword(password string) (bool, string) {
	if password == "" {
		return false, "请输入密码"
	}

	if len(password) > PasswordMaxBytes {
		return false, fmt.Sprintf("密码最多%d字节", PasswordMaxBytes)
	}

	return true, ""
}

// ValidateRequiredText 校验必填文本：去除首尾空白后非空，且字符数不超过 maxLen。
// 返回去除首尾空白后的文本。
func ValidateRequiredText(field, value string, maxLen int) (string, bool, string) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false, field + "不能为空"
	}
	if utf8.RuneCountInString(trimmed) > maxLen {
		return "", false, fmt.Sprintf("%s最多%d个字符", field, maxLen)
	}
	return trimmed, true, ""
}

// FormatSizeLimit 以 MB 或 KB 展示大小上限，不足 1MB 时按 KB 显示
func FormatSizeLimit(n int64) string {
	const mb = 1 << 20
	if n >= mb && n%mb == 0 {
		return fmt.Sprintf("%dMB", n/mb)
	}
	if n >= mb {
		return fmt.Sprintf("%.1fMB", float64(n)/mb)
	}
	return fmt.Sprintf("%dKB", (n+1023)/1024)
}
