package utils

import "cmp"

// Clamp は v を [lo, hi] の範囲に収めます。
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TruncateRunes は文字列を先頭から最大 n 文字（ルーン単位）に切り詰めます。
// マルチバイト文字の途中で切れないようにするためなのだ。
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
