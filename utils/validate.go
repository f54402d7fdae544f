package utils

import (
	"fmt"
	"unicode/utf8"
)

// Giới hạn độ dài source text khi sinh flashcard
const (
	MinSourceTextLength = 1000
	MaxSourceTextLength = 10000
)

// ValidateSourceText kiểm tra độ dài source text (tính theo ký tự)
func ValidateSourceText(text string) error {
	length := utf8.RuneCountInString(text)
	if length < MinSourceTextLength {
		return fmt.Errorf("source_text phải có ít nhất %d ký tự (hiện tại %d)", MinSourceTextLength, length)
	}
	if length > MaxSourceTextLength {
		return fmt.Errorf("source_text không được vượt quá %d ký tự (hiện tại %d)", MaxSourceTextLength, length)
	}
	return nil
}
