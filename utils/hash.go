package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashSourceText trả về SHA-256 hex của source text.
// Dùng cho audit/dedup, không bao giờ lưu nguyên văn source text.
func HashSourceText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
