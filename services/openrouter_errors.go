package services

import (
	"fmt"
	"time"
)

// HTTPError: OpenRouter trả về status ngoài 2xx
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
}

// TimeoutError: request vượt quá deadline (phân biệt với lỗi mạng thường)
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout sau %s", e.Timeout)
}

// Lý do response AI không hợp lệ
type InvalidResponseReason string

const (
	ReasonEmptyResponse InvalidResponseReason = "empty"
	ReasonInvalidJSON   InvalidResponseReason = "bad-json"
	ReasonInvalidFormat InvalidResponseReason = "bad-format"
)

// InvalidResponseError: nội dung AI trả về rỗng / không parse được / sai cấu trúc.
// Snippet chỉ giữ một đoạn ngắn của raw content để chẩn đoán, không bao giờ
// trả nguyên văn cho client.
type InvalidResponseError struct {
	Reason  InvalidResponseReason
	Message string
	Snippet string
}

func (e *InvalidResponseError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("%s (response: %s)", e.Message, e.Snippet)
	}
	return e.Message
}
