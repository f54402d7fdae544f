package models

import (
	"time"

	"github.com/google/uuid"
)

// Generation ghi lại một lần gọi AI thành công (bất biến sau khi tạo)
type Generation struct {
	ID     uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	Model          string `gorm:"size:100;not null" json:"model"`
	GeneratedCount int    `gorm:"not null" json:"generated_count"`

	// SHA-256 của source text, không lưu nguyên văn
	SourceTextHash   string `gorm:"size:64;not null;index" json:"source_text_hash"`
	SourceTextLength int    `gorm:"not null" json:"source_text_length"`

	// Thời gian gọi AI (milliseconds)
	GenerationDuration int64 `gorm:"not null" json:"generation_duration"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// GenerationErrorLog ghi lại một lần gọi AI thất bại (append-only)
type GenerationErrorLog struct {
	ID     uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Model            string `gorm:"size:100;not null" json:"model"`
	SourceTextHash   string `gorm:"size:64;not null" json:"source_text_hash"`
	SourceTextLength int    `gorm:"not null" json:"source_text_length"`

	ErrorCode    string `gorm:"size:50;not null" json:"error_code"`
	ErrorMessage string `gorm:"size:1000;not null" json:"error_message"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
