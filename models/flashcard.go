package models

import (
	"time"

	"github.com/google/uuid"
)

type FlashcardSource string

const (
	SourceAIFull   FlashcardSource = "ai-full"   // AI sinh ra, chưa chỉnh sửa
	SourceAIEdited FlashcardSource = "ai-edited" // AI sinh ra, người dùng đã sửa
	SourceManual   FlashcardSource = "manual"    // người dùng tự tạo
)

// Giới hạn độ dài nội dung flashcard (tính theo ký tự)
const (
	MaxFrontLength = 200
	MaxBackLength  = 500
)

type Flashcard struct {
	ID     uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	Front  string          `gorm:"size:200;not null" json:"front"`
	Back   string          `gorm:"size:500;not null" json:"back"`
	Source FlashcardSource `gorm:"type:varchar(20);not null" json:"source"`

	// NULL khi source = manual, bắt buộc khi source = ai-full / ai-edited
	GenerationID *uint       `json:"generation_id"`
	Generation   *Generation `gorm:"constraint:OnDelete:SET NULL;" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
