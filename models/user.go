package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName string    `gorm:"size:150;not null" json:"full_name"`
	Email    string    `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Password string    `gorm:"type:text;not null" json:"-"` // rỗng nếu đăng nhập bằng Google

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Quan hệ
	Flashcards  []Flashcard  `json:"flashcards,omitempty"`
	Generations []Generation `json:"generations,omitempty"`
}

// BeforeCreate tự sinh ID trong app thay vì dựa vào default của DB
// (gen_random_uuid chỉ có trên Postgres)
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
