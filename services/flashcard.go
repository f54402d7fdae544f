package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/flashcards-backend/models"
)

// FlashcardInput là một flashcard client gửi lên khi tạo (đã validate)
type FlashcardInput struct {
	Front        string                 `json:"front"`
	Back         string                 `json:"back"`
	Source       models.FlashcardSource `json:"source"`
	GenerationID *uint                  `json:"generation_id"`
}

// FlashcardService: CRUD flashcard, mọi query đều scope theo user_id
type FlashcardService struct {
	db *gorm.DB
}

func NewFlashcardService(db *gorm.DB) *FlashcardService {
	return &FlashcardService{db: db}
}

// CreateMany gắn userID vào từng record rồi batch insert
func (s *FlashcardService) CreateMany(inputs []FlashcardInput, userID uuid.UUID) ([]models.Flashcard, error) {
	flashcards := make([]models.Flashcard, 0, len(inputs))
	for _, in := range inputs {
		flashcards = append(flashcards, models.Flashcard{
			UserID:       userID,
			Front:        in.Front,
			Back:         in.Back,
			Source:       in.Source,
			GenerationID: in.GenerationID,
		})
	}

	if err := s.db.Create(&flashcards).Error; err != nil {
		return nil, fmt.Errorf("không thể tạo flashcards: %w", err)
	}
	if len(flashcards) == 0 {
		return nil, errors.New("không thể tạo flashcards: không có record nào được trả về")
	}
	return flashcards, nil
}

// VerifyGenerationOwnership: true khi generation tồn tại và thuộc về user.
// Generation không tồn tại và generation của user khác trả về giống nhau —
// caller không phân biệt được hai trường hợp.
func (s *FlashcardService) VerifyGenerationOwnership(generationID uint, userID uuid.UUID) bool {
	var generation models.Generation
	err := s.db.Select("id").
		Where("id = ? AND user_id = ?", generationID, userID).
		First(&generation).Error
	return err == nil
}

// List trả về toàn bộ flashcards của user, mới nhất trước
func (s *FlashcardService) List(userID uuid.UUID) ([]models.Flashcard, error) {
	var flashcards []models.Flashcard
	if err := s.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&flashcards).Error; err != nil {
		return nil, fmt.Errorf("không thể lấy flashcards: %w", err)
	}
	return flashcards, nil
}

// GetByID trả về (nil, nil) khi không tìm thấy — không coi là lỗi
func (s *FlashcardService) GetByID(id uint, userID uuid.UUID) (*models.Flashcard, error) {
	var flashcard models.Flashcard
	err := s.db.
		Where("id = ? AND user_id = ?", id, userID).
		First(&flashcard).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("không thể lấy flashcard: %w", err)
	}
	return &flashcard, nil
}

// Update sửa front/back. Card ai-full bị sửa nội dung sẽ chuyển thành
// ai-edited (một chiều, không bao giờ quay lại); manual và ai-edited giữ
// nguyên source. Trả về (nil, nil) khi không tìm thấy.
func (s *FlashcardService) Update(id uint, userID uuid.UUID, front, back *string) (*models.Flashcard, error) {
	current, err := s.GetByID(id, userID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, nil
	}

	changed := false
	if front != nil && *front != current.Front {
		current.Front = *front
		changed = true
	}
	if back != nil && *back != current.Back {
		current.Back = *back
		changed = true
	}

	if changed && current.Source == models.SourceAIFull {
		current.Source = models.SourceAIEdited
	}

	if err := s.db.Save(current).Error; err != nil {
		return nil, fmt.Errorf("không thể cập nhật flashcard: %w", err)
	}
	return current, nil
}

// Delete xoá theo id + user_id; trả về false khi không có record nào bị xoá
func (s *FlashcardService) Delete(id uint, userID uuid.UUID) (bool, error) {
	result := s.db.
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Flashcard{})
	if result.Error != nil {
		return false, fmt.Errorf("không thể xoá flashcard: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
