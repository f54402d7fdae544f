package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/flashcards-backend/models"
	"github.com/vnkhanh/flashcards-backend/services"
)

// Giới hạn số flashcard trong một lần tạo
const maxFlashcardsPerRequest = 50

type CreateFlashcardsInput struct {
	Flashcards []services.FlashcardInput `json:"flashcards" binding:"required"`
}

type UpdateFlashcardInput struct {
	Front string `json:"front" binding:"required"`
	Back  string `json:"back" binding:"required"`
}

// validateFlashcardInput kiểm tra một flashcard client gửi lên:
// độ dài front/back, source hợp lệ, và ràng buộc generation_id
// (bắt buộc với ai-full/ai-edited, phải null với manual)
func validateFlashcardInput(index int, in services.FlashcardInput) error {
	if in.Front == "" {
		return fmt.Errorf("flashcard thứ %d: front không được rỗng", index)
	}
	if utf8.RuneCountInString(in.Front) > models.MaxFrontLength {
		return fmt.Errorf("flashcard thứ %d: front vượt quá %d ký tự", index, models.MaxFrontLength)
	}
	if in.Back == "" {
		return fmt.Errorf("flashcard thứ %d: back không được rỗng", index)
	}
	if utf8.RuneCountInString(in.Back) > models.MaxBackLength {
		return fmt.Errorf("flashcard thứ %d: back vượt quá %d ký tự", index, models.MaxBackLength)
	}

	switch in.Source {
	case models.SourceAIFull, models.SourceAIEdited:
		if in.GenerationID == nil {
			return fmt.Errorf("flashcard thứ %d: generation_id là bắt buộc với source %s", index, in.Source)
		}
	case models.SourceManual:
		if in.GenerationID != nil {
			return fmt.Errorf("flashcard thứ %d: generation_id phải là null với source manual", index)
		}
	default:
		return fmt.Errorf("flashcard thứ %d: source không hợp lệ (phải là ai-full, ai-edited hoặc manual)", index)
	}
	return nil
}

// POST /api/flashcards — batch create
func CreateFlashcards(flashcardService *services.FlashcardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var input CreateFlashcardsInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if len(input.Flashcards) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cần ít nhất một flashcard"})
			return
		}
		if len(input.Flashcards) > maxFlashcardsPerRequest {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Tối đa %d flashcards mỗi request", maxFlashcardsPerRequest),
			})
			return
		}

		for i, fc := range input.Flashcards {
			if err := validateFlashcardInput(i, fc); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		// Kiểm tra quyền sở hữu generation trước khi chấp nhận generation_id
		// do client khai báo
		for _, fc := range input.Flashcards {
			if fc.GenerationID == nil {
				continue
			}
			if !flashcardService.VerifyGenerationOwnership(*fc.GenerationID, userID) {
				c.JSON(http.StatusNotFound, gin.H{
					"error":   "Không tìm thấy generation",
					"details": gin.H{"generation_id": *fc.GenerationID},
				})
				return
			}
		}

		created, err := flashcardService.CreateMany(input.Flashcards, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo flashcards"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"flashcards": created})
	}
}

// GET /api/flashcards
func GetFlashcards(flashcardService *services.FlashcardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		flashcards, err := flashcardService.List(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy flashcards"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data":  flashcards,
			"count": len(flashcards),
		})
	}
}

// PUT /api/flashcards/:id
func UpdateFlashcard(flashcardService *services.FlashcardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID flashcard không hợp lệ"})
			return
		}

		var input UpdateFlashcardInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if utf8.RuneCountInString(input.Front) > models.MaxFrontLength {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Front vượt quá %d ký tự", models.MaxFrontLength),
			})
			return
		}
		if utf8.RuneCountInString(input.Back) > models.MaxBackLength {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Back vượt quá %d ký tự", models.MaxBackLength),
			})
			return
		}

		updated, err := flashcardService.Update(uint(id), userID, &input.Front, &input.Back)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật flashcard"})
			return
		}
		if updated == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy flashcard"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"flashcard": updated})
	}
}

// DELETE /api/flashcards/:id
func DeleteFlashcard(flashcardService *services.FlashcardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID flashcard không hợp lệ"})
			return
		}

		deleted, err := flashcardService.Delete(uint(id), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xoá flashcard"})
			return
		}
		if !deleted {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy flashcard"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Đã xoá flashcard"})
	}
}
