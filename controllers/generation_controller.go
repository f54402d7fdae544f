package controllers

import (
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/flashcards-backend/config"
	"github.com/vnkhanh/flashcards-backend/services"
	"github.com/vnkhanh/flashcards-backend/utils"
)

type GenerateInput struct {
	SourceText string `json:"source_text" binding:"required"`
}

// POST /api/generations
// Trả về proposals CHƯA lưu vào bảng flashcards — người dùng duyệt xong
// phải gọi POST /api/flashcards để lưu.
func GenerateFlashcards(genService *services.GenerationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var input GenerateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := utils.ValidateSourceText(input.SourceText); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Dữ liệu không hợp lệ",
				"message": err.Error(),
				"details": gin.H{
					"source_text_length": utf8.RuneCountInString(input.SourceText),
					"min_length":         utils.MinSourceTextLength,
					"max_length":         utils.MaxSourceTextLength,
				},
			})
			return
		}

		result, err := genService.GenerateFlashcards(c.Request.Context(), input.SourceText, userID)
		if err != nil {
			config.Log.Errorw("sinh flashcard thất bại",
				"user_id", userID,
				"error_code", services.ClassifyGenerationError(err),
				"error", err,
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal server error",
				"message": "Không thể sinh flashcards",
			})
			return
		}

		c.JSON(http.StatusCreated, result)
	}
}
