package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/flashcards-backend/config"
	"github.com/vnkhanh/flashcards-backend/models"
	"github.com/vnkhanh/flashcards-backend/utils"
)

// Mã lỗi ghi vào generation_error_logs
const (
	ErrCodeAPITimeout    = "API_TIMEOUT"
	ErrCodeAPIRateLimit  = "API_RATE_LIMIT"
	ErrCodeAPIAuthError  = "API_AUTH_ERROR"
	ErrCodeHTTP4xx       = "HTTP_4XX"
	ErrCodeHTTP5xx       = "HTTP_5XX"
	ErrCodeInvalidJSON   = "INVALID_JSON"
	ErrCodeEmptyResponse = "EMPTY_RESPONSE"
	ErrCodeInvalidFormat = "INVALID_FORMAT"
	ErrCodeUnknown       = "UNKNOWN_ERROR"
)

// ProposalWithSource là proposal kèm tag nguồn gốc trả cho client
type ProposalWithSource struct {
	Front  string                 `json:"front"`
	Back   string                 `json:"back"`
	Source models.FlashcardSource `json:"source"`
}

type GenerationResult struct {
	GenerationID       uint                 `json:"generation_id"`
	Proposals          []ProposalWithSource `json:"flashcards_proposals"`
	GeneratedCount     int                  `json:"generated_count"`
	GenerationDuration int64                `json:"generation_duration"`
	Model              string               `json:"model"`
}

// GenerationService bọc OpenRouterClient, thêm audit record và error log.
// Không bao giờ tự lưu flashcards — client phải gọi POST /flashcards sau khi
// người dùng duyệt proposals.
type GenerationService struct {
	db     *gorm.DB
	client *OpenRouterClient
}

func NewGenerationService(db *gorm.DB, client *OpenRouterClient) *GenerationService {
	return &GenerationService{db: db, client: client}
}

// GenerateFlashcards gọi AI sinh proposals và ghi Generation row.
// Hash + độ dài source text được tính trước khi gọi AI để dùng cho cả
// record thành công lẫn error log.
func (s *GenerationService) GenerateFlashcards(ctx context.Context, sourceText string, userID uuid.UUID) (*GenerationResult, error) {
	sourceTextHash := utils.HashSourceText(sourceText)
	sourceTextLength := utf8.RuneCountInString(sourceText)
	model := s.client.Config().Model

	start := time.Now()
	proposals, err := s.client.GenerateFlashcards(ctx, sourceText)
	if err != nil {
		s.logError(userID, model, sourceTextHash, sourceTextLength, err)
		return nil, err
	}
	duration := time.Since(start).Milliseconds()

	generation := models.Generation{
		UserID:             userID,
		Model:              model,
		GeneratedCount:     len(proposals),
		SourceTextHash:     sourceTextHash,
		SourceTextLength:   sourceTextLength,
		GenerationDuration: duration,
	}
	if err := s.db.Create(&generation).Error; err != nil {
		s.logError(userID, model, sourceTextHash, sourceTextLength, err)
		return nil, err
	}

	tagged := make([]ProposalWithSource, 0, len(proposals))
	for _, p := range proposals {
		tagged = append(tagged, ProposalWithSource{
			Front:  p.Front,
			Back:   p.Back,
			Source: models.SourceAIFull,
		})
	}

	return &GenerationResult{
		GenerationID:       generation.ID,
		Proposals:          tagged,
		GeneratedCount:     len(proposals),
		GenerationDuration: duration,
		Model:              model,
	}, nil
}

// logError ghi error log best-effort: ghi log thất bại thì chỉ báo
// operator qua zap, không bao giờ đè lên lỗi gốc của caller
func (s *GenerationService) logError(userID uuid.UUID, model, sourceTextHash string, sourceTextLength int, genErr error) {
	errorLog := models.GenerationErrorLog{
		UserID:           userID,
		Model:            model,
		SourceTextHash:   sourceTextHash,
		SourceTextLength: sourceTextLength,
		ErrorCode:        ClassifyGenerationError(genErr),
		ErrorMessage:     truncateRunes(genErr.Error(), 1000),
	}

	if err := s.db.Create(&errorLog).Error; err != nil {
		config.Log.Errorw("không thể ghi generation error log",
			"user_id", userID,
			"error_code", errorLog.ErrorCode,
			"error", err,
		)
	}
}

// ClassifyGenerationError phân loại lỗi sinh flashcard vào taxonomy cố định
func ClassifyGenerationError(err error) string {
	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return ErrCodeAPITimeout
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.Status == http.StatusTooManyRequests:
			return ErrCodeAPIRateLimit
		case httpErr.Status == http.StatusUnauthorized:
			return ErrCodeAPIAuthError
		case httpErr.Status >= 500:
			return ErrCodeHTTP5xx
		case httpErr.Status >= 400:
			return ErrCodeHTTP4xx
		}
	}

	var invalidErr *InvalidResponseError
	if errors.As(err, &invalidErr) {
		switch invalidErr.Reason {
		case ReasonEmptyResponse:
			return ErrCodeEmptyResponse
		case ReasonInvalidJSON:
			return ErrCodeInvalidJSON
		case ReasonInvalidFormat:
			return ErrCodeInvalidFormat
		}
	}

	// fallback cho lỗi không có type: soi message như cũ
	msg := err.Error()
	switch {
	case strings.Contains(msg, "timeout"):
		return ErrCodeAPITimeout
	case strings.Contains(msg, "rate limit"):
		return ErrCodeAPIRateLimit
	case strings.Contains(msg, "JSON") || strings.Contains(msg, "parse"):
		return ErrCodeInvalidJSON
	default:
		return ErrCodeUnknown
	}
}
