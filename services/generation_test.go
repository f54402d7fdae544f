package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/flashcards-backend/models"
	"github.com/vnkhanh/flashcards-backend/utils"
)

func TestGenerateFlashcards_TaoGenerationRecord(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	client := newTestClient(t)

	httpmock.RegisterResponder("POST", testAPIURL,
		httpmock.NewStringResponder(200, chatResponse(
			`[{"front":"A?","back":"A"},{"front":"B?","back":"B"},{"front":"C?","back":"C"}]`,
		)))

	sourceText := strings.Repeat("nội dung ", 200)
	svc := NewGenerationService(db, client)
	result, err := svc.GenerateFlashcards(context.Background(), sourceText, user.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, result.GeneratedCount)
	assert.Equal(t, "openai/gpt-4o-mini", result.Model)
	assert.NotZero(t, result.GenerationID)
	for _, p := range result.Proposals {
		assert.Equal(t, models.SourceAIFull, p.Source)
	}

	// Generation row bất biến được ghi với hash + length của source text
	var generation models.Generation
	require.NoError(t, db.First(&generation, result.GenerationID).Error)
	assert.Equal(t, user.ID, generation.UserID)
	assert.Equal(t, 3, generation.GeneratedCount)
	assert.Equal(t, utils.HashSourceText(sourceText), generation.SourceTextHash)
	assert.Equal(t, len([]rune(sourceText)), generation.SourceTextLength)

	// không có error log nào
	var logCount int64
	db.Model(&models.GenerationErrorLog{}).Count(&logCount)
	assert.Zero(t, logCount)
}

func TestGenerateFlashcards_GhiErrorLogKhiThatBai(t *testing.T) {
	shortRetryDelay(t)
	db := newTestDB(t)
	user := newTestUser(t, db)
	client := newTestClient(t)

	httpmock.RegisterResponder("POST", testAPIURL,
		httpmock.NewStringResponder(401, `{"error":"invalid key"}`))

	svc := NewGenerationService(db, client)
	_, err := svc.GenerateFlashcards(context.Background(), "source text", user.ID)
	require.Error(t, err)

	// lỗi gốc vẫn trả về cho caller
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)

	var errorLog models.GenerationErrorLog
	require.NoError(t, db.First(&errorLog).Error)
	assert.Equal(t, ErrCodeAPIAuthError, errorLog.ErrorCode)
	assert.Equal(t, user.ID, errorLog.UserID)
	assert.Equal(t, utils.HashSourceText("source text"), errorLog.SourceTextHash)
	assert.NotEmpty(t, errorLog.ErrorMessage)
}

func TestGenerateFlashcards_KhongTaoGenerationKhiAILoi(t *testing.T) {
	shortRetryDelay(t)
	db := newTestDB(t)
	user := newTestUser(t, db)
	client := newTestClient(t)

	httpmock.RegisterResponder("POST", testAPIURL,
		httpmock.NewStringResponder(200, chatResponse(`không phải JSON`)))

	svc := NewGenerationService(db, client)
	_, err := svc.GenerateFlashcards(context.Background(), "source text", user.ID)
	require.Error(t, err)

	var count int64
	db.Model(&models.Generation{}).Count(&count)
	assert.Zero(t, count)

	var errorLog models.GenerationErrorLog
	require.NoError(t, db.First(&errorLog).Error)
	assert.Equal(t, ErrCodeInvalidJSON, errorLog.ErrorCode)
}

func TestGenerateFlashcards_LoiGhiLogKhongDeLenLoiGoc(t *testing.T) {
	shortRetryDelay(t)
	db := newTestDB(t)
	user := newTestUser(t, db)
	client := newTestClient(t)

	httpmock.RegisterResponder("POST", testAPIURL,
		httpmock.NewStringResponder(500, `{"error":"boom"}`))

	// làm hỏng bảng error log để insert thất bại
	require.NoError(t, db.Migrator().DropTable(&models.GenerationErrorLog{}))

	svc := NewGenerationService(db, client)
	_, err := svc.GenerateFlashcards(context.Background(), "source text", user.ID)

	// caller vẫn nhận lỗi HTTP gốc, không phải lỗi ghi log
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 500, httpErr.Status)
}

func TestClassifyGenerationError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", &TimeoutError{}, ErrCodeAPITimeout},
		{"rate_limit", &HTTPError{Status: 429}, ErrCodeAPIRateLimit},
		{"auth", &HTTPError{Status: 401}, ErrCodeAPIAuthError},
		{"4xx", &HTTPError{Status: 404}, ErrCodeHTTP4xx},
		{"5xx", &HTTPError{Status: 503}, ErrCodeHTTP5xx},
		{"json", &InvalidResponseError{Reason: ReasonInvalidJSON}, ErrCodeInvalidJSON},
		{"empty", &InvalidResponseError{Reason: ReasonEmptyResponse}, ErrCodeEmptyResponse},
		{"format", &InvalidResponseError{Reason: ReasonInvalidFormat}, ErrCodeInvalidFormat},
		{"unknown", errors.New("lỗi gì đó"), ErrCodeUnknown},
		{"unknown_timeout_msg", errors.New("client timeout"), ErrCodeAPITimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyGenerationError(tt.err))
		})
	}
}

func TestGenerateFlashcards_ErrorMessageBiCatO1000(t *testing.T) {
	longMsg := strings.Repeat("x", 3000)
	err := &InvalidResponseError{Reason: ReasonInvalidJSON, Message: longMsg}

	shortRetryDelay(t)
	db := newTestDB(t)
	user := newTestUser(t, db)
	svc := NewGenerationService(db, newTestClient(t))

	svc.logError(user.ID, "openai/gpt-4o-mini", utils.HashSourceText("t"), 1, err)

	var errorLog models.GenerationErrorLog
	require.NoError(t, db.First(&errorLog).Error)
	assert.LessOrEqual(t, len([]rune(errorLog.ErrorMessage)), 1000)
}
