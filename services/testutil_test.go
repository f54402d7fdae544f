package services

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/flashcards-backend/models"
)

const testAPIURL = "https://openrouter.ai/api/v1/chat/completions"

// newTestDB tạo sqlite in-memory riêng cho mỗi test
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Generation{},
		&models.Flashcard{},
		&models.GenerationErrorLog{},
	))
	return db
}

// newTestUser insert user với ID tự sinh (sqlite không có gen_random_uuid)
func newTestUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()

	user := models.User{
		ID:       uuid.New(),
		FullName: "Người dùng test",
		Email:    fmt.Sprintf("%s@example.com", uuid.NewString()),
		Password: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// newTestClient tạo OpenRouterClient gắn với httpmock
func newTestClient(t *testing.T) *OpenRouterClient {
	t.Helper()

	hc := &http.Client{}
	httpmock.ActivateNonDefault(hc)
	t.Cleanup(httpmock.DeactivateAndReset)

	client, err := NewOpenRouterClient(OpenRouterConfig{
		APIKey: "test-key",
		APIURL: testAPIURL,
	})
	require.NoError(t, err)
	return client.WithHTTPClient(hc)
}

// chatResponse bọc content vào đúng shape response của OpenRouter
func chatResponse(content string) string {
	return fmt.Sprintf(`{"choices":[{"message":{"content":%q}}]}`, content)
}

func shortRetryDelay(t *testing.T) {
	t.Helper()
	old := retryBaseDelay
	retryBaseDelay = time.Millisecond
	t.Cleanup(func() { retryBaseDelay = old })
}
