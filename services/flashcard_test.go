package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vnkhanh/flashcards-backend/models"
)

func createTestGeneration(t *testing.T, db *gorm.DB, userID uuid.UUID) models.Generation {
	t.Helper()
	generation := models.Generation{
		UserID:             userID,
		Model:              "openai/gpt-4o-mini",
		GeneratedCount:     3,
		SourceTextHash:     "abc",
		SourceTextLength:   1500,
		GenerationDuration: 1200,
	}
	require.NoError(t, db.Create(&generation).Error)
	return generation
}

func TestCreateMany_GanUserID(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	svc := NewFlashcardService(db)

	created, err := svc.CreateMany([]FlashcardInput{
		{Front: "F1", Back: "B1", Source: models.SourceManual},
		{Front: "F2", Back: "B2", Source: models.SourceManual},
	}, user.ID)
	require.NoError(t, err)
	require.Len(t, created, 2)

	for _, fc := range created {
		assert.Equal(t, user.ID, fc.UserID)
		assert.NotZero(t, fc.ID)
		assert.Nil(t, fc.GenerationID)
	}
}

func TestManualFlashcard_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	svc := NewFlashcardService(db)

	created, err := svc.CreateMany([]FlashcardInput{
		{Front: "Thủ đô của Việt Nam?", Back: "Hà Nội", Source: models.SourceManual},
	}, user.ID)
	require.NoError(t, err)

	got, err := svc.GetByID(created[0].ID, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Thủ đô của Việt Nam?", got.Front)
	assert.Equal(t, "Hà Nội", got.Back)
	assert.Equal(t, models.SourceManual, got.Source)
	assert.Nil(t, got.GenerationID)
}

func TestVerifyGenerationOwnership(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db)
	other := newTestUser(t, db)
	svc := NewFlashcardService(db)

	generation := createTestGeneration(t, db, owner.ID)

	assert.True(t, svc.VerifyGenerationOwnership(generation.ID, owner.ID))

	// không tồn tại và thuộc user khác: caller không phân biệt được
	assert.False(t, svc.VerifyGenerationOwnership(generation.ID, other.ID))
	assert.False(t, svc.VerifyGenerationOwnership(99999, owner.ID))
}

func TestList_ChiTraVeCardCuaUser(t *testing.T) {
	db := newTestDB(t)
	userA := newTestUser(t, db)
	userB := newTestUser(t, db)
	svc := NewFlashcardService(db)

	_, err := svc.CreateMany([]FlashcardInput{
		{Front: "A1", Back: "B", Source: models.SourceManual},
		{Front: "A2", Back: "B", Source: models.SourceManual},
	}, userA.ID)
	require.NoError(t, err)
	_, err = svc.CreateMany([]FlashcardInput{
		{Front: "B1", Back: "B", Source: models.SourceManual},
	}, userB.ID)
	require.NoError(t, err)

	listA, err := svc.List(userA.ID)
	require.NoError(t, err)
	assert.Len(t, listA, 2)

	listB, err := svc.List(userB.ID)
	require.NoError(t, err)
	require.Len(t, listB, 1)
	assert.Equal(t, "B1", listB[0].Front)
}

func TestGetByID_KhongTimThayTraVeNil(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	other := newTestUser(t, db)
	svc := NewFlashcardService(db)

	created, err := svc.CreateMany([]FlashcardInput{
		{Front: "F", Back: "B", Source: models.SourceManual},
	}, user.ID)
	require.NoError(t, err)

	// id không tồn tại -> (nil, nil), không phải error
	got, err := svc.GetByID(99999, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// card của user khác cũng coi như không tồn tại
	got, err = svc.GetByID(created[0].ID, other.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdate_PromoteAIFullSangAIEdited(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	svc := NewFlashcardService(db)
	generation := createTestGeneration(t, db, user.ID)

	created, err := svc.CreateMany([]FlashcardInput{
		{Front: "AI front", Back: "AI back", Source: models.SourceAIFull, GenerationID: &generation.ID},
	}, user.ID)
	require.NoError(t, err)

	front := "AI front (đã sửa)"
	back := "AI back"
	updated, err := svc.Update(created[0].ID, user.ID, &front, &back)
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, models.SourceAIEdited, updated.Source)
	assert.Equal(t, front, updated.Front)

	// ai-edited là trạng thái cuối: sửa tiếp vẫn là ai-edited
	front2 := "sửa lần nữa"
	updated, err = svc.Update(created[0].ID, user.ID, &front2, &back)
	require.NoError(t, err)
	assert.Equal(t, models.SourceAIEdited, updated.Source)
}

func TestUpdate_ManualGiuNguyenSource(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	svc := NewFlashcardService(db)

	created, err := svc.CreateMany([]FlashcardInput{
		{Front: "F", Back: "B", Source: models.SourceManual},
	}, user.ID)
	require.NoError(t, err)

	front := "F mới"
	back := "B mới"
	updated, err := svc.Update(created[0].ID, user.ID, &front, &back)
	require.NoError(t, err)
	assert.Equal(t, models.SourceManual, updated.Source)
}

func TestUpdate_KhongDoiNoiDungKhongPromote(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	svc := NewFlashcardService(db)
	generation := createTestGeneration(t, db, user.ID)

	created, err := svc.CreateMany([]FlashcardInput{
		{Front: "F", Back: "B", Source: models.SourceAIFull, GenerationID: &generation.ID},
	}, user.ID)
	require.NoError(t, err)

	// gửi lại đúng nội dung cũ -> không phải edit, giữ ai-full
	front := "F"
	back := "B"
	updated, err := svc.Update(created[0].ID, user.ID, &front, &back)
	require.NoError(t, err)
	assert.Equal(t, models.SourceAIFull, updated.Source)
}

func TestUpdate_KhongTimThayTraVeNil(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	svc := NewFlashcardService(db)

	front := "F"
	back := "B"
	updated, err := svc.Update(99999, user.ID, &front, &back)
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestDelete(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	other := newTestUser(t, db)
	svc := NewFlashcardService(db)

	created, err := svc.CreateMany([]FlashcardInput{
		{Front: "F", Back: "B", Source: models.SourceManual},
	}, user.ID)
	require.NoError(t, err)

	// user khác không xoá được
	deleted, err := svc.Delete(created[0].ID, other.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = svc.Delete(created[0].ID, user.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	// xoá xong list không còn
	list, err := svc.List(user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	// xoá lần hai -> false
	deleted, err = svc.Delete(created[0].ID, user.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
