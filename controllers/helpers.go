package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// currentUserID lấy user_id do AuthMiddleware set trong context.
// Trả về false nếu thiếu hoặc không parse được (đã trả lỗi cho client).
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get("user_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Không tìm thấy user_id"})
		return uuid.Nil, false
	}

	switch v := value.(type) {
	case string:
		parsed, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
			return uuid.Nil, false
		}
		return parsed, true
	case uuid.UUID:
		return v, true
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Kiểu user_id không hợp lệ"})
		return uuid.Nil, false
	}
}
