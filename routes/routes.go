package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/flashcards-backend/controllers"
	"github.com/vnkhanh/flashcards-backend/middleware"
	"github.com/vnkhanh/flashcards-backend/services"
)

func SetupRouter(r *gin.Engine, db *gorm.DB, genService *services.GenerationService, flashcardService *services.FlashcardService) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck(db))

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register(db))
		auth.POST("/login", controllers.Login(db))
		auth.POST("/logingoogle", controllers.GoogleLogin(db))
		auth.GET("/me", middleware.AuthMiddleware(db), controllers.Me(db))
	}

	protected := api.Group("")
	{
		protected.Use(middleware.AuthMiddleware(db))

		// Sinh flashcard proposals (chưa lưu)
		protected.POST("/generations", controllers.GenerateFlashcards(genService))

		// CRUD flashcards
		protected.POST("/flashcards", controllers.CreateFlashcards(flashcardService))
		protected.GET("/flashcards", controllers.GetFlashcards(flashcardService))
		protected.PUT("/flashcards/:id", controllers.UpdateFlashcard(flashcardService))
		protected.DELETE("/flashcards/:id", controllers.DeleteFlashcard(flashcardService))
	}

	return r
}
