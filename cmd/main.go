package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/vnkhanh/flashcards-backend/config"
	"github.com/vnkhanh/flashcards-backend/routes"
	"github.com/vnkhanh/flashcards-backend/services"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("Không tìm thấy file .env")
	}

	config.InitLogger(os.Getenv("GIN_MODE"))
	config.InitDB()

	// Thiếu OPENROUTER_API_KEY thì fail ngay lúc start
	openRouterClient, err := services.NewOpenRouterClientFromEnv()
	if err != nil {
		log.Fatal("Lỗi cấu hình OpenRouter: ", err)
	}

	genService := services.NewGenerationService(config.DB, openRouterClient)
	flashcardService := services.NewFlashcardService(config.DB)

	r := gin.Default()

	//Bật CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r = routes.SetupRouter(r, config.DB, genService, flashcardService)

	// Route test server
	r.GET("/", func(c *gin.Context) {
		c.String(200, "Flashcards server is running")
	})

	// Lấy PORT từ env
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // mặc định nếu không có PORT
	}

	log.Println("Server running at Port:" + port)
	r.Run(":" + port)
}
