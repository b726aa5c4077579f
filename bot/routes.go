package bot

import (
	"therapist-discovery-backend/internal/logger"

	"github.com/gin-gonic/gin"
)

func InitRoutes(app *gin.Engine) {
	logger.Info("Init API endpoints...")

	app.GET("/", home)

	api := app.Group("/api")
	api.POST("/register", registerUser)
	api.GET("/therapists", getTherapists)
	api.GET("/community/:category", getCommunity)
	api.POST("/community/:category", createCommunityPost)
	api.POST("/community/:category/:postId/comments", addCommunityComment)
	api.POST("/chatbot", chatbotTurn)
}
