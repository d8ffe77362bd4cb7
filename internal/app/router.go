package app

import (
	"quizpath_backend/docs"
	"quizpath_backend/internal/config"
	"quizpath_backend/internal/middleware"
	"quizpath_backend/internal/model"
	"quizpath_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由
	router.GET("/api/health", c.health.HealthCheck)

	// 2. 学习者接口，JWT 未启用时直接放行
	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(&cfg.JWT))
	{
		a.registerLearnerRoutes(api, c)

		// 3. 编写接口需要教师角色
		author := api.Group("")
		author.Use(middleware.RoleMiddleware(&cfg.JWT, model.Teacher))
		a.registerAuthorRoutes(author, c)
	}
}

func (a *App) registerLearnerRoutes(api *gin.RouterGroup, c *controllers) {
	api.GET("/learning-paths", c.learningPath.ListLearningPaths)
	api.GET("/learning-paths/:topicId", c.learningPath.GetLearningPath)
	api.POST("/attempts", c.learningPath.RecordAttempt)
	api.GET("/progress", c.learningPath.ListProgress)
	api.GET("/progress/export", c.learningPath.ExportProgress)

	decks := api.Group("/decks")
	{
		decks.GET("", c.deck.ListDecks)
		decks.GET("/default", c.deck.GetDefaultDeck)
		decks.GET("/:name", c.deck.GetDeck)
		decks.GET("/:name/review", c.deck.NextCard)
		decks.POST("/:name/review", c.deck.AnswerCard)
		decks.POST("/:name/review/reset", c.deck.ResetReview)
	}

	api.POST("/study-events", c.studyEvent.RecordEvent)
	api.GET("/study-events", c.studyEvent.ListEvents)
}

func (a *App) registerAuthorRoutes(author *gin.RouterGroup, c *controllers) {
	author.POST("/learning-paths", c.learningPath.CreateLearningPath)
	author.POST("/decks", c.deck.SaveDeck)
	author.POST("/decks/import", c.deck.ImportDeck)
	author.POST("/flashcards/generate", c.flashcard.Generate)
}
