package routes

import (
	"net/http"

	"quizhub/handlers"
	"quizhub/middleware"
	"quizhub/models"
	"quizhub/services"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	quizHandler *handlers.QuizHandler,
	resultHandler *handlers.ResultHandler,
	tokens *services.TokenService,
) {
	authRequired := middleware.AuthMiddleware(tokens)
	editorsOnly := middleware.RequireRoles(models.RoleAdmin, models.RoleEditor)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", authRequired, authHandler.Logout)
			auth.POST("/current-user", authRequired, authHandler.CurrentUser)
		}

		users := api.Group("/users")
		{
			users.GET("/", authRequired, userHandler.GetUser)
			users.GET("/get-all-users", authRequired, adminOnly, userHandler.GetAllUsers)
		}

		quizzes := api.Group("/quizzes")
		{
			quizzes.GET("/all-quizzes", quizHandler.AllQuizzes)
			quizzes.GET("/my-quizzes", authRequired, quizHandler.MyQuizzes)
			quizzes.GET("/:id", quizHandler.GetQuizByID)
			quizzes.POST("/create-quiz", authRequired, editorsOnly, quizHandler.CreateQuiz)
			quizzes.POST("/:id", authRequired, editorsOnly, quizHandler.UpdateQuiz)
			quizzes.DELETE("/:id", authRequired, editorsOnly, quizHandler.DeleteQuiz)
		}

		results := api.Group("/results")
		{
			results.POST("/submit", authRequired, resultHandler.Submit)
			results.GET("/my-results", authRequired, resultHandler.MyResults)
			results.GET("/:id", resultHandler.GetResultByID)
			results.DELETE("/:id", authRequired, resultHandler.DeleteResult)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
