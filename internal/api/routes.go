package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/backend"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/service"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/storage"
)

// SetupRoutes wires the HTTP surface: public auth endpoints and the
// authenticated session, profile and report groups.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	sessions *SessionManager,
	be *backend.Context,
	covers storage.CoverStorage,
) {
	authHandler := NewAuthHandler(authService)
	profileHandler := NewProfileHandler(sessions)
	sessionHandler := NewSessionHandler(sessions, covers)
	reportHandler := NewReportHandler(be)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/guest", authHandler.Guest)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr})
		})

		protected.GET("/profile", profileHandler.GetProfile)
		protected.PUT("/profile", profileHandler.UpdateProfile)

		planGroup := protected.Group("/plan")
		{
			planGroup.POST("/generate", sessionHandler.GeneratePlan)
			planGroup.POST("/confirm", sessionHandler.ConfirmPlan)
			planGroup.POST("/swap", sessionHandler.SwapExercise)
		}

		sessionGroup := protected.Group("/session")
		{
			sessionGroup.GET("", sessionHandler.GetSession)
			sessionGroup.POST("/view", sessionHandler.SwitchView)
			sessionGroup.POST("/close", sessionHandler.CloseSheet)
			sessionGroup.POST("/day/open", sessionHandler.OpenDay)
			sessionGroup.POST("/day/finish", sessionHandler.FinishDay)
			sessionGroup.POST("/review/day", sessionHandler.SelectReviewDay)
			sessionGroup.POST("/exercise/start", sessionHandler.StartExercise)
			sessionGroup.PUT("/exercise", sessionHandler.UpdateExecution)
			sessionGroup.POST("/exercise/save", sessionHandler.SaveExecution)
			sessionGroup.POST("/report/open", sessionHandler.OpenReport)
		}

		protected.GET("/reports", reportHandler.ListReports)
		protected.GET("/covers/:focus", sessionHandler.CoverURL)
	}
}
