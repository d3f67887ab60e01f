package app

import (
	"exam_prep_backend/docs"
	"exam_prep_backend/internal/config"
	"exam_prep_backend/internal/middleware"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c, cfg)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerModeratorRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)

		public.GET("/branches", c.branch.List)
		public.GET("/branches/:id/sub-branches", c.branch.SubBranches)
		public.GET("/categories", c.branch.Categories)

		public.GET("/questions", middleware.TryAuthMiddleware(cfg), c.question.List)
		public.GET("/questions/:id", middleware.TryAuthMiddleware(cfg), c.question.Get)

		public.GET("/mock-tests", middleware.TryAuthMiddleware(cfg), c.mockTest.List)
		public.GET("/mock-tests/:id", middleware.TryAuthMiddleware(cfg), c.mockTest.Get)

		public.GET("/leaderboard", c.leaderboard.Top)
		public.GET("/stats/platform", c.stats.Platform)
	}
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/users/me", c.user.Profile)
	group.PUT("/users/me", c.user.UpdateProfile)
	group.GET("/users/me/statistics", c.user.Statistics)

	group.POST("/attempts", c.attempt.Start)
	group.GET("/attempts", c.attempt.List)
	group.GET("/attempts/:id", c.attempt.Get)
	group.PUT("/attempts/:id/questions/:questionId/answer", c.attempt.SubmitAnswer)
	group.POST("/attempts/:id/complete", c.attempt.Complete)
	group.POST("/attempts/:id/abandon", c.attempt.Abandon)

	group.GET("/leaderboard/me", c.leaderboard.MyRank)

	group.POST("/questions/:id/report", c.question.Report)
	group.POST("/contributions", c.question.Contribute)
	group.GET("/contributions/mine", c.question.MyContributions)

	group.GET("/notifications", c.notification.List)
	group.POST("/notifications/:id/read", c.notification.MarkRead)
	group.POST("/notifications/read-all", c.notification.MarkAllRead)
}

func (a *App) registerModeratorRoutes(group *gin.RouterGroup, c *controllers) {
	mod := group.Group("/admin")
	mod.Use(middleware.RoleMiddleware(model.Moderator))
	{
		mod.GET("/contributions", c.question.ListContributions)
		mod.POST("/contributions/:id/approve", c.question.Approve)
		mod.POST("/contributions/:id/reject", c.question.Reject)

		mod.GET("/reports", c.question.PendingReports)
		mod.POST("/reports/:id/resolve", c.question.ResolveReport)

		mod.POST("/questions", c.question.Create)
		mod.PUT("/questions/:id", c.question.Update)

		mod.POST("/mock-tests", c.mockTest.Create)
	}
}

func (a *App) registerAdminRoutes(group *gin.RouterGroup, c *controllers) {
	admin := group.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.DELETE("/questions/:id", c.question.Delete)
		admin.POST("/questions/publish-due", c.question.PublishDue)

		admin.POST("/mock-tests/:id/deactivate", c.mockTest.Deactivate)

		admin.POST("/leaderboard/recalculate", c.leaderboard.Recalculate)

		admin.GET("/stats/daily", c.stats.DailyActivity)
		admin.POST("/stats/rebuild", c.stats.Rebuild)
	}
}
