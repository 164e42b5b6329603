package api

import (
	"neonfit/studio-tracker/internal/advisor"
	"neonfit/studio-tracker/internal/domain"
	"neonfit/studio-tracker/internal/metrics"
	"neonfit/studio-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services carries everything the routes need.
type Services struct {
	Auth     service.AuthService
	Members  service.MemberService
	Workouts service.WorkoutService
	Seed     service.SeedService
	Coach    *advisor.Coach

	Metrics  *metrics.Manager
	Registry *prometheus.Registry // served on /metrics
}

func SetupRoutes(router *gin.Engine, svc Services) {
	authHandler := NewAuthHandler(svc.Auth, svc.Metrics)
	memberHandler := NewMemberHandler(svc.Members)
	workoutHandler := NewWorkoutHandler(svc.Workouts)
	insightHandler := NewInsightHandler(svc.Members, svc.Coach, svc.Metrics)
	seedHandler := NewSeedHandler(svc.Seed, svc.Metrics)

	router.Use(RequestLogger(), RequestMetrics(svc.Metrics))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(svc.Registry, promhttp.HandlerOpts{})))

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(svc.Auth))
	{
		protected.GET("/me", authHandler.Me)
		protected.POST("/auth/logout", authHandler.Logout)

		protected.GET("/members", memberHandler.ListMembers)

		// --- Per-member reads, limited to the linked member for member logins ---
		memberGroup := protected.Group("/members/:memberId")
		memberGroup.Use(MemberScopeMiddleware())
		{
			memberGroup.GET("", memberHandler.GetMember)
			memberGroup.GET("/photo/url", memberHandler.PhotoURL)
			memberGroup.GET("/stats", insightHandler.Stats)
			memberGroup.GET("/chart", insightHandler.Chart)
			memberGroup.GET("/calendar", insightHandler.Calendar)
			memberGroup.GET("/sessions", insightHandler.Sessions)
			memberGroup.GET("/export", insightHandler.Export)
			memberGroup.POST("/advice", insightHandler.Advice)
		}

		// --- Admin Routes ---
		admin := protected.Group("")
		admin.Use(RoleMiddleware(domain.RoleAdmin))
		{
			admin.POST("/members", memberHandler.AddMember)
			admin.DELETE("/members/:memberId", memberHandler.DeleteMember)
			admin.PUT("/members/:memberId/photo", memberHandler.UpdatePhoto)
			admin.POST("/members/:memberId/photo/upload-url", memberHandler.RequestPhotoUploadURL)

			admin.POST("/members/:memberId/workouts", workoutHandler.AddWorkouts)
			admin.PUT("/members/:memberId/workouts/:workoutId", workoutHandler.UpdateWorkout)
			admin.DELETE("/members/:memberId/workouts/:workoutId", workoutHandler.DeleteWorkout)
			admin.PUT("/members/:memberId/sessions/:date", workoutHandler.ReplaceSession)

			admin.POST("/users", authHandler.CreateUser)
			admin.POST("/seed", seedHandler.Seed)
		}
	}
}
