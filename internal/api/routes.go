package api

import (
	"net/http"

	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/metrics"
	"fitcycle/server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles what the HTTP layer calls into.
type Services struct {
	Auth         service.AuthService
	Users        service.UserService
	Catalog      service.CatalogService
	Routines     service.RoutineService
	Workouts     service.WorkoutService
	Measurements service.MeasurementService
}

// RouterOptions carries the optional pieces of the HTTP stack.
type RouterOptions struct {
	Metrics *metrics.Manager
	// Gatherer backs GET /metrics; nil leaves the endpoint out.
	Gatherer prometheus.Gatherer
	// RateLimiter guards the login, register and refresh routes; nil disables it.
	RateLimiter        RequestRateLimiter
	AuthRequestsPerMin int
}

func NewRouter(jwtSecret string, services Services, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(PanicRecovery(opts.Metrics), LogRequest())
	if opts.Metrics != nil {
		router.Use(RequestMetrics(opts.Metrics))
	}
	SetupRoutes(router, jwtSecret, services, opts)
	return router
}

func SetupRoutes(router *gin.Engine, jwtSecret string, services Services, opts RouterOptions) {
	authHandler := NewAuthHandler(services.Auth)
	userHandler := NewUserHandler(services.Users)
	exerciseHandler := NewExerciseHandler(services.Catalog)
	routineHandler := NewRoutineHandler(services.Routines)
	workoutHandler := NewWorkoutHandler(services.Workouts, opts.Metrics)
	measurementHandler := NewMeasurementHandler(services.Measurements)

	authMiddleware := AuthMiddleware(jwtSecret)
	authRateLimit := RateLimit(opts.RateLimiter, "auth", opts.AuthRequestsPerMin, opts.Metrics)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authRateLimit, authHandler.Register)
			authGroup.POST("/login", authRateLimit, authHandler.Login)
			authGroup.POST("/refresh", authRateLimit, authHandler.Refresh)
			authGroup.GET("/me", authMiddleware, authHandler.Me)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// --- User management, superuser only ---
		userGroup := protected.Group("/users")
		userGroup.Use(RoleMiddleware(domain.RoleSuperuser))
		{
			userGroup.GET("", userHandler.ListUsers)
			userGroup.POST("", userHandler.CreateUser)
			userGroup.GET("/:id", userHandler.GetUser)
			userGroup.PUT("/:id", userHandler.UpdateUser)
			userGroup.DELETE("/:id", userHandler.DeleteUser)
		}

		// --- Catalog ---
		protected.GET("/musclegroups", exerciseHandler.ListMuscleGroups)
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.POST("/image-upload-url", exerciseHandler.CreateImageUploadURL)
			exerciseGroup.PUT("/:id", RoleMiddleware(domain.RoleAdmin, domain.RoleSuperuser), exerciseHandler.UpdateExercise)
		}

		// --- Routines ---
		routineGroup := protected.Group("/routines")
		{
			routineGroup.GET("", routineHandler.GetWeekRoutine)
			routineGroup.GET("/:day", routineHandler.GetDayRoutine)
			routineGroup.PUT("/:day", routineHandler.SetDayRoutine)
		}

		// --- Workouts ---
		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.POST("", workoutHandler.SaveWorkout)
			workoutGroup.GET("", workoutHandler.GetHistory)
			workoutGroup.GET("/stats", workoutHandler.GetStats)
			workoutGroup.GET("/exercise/:id/progress", workoutHandler.GetExerciseProgress)
		}

		// --- Body measurements ---
		measurementGroup := protected.Group("/measurements")
		{
			measurementGroup.POST("", measurementHandler.CreateMeasurement)
			measurementGroup.GET("", measurementHandler.ListMeasurements)
			measurementGroup.DELETE("/:id", measurementHandler.DeleteMeasurement)
		}
	}
}
