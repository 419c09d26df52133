package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/polas15-707-eng/teachassist-app/internal/config"
	"github.com/polas15-707-eng/teachassist-app/internal/handler"
	"github.com/polas15-707-eng/teachassist-app/internal/middleware"
	"github.com/polas15-707-eng/teachassist-app/internal/model"
	"github.com/polas15-707-eng/teachassist-app/internal/response"
	"github.com/polas15-707-eng/teachassist-app/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Teacher  *handler.TeacherHandler
	Course   *handler.CourseHandler
	Slot     *handler.SlotHandler
	Booking  *handler.BookingHandler
	Overview *handler.OverviewHandler
	System   *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", handlers.System.Health)

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout",
			middleware.RequireAuth(authService),
			handlers.Auth.Logout,
		)
		auth.GET("/me",
			middleware.RequireAuth(authService),
			middleware.CheckActiveSession(authService),
			handlers.Auth.Me,
		)
	}

	// ─── 2. Shared Group (Any Role) ────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(
		middleware.RequireAuth(authService),
		middleware.CheckActiveSession(authService),
	)
	{
		api.GET("/courses", handlers.Course.List)
		api.GET("/teachers", handlers.Teacher.ListActive)
		api.GET("/teachers/:id/slots", handlers.Slot.ListOpen)
		api.GET("/overview", handlers.Overview.Get)
	}

	// ─── 3. Student Group ──────────────────────────────────────────────
	studentAPI := router.Group("/api/v1")
	studentAPI.Use(
		middleware.RequireAuth(authService),
		middleware.CheckActiveSession(authService),
		middleware.RequireRole(model.RoleStudent),
	)
	{
		studentAPI.POST("/bookings", handlers.Booking.Create)
		studentAPI.GET("/bookings/student", handlers.Booking.ListForStudent)
	}

	// ─── 4. Teacher Group ──────────────────────────────────────────────
	teacherAPI := router.Group("/api/v1")
	teacherAPI.Use(
		middleware.RequireAuth(authService),
		middleware.CheckActiveSession(authService),
		middleware.RequireRole(model.RoleTeacher),
	)
	{
		teacherAPI.POST("/slots", handlers.Slot.Create)
		teacherAPI.GET("/slots", handlers.Slot.ListMine)
		teacherAPI.DELETE("/slots/:id", handlers.Slot.Delete)
		teacherAPI.GET("/bookings/teacher", handlers.Booking.ListForTeacher)
		teacherAPI.POST("/bookings/:id/approve", handlers.Booking.Approve)
		teacherAPI.POST("/bookings/:id/reject", handlers.Booking.Reject)
	}

	// ─── 5. Admin Group ────────────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(
		middleware.RequireAuth(authService),
		middleware.CheckActiveSession(authService),
		middleware.RequireRole(model.RoleAdmin),
	)
	{
		adminAPI.GET("/teachers", handlers.Teacher.ListAll)
		adminAPI.POST("/teachers/:id/approve", handlers.Teacher.Approve)
		adminAPI.POST("/teachers/:id/reject", handlers.Teacher.Reject)
		adminAPI.POST("/courses", handlers.Course.Create)
		adminAPI.POST("/reminders/run", handlers.System.RunReminders)
	}

	return router
}
