package router

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/sage-api/config"
	"github.com/sahilchouksey/sage-api/handlers"
	auth_handlers "github.com/sahilchouksey/sage-api/handlers/auth"
	calendar_handlers "github.com/sahilchouksey/sage-api/handlers/calendar"
	dashboard_handlers "github.com/sahilchouksey/sage-api/handlers/dashboard"
	events_handlers "github.com/sahilchouksey/sage-api/handlers/events"
	progress_handlers "github.com/sahilchouksey/sage-api/handlers/progress"
	settings_handlers "github.com/sahilchouksey/sage-api/handlers/settings"
	statistics_handlers "github.com/sahilchouksey/sage-api/handlers/statistics"
	subject_handlers "github.com/sahilchouksey/sage-api/handlers/subject"
	targets_handlers "github.com/sahilchouksey/sage-api/handlers/targets"
	"github.com/sahilchouksey/sage-api/services/backup"
	"github.com/sahilchouksey/sage-api/store"
	"github.com/sahilchouksey/sage-api/utils/auth"
	"github.com/sahilchouksey/sage-api/utils/middleware"
)

func SetupRoutes(app *fiber.App, st *store.Store, env *config.EnviornmentVariable, backupService *backup.Service) {
	if env.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := env.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "sage-api"
	}

	// Token lifetime mirrors the stored session duration; the sliding
	// refresh lives on the session record, not the token.
	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: env.JWT_SECRET,
		Expiry: store.SessionDuration,
		Issuer: jwtIssuer,
	})

	// Initialize auth middleware backed by the session record
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, st)

	// Initialize handlers
	authHandler := auth_handlers.NewAuthHandler(st, jwtManager, auth_handlers.Config{
		Username:     env.AUTH_USERNAME,
		Password:     env.AUTH_PASSWORD,
		PasswordHash: env.AUTH_PASSWORD_HASH,
	})
	dashboardHandler := dashboard_handlers.NewDashboardHandler(st)
	progressHandler := progress_handlers.NewProgressHandler(st)
	subjectHandler := subject_handlers.NewSubjectHandler(st)
	calendarHandler := calendar_handlers.NewCalendarHandler(st)
	targetsHandler := targets_handlers.NewTargetsHandler(st)
	statisticsHandler := statistics_handlers.NewStatisticsHandler(st)
	settingsHandler := settings_handlers.NewSettingsHandler(st, backupService)
	eventsHandler := events_handlers.NewEventsHandler(st)

	// Apply security middleware
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    env.ALLOWED_ORIGINS,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth)

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/session", authHandler.Session)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)

	// Everything below requires a live session
	protected := api.Group("/", authMiddleware.Required())

	// Dashboard routes
	dashboard := protected.Group("/dashboard")
	dashboard.Get("/", dashboardHandler.GetOverview)
	dashboard.Put("/exam-date", dashboardHandler.SetExamDate)

	// Progress routes
	progress := protected.Group("/progress")
	progress.Get("/", progressHandler.ListProgress)
	progress.Get("/stats", progressHandler.GetStats)
	progress.Post("/", progressHandler.CreateProgress)
	progress.Put("/:id", progressHandler.UpdateProgress)
	progress.Delete("/:id", progressHandler.DeleteProgress)

	// Subject routes
	subjects := protected.Group("/subjects")
	subjects.Get("/", subjectHandler.ListSubjects)
	subjects.Post("/", subjectHandler.CreateSubject)
	subjects.Get("/:id", subjectHandler.GetSubject)
	subjects.Put("/:id", subjectHandler.UpdateSubject)
	subjects.Delete("/:id", subjectHandler.DeleteSubject)
	subjects.Post("/:id/subtopics", subjectHandler.CreateSubtopic)
	subjects.Put("/:id/milestone", targetsHandler.SetMilestone)
	subjects.Delete("/:id/milestone", targetsHandler.DeleteMilestone)

	// Subtopic routes (ids are unique across subjects)
	subtopics := protected.Group("/subtopics")
	subtopics.Put("/:id", subjectHandler.UpdateSubtopic)
	subtopics.Delete("/:id", subjectHandler.DeleteSubtopic)
	subtopics.Patch("/:id/task", subjectHandler.UpdateTask)

	// Calendar routes
	calendar := protected.Group("/calendar")
	calendar.Get("/", calendarHandler.ListEvents)
	calendar.Post("/", calendarHandler.CreateEvent)
	calendar.Delete("/:id", calendarHandler.DeleteEvent)

	// Targets and milestones
	targets := protected.Group("/targets")
	targets.Get("/", targetsHandler.GetTargets)
	targets.Put("/", targetsHandler.SetTargets)
	targets.Get("/stats", targetsHandler.GetTargetStats)
	protected.Get("/milestones", targetsHandler.ListMilestones)

	// Statistics routes
	statistics := protected.Group("/statistics")
	statistics.Get("/", statisticsHandler.GetOverview)
	statistics.Get("/report", statisticsHandler.GetMonthlyReport)
	statistics.Get("/charts/weekly", statisticsHandler.GetWeeklyChart)
	statistics.Get("/charts/subjects", statisticsHandler.GetSubjectChart)
	statistics.Get("/charts/trend", statisticsHandler.GetTrendChart)
	statistics.Get("/learning-curve/:subject", statisticsHandler.GetLearningCurve)

	// Settings and data management
	settings := protected.Group("/settings")
	settings.Get("/", settingsHandler.GetSettings)
	settings.Put("/", settingsHandler.UpdateSettings)
	settings.Get("/export", settingsHandler.ExportData)
	settings.Post("/import", settingsHandler.ImportData)
	settings.Post("/clear", settingsHandler.ClearAllData)
	settings.Post("/optimize", settingsHandler.OptimizeData)
	settings.Post("/backup", settingsHandler.BackupNow)
	settings.Get("/system", settingsHandler.GetSystemInfo)

	// Change notification stream
	protected.Get("/events", eventsHandler.Stream)
}
