package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/dayo-ade/uniplan-api/api/swagger"
	"github.com/dayo-ade/uniplan-api/internal/handler"
	"github.com/dayo-ade/uniplan-api/internal/middleware"
	"github.com/dayo-ade/uniplan-api/internal/models"
	"github.com/dayo-ade/uniplan-api/internal/repository"
	"github.com/dayo-ade/uniplan-api/internal/service"
	"github.com/dayo-ade/uniplan-api/pkg/cache"
	"github.com/dayo-ade/uniplan-api/pkg/config"
	"github.com/dayo-ade/uniplan-api/pkg/database"
	"github.com/dayo-ade/uniplan-api/pkg/logger"
	corsmiddleware "github.com/dayo-ade/uniplan-api/pkg/middleware/cors"
	reqidmiddleware "github.com/dayo-ade/uniplan-api/pkg/middleware/requestid"
)

// @title UniPlan API
// @version 0.1.0
// @description Course matching and timetable generation service
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	// Repositories.
	users := repository.NewUserRepository(db)
	sessions := repository.NewSessionRepository(db)
	timeslots := repository.NewTimeSlotRepository(db)
	rooms := repository.NewRoomRepository(db)
	lecturers := repository.NewLecturerRepository(db)
	assignments := repository.NewAssignmentRepository(db)
	offerings := repository.NewCourseOfferingRepository(db)
	canonicals := repository.NewCanonicalCourseRepository(db)
	aliases := repository.NewCourseAliasRepository(db)
	suggestions := repository.NewMatchingSuggestionRepository(db)
	events := repository.NewEventRepository(db)
	blockedTimes := repository.NewBlockedTimeRepository(db)
	locks := repository.NewLockRepository(db)
	constraints := repository.NewConstraintsRepository(db)
	runs := repository.NewScheduleRunRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(users, nil, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	constraintSvc := service.NewConstraintService(constraints, blockedTimes, locks, events, nil, logr)
	matcherSvc := service.NewMatcherService(offerings, canonicals, aliases, suggestions, nil, logr,
		service.MatcherConfig{RemoveStopwords: cfg.Matching.RemoveStopwords})
	importSvc := service.NewImportService(offerings, canonicals, logr,
		service.ImportConfig{MaxRows: cfg.Imports.MaxRows, RemoveStopwords: cfg.Matching.RemoveStopwords})
	courseSvc := service.NewCourseService(offerings, canonicals, nil, logr, cfg.Matching.RemoveStopwords)
	resourceSvc := service.NewResourceService(sessions, timeslots, rooms, lecturers, assignments, nil, logr)
	expanderSvc := service.NewEventExpanderService(offerings, assignments, events, constraintSvc, logr)
	allocatorSvc := service.NewAllocatorService(events, offerings, timeslots, rooms, blockedTimes, locks,
		runs, constraintSvc, cacheRepo, metricsSvc, nil, logr, cfg.Scheduler.DefaultCandidateLimit)
	exportSvc := service.NewExportService(runs, events, offerings, lecturers, timeslots, rooms,
		cacheRepo, nil, nil, logr, cfg.Scheduler.TimetableCacheTTL)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	matchingHandler := handler.NewMatchingHandler(matcherSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	resourceHandler := handler.NewResourceHandler(resourceSvc)
	constraintHandler := handler.NewConstraintHandler(constraintSvc)
	scheduleHandler := handler.NewScheduleHandler(expanderSvc, allocatorSvc)
	importHandler := handler.NewImportHandler(importSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	protected.GET("/auth/me", authHandler.Me)
	protected.PUT("/auth/password", authHandler.ChangePassword)
	protected.GET("/metrics/snapshot", metricsHandler.Snapshot)

	staff := protected.Group("")
	staff.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleCoordinator))

	// Inventory.
	protected.GET("/sessions", resourceHandler.ListSessions)
	staff.POST("/sessions", resourceHandler.CreateSession)
	staff.POST("/sessions/:id/activate", resourceHandler.ActivateSession)
	protected.GET("/timeslots", resourceHandler.ListTimeSlots)
	staff.POST("/timeslots", resourceHandler.CreateTimeSlot)
	staff.DELETE("/timeslots/:id", resourceHandler.DeleteTimeSlot)
	protected.GET("/rooms", resourceHandler.ListRooms)
	staff.POST("/rooms", resourceHandler.CreateRoom)
	staff.DELETE("/rooms/:id", resourceHandler.DeleteRoom)
	protected.GET("/lecturers", resourceHandler.ListLecturers)
	staff.POST("/lecturers", resourceHandler.CreateLecturer)
	staff.POST("/lecturers/assignments", resourceHandler.AssignLecturer)

	// Imports and courses.
	staff.POST("/imports/offerings", importHandler.Offerings)
	staff.POST("/imports/canonical-courses", importHandler.CanonicalCourses)
	protected.GET("/offerings", courseHandler.ListOfferings)
	protected.GET("/offerings/:id", courseHandler.GetOffering)
	protected.GET("/canonical-courses", courseHandler.ListCanonical)
	staff.POST("/canonical-courses", courseHandler.CreateCanonical)

	// Matching.
	staff.POST("/matching/run", matchingHandler.Run)
	protected.GET("/matching/review", matchingHandler.Review)
	staff.POST("/matching/approve", matchingHandler.Approve)

	// Constraints.
	protected.GET("/constraints", constraintHandler.Get)
	staff.PUT("/constraints", constraintHandler.Update)
	protected.GET("/blocked-times", constraintHandler.ListBlockedTimes)
	staff.POST("/blocked-times", constraintHandler.CreateBlockedTime)
	staff.DELETE("/blocked-times/:id", constraintHandler.DeleteBlockedTime)
	protected.GET("/locks", constraintHandler.ListLocks)
	staff.POST("/locks", constraintHandler.CreateLock)
	staff.DELETE("/locks/:id", constraintHandler.DeleteLock)
	staff.POST("/locks/prune", constraintHandler.PruneLocks)

	// Scheduling and exports.
	staff.POST("/events/expand", scheduleHandler.ExpandEvents)
	staff.POST("/runs", scheduleHandler.GenerateRun)
	protected.GET("/runs", scheduleHandler.ListRuns)
	protected.GET("/runs/:id", scheduleHandler.GetRun)
	protected.GET("/runs/:id/timetable", exportHandler.Timetable)
	protected.GET("/runs/:id/timetable.csv", exportHandler.TimetableCSV)
	protected.GET("/runs/:id/timetable.pdf", exportHandler.TimetablePDF)
	protected.GET("/runs/:id/unscheduled.csv", exportHandler.UnscheduledCSV)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
