package app

import (
	"context"
	"exam_prep_backend/internal/config"
	"exam_prep_backend/internal/controller"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/internal/service"
	"exam_prep_backend/pkg/database"
	"exam_prep_backend/pkg/logger"
	"exam_prep_backend/pkg/monitoring"
	"exam_prep_backend/pkg/security"
	"exam_prep_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services

	stopJobs chan struct{}
}

type repositories struct {
	user         *repository.UserRepository
	branch       *repository.BranchRepository
	question     *repository.QuestionRepository
	mockTest     *repository.MockTestRepository
	attempt      *repository.AttemptRepository
	leaderboard  *repository.LeaderboardRepository
	contribution *repository.ContributionRepository
	notification *repository.NotificationRepository
	stats        *repository.StatsRepository
}

type services struct {
	auth         *service.AuthService
	user         *service.UserService
	branch       *service.BranchService
	question     *service.QuestionService
	mockTest     *service.MockTestService
	attempt      *service.AttemptService
	leaderboard  *service.LeaderboardService
	notification *service.NotificationService
	stats        *service.StatsService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	branch       *controller.BranchController
	question     *controller.QuestionController
	mockTest     *controller.MockTestController
	attempt      *controller.AttemptController
	leaderboard  *controller.LeaderboardController
	notification *controller.NotificationController
	stats        *controller.StatsController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		branch:       repository.NewBranchRepository(db),
		question:     repository.NewQuestionRepository(db),
		mockTest:     repository.NewMockTestRepository(db),
		attempt:      repository.NewAttemptRepository(db),
		leaderboard:  repository.NewLeaderboardRepository(db),
		contribution: repository.NewContributionRepository(db),
		notification: repository.NewNotificationRepository(db),
		stats:        repository.NewStatsRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.notification = service.NewNotificationService(repos.notification, rdb)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, repos.stats, repos.branch)
	s.branch = service.NewBranchService(repos.branch)
	s.question = service.NewQuestionService(repos.question, repos.contribution, repos.branch, s.notification, cfg)
	s.mockTest = service.NewMockTestService(repos.mockTest, repos.question, repos.branch)
	s.attempt = service.NewAttemptService(repos.attempt, repos.question, repos.mockTest, s.notification, cfg)
	s.leaderboard = service.NewLeaderboardService(repos.leaderboard, repos.attempt, repos.mockTest, rdb, s.notification, cfg)
	s.stats = service.NewStatsService(repos.user, repos.question, repos.attempt, repos.contribution, repos.stats)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		user:         controller.NewUserController(s.user),
		branch:       controller.NewBranchController(s.branch),
		question:     controller.NewQuestionController(s.question),
		mockTest:     controller.NewMockTestController(s.mockTest),
		attempt:      controller.NewAttemptController(s.attempt),
		leaderboard:  controller.NewLeaderboardController(s.leaderboard),
		notification: controller.NewNotificationController(s.notification),
		stats:        controller.NewStatsController(s.stats),
		health:       controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks runs the scheduled jobs: leaderboard rebuilds,
// statistics rebuilds and the question publication batch. All three are
// idempotent, so the cadence only affects freshness.
func (a *App) startBackgroundTasks(s *services) {
	a.stopJobs = make(chan struct{})

	go func() {
		ticker := time.NewTicker(time.Duration(a.Config.Leaderboard.RecalcIntervalMinutes) * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.leaderboard.RecalculateAll()
			case <-a.stopJobs:
				return
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(time.Duration(a.Config.Jobs.StatsIntervalMinutes) * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.stats.RebuildAll()
			case <-a.stopJobs:
				return
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(time.Duration(a.Config.Jobs.PublicationIntervalMinutes) * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if published, err := s.question.ProcessScheduledPublications(); err != nil {
					logger.Log.Error("scheduled publication error", zap.Error(err))
				} else if published > 0 {
					logger.Log.Info("scheduled publication ran", zap.Int("published", published))
				}
			case <-a.stopJobs:
				return
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, caching and pub/sub disabled", zap.Error(err))
		rdb = nil
	}
	app.Redis = rdb

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("exam-prep-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	app.startBackgroundTasks(services)

	return app
}

// ApplyConfig hot-reloads the policy knobs that are safe to change while
// running. Connection settings and the HTTP surface still need a restart.
func (a *App) ApplyConfig(newCfg *config.Config) {
	a.Config.Attempt = newCfg.Attempt
	a.Config.Leaderboard = newCfg.Leaderboard
	a.Config.Jobs = newCfg.Jobs
	logger.Log.Info("configuration reloaded",
		zap.Bool("allowParallel", newCfg.Attempt.AllowParallel),
		zap.Int("leaderboardTopLimit", newCfg.Leaderboard.TopLimit))
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.stopJobs != nil {
		close(a.stopJobs)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
