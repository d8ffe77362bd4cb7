package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"quizpath_backend/internal/config"
	"quizpath_backend/internal/controller"
	"quizpath_backend/internal/repository"
	"quizpath_backend/internal/service"
	"quizpath_backend/internal/util"
	"quizpath_backend/pkg/configwatcher"
	"quizpath_backend/pkg/database"
	"quizpath_backend/pkg/logger"
	"quizpath_backend/pkg/monitoring"
	"quizpath_backend/pkg/security"
	"quizpath_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	tracer          *sdktrace.TracerProvider
	limiter         *security.Limiter
	services        *services
	configCallbacks []configwatcher.ConfigReloader
}

type repositories struct {
	learningPath  *repository.LearningPathRepository
	progress      *repository.ProgressRepository
	deck          *repository.DeckRepository
	reviewSession *repository.ReviewSessionRepository
	studyEvent    *repository.StudyEventRepository
}

type services struct {
	storage      *service.StorageService
	learningPath *service.LearningPathService
	deck         *service.DeckService
	studyEvent   *service.StudyEventService
	ai           *service.AIService
}

type controllers struct {
	learningPath *controller.LearningPathController
	deck         *controller.DeckController
	studyEvent   *controller.StudyEventController
	flashcard    *controller.FlashcardController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback configwatcher.ConfigReloader) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	return &repositories{
		learningPath:  repository.NewLearningPathRepository(db, rdb, cfg.Redis.TTL),
		progress:      repository.NewProgressRepository(db),
		deck:          repository.NewDeckRepository(db),
		reviewSession: repository.NewReviewSessionRepository(db),
		studyEvent:    repository.NewStudyEventRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(&cfg.Storage)
	s.learningPath = service.NewLearningPathService(repos.learningPath, repos.progress)
	s.deck = service.NewDeckService(repos.deck, repos.reviewSession, s.storage, cfg.Data.DefaultDeckFile)
	s.studyEvent = service.NewStudyEventService(repos.studyEvent)
	s.ai = service.NewAIService(cfg.AI)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		learningPath: controller.NewLearningPathController(s.learningPath),
		deck:         controller.NewDeckController(s.deck),
		studyEvent:   controller.NewStudyEventController(s.studyEvent),
		flashcard:    controller.NewFlashcardController(s.ai),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Recovery())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	a.limiter = security.NewLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute)
	router.Use(a.limiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// seed 启动时写入默认卡组和课程目录，失败只记录日志
func (a *App) seed(ctx context.Context) {
	if err := a.services.deck.EnsureDefaultDeck(ctx); err != nil {
		logger.Log.Warn("Failed to store default deck", zap.Error(err))
	}
	if _, err := a.services.learningPath.SeedCurricula(ctx, a.Config.Data.CurriculaDir); err != nil {
		logger.Log.Warn("Failed to seed curricula", zap.Error(err))
	}
}

// New 在已建立的连接上组装路由，rdb 可以为 nil
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	gin.SetMode(cfg.Server.Mode)

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb, cfg)
	app.services = app.initServices(repos, cfg)
	controllers := app.initControllers(app.services, db, rdb)

	// 监控初始化
	monitoring.Init()

	router := gin.New()
	router.Use(gin.Logger())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	if cfg.Server.StaticDir != "" {
		router.Static("/static", cfg.Server.StaticDir)
		router.StaticFile("/", filepath.Join(cfg.Server.StaticDir, "index.html"))
	}

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.SetLevel(newCfg.Server.Mode)
	})
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		app.limiter.Update(newCfg.RateLimit.MaxRequests, time.Duration(newCfg.RateLimit.WindowMinutes)*time.Minute)
	})

	return app
}

// NewApp 初始化日志、数据库、缓存和追踪后组装应用
func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == "debug")
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}, nil
	}

	ctx := context.Background()
	rdb, err := database.InitRedis(ctx, &cfg.Redis)
	if err != nil {
		// 缓存不是必需的
		logger.Log.Warn("Redis unavailable, continuing without cache", zap.Error(err))
		rdb = nil
	}

	tp, err := tracing.InitTracer(ctx, &cfg.Tracing)
	if err != nil {
		return nil, err
	}

	app := New(cfg, db, rdb)
	app.tracer = tp
	app.seed(ctx)
	return app, nil
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.Config.Dir != "" {
		go func() {
			if err := configwatcher.WatchConfig(ctx, a.Config.Dir, a.configCallbacks...); err != nil {
				logger.Log.Warn("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Server stopped unexpectedly", zap.Error(err))
			os.Exit(1)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.Close(shutdownCtx)

	logger.Log.Info("Server exiting")
}

// Close 释放外部连接
func (a *App) Close(ctx context.Context) {
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	_ = logger.Log.Sync()
}
