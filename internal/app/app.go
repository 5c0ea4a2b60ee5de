package app

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"edu_exam_backend/internal/config"
	"edu_exam_backend/internal/controller"
	"edu_exam_backend/internal/repository"
	"edu_exam_backend/internal/service"
	"edu_exam_backend/internal/util"
	"edu_exam_backend/pkg/configwatcher"
	"edu_exam_backend/pkg/database"
	"edu_exam_backend/pkg/logger"
	"edu_exam_backend/pkg/monitoring"
	"edu_exam_backend/pkg/security"
	"edu_exam_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	ConfigDir       string
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	limiter         *security.IPRateLimiter
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	class    *repository.ClassRepository
	exam     *repository.ExamRepository
	attempt  *repository.ExamAttemptRepository
	notebook *repository.NotebookFileRepository
	task     *repository.GenerationTaskRepository
}

type services struct {
	auth       *service.AuthService
	class      *service.ClassService
	storage    *service.StorageService
	ai         *service.AIService
	exam       *service.ExamService
	attempt    *service.ExamAttemptService
	generation *service.QuestionGenerationService
	export     *service.ExamExportService
	notebook   *service.NotebookFileService
	scheduler  *service.ExamSchedulerService
}

type controllers struct {
	auth     *controller.AuthController
	class    *controller.ClassController
	notebook *controller.NotebookController
	exam     *controller.ExamController
	attempt  *controller.ExamAttemptController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		class:    repository.NewClassRepository(db),
		exam:     repository.NewExamRepository(db),
		attempt:  repository.NewExamAttemptRepository(db),
		notebook: repository.NewNotebookFileRepository(db),
		task:     repository.NewGenerationTaskRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.class = service.NewClassService(repos.class, repos.user)
	s.ai = service.NewAIService(cfg.AI)

	s.exam = service.NewExamService(repos.exam, repos.attempt, repos.class)
	s.attempt = service.NewExamAttemptService(repos.exam, repos.attempt, repos.class)
	s.export = service.NewExamExportService(repos.exam, repos.attempt)
	s.notebook = service.NewNotebookFileService(repos.notebook, s.storage)

	s.generation = service.NewQuestionGenerationService(
		repos.exam,
		repos.notebook,
		repos.task,
		service.NewNotebookSummarizer(s.ai, s.storage),
		s.ai,
		cfg.AI,
	)

	s.scheduler = service.NewExamSchedulerService(repos.exam, repos.attempt, s.attempt, rdb, cfg.Exam)
	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		class:    controller.NewClassController(s.class),
		notebook: controller.NewNotebookController(s.notebook),
		exam:     controller.NewExamController(s.exam, s.generation, s.export),
		attempt:  controller.NewExamAttemptController(s.exam, s.attempt),
		health:   controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	a.limiter = security.NewIPRateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute)
	router.Use(a.limiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// registerValidators 考试时间窗口在绑定阶段校验
func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		service.RegisterValidators(v)
	}
}

func (a *App) startBackgroundTasks(ctx context.Context, s *services) {
	// 出题任务在 Stop 时排空，不随信号取消
	s.generation.Start(context.Background())
	go a.limiter.RunCleanup(ctx)

	if !a.Config.Exam.SchedulerEnabled {
		logger.Log.Info("exam scheduler disabled")
		return
	}
	if err := s.scheduler.Start(); err != nil {
		logger.Log.Fatal("Failed to start exam scheduler", zap.Error(err))
	}
}

func (a *App) stopBackgroundTasks() {
	if a.services == nil {
		return
	}
	a.services.scheduler.Stop()
	a.services.generation.Stop()
}

// applyConfig 热更新只生效大模型参数，其余配置需要重启
func (a *App) applyConfig(cfg *config.Config) {
	a.services.ai.UpdateSettings(cfg.AI.Model, cfg.AI.Temperature)
	logger.Log.Info("AI settings reloaded",
		zap.String("model", cfg.AI.Model), zap.Float32("temperature", cfg.AI.Temperature))

	if cfg.Database != a.Config.Database || cfg.Server != a.Config.Server || cfg.Exam != a.Config.Exam {
		logger.Log.Warn("server, database and exam settings changed; restart to apply them")
	}
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

// Migrate 只执行数据库迁移
func Migrate(cfg *config.Config) error {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, true)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RunSweeps 单次执行两个调度扫描，供运维命令使用
func RunSweeps(ctx context.Context, cfg *config.Config) error {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, false)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	examRepo := repository.NewExamRepository(db)
	attemptRepo := repository.NewExamAttemptRepository(db)
	classRepo := repository.NewClassRepository(db)
	submitter := service.NewExamAttemptService(examRepo, attemptRepo, classRepo)

	// 单次执行不加分布式锁
	scheduler := service.NewExamSchedulerService(examRepo, attemptRepo, submitter, nil, cfg.Exam)

	expired := scheduler.SweepExpiredAttempts(ctx)
	logger.Log.Info("auto submit sweep finished",
		zap.Int("scanned", expired.Scanned), zap.Int("processed", expired.Processed), zap.Int("failed", expired.Failed))

	statuses := scheduler.SweepExamStatuses(ctx)
	logger.Log.Info("exam status sweep finished",
		zap.Int("scanned", statuses.Scanned), zap.Int("processed", statuses.Processed), zap.Int("failed", statuses.Failed))

	if expired.Failed+statuses.Failed > 0 {
		return fmt.Errorf("%d sweep items failed", expired.Failed+statuses.Failed)
	}
	return nil
}

func NewApp(cfg *config.Config, configDir string) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	// release 模式默认不自动迁移，需显式指定
	migrate := cfg.Server.Mode != "release" || cfg.ForceMigrate
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config:    cfg,
		ConfigDir: configDir,
		DB:        db,
		Redis:     rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 已生效的 AI 配置同步回 App
	app.RegisterConfigCallback(func(c *config.Config) {
		app.Config.AI = c.AI
	})

	// 监控初始化
	monitoring.Init()
	registerValidators()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("edu-exam-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	defer logger.Log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.startBackgroundTasks(ctx, a.services)

	if a.ConfigDir != "" {
		if err := configwatcher.WatchConfig(ctx, a.ConfigDir, "config.yaml", a.applyConfig); err != nil {
			logger.Log.Warn("config hot reload disabled", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen failed", zap.Error(err))
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

	// 等待进行中的出题任务和调度任务结束
	a.stopBackgroundTasks()

	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
