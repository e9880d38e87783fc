package app

import (
	"circlemeet_backend/internal/config"
	"circlemeet_backend/internal/controller"
	"circlemeet_backend/internal/repository"
	"circlemeet_backend/internal/service"
	"circlemeet_backend/pkg/database"
	"circlemeet_backend/pkg/logger"
	"circlemeet_backend/pkg/monitoring"
	"circlemeet_backend/pkg/security"
	"circlemeet_backend/pkg/tracing"
	"context"
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
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user         *repository.UserRepository
	profile      *repository.ProfileRepository
	circle       *repository.CircleRepository
	event        *repository.EventRepository
	poll         *repository.PollRepository
	message      *repository.MessageRepository
	moment       *repository.MomentRepository
	friendship   *repository.FriendshipRepository
	rating       *repository.RatingRepository
	report       *repository.ReportRepository
	notification *repository.NotificationRepository
	quiz         *repository.QuizRepository
}

type services struct {
	storage      *service.StorageService
	auth         *service.AuthService
	user         *service.UserService
	circle       *service.CircleService
	event        *service.EventService
	poll         *service.PollService
	message      *service.MessageService
	moment       *service.MomentService
	friendship   *service.FriendshipService
	rating       *service.RatingService
	notification *service.NotificationService
	quiz         *service.QuizService
	deletion     *service.AccountDeletionService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	circle       *controller.CircleController
	event        *controller.EventController
	poll         *controller.PollController
	message      *controller.MessageController
	moment       *controller.MomentController
	friendship   *controller.FriendshipController
	rating       *controller.RatingController
	notification *controller.NotificationController
	quiz         *controller.QuizController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置文件热更新回调。只有能安全热调的参数在这里生效，
// 端口、数据库连接这类要重启才能变。
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	if a.services != nil && a.services.deletion != nil {
		a.services.deletion.RowBatchSize = cfg.Deletion.RowBatchSize
		a.services.deletion.StorageBatchSize = cfg.Deletion.StorageBatchSize
	}
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("config reloaded")
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		profile:      repository.NewProfileRepository(db),
		circle:       repository.NewCircleRepository(db),
		event:        repository.NewEventRepository(db),
		poll:         repository.NewPollRepository(db),
		message:      repository.NewMessageRepository(db),
		moment:       repository.NewMomentRepository(db),
		friendship:   repository.NewFriendshipRepository(db, rdb),
		rating:       repository.NewRatingRepository(db),
		report:       repository.NewReportRepository(db),
		notification: repository.NewNotificationRepository(db),
		quiz:         repository.NewQuizRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	mailer := service.NewSMTPMailer(&cfg.SMTP)

	s.auth = service.NewAuthService(repos.user, repos.profile, cfg)
	s.user = service.NewUserService(repos.user, repos.profile, repos.rating, s.storage)
	s.circle = service.NewCircleService(repos.circle, repos.notification)
	s.event = service.NewEventService(repos.event, repos.circle)
	s.poll = service.NewPollService(repos.poll, repos.circle, repos.notification)
	s.message = service.NewMessageService(repos.message, repos.circle, repos.friendship, s.storage)
	s.moment = service.NewMomentService(repos.moment, repos.circle)
	s.friendship = service.NewFriendshipService(repos.friendship, repos.notification)
	s.rating = service.NewRatingService(repos.rating, repos.profile, repos.report, rdb)
	s.notification = service.NewNotificationService(repos.notification)
	s.quiz = service.NewQuizService(repos.quiz, repos.profile, mailer, cfg.SMTP.NotifyTo)

	s.deletion = service.NewAccountDeletionService(
		db,
		repos.user,
		repos.friendship,
		s.storage.Provider,
		cfg.Deletion.RowBatchSize,
		cfg.Deletion.StorageBatchSize,
	)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		user:         controller.NewUserController(s.user, s.deletion),
		circle:       controller.NewCircleController(s.circle),
		event:        controller.NewEventController(s.event),
		poll:         controller.NewPollController(s.poll),
		message:      controller.NewMessageController(s.message),
		moment:       controller.NewMomentController(s.moment),
		friendship:   controller.NewFriendshipController(s.friendship),
		rating:       controller.NewRatingController(s.rating),
		notification: controller.NewNotificationController(s.notification),
		quiz:         controller.NewQuizController(s.quiz),
		health:       controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("circlemeet", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
