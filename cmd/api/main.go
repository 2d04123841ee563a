package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/recipeinbox/backend/internal/collab"
	"github.com/recipeinbox/backend/internal/config"
	"github.com/recipeinbox/backend/internal/handler"
	"github.com/recipeinbox/backend/internal/middleware"
	"github.com/recipeinbox/backend/internal/migration"
	"github.com/recipeinbox/backend/internal/notify"
	"github.com/recipeinbox/backend/internal/repository"
	"github.com/recipeinbox/backend/internal/routes"
	"github.com/recipeinbox/backend/internal/service"
	"github.com/recipeinbox/backend/internal/ws"
	"github.com/recipeinbox/backend/pkg/cache"
	"github.com/recipeinbox/backend/pkg/jwt"
	pkglogger "github.com/recipeinbox/backend/pkg/logger"
	"github.com/recipeinbox/backend/pkg/push"
	pkgredis "github.com/recipeinbox/backend/pkg/redis"
	pkgstorage "github.com/recipeinbox/backend/pkg/storage"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath(env string) string {
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	dotenvFiles := config.LoadDotEnv(".", env)

	cfg, err := config.Load(getConfigPath(env))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	pkglogger.InitStructured(env, cfg.Log.Level)
	log := pkglogger.GetLogger()
	log.Info().Str("env", env).Strs("env_files", dotenvFiles).Msg("starting")
	config.LogResolved(cfg)

	db, err := initDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := migration.Run(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	// Redis is optional: without it the hub stays local and references live in memory
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient, err = pkgredis.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis (continuing without Redis)")
			redisClient = nil
		} else {
			log.Info().Msg("connected to Redis")
		}
	}

	wsHub := ws.NewHub(redisClient)
	go wsHub.Run()

	var images service.ImageStore
	if cfg.Storage.Enabled {
		s3Client, err := pkgstorage.NewS3Client(pkgstorage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			CDNURL:          cfg.Storage.CDNURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if err != nil {
			log.Warn().Err(err).Msg("storage disabled; shared recipes will not carry images")
		} else {
			images = s3Client
		}
	}

	// Repositories
	tx := repository.NewTransactor(db)
	userRepo := repository.NewUserRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	pushTokenRepo := repository.NewPushTokenRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	shoppingListRepo := repository.NewShoppingListRepository(db)
	mealPlanRepo := repository.NewMealPlanRepository(db)

	// Notification channels
	channels := []notify.Channel{notify.NewBroadcastChannel(wsHub)}
	if cfg.Push.Enabled {
		fcm, err := newFCMClient(cfg.Push)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to configure push delivery")
		}
		channels = append(channels, notify.NewPushChannel(fcm, pushTokenRepo, notify.PushConfig{
			TokenTimeout:   cfg.Push.TokenTimeout(),
			MaxConcurrency: cfg.Push.MaxConcurrency,
		}))
	}
	dispatcher := notify.NewDispatcher(channels...)

	// Services
	var jwtManager *jwt.Manager
	if cfg.JWT.Secret != "" {
		jwtManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	}
	references := collab.NewReferenceCounter(redisClient)
	shareSvc := service.NewRecipeShareService(tx, recipeRepo, userRepo, images)
	messageSvc := service.NewMessageService(tx, messageRepo, userRepo, shareSvc, dispatcher)
	var sessionCache cache.Service
	if redisClient != nil {
		sessionCache = cache.NewService(redisClient)
	}
	sessionSvc := service.NewSessionService(jwtManager, sessionRepo, sessionCache)
	pushTokenSvc := service.NewPushTokenService(pushTokenRepo)
	shoppingListSvc := service.NewShoppingListService(shoppingListRepo, references, wsHub)
	mealPlanSvc := service.NewMealPlanService(mealPlanRepo, references, wsHub)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.CORS.AllowOrigins)))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	if sqlDB, err := db.DB(); err == nil {
		middleware.RegisterConnectionGauges(sqlDB.Stats, wsHub.TotalConnections)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "recipeinbox",
			"time":    time.Now().Unix(),
		})
	})

	routes.Setup(
		router,
		middleware.SessionAuth(sessionSvc),
		middleware.RateLimitPerUser(redisClient, middleware.MessageRateLimitConfig()),
		handler.NewMessageHandler(messageSvc),
		handler.NewShoppingListHandler(shoppingListSvc),
		handler.NewMealPlanHandler(mealPlanSvc),
		handler.NewPushTokenHandler(pushTokenSvc),
		handler.NewWSHandler(wsHub, cfg.CORS.AllowOrigins),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	wsHub.Stop()
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func corsConfig(allowOrigins string) cors.Config {
	origins := []string{}
	for _, o := range strings.Split(allowOrigins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           12 * time.Hour,
	}
}

// newFCMClient authenticates with the service account key when one is configured,
// otherwise with the fixed access token an emulator accepts
func newFCMClient(cfg config.PushConfig) (*push.FCMClient, error) {
	fcmCfg := push.FCMConfig{
		Endpoint:  cfg.Endpoint,
		ProjectID: cfg.ProjectID,
		Timeout:   cfg.Timeout(),
	}
	if cfg.CredentialsFile == "" {
		fcmCfg.AccessToken = cfg.AccessToken
		return push.NewFCMClient(fcmCfg), nil
	}
	key, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read fcm credentials: %w", err)
	}
	return push.NewFCMClientFromCredentials(context.Background(), key, fcmCfg)
}

// initDB opens the MySQL connection pool
func initDB(cfg *config.Config) (*gorm.DB, error) {
	mysqlCfg, err := mysqldriver.ParseDSN(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}
	db, err := gorm.Open(mysql.Open(mysqlCfg.FormatDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	return db, nil
}
