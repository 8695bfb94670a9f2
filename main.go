package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rideshare-backend/internal/chat"
	"rideshare-backend/internal/config"
	"rideshare-backend/internal/db"
	"rideshare-backend/internal/logging"
	"rideshare-backend/internal/middleware"
	"rideshare-backend/internal/rides"
	"rideshare-backend/internal/routes"
	"rideshare-backend/internal/scheduler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, envLoaded := config.Load()

	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(logger)

	if !envLoaded {
		logger.Info("Файл .env не найден, используем переменные окружения")
	}
	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET не задан")
		os.Exit(1)
	}

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	database, err := db.ConnectWithRetry(cfg)
	if err != nil {
		logger.Error("Ошибка подключения к базе данных", "error", err)
		os.Exit(1)
	}

	if err := db.Migrate(database); err != nil {
		logger.Error("Ошибка миграции базы данных", "error", err)
		os.Exit(1)
	}

	// Без Redis автозавершение выполняется локально на каждом экземпляре
	var locker scheduler.Locker
	redisClient, err := db.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis недоступен, автозавершение без распределенной блокировки", "error", err)
	} else {
		logger.Info("Успешное подключение к Redis")
		defer redisClient.Close()
		locker = scheduler.NewRedisLocker(redisClient)
	}

	engine := rides.NewEngine(database, rides.WithLogger(logger))
	chats := chat.NewService(database, logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMiddleware())
	r.SetTrustedProxies([]string{"127.0.0.1"})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	routes.SetupRoutes(r.Group("/api"), routes.Deps{
		DB:        database,
		Engine:    engine,
		Chat:      chats,
		JWTSecret: cfg.JWTSecret,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Сервер запущен", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.AutoCompleteEnabled {
		sched := scheduler.New(engine, locker, cfg.AutoCompleteInterval, cfg.AutoCompleteLockTTL, logger)
		g.Go(func() error {
			return sched.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Получен сигнал завершения, закрываем соединения...")

		// Даем 30 секунд на завершение текущих запросов
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Сервер завершился с ошибкой", "error", err)
		os.Exit(1)
	}

	if sqlDB, err := database.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("Сервер корректно завершил работу")
}
