package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"admissions-scheduler/core/breaker"
	"admissions-scheduler/core/cache"
	"admissions-scheduler/core/config"
	"admissions-scheduler/core/database"
	"admissions-scheduler/core/logger"
	"admissions-scheduler/core/middleware"
	"admissions-scheduler/modules/calendar"
	"admissions-scheduler/modules/directory"
	"admissions-scheduler/modules/evaluation"
	"admissions-scheduler/modules/interview"
	"admissions-scheduler/modules/notification"
	notificationservice "admissions-scheduler/modules/notification/service"
	"admissions-scheduler/modules/schedule"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
)

// Run boots the scheduling engine: config, database, cache, queue, every
// module, and blocks until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.App.LogLevel, cfg.App.Environment != "development")

	tz, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", cfg.App.Timezone, err)
	}

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	var store cache.Cache
	var asynqClient *asynq.Client
	var asynqServer *asynq.Server
	if cfg.Redis.Enabled {
		redisOpt := &redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}
		store = cache.NewRedisCache(redis.NewClient(redisOpt))

		asynqRedis := asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}
		asynqClient = asynq.NewClient(asynqRedis)
		asynqServer = asynq.NewServer(asynqRedis, asynq.Config{
			Concurrency: 5,
			Logger:      logger.Asynq(),
		})
	} else {
		logger.Warn("Server:Run", "message", "redis not configured, using in-memory cache and inline notifications")
		store = cache.NewMemoryCache(cfg.Cache.MemoryMaxItems, nil)
	}

	guard := breaker.New(cfg.Breaker)
	mw := middleware.New(cfg)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORS())
	e.Use(requestLogger())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Module wiring. The evaluation/interview cycle is closed after both
	// services exist.
	directorySvc := directory.Init(db, store, guard, cfg.Cache.DirectoryTTL)
	scheduleSvc := schedule.Init(e, db, store, guard, tz, mw)
	evaluationSvc := evaluation.Init(e, db, guard, mw)

	var enqueuer notificationservice.TaskEnqueuer
	if asynqClient != nil {
		enqueuer = asynqClient
	}
	dispatcher, handler := notification.Init(e, db, guard, enqueuer, directorySvc, mw)

	interviewSvc := interview.Init(e, db, store, guard, scheduleSvc, evaluationSvc, dispatcher, tz, cfg.Cache.SlotTTL, mw)
	evaluationSvc.SetInterviewCompleter(interviewSvc)

	calendar.Init(e, db, store, guard, cfg.Cache.CalendarTTL, tz, mw)

	if asynqServer != nil {
		mux := asynq.NewServeMux()
		handler.Register(mux)
		go func() {
			if err := asynqServer.Run(mux); err != nil {
				logger.Error("Server:Asynq", "error", err)
			}
		}()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Start", "error", err)
		}
	}()
	logger.Info("Server:Run", "addr", addr, "timezone", cfg.App.Timezone)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if asynqServer != nil {
		asynqServer.Shutdown()
	}
	if asynqClient != nil {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("Server:Shutdown:AsynqClient", "error", err)
		}
	}
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Server:Shutdown", "message", "stopped cleanly")
	return nil
}

func requestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info("HTTP:Request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
			)
			return nil
		},
	})
}
