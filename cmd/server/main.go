package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/etymograph/dailyverse/internal/app"
	"github.com/etymograph/dailyverse/internal/cache"
	"github.com/etymograph/dailyverse/internal/config"
	"github.com/etymograph/dailyverse/internal/handler"
	"github.com/etymograph/dailyverse/internal/limiter"
	"github.com/etymograph/dailyverse/internal/logging"
	"github.com/etymograph/dailyverse/internal/middleware"
	"github.com/etymograph/dailyverse/internal/scheduler"
	"github.com/etymograph/dailyverse/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	hydrateTimeout  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	// Initialize Redis (fail-open)
	var redisCache *cache.RedisCache
	if cfg.RedisURL != "" {
		redisCache, err = cache.NewRedisCache(cfg.RedisURL, logger)
		if err != nil {
			logger.Warn("failed to connect to redis, continuing without it", zap.Error(err))
			redisCache = nil
		} else {
			defer redisCache.Close()
		}
	}

	var wordOpts []service.Option
	var counter limiter.Counter = limiter.NewMemoryCounter()
	if redisCache != nil {
		wordOpts = append(wordOpts, service.WithSnapshots(redisCache))
		counter = redisCache
	}

	wordService := app.NewWordService(cfg, logger, wordOpts...)
	poemService := app.NewPoemService(cfg, logger)

	hydrateCtx, cancel := context.WithTimeout(context.Background(), hydrateTimeout)
	wordService.Hydrate(hydrateCtx)
	cancel()

	var prewarm *scheduler.PrewarmScheduler
	if cfg.PrewarmEnabled {
		prewarm, err = scheduler.NewPrewarmScheduler(wordService, cfg.PrewarmSchedule, logger)
		if err != nil {
			logger.Fatal("failed to initialize prewarm scheduler", zap.Error(err))
		}
		prewarm.Start()
		defer prewarm.Stop()
	}

	wordHandler := handler.NewWordHandler(wordService, logger)
	poemHandler := handler.NewPoemHandler(poemService, logger)
	refreshLimiter := limiter.New(counter, cfg.RefreshLimit, cfg.RefreshWindow)

	r := newRouter(wordHandler, poemHandler, refreshLimiter, prewarm, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("API server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
}

func newRouter(
	wordHandler *handler.WordHandler,
	poemHandler *handler.PoemHandler,
	refreshLimiter *limiter.Limiter,
	prewarm *scheduler.PrewarmScheduler,
	logger *zap.Logger,
) *gin.Engine {
	r := gin.New()
	// The client IP keys the refresh limit, so forwarding headers are not
	// trusted from anyone.
	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Warn("failed to reset trusted proxies", zap.Error(err))
	}
	r.Use(gin.Recovery())
	r.Use(middleware.MetricsMiddleware())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Scheduler status
	r.GET("/scheduler/status", func(c *gin.Context) {
		if prewarm != nil {
			c.JSON(http.StatusOK, prewarm.GetStatus())
		} else {
			c.JSON(http.StatusOK, gin.H{"enabled": false, "message": "Scheduler is disabled"})
		}
	})

	api := r.Group("/api")
	{
		api.GET("/words", wordHandler.GetWords)
		api.GET("/words/status", wordHandler.GetStatus)
		api.POST("/words/refresh",
			middleware.RateLimitMiddleware(refreshLimiter, "refresh", logger),
			wordHandler.Refresh)

		api.GET("/poem", poemHandler.GetPoem)
	}

	return r
}
