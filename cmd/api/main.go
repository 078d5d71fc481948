package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/brightpath-edu/coursesched/api/swagger"
	"github.com/brightpath-edu/coursesched/internal/analyzer"
	internalhandler "github.com/brightpath-edu/coursesched/internal/handler"
	internalmiddleware "github.com/brightpath-edu/coursesched/internal/middleware"
	"github.com/brightpath-edu/coursesched/internal/service"
	"github.com/brightpath-edu/coursesched/pkg/cache"
	"github.com/brightpath-edu/coursesched/pkg/config"
	"github.com/brightpath-edu/coursesched/pkg/database"
	"github.com/brightpath-edu/coursesched/pkg/logger"
	corsmiddleware "github.com/brightpath-edu/coursesched/pkg/middleware/cors"
	reqidmiddleware "github.com/brightpath-edu/coursesched/pkg/middleware/requestid"
)

// @title Coursesched API
// @version 0.1.0
// @description Incremental phase-based course scheduler
// @BasePath /
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// The solver and analyzer run entirely in-process against the bundle the
	// caller submits; Postgres only backs the future bundle/schedule
	// persistence layer described by internal/storage, so a connection
	// failure here is logged, not fatal.
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Warnw("database unavailable, bundle/schedule persistence disabled", "error", err)
	} else {
		defer db.Close()
	}

	metricsSvc := service.NewMetricsService()

	// The analyzer's search results are cheap to recompute, so a Redis
	// outage just means every search is a cache miss.
	var queryCache analyzer.QueryCache
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, search results will not be cached", "error", err)
	} else {
		defer redisClient.Close()
		queryCache = analyzer.NewRedisQueryCache(redisClient, "coursesched:search:")
	}

	scheduleSvc := service.NewScheduleService(logr, metricsSvc)
	searchSvc := service.NewSearchService(scheduleSvc, queryCache, logr, metricsSvc)

	scheduleHandler := internalhandler.NewScheduleHandler(scheduleSvc)
	searchHandler := internalhandler.NewSearchHandler(searchSvc)
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)

	r := newRouter(cfg, logr, metricsSvc, scheduleHandler, searchHandler, metricsHandler)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Sugar().Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

func newRouter(
	cfg *config.Config,
	logr *zap.Logger,
	metricsSvc *service.MetricsService,
	scheduleHandler *internalhandler.ScheduleHandler,
	searchHandler *internalhandler.SearchHandler,
	metricsHandler *internalhandler.MetricsHandler,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	schedules := api.Group("/schedules")
	schedules.POST("/generate", scheduleHandler.Generate)
	schedules.GET("/search", searchHandler.Search)
	schedules.GET("/summary", searchHandler.Summary)

	return r
}
