package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/fsp-platform/timetable-api/internal/catalog"
	"github.com/fsp-platform/timetable-api/internal/handler"
	"github.com/fsp-platform/timetable-api/internal/middleware"
	"github.com/fsp-platform/timetable-api/internal/service"
	"github.com/fsp-platform/timetable-api/pkg/config"
	"github.com/fsp-platform/timetable-api/pkg/logger"
	corsmiddleware "github.com/fsp-platform/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/fsp-platform/timetable-api/pkg/middleware/requestid"
	"github.com/fsp-platform/timetable-api/pkg/storage"
)

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

	rooms, err := catalog.LoadRooms(cfg.Rooms.CatalogFile)
	if err != nil {
		logr.Sugar().Fatalw("failed to load room catalog", "error", err)
	}

	store, err := storage.NewDocumentStore(cfg.Storage.SchedulesDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init schedule store", "error", err)
	}

	metricsSvc := service.NewMetricsService()
	timetableSvc := service.NewTimetableService(store, rooms, cfg.Scheduler, metricsSvc, validator.New(), logr)
	exportSvc := service.NewExportService(nil, nil, nil, logr)

	timetableHandler := handler.NewTimetableHandler(timetableSvc, exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/timetables", timetableHandler.Create)
		api.GET("/timetables/:id", timetableHandler.Get)
		api.GET("/timetables/:id/export/:format", timetableHandler.Export)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "rooms", len(rooms))
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
