package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/vyservice/ops-api/api/swagger"
	"github.com/vyservice/ops-api/internal/geofence"
	"github.com/vyservice/ops-api/internal/handler"
	"github.com/vyservice/ops-api/internal/notify"
	"github.com/vyservice/ops-api/internal/repository"
	"github.com/vyservice/ops-api/internal/service"
	"github.com/vyservice/ops-api/pkg/cache"
	"github.com/vyservice/ops-api/pkg/config"
	"github.com/vyservice/ops-api/pkg/database"
	"github.com/vyservice/ops-api/pkg/export"
	"github.com/vyservice/ops-api/pkg/jobs"
	"github.com/vyservice/ops-api/pkg/logger"
	corsmiddleware "github.com/vyservice/ops-api/pkg/middleware/cors"
	reqidmiddleware "github.com/vyservice/ops-api/pkg/middleware/requestid"
)

// @title VY Service Ops API
// @version 1.0.0
// @description Repair shop operations backend
// @BasePath /api
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	validate := validator.New()
	metrics := service.NewMetricsService()
	fence := geofence.NewValidator(cfg.Office)

	attendanceRepo := repository.NewAttendanceRepository(db)
	repairRepo := repository.NewRepairRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)

	var senders []notify.Sender
	if cfg.Notifications.Enabled {
		if wa := notify.NewWhatsAppSender(cfg.Notifications.WhatsAppToken, cfg.Notifications.WhatsAppPhoneNumberID, cfg.Notifications.WhatsAppAPIVersion, logr); wa != nil {
			senders = append(senders, wa)
		}
		if sms := notify.NewFast2SMSSender(cfg.Notifications.Fast2SMSKey, logr); sms != nil {
			senders = append(senders, sms)
		}
		if len(senders) == 0 {
			logr.Warn("notifications enabled but no provider is configured")
		}
	}
	notifications := service.NewNotificationService(senders, metrics, logr, jobs.QueueConfig{
		Workers: 1,
		Delay:   cfg.Notifications.MessageDelay,
	})

	attendanceSvc := service.NewAttendanceService(attendanceRepo, cacheRepo, fence, metrics, validate, logr, service.AttendanceConfig{
		QueryTimeout:  cfg.Database.QueryTimeout,
		TodayCountTTL: cfg.Dashboard.TodayCountTTL,
		OfficeIP:      cfg.Office.AllowedIPs,
		OfficeCIDR:    cfg.Office.AllowedCIDRs,
	})
	repairSvc := service.NewRepairService(repairRepo, notifications, validate, logr, cfg.Database.QueryTimeout)
	employeeSvc := service.NewEmployeeService(employeeRepo, validate, logr, cfg.Database.QueryTimeout)
	authSvc := service.NewAuthService(employeeRepo, validate, logr, cfg.JWT, cfg.Admin)

	handlers := handler.Handlers{
		Auth:       handler.NewAuthHandler(authSvc, logr),
		Attendance: handler.NewAttendanceHandler(attendanceSvc, export.NewCSVExporter(), logr),
		Repair:     handler.NewRepairHandler(repairSvc, export.NewPDFExporter(), logr),
		Employee:   handler.NewEmployeeHandler(employeeSvc, logr),
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handlers, authSvc, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifications.Start(ctx)
	defer notifications.Stop()

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
