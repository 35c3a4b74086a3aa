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

	"github.com/labstack/echo/v4"

	"leadcrm/docs"
	"leadcrm/internal/auth"
	"leadcrm/internal/cache"
	"leadcrm/internal/config"
	"leadcrm/internal/db"
	"leadcrm/internal/handler"
	"leadcrm/internal/logger"
	"leadcrm/internal/mail"
	"leadcrm/internal/middleware"
	"leadcrm/internal/repository"
	"leadcrm/internal/router"
	"leadcrm/internal/service"
)

// @title Lead CRM API
// @version 1.0
// @description Role-based lead management API with JWT authentication.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.Env)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Error("database init", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.ResetDB {
		log.Warn("RESET_DB=true detected, dropping all tables")
		db.Reset(gormDB, log)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Error("auto-migrate", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.Warn("redis unreachable, running without cache", slog.String("error", err.Error()))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	leadRepo := repository.NewLeadRepository(gormDB)
	activityRepo := repository.NewActivityRepository(gormDB)
	assignmentRepo := repository.NewAssignmentRepository(gormDB)

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiresIn)
	tokenStore := auth.NewTokenStore(cacheClient)
	mailer := mail.NewSMTPSender(cfg.Mail, log)

	// Initialize services
	authService := service.NewAuthService(cfg, userRepo, jwtService, tokenStore, cacheClient, mailer, log)
	userService := service.NewUserService(cfg, userRepo, cacheClient, mailer, log)
	leadService := service.NewLeadService(cfg, leadRepo, userRepo, log)
	activityService := service.NewActivityService(activityRepo, leadRepo)
	assignmentService := service.NewAssignmentService(assignmentRepo, leadRepo, userRepo)

	guard := middleware.NewGuard(jwtService, tokenStore, userService)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, log, guard, router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Users:       handler.NewUserHandler(userService),
		Leads:       handler.NewLeadHandler(leadService),
		Activities:  handler.NewActivityHandler(activityService),
		Assignments: handler.NewAssignmentHandler(assignmentService),
	})

	addr := ":" + cfg.ServerPort
	go func() {
		log.Info("server starting", slog.String("addr", addr), slog.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server start", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("server shutdown", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}
