package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "surveyhub/docs" // swagger docs

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"surveyhub/internal/auth"
	"surveyhub/internal/cache"
	"surveyhub/internal/config"
	"surveyhub/internal/db"
	"surveyhub/internal/handler"
	"surveyhub/internal/model"
	"surveyhub/internal/repository"
	"surveyhub/internal/router"
	"surveyhub/internal/service"
)

// @title Survey Collection API
// @version 1.0
// @description Survey collection backend with JWT authentication and role-based access.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, relying on existing environment")
	}

	cfg := config.Load()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}
	log.Info().Msg("connected to MySQL")

	if err := gormDB.AutoMigrate(&model.User{}, &model.SurveyResponse{}); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, listing cache disabled")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	surveyRepo := repository.NewSurveyResponseRepository(gormDB)

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	authService := service.NewAuthService(userRepo, jwtService)
	surveyService := service.NewSurveyService(surveyRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	surveyHandler := handler.NewSurveyHandler(surveyService)

	// Register routes
	router.Register(e, cfg, authHandler, surveyHandler)

	if cfg.EnableAdminEndpoint {
		log.Warn().Msg("ENABLE_ADMIN_ENDPOINT is set: /api/create-admin is reachable without authentication")
	}

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info().Str("addr", addr).Msg("server listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server start")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
}
