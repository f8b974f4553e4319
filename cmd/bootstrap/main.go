package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"surveyhub/internal/auth"
	"surveyhub/internal/config"
	"surveyhub/internal/db"
	apperrors "surveyhub/internal/errors"
	"surveyhub/internal/model"
	"surveyhub/internal/repository"
	"surveyhub/internal/service"
)

// bootstrap provisions the initial admin account directly against the
// store. This is the supported alternative to the ENABLE_ADMIN_ENDPOINT
// HTTP route, which carries no authentication at all.
func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	email := flag.String("email", "", "admin email (required)")
	password := flag.String("password", "", "admin password (required)")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	userRepo := repository.NewUserRepository(gormDB)
	authService := service.NewAuthService(userRepo, auth.NewJWTService(cfg.JWTSecret))

	admin, err := authService.ProvisionAdmin(context.Background(), *email, *password)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateAdmin) {
			log.Info().Str("email", *email).Msg("admin already exists, nothing to do")
			return
		}
		log.Fatal().Err(err).Msg("provision admin")
	}

	log.Info().Str("email", admin.Email).Str("userId", admin.ID.String()).Msg("admin created")
}
