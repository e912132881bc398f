package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"

	"examauth/docs" // swagger docs
	"examauth/internal/auth"
	"examauth/internal/cache"
	"examauth/internal/config"
	"examauth/internal/db"
	"examauth/internal/handler"
	"examauth/internal/logging"
	"examauth/internal/notify"
	"examauth/internal/repository"
	"examauth/internal/router"
	"examauth/internal/service"
)

// @title Exam Bank Auth API
// @version 1.0
// @description Account registration, email verification, login and password reset.
// @host localhost:5000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel)
	ctx := context.Background()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "server stopped", "error", err)
		os.Exit(1)
	}
}

// run owns every resource it opens, so deferred cleanup happens before main exits.
func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		return fmt.Errorf("database init: %w", err)
	}
	if cfg.ResetDB {
		logger.Warn(ctx, "RESET_DB=true detected, dropping users table")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() {
		if err := cacheClient.Close(); err != nil {
			logger.Warn(ctx, "close redis", "error", err)
		}
	}()
	tokenStore := auth.NewTokenStore(cacheClient)

	composer, err := notify.NewComposer(cfg.PublicBaseURL, cfg.TokenMaxAge)
	if err != nil {
		return fmt.Errorf("mail templates: %w", err)
	}
	var sender notify.Sender = notify.NewSMTPSender(cfg.Mail)
	if cfg.Mail.Server == "" {
		logger.Warn(ctx, "MAIL_SERVER not set, emails will be logged instead of sent")
		sender = notify.NewLogSender(logger)
	}

	deps := service.Deps{
		Users:       repository.NewUserRepository(gormDB),
		Hasher:      auth.NewBcryptHasher(cfg.BcryptCost),
		Tokens:      auth.NewTokenService(cfg.SecretKey),
		Notifier:    notify.NewMailer(composer, sender),
		Log:         logger,
		TokenMaxAge: cfg.TokenMaxAge,
	}
	if cfg.SingleUseTokens {
		deps.Ledger = tokenStore
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL)
	authService := service.NewAuthService(deps, jwtService, tokenStore)
	resetService := service.NewPasswordResetService(deps)
	authHandler := handler.NewAuthHandler(authService, resetService)

	e := echo.New()
	e.HideBanner = true
	if err := router.Register(e, logger, authHandler, jwtService, tokenStore); err != nil {
		return fmt.Errorf("router init: %w", err)
	}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
	}
	logRoutes(ctx, logger, e)
	logger.Info(ctx, "swagger documentation available", "url", cfg.PublicBaseURL+"/api/docs/index.html")

	addr := ":" + cfg.ServerPort
	logger.Info(ctx, "server starting", "addr", addr)
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server start: %w", err)
	}
	return nil
}

func logRoutes(ctx context.Context, logger logging.Logger, e *echo.Echo) {
	routes := e.Routes()
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	for _, r := range routes {
		logger.Info(ctx, "route", "method", r.Method, "path", r.Path)
	}
}
