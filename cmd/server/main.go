package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/techdetails/storefront-api/internal/config"
	"github.com/techdetails/storefront-api/internal/handler"
	"github.com/techdetails/storefront-api/internal/middleware"
	"github.com/techdetails/storefront-api/internal/repository"
	"github.com/techdetails/storefront-api/internal/usecase"
	"github.com/techdetails/storefront-api/shared/auth"
	"github.com/techdetails/storefront-api/shared/mailer"
	"github.com/techdetails/storefront-api/shared/mongodb"
	"github.com/techdetails/storefront-api/shared/validation"
)

const (
	tokenIssuer     = "storefront-api"
	shutdownTimeout = 10 * time.Second
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from mongodb")
		}
	}()

	db := client.Database(cfg.MongoDatabase)

	validator, err := validation.NewValidator()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create validator")
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, tokenIssuer, cfg.SessionTokenTTL, cfg.ResetTokenTTL)
	mail := mailer.NewMailer(cfg.SMTP())

	userRepo := repository.NewUserMongoRepository(ctx, &logger, db)
	resetTokenRepo := repository.NewPasswordResetTokenMongoRepository(ctx, &logger, db)
	productRepo := repository.NewProductMongoRepository(ctx, &logger, db)
	categoryRepo := repository.NewCategoryMongoRepository(ctx, &logger, db)
	orderRepo := repository.NewOrderMongoRepository(ctx, &logger, db)

	authUsecase := usecase.NewAuthUsecase(userRepo, tokens)
	resetUsecase := usecase.NewPasswordResetUsecase(
		userRepo, resetTokenRepo, tokens, mail, cfg.ResetTokenTTL, cfg.BaseURL, &logger)
	cartUsecase := usecase.NewCartUsecase(userRepo)
	catalogUsecase := usecase.NewCatalogUsecase(productRepo, categoryRepo)
	orderUsecase := usecase.NewOrderUsecase(orderRepo, userRepo)
	adminUsecase := usecase.NewAdminUsecase(userRepo, productRepo, orderRepo, &logger)

	if len(cfg.AdminEmails) > 0 {
		if err := adminUsecase.BootstrapAdmins(ctx, cfg.AdminEmails, cfg.DefaultAdminPassword); err != nil {
			logger.Fatal().Err(err).Msg("failed to bootstrap admin accounts")
		}
	}

	secureCookie := !cfg.IsDevelopment()

	router := handler.NewRouter(handler.RouterDeps{
		Auth:    handler.NewAuthHandler(authUsecase, resetUsecase, tokens, validator, secureCookie, &logger),
		Cart:    handler.NewCartHandler(cartUsecase, validator, &logger),
		Catalog: handler.NewCatalogHandler(catalogUsecase, validator, &logger),
		Order:   handler.NewOrderHandler(orderUsecase, validator, &logger),
		Admin:   handler.NewAdminHandler(adminUsecase, validator, &logger),

		Authenticator: middleware.NewAuthenticator(tokens, userRepo),
		PageGuard: middleware.NewPageGuard(
			tokens,
			[]string{"/account", "/checkout", "/orders"},
			[]string{"/login", "/register"},
		),
		Logger: &logger,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
