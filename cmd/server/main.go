package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/aegisid/identity-service/internal/api"
	"github.com/aegisid/identity-service/internal/core/policy"
	"github.com/aegisid/identity-service/internal/core/ports"
	"github.com/aegisid/identity-service/internal/core/service"
	"github.com/aegisid/identity-service/internal/infrastructure/config"
	mongodb "github.com/aegisid/identity-service/internal/infrastructure/db/mongo"
	redisdb "github.com/aegisid/identity-service/internal/infrastructure/db/redis"
	"github.com/aegisid/identity-service/internal/infrastructure/events"
	"github.com/aegisid/identity-service/internal/infrastructure/security"
	"github.com/aegisid/identity-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Service: "identity-service",
		Pretty:  cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	roleRepo := mongodb.NewRoleRepository(db)
	userRepo := mongodb.NewUserRepository(db, roleRepo)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}
	if err := roleRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("role index creation failed")
	}

	// --- Event pipeline ---
	dispatcher := events.NewDispatcher(cfg.EventWorkers, events.NewAuditSink(log), log)
	dispatcher.Start(ctx)

	// --- Security & token plumbing ---
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	jwtManager := security.NewJwtManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	passwordPolicy := policy.NewDefaultValidator(security.NewZxcvbnScorer())

	blacklist := redisdb.NewBlacklist(rdb)
	tokenStore := redisdb.NewTokenStore(rdb)
	limiter := redisdb.NewRateLimiter(rdb, cfg.LoginMaxAttempts, cfg.LoginWindow)
	clock := ports.SystemClock{}

	// --- Use cases ---
	authService := service.NewAuthService(
		userRepo, passwordPolicy, hasher,
		jwtManager, jwtManager,
		blacklist, tokenStore, limiter,
		dispatcher, clock, log,
	)
	identityService := service.NewIdentityService(userRepo, roleRepo, hasher, dispatcher, clock, log)
	roleService := service.NewRoleService(roleRepo, dispatcher, clock, log)

	e := api.NewRouter(api.Dependencies{
		Auth:      authService,
		Identity:  identityService,
		Roles:     roleService,
		Validator: jwtManager,
		Blacklist: blacklist,
		Mongo:     db,
		Redis:     rdb,
		Log:       log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("identity service listening")

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	log.Info().Msg("server stopped")
}
