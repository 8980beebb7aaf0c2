package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fastFriends/gestura/internal/config"
	"github.com/fastFriends/gestura/internal/db"
	apihttp "github.com/fastFriends/gestura/internal/http"
	"github.com/fastFriends/gestura/internal/repository"
	"github.com/fastFriends/gestura/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()
	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)

	var (
		loginLimiter service.LoginRateLimiter
		denylist     service.TokenDenylist
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			loginLimiter = service.NewRedisLoginRateLimiter(redisClient, 10*time.Minute, 10)
			denylist = service.NewRedisTokenDenylist(redisClient)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithDenylist(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		denylist,
	)

	userSvc := service.NewUserService(logger, userRepo, loginLimiter)
	translateSvc := service.NewTranslateService(logger, time.Now().UnixNano())

	authHandler := apihttp.NewAuthHandler(logger, userSvc, jwtSvc)
	translateHandler := apihttp.NewTranslateHandler(logger, translateSvc)
	router := apihttp.NewRouter(logger, cfg.FrontendURL, authHandler, translateHandler, jwtSvc, userSvc)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
