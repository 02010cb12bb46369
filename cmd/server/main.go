package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/veldt/go_storefront/internal/auth"
	"github.com/veldt/go_storefront/internal/cache"
	"github.com/veldt/go_storefront/internal/catalog"
	"github.com/veldt/go_storefront/internal/config"
	"github.com/veldt/go_storefront/internal/httpapi"
	"github.com/veldt/go_storefront/internal/repository"
	"github.com/veldt/go_storefront/internal/session"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	logger.Info().Str("uri", cfg.MongoURI).Msg("connected to MongoDB")

	cartStore := repository.NewMongoCartStore(mongoDB)
	orderStore := repository.NewMongoOrderStore(mongoDB)
	catalogStore := repository.NewMongoCatalogStore(mongoDB)
	accountStore := repository.NewMongoAccountStore(mongoDB)

	for _, ensure := range []func(context.Context) error{
		cartStore.CreateIndexes,
		orderStore.CreateIndexes,
		accountStore.CreateIndexes,
	} {
		if err := ensure(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to create indexes")
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	logger.Info().Str("addr", cfg.RedisAddr).Msg("redis ping succeeded")

	cartCache := cache.NewRedisCache(redisClient)
	catalogClient := catalog.NewClient(catalogStore)

	sessions := session.NewManager(cartStore, orderStore, cartCache, catalogClient, logger)
	verifier := auth.NewVerifier(accountStore)
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Auth:     httpapi.NewAuthHandler(verifier, issuer, sessions),
		Cart:     httpapi.NewCartHandler(catalogClient),
		Orders:   httpapi.NewOrderHandler(orderStore),
		Catalog:  httpapi.NewCatalogHandler(catalogStore),
		Issuer:   issuer,
		Sessions: sessions,
		Timeout:  cfg.RequestTimeout,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}

	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Msg("storefront listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down storefront")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}

	// Let in-flight cart reconciliation calls land before dropping the
	// store connections.
	sessions.Shutdown()

	if err := mongoDB.Client().Disconnect(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("mongo disconnect failed")
	}
	logger.Info().Msg("storefront stopped")
}

