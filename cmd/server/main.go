package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	"github.com/rl1809/rocketshoes-cart/internal/adapter/catalog"
	"github.com/rl1809/rocketshoes-cart/internal/adapter/handler"
	"github.com/rl1809/rocketshoes-cart/internal/adapter/notify"
	"github.com/rl1809/rocketshoes-cart/internal/adapter/storage"
	"github.com/rl1809/rocketshoes-cart/internal/config"
	"github.com/rl1809/rocketshoes-cart/internal/core/service"
	"github.com/rl1809/rocketshoes-cart/internal/logger"
	"github.com/rl1809/rocketshoes-cart/internal/port"
)

const serviceName = "rocketshoes.cart"

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "cart", Env: cfg.AppEnv, Level: cfg.LogLevel})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize cart storage
	cartStorage, checks, closeStorage, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open cart storage")
	}

	// Initialize service
	catalogClient := catalog.NewHTTPClient(cfg.CatalogURL, cfg.CatalogTimeout)
	cartService, err := service.NewCartService(ctx, cartStorage, catalogClient, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize cart")
	}

	// Initialize gRPC server
	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthHandler := handler.NewGRPCHealthHandler(serviceName, log, checks...)
	healthHandler.Register(grpcServer)
	go healthHandler.Run(ctx, cfg.HealthInterval)

	// Start gRPC server
	grpcAddr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.WithError(err).Fatal("failed to listen")
	}

	go func() {
		log.WithField("addr", grpcAddr).Info("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			log.WithError(err).Error("gRPC server error")
		}
	}()

	// Initialize HTTP server
	router := mux.NewRouter()
	router.Use(otelmux.Middleware("cart"), handler.RequestLogger(log))
	handler.NewHTTPHandler(cartService, notify.NewLogNotifier(log), log).Register(router)

	httpAddr := fmt.Sprintf(":%d", cfg.HTTPPort)
	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithField("addr", httpAddr).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.WithError(err).Error("HTTP server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	// Stop HTTP server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Info("HTTP server stopped")

	// Stop gRPC server
	healthHandler.Shutdown()
	grpcServer.GracefulStop()
	log.Info("gRPC server stopped")

	// Drain the cart writer
	cartService.Close()
	log.Info("cart writer stopped")

	// Close connections
	closeStorage()
	log.Info("connections closed")
}

func openStorage(ctx context.Context, cfg config.Config, log *logrus.Entry) (port.CartStorage, []handler.HealthCheck, func(), error) {
	switch cfg.StorageBackend {
	case config.StorageRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			PoolSize: 10,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		log.WithField("addr", cfg.RedisAddr).Info("connected to redis")

		adapter := storage.NewRedisAdapter(rdb, cfg.StorageKey, 0)
		checks := []handler.HealthCheck{{Name: "redis", Check: adapter.Ping}}
		return adapter, checks, func() { rdb.Close() }, nil

	case config.StorageFile:
		log.WithField("path", cfg.StorageFile).Info("using file storage")
		return storage.NewFileAdapter(cfg.StorageFile, cfg.StorageKey), nil, func() {}, nil

	case config.StorageMemory:
		log.Warn("using memory storage, the cart will not survive a restart")
		return storage.NewMemoryAdapter(), nil, func() {}, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
