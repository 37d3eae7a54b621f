package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"pointledger/internal/cache"
	"pointledger/internal/db"
	"pointledger/internal/events"
	"pointledger/internal/handlers"
	"pointledger/internal/logger"
	"pointledger/internal/repository"
	"pointledger/internal/repository/memory"
	"pointledger/internal/repository/postgres"
	"pointledger/internal/service/point"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
	Logger     logger.Logger
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	log, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect storage: postgres when DSN is set, process memory otherwise
	var storage repository.Storage
	switch c.DatabaseDSN {
	case "":
		log.Warn("no database configured, state will be lost on restart")
		storage = memory.NewStorage()
	default:
		pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
		}
		storage = postgres.NewStorage(pool)
	}

	// Optional collaborators
	var opts []point.Option

	if c.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("error while connecting to redis. Err: %w", err)
		}
		opts = append(opts, point.WithBalanceCache(cache.NewBalanceCache(client, 0, log)))
	}

	if c.NatsURL != "" {
		conn, err := nats.Connect(c.NatsURL)
		if err != nil {
			return nil, fmt.Errorf("error while connecting to nats. Err: %w", err)
		}
		opts = append(opts, point.WithPublisher(events.NewNATSPublisher(conn)))
	}

	// Initialize service and router
	pointService := point.NewService(
		point.Config{MaxBalance: c.MaxBalance, MinUseAmount: c.MinUseAmount},
		storage,
		log,
		opts...,
	)

	mux := handlers.NewRouter(pointService, log)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		Logger:     log,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			s.Logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown")
		}
		s.Logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.Logger.Info("Starting server", "addr", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
