package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	"github.com/ddc-crew/tournament-planner/internal/auth"
	"github.com/ddc-crew/tournament-planner/internal/config"
	"github.com/ddc-crew/tournament-planner/internal/credentials"
	"github.com/ddc-crew/tournament-planner/internal/database"
	"github.com/ddc-crew/tournament-planner/internal/domain"
	"github.com/ddc-crew/tournament-planner/internal/email"
	httpServer "github.com/ddc-crew/tournament-planner/internal/http"
	"github.com/ddc-crew/tournament-planner/internal/logging"
	"github.com/ddc-crew/tournament-planner/internal/password"
	"github.com/ddc-crew/tournament-planner/internal/session"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting tournament planner",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	redisClient, err := initRedis(cfg.Redis)
	if err != nil {
		return fmt.Errorf("init redis: %w", err)
	}
	defer redisClient.Close()

	credentialStore := credentials.NewRepository(db)
	hasher := password.NewHasher(password.DefaultConfig())

	sender, err := domain.ParseUserEmail(cfg.Email.Sender)
	if err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	emailClient := email.NewClient(
		cfg.Email.BaseURL,
		cfg.Email.ServerToken,
		sender,
		cfg.Email.Timeout,
		cfg.Email.SendRetries,
		cfg.Email.RetryDelay,
	)

	sessionStore := session.NewStore(redisClient, cfg.Session.TTL)
	sessionManager := session.NewManager(
		sessionStore,
		cfg.Session.CookieName,
		cfg.Session.Secret,
		!cfg.Server.IsDevelopment(),
	)

	authService := auth.NewService(credentialStore, hasher, emailClient, logger)
	authHandler := auth.NewHandler(authService, sessionManager)

	router := httpServer.NewRouter(cfg, authHandler, sessionManager, credentialStore, logger)

	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received shutdown signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

func initDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return database.NewBunDB(sqlDB), nil
}

func initRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}
