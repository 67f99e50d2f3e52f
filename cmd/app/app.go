package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vietanh2810/event-attendance-api/internal/api"
	"github.com/vietanh2810/event-attendance-api/internal/broadcast"
	"github.com/vietanh2810/event-attendance-api/internal/config"
	"github.com/vietanh2810/event-attendance-api/internal/db"
	"github.com/vietanh2810/event-attendance-api/internal/lock"
	"github.com/vietanh2810/event-attendance-api/internal/logger"
	"github.com/vietanh2810/event-attendance-api/internal/pkg/scantoken"
)

const shutdownTimeout = 10 * time.Second

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	defer func() { _ = zap.L().Sync() }()

	postgresDB, err := OpenDatabase(conf)
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	codec, err := scantoken.NewCodec([]byte(conf.Token.SigningKey))
	if err != nil {
		return fmt.Errorf("failed to initialize token codec -> %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	locker, closeLocker, err := newLocker(ctx, conf, postgresDB)
	if err != nil {
		return fmt.Errorf("failed to initialize ledger lock -> %w", err)
	}
	defer closeLocker()

	hub := broadcast.NewHub(conf.API.AllowedCORSDomains)
	go hub.Run(ctx)

	publishers := broadcast.Multi{hub}
	if conf.Kafka.Enabled() {
		kafka := broadcast.NewKafkaPublisher(conf.Kafka.Brokers, conf.Kafka.Topic)
		defer func() {
			if err := kafka.Close(); err != nil {
				zap.L().Warn("failed to close kafka writer", zap.Error(err))
			}
		}()
		publishers = append(publishers, kafka)
	}

	s := api.NewServer(conf, postgresDB, api.Dependencies{
		Codec:     codec,
		Locker:    locker,
		Publisher: publishers,
		Hub:       hub,
	})

	srv := &http.Server{
		Addr:              ":" + s.Config.API.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", srv.Addr),
			zap.String("lock_backend", conf.Ledger.LockBackend),
			zap.Bool("kafka", conf.Kafka.Enabled()),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down the server -> %w", err)
	}

	return nil
}

// OpenDatabase prefers DATABASE_URL over the postgres block of the config.
func OpenDatabase(conf *config.AppConfig) (*gorm.DB, error) {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		return db.OpenPostgresWithURL(dbURL)
	}

	return db.OpenPostgres(conf.Postgres)
}

func newLocker(ctx context.Context, conf *config.AppConfig, postgresDB *gorm.DB) (lock.Locker, func(), error) {
	switch conf.Ledger.LockBackend {
	case config.LockBackendMemory:
		zap.L().Warn("memory ledger lock only serializes scans within this process")
		return lock.NewMemoryLocker(), func() {}, nil

	case config.LockBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:         conf.Redis.Address,
			Password:     conf.Redis.Password,
			DB:           conf.Redis.DB,
			PoolSize:     conf.Redis.PoolSize,
			DialTimeout:  conf.Redis.Timeout,
			ReadTimeout:  conf.Redis.Timeout,
			WriteTimeout: conf.Redis.Timeout,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("client.Ping -> %w", err)
		}

		closeFn := func() {
			if err := client.Close(); err != nil {
				zap.L().Warn("failed to close redis client", zap.Error(err))
			}
		}
		return lock.NewRedisLocker(client, conf.Ledger.LockTTL, conf.Ledger.LockRetry), closeFn, nil
	}

	return lock.NewPostgresLocker(postgresDB), func() {}, nil
}
