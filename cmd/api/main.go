package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/lock"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/memstore"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/logger"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logg, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatal(err)
	}
	defer logg.Sync()

	if err := run(cfg, logg); err != nil {
		logg.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	health := handlers.NewHealthHandler(version)

	// 1. Storage
	var store usecase.Store
	switch cfg.Database.Driver {
	case config.DriverMemory:
		logg.Warn("using in-memory store, data is lost on restart")
		store = memstore.New(time.Now).Repositories()
		health.AddCheck("database", nil)
	default:
		db, err := database.NewDBConnection(ctx, cfg.Database.URL, database.PoolConfig{
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
		})
		if err != nil {
			return err
		}
		defer db.Close()

		if cfg.Database.Migrate {
			v, err := database.RunMigrations(db)
			if err != nil {
				return err
			}
			logg.Info("database migrated", zap.Uint("version", v))
		}
		store = database.NewStore(db)
		health.AddCheck("database", pingDB(db))
	}

	// 2. Focus lock
	var locker usecase.FocusLocker = lock.NewKeyedMutex()
	if cfg.Redis.Address != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			return err
		}
		locker = lock.NewRedisLocker(client, cfg.Redis.LockTTL, logg)
		health.AddCheck("redis", func(ctx context.Context) error { return client.Ping(ctx).Err() })
		logg.Info("focus lock backed by redis", zap.String("address", cfg.Redis.Address))
	} else {
		health.AddCheck("redis", nil)
	}

	// 3. Events and notifications
	mailer := mail.NewEmailSender(mail.Settings{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		User:     cfg.Mail.User,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
		NotifyTo: cfg.Mail.NotifyTo,
	}, logg.Named("mail"))

	var events usecase.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQ.URL)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()

		events = queue.NewProducer(rabbitMQ.Ch)
		health.AddCheck("rabbitmq", func(context.Context) error { return rabbitMQ.Ping() })

		consumer := queue.NewWorker(rabbitMQ.Ch, mailer, logg.Named("worker"))
		go func() {
			if err := consumer.Start(ctx, queue.QueueName); err != nil {
				logg.Error("pipeline worker stopped", zap.Error(err))
			}
		}()
	} else {
		health.AddCheck("rabbitmq", nil)
		logg.Info("RABBITMQ_URL not set, pipeline events are not published")
	}

	// 4. Use cases
	focus := usecase.NewFocusScheduler(store.Tasks, locker, time.Now, loc, logg.Named("focus"))
	focus.OnRollover = middleware.RecordFocusRollover
	svc := services{
		Leads:       usecase.NewLeadUseCase(store.Leads, logg),
		Deals:       usecase.NewDealUseCase(store.Deals, store.Leads, time.Now, logg),
		Connections: usecase.NewConnectionUseCase(store.Connections, logg),
		Tasks:       usecase.NewTaskUseCase(store.Tasks, store.Connections, focus, logg),
		Focus:       focus,
		Pipeline:    usecase.NewPipelineEngine(store, events, time.Now, logg.Named("pipeline")),
		Dashboard:   usecase.NewDashboardUseCase(store.Deals, focus),
	}

	// 5. HTTP
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(svc, health, cfg.CORS.AllowedOrigins, logg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func pingDB(db *sql.DB) handlers.Check {
	return func(ctx context.Context) error { return db.PingContext(ctx) }
}
