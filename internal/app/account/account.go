package account

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/anonchat/account-service/internal/cache"
	"github.com/anonchat/account-service/internal/config"
	"github.com/anonchat/account-service/internal/events"
	"github.com/anonchat/account-service/internal/lib/jwt"
	"github.com/anonchat/account-service/internal/lib/rabbitmq"
	"github.com/anonchat/account-service/internal/lib/sl"
	"github.com/anonchat/account-service/internal/migrations"
	identityservice "github.com/anonchat/account-service/internal/services/identity"
	statsservice "github.com/anonchat/account-service/internal/services/stats"
	upgradeservice "github.com/anonchat/account-service/internal/services/upgrade"
	"github.com/anonchat/account-service/internal/paymentprovider"
	"github.com/anonchat/account-service/internal/storage"
)

type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *storage.Storage
	amqpConn *amqp.Connection
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	// Брокер опционален: без него события просто не публикуются
	var amqpConn *amqp.Connection
	var eventPublisher upgradeservice.EventPublisher
	if cfg.AMQPConnectionString != "" {
		amqpConn, err = rabbitmq.Connect(cfg.AMQPConnectionString, 5, 2*time.Second)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(amqpConn)
		if err != nil {
			return nil, err
		}
		eventPublisher = events.NewPublisher(ch)
	} else {
		logger.Warn("amqp connection string is empty, events will not be published")
	}

	tokenMaker := jwt.NewJWTMaker(cfg.SessionToken.SecretKey, cfg.SessionToken.TokenTTL)
	providerClient := paymentprovider.NewClient(
		cfg.Payment.GatewayKeyID, cfg.Payment.GatewayKeySecret, cfg.Payment.GatewayAPIURL)

	identityService := identityservice.New(db, tokenMaker, logger)
	upgradeService := upgradeservice.New(db, providerClient, cacheRedis, eventPublisher,
		logger, cfg.Payment.Price, cfg.Payment.Currency)
	statsService := statsservice.New(db,
		statsservice.NewEqualityAuthorizer(cfg.Admin.Username), logger, cfg.Payment.Price)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, tokenMaker, identityService, upgradeService, statsService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		amqpConn: amqpConn,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close storage", sl.Err(closeErr))
		}
		if a.amqpConn != nil {
			if closeErr := a.amqpConn.Close(); closeErr != nil {
				a.logger.Error("failed to close amqp connection", sl.Err(closeErr))
			}
		}
		return err
	}
}
