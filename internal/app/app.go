// Package app is the composition root: it turns a Config into a running server and its background workers.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"google.golang.org/api/option"

	"charityconnect/internal/adapter/api"
	apimiddleware "charityconnect/internal/adapter/api/middleware"
	"charityconnect/internal/adapter/repository"
	"charityconnect/internal/adapter/repository/memory"
	domainrepo "charityconnect/internal/domain/repository"
	"charityconnect/internal/infrastructure/events"
	"charityconnect/internal/infrastructure/firebase"
	"charityconnect/internal/infrastructure/metrics"
	"charityconnect/internal/infrastructure/mongodb"
	"charityconnect/internal/infrastructure/ratelimit"
	"charityconnect/internal/infrastructure/storage"
	"charityconnect/internal/usecase"
	"charityconnect/pkg/config"
)

const rateLimitCleanupInterval = 10 * time.Minute

type App struct {
	Config      *config.Config
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	Dispatcher  *events.Dispatcher
	RateLimiter *ratelimit.RateLimiter
	Server      *echo.Echo

	MessageUseCase *usecase.MessageUseCase
	DonorUseCase   *usecase.DonorUseCase
	CharityUseCase *usecase.CharityUseCase
	ProfileUseCase *usecase.ProfileUseCase

	closers []func(ctx context.Context) error
}

type repositories struct {
	donors    domainrepo.DonorRepository
	charities domainrepo.CharityRepository
	messages  domainrepo.MessageRepository
	profiles  domainrepo.ProfileRepository
}

// New builds every dependency named by cfg. Nothing runs until Start.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New(),
	}

	repos, err := a.openStore(ctx)
	if err != nil {
		a.closeAll(ctx)
		return nil, err
	}

	var (
		verifier apimiddleware.TokenVerifier
		images   usecase.ImageStore
	)

	if cfg.HasFirebase() {
		opt, err := firebase.ClientOption(cfg)
		if err != nil {
			a.closeAll(ctx)
			return nil, err
		}
		var opts []option.ClientOption
		if opt != nil {
			opts = append(opts, opt)
		}

		firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
		if err != nil {
			a.closeAll(ctx)
			return nil, fmt.Errorf("create firestore client: %w", err)
		}
		a.onClose(func(context.Context) error { return firestoreClient.Close() })
		repos.profiles = repository.NewFirestoreProfileRepository(firestoreClient)

		if cfg.AuthEnabled {
			firebaseApp, err := firebase.NewApp(ctx, cfg, opt)
			if err != nil {
				a.closeAll(ctx)
				return nil, err
			}
			authClient, err := firebaseApp.Auth(ctx)
			if err != nil {
				a.closeAll(ctx)
				return nil, fmt.Errorf("initialize firebase auth: %w", err)
			}
			verifier = firebase.NewFirebaseAuthClient(authClient)
		}

		if cfg.StorageBucket != "" {
			storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, logger, opts...)
			if err != nil {
				a.closeAll(ctx)
				return nil, err
			}
			a.onClose(func(context.Context) error { return storageClient.Close() })
			images = storageClient
		}
	} else {
		logger.Info("Firebase not configured, profiles are kept in memory")
	}

	a.Dispatcher = events.NewDispatcher(logger, a.Metrics, cfg.EventQueueSize)
	a.RateLimiter = ratelimit.NewRateLimiter(map[string]ratelimit.Limit{
		ratelimit.ActionSendMessage: {PerMinute: cfg.SendMessageRatePerMinute, Burst: cfg.SendMessageBurst},
		ratelimit.ActionAPIRequest:  {PerMinute: cfg.APIRatePerMinute, Burst: cfg.APIRatePerMinute},
	})

	directory := usecase.NewDirectory(repos.donors, repos.charities)
	a.MessageUseCase = usecase.NewMessageUseCase(repos.messages, directory, a.Dispatcher, a.RateLimiter, a.Metrics, logger)
	a.DonorUseCase = usecase.NewDonorUseCase(repos.donors, repos.charities, a.Dispatcher, logger)
	a.CharityUseCase = usecase.NewCharityUseCase(repos.charities, repos.profiles, images, a.Dispatcher, logger)
	a.ProfileUseCase = usecase.NewProfileUseCase(repos.profiles, repos.donors, repos.charities, logger)

	a.Dispatcher.Subscribe(usecase.EventCounterChanged, a.ProfileUseCase.HandleCounterChanged)

	a.Server = api.NewServer(api.Dependencies{
		MessageUseCase: a.MessageUseCase,
		DonorUseCase:   a.DonorUseCase,
		CharityUseCase: a.CharityUseCase,
		ProfileUseCase: a.ProfileUseCase,
		Metrics:        a.Metrics,
		Logger:         logger,
		Verifier:       verifier,
		Limiter:        a.RateLimiter,
		RequestLog:     cfg.Environment != "test",
	})

	return a, nil
}

func (a *App) openStore(ctx context.Context) (*repositories, error) {
	switch a.Config.StorageDriver {
	case config.StorageMongo:
		client, db, err := mongodb.Connect(ctx, a.Config.MongoURI, a.Config.MongoDatabase)
		if err != nil {
			return nil, err
		}
		a.onClose(client.Disconnect)

		if err := mongodb.EnsureIndexes(ctx, db, a.Logger); err != nil {
			return nil, err
		}

		a.Logger.Info("Using MongoDB store", "database", a.Config.MongoDatabase)
		return &repositories{
			donors:    repository.NewMongoDonorRepository(db),
			charities: repository.NewMongoCharityRepository(db),
			messages:  repository.NewMongoMessageRepository(db),
			profiles:  memory.NewProfileRepository(),
		}, nil

	case config.StorageMemory:
		a.Logger.Warn("Using in-memory store, data is lost on restart")
		return &repositories{
			donors:    memory.NewDonorRepository(),
			charities: memory.NewCharityRepository(),
			messages:  memory.NewMessageRepository(),
			profiles:  memory.NewProfileRepository(),
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", a.Config.StorageDriver)
}

func (a *App) onClose(fn func(ctx context.Context) error) {
	a.closers = append(a.closers, fn)
}

// Start launches the event worker and rate limiter cleanup. The cleanup stops when ctx is done; the
// event worker outlives ctx so Shutdown can drain queued events.
func (a *App) Start(ctx context.Context) {
	a.Dispatcher.Start(context.WithoutCancel(ctx))
	a.RateLimiter.StartCleanupRoutine(ctx, rateLimitCleanupInterval)
}

// Shutdown stops accepting requests, drains queued events and releases store clients, in that order.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.Server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown server: %w", err))
	}
	a.Dispatcher.Close()
	if err := a.closeAll(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) closeAll(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
