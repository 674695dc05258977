package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"creative-tools-api/internal/domain"
	"creative-tools-api/internal/infra/gemini"
	"creative-tools-api/internal/infra/supabase"
	"creative-tools-api/internal/metrics"
	"creative-tools-api/internal/repository"
	"creative-tools-api/internal/service"
	"creative-tools-api/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// quotaLockMargin is added to the backend timeout so a lock held across a
// generation outlives the call.
const quotaLockMargin = 10 * time.Second

// Container holds all application dependencies
type Container struct {
	Config                 domain.Config
	Logger                 domain.Logger
	SupabaseClient         domain.SupabaseClient
	DocumentStore          domain.DocumentStore
	SubscriptionRepository domain.SubscriptionRepository
	GalleryRepository      domain.GalleryRepository
	Locker                 domain.Locker
	Backend                domain.AIBackend
	AuthService            domain.AuthService
	SubscriptionService    domain.SubscriptionService
	UsageGate              domain.UsageGate
	GalleryService         domain.GalleryService
	ToolService            domain.ToolService

	closers []func() error
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context) (*Container, error) {
	return NewContainerWithConfig(ctx, NewConfig())
}

// NewContainerWithConfig wires every component from config.
func NewContainerWithConfig(ctx context.Context, config domain.Config) (*Container, error) {
	appLogger := logger.NewLogger(config.GetLogLevel())
	metrics.InitMetrics()

	c := &Container{
		Config: config,
		Logger: appLogger,
	}

	stores, err := OpenStores(config, appLogger)
	if err != nil {
		return nil, err
	}
	c.SupabaseClient = stores.Supabase
	c.DocumentStore = stores.Documents
	c.GalleryRepository = stores.Gallery
	c.SubscriptionRepository = repository.NewSubscriptionRepository(c.DocumentStore, appLogger)

	locker, err := c.newLocker(ctx)
	if err != nil {
		return nil, err
	}
	c.Locker = locker

	c.Backend = c.newBackend(ctx)

	var storage domain.MediaStorage
	if bucket := config.GetStorageBucket(); bucket != "" && config.GetSupabaseURL() != "" {
		storage = repository.NewSupabaseStorage(config.GetSupabaseURL(), config.GetSupabaseServiceRoleKey(), bucket)
	}

	c.AuthService = service.NewAuthService(c.SupabaseClient, config.GetJWTSecret(), appLogger)
	c.SubscriptionService = service.NewSubscriptionService(c.SubscriptionRepository, appLogger, nil)
	c.UsageGate = service.NewUsageGate(c.SubscriptionService, c.SubscriptionRepository, c.Locker, appLogger)
	c.GalleryService = service.NewGalleryService(c.GalleryRepository, storage, config.GetGalleryTTL(), appLogger)
	c.ToolService = service.NewToolService(c.Backend, c.UsageGate, c.GalleryService, service.ToolSettings{
		TextModel:              config.GetTextModel(),
		ImageModel:             config.GetImageModel(),
		SpeechModel:            config.GetSpeechModel(),
		Voice:                  config.GetSpeechVoice(),
		ChargeOnBackendFailure: config.GetChargeOnBackendFailure(),
	}, appLogger)

	appLogger.Info("Container initialized",
		"store", config.GetStoreDriver(),
		"lock_mode", config.GetQuotaLockMode(),
		"charge_on_backend_failure", config.GetChargeOnBackendFailure(),
	)
	return c, nil
}

// Stores is the persistence layer selected by STORE_DRIVER.
type Stores struct {
	Supabase  domain.SupabaseClient
	Documents domain.DocumentStore
	Gallery   domain.GalleryRepository
}

// OpenStores connects the configured persistence backend. Supabase is
// initialized whenever SUPABASE_URL is set, since token validation may need it
// even with the memory driver.
func OpenStores(config domain.Config, logger domain.Logger) (*Stores, error) {
	stores := &Stores{}

	if config.GetSupabaseURL() != "" {
		client := supabase.NewSupabaseClient(config, logger)
		if err := client.Initialize(); err != nil {
			return nil, fmt.Errorf("failed to initialize supabase: %w", err)
		}
		stores.Supabase = client
	}

	switch config.GetStoreDriver() {
	case StoreDriverMemory:
		logger.Warn("Using in-memory store, data is lost on restart")
		stores.Documents = repository.NewMemoryDocumentStore()
		stores.Gallery = repository.NewMemoryGalleryRepository()
	case StoreDriverSupabase:
		if stores.Supabase == nil {
			return nil, errors.New("store driver supabase requires SUPABASE_URL")
		}
		stores.Documents = repository.NewSupabaseDocumentStore(stores.Supabase, logger)
		stores.Gallery = repository.NewSupabaseGalleryRepository(stores.Supabase, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", config.GetStoreDriver())
	}
	return stores, nil
}

func (c *Container) newLocker(ctx context.Context) (domain.Locker, error) {
	switch c.Config.GetQuotaLockMode() {
	case LockModeNone, "":
		return nil, nil
	case LockModeLocal:
		return service.NewLocalLocker(), nil
	case LockModeRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     c.Config.GetRedisAddr(),
			Password: c.Config.GetRedisPassword(),
			DB:       c.Config.GetRedisDB(),
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", c.Config.GetRedisAddr(), err)
		}
		c.closers = append(c.closers, client.Close)
		return service.NewRedisLocker(client, c.Config.GetBackendTimeout()+quotaLockMargin), nil
	default:
		return nil, fmt.Errorf("unknown quota lock mode %q", c.Config.GetQuotaLockMode())
	}
}

// newBackend never fails startup: without credentials every tool call
// reports the backend as unavailable.
func (c *Container) newBackend(ctx context.Context) domain.AIBackend {
	client, err := gemini.NewClient(ctx, c.Config, c.Logger)
	if err != nil {
		c.Logger.Error("Gemini client unavailable, tool calls will fail", err)
		return unavailableBackend{cause: err}
	}
	c.closers = append(c.closers, client.Close)
	return client
}

// Close releases external connections.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type unavailableBackend struct {
	cause error
}

func (b unavailableBackend) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	return nil, domain.NewBackendError("", b.cause)
}
