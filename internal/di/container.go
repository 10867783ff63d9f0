package di

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-aipages/internal/batches"
	"github.com/goliatone/go-aipages/internal/business"
	"github.com/goliatone/go-aipages/internal/jobs"
	"github.com/goliatone/go-aipages/internal/logging"
	"github.com/goliatone/go-aipages/internal/logging/gologger"
	"github.com/goliatone/go-aipages/internal/notify"
	"github.com/goliatone/go-aipages/internal/pages"
	"github.com/goliatone/go-aipages/internal/routes"
	"github.com/goliatone/go-aipages/internal/runtimeconfig"
	"github.com/goliatone/go-aipages/internal/scheduler"
	"github.com/goliatone/go-aipages/internal/urls"
	"github.com/goliatone/go-aipages/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
)

// Container wires repositories, lifecycle, batch coordination and the
// expiration worker from a runtimeconfig.Config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	now            func() time.Time

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer
	redisClient   *redis.Client
	ownsRedis     bool

	businessRepo business.Repository
	updateRepo   business.UpdateRepository
	pageRepo     pages.PageRepository

	scheduler interfaces.Scheduler
	notifier  notify.Notifier
	writer    batches.ContentWriter
	audit     jobs.AuditRecorder
	routes    *routes.Builder

	lifecycle   *pages.Lifecycle
	coordinator *batches.Coordinator
	worker      *jobs.Worker
}

// Option mutates the container before services are built.
type Option func(*Container)

// WithBunDB supplies an existing database handle. The container does not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache service.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the configured logging provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithRedisClient supplies the client used by the redis notifier.
func WithRedisClient(client *redis.Client) Option {
	return func(c *Container) {
		c.redisClient = client
	}
}

func WithScheduler(s interfaces.Scheduler) Option {
	return func(c *Container) {
		c.scheduler = s
	}
}

func WithNotifier(n notify.Notifier) Option {
	return func(c *Container) {
		c.notifier = n
	}
}

// WithContentWriter sets the writer used for drafts. Defaults to the template writer.
func WithContentWriter(w batches.ContentWriter) Option {
	return func(c *Container) {
		c.writer = w
	}
}

func WithAuditRecorder(recorder jobs.AuditRecorder) Option {
	return func(c *Container) {
		c.audit = recorder
	}
}

// WithClock overrides time.Now for every service.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		if clock != nil {
			c.now = clock
		}
	}
}

func WithBusinessRepository(repo business.Repository) Option {
	return func(c *Container) {
		c.businessRepo = repo
	}
}

func WithUpdateRepository(repo business.UpdateRepository) Option {
	return func(c *Container) {
		c.updateRepo = repo
	}
}

func WithPageRepository(repo pages.PageRepository) Option {
	return func(c *Container) {
		c.pageRepo = repo
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{
		Config: cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(context.Background()); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	if err := c.configureNotifier(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.configureServices(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    c.Config.Logging.Format,
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	})
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled || c.bunDB == nil {
		return
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if ttl := c.Config.Cache.DefaultTTL; ttl > 0 {
			cfg.TTL = ttl
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			logging.ModuleLogger(c.loggerProvider, "aipages.di").Warn("di.cache.disabled", "error", err)
			return
		}
		c.cacheService = service
	}
	if c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB != nil {
		if c.businessRepo == nil {
			c.businessRepo = business.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		}
		if c.updateRepo == nil {
			c.updateRepo = business.NewBunUpdateRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		}
		if c.pageRepo == nil {
			c.pageRepo = pages.NewBunPageRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		}
		return
	}
	if c.businessRepo == nil {
		c.businessRepo = business.NewMemoryRepository()
	}
	if c.updateRepo == nil {
		c.updateRepo = business.NewMemoryUpdateRepository()
	}
	if c.pageRepo == nil {
		c.pageRepo = pages.NewMemoryPageRepository()
	}
}

func (c *Container) configureNotifier() error {
	if c.notifier != nil {
		return nil
	}
	if !c.Config.Features.Notifications {
		c.notifier = notify.NewNoOp()
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(c.Config.Notifications.Provider)) {
	case runtimeconfig.NotificationsRedis:
		if c.redisClient == nil {
			c.redisClient = redis.NewClient(&redis.Options{
				Addr: c.Config.Notifications.RedisAddr,
				DB:   c.Config.Notifications.RedisDB,
			})
			c.ownsRedis = true
		}
		notifier, err := notify.NewRedis(c.redisClient, c.Config.Notifications.ChannelPrefix)
		if err != nil {
			return fmt.Errorf("di: redis notifier: %w", err)
		}
		c.notifier = notifier
	default:
		c.notifier = notify.NewMemory()
	}
	return nil
}

func (c *Container) configureServices() error {
	if c.scheduler == nil {
		if c.Config.Features.Scheduling {
			c.scheduler = scheduler.NewInMemory(scheduler.WithClock(c.now))
		} else {
			c.scheduler = scheduler.NewNoOp()
		}
	}
	if c.writer == nil {
		c.writer = batches.NewTemplateWriter()
	}
	if c.audit == nil {
		c.audit = jobs.NewInMemoryAuditRecorder()
	}
	c.routes = routes.NewBuilder(c.Config.Routes.BaseURL)

	c.lifecycle = pages.NewLifecycle(c.pageRepo,
		pages.WithClock(c.now),
		pages.WithScheduler(c.scheduler),
		pages.WithNotifier(c.notifier),
		pages.WithLogger(logging.PagesLogger(c.loggerProvider)),
		pages.WithExpiringSoonWindow(c.Config.Lifecycle.ExpiringSoonWindow),
		pages.WithSweepBatchSize(c.Config.Lifecycle.SweepBatchSize),
	)

	coordinator, err := batches.NewCoordinator(c.writer, c.lifecycle,
		batches.WithUpdateRepository(c.updateRepo),
		batches.WithLogger(logging.BatchesLogger(c.loggerProvider)),
		batches.WithClock(c.now),
		batches.WithMaxConcurrency(c.Config.Batches.MaxConcurrency),
		batches.WithPartialFailurePolicy(batches.ParsePartialFailurePolicy(c.Config.Batches.PartialFailurePolicy)),
		batches.WithURLGenerator(urls.NewGenerator(urls.WithClock(c.now))),
		batches.WithRouteBuilder(c.routes),
	)
	if err != nil {
		return err
	}
	c.coordinator = coordinator

	c.worker = jobs.NewWorker(c.scheduler, c.lifecycle,
		jobs.WithAuditRecorder(c.audit),
		jobs.WithLogger(logging.SchedulerLogger(c.loggerProvider)),
		jobs.WithClock(c.now),
		jobs.WithSweep(true),
	)
	return nil
}

// Close releases the database and redis handles the container opened itself.
func (c *Container) Close() error {
	var err error
	if c.ownsRedis && c.redisClient != nil {
		err = c.redisClient.Close()
		c.redisClient = nil
	}
	if c.ownsDB && c.bunDB != nil {
		if closeErr := c.bunDB.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		c.bunDB = nil
	}
	return err
}

// LoggerProvider exposes the configured logger provider, which may be nil.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

func (c *Container) BusinessRepository() business.Repository {
	return c.businessRepo
}

func (c *Container) UpdateRepository() business.UpdateRepository {
	return c.updateRepo
}

func (c *Container) PageRepository() pages.PageRepository {
	return c.pageRepo
}

func (c *Container) Scheduler() interfaces.Scheduler {
	return c.scheduler
}

func (c *Container) Notifier() notify.Notifier {
	return c.notifier
}

func (c *Container) AuditRecorder() jobs.AuditRecorder {
	return c.audit
}

func (c *Container) Routes() *routes.Builder {
	return c.routes
}

// Lifecycle returns the page lifecycle manager.
func (c *Container) Lifecycle() *pages.Lifecycle {
	return c.lifecycle
}

// Coordinator returns the batch publication coordinator.
func (c *Container) Coordinator() *batches.Coordinator {
	return c.coordinator
}

// JobWorker returns the expiration worker.
func (c *Container) JobWorker() *jobs.Worker {
	return c.worker
}
