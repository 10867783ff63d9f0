package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrLoggingProviderRequired     = errors.New("aipages config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown      = errors.New("aipages config: logging provider is invalid")
	ErrLoggingLevelInvalid         = errors.New("aipages config: logging level is invalid")
	ErrLoggingFormatInvalid        = errors.New("aipages config: logging format is invalid")
	ErrStorageProviderUnknown      = errors.New("aipages config: storage provider is invalid")
	ErrCacheRequiresBunStorage     = errors.New("aipages config: cache requires a sql storage provider")
	ErrNotificationProviderUnknown = errors.New("aipages config: notification provider is invalid")
	ErrRedisAddrRequired           = errors.New("aipages config: redis address is required for redis notifications")
	ErrBatchConcurrencyInvalid     = errors.New("aipages config: batch concurrency must be zero or positive")
	ErrPartialFailurePolicyInvalid = errors.New("aipages config: partial failure policy is invalid")
	ErrExpiringSoonWindowInvalid   = errors.New("aipages config: expiring soon window must be positive")
	ErrUnknownVariant              = errors.New("aipages config: unknown default variant")
)

const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"

	NotificationsMemory = "memory"
	NotificationsRedis  = "redis"

	PolicyFailOpen   = "fail_open"
	PolicyFailClosed = "fail_closed"
)

// KnownVariants lists the page intent tags the batch coordinator understands.
var KnownVariants = []string{"direct", "local", "category", "branded-local", "service-urgent", "competitive"}

// Config aggregates feature flags and adapter settings for the page pipeline.
type Config struct {
	Storage       StorageConfig
	Cache         CacheConfig
	Features      Features
	Logging       LoggingConfig
	Batches       BatchConfig
	Lifecycle     LifecycleConfig
	Routes        RouteConfig
	Notifications NotificationConfig
	Commands      CommandsConfig
}

// StorageConfig selects the persistence adapter.
type StorageConfig struct {
	Provider string
	// DSN is the driver connection string for sqlite and postgres.
	DSN string
	// AutoMigrate creates missing tables on startup.
	AutoMigrate bool
}

// CacheConfig toggles the go-repository-cache layer around bun repositories.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// Features toggles optional behaviour.
type Features struct {
	Scheduling    bool
	Notifications bool
	Logger        bool
	Commands      bool
}

// LoggingConfig captures provider options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// BatchConfig controls draft generation and publication.
type BatchConfig struct {
	// MaxConcurrency bounds concurrent content-writer calls. Zero means one call per variant at once.
	MaxConcurrency       int
	DefaultVariants      []string
	PartialFailurePolicy string
}

// LifecycleConfig controls expiration behaviour.
type LifecycleConfig struct {
	ExpiringSoonWindow time.Duration
	SweepBatchSize     int
}

// RouteConfig configures public page URLs.
type RouteConfig struct {
	BaseURL string
}

// NotificationConfig selects the change-notification adapter.
type NotificationConfig struct {
	Provider      string
	RedisAddr     string
	RedisDB       int
	ChannelPrefix string
}

// CommandsConfig controls go-command handler registration.
type CommandsConfig struct {
	// ExpirationsCron schedules the expiration worker when a cron registrar is supplied.
	ExpirationsCron string
}

// DefaultConfig returns in-memory defaults suitable for tests and demos.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Provider:    StorageMemory,
			AutoMigrate: true,
		},
		Cache: CacheConfig{
			DefaultTTL: time.Minute,
		},
		Features: Features{
			Scheduling:    true,
			Notifications: true,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "json",
		},
		Batches: BatchConfig{
			MaxConcurrency:       0,
			DefaultVariants:      []string{"direct", "local", "category"},
			PartialFailurePolicy: PolicyFailOpen,
		},
		Lifecycle: LifecycleConfig{
			ExpiringSoonWindow: 2 * time.Hour,
			SweepBatchSize:     100,
		},
		Routes: RouteConfig{},
		Notifications: NotificationConfig{
			Provider:      NotificationsMemory,
			ChannelPrefix: "aipages:pages",
		},
		Commands: CommandsConfig{
			ExpirationsCron: "@every 1m",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	storage := normalize(cfg.Storage.Provider)
	switch storage {
	case StorageMemory, StorageSQLite, StoragePostgres:
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}
	if cfg.Cache.Enabled && storage == StorageMemory {
		return ErrCacheRequiresBunStorage
	}

	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if provider != "gologger" {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := normalize(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := normalize(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}

	if cfg.Features.Notifications {
		switch normalize(cfg.Notifications.Provider) {
		case NotificationsMemory:
		case NotificationsRedis:
			if strings.TrimSpace(cfg.Notifications.RedisAddr) == "" {
				return ErrRedisAddrRequired
			}
		default:
			return fmt.Errorf("%w: %s", ErrNotificationProviderUnknown, cfg.Notifications.Provider)
		}
	}

	if cfg.Batches.MaxConcurrency < 0 {
		return ErrBatchConcurrencyInvalid
	}
	switch normalize(cfg.Batches.PartialFailurePolicy) {
	case "", PolicyFailOpen, PolicyFailClosed:
	default:
		return fmt.Errorf("%w: %s", ErrPartialFailurePolicyInvalid, cfg.Batches.PartialFailurePolicy)
	}
	for _, variant := range cfg.Batches.DefaultVariants {
		if !isKnownVariant(variant) {
			return fmt.Errorf("%w: %s", ErrUnknownVariant, variant)
		}
	}
	if cfg.Lifecycle.ExpiringSoonWindow <= 0 {
		return ErrExpiringSoonWindowInvalid
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isKnownVariant(variant string) bool {
	variant = normalize(variant)
	for _, known := range KnownVariants {
		if known == variant {
			return true
		}
	}
	return false
}

func isSupportedLevel(level string) bool {
	switch level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch format {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
