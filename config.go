package aipages

import "github.com/goliatone/go-aipages/internal/runtimeconfig"

var (
	ErrLoggingProviderRequired     = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown      = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid         = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid        = runtimeconfig.ErrLoggingFormatInvalid
	ErrStorageProviderUnknown      = runtimeconfig.ErrStorageProviderUnknown
	ErrCacheRequiresBunStorage     = runtimeconfig.ErrCacheRequiresBunStorage
	ErrNotificationProviderUnknown = runtimeconfig.ErrNotificationProviderUnknown
	ErrRedisAddrRequired           = runtimeconfig.ErrRedisAddrRequired
	ErrBatchConcurrencyInvalid     = runtimeconfig.ErrBatchConcurrencyInvalid
	ErrPartialFailurePolicyInvalid = runtimeconfig.ErrPartialFailurePolicyInvalid
	ErrExpiringSoonWindowInvalid   = runtimeconfig.ErrExpiringSoonWindowInvalid
	ErrUnknownVariant              = runtimeconfig.ErrUnknownVariant
)

type (
	Config             = runtimeconfig.Config
	StorageConfig      = runtimeconfig.StorageConfig
	CacheConfig        = runtimeconfig.CacheConfig
	Features           = runtimeconfig.Features
	LoggingConfig      = runtimeconfig.LoggingConfig
	BatchConfig        = runtimeconfig.BatchConfig
	LifecycleConfig    = runtimeconfig.LifecycleConfig
	RouteConfig        = runtimeconfig.RouteConfig
	NotificationConfig = runtimeconfig.NotificationConfig
	CommandsConfig     = runtimeconfig.CommandsConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
