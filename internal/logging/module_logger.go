package logging

import (
	"context"

	"github.com/goliatone/go-aipages/pkg/interfaces"
)

const (
	rootModule      = "aipages"
	pagesModule     = "aipages.pages"
	batchesModule   = "aipages.batches"
	schedulerModule = "aipages.scheduler"
	notifyModule    = "aipages.notify"
	httpModule      = "aipages.http"
)

// ModuleLogger returns a logger scoped to module. A nil provider yields a
// no-op logger; every returned logger carries a "module" field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	var logger interfaces.Logger = noopLogger{}
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

// PagesLogger returns the logger used by the page lifecycle service.
func PagesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, pagesModule)
}

// BatchesLogger returns the logger used by the batch publication coordinator.
func BatchesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, batchesModule)
}

// SchedulerLogger returns the logger used by expiration workers.
func SchedulerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, schedulerModule)
}

// NotifyLogger returns the logger used by change notifiers.
func NotifyLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, notifyModule)
}

// HTTPLogger returns the logger used by the HTTP adapters.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
