package commands

import (
	"errors"
	"strings"

	internalcommands "github.com/goliatone/go-aipages/internal/commands"
	batchescmd "github.com/goliatone/go-aipages/internal/commands/batches"
	pagescmd "github.com/goliatone/go-aipages/internal/commands/pages"
	"github.com/goliatone/go-aipages/internal/di"
	"github.com/goliatone/go-aipages/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// CronRegistrar registers command handlers with a cron scheduler.
type CronRegistrar func(command.HandlerConfig, any) error

// RegistrationOptions configures how handlers are registered.
type RegistrationOptions struct {
	Registry       CommandRegistry
	Dispatcher     CommandDispatcher
	CronRegistrar  CronRegistrar
	LoggerProvider interfaces.LoggerProvider
	// ExpirationsCron overrides Config.Commands.ExpirationsCron.
	ExpirationsCron string
}

// RegistrationResult captures the constructed handlers and dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// ErrNoHandlers is returned when the container exposes nothing to register.
var ErrNoHandlers = errors.New("commands: no command handlers registered")

// RegisterContainerCommands builds the lifecycle and batch handlers for the
// container and registers them with the optional registry, dispatcher and
// cron integrations.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	result := &RegistrationResult{
		Handlers:      make([]any, 0),
		Subscriptions: make([]CommandSubscription, 0),
	}
	if container == nil {
		return result, ErrNoHandlers
	}
	cfg := container.Config

	provider := opts.LoggerProvider
	if provider == nil {
		provider = container.LoggerProvider()
	}

	var errs error
	register := func(handler any) {
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}
		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}
		if opts.CronRegistrar != nil {
			if cronCmd, ok := handler.(command.CronCommand); ok {
				if err := opts.CronRegistrar(cronCmd.CronOptions(), cronCmd.CronHandler()); err != nil {
					errs = errors.Join(errs, err)
				}
			}
		}
	}

	if lifecycle := container.Lifecycle(); lifecycle != nil {
		logger := internalcommands.CommandLogger(provider, "pages")
		register(pagescmd.NewExtendPageHandler(lifecycle, logger))
		register(pagescmd.NewReactivatePageHandler(lifecycle, logger))
		register(pagescmd.NewExpirePageHandler(lifecycle, logger))
		register(pagescmd.NewDeletePageHandler(lifecycle, logger))
	}

	if worker := container.JobWorker(); worker != nil && cfg.Features.Scheduling {
		expression := strings.TrimSpace(opts.ExpirationsCron)
		if expression == "" {
			expression = cfg.Commands.ExpirationsCron
		}
		register(pagescmd.NewProcessExpirationsHandler(worker, internalcommands.CommandLogger(provider, "jobs"),
			pagescmd.ProcessWithCronExpression(expression),
		))
	}

	if coordinator := container.Coordinator(); coordinator != nil {
		logger := internalcommands.CommandLogger(provider, "batches")
		register(batchescmd.NewPublishBatchHandler(coordinator, logger))
		register(batchescmd.NewDiscardBatchHandler(coordinator, logger))
	}

	if len(result.Handlers) == 0 {
		return result, errors.Join(ErrNoHandlers, errs)
	}
	return result, errs
}
