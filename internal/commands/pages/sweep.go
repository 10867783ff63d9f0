package pagescmd

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-aipages/internal/commands"
	"github.com/goliatone/go-aipages/internal/logging"
	"github.com/goliatone/go-aipages/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const processExpirationsMessageType = "aipages.pages.process_expirations"

// ExpirationProcessor drains due expiration jobs. *jobs.Worker satisfies it.
type ExpirationProcessor interface {
	Process(ctx context.Context) error
}

// ProcessExpirationsCommand runs one pass of the expiration worker.
type ProcessExpirationsCommand struct{}

func (ProcessExpirationsCommand) Type() string { return processExpirationsMessageType }

func (ProcessExpirationsCommand) Validate() error { return nil }

// ProcessExpirationsOption customises the expirations handler.
type ProcessExpirationsOption func(*ProcessExpirationsHandler)

// ProcessWithCronExpression overrides the default "@every 1m" schedule.
func ProcessWithCronExpression(expression string) ProcessExpirationsOption {
	return func(h *ProcessExpirationsHandler) {
		if trimmed := strings.TrimSpace(expression); trimmed != "" {
			h.cronConfig.Expression = trimmed
		}
	}
}

// ProcessWithTimeout overrides the default execution timeout.
func ProcessWithTimeout(timeout time.Duration) ProcessExpirationsOption {
	return func(h *ProcessExpirationsHandler) {
		h.timeout = timeout
	}
}

// ProcessExpirationsHandler is a cron-capable command that expires pages
// whose jobs are due.
type ProcessExpirationsHandler struct {
	inner      *commands.Handler[ProcessExpirationsCommand]
	cronConfig command.HandlerConfig
	timeout    time.Duration
}

func NewProcessExpirationsHandler(processor ExpirationProcessor, logger interfaces.Logger, opts ...ProcessExpirationsOption) *ProcessExpirationsHandler {
	h := &ProcessExpirationsHandler{
		cronConfig: command.HandlerConfig{Expression: "@every 1m"},
		timeout:    commands.DefaultCommandTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	baseLogger := commands.EnsureLogger(logger)
	exec := func(ctx context.Context, _ ProcessExpirationsCommand) error {
		logging.WithFields(baseLogger, map[string]any{"operation": "pages.process_expirations"}).
			Debug("pages.command.process_expirations.dispatch")
		return processor.Process(ctx)
	}
	h.inner = newHandler(exec, baseLogger, "pages.process_expirations", []commands.HandlerOption[ProcessExpirationsCommand]{
		commands.WithTimeout[ProcessExpirationsCommand](h.timeout),
	})
	return h
}

// Execute satisfies command.Commander[ProcessExpirationsCommand].
func (h *ProcessExpirationsHandler) Execute(ctx context.Context, msg ProcessExpirationsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CronHandler satisfies command.CronCommand.
func (h *ProcessExpirationsHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), ProcessExpirationsCommand{})
	}
}

// CronOptions satisfies command.CronCommand.
func (h *ProcessExpirationsHandler) CronOptions() command.HandlerConfig {
	return h.cronConfig
}

func (h *ProcessExpirationsHandler) CLIHandler() any { return h }

func (h *ProcessExpirationsHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"pages", "process-expirations"},
		Group:       "pages",
		Description: "Expire pages whose expiration jobs are due",
	}
}
