package batchescmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-aipages/internal/batches"
	"github.com/goliatone/go-aipages/internal/commands"
	"github.com/goliatone/go-aipages/internal/logging"
	"github.com/goliatone/go-aipages/pkg/interfaces"
	command "github.com/goliatone/go-command"
	"github.com/google/uuid"
)

const (
	publishBatchMessageType = "aipages.batches.publish"
	discardBatchMessageType = "aipages.batches.discard"
)

// BatchService is the subset of *batches.Coordinator the handlers drive.
type BatchService interface {
	Publish(ctx context.Context, batchID uuid.UUID) (*batches.PublishResult, error)
	Discard(ctx context.Context, batchID uuid.UUID) error
}

// PublishBatchCommand confirms a pending batch.
type PublishBatchCommand struct {
	BatchID uuid.UUID `json:"batch_id"`
	// Result receives the publish outcome when set.
	Result *batches.PublishResult `json:"-"`
}

func (PublishBatchCommand) Type() string { return publishBatchMessageType }

func (m PublishBatchCommand) Validate() error {
	return requireBatchID(m.BatchID, "aipages.batches.publish.batch_id_required")
}

// DiscardBatchCommand drops a pending batch.
type DiscardBatchCommand struct {
	BatchID uuid.UUID `json:"batch_id"`
}

func (DiscardBatchCommand) Type() string { return discardBatchMessageType }

func (m DiscardBatchCommand) Validate() error {
	return requireBatchID(m.BatchID, "aipages.batches.discard.batch_id_required")
}

// PublishBatchHandler publishes batches through the coordinator.
type PublishBatchHandler struct {
	inner *commands.Handler[PublishBatchCommand]
}

func NewPublishBatchHandler(service BatchService, logger interfaces.Logger, opts ...commands.HandlerOption[PublishBatchCommand]) *PublishBatchHandler {
	baseLogger := commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg PublishBatchCommand) error {
		operationLogger := logging.WithFields(baseLogger, map[string]any{"batch_id": msg.BatchID.String()})
		operationLogger.Debug("batches.command.publish.dispatch")
		result, err := service.Publish(ctx, msg.BatchID)
		if err != nil {
			return err
		}
		if msg.Result != nil {
			*msg.Result = *result
		}
		operationLogger.Debug("batches.command.publish.completed", "pages", len(result.PageIDs))
		return nil
	}
	handlerOpts := []commands.HandlerOption[PublishBatchCommand]{
		commands.WithLogger[PublishBatchCommand](baseLogger),
		commands.WithOperation[PublishBatchCommand]("batches.publish"),
	}
	return &PublishBatchHandler{
		inner: commands.NewHandler[PublishBatchCommand](exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[PublishBatchCommand].
func (h *PublishBatchHandler) Execute(ctx context.Context, msg PublishBatchCommand) error {
	return h.inner.Execute(ctx, msg)
}

func (h *PublishBatchHandler) CLIHandler() any { return h }

func (h *PublishBatchHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"batches", "publish"},
		Group:       "batches",
		Description: "Publish every draft in a pending batch",
	}
}

// DiscardBatchHandler drops batches through the coordinator.
type DiscardBatchHandler struct {
	inner *commands.Handler[DiscardBatchCommand]
}

func NewDiscardBatchHandler(service BatchService, logger interfaces.Logger, opts ...commands.HandlerOption[DiscardBatchCommand]) *DiscardBatchHandler {
	baseLogger := commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg DiscardBatchCommand) error {
		logging.WithFields(baseLogger, map[string]any{"batch_id": msg.BatchID.String()}).
			Debug("batches.command.discard.dispatch")
		return service.Discard(ctx, msg.BatchID)
	}
	handlerOpts := []commands.HandlerOption[DiscardBatchCommand]{
		commands.WithLogger[DiscardBatchCommand](baseLogger),
		commands.WithOperation[DiscardBatchCommand]("batches.discard"),
	}
	return &DiscardBatchHandler{
		inner: commands.NewHandler[DiscardBatchCommand](exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[DiscardBatchCommand].
func (h *DiscardBatchHandler) Execute(ctx context.Context, msg DiscardBatchCommand) error {
	return h.inner.Execute(ctx, msg)
}

func (h *DiscardBatchHandler) CLIHandler() any { return h }

func (h *DiscardBatchHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"batches", "discard"},
		Group:       "batches",
		Description: "Discard a pending batch without publishing",
	}
}

func requireBatchID(id uuid.UUID, code string) error {
	if id == uuid.Nil {
		return validation.Errors{"batch_id": validation.NewError(code, "batch_id is required")}
	}
	return nil
}
