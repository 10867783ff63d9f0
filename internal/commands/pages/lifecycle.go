package pagescmd

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-aipages/internal/commands"
	"github.com/goliatone/go-aipages/internal/logging"
	"github.com/goliatone/go-aipages/internal/pages"
	"github.com/goliatone/go-aipages/pkg/interfaces"
	command "github.com/goliatone/go-command"
	"github.com/google/uuid"
)

const (
	extendPageMessageType     = "aipages.pages.extend"
	reactivatePageMessageType = "aipages.pages.reactivate"
	expirePageMessageType     = "aipages.pages.expire"
	deletePageMessageType     = "aipages.pages.delete"
)

// LifecycleService is the subset of *pages.Lifecycle the handlers drive.
type LifecycleService interface {
	Extend(ctx context.Context, id uuid.UUID, hours int) (*pages.Page, error)
	Reactivate(ctx context.Context, id uuid.UUID, newExpiry time.Time) (*pages.Page, error)
	ExpireNow(ctx context.Context, id uuid.UUID) (*pages.Page, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ExtendPageCommand pushes a page's expiry to now plus Hours.
type ExtendPageCommand struct {
	PageID uuid.UUID `json:"page_id"`
	Hours  int       `json:"hours"`
}

func (ExtendPageCommand) Type() string { return extendPageMessageType }

func (m ExtendPageCommand) Validate() error {
	errs := validation.Errors{}
	if m.PageID == uuid.Nil {
		errs["page_id"] = validation.NewError("aipages.pages.extend.page_id_required", "page_id is required")
	}
	if m.Hours <= 0 {
		errs["hours"] = validation.NewError("aipages.pages.extend.hours_invalid", "hours must be greater than zero")
	}
	return errs.Filter()
}

// ReactivatePageCommand brings a page back with a fresh expiry.
type ReactivatePageCommand struct {
	PageID    uuid.UUID `json:"page_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (ReactivatePageCommand) Type() string { return reactivatePageMessageType }

func (m ReactivatePageCommand) Validate() error {
	errs := validation.Errors{}
	if m.PageID == uuid.Nil {
		errs["page_id"] = validation.NewError("aipages.pages.reactivate.page_id_required", "page_id is required")
	}
	if m.ExpiresAt.IsZero() {
		errs["expires_at"] = validation.NewError("aipages.pages.reactivate.expires_at_required", "expires_at is required")
	}
	return errs.Filter()
}

// ExpirePageCommand expires a page immediately.
type ExpirePageCommand struct {
	PageID uuid.UUID `json:"page_id"`
}

func (ExpirePageCommand) Type() string { return expirePageMessageType }

func (m ExpirePageCommand) Validate() error {
	return requirePageID(m.PageID, "aipages.pages.expire.page_id_required")
}

// DeletePageCommand removes a page permanently.
type DeletePageCommand struct {
	PageID uuid.UUID `json:"page_id"`
}

func (DeletePageCommand) Type() string { return deletePageMessageType }

func (m DeletePageCommand) Validate() error {
	return requirePageID(m.PageID, "aipages.pages.delete.page_id_required")
}

// ExtendPageHandler applies ExtendPageCommand.
type ExtendPageHandler struct {
	inner *commands.Handler[ExtendPageCommand]
}

func NewExtendPageHandler(service LifecycleService, logger interfaces.Logger, opts ...commands.HandlerOption[ExtendPageCommand]) *ExtendPageHandler {
	baseLogger := commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg ExtendPageCommand) error {
		logging.WithFields(baseLogger, map[string]any{
			"page_id": msg.PageID.String(),
			"hours":   msg.Hours,
		}).Debug("pages.command.extend.dispatch")
		_, err := service.Extend(ctx, msg.PageID, msg.Hours)
		return err
	}
	return &ExtendPageHandler{inner: newHandler(exec, baseLogger, "pages.extend", opts)}
}

// Execute satisfies command.Commander[ExtendPageCommand].
func (h *ExtendPageHandler) Execute(ctx context.Context, msg ExtendPageCommand) error {
	return h.inner.Execute(ctx, msg)
}

func (h *ExtendPageHandler) CLIHandler() any { return h }

func (h *ExtendPageHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"pages", "extend"},
		Group:       "pages",
		Description: "Extend a page's expiry by a number of hours",
	}
}

// ReactivatePageHandler applies ReactivatePageCommand.
type ReactivatePageHandler struct {
	inner *commands.Handler[ReactivatePageCommand]
}

func NewReactivatePageHandler(service LifecycleService, logger interfaces.Logger, opts ...commands.HandlerOption[ReactivatePageCommand]) *ReactivatePageHandler {
	baseLogger := commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg ReactivatePageCommand) error {
		logging.WithFields(baseLogger, map[string]any{
			"page_id":    msg.PageID.String(),
			"expires_at": msg.ExpiresAt,
		}).Debug("pages.command.reactivate.dispatch")
		_, err := service.Reactivate(ctx, msg.PageID, msg.ExpiresAt)
		return err
	}
	return &ReactivatePageHandler{inner: newHandler(exec, baseLogger, "pages.reactivate", opts)}
}

// Execute satisfies command.Commander[ReactivatePageCommand].
func (h *ReactivatePageHandler) Execute(ctx context.Context, msg ReactivatePageCommand) error {
	return h.inner.Execute(ctx, msg)
}

func (h *ReactivatePageHandler) CLIHandler() any { return h }

func (h *ReactivatePageHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"pages", "reactivate"},
		Group:       "pages",
		Description: "Reactivate an expired page with a new expiry",
	}
}

// ExpirePageHandler applies ExpirePageCommand.
type ExpirePageHandler struct {
	inner *commands.Handler[ExpirePageCommand]
}

func NewExpirePageHandler(service LifecycleService, logger interfaces.Logger, opts ...commands.HandlerOption[ExpirePageCommand]) *ExpirePageHandler {
	baseLogger := commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg ExpirePageCommand) error {
		logging.WithFields(baseLogger, map[string]any{"page_id": msg.PageID.String()}).
			Debug("pages.command.expire.dispatch")
		_, err := service.ExpireNow(ctx, msg.PageID)
		return err
	}
	return &ExpirePageHandler{inner: newHandler(exec, baseLogger, "pages.expire", opts)}
}

// Execute satisfies command.Commander[ExpirePageCommand].
func (h *ExpirePageHandler) Execute(ctx context.Context, msg ExpirePageCommand) error {
	return h.inner.Execute(ctx, msg)
}

func (h *ExpirePageHandler) CLIHandler() any { return h }

func (h *ExpirePageHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"pages", "expire"},
		Group:       "pages",
		Description: "Expire a page immediately",
	}
}

// DeletePageHandler applies DeletePageCommand.
type DeletePageHandler struct {
	inner *commands.Handler[DeletePageCommand]
}

func NewDeletePageHandler(service LifecycleService, logger interfaces.Logger, opts ...commands.HandlerOption[DeletePageCommand]) *DeletePageHandler {
	baseLogger := commands.EnsureLogger(logger)
	exec := func(ctx context.Context, msg DeletePageCommand) error {
		logging.WithFields(baseLogger, map[string]any{"page_id": msg.PageID.String()}).
			Debug("pages.command.delete.dispatch")
		return service.Delete(ctx, msg.PageID)
	}
	return &DeletePageHandler{inner: newHandler(exec, baseLogger, "pages.delete", opts)}
}

// Execute satisfies command.Commander[DeletePageCommand].
func (h *DeletePageHandler) Execute(ctx context.Context, msg DeletePageCommand) error {
	return h.inner.Execute(ctx, msg)
}

func (h *DeletePageHandler) CLIHandler() any { return h }

func (h *DeletePageHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"pages", "delete"},
		Group:       "pages",
		Description: "Delete a page permanently",
	}
}

func requirePageID(id uuid.UUID, code string) error {
	if id == uuid.Nil {
		return validation.Errors{"page_id": validation.NewError(code, "page_id is required")}
	}
	return nil
}

func newHandler[T command.Message](exec command.CommandFunc[T], logger interfaces.Logger, operation string, opts []commands.HandlerOption[T]) *commands.Handler[T] {
	handlerOpts := []commands.HandlerOption[T]{
		commands.WithLogger[T](logger),
		commands.WithOperation[T](operation),
	}
	handlerOpts = append(handlerOpts, opts...)
	return commands.NewHandler[T](exec, handlerOpts...)
}
