package di

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/goliatone/go-aipages/internal/batches"
	"github.com/goliatone/go-aipages/internal/business"
	"github.com/goliatone/go-aipages/internal/notify"
	"github.com/goliatone/go-aipages/internal/pages"
	"github.com/goliatone/go-aipages/internal/runtimeconfig"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var containerNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return containerNow }

func TestNewContainerMemoryDefaults(t *testing.T) {
	container, err := NewContainer(runtimeconfig.DefaultConfig(), WithClock(fixedClock))
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	assert.Nil(t, container.BunDB())
	assert.IsType(t, &business.MemoryRepository{}, container.BusinessRepository())
	assert.IsType(t, &pages.MemoryPageRepository{}, container.PageRepository())
	assert.IsType(t, &notify.Memory{}, container.Notifier())
	assert.NotNil(t, container.Lifecycle())
	assert.NotNil(t, container.Coordinator())
	assert.NotNil(t, container.JobWorker())
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Batches.PartialFailurePolicy = "sometimes"

	_, err := NewContainer(cfg)
	assert.ErrorIs(t, err, runtimeconfig.ErrPartialFailurePolicyInvalid)
}

func TestNewContainerRequiresDSNForSQLStorage(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = runtimeconfig.StorageSQLite

	_, err := NewContainer(cfg)
	assert.ErrorIs(t, err, ErrStorageDSNRequired)
}

func sqliteConfig(name string) runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = runtimeconfig.StorageSQLite
	cfg.Storage.DSN = fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_fk=1", name, time.Now().UnixNano())
	return cfg
}

func TestNewContainerSQLiteCacheReadsBack(t *testing.T) {
	cfg := sqliteConfig("di_cache")
	cfg.Cache.Enabled = true

	container, err := NewContainer(cfg, WithClock(fixedClock))
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	ctx := context.Background()
	record := &business.Record{ID: uuid.New(), Name: "Casa Verde", City: "Austin", State: "TX"}
	_, err = container.BusinessRepository().Create(ctx, record)
	require.NoError(t, err)

	for range 2 {
		fetched, err := container.BusinessRepository().GetByID(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, "Casa Verde", fetched.Name)
	}
}

func TestNewContainerSQLiteRunsPipeline(t *testing.T) {
	cfg := sqliteConfig("di_pipeline")

	container, err := NewContainer(cfg, WithClock(fixedClock))
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })
	require.NotNil(t, container.BunDB())

	ctx := context.Background()
	record := &business.Record{
		ID:       uuid.New(),
		Name:     "Casa Verde",
		Category: "food-dining",
		City:     "Austin",
		State:    "TX",
	}
	_, err = container.BusinessRepository().Create(ctx, record)
	require.NoError(t, err)

	expires := containerNow.Add(72 * time.Hour)
	update, err := business.NewUpdate(record.ID, "Happy hour 5-7pm! $5 margaritas", time.Time{}, &expires, containerNow)
	require.NoError(t, err)
	_, err = container.UpdateRepository().Create(ctx, update)
	require.NoError(t, err)

	batch, err := container.Coordinator().Draft(ctx, batches.DraftRequest{
		Update:   update,
		Business: record,
		Variants: []batches.VariantTag{batches.VariantDirect, batches.VariantLocal},
	})
	require.NoError(t, err)

	result, err := container.Coordinator().Publish(ctx, batch.ID)
	require.NoError(t, err)
	require.Len(t, result.PageIDs, 2)

	stored, err := container.Lifecycle().ListByBusiness(ctx, record.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	saved, err := container.UpdateRepository().GetByID(ctx, update.ID)
	require.NoError(t, err)
	assert.Equal(t, business.UpdateStatusCompleted, saved.Status)

	due, err := container.Scheduler().ListDue(ctx, expires.Add(time.Minute), 10)
	require.NoError(t, err)
	assert.Len(t, due, 2)
}

func TestNewContainerRedisNotifier(t *testing.T) {
	server := miniredis.RunT(t)

	cfg := runtimeconfig.DefaultConfig()
	cfg.Notifications.Provider = runtimeconfig.NotificationsRedis
	cfg.Notifications.RedisAddr = server.Addr()

	container, err := NewContainer(cfg, WithClock(fixedClock))
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	redisNotifier, ok := container.Notifier().(*notify.Redis)
	require.True(t, ok, "expected redis notifier, got %T", container.Notifier())

	businessID := uuid.New()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	events, err := redisNotifier.Subscribe(ctx, businessID)
	require.NoError(t, err)

	expires := containerNow.Add(time.Hour)
	page, err := container.Lifecycle().Create(ctx, pages.CreatePageRequest{
		ID:         uuid.New(),
		BusinessID: businessID,
		Path:       "/us/tx/austin/casa-verde/happy-austin",
		Title:      "Happy hour",
		PageType:   "direct",
		ExpiresAt:  &expires,
	})
	require.NoError(t, err)

	select {
	case event := <-events:
		assert.Equal(t, notify.EventPageCreated, event.Type)
		assert.Equal(t, page.ID, event.PageID)
	case <-ctx.Done():
		t.Fatal("expected created event over redis")
	}
}

func TestNewContainerGoLoggerProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Format = "console"

	container, err := NewContainer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	require.NotNil(t, container.LoggerProvider())
	assert.NotNil(t, container.LoggerProvider().GetLogger("aipages.test"))
}

func TestNewContainerHonoursInjectedServices(t *testing.T) {
	notifier := notify.NewMemory()
	writerErr := errors.New("writer offline")
	writer := batches.ContentWriterFunc(func(context.Context, batches.WriteRequest) (batches.WriteResult, error) {
		return batches.WriteResult{}, writerErr
	})

	container, err := NewContainer(runtimeconfig.DefaultConfig(), WithNotifier(notifier), WithContentWriter(writer), WithClock(fixedClock))
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	assert.Same(t, notifier, container.Notifier())

	record := &business.Record{ID: uuid.New(), Name: "Casa Verde", City: "Austin", State: "TX"}
	update, err := business.NewUpdate(record.ID, "Live music tonight", time.Time{}, nil, containerNow)
	require.NoError(t, err)
	_, err = container.Coordinator().Draft(context.Background(), batches.DraftRequest{
		Update:   update,
		Business: record,
		Variants: []batches.VariantTag{batches.VariantDirect},
	})
	assert.ErrorIs(t, err, writerErr)
}
