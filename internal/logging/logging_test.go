package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-aipages/pkg/interfaces"
	"github.com/google/uuid"
)

type recordingLogger struct {
	fields []map[string]any
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	r.fields = append(r.fields, fields)
	return r
}

func (r *recordingLogger) WithContext(context.Context) interfaces.Logger { return r }

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerWithoutProviderIsNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "aipages.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noop logger, got %T", logger)
	}
	logger.WithContext(context.Background()).Info("dropped")
}

func TestModuleLoggerAnnotatesModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	PagesLogger(provider)
	BatchesLogger(provider)
	ModuleLogger(provider, "")

	want := []string{pagesModule, batchesModule, rootModule}
	if len(provider.requested) != len(want) {
		t.Fatalf("expected %d lookups, got %v", len(want), provider.requested)
	}
	for i, name := range want {
		if provider.requested[i] != name {
			t.Fatalf("lookup %d: want %s got %s", i, name, provider.requested[i])
		}
		if rec.fields[i]["module"] != name {
			t.Fatalf("expected module field %s, got %v", name, rec.fields[i]["module"])
		}
	}
}

func TestWithPageContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}
	pageID := uuid.New()
	WithPageContext(rec, pageID, uuid.Nil, " ")
	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	got := rec.fields[0]
	if got["page_id"] != pageID.String() {
		t.Fatalf("unexpected page_id %v", got["page_id"])
	}
	if _, ok := got["business_id"]; ok {
		t.Fatal("expected nil business id to be skipped")
	}
	if _, ok := got["page_type"]; ok {
		t.Fatal("expected blank page type to be skipped")
	}
}

func TestContextFieldsMergeAndCopy(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"batch_id": "b1"})
	ctx = ContextWithFields(ctx, map[string]any{"update_id": "u1"})

	fields := ContextFields(ctx)
	if fields["batch_id"] != "b1" || fields["update_id"] != "u1" {
		t.Fatalf("expected merged fields, got %#v", fields)
	}
	fields["batch_id"] = "mutated"
	if ContextFields(ctx)["batch_id"] != "b1" {
		t.Fatal("expected ContextFields to return a copy")
	}
	if ContextFields(context.Background()) != nil {
		t.Fatal("expected nil fields for bare context")
	}
}
