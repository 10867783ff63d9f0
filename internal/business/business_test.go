package business_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-aipages/internal/business"
	"github.com/goliatone/go-aipages/pkg/testsupport"
	"github.com/google/uuid"
)

func loadProfile(t *testing.T) *business.Record {
	t.Helper()
	var record business.Record
	if err := testsupport.LoadGolden(filepath.Join("testdata", "profile.json"), &record); err != nil {
		t.Fatalf("load profile fixture: %v", err)
	}
	return &record
}

func TestAwardDecodesBothShapes(t *testing.T) {
	record := loadProfile(t)

	if len(record.Awards) != 2 {
		t.Fatalf("expected 2 awards, got %d", len(record.Awards))
	}
	named := record.Awards[0]
	if named.Kind() != business.AwardNamed || named.Name() != "Best Patio 2023" {
		t.Fatalf("unexpected named award %+v", named)
	}
	detailed := record.Awards[1]
	if detailed.Kind() != business.AwardDetailed || detailed.Issuer() != "Austin Eats" || detailed.Year() != 2022 {
		t.Fatalf("unexpected detailed award kind=%s issuer=%s year=%d", detailed.Kind(), detailed.Issuer(), detailed.Year())
	}
	if record.Certifications[0].Kind() != business.AwardNamed {
		t.Fatalf("expected named certification")
	}
}

func TestAwardRoundTripKeepsShape(t *testing.T) {
	awards := []business.Award{
		business.NamedAward("Best Patio"),
		business.DetailedAward("Top Tacos", "Austin Eats", 2022),
	}
	encoded, err := json.Marshal(awards)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `["Best Patio",{"name":"Top Tacos","issuer":"Austin Eats","year":2022}]`
	if string(encoded) != want {
		t.Fatalf("expected %s, got %s", want, encoded)
	}
}

func TestAwardRejectsInvalidShapes(t *testing.T) {
	for _, raw := range []string{`42`, `""`, `{"issuer":"x"}`, `[]`} {
		var award business.Award
		if err := json.Unmarshal([]byte(raw), &award); !errors.Is(err, business.ErrAwardInvalid) {
			t.Fatalf("input %s: expected ErrAwardInvalid, got %v", raw, err)
		}
	}
}

func TestRecordValidateReportsFields(t *testing.T) {
	record := &business.Record{Name: "  ", Email: "not-an-email"}

	err := record.Validate()
	var errs validation.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected validation.Errors, got %T %v", err, err)
	}
	for _, field := range []string{"name", "city", "state", "email"} {
		if _, ok := errs[field]; !ok {
			t.Fatalf("expected %s error, got %v", field, errs)
		}
	}

	if err := loadProfile(t).Validate(); err != nil {
		t.Fatalf("expected fixture to validate, got %v", err)
	}
}

func TestRecordValidateEmailFormat(t *testing.T) {
	cases := []struct {
		email string
		valid bool
	}{
		{"", true},
		{"  hola@casaverde.example  ", true},
		{"owner+news@sub.casaverde.example", true},
		{"@casaverde.example", false},
		{"hola@", false},
		{"a@b@c", false},
		{"hola @casaverde.example", false},
	}
	for _, tc := range cases {
		record := loadProfile(t)
		record.Email = tc.email
		err := record.Validate()
		if tc.valid && err != nil {
			t.Fatalf("email %q: expected valid, got %v", tc.email, err)
		}
		if !tc.valid {
			var errs validation.Errors
			if !errors.As(err, &errs) {
				t.Fatalf("email %q: expected validation.Errors, got %v", tc.email, err)
			}
			if _, ok := errs["email"]; !ok {
				t.Fatalf("email %q: expected email error, got %v", tc.email, errs)
			}
		}
	}
}

func TestUpdateLifecycle(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	update, err := business.NewUpdate(uuid.New(), "Happy hour 5-7pm", time.Time{}, nil, now)
	if err != nil {
		t.Fatalf("NewUpdate: %v", err)
	}
	if !update.GoLiveAt.Equal(now) {
		t.Fatalf("expected go-live to default to now, got %v", update.GoLiveAt)
	}
	if !update.Permanent() || update.Status != business.UpdateStatusPending {
		t.Fatalf("unexpected update %+v", update)
	}
	if err := update.Complete(now); !errors.Is(err, business.ErrUpdateTransition) {
		t.Fatalf("expected transition error completing a pending update, got %v", err)
	}
	if err := update.StartProcessing(now); err != nil {
		t.Fatalf("StartProcessing: %v", err)
	}
	if err := update.Complete(now); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if err := update.Edit("changed", now); !errors.Is(err, business.ErrUpdateImmutable) {
		t.Fatalf("expected ErrUpdateImmutable, got %v", err)
	}
	if err := update.StartProcessing(now); !errors.Is(err, business.ErrUpdateImmutable) {
		t.Fatalf("expected ErrUpdateImmutable, got %v", err)
	}

	extended := now.Add(72 * time.Hour)
	if err := update.ExtendExpiration(extended, now); err != nil {
		t.Fatalf("ExtendExpiration: %v", err)
	}
	if update.ExpiresAt == nil || !update.ExpiresAt.Equal(extended) {
		t.Fatalf("expected expiration %v, got %v", extended, update.ExpiresAt)
	}
	if err := update.ExtendExpiration(now.Add(-time.Hour), now); !errors.Is(err, business.ErrUpdateExpiryInvalid) {
		t.Fatalf("expected ErrUpdateExpiryInvalid, got %v", err)
	}
}

func TestNewUpdateValidates(t *testing.T) {
	now := time.Now()
	if _, err := business.NewUpdate(uuid.Nil, "", time.Time{}, nil, now); err == nil {
		t.Fatalf("expected validation error")
	}
	past := now.Add(-time.Hour)
	if _, err := business.NewUpdate(uuid.New(), "sale", now, &past, now); !errors.Is(err, business.ErrUpdateExpiryInvalid) {
		t.Fatalf("expected ErrUpdateExpiryInvalid, got %v", err)
	}
}

func TestUpdateFailureCanBeRetried(t *testing.T) {
	now := time.Now()
	update, err := business.NewUpdate(uuid.New(), "sale", now, nil, now)
	if err != nil {
		t.Fatalf("NewUpdate: %v", err)
	}
	if err := update.StartProcessing(now); err != nil {
		t.Fatalf("StartProcessing: %v", err)
	}
	if err := update.Fail("writer unavailable", now); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	if update.FailureReason != "writer unavailable" {
		t.Fatalf("expected failure reason recorded, got %q", update.FailureReason)
	}
	if err := update.StartProcessing(now); err != nil {
		t.Fatalf("retry StartProcessing: %v", err)
	}
	if update.FailureReason != "" {
		t.Fatalf("expected failure reason cleared")
	}
}

func TestUpdateReleaseReturnsToPending(t *testing.T) {
	now := time.Now()
	update, err := business.NewUpdate(uuid.New(), "sale", now, nil, now)
	if err != nil {
		t.Fatalf("NewUpdate: %v", err)
	}
	if err := update.Release(now); !errors.Is(err, business.ErrUpdateTransition) {
		t.Fatalf("expected transition error releasing a pending update, got %v", err)
	}
	if err := update.StartProcessing(now); err != nil {
		t.Fatalf("StartProcessing: %v", err)
	}
	if err := update.Release(now); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if update.Status != business.UpdateStatusPending {
		t.Fatalf("expected pending update, got %s", update.Status)
	}
	if err := update.StartProcessing(now); err != nil {
		t.Fatalf("StartProcessing after release: %v", err)
	}
	if err := update.Complete(now); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if err := update.Release(now); !errors.Is(err, business.ErrUpdateImmutable) {
		t.Fatalf("expected ErrUpdateImmutable, got %v", err)
	}
}

func TestMemoryRepositoryEnforcesUniqueEmail(t *testing.T) {
	ctx := context.Background()
	repo := business.NewMemoryRepository()

	first, err := repo.Create(ctx, loadProfile(t))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	dup := loadProfile(t)
	dup.Email = "hola@casaverde.example"
	if _, err := repo.Create(ctx, dup); !errors.Is(err, business.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	found, err := repo.GetByEmail(ctx, "HOLA@casaverde.example")
	if err != nil || found.ID != first.ID {
		t.Fatalf("GetByEmail: %v %+v", err, found)
	}

	other, err := repo.Create(ctx, &business.Record{Name: "Other", City: "Austin", State: "TX", Email: "other@example.com"})
	if err != nil {
		t.Fatalf("create other: %v", err)
	}
	other.Email = first.Email
	if _, err := repo.Update(ctx, other); !errors.Is(err, business.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists on update, got %v", err)
	}

	if _, err := repo.GetByID(ctx, uuid.New()); !errors.Is(err, business.ErrBusinessNotFound) {
		t.Fatalf("expected ErrBusinessNotFound, got %v", err)
	}
}

func TestMemoryRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := business.NewMemoryRepository()
	created, err := repo.Create(ctx, loadProfile(t))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	created.Specialties[0] = "mutated"

	stored, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Specialties[0] != "Tex-Mex" {
		t.Fatalf("expected stored record to be isolated, got %v", stored.Specialties)
	}
}

func TestMemoryUpdateRepositoryListsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := business.NewMemoryUpdateRepository()
	businessID := uuid.New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		update, err := business.NewUpdate(businessID, "update", time.Time{}, nil, base.Add(time.Duration(i)*time.Hour))
		if err != nil {
			t.Fatalf("NewUpdate: %v", err)
		}
		if _, err := repo.Create(ctx, update); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := repo.Create(ctx, &business.Update{BusinessID: uuid.New(), Description: "other", CreatedAt: base}); err != nil {
		t.Fatalf("create other: %v", err)
	}

	list, err := repo.ListByBusiness(ctx, businessID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 updates, got %d", len(list))
	}
	if !list[0].CreatedAt.After(list[1].CreatedAt) || !list[1].CreatedAt.After(list[2].CreatedAt) {
		t.Fatalf("expected newest first")
	}
	if _, err := repo.GetByID(ctx, uuid.New()); !errors.Is(err, business.ErrUpdateNotFound) {
		t.Fatalf("expected ErrUpdateNotFound, got %v", err)
	}
}
