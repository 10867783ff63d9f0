package scheduler

import (
	"context"
	"errors"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-aipages/pkg/interfaces"
	"github.com/google/uuid"
)

const defaultMaxAttempts = 3

var (
	ErrRunAtRequired   = errors.New("scheduler: run_at is required")
	ErrJobTypeRequired = errors.New("scheduler: job type is required")
)

// NewInMemory creates a process-local scheduler. Jobs are lost on restart,
// which SweepExpired on the lifecycle service compensates for.
func NewInMemory(opts ...Option) interfaces.Scheduler {
	mem := &memoryScheduler{
		now:         time.Now,
		newID:       uuid.NewString,
		entries:     make(map[string]*interfaces.Job),
		byKey:       make(map[string]string),
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(mem)
	}
	return mem
}

// Option customises the in-memory scheduler.
type Option func(*memoryScheduler)

// WithClock overrides the clock used to stamp jobs.
func WithClock(clock func() time.Time) Option {
	return func(s *memoryScheduler) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides job id generation.
func WithIDGenerator(generator func() string) Option {
	return func(s *memoryScheduler) {
		if generator != nil {
			s.newID = generator
		}
	}
}

// WithDefaultMaxAttempts applies when a spec leaves MaxAttempts unset.
func WithDefaultMaxAttempts(limit int) Option {
	return func(s *memoryScheduler) {
		if limit > 0 {
			s.maxAttempts = limit
		}
	}
}

type memoryScheduler struct {
	mu          sync.Mutex
	now         func() time.Time
	newID       func() string
	maxAttempts int
	entries     map[string]*interfaces.Job
	byKey       map[string]string
}

func (s *memoryScheduler) Enqueue(_ context.Context, spec interfaces.JobSpec) (*interfaces.Job, error) {
	if spec.RunAt.IsZero() {
		return nil, ErrRunAtRequired
	}
	if spec.Type == "" {
		return nil, ErrJobTypeRequired
	}
	if spec.MaxAttempts <= 0 {
		spec.MaxAttempts = s.maxAttempts
	}
	spec.Payload = maps.Clone(spec.Payload)

	s.mu.Lock()
	defer s.mu.Unlock()

	// A keyed job replaces whatever was pending under the same key.
	if spec.Key != "" {
		if previous, ok := s.byKey[spec.Key]; ok {
			delete(s.entries, previous)
		}
	}

	now := s.now()
	job := &interfaces.Job{
		JobSpec:   spec,
		ID:        s.newID(),
		Status:    interfaces.JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.entries[job.ID] = job
	if spec.Key != "" {
		s.byKey[spec.Key] = job.ID
	}
	return copyJob(job), nil
}

func (s *memoryScheduler) Cancel(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.entries[id]
	if !ok {
		return interfaces.ErrJobNotFound
	}
	s.finish(job, interfaces.JobStatusCanceled)
	return nil
}

func (s *memoryScheduler) CancelByKey(_ context.Context, key string) error {
	if key == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	job := s.lookupKey(key)
	if job == nil {
		return interfaces.ErrJobNotFound
	}
	s.finish(job, interfaces.JobStatusCanceled)
	return nil
}

func (s *memoryScheduler) Get(_ context.Context, id string) (*interfaces.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.entries[id]
	if !ok {
		return nil, interfaces.ErrJobNotFound
	}
	return copyJob(job), nil
}

func (s *memoryScheduler) GetByKey(_ context.Context, key string) (*interfaces.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job := s.lookupKey(key)
	if job == nil {
		return nil, interfaces.ErrJobNotFound
	}
	return copyJob(job), nil
}

// ListDue returns pending jobs with RunAt <= until, oldest RunAt first.
func (s *memoryScheduler) ListDue(_ context.Context, until time.Time, limit int) ([]*interfaces.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	due := make([]*interfaces.Job, 0)
	for _, job := range s.entries {
		if job.Status == interfaces.JobStatusPending && !job.RunAt.After(until) {
			due = append(due, copyJob(job))
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		if due[i].RunAt.Equal(due[j].RunAt) {
			return due[i].CreatedAt.Before(due[j].CreatedAt)
		}
		return due[i].RunAt.Before(due[j].RunAt)
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (s *memoryScheduler) MarkDone(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.entries[id]
	if !ok {
		return interfaces.ErrJobNotFound
	}
	s.finish(job, interfaces.JobStatusCompleted)
	return nil
}

// MarkFailed records the failure and leaves the job pending until it runs
// out of attempts.
func (s *memoryScheduler) MarkFailed(_ context.Context, id string, failure error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.entries[id]
	if !ok {
		return interfaces.ErrJobNotFound
	}
	job.Attempt++
	job.LastError = ""
	if failure != nil {
		job.LastError = failure.Error()
	}
	job.UpdatedAt = s.now()
	if job.Attempt >= job.MaxAttempts {
		s.finish(job, interfaces.JobStatusFailed)
	}
	return nil
}

func (s *memoryScheduler) lookupKey(key string) *interfaces.Job {
	id, ok := s.byKey[key]
	if !ok {
		return nil
	}
	return s.entries[id]
}

// finish moves a job into a terminal status and frees its key.
func (s *memoryScheduler) finish(job *interfaces.Job, status interfaces.JobStatus) {
	job.Status = status
	job.UpdatedAt = s.now()
	if job.Key != "" && s.byKey[job.Key] == job.ID {
		delete(s.byKey, job.Key)
	}
}

func copyJob(job *interfaces.Job) *interfaces.Job {
	if job == nil {
		return nil
	}
	out := *job
	out.Payload = maps.Clone(job.Payload)
	return &out
}
