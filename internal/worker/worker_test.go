package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WorkloadService/internal/usecase/sync_workshop"
)

type fakeSyncer struct {
	mu       sync.Mutex
	requests []sync_workshop.Request
	release  chan struct{} // nil = не блокироваться
	err      error
}

func (f *fakeSyncer) Execute(ctx context.Context, req *sync_workshop.Request) (*sync_workshop.Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, *req)
	f.mu.Unlock()

	if req.Progress != nil {
		req.Progress(0, 2)
		req.Progress(1, 2)
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if req.Progress != nil {
		req.Progress(2, 2)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &sync_workshop.Response{Days: req.Days, Opportunities: make([]sync_workshop.Opportunity, 2)}, nil
}

func (f *fakeSyncer) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestRegistry_TaskLifecycle(t *testing.T) {
	syncer := &fakeSyncer{release: make(chan struct{})}
	r := NewRegistry(context.Background(), syncer, 15*time.Minute, nopLogger{})
	defer r.Close()

	task, err := r.Start(91)
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, TaskPending, task.Status)

	require.Eventually(t, func() bool {
		got, err := r.Get(task.ID)
		return err == nil && got.Status == TaskStarted && got.Done == 1
	}, time.Second, 5*time.Millisecond)

	// та же синхронизация не запускается повторно
	again, err := r.Start(91)
	require.NoError(t, err)
	assert.Equal(t, task.ID, again.ID)

	close(syncer.release)

	require.Eventually(t, func() bool {
		got, _ := r.Get(task.ID)
		return got.Status == TaskSuccess
	}, time.Second, 5*time.Millisecond)

	got, err := r.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Done)
	assert.Equal(t, 2, got.Total)
	require.NotNil(t, got.Result)
	assert.Len(t, got.Result.Opportunities, 2)
	assert.NotNil(t, got.FinishedAt)
	assert.NoError(t, got.Err)

	assert.Equal(t, 1, syncer.calls())
	assert.Equal(t, sync_workshop.TriggerTask, syncer.requests[0].Trigger)
	assert.False(t, syncer.requests[0].PruneStale)
}

func TestRegistry_Failure(t *testing.T) {
	syncer := &fakeSyncer{err: sync_workshop.ErrCRMUnavailable}
	r := NewRegistry(context.Background(), syncer, time.Minute, nopLogger{})

	task, err := r.Start(14)
	require.NoError(t, err)
	r.Close()

	got, err := r.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, TaskFailure, got.Status)
	assert.ErrorIs(t, got.Err, sync_workshop.ErrCRMUnavailable)
	assert.Nil(t, got.Result)

	_, err = r.Start(14)
	assert.ErrorIs(t, err, ErrShuttingDown)
}

func TestRegistry_ExpiresFinishedTasks(t *testing.T) {
	r := NewRegistry(context.Background(), &fakeSyncer{}, 15*time.Minute, nopLogger{})

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	r.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	task, err := r.Start(91)
	require.NoError(t, err)
	r.Close()

	_, err = r.Get(task.ID)
	require.NoError(t, err)

	mu.Lock()
	now = now.Add(16 * time.Minute)
	mu.Unlock()

	_, err = r.Get(task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = r.Get("unknown")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestRegistry_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	syncer := &fakeSyncer{release: make(chan struct{})}
	r := NewRegistry(ctx, syncer, time.Minute, nopLogger{})

	task, err := r.Start(91)
	require.NoError(t, err)

	cancel()
	r.Close()

	got, err := r.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, TaskFailure, got.Status)
	assert.True(t, errors.Is(got.Err, context.Canceled))
}

func TestScheduler_Run(t *testing.T) {
	syncer := &fakeSyncer{}
	s := NewScheduler(syncer, SchedulerOptions{
		Interval:   10 * time.Millisecond,
		Days:       91,
		RunOnStart: true,
	}, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)

	require.Eventually(t, func() bool { return syncer.calls() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}

	syncer.mu.Lock()
	defer syncer.mu.Unlock()
	for _, req := range syncer.requests {
		assert.Equal(t, 91, req.Days)
		assert.Equal(t, sync_workshop.TriggerSchedule, req.Trigger)
		assert.True(t, req.PruneStale)
		assert.Nil(t, req.Progress)
	}
}
