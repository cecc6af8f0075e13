package worker

import (
	"context"
	"time"

	"github.com/lthibault/jitterbug/v2"

	"github.com/m04kA/SMC-WorkloadService/internal/usecase/sync_workshop"
)

// SchedulerOptions настройки периодической синхронизации
type SchedulerOptions struct {
	Interval   time.Duration
	Jitter     time.Duration // стандартное отклонение интервала
	Days       int
	RunOnStart bool
}

// Scheduler периодически запускает полную синхронизацию цеха
type Scheduler struct {
	syncer Syncer
	opts   SchedulerOptions
	logger Logger
	done   chan struct{}
}

// NewScheduler создает планировщик синхронизации
func NewScheduler(syncer Syncer, opts SchedulerOptions, logger Logger) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = time.Hour
	}
	return &Scheduler{
		syncer: syncer,
		opts:   opts,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Run блокируется до отмены ctx
func (s *Scheduler) Run(ctx context.Context) {
	defer close(s.done)

	ticker := jitterbug.New(s.opts.Interval, &jitterbug.Norm{Stdev: s.opts.Jitter})
	defer ticker.Stop()

	s.logger.Info("Scheduler: started, interval=%s, jitter=%s, days=%d", s.opts.Interval, s.opts.Jitter, s.opts.Days)

	if s.opts.RunOnStart {
		s.runOnce(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler: stopped")
			return
		case <-ticker.C:
		}

		s.runOnce(ctx)
	}
}

// Done закрывается после выхода из Run
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

func (s *Scheduler) runOnce(ctx context.Context) {
	resp, err := s.syncer.Execute(ctx, &sync_workshop.Request{
		Days:       s.opts.Days,
		Trigger:    sync_workshop.TriggerSchedule,
		PruneStale: true,
	})
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("Scheduler: sync failed: %v", err)
		}
		return
	}

	changed := 0
	for _, o := range resp.Opportunities {
		if o.Changes.HasChanges() {
			changed++
		}
	}
	s.logger.Info("Scheduler: synced %d opportunities, %d changed", len(resp.Opportunities), changed)
}
