package worker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-WorkloadService/internal/usecase/sync_workshop"
)

// TaskStatus статус фоновой задачи
type TaskStatus string

const (
	TaskPending TaskStatus = "PENDING"
	TaskStarted TaskStatus = "STARTED"
	TaskSuccess TaskStatus = "SUCCESS"
	TaskFailure TaskStatus = "FAILURE"
)

// IsFinished возвращает true для завершенных задач
func (s TaskStatus) IsFinished() bool {
	return s == TaskSuccess || s == TaskFailure
}

// Task фоновая синхронизация, запущенная по запросу
type Task struct {
	ID         string
	Days       int
	Status     TaskStatus
	Done       int
	Total      int
	Result     *sync_workshop.Response
	Err        error
	CreatedAt  time.Time
	FinishedAt *time.Time
}

// Registry хранит задачи синхронизации и их результаты до истечения TTL
type Registry struct {
	syncer Syncer
	ttl    time.Duration
	logger Logger
	now    func() time.Time

	// ctx живет дольше HTTP запроса, отменяется при остановке сервиса
	ctx context.Context

	mu     sync.Mutex
	tasks  map[string]*Task
	closed bool
	wg     sync.WaitGroup
}

// NewRegistry создает реестр задач. ctx отменяет все выполняющиеся задачи.
func NewRegistry(ctx context.Context, syncer Syncer, ttl time.Duration, logger Logger) *Registry {
	return &Registry{
		syncer: syncer,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
		ctx:    ctx,
		tasks:  make(map[string]*Task),
	}
}

// Start запускает синхронизацию в фоне. Если такая же синхронизация уже выполняется,
// возвращается существующая задача.
func (r *Registry) Start(days int) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return Task{}, ErrShuttingDown
	}
	r.evictExpiredLocked()

	for _, t := range r.tasks {
		if t.Days == days && !t.Status.IsFinished() {
			r.logger.Info("Registry: task=%s for days=%d is already running", t.ID, days)
			return *t, nil
		}
	}

	task := &Task{
		ID:        uuid.NewString(),
		Days:      days,
		Status:    TaskPending,
		CreatedAt: r.now(),
	}
	r.tasks[task.ID] = task

	r.wg.Add(1)
	go r.run(task.ID, days)

	r.logger.Info("Registry: task=%s started, days=%d", task.ID, days)
	return *task, nil
}

// Get возвращает копию задачи
func (r *Registry) Get(id string) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictExpiredLocked()

	t, ok := r.tasks[id]
	if !ok {
		return Task{}, ErrTaskNotFound
	}
	return *t, nil
}

// Close запрещает новые задачи и ждет завершения запущенных
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Registry) run(id string, days int) {
	defer r.wg.Done()

	r.update(id, func(t *Task) { t.Status = TaskStarted })

	resp, err := r.syncer.Execute(r.ctx, &sync_workshop.Request{
		Days:    days,
		Trigger: sync_workshop.TriggerTask,
		Progress: func(done, total int) {
			r.update(id, func(t *Task) {
				// обновления из разных горутин могут прийти не по порядку
				if done > t.Done {
					t.Done = done
				}
				t.Total = total
			})
		},
	})

	finished := r.now()
	r.update(id, func(t *Task) {
		t.FinishedAt = &finished
		if err != nil {
			t.Status = TaskFailure
			t.Err = err
			return
		}
		t.Status = TaskSuccess
		t.Result = resp
	})

	if err != nil {
		r.logger.Error("Registry: task=%s failed: %v", id, err)
		return
	}
	r.logger.Info("Registry: task=%s finished, %d opportunities", id, len(resp.Opportunities))
}

func (r *Registry) update(id string, fn func(t *Task)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.tasks[id]; ok {
		fn(t)
	}
}

// evictExpiredLocked удаляет завершенные задачи старше TTL
func (r *Registry) evictExpiredLocked() {
	if r.ttl <= 0 {
		return
	}
	deadline := r.now().Add(-r.ttl)
	for id, t := range r.tasks {
		if t.FinishedAt != nil && t.FinishedAt.Before(deadline) {
			delete(r.tasks, id)
		}
	}
}
