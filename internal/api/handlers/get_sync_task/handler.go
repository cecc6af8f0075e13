package get_sync_task

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-WorkloadService/internal/api/handlers"
	"github.com/m04kA/SMC-WorkloadService/internal/worker"
)

const (
	msgInvalidTaskID = "некорректный ID задачи"
	msgNotFound      = "задача не найдена или ее результат устарел"
)

type Handler struct {
	tasks  TaskGetter
	logger Logger
}

func NewHandler(tasks TaskGetter, logger Logger) *Handler {
	return &Handler{
		tasks:  tasks,
		logger: logger,
	}
}

// Handle GET /api/v1/workshop-workload/tasks/{taskId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskId"]
	if _, err := uuid.Parse(taskID); err != nil {
		h.logger.Warn("GET /workshop-workload/tasks/{id} - Invalid task ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTaskID)
		return
	}

	task, err := h.tasks.Get(taskID)
	if err != nil {
		if errors.Is(err, worker.ErrTaskNotFound) {
			h.logger.Warn("GET /workshop-workload/tasks/{id} - Task not found: task_id=%s", taskID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /workshop-workload/tasks/{id} - Failed to get task: task_id=%s, error=%v", taskID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /workshop-workload/tasks/{id} - Task status: task_id=%s, status=%s, done=%d/%d",
		taskID, task.Status, task.Done, task.Total)
	handlers.RespondJSON(w, http.StatusOK, FromTask(task))
}
