package get_workshop_workload

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-WorkloadService/internal/api/handlers"
	syncWorkshop "github.com/m04kA/SMC-WorkloadService/internal/usecase/sync_workshop"
)

const (
	msgInvalidDays    = "некорректный параметр days"
	msgInvalidRequest = "некорректные параметры запроса"
	msgCRMUnavailable = "Current RMS недоступен"
)

type Handler struct {
	useCase     SyncWorkshopUseCase
	defaultDays int
	logger      Logger
}

func NewHandler(useCase SyncWorkshopUseCase, defaultDays int, logger Logger) *Handler {
	return &Handler{
		useCase:     useCase,
		defaultDays: defaultDays,
		logger:      logger,
	}
}

// Handle GET /api/v1/workshop-workload?days=91
// Синхронизация выполняется в рамках запроса
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	days, err := handlers.QueryInt(r, "days", h.defaultDays)
	if err != nil {
		h.logger.Warn("GET /workshop-workload - Invalid days: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDays)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &syncWorkshop.Request{
		Days:    days,
		Trigger: syncWorkshop.TriggerHTTP,
	})
	if err != nil {
		switch {
		case errors.Is(err, syncWorkshop.ErrInvalidInput):
			h.logger.Warn("GET /workshop-workload - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, syncWorkshop.ErrCRMUnavailable):
			h.logger.Error("GET /workshop-workload - CRM unavailable: %v", err)
			handlers.RespondBadGateway(w, msgCRMUnavailable)

		default:
			h.logger.Error("GET /workshop-workload - Failed to sync: days=%d, error=%v", days, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /workshop-workload - Synced %d opportunities: days=%d", len(result.Opportunities), days)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
