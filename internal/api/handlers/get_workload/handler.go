package get_workload

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-WorkloadService/internal/api/handlers"
	getWorkload "github.com/m04kA/SMC-WorkloadService/internal/usecase/get_workload"
)

const (
	msgInvalidDays    = "некорректный параметр days"
	msgInvalidRequest = "некорректные параметры запроса"
	msgCRMUnavailable = "Current RMS недоступен"
)

type Handler struct {
	useCase     GetWorkloadUseCase
	defaultDays int
	logger      Logger
}

func NewHandler(useCase GetWorkloadUseCase, defaultDays int, logger Logger) *Handler {
	return &Handler{
		useCase:     useCase,
		defaultDays: defaultDays,
		logger:      logger,
	}
}

// Handle GET /api/v1/workload?days=14&owner=Jane
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	days, err := handlers.QueryInt(r, "days", h.defaultDays)
	if err != nil {
		h.logger.Warn("GET /workload - Invalid days: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDays)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getWorkload.Request{
		Days:      days,
		OwnerName: handlers.QueryString(r, "owner"),
	})
	if err != nil {
		switch {
		case errors.Is(err, getWorkload.ErrInvalidInput):
			h.logger.Warn("GET /workload - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, getWorkload.ErrCRMUnavailable):
			h.logger.Error("GET /workload - CRM unavailable: %v", err)
			handlers.RespondBadGateway(w, msgCRMUnavailable)

		default:
			h.logger.Error("GET /workload - Failed to get workload: days=%d, error=%v", days, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /workload - Workload calculated: days=%d, total=%.2f, colour=%s",
		days, result.Summary.Total, result.Summary.Colour)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
