package calculate_build_schedule

import (
	"net/http"

	"github.com/m04kA/SMC-WorkloadService/internal/api/handlers"
	"github.com/m04kA/SMC-WorkloadService/internal/service/buildschedule/models"
)

const msgInvalidRequestBody = "некорректное тело запроса"

type Handler struct {
	service BuildScheduleService
	logger  Logger
}

func NewHandler(service BuildScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/build-schedule/calculate
// Ошибки входных данных возвращаются в теле ответа с нулевыми значениями и статусом 200
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CalculateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /build-schedule/calculate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result := h.service.Calculate(r.Context(), &req)

	h.logger.Info("POST /build-schedule/calculate - Calculated: items=%d, working_days=%.1f, errors=%d",
		len(req.Items), result.WorkingDays, len(result.Errors))
	handlers.RespondJSON(w, http.StatusOK, result)
}
