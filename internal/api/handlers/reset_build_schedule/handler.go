package reset_build_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-WorkloadService/internal/api/handlers"
	"github.com/m04kA/SMC-WorkloadService/internal/api/middleware"
	"github.com/m04kA/SMC-WorkloadService/internal/service/buildschedule"
)

const (
	msgInvalidOpportunityID = "некорректный ID заявки"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "заявка еще не синхронизирована"
)

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

// Handle DELETE /api/v1/opportunities/{opportunityId}/build-schedule
// Сбрасывает параметры сборки к значениям по умолчанию и возвращает пересчитанный результат
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	opportunityID, err := strconv.ParseInt(mux.Vars(r)["opportunityId"], 10, 64)
	if err != nil || opportunityID <= 0 {
		h.logger.Warn("DELETE /opportunities/{id}/build-schedule - Invalid opportunity ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOpportunityID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /opportunities/{id}/build-schedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	schedule, err := h.service.Reset(r.Context(), opportunityID, userID)
	if err != nil {
		switch {
		case errors.Is(err, buildschedule.ErrOpportunityNotFound):
			h.logger.Warn("DELETE /opportunities/{id}/build-schedule - Not found: opportunity_id=%d", opportunityID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /opportunities/{id}/build-schedule - Failed to reset: opportunity_id=%d, user_id=%d, error=%v",
				opportunityID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /opportunities/{id}/build-schedule - Reset: opportunity_id=%d, user_id=%d, start_build=%s",
		opportunityID, userID, schedule.StartBuildDate)
	handlers.RespondJSON(w, http.StatusOK, schedule)
}
