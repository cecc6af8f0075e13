package update_build_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-WorkloadService/internal/api/handlers"
	"github.com/m04kA/SMC-WorkloadService/internal/api/middleware"
	"github.com/m04kA/SMC-WorkloadService/internal/service/buildschedule"
	"github.com/m04kA/SMC-WorkloadService/internal/service/buildschedule/models"
)

const (
	msgInvalidOpportunityID = "некорректный ID заявки"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgNothingToUpdate      = "не передано ни одного поля для обновления"
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

// Handle PUT /api/v1/opportunities/{opportunityId}/build-schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	opportunityID, err := strconv.ParseInt(mux.Vars(r)["opportunityId"], 10, 64)
	if err != nil || opportunityID <= 0 {
		h.logger.Warn("PUT /opportunities/{id}/build-schedule - Invalid opportunity ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOpportunityID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /opportunities/{id}/build-schedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /opportunities/{id}/build-schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.OpportunityID = opportunityID
	req.UserID = userID

	schedule, err := h.service.Update(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, buildschedule.ErrInvalidInput):
			h.logger.Warn("PUT /opportunities/{id}/build-schedule - Nothing to update: opportunity_id=%d", opportunityID)
			handlers.RespondBadRequest(w, msgNothingToUpdate)

		case errors.Is(err, buildschedule.ErrOpportunityNotFound):
			h.logger.Warn("PUT /opportunities/{id}/build-schedule - Not found: opportunity_id=%d", opportunityID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("PUT /opportunities/{id}/build-schedule - Failed to update: opportunity_id=%d, user_id=%d, error=%v",
				opportunityID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /opportunities/{id}/build-schedule - Updated: opportunity_id=%d, user_id=%d, start_build=%s",
		opportunityID, userID, schedule.StartBuildDate)
	handlers.RespondJSON(w, http.StatusOK, schedule)
}
