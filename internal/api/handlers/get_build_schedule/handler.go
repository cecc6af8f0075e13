package get_build_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-WorkloadService/internal/api/handlers"
	"github.com/m04kA/SMC-WorkloadService/internal/service/buildschedule"
)

const (
	msgInvalidOpportunityID = "некорректный ID заявки"
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

// Handle GET /api/v1/opportunities/{opportunityId}/build-schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	opportunityID, err := strconv.ParseInt(mux.Vars(r)["opportunityId"], 10, 64)
	if err != nil || opportunityID <= 0 {
		h.logger.Warn("GET /opportunities/{id}/build-schedule - Invalid opportunity ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOpportunityID)
		return
	}

	schedule, err := h.service.Get(r.Context(), opportunityID)
	if err != nil {
		switch {
		case errors.Is(err, buildschedule.ErrOpportunityNotFound):
			h.logger.Warn("GET /opportunities/{id}/build-schedule - Not found: opportunity_id=%d", opportunityID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /opportunities/{id}/build-schedule - Failed to get: opportunity_id=%d, error=%v",
				opportunityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /opportunities/{id}/build-schedule - Retrieved: opportunity_id=%d", opportunityID)
	handlers.RespondJSON(w, http.StatusOK, schedule)
}
