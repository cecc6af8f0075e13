package get_calendar

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-WorkloadService/internal/api/handlers"
	getCalendar "github.com/m04kA/SMC-WorkloadService/internal/usecase/get_calendar"
)

const (
	msgInvalidDays    = "некорректный параметр days"
	msgInvalidRequest = "некорректные параметры запроса"
	msgCRMUnavailable = "Current RMS недоступен"
)

type Handler struct {
	useCase     GetCalendarUseCase
	defaultDays int
	logger      Logger
}

func NewHandler(useCase GetCalendarUseCase, defaultDays int, logger Logger) *Handler {
	return &Handler{
		useCase:     useCase,
		defaultDays: defaultDays,
		logger:      logger,
	}
}

// Handle GET /api/v1/calendar?days=28&owner=Jane
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	days, err := handlers.QueryInt(r, "days", h.defaultDays)
	if err != nil {
		h.logger.Warn("GET /calendar - Invalid days: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDays)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getCalendar.Request{
		Days:      days,
		OwnerName: handlers.QueryString(r, "owner"),
	})
	if err != nil {
		switch {
		case errors.Is(err, getCalendar.ErrInvalidInput):
			h.logger.Warn("GET /calendar - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, getCalendar.ErrCRMUnavailable):
			h.logger.Error("GET /calendar - CRM unavailable: %v", err)
			handlers.RespondBadGateway(w, msgCRMUnavailable)

		default:
			h.logger.Error("GET /calendar - Failed to build calendar: days=%d, error=%v", days, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /calendar - Calendar built: days=%d", days)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
