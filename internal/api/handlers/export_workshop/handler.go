package export_workshop

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-WorkloadService/internal/api/handlers"
	exportWorkshop "github.com/m04kA/SMC-WorkloadService/internal/usecase/export_workshop"
)

const (
	msgInvalidDays    = "некорректный параметр days"
	msgInvalidRequest = "некорректные параметры запроса"
)

type Handler struct {
	useCase     ExportWorkshopUseCase
	defaultDays int
	logger      Logger
}

func NewHandler(useCase ExportWorkshopUseCase, defaultDays int, logger Logger) *Handler {
	return &Handler{
		useCase:     useCase,
		defaultDays: defaultDays,
		logger:      logger,
	}
}

// Handle GET /api/v1/workshop-workload/export.xlsx?days=91
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	days, err := handlers.QueryInt(r, "days", h.defaultDays)
	if err != nil {
		h.logger.Warn("GET /workshop-workload/export.xlsx - Invalid days: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDays)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &exportWorkshop.Request{Days: days})
	if err != nil {
		switch {
		case errors.Is(err, exportWorkshop.ErrInvalidInput):
			h.logger.Warn("GET /workshop-workload/export.xlsx - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /workshop-workload/export.xlsx - Failed to export: days=%d, error=%v", days, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /workshop-workload/export.xlsx - Exported %d opportunities: days=%d", result.Rows, days)
	handlers.RespondFile(w, exportWorkshop.ContentType, result.FileName, result.Content)
}
