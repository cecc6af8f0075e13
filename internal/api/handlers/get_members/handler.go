package get_members

import (
	"net/http"

	"github.com/m04kA/SMC-WorkloadService/internal/api/handlers"
)

const (
	userFilterMode    = "user"
	msgCRMUnavailable = "Current RMS недоступен"
)

type Handler struct {
	members MemberLister
	logger  Logger
}

func NewHandler(members MemberLister, logger Logger) *Handler {
	return &Handler{
		members: members,
		logger:  logger,
	}
}

// Handle GET /api/v1/members
// Список владельцев для фильтра ?owner= у /workload
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	members, err := h.members.GetMembers(r.Context(), userFilterMode)
	if err != nil {
		h.logger.Error("GET /members - Failed to get members: %v", err)
		handlers.RespondBadGateway(w, msgCRMUnavailable)
		return
	}

	response := FromMembers(members)

	h.logger.Info("GET /members - Members retrieved: count=%d", len(response))
	handlers.RespondJSON(w, http.StatusOK, response)
}
