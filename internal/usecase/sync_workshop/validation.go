package sync_workshop

import (
	"fmt"

	"github.com/m04kA/SMC-WorkloadService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Days <= 0 || req.Days > domain.MaxHorizonDays {
		return fmt.Errorf("%w: days must be in 1..%d", ErrInvalidInput, domain.MaxHorizonDays)
	}

	switch req.Trigger {
	case TriggerHTTP, TriggerTask, TriggerSchedule:
	default:
		return fmt.Errorf("%w: unknown trigger %q", ErrInvalidInput, req.Trigger)
	}

	return nil
}
