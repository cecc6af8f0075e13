package get_workload

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-WorkloadService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Days <= 0 || req.Days > domain.MaxHorizonDays {
		return fmt.Errorf("%w: days must be in 1..%d", ErrInvalidInput, domain.MaxHorizonDays)
	}

	if req.OwnerName != nil && strings.TrimSpace(*req.OwnerName) == "" {
		return fmt.Errorf("%w: owner must not be empty", ErrInvalidInput)
	}

	return nil
}
