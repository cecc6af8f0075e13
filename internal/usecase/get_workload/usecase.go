package get_workload

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-WorkloadService/internal/domain"
	"github.com/m04kA/SMC-WorkloadService/internal/service/opportunities"
)

// UseCase use case светофора загрузки склада
type UseCase struct {
	opportunities OpportunityService
	metrics       Metrics
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(opportunities OpportunityService, metrics Metrics, logger Logger) *UseCase {
	return &UseCase{
		opportunities: opportunities,
		metrics:       metrics,
		logger:        logger,
	}
}

// Execute считает вес предварительных, зарезервированных и подтвержденных заявок окна
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetWorkload: days=%d, owner=%v", req.Days, req.OwnerName)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetWorkload: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем заявки трех групп статусов
	upcoming, err := uc.opportunities.ListUpcoming(ctx, opportunities.Query{
		Groups:    domain.UpcomingStatusGroups,
		Days:      req.Days,
		OwnerName: req.OwnerName,
	})
	if err != nil {
		if errors.Is(err, opportunities.ErrCRMUnavailable) {
			uc.logger.Error("GetWorkload: CRM unavailable: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrCRMUnavailable, err)
		}
		uc.logger.Error("GetWorkload: failed to list opportunities: %v", err)
		return nil, fmt.Errorf("%w: failed to list opportunities: %v", ErrInternal, err)
	}

	// 3. Считаем вес по группам
	summary := domain.WorkloadSummary{
		Days:                   req.Days,
		From:                   upcoming.Now,
		Until:                  upcoming.Until,
		ConfirmedOpportunities: []*domain.Opportunity{},
	}

	for _, g := range upcoming.Groups {
		weight := totalWeight(g.Opportunities)
		uc.metrics.SetWorkloadWeight(g.Group.Name, weight)

		switch g.Group {
		case domain.StatusGroupProvisional:
			summary.Provisional = weight
		case domain.StatusGroupReserved:
			summary.Reserved = weight
		case domain.StatusGroupConfirmed:
			summary.Confirmed = weight
			summary.ConfirmedOpportunities = g.Opportunities
		}
	}

	// 4. Итог и цвет светофора
	summary.Total = domain.RoundWeight(summary.Provisional + summary.Reserved + summary.Confirmed)
	summary.Colour = domain.ColourForWeight(summary.Total)

	uc.logger.Info("GetWorkload: total=%.2f kg (%s), confirmed=%d opportunities",
		summary.Total, summary.Colour, len(summary.ConfirmedOpportunities))
	return &Response{Summary: summary}, nil
}

func totalWeight(opps []*domain.Opportunity) float64 {
	total := 0.0
	for _, o := range opps {
		total += o.WeightTotal
	}
	return domain.RoundWeight(total)
}
