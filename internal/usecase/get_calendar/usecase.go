package get_calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-WorkloadService/internal/domain"
	"github.com/m04kA/SMC-WorkloadService/internal/service/opportunities"
	"github.com/m04kA/SMC-WorkloadService/pkg/types"
)

// UseCase use case календаря выездов и возвратов
type UseCase struct {
	opportunities OpportunityService
	location      *time.Location
	logger        Logger
}

// NewUseCase создает новый экземпляр use case. Даты раскладываются в часовом поясе loc.
func NewUseCase(opportunities OpportunityService, loc *time.Location, logger Logger) *UseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &UseCase{
		opportunities: opportunities,
		location:      loc,
		logger:        logger,
	}
}

// Execute раскладывает заявки по дням: метка выезда в день выезда, метка возврата в день возврата
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetCalendar: days=%d, owner=%v", req.Days, req.OwnerName)

	// 1. Валидация входных данных
	if req.Days <= 0 || req.Days > domain.MaxHorizonDays {
		err := fmt.Errorf("%w: days must be in 1..%d", ErrInvalidInput, domain.MaxHorizonDays)
		uc.logger.Warn("GetCalendar: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем заявки окна
	upcoming, err := uc.opportunities.ListUpcoming(ctx, opportunities.Query{
		Groups:    domain.UpcomingStatusGroups,
		Days:      req.Days,
		OwnerName: req.OwnerName,
	})
	if err != nil {
		if errors.Is(err, opportunities.ErrCRMUnavailable) {
			return nil, fmt.Errorf("%w: %v", ErrCRMUnavailable, err)
		}
		uc.logger.Error("GetCalendar: failed to list opportunities: %v", err)
		return nil, fmt.Errorf("%w: failed to list opportunities: %v", ErrInternal, err)
	}

	// 3. Строим пустую сетку дней, начиная с сегодняшнего
	today := types.DateOf(upcoming.Now.In(uc.location))
	days := make([]domain.CalendarDay, req.Days)
	index := make(map[string]int, req.Days)
	for i := range days {
		d := today.AddDays(i)
		days[i] = domain.CalendarDay{Date: d, Markers: []domain.CalendarMarker{}}
		index[d.String()] = i
	}

	// 4. Раскладываем метки
	placed := 0
	for _, o := range upcoming.All() {
		dateOut := o.DateOut(uc.location)
		dateBack := o.DateBack(uc.location)

		if !o.IsDispatched() {
			if i, ok := index[dateOut.String()]; ok && !dateOut.IsZero() {
				days[i].Markers = append(days[i].Markers, marker(domain.MarkerGoingOut, o, o.TimeOut(uc.location)))
				placed++
			}
		}

		// возврат в тот же день не отмечается отдельно
		if dateBack.IsZero() || dateBack.Equal(dateOut) {
			continue
		}
		if i, ok := index[dateBack.String()]; ok {
			var backAt types.TimeString
			if t := o.ComingBackAt(); t != nil {
				backAt = types.NewTimeString(t.In(uc.location))
			}
			days[i].Markers = append(days[i].Markers, marker(domain.MarkerComingBack, o, backAt))
			placed++
		}
	}

	uc.logger.Info("GetCalendar: placed %d markers over %d days", placed, req.Days)
	return &Response{Days: days}, nil
}

func marker(kind domain.MarkerKind, o *domain.Opportunity, at types.TimeString) domain.CalendarMarker {
	return domain.CalendarMarker{
		Kind:          kind,
		OpportunityID: o.ID,
		Name:          o.Subject,
		Time:          at,
		HireType:      o.HireType(),
	}
}
