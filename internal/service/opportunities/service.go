package opportunities

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-WorkloadService/internal/domain"
)

// Query параметры выборки предстоящих заявок
type Query struct {
	Groups    []domain.StatusGroup
	Days      int     // окно [now, now+days] по starts_at
	OwnerName *string // nil = все владельцы
}

// Upcoming заявки окна, разложенные по группам статусов в порядке Query.Groups
type Upcoming struct {
	Now    time.Time
	Until  time.Time
	Groups []GroupOpportunities
}

// GroupOpportunities заявки одной группы, отсортированные по starts_at
type GroupOpportunities struct {
	Group         domain.StatusGroup
	Opportunities []*domain.Opportunity
}

// All возвращает заявки всех групп одним списком, отсортированным по starts_at
func (u *Upcoming) All() []*domain.Opportunity {
	all := make([]*domain.Opportunity, 0)
	for _, g := range u.Groups {
		all = append(all, g.Opportunities...)
	}
	sortByStart(all)
	return all
}

// Service получает предстоящие заявки из Current RMS
type Service struct {
	crm          CRMClient
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса заявок
func NewService(crm CRMClient, logger Logger) *Service {
	return &Service{
		crm:          crm,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// ListUpcoming параллельно получает заявки каждой группы и оставляет те, что начинаются в окне
func (s *Service) ListUpcoming(ctx context.Context, q Query) (*Upcoming, error) {
	if q.Days <= 0 || q.Days > domain.MaxHorizonDays {
		return nil, fmt.Errorf("%w: days must be in 1..%d", ErrInvalidInput, domain.MaxHorizonDays)
	}

	now := s.timeProvider.Now().UTC()
	result := &Upcoming{
		Now:    now,
		Until:  now.AddDate(0, 0, q.Days),
		Groups: make([]GroupOpportunities, len(q.Groups)),
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, group := range q.Groups {
		i, group := i, group
		g.Go(func() error {
			opps, err := s.crm.GetOpportunities(gctx, domain.OpportunityFilter{
				Group:     group,
				OwnerName: q.OwnerName,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", group.Name, err)
			}

			within := make([]*domain.Opportunity, 0, len(opps))
			for _, o := range opps {
				if o.StartsWithin(now, q.Days) {
					within = append(within, o)
				}
			}
			sortByStart(within)

			result.Groups[i] = GroupOpportunities{Group: group, Opportunities: within}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("ListUpcoming: failed to fetch opportunities: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrCRMUnavailable, err)
	}

	return result, nil
}

func sortByStart(opps []*domain.Opportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].StartsAt.Before(*opps[j].StartsAt)
	})
}
