package changes

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-WorkloadService/internal/calculator"
	"github.com/m04kA/SMC-WorkloadService/internal/domain"
	snapshotRepo "github.com/m04kA/SMC-WorkloadService/internal/infra/storage/snapshot"
)

// Типы изменений для метрик
const (
	KindNew       = "new"
	KindChanged   = "changed"
	KindUnchanged = "unchanged"
)

// Service сравнивает свежий снимок заявки с последним сохраненным
type Service struct {
	store   SnapshotStore
	metrics Metrics
	logger  Logger
}

// NewService создает новый экземпляр сервиса отслеживания изменений
func NewService(store SnapshotStore, metrics Metrics, logger Logger) *Service {
	return &Service{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// Track сравнивает current с предыдущим снимком и сохраняет current как новый предыдущий
func (s *Service) Track(ctx context.Context, current *domain.Snapshot) (domain.ChangeSet, error) {
	// 1. Получаем предыдущий снимок (его может не быть)
	previous, err := s.Previous(ctx, current.OpportunityID)
	if err != nil {
		return domain.ChangeSet{}, err
	}

	// 2. Считаем изменения
	changeSet := calculator.Diff(*current, previous)

	// 3. Сохраняем текущий снимок
	if err := s.store.Save(ctx, current); err != nil {
		s.logger.Error("Track: failed to save snapshot for opportunity=%d: %v", current.OpportunityID, err)
		return domain.ChangeSet{}, fmt.Errorf("%w: Track - save snapshot: %v", ErrInternal, err)
	}

	switch {
	case changeSet.IsNew:
		s.metrics.IncChanged(KindNew)
	case changeSet.HasChanges():
		s.metrics.IncChanged(KindChanged)
		s.logger.Info("Track: opportunity=%d changed: %d fields, %d items",
			current.OpportunityID, len(changeSet.Fields), len(changeSet.Items))
	default:
		s.metrics.IncChanged(KindUnchanged)
	}

	return changeSet, nil
}

// Previous возвращает последний сохраненный снимок или пустой снимок, если заявка новая
func (s *Service) Previous(ctx context.Context, opportunityID int64) (domain.Snapshot, error) {
	previous, err := s.store.Get(ctx, opportunityID)
	if errors.Is(err, snapshotRepo.ErrSnapshotNotFound) {
		return domain.Snapshot{}, nil
	}
	if err != nil {
		s.logger.Error("Previous: failed to get snapshot for opportunity=%d: %v", opportunityID, err)
		return domain.Snapshot{}, fmt.Errorf("%w: Previous - get snapshot: %v", ErrInternal, err)
	}
	return *previous, nil
}

// Prune удаляет снимки заявок, которых больше нет в окне синхронизации
func (s *Service) Prune(ctx context.Context, keepIDs []int64) (int64, error) {
	deleted, err := s.store.DeleteExcept(ctx, keepIDs)
	if err != nil {
		s.logger.Error("Prune: failed to delete stale snapshots: %v", err)
		return 0, fmt.Errorf("%w: Prune - delete snapshots: %v", ErrInternal, err)
	}

	if deleted > 0 {
		s.logger.Info("Prune: deleted %d stale snapshots", deleted)
	}
	return deleted, nil
}
