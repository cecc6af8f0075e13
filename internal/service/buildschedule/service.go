package buildschedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-WorkloadService/internal/calculator"
	"github.com/m04kA/SMC-WorkloadService/internal/domain"
	overrideRepo "github.com/m04kA/SMC-WorkloadService/internal/infra/storage/override"
	snapshotRepo "github.com/m04kA/SMC-WorkloadService/internal/infra/storage/snapshot"
	"github.com/m04kA/SMC-WorkloadService/internal/service/buildschedule/models"
	"github.com/m04kA/SMC-WorkloadService/pkg/types"
)

// Service сервис параметров сборки заявок
type Service struct {
	overrides OverrideRepository
	snapshots SnapshotRepository
	txManager TxManager
	metrics   Metrics
	logger    Logger
}

// NewService создает новый экземпляр сервиса параметров сборки
func NewService(
	overrides OverrideRepository,
	snapshots SnapshotRepository,
	txManager TxManager,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		overrides: overrides,
		snapshots: snapshots,
		txManager: txManager,
		metrics:   metrics,
		logger:    logger,
	}
}

// Get получает параметры сборки и последние рассчитанные значения заявки
func (s *Service) Get(ctx context.Context, opportunityID int64) (*models.BuildScheduleResponse, error) {
	// 1. Получаем снимок (его может не быть, если заявка еще не синхронизировалась)
	snapshot, err := s.snapshots.Get(ctx, opportunityID)
	if err != nil && !errors.Is(err, snapshotRepo.ErrSnapshotNotFound) {
		s.logger.Error("Get: failed to get snapshot for opportunity=%d: %v", opportunityID, err)
		return nil, fmt.Errorf("%w: Get - snapshot: %v", ErrInternal, err)
	}

	// 2. Получаем сохраненные параметры
	override, err := s.overrides.Get(ctx, opportunityID)
	if errors.Is(err, overrideRepo.ErrOverrideNotFound) {
		if snapshot == nil {
			s.logger.Warn("Get: opportunity=%d is unknown", opportunityID)
			return nil, ErrOpportunityNotFound
		}
		override = OverrideFromSnapshot(snapshot)
	} else if err != nil {
		s.logger.Error("Get: failed to get override for opportunity=%d: %v", opportunityID, err)
		return nil, fmt.Errorf("%w: Get - override: %v", ErrInternal, err)
	}

	return models.FromDomain(snapshot, override), nil
}

// Update изменяет параметры сборки, пересчитывает рабочие дни и дату начала и сохраняет все вместе.
// Выполняется в serializable транзакции: при конкурентных изменениях побеждает последнее.
func (s *Service) Update(ctx context.Context, req *models.UpdateRequest) (*models.BuildScheduleResponse, error) {
	s.logger.Info("Update: opportunity=%d by user=%d", req.OpportunityID, req.UserID)

	if req.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	var (
		resp     *models.BuildScheduleResponse
		warnings []string
	)

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		warnings = nil

		// 1. Снимок нужен для позиций и даты выезда
		snapshot, err := s.snapshots.Get(ctx, req.OpportunityID)
		if errors.Is(err, snapshotRepo.ErrSnapshotNotFound) {
			return ErrOpportunityNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: Update - snapshot: %v", ErrInternal, err)
		}

		// 2. Текущие параметры или значения по умолчанию
		old, err := s.overrides.Get(ctx, req.OpportunityID)
		if errors.Is(err, overrideRepo.ErrOverrideNotFound) {
			old = nil
		} else if err != nil {
			return fmt.Errorf("%w: Update - override: %v", ErrInternal, err)
		}

		updated := OverrideFromSnapshot(snapshot)
		if old != nil {
			copied := *old
			updated = &copied
		}

		// 3. Применяем изменения и пересчитываем
		req.ApplyTo(updated)
		errs := s.recalculate(updated, snapshot)
		warnings = models.ErrorStrings(errs)

		// 4. Сохраняем параметры с историей
		updated.TrackChanges(old)
		saved, err := s.overrides.Upsert(ctx, updated)
		if err != nil {
			return fmt.Errorf("%w: Update - upsert override: %v", ErrInternal, err)
		}

		// 5. Снимок отражает новые значения, чтобы следующая синхронизация не считала их изменением
		applyToSnapshot(snapshot, saved)
		if err := s.snapshots.Save(ctx, snapshot); err != nil {
			return fmt.Errorf("%w: Update - save snapshot: %v", ErrInternal, err)
		}

		resp = models.FromDomain(snapshot, saved)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrOpportunityNotFound) {
			s.logger.Warn("Update: opportunity=%d is not synced yet", req.OpportunityID)
			return nil, err
		}
		s.logger.Error("Update: opportunity=%d: %v", req.OpportunityID, err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: Update - transaction: %v", ErrInternal, err)
	}

	for _, w := range warnings {
		s.logger.Warn("Update: opportunity=%d: %s", req.OpportunityID, w)
	}
	resp.Warnings = warnings

	s.logger.Info("Update: opportunity=%d saved: crew=%d, weekends=%t, workingDays=%.1f, startBuildDate=%s",
		req.OpportunityID, resp.CrewSize, resp.IncludeWeekends, resp.WorkingDays, resp.StartBuildDate)
	return resp, nil
}

// Reset удаляет ручные параметры сборки: заявка возвращается к значениям по умолчанию,
// рабочие дни и дата начала пересчитываются. История изменений удаляется вместе с параметрами.
func (s *Service) Reset(ctx context.Context, opportunityID, userID int64) (*models.BuildScheduleResponse, error) {
	s.logger.Info("Reset: opportunity=%d by user=%d", opportunityID, userID)

	var (
		resp     *models.BuildScheduleResponse
		warnings []string
	)

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		warnings = nil

		// 1. Снимок нужен для позиций и даты выезда
		snapshot, err := s.snapshots.Get(ctx, opportunityID)
		if errors.Is(err, snapshotRepo.ErrSnapshotNotFound) {
			return ErrOpportunityNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: Reset - snapshot: %v", ErrInternal, err)
		}

		// 2. Удаляем параметры (их отсутствие не ошибка: значения уже по умолчанию)
		if err := s.overrides.Delete(ctx, opportunityID); err != nil && !errors.Is(err, overrideRepo.ErrOverrideNotFound) {
			return fmt.Errorf("%w: Reset - delete override: %v", ErrInternal, err)
		}

		// 3. Пересчитываем со значениями по умолчанию
		defaults := domain.DefaultBuildOverride(opportunityID)
		warnings = models.ErrorStrings(s.recalculate(defaults, snapshot))

		// 4. Снимок отражает значения по умолчанию
		applyToSnapshot(snapshot, defaults)
		if err := s.snapshots.Save(ctx, snapshot); err != nil {
			return fmt.Errorf("%w: Reset - save snapshot: %v", ErrInternal, err)
		}

		resp = models.FromDomain(snapshot, defaults)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrOpportunityNotFound) {
			s.logger.Warn("Reset: opportunity=%d is not synced yet", opportunityID)
			return nil, err
		}
		s.logger.Error("Reset: opportunity=%d: %v", opportunityID, err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: Reset - transaction: %v", ErrInternal, err)
	}

	resp.Warnings = warnings

	s.logger.Info("Reset: opportunity=%d: workingDays=%.1f, startBuildDate=%s",
		opportunityID, resp.WorkingDays, resp.StartBuildDate)
	return resp, nil
}

// Calculate выполняет расчет без обращения к хранилищу.
// Ошибки входных данных не прерывают расчет: возвращаются нулевые значения и список ошибок.
// Размер бригады вне диапазона ограничивается, расчет продолжается с предупреждением в списке ошибок.
func (s *Service) Calculate(_ context.Context, req *models.CalculateRequest) *models.CalculateResponse {
	var errs []error

	dateOut, err := types.ParseDate(req.DateOut)
	if err != nil {
		errs = append(errs, fmt.Errorf("%w: dateOut: %v", calculator.ErrInvalidInput, err))
	}

	var planned *types.Date
	if req.PlannedFinishDate != nil && *req.PlannedFinishDate != "" {
		d, err := types.ParseDate(*req.PlannedFinishDate)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: plannedFinishDate: %v", calculator.ErrInvalidInput, err))
		} else {
			planned = &d
		}
	}

	// Размер бригады: 0 = по умолчанию, иначе ограничиваем допустимым диапазоном
	crewSize := req.CrewSize
	if crewSize == 0 {
		crewSize = domain.DefaultCrewSize
	}
	if clamped := domain.ClampCrewSize(crewSize); clamped != crewSize {
		errs = append(errs, fmt.Errorf("%w: crewSize %d is outside %d..%d, using %d",
			ErrCrewSizeClamped, crewSize, domain.MinCrewSize, domain.MaxCrewSize, clamped))
		crewSize = clamped
	}

	res := calculator.Calculate(calculator.Input{
		Items:             req.Items,
		Catalog:           domain.NewCatalog(req.Catalog...),
		DateOut:           dateOut,
		PlannedFinishDate: planned,
		CrewSize:          crewSize,
		IncludeWeekends:   req.IncludeWeekends,
	})
	errs = append(errs, res.Errors...)

	for _, e := range errs {
		s.metrics.IncCalculatorError("calculate")
		s.logger.Warn("Calculate: %v", e)
	}

	return &models.CalculateResponse{
		Items:          res.Items,
		TotalHours:     res.TotalHours,
		WorkingDays:    res.WorkingDays,
		StartBuildDate: res.StartBuildDate.String(),
		Errors:         models.ErrorStrings(errs),
	}
}

// recalculate пересчитывает рабочие дни и дату начала сборки по позициям снимка
func (s *Service) recalculate(o *domain.BuildOverride, snapshot *domain.Snapshot) []error {
	o.DateOut = snapshot.DateOut
	o.TimeOut = snapshot.TimeOut

	wd, start, errs := calculator.Schedule(
		snapshot.TotalHours, snapshot.DateOut, o.PlannedFinishDate, o.CrewSize, o.IncludeWeekends)
	for range errs {
		s.metrics.IncCalculatorError("update")
	}

	o.WorkingDays = wd
	o.StartBuildDate = start
	return errs
}

// OverrideFromSnapshot параметры сборки, соответствующие снимку
func OverrideFromSnapshot(snapshot *domain.Snapshot) *domain.BuildOverride {
	o := domain.DefaultBuildOverride(snapshot.OpportunityID)
	if snapshot.CrewSize > 0 {
		o.CrewSize = domain.ClampCrewSize(snapshot.CrewSize)
	}
	o.IncludeWeekends = snapshot.IncludeWeekends
	o.PlannedFinishDate = snapshot.PlannedFinishDate
	o.Built = snapshot.Built
	o.WorkingDays = snapshot.WorkingDays
	o.StartBuildDate = snapshot.StartBuildDate
	o.DateOut = snapshot.DateOut
	o.TimeOut = snapshot.TimeOut
	return o
}

func applyToSnapshot(snapshot *domain.Snapshot, o *domain.BuildOverride) {
	snapshot.CrewSize = o.CrewSize
	snapshot.IncludeWeekends = o.IncludeWeekends
	snapshot.PlannedFinishDate = o.PlannedFinishDate
	snapshot.Built = o.Built
	snapshot.WorkingDays = o.WorkingDays
	snapshot.StartBuildDate = o.StartBuildDate
}
