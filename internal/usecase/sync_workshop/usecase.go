package sync_workshop

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-WorkloadService/internal/calculator"
	"github.com/m04kA/SMC-WorkloadService/internal/domain"
	overrideRepo "github.com/m04kA/SMC-WorkloadService/internal/infra/storage/override"
	"github.com/m04kA/SMC-WorkloadService/internal/integrations/currentrms"
	"github.com/m04kA/SMC-WorkloadService/internal/service/opportunities"
)

const activeFilterMode = "active"

// UseCase use case синхронизации загрузки цеха:
// каталог -> заявки окна -> позиции -> расчет -> сравнение с прошлым снимком
type UseCase struct {
	crm           CRMClient
	opportunities OpportunityService
	products      ProductRepository
	overrides     OverrideRepository
	tracker       ChangeTracker
	txManager     TxManager
	metrics       Metrics
	opts          Options
	now           func() time.Time
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	crm CRMClient,
	opportunities OpportunityService,
	products ProductRepository,
	overrides OverrideRepository,
	tracker ChangeTracker,
	txManager TxManager,
	metrics Metrics,
	opts Options,
	logger Logger,
) *UseCase {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.ProductGroup == "" {
		opts.ProductGroup = domain.DefaultProductGroup
	}

	return &UseCase{
		crm:           crm,
		opportunities: opportunities,
		products:      products,
		overrides:     overrides,
		tracker:       tracker,
		txManager:     txManager,
		metrics:       metrics,
		opts:          opts,
		now:           time.Now,
		logger:        logger,
	}
}

// Execute выполняет синхронизацию
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	started := uc.now()
	processed := 0
	defer func() {
		uc.metrics.ObserveSync(req.Trigger, started, processed, err)
	}()

	uc.logger.Info("SyncWorkshop: trigger=%s, days=%d", req.Trigger, req.Days)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SyncWorkshop: validation failed: %v", err)
		return nil, err
	}

	// 2. Обновляем каталог активных товаров
	catalog, err := uc.refreshCatalog(ctx, started)
	if err != nil {
		return nil, err
	}

	// 3. Получаем заявки окна и оставляем только декорации
	upcoming, err := uc.opportunities.ListUpcoming(ctx, opportunities.Query{
		Groups: domain.UpcomingStatusGroups,
		Days:   req.Days,
	})
	if err != nil {
		uc.logger.Error("SyncWorkshop: failed to list opportunities: %v", err)
		if errors.Is(err, opportunities.ErrCRMUnavailable) {
			return nil, fmt.Errorf("%w: %v", ErrCRMUnavailable, err)
		}
		return nil, fmt.Errorf("%w: failed to list opportunities: %v", ErrInternal, err)
	}

	scenic := make([]*domain.Opportunity, 0)
	for _, o := range upcoming.All() {
		if uc.opts.ScenicTag == "" || o.HasTag(uc.opts.ScenicTag) {
			scenic = append(scenic, o)
		}
	}

	// 4. Сохраненные параметры сборки одним запросом
	ids := make([]int64, 0, len(scenic))
	for _, o := range scenic {
		ids = append(ids, o.ID)
	}
	overrides, err := uc.overrides.GetMany(ctx, ids)
	if err != nil {
		uc.logger.Error("SyncWorkshop: failed to get overrides: %v", err)
		return nil, fmt.Errorf("%w: failed to get overrides: %v", ErrInternal, err)
	}

	// 5. Считаем заявки параллельно с ограничением
	results := make([]*Opportunity, len(scenic))
	var done int32
	total := len(scenic)
	uc.report(req.Progress, 0, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.opts.Concurrency)
	for i, o := range scenic {
		i, o := i, o
		g.Go(func() error {
			res, err := uc.processOpportunity(gctx, o, catalog, overrides[o.ID], started)
			if err != nil {
				return err
			}
			results[i] = res
			uc.report(req.Progress, int(atomic.AddInt32(&done, 1)), total)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		uc.logger.Error("SyncWorkshop: %v", err)
		if errors.Is(err, ErrCRMUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 6. Собираем ответ
	resp = &Response{
		SyncedAt:      started,
		Days:          req.Days,
		CatalogSize:   len(catalog),
		Opportunities: make([]Opportunity, 0, len(results)),
	}
	for _, r := range results {
		if r != nil {
			resp.Opportunities = append(resp.Opportunities, *r)
		}
	}
	sortByStartBuild(resp.Opportunities)
	processed = len(resp.Opportunities)

	// 7. Чистим снимки заявок, которых больше нет в окне
	if req.PruneStale {
		keep := make([]int64, 0, len(resp.Opportunities))
		for _, o := range resp.Opportunities {
			keep = append(keep, o.Snapshot.OpportunityID)
		}
		if _, err := uc.tracker.Prune(ctx, keep); err != nil {
			uc.logger.Warn("SyncWorkshop: failed to prune snapshots: %v", err)
		}
	}

	uc.logger.Info("SyncWorkshop: synced %d of %d scenic opportunities in %s",
		processed, total, uc.now().Sub(started).Round(time.Millisecond))
	return resp, nil
}

// refreshCatalog получает активные товары группы, убирает исключенные и сохраняет каталог.
// Если Current RMS недоступен, используется последний сохраненный каталог.
func (uc *UseCase) refreshCatalog(ctx context.Context, now time.Time) (domain.Catalog, error) {
	products, err := uc.crm.GetProducts(ctx, domain.ProductFilter{
		FilterMode:   activeFilterMode,
		ProductGroup: uc.opts.ProductGroup,
	})
	if err != nil {
		uc.logger.Warn("SyncWorkshop: failed to fetch products, using stored catalog: %v", err)

		stored, listErr := uc.products.List(ctx)
		if listErr != nil {
			uc.logger.Error("SyncWorkshop: failed to list stored products: %v", listErr)
			return nil, fmt.Errorf("%w: %v", ErrCRMUnavailable, err)
		}
		if len(stored) == 0 {
			return nil, fmt.Errorf("%w: no product catalog available: %v", ErrCRMUnavailable, err)
		}
		return domain.CatalogFromProducts(stored), nil
	}

	products = excludeProducts(products, uc.opts.ExcludedProductIDs)

	err = uc.txManager.Do(ctx, func(ctx context.Context) error {
		return uc.products.ReplaceAll(ctx, products, now)
	})
	if err != nil {
		uc.logger.Error("SyncWorkshop: failed to store catalog: %v", err)
		return nil, fmt.Errorf("%w: failed to store catalog: %v", ErrInternal, err)
	}

	uc.logger.Info("SyncWorkshop: catalog refreshed, %d products", len(products))
	return domain.CatalogFromProducts(products), nil
}

// processOpportunity считает одну заявку и сравнивает с прошлым снимком
func (uc *UseCase) processOpportunity(
	ctx context.Context,
	o *domain.Opportunity,
	catalog domain.Catalog,
	override *domain.BuildOverride,
	syncedAt time.Time,
) (*Opportunity, error) {
	// 1. Позиции заявки
	items, err := uc.crm.GetOpportunityItems(ctx, o.ID)
	if err != nil {
		if errors.Is(err, currentrms.ErrOpportunityNotFound) {
			uc.logger.Warn("SyncWorkshop: opportunity=%d disappeared from CRM, skipping", o.ID)
			return nil, nil
		}
		return nil, fmt.Errorf("%w: items of opportunity=%d: %v", ErrCRMUnavailable, o.ID, err)
	}

	// 2. Параметры сборки (сохраненные или по умолчанию)
	stored := override != nil
	if !stored {
		override = domain.DefaultBuildOverride(o.ID)
	}

	// 3. Расчет
	dateOut := o.DateOut(uc.opts.Location)
	res := calculator.Calculate(calculator.Input{
		Items:             items,
		Catalog:           catalog,
		DateOut:           dateOut,
		PlannedFinishDate: override.PlannedFinishDate,
		CrewSize:          override.CrewSize,
		IncludeWeekends:   override.IncludeWeekends,
	})

	warnings := make([]string, 0, len(res.Errors))
	for _, e := range res.Errors {
		uc.metrics.IncCalculatorError("sync")
		uc.logger.Warn("SyncWorkshop: opportunity=%d: %v", o.ID, e)
		warnings = append(warnings, e.Error())
	}

	snapshot := &domain.Snapshot{
		OpportunityID:     o.ID,
		Name:              o.Subject,
		Number:            o.Number,
		ClientName:        o.ClientName,
		Status:            o.Status,
		HireType:          o.HireType(),
		DateOut:           dateOut,
		TimeOut:           o.TimeOut(uc.opts.Location),
		Items:             res.Items,
		TotalHours:        res.TotalHours,
		CrewSize:          override.CrewSize,
		IncludeWeekends:   override.IncludeWeekends,
		PlannedFinishDate: override.PlannedFinishDate,
		Built:             override.Built,
		WorkingDays:       res.WorkingDays,
		StartBuildDate:    res.StartBuildDate,
		SyncedAt:          syncedAt,
	}

	// 4. Сравнение с прошлым снимком
	changes, err := uc.tracker.Track(ctx, snapshot)
	if err != nil {
		return nil, fmt.Errorf("track opportunity=%d: %w", o.ID, err)
	}

	// 5. Сохраненные параметры следуют за пересчитанными значениями
	if stored && computedChanged(override, snapshot) {
		if err := uc.refreshOverride(ctx, snapshot); err != nil {
			return nil, err
		}
	}

	return &Opportunity{Snapshot: *snapshot, Changes: changes, Warnings: warnings}, nil
}

// refreshOverride переносит пересчитанные значения в сохраненные параметры с историей
func (uc *UseCase) refreshOverride(ctx context.Context, s *domain.Snapshot) error {
	err := uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		old, err := uc.overrides.Get(ctx, s.OpportunityID)
		if errors.Is(err, overrideRepo.ErrOverrideNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		updated := *old
		updated.WorkingDays = s.WorkingDays
		updated.StartBuildDate = s.StartBuildDate
		updated.DateOut = s.DateOut
		updated.TimeOut = s.TimeOut
		updated.TrackChanges(old)

		_, err = uc.overrides.Upsert(ctx, &updated)
		return err
	})
	if err != nil {
		return fmt.Errorf("refresh override of opportunity=%d: %w", s.OpportunityID, err)
	}
	return nil
}

func (uc *UseCase) report(progress ProgressFunc, done, total int) {
	if progress != nil {
		progress(done, total)
	}
}

func computedChanged(o *domain.BuildOverride, s *domain.Snapshot) bool {
	return o.WorkingDays != s.WorkingDays ||
		!o.StartBuildDate.Equal(s.StartBuildDate) ||
		!o.DateOut.Equal(s.DateOut) ||
		o.TimeOut != s.TimeOut
}

func excludeProducts(products []domain.Product, excluded []int64) []domain.Product {
	if len(excluded) == 0 {
		return products
	}
	skip := make(map[int64]struct{}, len(excluded))
	for _, id := range excluded {
		skip[id] = struct{}{}
	}

	res := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if _, ok := skip[p.ID]; !ok {
			res = append(res, p)
		}
	}
	return res
}

func sortByStartBuild(opps []Opportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		a, b := opps[i].Snapshot, opps[j].Snapshot
		if !a.StartBuildDate.Equal(b.StartBuildDate) {
			// без даты начала в конец
			if a.StartBuildDate.IsZero() || b.StartBuildDate.IsZero() {
				return !a.StartBuildDate.IsZero()
			}
			return a.StartBuildDate.Before(b.StartBuildDate)
		}
		return a.DateOut.Before(b.DateOut)
	})
}
