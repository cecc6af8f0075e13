package sync_workshop

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WorkloadService/internal/domain"
	overrideRepo "github.com/m04kA/SMC-WorkloadService/internal/infra/storage/override"
	"github.com/m04kA/SMC-WorkloadService/internal/integrations/currentrms"
	"github.com/m04kA/SMC-WorkloadService/internal/service/opportunities"
)

type fakeCRM struct {
	products   []domain.Product
	productErr error
	items      map[int64][]domain.LineItem
	itemErrs   map[int64]error
}

func (f *fakeCRM) GetProducts(_ context.Context, _ domain.ProductFilter) ([]domain.Product, error) {
	return f.products, f.productErr
}

func (f *fakeCRM) GetOpportunityItems(_ context.Context, id int64) ([]domain.LineItem, error) {
	if err, ok := f.itemErrs[id]; ok {
		return nil, err
	}
	return f.items[id], nil
}

type fakeOpportunities struct {
	opps []*domain.Opportunity
	err  error
}

func (f *fakeOpportunities) ListUpcoming(_ context.Context, q opportunities.Query) (*opportunities.Upcoming, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &opportunities.Upcoming{Groups: []opportunities.GroupOpportunities{
		{Group: domain.StatusGroupConfirmed, Opportunities: f.opps},
	}}, nil
}

type fakeProducts struct {
	stored []domain.Product
}

func (f *fakeProducts) ReplaceAll(_ context.Context, products []domain.Product, _ time.Time) error {
	f.stored = products
	return nil
}

func (f *fakeProducts) List(_ context.Context) ([]domain.Product, error) {
	return f.stored, nil
}

type fakeOverrides struct {
	mu    sync.Mutex
	items map[int64]domain.BuildOverride
}

func (f *fakeOverrides) Get(_ context.Context, id int64) (*domain.BuildOverride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.items[id]
	if !ok {
		return nil, overrideRepo.ErrOverrideNotFound
	}
	return &o, nil
}

func (f *fakeOverrides) GetMany(_ context.Context, ids []int64) (map[int64]*domain.BuildOverride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := make(map[int64]*domain.BuildOverride)
	for _, id := range ids {
		if o, ok := f.items[id]; ok {
			o := o
			res[id] = &o
		}
	}
	return res, nil
}

func (f *fakeOverrides) Upsert(_ context.Context, o *domain.BuildOverride) (*domain.BuildOverride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o.UpdatedAt = o.UpdatedAt.Add(time.Minute)
	f.items[o.OpportunityID] = *o
	return o, nil
}

type fakeTracker struct {
	mu   sync.Mutex
	seen map[int64]domain.Snapshot
}

func (f *fakeTracker) Track(_ context.Context, s *domain.Snapshot) (domain.ChangeSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, known := f.seen[s.OpportunityID]
	f.seen[s.OpportunityID] = *s
	return domain.ChangeSet{OpportunityID: s.OpportunityID, IsNew: !known}, nil
}

func (f *fakeTracker) Prune(_ context.Context, keep []int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	keepSet := make(map[int64]bool, len(keep))
	for _, id := range keep {
		keepSet[id] = true
	}
	var deleted int64
	for id := range f.seen {
		if !keepSet[id] {
			delete(f.seen, id)
			deleted++
		}
	}
	return deleted, nil
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (inlineTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type syncMetrics struct {
	mu        sync.Mutex
	trigger   string
	processed int
	err       error
	calcErrs  int
}

func (m *syncMetrics) ObserveSync(trigger string, _ time.Time, processed int, err error) {
	m.trigger, m.processed, m.err = trigger, processed, err
}

func (m *syncMetrics) IncCalculatorError(string) {
	m.mu.Lock()
	m.calcErrs++
	m.mu.Unlock()
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func startsAt(day int) *time.Time {
	t := time.Date(2024, 6, day, 8, 0, 0, 0, time.UTC)
	return &t
}

type fixture struct {
	uc        *UseCase
	crm       *fakeCRM
	opps      *fakeOpportunities
	products  *fakeProducts
	overrides *fakeOverrides
	tracker   *fakeTracker
	metrics   *syncMetrics
}

func newFixture() *fixture {
	f := &fixture{
		crm: &fakeCRM{
			products: []domain.Product{
				{ID: 1, Name: "Chair - Red"},
				{ID: 2, Name: "Flat - 8ft"},
				{ID: 4597, Name: "Labour - Extra"},
			},
			items: map[int64][]domain.LineItem{
				// 6 + 2 hours of chairs and flats, extra labour is excluded
				10: {{Name: "Chair - Red", Quantity: 12}, {Name: "Flat - 8ft", Quantity: 4}, {Name: "Labour - Extra", Quantity: 100}},
				11: {{Name: "Chair - Red", Quantity: 12}},
				12: {{Name: "Flat - 8ft", Quantity: 2}},
			},
			itemErrs: map[int64]error{},
		},
		opps: &fakeOpportunities{opps: []*domain.Opportunity{
			{ID: 10, Subject: "Gala", Tags: []string{"SCENIC"}, StartsAt: startsAt(10)},
			{ID: 11, Subject: "Expo", Tags: []string{"SCENIC"}, StartsAt: startsAt(12)},
			{ID: 12, Subject: "Catering only", StartsAt: startsAt(11)},
		}},
		products:  &fakeProducts{},
		overrides: &fakeOverrides{items: map[int64]domain.BuildOverride{}},
		tracker:   &fakeTracker{seen: map[int64]domain.Snapshot{}},
		metrics:   &syncMetrics{},
	}
	f.uc = NewUseCase(f.crm, f.opps, f.products, f.overrides, f.tracker, inlineTx{}, f.metrics, Options{
		ExcludedProductIDs: []int64{4597},
		ScenicTag:          "SCENIC",
		Concurrency:        2,
		Location:           time.UTC,
	}, nopLogger{})
	return f
}

func TestUseCase_Execute(t *testing.T) {
	f := newFixture()

	var mu sync.Mutex
	var calls [][2]int
	progress := func(done, total int) {
		mu.Lock()
		calls = append(calls, [2]int{done, total})
		mu.Unlock()
	}

	resp, err := f.uc.Execute(context.Background(), &Request{Days: 91, Trigger: TriggerTask, Progress: progress})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.CatalogSize)
	assert.Len(t, f.products.stored, 2)

	require.Len(t, resp.Opportunities, 2)
	gala := resp.Opportunities[0].Snapshot
	assert.Equal(t, int64(10), gala.OpportunityID)
	assert.Equal(t, 8.0, gala.TotalHours)
	assert.Equal(t, []domain.AggregatedItem{{Name: "Chair", Hours: 6}, {Name: "Flat", Hours: 2}}, gala.Items)
	assert.Equal(t, 1.0, gala.WorkingDays)
	assert.Equal(t, "2024-06-10", gala.DateOut.String())
	assert.Equal(t, "2024-06-07", gala.StartBuildDate.String())
	assert.True(t, resp.Opportunities[0].Changes.IsNew)
	assert.Equal(t, int64(11), resp.Opportunities[1].Snapshot.OpportunityID)

	_, tracked := f.tracker.seen[12]
	assert.False(t, tracked, "untagged opportunity must be skipped")

	require.NotEmpty(t, calls)
	assert.Equal(t, [2]int{0, 2}, calls[0])
	assert.Len(t, calls, 3)
	maxDone := 0
	for _, c := range calls {
		assert.Equal(t, 2, c[1])
		if c[0] > maxDone {
			maxDone = c[0]
		}
	}
	assert.Equal(t, 2, maxDone)

	assert.Equal(t, TriggerTask, f.metrics.trigger)
	assert.Equal(t, 2, f.metrics.processed)
	assert.NoError(t, f.metrics.err)

	// второй прогон: заявки уже известны
	resp, err = f.uc.Execute(context.Background(), &Request{Days: 91, Trigger: TriggerSchedule})
	require.NoError(t, err)
	for _, o := range resp.Opportunities {
		assert.False(t, o.Changes.IsNew)
	}
}

func TestUseCase_Execute_StoredOverride(t *testing.T) {
	f := newFixture()
	f.overrides.items[11] = domain.BuildOverride{
		OpportunityID: 11,
		CrewSize:      2,
		WorkingDays:   3,
		UpdatedAt:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	resp, err := f.uc.Execute(context.Background(), &Request{Days: 91, Trigger: TriggerHTTP})
	require.NoError(t, err)

	var expo Opportunity
	for _, o := range resp.Opportunities {
		if o.Snapshot.OpportunityID == 11 {
			expo = o
		}
	}
	assert.Equal(t, 2, expo.Snapshot.CrewSize)
	assert.Equal(t, 0.5, expo.Snapshot.WorkingDays)

	saved := f.overrides.items[11]
	assert.Equal(t, 0.5, saved.WorkingDays)
	assert.Equal(t, expo.Snapshot.StartBuildDate, saved.StartBuildDate)
	require.NotNil(t, saved.Previous.WorkingDays)
	assert.Equal(t, 3.0, *saved.Previous.WorkingDays)
	require.NotNil(t, saved.PreviouslyUpdatedAt)

	// без сохраненных параметров ничего не создается
	_, ok := f.overrides.items[10]
	assert.False(t, ok)
}

func TestUseCase_Execute_SkipsVanishedOpportunity(t *testing.T) {
	f := newFixture()
	f.crm.itemErrs[11] = currentrms.ErrOpportunityNotFound

	resp, err := f.uc.Execute(context.Background(), &Request{Days: 91, Trigger: TriggerHTTP})
	require.NoError(t, err)
	require.Len(t, resp.Opportunities, 1)
	assert.Equal(t, int64(10), resp.Opportunities[0].Snapshot.OpportunityID)
	assert.Equal(t, 1, f.metrics.processed)
}

func TestUseCase_Execute_PruneStale(t *testing.T) {
	f := newFixture()
	f.tracker.seen[99] = domain.Snapshot{OpportunityID: 99}

	_, err := f.uc.Execute(context.Background(), &Request{Days: 91, Trigger: TriggerHTTP})
	require.NoError(t, err)
	assert.Contains(t, f.tracker.seen, int64(99))

	_, err = f.uc.Execute(context.Background(), &Request{Days: 91, Trigger: TriggerSchedule, PruneStale: true})
	require.NoError(t, err)
	assert.NotContains(t, f.tracker.seen, int64(99))
	assert.Len(t, f.tracker.seen, 2)
}

func TestUseCase_Execute_CalculatorWarnings(t *testing.T) {
	f := newFixture()
	f.opps.opps = []*domain.Opportunity{{ID: 10, Subject: "Gala", Tags: []string{"SCENIC"}}}

	resp, err := f.uc.Execute(context.Background(), &Request{Days: 91, Trigger: TriggerHTTP})
	require.NoError(t, err)
	require.Len(t, resp.Opportunities, 1)
	assert.NotEmpty(t, resp.Opportunities[0].Warnings)
	assert.True(t, resp.Opportunities[0].Snapshot.StartBuildDate.IsZero())
	assert.Equal(t, len(resp.Opportunities[0].Warnings), f.metrics.calcErrs)
}

func TestUseCase_Execute_CatalogFallback(t *testing.T) {
	f := newFixture()
	f.crm.productErr = currentrms.ErrUnavailable

	_, err := f.uc.Execute(context.Background(), &Request{Days: 91, Trigger: TriggerHTTP})
	assert.ErrorIs(t, err, ErrCRMUnavailable)
	assert.ErrorIs(t, f.metrics.err, ErrCRMUnavailable)

	f.products.stored = []domain.Product{{ID: 1, Name: "Chair - Red"}}
	resp, err := f.uc.Execute(context.Background(), &Request{Days: 91, Trigger: TriggerHTTP})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.CatalogSize)
	assert.Equal(t, 6.0, resp.Opportunities[0].Snapshot.TotalHours)
}

func TestUseCase_Execute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(f *fixture)
		req     *Request
		wantErr error
	}{
		{
			name:    "days out of range",
			req:     &Request{Days: 0, Trigger: TriggerHTTP},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown trigger",
			req:     &Request{Days: 14, Trigger: "cron"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "opportunities unavailable",
			prepare: func(f *fixture) { f.opps.err = opportunities.ErrCRMUnavailable },
			req:     &Request{Days: 14, Trigger: TriggerHTTP},
			wantErr: ErrCRMUnavailable,
		},
		{
			name:    "items unavailable",
			prepare: func(f *fixture) { f.crm.itemErrs[10] = currentrms.ErrUnavailable },
			req:     &Request{Days: 14, Trigger: TriggerHTTP},
			wantErr: ErrCRMUnavailable,
		},
		{
			name:    "unexpected opportunities error",
			prepare: func(f *fixture) { f.opps.err = errors.New("boom") },
			req:     &Request{Days: 14, Trigger: TriggerHTTP},
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.prepare != nil {
				tt.prepare(f)
			}

			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, f.metrics.err, tt.wantErr)
		})
	}
}
