package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WorkloadService/internal/domain"
	"github.com/m04kA/SMC-WorkloadService/pkg/dbmetrics"
	"github.com/m04kA/SMC-WorkloadService/pkg/types"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(dbmetrics.Wrap(db, nil, "test")), mock
}

func testSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		OpportunityID:  42,
		Name:           "Gala Dinner",
		Status:         0,
		HireType:       domain.HireTypeWet,
		DateOut:        types.MustParseDate("2024-06-10"),
		TimeOut:        "08:00",
		Items:          []domain.AggregatedItem{{Name: "Chair", Hours: 6}},
		TotalHours:     6,
		CrewSize:       1,
		WorkingDays:    1,
		StartBuildDate: types.MustParseDate("2024-06-07"),
		SyncedAt:       time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestRepository_SaveAndGet(t *testing.T) {
	repo, mock := newMock(t)
	s := testSnapshot()

	payload, err := json.Marshal(s)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO opportunity_snapshots")).
		WithArgs(int64(42), "Gala Dinner", 0, sqlmock.AnyArg(), 6.0, 1.0, sqlmock.AnyArg(), payload, s.SyncedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Save(context.Background(), s))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM opportunity_snapshots WHERE opportunity_id = $1")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))

	got, err := repo.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, s.Items, got.Items)
	assert.True(t, s.DateOut.Equal(got.DateOut))
	assert.True(t, s.StartBuildDate.Equal(got.StartBuildDate))
	assert.Equal(t, s.TimeOut, got.TimeOut)
	assert.Equal(t, s.WorkingDays, got.WorkingDays)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Get_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("FROM opportunity_snapshots").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), 1)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestRepository_Get_BrokenPayload(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("FROM opportunity_snapshots").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte("{")))

	_, err := repo.Get(context.Background(), 1)
	assert.ErrorIs(t, err, ErrPayload)
}

func TestRepository_ListByDateOut(t *testing.T) {
	repo, mock := newMock(t)

	first, err := json.Marshal(testSnapshot())
	require.NoError(t, err)
	second, err := json.Marshal(&domain.Snapshot{OpportunityID: 43, Name: "Expo"})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE date_out >= $1 AND date_out <= $2 ORDER BY date_out ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(first).AddRow(second))

	got, err := repo.ListByDateOut(context.Background(),
		types.MustParseDate("2024-06-01"), types.MustParseDate("2024-08-31"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(42), got[0].OpportunityID)
	assert.NotNil(t, got[1].Items)
	assert.Empty(t, got[1].Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteExcept(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM opportunity_snapshots WHERE opportunity_id NOT IN ($1,$2)")).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteExcept(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
