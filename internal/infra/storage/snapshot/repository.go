package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-WorkloadService/internal/domain"
	"github.com/m04kA/SMC-WorkloadService/pkg/dbmetrics"
	"github.com/m04kA/SMC-WorkloadService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-WorkloadService/pkg/types"
)

const table = "opportunity_snapshots"

// Repository хранит последний рассчитанный снимок каждой заявки.
// Полный снимок лежит в payload (JSONB), ключевые поля продублированы в колонки для выборок.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория снимков
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает последний снимок заявки
func (r *Repository) Get(ctx context.Context, opportunityID int64) (*domain.Snapshot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("payload").
		From(table).
		Where(squirrel.Eq{"opportunity_id": opportunityID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var payload []byte
	err = executor.QueryRowContext(ctx, query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan snapshot: %v", ErrScanRow, err)
	}

	return decode(payload)
}

// Save создает или заменяет снимок заявки
func (r *Repository) Save(ctx context.Context, s *domain.Snapshot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%w: Save - marshal snapshot: %v", ErrPayload, err)
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"opportunity_id",
			"subject",
			"status",
			"date_out",
			"total_hours",
			"working_days",
			"start_build_date",
			"payload",
			"synced_at",
		).
		Values(
			s.OpportunityID,
			s.Name,
			s.Status,
			s.DateOut,
			s.TotalHours,
			s.WorkingDays,
			s.StartBuildDate,
			payload,
			s.SyncedAt,
		).
		Suffix(`ON CONFLICT (opportunity_id) DO UPDATE SET
			subject = EXCLUDED.subject,
			status = EXCLUDED.status,
			date_out = EXCLUDED.date_out,
			total_hours = EXCLUDED.total_hours,
			working_days = EXCLUDED.working_days,
			start_build_date = EXCLUDED.start_build_date,
			payload = EXCLUDED.payload,
			synced_at = EXCLUDED.synced_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Save - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Save - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListByDateOut получает снимки с датой выезда в [from, until], по возрастанию даты
func (r *Repository) ListByDateOut(ctx context.Context, from, until types.Date) ([]*domain.Snapshot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("payload").
		From(table).
		Where(squirrel.GtOrEq{"date_out": from}).
		Where(squirrel.LtOrEq{"date_out": until}).
		OrderBy("date_out ASC, opportunity_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDateOut - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDateOut - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Snapshot, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("%w: ListByDateOut - scan payload: %v", ErrScanRow, err)
		}
		s, err := decode(payload)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByDateOut - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// DeleteExcept удаляет снимки заявок, которые больше не попадают в выборку синхронизации.
// Возвращает количество удаленных строк.
func (r *Repository) DeleteExcept(ctx context.Context, keepIDs []int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteBuilder := psqlbuilder.Delete(table)
	if len(keepIDs) > 0 {
		deleteBuilder = deleteBuilder.Where(squirrel.NotEq{"opportunity_id": keepIDs})
	}

	query, args, err := deleteBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExcept - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExcept - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExcept - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

func decode(payload []byte) (*domain.Snapshot, error) {
	var s domain.Snapshot
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayload, err)
	}
	if s.Items == nil {
		s.Items = []domain.AggregatedItem{}
	}
	return &s, nil
}
