package override

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-WorkloadService/internal/domain"
	"github.com/m04kA/SMC-WorkloadService/pkg/dbmetrics"
	"github.com/m04kA/SMC-WorkloadService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-WorkloadService/pkg/ptr"
	"github.com/m04kA/SMC-WorkloadService/pkg/types"
)

const table = "build_overrides"

var columns = []string{
	"opportunity_id",
	"crew_size",
	"include_weekends",
	"planned_finish_date",
	"built",
	"working_days",
	"start_build_date",
	"date_out",
	"time_out",
	"previous_crew_size",
	"previous_include_weekends",
	"previous_planned_finish_date",
	"previous_built",
	"previous_working_days",
	"previous_start_build_date",
	"previous_date_out",
	"previous_time_out",
	"previous_planned_finish_unset",
	"updated_by",
	"created_at",
	"updated_at",
	"previously_updated_at",
}

// Repository репозиторий ручных параметров сборки (crew size, выходные, плановое окончание)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория параметров сборки
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает параметры сборки заявки.
// Внутри транзакции строка блокируется (FOR UPDATE), чтобы параллельное обновление не потеряло историю.
func (r *Repository) Get(ctx context.Context, opportunityID int64) (*domain.BuildOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"opportunity_id": opportunityID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	o, err := scanOverride(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOverrideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan override: %v", ErrScanRow, err)
	}

	return o, nil
}

// GetMany получает параметры сборки для набора заявок.
// Заявки без сохраненных параметров в результат не попадают.
func (r *Repository) GetMany(ctx context.Context, opportunityIDs []int64) (map[int64]*domain.BuildOverride, error) {
	result := make(map[int64]*domain.BuildOverride, len(opportunityIDs))
	if len(opportunityIDs) == 0 {
		return result, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"opportunity_id": opportunityIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetMany - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetMany - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetMany - scan override: %v", ErrScanRow, err)
		}
		result[o.OpportunityID] = o
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetMany - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// Upsert создает или полностью перезаписывает параметры сборки заявки.
// История (previous_*) должна быть заполнена вызывающим кодом через BuildOverride.TrackChanges.
// Снятое ранее плановое окончание (нулевая дата) пишется как NULL с флагом previous_planned_finish_unset.
func (r *Repository) Upsert(ctx context.Context, o *domain.BuildOverride) (*domain.BuildOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	previousPlannedFinish := o.Previous.PlannedFinishDate
	previousPlannedFinishUnset := previousPlannedFinish != nil && previousPlannedFinish.IsZero()
	if previousPlannedFinishUnset {
		previousPlannedFinish = nil
	}

	// created_at и updated_at выставляет БД
	insertColumns := columns[:len(columns)-3]
	insertColumns = append(append([]string(nil), insertColumns...), "previously_updated_at")

	updates := make([]string, 0, len(insertColumns))
	for _, c := range insertColumns[1:] {
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}
	updates = append(updates, "updated_at = NOW()")

	query, args, err := psqlbuilder.Insert(table).
		Columns(insertColumns...).
		Values(
			o.OpportunityID,
			o.CrewSize,
			o.IncludeWeekends,
			o.PlannedFinishDate,
			o.Built,
			o.WorkingDays,
			o.StartBuildDate,
			o.DateOut,
			o.TimeOut,
			o.Previous.CrewSize,
			o.Previous.IncludeWeekends,
			previousPlannedFinish,
			o.Previous.Built,
			o.Previous.WorkingDays,
			o.Previous.StartBuildDate,
			o.Previous.DateOut,
			o.Previous.TimeOut,
			previousPlannedFinishUnset,
			o.UpdatedBy,
			o.PreviouslyUpdatedAt,
		).
		Suffix("ON CONFLICT (opportunity_id) DO UPDATE SET " + strings.Join(updates, ", ") +
			" RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time

	return o, nil
}

// Delete удаляет параметры сборки, заявка возвращается к значениям по умолчанию
func (r *Repository) Delete(ctx context.Context, opportunityID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"opportunity_id": opportunityID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrOverrideNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOverride(row rowScanner) (*domain.BuildOverride, error) {
	var o domain.BuildOverride
	var updatedBy sql.NullInt64
	var previousPlannedFinishUnset bool
	var createdAt, updatedAt, previouslyUpdatedAt sql.NullTime

	err := row.Scan(
		&o.OpportunityID,
		&o.CrewSize,
		&o.IncludeWeekends,
		&o.PlannedFinishDate,
		&o.Built,
		&o.WorkingDays,
		&o.StartBuildDate,
		&o.DateOut,
		&o.TimeOut,
		&o.Previous.CrewSize,
		&o.Previous.IncludeWeekends,
		&o.Previous.PlannedFinishDate,
		&o.Previous.Built,
		&o.Previous.WorkingDays,
		&o.Previous.StartBuildDate,
		&o.Previous.DateOut,
		&o.Previous.TimeOut,
		&previousPlannedFinishUnset,
		&updatedBy,
		&createdAt,
		&updatedAt,
		&previouslyUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if previousPlannedFinishUnset {
		o.Previous.PlannedFinishDate = ptr.Ptr(types.Date{})
	}
	if updatedBy.Valid {
		o.UpdatedBy = &updatedBy.Int64
	}
	if previouslyUpdatedAt.Valid {
		o.PreviouslyUpdatedAt = &previouslyUpdatedAt.Time
	}
	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time

	return &o, nil
}
