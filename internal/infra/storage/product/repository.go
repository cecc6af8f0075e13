package product

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-WorkloadService/internal/domain"
	"github.com/m04kA/SMC-WorkloadService/pkg/dbmetrics"
	"github.com/m04kA/SMC-WorkloadService/pkg/psqlbuilder"
)

const table = "active_products"

// Repository репозиторий каталога активных товаров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ReplaceAll заменяет каталог целиком.
// Вызывать внутри транзакции, иначе читатели могут увидеть пустой каталог.
func (r *Repository) ReplaceAll(ctx context.Context, products []domain.Product, refreshedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceAll - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceAll - execute delete: %v", ErrExecQuery, err)
	}

	if len(products) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert(table).
		Columns("product_id", "name", "product_group", "refreshed_at")
	for _, p := range products {
		insertBuilder = insertBuilder.Values(p.ID, p.Name, p.Group, refreshedAt)
	}

	// Дубликаты id в ответе CRM не должны ронять синхронизацию
	query, args, err = insertBuilder.
		Suffix("ON CONFLICT (product_id) DO UPDATE SET name = EXCLUDED.name, product_group = EXCLUDED.product_group").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceAll - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceAll - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// List получает весь каталог, отсортированный по названию
func (r *Repository) List(ctx context.Context) ([]domain.Product, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("product_id", "name", "product_group").
		From(table).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Group); err != nil {
			return nil, fmt.Errorf("%w: List - scan product: %v", ErrScanRow, err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return products, nil
}
