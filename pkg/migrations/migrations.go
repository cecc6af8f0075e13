package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var embedded embed.FS

// Logger интерфейс логгера goose
type Logger interface {
	Printf(format string, v ...interface{})
	Fatalf(format string, v ...interface{})
}

// Up применяет все встроенные миграции
func Up(db *sql.DB, log Logger) error {
	if log != nil {
		goose.SetLogger(log)
	}
	goose.SetBaseFS(embedded)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrations: set dialect: %w", err)
	}

	if err := goose.Up(db, "sql"); err != nil {
		return fmt.Errorf("migrations: up: %w", err)
	}

	return nil
}

// Version возвращает текущую версию схемы
func Version(db *sql.DB) (int64, error) {
	goose.SetBaseFS(embedded)
	if err := goose.SetDialect("postgres"); err != nil {
		return 0, fmt.Errorf("migrations: set dialect: %w", err)
	}
	return goose.GetDBVersion(db)
}
