package export_workshop

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-WorkloadService/internal/domain"
	"github.com/m04kA/SMC-WorkloadService/internal/export"
	"github.com/m04kA/SMC-WorkloadService/pkg/types"
)

// UseCase use case выгрузки загрузки цеха в Excel по последней синхронизации
type UseCase struct {
	snapshots SnapshotRepository
	opts      export.Options
	location  *time.Location
	now       func() time.Time
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(snapshots SnapshotRepository, opts export.Options, loc *time.Location, logger Logger) *UseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &UseCase{
		snapshots: snapshots,
		opts:      opts,
		location:  loc,
		now:       time.Now,
		logger:    logger,
	}
}

// Execute строит книгу по снимкам с датой выезда в окне [сегодня, сегодня+days]
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ExportWorkshop: days=%d", req.Days)

	// 1. Валидация входных данных
	if req.Days <= 0 || req.Days > domain.MaxHorizonDays {
		err := fmt.Errorf("%w: days must be in 1..%d", ErrInvalidInput, domain.MaxHorizonDays)
		uc.logger.Warn("ExportWorkshop: validation failed: %v", err)
		return nil, err
	}

	// 2. Снимки окна
	today := types.DateOf(uc.now().In(uc.location))
	snapshots, err := uc.snapshots.ListByDateOut(ctx, today, today.AddDays(req.Days))
	if err != nil {
		uc.logger.Error("ExportWorkshop: failed to list snapshots: %v", err)
		return nil, fmt.Errorf("%w: failed to list snapshots: %v", ErrInternal, err)
	}

	// 3. Книга Excel
	var buf bytes.Buffer
	if err := export.WriteWorkshop(&buf, snapshots, uc.opts); err != nil {
		uc.logger.Error("ExportWorkshop: failed to build workbook: %v", err)
		return nil, fmt.Errorf("%w: failed to build workbook: %v", ErrInternal, err)
	}

	uc.logger.Info("ExportWorkshop: exported %d opportunities", len(snapshots))
	return &Response{
		FileName: fmt.Sprintf("workshop-workload-%s.xlsx", today),
		Content:  buf.Bytes(),
		Rows:     len(snapshots),
	}, nil
}
