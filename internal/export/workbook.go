// Package export renders the workshop schedule as an Excel workbook.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/m04kA/SMC-WorkloadService/internal/domain"
)

// Sheet names
const (
	SheetSchedule = "Workshop schedule"
	SheetItems    = "Items"
)

const timestampLayout = "2006-01-02 15:04"

var scheduleHeaders = []interface{}{
	"Opportunity ID", "Number", "Name", "Client", "Status", "Hire type",
	"Date out", "Time out", "Total hours", "Crew size", "Include weekends",
	"Planned finish", "Working days", "Start build", "Built", "Synced at", "Link",
}

var itemHeaders = []interface{}{"Opportunity ID", "Name", "Item", "Hours"}

// Options controls optional workbook content
type Options struct {
	// OpportunityURL is prefixed to the opportunity id to build the Link column.
	// Empty disables links.
	OpportunityURL string
}

// WriteWorkshop writes the schedule of snapshots to w as XLSX.
// Snapshots are written in the given order.
func WriteWorkshop(w io.Writer, snapshots []*domain.Snapshot, opts Options) error {
	f, err := Workshop(snapshots, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Workshop builds the workbook in memory. The caller must Close it.
func Workshop(snapshots []*domain.Snapshot, opts Options) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetSchedule); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetItems); err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet %s: %w", SheetItems, err)
	}

	if err := writeSchedule(f, snapshots, opts); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeItems(f, snapshots); err != nil {
		f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeSchedule(f *excelize.File, snapshots []*domain.Snapshot, opts Options) error {
	if err := writeHeader(f, SheetSchedule, scheduleHeaders); err != nil {
		return err
	}

	linkCol, _ := excelize.ColumnNumberToName(len(scheduleHeaders))

	for i, s := range snapshots {
		row := i + 2
		values := []interface{}{
			s.OpportunityID,
			s.Number,
			s.Name,
			s.ClientName,
			s.Status,
			string(s.HireType),
			s.DateOut.String(),
			s.TimeOut.String(),
			s.TotalHours,
			s.CrewSize,
			yesNo(s.IncludeWeekends),
			"",
			s.WorkingDays,
			s.StartBuildDate.String(),
			yesNo(s.Built),
			s.SyncedAt.Format(timestampLayout),
			"",
		}
		if s.PlannedFinishDate != nil {
			values[11] = s.PlannedFinishDate.String()
		}

		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetSchedule, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}

		if opts.OpportunityURL != "" {
			link := opts.OpportunityURL + strconv.FormatInt(s.OpportunityID, 10)
			linkCell := linkCol + strconv.Itoa(row)
			if err := f.SetCellValue(SheetSchedule, linkCell, link); err != nil {
				return fmt.Errorf("write link %d: %w", row, err)
			}
			if err := f.SetCellHyperLink(SheetSchedule, linkCell, link, "External"); err != nil {
				return fmt.Errorf("write link %d: %w", row, err)
			}
		}
	}

	return f.SetColWidth(SheetSchedule, "A", linkCol, 16)
}

func writeItems(f *excelize.File, snapshots []*domain.Snapshot) error {
	if err := writeHeader(f, SheetItems, itemHeaders); err != nil {
		return err
	}

	row := 2
	for _, s := range snapshots {
		for _, it := range s.Items {
			values := []interface{}{s.OpportunityID, s.Name, it.Name, it.Hours}
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(SheetItems, cell, &values); err != nil {
				return fmt.Errorf("write item row %d: %w", row, err)
			}
			row++
		}
	}

	return f.SetColWidth(SheetItems, "A", "D", 20)
}

func writeHeader(f *excelize.File, sheet string, headers []interface{}) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	return nil
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
