package export

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/attendance"
	attendancesvc "github.com/cmlabs-hris/fieldforce-backend-go/internal/service/attendance"
	"github.com/xuri/excelize/v2"
)

const (
	eventsSheet  = "Attendance"
	summarySheet = "Summary"

	// ContentType is the media type of the workbook written by Attendance.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var eventHeader = []any{"Timestamp", "Employee ID", "Employee", "Department", "Kind", "Status", "Distance (m)", "Latitude", "Longitude", "Photo"}

var summaryHeader = []any{"Employee ID", "Employee", "Department", "Present", "Late", "Out of bounds", "Absent", "Check-outs"}

type ExportService interface {
	// Attendance writes the events matching filter as an XLSX workbook: one
	// row per event plus a per-employee summary sheet.
	Attendance(ctx context.Context, filter attendance.ListFilter, w io.Writer) error
}

type exportServiceImpl struct {
	ledger   *attendancesvc.Ledger
	location *time.Location
}

func NewExportService(ledger *attendancesvc.Ledger, location *time.Location) ExportService {
	if location == nil {
		location = time.UTC
	}
	return &exportServiceImpl{ledger: ledger, location: location}
}

type employeeTotals struct {
	id, name, department                          string
	present, late, outOfBounds, absent, checkouts int
}

func (s *exportServiceImpl) Attendance(ctx context.Context, filter attendance.ListFilter, w io.Writer) error {
	if err := filter.Validate(); err != nil {
		return err
	}
	ledgerFilter, err := filter.ToFilter(s.location)
	if err != nil {
		return err
	}

	seq, err := s.ledger.Query(ctx, ledgerFilter)
	if err != nil {
		return fmt.Errorf("failed to query attendance: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", eventsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := writeHeader(f, eventsSheet, eventHeader, bold); err != nil {
		return err
	}

	totals := make(map[string]*employeeTotals)
	row := 2
	for e := range seq {
		if err := f.SetSheetRow(eventsSheet, cellName(1, row), eventRow(e, s.location)); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		row++
		count(totals, e)
	}

	if row > 2 {
		if err := f.AutoFilter(eventsSheet, "A1:"+cellName(len(eventHeader), row-1), nil); err != nil {
			return err
		}
	}

	if err := writeHeader(f, summarySheet, summaryHeader, bold); err != nil {
		return err
	}
	for i, t := range sortedTotals(totals) {
		values := []any{t.id, t.name, t.department, t.present, t.late, t.outOfBounds, t.absent, t.checkouts}
		if err := f.SetSheetRow(summarySheet, cellName(1, i+2), &values); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, header []any, style int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last := cellName(len(header), 1)
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	lastCol, _, _ := excelize.SplitCellName(last)
	if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func eventRow(e attendance.Event, loc *time.Location) *[]any {
	values := []any{
		e.Timestamp.In(loc).Format("2006-01-02 15:04:05"),
		e.EmployeeID,
		e.EmployeeName,
		e.DepartmentID,
		string(e.Kind),
		string(e.Status),
		nil, nil, nil, nil,
	}
	if e.DistanceMeters != nil {
		values[6] = *e.DistanceMeters
	}
	if e.Position != nil {
		values[7] = e.Position.Latitude
		values[8] = e.Position.Longitude
	}
	if e.PhotoRef != nil {
		values[9] = *e.PhotoRef
	}
	return &values
}

func count(totals map[string]*employeeTotals, e attendance.Event) {
	t, ok := totals[e.EmployeeID]
	if !ok {
		t = &employeeTotals{id: e.EmployeeID, name: e.EmployeeName, department: e.DepartmentID}
		totals[e.EmployeeID] = t
	}
	if e.Kind == attendance.KindOut {
		t.checkouts++
		return
	}
	switch e.Status {
	case attendance.StatusPresent:
		t.present++
	case attendance.StatusLate:
		t.late++
	case attendance.StatusOutOfBounds:
		t.outOfBounds++
	case attendance.StatusAbsent:
		t.absent++
	}
}

func sortedTotals(totals map[string]*employeeTotals) []*employeeTotals {
	out := make([]*employeeTotals, 0, len(totals))
	for _, t := range totals {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b *employeeTotals) int {
		return cmp.Or(cmp.Compare(a.name, b.name), cmp.Compare(a.id, b.id))
	})
	return out
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
