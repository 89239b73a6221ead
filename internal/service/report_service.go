package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/qrattend/attendance_service/internal/model"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// reportClassStore занятия группы за период
type reportClassStore interface {
	GetByDateRange(ctx context.Context, groupID int64, from, to time.Time) ([]*model.Class, error)
}

// reportAttendanceStore отметки группы за период
type reportAttendanceStore interface {
	GetByGroupAndPeriod(ctx context.Context, groupID int64, from, to time.Time) ([]*model.AttendanceRecord, error)
}

// reportStore метаданные отчётов
type reportStore interface {
	Create(ctx context.Context, report *model.Report) error
	GetByCreator(ctx context.Context, userID int64) ([]*model.Report, error)
}

// reportUserStore студенты группы
type reportUserStore interface {
	GetByGroupID(ctx context.Context, groupID int64) ([]*model.User, error)
}

// AttendanceRow строка отчёта: сводка посещаемости одного студента
type AttendanceRow struct {
	Student *model.User `json:"student"`
	Total   int         `json:"total"`
	Present int         `json:"present"`
	Late    int         `json:"late"`
	Absent  int         `json:"absent"`
	Rate    float64     `json:"rate"` // доля посещённых занятий, 0..1
}

// GroupAttendanceReport сводка посещаемости группы за период
type GroupAttendanceReport struct {
	GroupID int64           `json:"group_id"`
	From    time.Time       `json:"from"`
	To      time.Time       `json:"to"`
	Rows    []*AttendanceRow `json:"rows"`
}

// ReportService собирает сводки посещаемости и выгружает их в CSV/XLSX
type ReportService struct {
	classRepo      reportClassStore
	attendanceRepo reportAttendanceStore
	userRepo       reportUserStore
	reportRepo     reportStore
	logger         *zap.Logger
}

func NewReportService(
	classRepo reportClassStore,
	attendanceRepo reportAttendanceStore,
	userRepo reportUserStore,
	reportRepo reportStore,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		classRepo:      classRepo,
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		reportRepo:     reportRepo,
		logger:         logger,
	}
}

// BuildGroupReport собирает сводку посещаемости группы за период [from, to).
// Занятие без отметки студента считается пропуском.
func (s *ReportService) BuildGroupReport(ctx context.Context, groupID int64, from, to time.Time) (*GroupAttendanceReport, error) {
	students, err := s.userRepo.GetByGroupID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("get group students: %w", err)
	}

	classes, err := s.classRepo.GetByDateRange(ctx, groupID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get group classes: %w", err)
	}

	records, err := s.attendanceRepo.GetByGroupAndPeriod(ctx, groupID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get group attendance: %w", err)
	}

	type counts struct{ present, late, absent int }
	byStudent := make(map[int64]*counts, len(students))
	for _, student := range students {
		byStudent[student.ID] = &counts{}
	}

	for _, record := range records {
		c, ok := byStudent[record.StudentID]
		if !ok {
			// Студент мог быть переведён из группы после занятия
			continue
		}
		switch record.Status {
		case model.AttendanceStatusPresent:
			c.present++
		case model.AttendanceStatusLate:
			c.late++
		case model.AttendanceStatusAbsent:
			c.absent++
		}
	}

	total := len(classes)
	report := &GroupAttendanceReport{
		GroupID: groupID,
		From:    from,
		To:      to,
	}

	for _, student := range students {
		c := byStudent[student.ID]
		row := &AttendanceRow{
			Student: student,
			Total:   total,
			Present: c.present,
			Late:    c.late,
			Absent:  total - c.present - c.late,
		}
		if total > 0 {
			row.Rate = float64(row.Present+row.Late) / float64(total)
		}
		report.Rows = append(report.Rows, row)
	}

	return report, nil
}

// SaveMeta сохраняет метаданные сформированного отчёта
func (s *ReportService) SaveMeta(ctx context.Context, report *model.Report) error {
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return fmt.Errorf("save report meta: %w", err)
	}

	s.logger.Info("Report saved",
		zap.Int64("report_id", report.ID),
		zap.String("format", report.Format),
		zap.Int64("created_by", report.CreatedBy),
	)

	return nil
}

// GetUserReports возвращает отчёты, созданные пользователем
func (s *ReportService) GetUserReports(ctx context.Context, userID int64) ([]*model.Report, error) {
	return s.reportRepo.GetByCreator(ctx, userID)
}

var reportHeader = []string{"Student", "Total classes", "Present", "Late", "Absent", "Attendance rate"}

// ExportCSV выгружает сводку в CSV
func (s *ReportService) ExportCSV(report *GroupAttendanceReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(reportHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range report.Rows {
		record := []string{
			studentFullName(row.Student),
			strconv.Itoa(row.Total),
			strconv.Itoa(row.Present),
			strconv.Itoa(row.Late),
			strconv.Itoa(row.Absent),
			fmt.Sprintf("%.1f%%", row.Rate*100),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportXLSX выгружает сводку в Excel
func (s *ReportService) ExportXLSX(report *GroupAttendanceReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"

	for col, title := range reportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("set header cell: %w", err)
		}
	}

	for i, row := range report.Rows {
		values := []interface{}{
			studentFullName(row.Student),
			row.Total,
			row.Present,
			row.Late,
			row.Absent,
			fmt.Sprintf("%.1f%%", row.Rate*100),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("set cell: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}

	return buf.Bytes(), nil
}

func studentFullName(student *model.User) string {
	name := student.LastName + " " + student.FirstName
	if student.MiddleName != nil && *student.MiddleName != "" {
		name += " " + *student.MiddleName
	}
	return name
}
