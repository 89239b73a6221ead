package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/qrattend/attendance_service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReportClassStore struct {
	classes []*model.Class
}

func (f *fakeReportClassStore) GetByDateRange(ctx context.Context, groupID int64, from, to time.Time) ([]*model.Class, error) {
	return f.classes, nil
}

type fakeReportAttendanceStore struct {
	records []*model.AttendanceRecord
}

func (f *fakeReportAttendanceStore) GetByGroupAndPeriod(ctx context.Context, groupID int64, from, to time.Time) ([]*model.AttendanceRecord, error) {
	return f.records, nil
}

type fakeReportUserStore struct {
	students []*model.User
}

func (f *fakeReportUserStore) GetByGroupID(ctx context.Context, groupID int64) ([]*model.User, error) {
	return f.students, nil
}

type fakeReportStore struct {
	reports []*model.Report
}

func (f *fakeReportStore) Create(ctx context.Context, report *model.Report) error {
	report.ID = int64(len(f.reports) + 1)
	report.CreatedAt = time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)
	f.reports = append(f.reports, report)
	return nil
}

func (f *fakeReportStore) GetByCreator(ctx context.Context, userID int64) ([]*model.Report, error) {
	return f.reports, nil
}

func newReportFixture() *ReportService {
	students := []*model.User{
		{ID: 1, FirstName: "Иван", LastName: "Петров"},
		{ID: 2, FirstName: "Анна", LastName: "Сидорова"},
	}
	classes := []*model.Class{{ID: 10}, {ID: 11}, {ID: 12}, {ID: 13}}
	records := []*model.AttendanceRecord{
		{ClassID: 10, StudentID: 1, Status: model.AttendanceStatusPresent},
		{ClassID: 11, StudentID: 1, Status: model.AttendanceStatusLate},
		{ClassID: 12, StudentID: 1, Status: model.AttendanceStatusPresent},
		{ClassID: 10, StudentID: 2, Status: model.AttendanceStatusPresent},
		// Отметка студента, уже переведённого из группы
		{ClassID: 10, StudentID: 99, Status: model.AttendanceStatusPresent},
	}

	return NewReportService(
		&fakeReportClassStore{classes: classes},
		&fakeReportAttendanceStore{records: records},
		&fakeReportUserStore{students: students},
		&fakeReportStore{},
		zap.NewNop(),
	)
}

func TestBuildGroupReport(t *testing.T) {
	svc := newReportFixture()

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	report, err := svc.BuildGroupReport(context.Background(), 7, from, to)
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)

	first := report.Rows[0]
	assert.Equal(t, int64(1), first.Student.ID)
	assert.Equal(t, 4, first.Total)
	assert.Equal(t, 2, first.Present)
	assert.Equal(t, 1, first.Late)
	// Занятие без отметки считается пропуском
	assert.Equal(t, 1, first.Absent)
	assert.InDelta(t, 0.75, first.Rate, 1e-9)

	second := report.Rows[1]
	assert.Equal(t, int64(2), second.Student.ID)
	assert.Equal(t, 1, second.Present)
	assert.Equal(t, 3, second.Absent)
	assert.InDelta(t, 0.25, second.Rate, 1e-9)
}

func TestBuildGroupReportEmptyPeriod(t *testing.T) {
	svc := NewReportService(
		&fakeReportClassStore{},
		&fakeReportAttendanceStore{},
		&fakeReportUserStore{students: []*model.User{{ID: 1, FirstName: "Иван", LastName: "Петров"}}},
		&fakeReportStore{},
		zap.NewNop(),
	)

	report, err := svc.BuildGroupReport(context.Background(), 7,
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)

	assert.Zero(t, report.Rows[0].Total)
	assert.Zero(t, report.Rows[0].Rate)
}

func TestExportCSV(t *testing.T) {
	svc := newReportFixture()

	report, err := svc.BuildGroupReport(context.Background(), 7,
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	data, err := svc.ExportCSV(report)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Student,Total classes,Present,Late,Absent,Attendance rate", lines[0])
	assert.Equal(t, "Петров Иван,4,2,1,1,75.0%", lines[1])
	assert.Equal(t, "Сидорова Анна,4,1,0,3,25.0%", lines[2])
}

func TestExportXLSX(t *testing.T) {
	svc := newReportFixture()

	report, err := svc.BuildGroupReport(context.Background(), 7,
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	data, err := svc.ExportXLSX(report)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	// XLSX - это zip-архив
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}

func TestStudentFullName(t *testing.T) {
	middle := "Сергеевич"
	assert.Equal(t, "Петров Иван Сергеевич", studentFullName(&model.User{
		FirstName: "Иван", LastName: "Петров", MiddleName: &middle,
	}))
	assert.Equal(t, "Петров Иван", studentFullName(&model.User{
		FirstName: "Иван", LastName: "Петров",
	}))
}
