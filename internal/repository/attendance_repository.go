package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/qrattend/attendance_service/internal/model"
	"github.com/qrattend/attendance_service/internal/repository/base"
	"go.uber.org/zap"
)

// AttendanceRepository управляет отметками посещаемости в базе данных
type AttendanceRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewAttendanceRepository(pool *pgxpool.Pool, logger *zap.Logger) *AttendanceRepository {
	return &AttendanceRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

const attendanceColumns = `id, class_id, student_id, ts, status`

// Create создаёт отметку посещаемости
func (r *AttendanceRepository) Create(ctx context.Context, record *model.AttendanceRecord) error {
	query := `
		INSERT INTO attendance_records (class_id, student_id, ts, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.QueryRow(
		ctx,
		query,
		record.ClassID,
		record.StudentID,
		record.Timestamp,
		record.Status,
	).Scan(&record.ID)

	if err != nil {
		return fmt.Errorf("create attendance record: %w", err)
	}

	return nil
}

// ExistsForClassAndStudent проверяет, отмечен ли студент на занятии
func (r *AttendanceRepository) ExistsForClassAndStudent(ctx context.Context, classID, studentID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM attendance_records
			WHERE class_id = $1 AND student_id = $2
		)
	`

	var exists bool
	err := r.QueryRow(ctx, query, classID, studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check attendance record exists: %w", err)
	}

	return exists, nil
}

// GetByClassID получает отметки занятия
func (r *AttendanceRepository) GetByClassID(ctx context.Context, classID int64) ([]*model.AttendanceRecord, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE class_id = $1 ORDER BY ts`

	return r.queryRecords(ctx, query, classID)
}

// GetByStudentID получает отметки студента
func (r *AttendanceRepository) GetByStudentID(ctx context.Context, studentID int64) ([]*model.AttendanceRecord, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE student_id = $1 ORDER BY ts DESC`

	return r.queryRecords(ctx, query, studentID)
}

// GetAll получает все отметки
func (r *AttendanceRepository) GetAll(ctx context.Context) ([]*model.AttendanceRecord, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance_records ORDER BY ts DESC`

	return r.queryRecords(ctx, query)
}

// GetByGroupAndPeriod получает отметки студентов группы за период [from, to)
func (r *AttendanceRepository) GetByGroupAndPeriod(ctx context.Context, groupID int64, from, to time.Time) ([]*model.AttendanceRecord, error) {
	query := `
		SELECT ar.id, ar.class_id, ar.student_id, ar.ts, ar.status
		FROM attendance_records ar
		JOIN classes c ON c.id = ar.class_id
		WHERE c.group_id = $1 AND c.date >= $2 AND c.date < $3
		ORDER BY ar.ts
	`

	return r.queryRecords(ctx, query, groupID, from, to)
}

func (r *AttendanceRepository) queryRecords(ctx context.Context, query string, args ...interface{}) ([]*model.AttendanceRecord, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attendance records: %w", err)
	}
	defer rows.Close()

	var records []*model.AttendanceRecord
	for rows.Next() {
		record := &model.AttendanceRecord{}
		err := rows.Scan(
			&record.ID,
			&record.ClassID,
			&record.StudentID,
			&record.Timestamp,
			&record.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("scan attendance record: %w", err)
		}
		records = append(records, record)
	}

	return records, nil
}
