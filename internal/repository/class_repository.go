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

// ClassRepository управляет занятиями в базе данных
type ClassRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewClassRepository(pool *pgxpool.Pool, logger *zap.Logger) *ClassRepository {
	return &ClassRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

const classColumns = `id, schedule_id, subject_id, teacher_id, group_id, classroom, date, start_time, end_time, qr_code, is_active`

// Create создаёт новое занятие.
// Для занятий из расписания (schedule_id не NULL) действует уникальный
// индекс (schedule_id, date): при конфликте вставка молча пропускается
// и возвращается created = false.
func (r *ClassRepository) Create(ctx context.Context, class *model.Class) (bool, error) {
	query := `
		INSERT INTO classes (schedule_id, subject_id, teacher_id, group_id, classroom, date, start_time, end_time, qr_code, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (schedule_id, date) DO NOTHING
		RETURNING id
	`

	err := r.QueryRow(
		ctx,
		query,
		class.ScheduleID,
		class.SubjectID,
		class.TeacherID,
		class.GroupID,
		class.Classroom,
		class.Date,
		class.StartTime,
		class.EndTime,
		class.QRCode,
		class.IsActive,
	).Scan(&class.ID)

	if base.IsNotFound(err) {
		// Конфликт: занятие для этой пары на эту дату уже существует
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create class: %w", err)
	}

	return true, nil
}

// ExistsForScheduleOnDate проверяет, создано ли уже занятие из пары расписания на дату
func (r *ClassRepository) ExistsForScheduleOnDate(ctx context.Context, scheduleID int64, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM classes
			WHERE schedule_id = $1 AND date = $2
		)
	`

	var exists bool
	err := r.QueryRow(ctx, query, scheduleID, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check class exists: %w", err)
	}

	return exists, nil
}

// GetByID получает занятие по ID
func (r *ClassRepository) GetByID(ctx context.Context, id int64) (*model.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE id = $1`

	class := &model.Class{}
	err := r.QueryRow(ctx, query, id).Scan(
		&class.ID,
		&class.ScheduleID,
		&class.SubjectID,
		&class.TeacherID,
		&class.GroupID,
		&class.Classroom,
		&class.Date,
		&class.StartTime,
		&class.EndTime,
		&class.QRCode,
		&class.IsActive,
	)

	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get class by id: %w", err)
	}

	return class, nil
}

// GetActiveByQRCode получает активное занятие по QR-токену
func (r *ClassRepository) GetActiveByQRCode(ctx context.Context, qrCode string) (*model.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE qr_code = $1 AND is_active = true`

	class := &model.Class{}
	err := r.QueryRow(ctx, query, qrCode).Scan(
		&class.ID,
		&class.ScheduleID,
		&class.SubjectID,
		&class.TeacherID,
		&class.GroupID,
		&class.Classroom,
		&class.Date,
		&class.StartTime,
		&class.EndTime,
		&class.QRCode,
		&class.IsActive,
	)

	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active class by qr code: %w", err)
	}

	return class, nil
}

// GetAll получает все занятия
func (r *ClassRepository) GetAll(ctx context.Context) ([]*model.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes ORDER BY start_time DESC`

	return r.queryClasses(ctx, query)
}

// GetByTeacherID получает занятия преподавателя
func (r *ClassRepository) GetByTeacherID(ctx context.Context, teacherID int64) ([]*model.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE teacher_id = $1 ORDER BY start_time DESC`

	return r.queryClasses(ctx, query, teacherID)
}

// GetByGroupID получает занятия группы
func (r *ClassRepository) GetByGroupID(ctx context.Context, groupID int64) ([]*model.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE group_id = $1 ORDER BY start_time DESC`

	return r.queryClasses(ctx, query, groupID)
}

// GetByDateRange получает занятия группы за период [from, to)
func (r *ClassRepository) GetByDateRange(ctx context.Context, groupID int64, from, to time.Time) ([]*model.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE group_id = $1 AND date >= $2 AND date < $3 ORDER BY start_time`

	return r.queryClasses(ctx, query, groupID, from, to)
}

// SetQRCode устанавливает или сбрасывает QR-токен занятия
func (r *ClassRepository) SetQRCode(ctx context.Context, id int64, qrCode *string) error {
	query := `UPDATE classes SET qr_code = $2 WHERE id = $1`

	_, err := r.ExecAffected(ctx, query, id, qrCode)
	if err != nil {
		return fmt.Errorf("set class qr code: %w", err)
	}

	return nil
}

// Finish завершает занятие: снимает активность и сбрасывает QR-токен
func (r *ClassRepository) Finish(ctx context.Context, id int64) error {
	query := `UPDATE classes SET is_active = false, qr_code = NULL WHERE id = $1`

	_, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("finish class: %w", err)
	}

	return nil
}

// Delete удаляет занятие
func (r *ClassRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM classes WHERE id = $1`

	_, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}

	return nil
}

func (r *ClassRepository) queryClasses(ctx context.Context, query string, args ...interface{}) ([]*model.Class, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query classes: %w", err)
	}
	defer rows.Close()

	var classes []*model.Class
	for rows.Next() {
		class := &model.Class{}
		err := rows.Scan(
			&class.ID,
			&class.ScheduleID,
			&class.SubjectID,
			&class.TeacherID,
			&class.GroupID,
			&class.Classroom,
			&class.Date,
			&class.StartTime,
			&class.EndTime,
			&class.QRCode,
			&class.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		classes = append(classes, class)
	}

	return classes, nil
}
