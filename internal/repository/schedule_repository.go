package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/qrattend/attendance_service/internal/model"
	"github.com/qrattend/attendance_service/internal/repository/base"
	"go.uber.org/zap"
)

// ScheduleRepository управляет парами недельного расписания в базе данных
type ScheduleRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewScheduleRepository(pool *pgxpool.Pool, logger *zap.Logger) *ScheduleRepository {
	return &ScheduleRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

const scheduleColumns = `id, group_id, subject_id, teacher_id, day_of_week, start_time, end_time, week_type, classroom`

// Create создаёт новую пару расписания
func (r *ScheduleRepository) Create(ctx context.Context, schedule *model.Schedule) error {
	query := `
		INSERT INTO schedules (group_id, subject_id, teacher_id, day_of_week, start_time, end_time, week_type, classroom)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.QueryRow(
		ctx,
		query,
		schedule.GroupID,
		schedule.SubjectID,
		schedule.TeacherID,
		schedule.DayOfWeek,
		schedule.StartTime,
		schedule.EndTime,
		schedule.WeekType,
		schedule.Classroom,
	).Scan(&schedule.ID)

	if err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}

	return nil
}

// GetByID получает пару расписания по ID
func (r *ScheduleRepository) GetByID(ctx context.Context, id int64) (*model.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`

	schedule := &model.Schedule{}
	err := r.QueryRow(ctx, query, id).Scan(
		&schedule.ID,
		&schedule.GroupID,
		&schedule.SubjectID,
		&schedule.TeacherID,
		&schedule.DayOfWeek,
		&schedule.StartTime,
		&schedule.EndTime,
		&schedule.WeekType,
		&schedule.Classroom,
	)

	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule by id: %w", err)
	}

	return schedule, nil
}

// GetAll получает все пары расписания
func (r *ScheduleRepository) GetAll(ctx context.Context) ([]*model.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules ORDER BY day_of_week, start_time`

	return r.querySchedules(ctx, query)
}

// GetByGroupID получает расписание группы
func (r *ScheduleRepository) GetByGroupID(ctx context.Context, groupID int64) ([]*model.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE group_id = $1 ORDER BY day_of_week, start_time`

	return r.querySchedules(ctx, query, groupID)
}

// GetByTeacherID получает расписание преподавателя
func (r *ScheduleRepository) GetByTeacherID(ctx context.Context, teacherID int64) ([]*model.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE teacher_id = $1 ORDER BY day_of_week, start_time`

	return r.querySchedules(ctx, query, teacherID)
}

// Update обновляет пару расписания
func (r *ScheduleRepository) Update(ctx context.Context, schedule *model.Schedule) error {
	query := `
		UPDATE schedules
		SET group_id = $2, subject_id = $3, teacher_id = $4, day_of_week = $5, start_time = $6, end_time = $7, week_type = $8, classroom = $9
		WHERE id = $1
	`

	_, err := r.ExecAffected(
		ctx,
		query,
		schedule.ID,
		schedule.GroupID,
		schedule.SubjectID,
		schedule.TeacherID,
		schedule.DayOfWeek,
		schedule.StartTime,
		schedule.EndTime,
		schedule.WeekType,
		schedule.Classroom,
	)
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}

	return nil
}

// Delete удаляет пару расписания
func (r *ScheduleRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM schedules WHERE id = $1`

	_, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}

	return nil
}

func (r *ScheduleRepository) querySchedules(ctx context.Context, query string, args ...interface{}) ([]*model.Schedule, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*model.Schedule
	for rows.Next() {
		schedule := &model.Schedule{}
		err := rows.Scan(
			&schedule.ID,
			&schedule.GroupID,
			&schedule.SubjectID,
			&schedule.TeacherID,
			&schedule.DayOfWeek,
			&schedule.StartTime,
			&schedule.EndTime,
			&schedule.WeekType,
			&schedule.Classroom,
		)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, schedule)
	}

	return schedules, nil
}
