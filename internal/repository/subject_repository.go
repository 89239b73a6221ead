package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/qrattend/attendance_service/internal/model"
	"github.com/qrattend/attendance_service/internal/repository/base"
	"go.uber.org/zap"
)

// SubjectRepository управляет предметами в базе данных
type SubjectRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewSubjectRepository(pool *pgxpool.Pool, logger *zap.Logger) *SubjectRepository {
	return &SubjectRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// Create создаёт новый предмет
func (r *SubjectRepository) Create(ctx context.Context, subject *model.Subject) error {
	query := `INSERT INTO subjects (name, department_id) VALUES ($1, $2) RETURNING id`

	err := r.QueryRow(ctx, query, subject.Name, subject.DepartmentID).Scan(&subject.ID)
	if err != nil {
		return fmt.Errorf("create subject: %w", err)
	}

	return nil
}

// GetByID получает предмет по ID
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*model.Subject, error) {
	query := `SELECT id, name, department_id FROM subjects WHERE id = $1`

	subject := &model.Subject{}
	err := r.QueryRow(ctx, query, id).Scan(&subject.ID, &subject.Name, &subject.DepartmentID)
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get subject by id: %w", err)
	}

	return subject, nil
}

// GetAll получает все предметы
func (r *SubjectRepository) GetAll(ctx context.Context) ([]*model.Subject, error) {
	query := `SELECT id, name, department_id FROM subjects ORDER BY name`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all subjects: %w", err)
	}
	defer rows.Close()

	var subjects []*model.Subject
	for rows.Next() {
		subject := &model.Subject{}
		if err := rows.Scan(&subject.ID, &subject.Name, &subject.DepartmentID); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		subjects = append(subjects, subject)
	}

	return subjects, nil
}

// GetByDepartmentID получает предметы кафедры
func (r *SubjectRepository) GetByDepartmentID(ctx context.Context, departmentID int64) ([]*model.Subject, error) {
	query := `SELECT id, name, department_id FROM subjects WHERE department_id = $1 ORDER BY name`

	rows, err := r.Query(ctx, query, departmentID)
	if err != nil {
		return nil, fmt.Errorf("get subjects by department: %w", err)
	}
	defer rows.Close()

	var subjects []*model.Subject
	for rows.Next() {
		subject := &model.Subject{}
		if err := rows.Scan(&subject.ID, &subject.Name, &subject.DepartmentID); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		subjects = append(subjects, subject)
	}

	return subjects, nil
}

// Update обновляет предмет
func (r *SubjectRepository) Update(ctx context.Context, subject *model.Subject) error {
	query := `UPDATE subjects SET name = $2, department_id = $3 WHERE id = $1`

	_, err := r.ExecAffected(ctx, query, subject.ID, subject.Name, subject.DepartmentID)
	if err != nil {
		return fmt.Errorf("update subject: %w", err)
	}

	return nil
}

// Delete удаляет предмет
func (r *SubjectRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM subjects WHERE id = $1`

	_, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}

	return nil
}
