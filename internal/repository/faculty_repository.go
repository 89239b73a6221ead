package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/qrattend/attendance_service/internal/model"
	"github.com/qrattend/attendance_service/internal/repository/base"
	"go.uber.org/zap"
)

// FacultyRepository управляет факультетами в базе данных
type FacultyRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewFacultyRepository(pool *pgxpool.Pool, logger *zap.Logger) *FacultyRepository {
	return &FacultyRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// Create создаёт новый факультет
func (r *FacultyRepository) Create(ctx context.Context, faculty *model.Faculty) error {
	query := `INSERT INTO faculties (name) VALUES ($1) RETURNING id`

	err := r.QueryRow(ctx, query, faculty.Name).Scan(&faculty.ID)
	if err != nil {
		return fmt.Errorf("create faculty: %w", err)
	}

	return nil
}

// GetByID получает факультет по ID
func (r *FacultyRepository) GetByID(ctx context.Context, id int64) (*model.Faculty, error) {
	query := `SELECT id, name FROM faculties WHERE id = $1`

	faculty := &model.Faculty{}
	err := r.QueryRow(ctx, query, id).Scan(&faculty.ID, &faculty.Name)
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get faculty by id: %w", err)
	}

	return faculty, nil
}

// GetAll получает все факультеты
func (r *FacultyRepository) GetAll(ctx context.Context) ([]*model.Faculty, error) {
	query := `SELECT id, name FROM faculties ORDER BY name`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all faculties: %w", err)
	}
	defer rows.Close()

	var faculties []*model.Faculty
	for rows.Next() {
		faculty := &model.Faculty{}
		if err := rows.Scan(&faculty.ID, &faculty.Name); err != nil {
			return nil, fmt.Errorf("scan faculty: %w", err)
		}
		faculties = append(faculties, faculty)
	}

	return faculties, nil
}

// Update обновляет факультет
func (r *FacultyRepository) Update(ctx context.Context, faculty *model.Faculty) error {
	query := `UPDATE faculties SET name = $2 WHERE id = $1`

	_, err := r.ExecAffected(ctx, query, faculty.ID, faculty.Name)
	if err != nil {
		return fmt.Errorf("update faculty: %w", err)
	}

	return nil
}

// Delete удаляет факультет
func (r *FacultyRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM faculties WHERE id = $1`

	_, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete faculty: %w", err)
	}

	return nil
}
