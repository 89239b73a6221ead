package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/qrattend/attendance_service/internal/model"
	"github.com/qrattend/attendance_service/internal/repository/base"
	"go.uber.org/zap"
)

// DepartmentRepository управляет кафедрами в базе данных
type DepartmentRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewDepartmentRepository(pool *pgxpool.Pool, logger *zap.Logger) *DepartmentRepository {
	return &DepartmentRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// Create создаёт новую кафедру
func (r *DepartmentRepository) Create(ctx context.Context, department *model.Department) error {
	query := `INSERT INTO departments (name, faculty_id) VALUES ($1, $2) RETURNING id`

	err := r.QueryRow(ctx, query, department.Name, department.FacultyID).Scan(&department.ID)
	if err != nil {
		return fmt.Errorf("create department: %w", err)
	}

	return nil
}

// GetByID получает кафедру по ID
func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*model.Department, error) {
	query := `SELECT id, name, faculty_id FROM departments WHERE id = $1`

	department := &model.Department{}
	err := r.QueryRow(ctx, query, id).Scan(&department.ID, &department.Name, &department.FacultyID)
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get department by id: %w", err)
	}

	return department, nil
}

// GetAll получает все кафедры
func (r *DepartmentRepository) GetAll(ctx context.Context) ([]*model.Department, error) {
	query := `SELECT id, name, faculty_id FROM departments ORDER BY name`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all departments: %w", err)
	}
	defer rows.Close()

	var departments []*model.Department
	for rows.Next() {
		department := &model.Department{}
		if err := rows.Scan(&department.ID, &department.Name, &department.FacultyID); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		departments = append(departments, department)
	}

	return departments, nil
}

// GetByFacultyID получает кафедры факультета
func (r *DepartmentRepository) GetByFacultyID(ctx context.Context, facultyID int64) ([]*model.Department, error) {
	query := `SELECT id, name, faculty_id FROM departments WHERE faculty_id = $1 ORDER BY name`

	rows, err := r.Query(ctx, query, facultyID)
	if err != nil {
		return nil, fmt.Errorf("get departments by faculty: %w", err)
	}
	defer rows.Close()

	var departments []*model.Department
	for rows.Next() {
		department := &model.Department{}
		if err := rows.Scan(&department.ID, &department.Name, &department.FacultyID); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		departments = append(departments, department)
	}

	return departments, nil
}

// Update обновляет кафедру
func (r *DepartmentRepository) Update(ctx context.Context, department *model.Department) error {
	query := `UPDATE departments SET name = $2, faculty_id = $3 WHERE id = $1`

	_, err := r.ExecAffected(ctx, query, department.ID, department.Name, department.FacultyID)
	if err != nil {
		return fmt.Errorf("update department: %w", err)
	}

	return nil
}

// Delete удаляет кафедру
func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM departments WHERE id = $1`

	_, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete department: %w", err)
	}

	return nil
}
