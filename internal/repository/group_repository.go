package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/qrattend/attendance_service/internal/model"
	"github.com/qrattend/attendance_service/internal/repository/base"
	"go.uber.org/zap"
)

// GroupRepository управляет учебными группами в базе данных
type GroupRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewGroupRepository(pool *pgxpool.Pool, logger *zap.Logger) *GroupRepository {
	return &GroupRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// Create создаёт новую группу
func (r *GroupRepository) Create(ctx context.Context, group *model.Group) error {
	query := `INSERT INTO groups (name, department_id) VALUES ($1, $2) RETURNING id`

	err := r.QueryRow(ctx, query, group.Name, group.DepartmentID).Scan(&group.ID)
	if err != nil {
		return fmt.Errorf("create group: %w", err)
	}

	return nil
}

// GetByID получает группу по ID
func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	query := `SELECT id, name, department_id FROM groups WHERE id = $1`

	group := &model.Group{}
	err := r.QueryRow(ctx, query, id).Scan(&group.ID, &group.Name, &group.DepartmentID)
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get group by id: %w", err)
	}

	return group, nil
}

// GetAll получает все группы
func (r *GroupRepository) GetAll(ctx context.Context) ([]*model.Group, error) {
	query := `SELECT id, name, department_id FROM groups ORDER BY name`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all groups: %w", err)
	}
	defer rows.Close()

	var groups []*model.Group
	for rows.Next() {
		group := &model.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.DepartmentID); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, group)
	}

	return groups, nil
}

// Update обновляет группу
func (r *GroupRepository) Update(ctx context.Context, group *model.Group) error {
	query := `UPDATE groups SET name = $2, department_id = $3 WHERE id = $1`

	_, err := r.ExecAffected(ctx, query, group.ID, group.Name, group.DepartmentID)
	if err != nil {
		return fmt.Errorf("update group: %w", err)
	}

	return nil
}

// Delete удаляет группу
func (r *GroupRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM groups WHERE id = $1`

	_, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}

	return nil
}
