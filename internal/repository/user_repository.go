package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/qrattend/attendance_service/internal/model"
	"github.com/qrattend/attendance_service/internal/repository/base"
	"go.uber.org/zap"
)

// UserRepository управляет пользователями в базе данных
type UserRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewUserRepository(pool *pgxpool.Pool, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

const userColumns = `id, username, password_hash, role, first_name, last_name, middle_name, group_id, department_id, telegram_chat_id`

func scanUser(row interface{ Scan(...interface{}) error }) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&user.FirstName,
		&user.LastName,
		&user.MiddleName,
		&user.GroupID,
		&user.DepartmentID,
		&user.TelegramChatID,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create создаёт нового пользователя
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (username, password_hash, role, first_name, last_name, middle_name, group_id, department_id, telegram_chat_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.QueryRow(
		ctx,
		query,
		user.Username,
		user.PasswordHash,
		user.Role,
		user.FirstName,
		user.LastName,
		user.MiddleName,
		user.GroupID,
		user.DepartmentID,
		user.TelegramChatID,
	).Scan(&user.ID)

	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.QueryRow(ctx, query, id))
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

// GetByUsername получает пользователя по логину
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.QueryRow(ctx, query, username))
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}

	return user, nil
}

// GetAll получает всех пользователей
func (r *UserRepository) GetAll(ctx context.Context) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY last_name, first_name`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, nil
}

// GetByGroupID получает всех студентов группы
func (r *UserRepository) GetByGroupID(ctx context.Context, groupID int64) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE group_id = $1 ORDER BY last_name, first_name`

	rows, err := r.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("get users by group: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, nil
}

// Update обновляет пользователя
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET username = $2, role = $3, first_name = $4, last_name = $5, middle_name = $6, group_id = $7, department_id = $8, telegram_chat_id = $9
		WHERE id = $1
	`

	_, err := r.ExecAffected(
		ctx,
		query,
		user.ID,
		user.Username,
		user.Role,
		user.FirstName,
		user.LastName,
		user.MiddleName,
		user.GroupID,
		user.DepartmentID,
		user.TelegramChatID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

// UpdatePassword обновляет хэш пароля пользователя
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2 WHERE id = $1`

	_, err := r.ExecAffected(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	return nil
}

// Delete удаляет пользователя
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`

	_, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	return nil
}
