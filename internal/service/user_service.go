package service

import (
	"context"
	"fmt"

	"github.com/qrattend/attendance_service/internal/model"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// userStore операции над пользователями, нужные сервису пользователей
type userStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetAll(ctx context.Context) ([]*model.User, error)
	GetByGroupID(ctx context.Context, groupID int64) ([]*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

// UserService регистрация, аутентификация и управление пользователями
type UserService struct {
	userRepo userStore
	logger   *zap.Logger
}

func NewUserService(userRepo userStore, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Register создаёт нового пользователя с захэшированным паролем
func (s *UserService) Register(ctx context.Context, user *model.User, password string) error {
	existing, err := s.userRepo.GetByUsername(ctx, user.Username)
	if err != nil {
		return fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("New user registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
	)

	return nil
}

// Authenticate проверяет логин и пароль
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetByID получает пользователя по ID
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetAll возвращает всех пользователей
func (s *UserService) GetAll(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.GetAll(ctx)
}

// GetGroupStudents возвращает студентов группы
func (s *UserService) GetGroupStudents(ctx context.Context, groupID int64) ([]*model.User, error) {
	return s.userRepo.GetByGroupID(ctx, groupID)
}

// Update обновляет данные пользователя
func (s *UserService) Update(ctx context.Context, user *model.User) error {
	existing, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if existing == nil {
		return ErrUserNotFound
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

// ChangePassword задаёт пользователю новый пароль
func (s *UserService) ChangePassword(ctx context.Context, id int64, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, id, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return nil
}

// Delete удаляет пользователя
func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.userRepo.Delete(ctx, id)
}
