package model

// Role роль пользователя в системе
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

type User struct {
	ID             int64   `json:"id"`
	Username       string  `json:"username"`
	PasswordHash   string  `json:"-"`
	Role           Role    `json:"role"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	MiddleName     *string `json:"middle_name,omitempty"`
	GroupID        *int64  `json:"group_id,omitempty"`      // только для студентов
	DepartmentID   *int64  `json:"department_id,omitempty"` // только для преподавателей
	TelegramChatID *int64  `json:"telegram_chat_id,omitempty"`
}
