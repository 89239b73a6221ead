package service

import "errors"

// Ошибки бизнес-логики, отображаемые HTTP-слоем на статусы ответов
var (
	ErrClassNotFound      = errors.New("class not found")
	ErrClassNotActive     = errors.New("class is not active")
	ErrNotClassOwner      = errors.New("class belongs to another teacher")
	ErrInvalidQRCode      = errors.New("invalid or expired qr code")
	ErrNotEnrolled        = errors.New("student is not enrolled in this class")
	ErrAlreadyRecorded    = errors.New("attendance already recorded")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrUserNotFound       = errors.New("user not found")
)
