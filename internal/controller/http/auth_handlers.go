package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/qrattend/attendance_service/internal/model"
	"go.uber.org/zap"
)

type registerRequest struct {
	Username   string  `json:"username" validate:"required,min=3"`
	Password   string  `json:"password" validate:"required,min=6"`
	FirstName  string  `json:"first_name" validate:"required"`
	LastName   string  `json:"last_name" validate:"required"`
	MiddleName *string `json:"middle_name"`
	GroupID    int64   `json:"group_id" validate:"required"`
}

// handleRegister самостоятельная регистрация студента.
// Преподавателей и администраторов заводит администратор через /admin/users.
func (ctl *Controller) handleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := ctl.parseAndValidate(c, &req); err != nil {
		return badRequest(c, "invalid request body")
	}

	group, err := ctl.groupRepo.GetByID(c.Context(), req.GroupID)
	if err != nil {
		ctl.logger.Error("Failed to load group", zap.Error(err))
		return internalError(c)
	}
	if group == nil {
		return badRequest(c, "group not found")
	}

	user := &model.User{
		Username:   req.Username,
		Role:       model.RoleStudent,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		MiddleName: req.MiddleName,
		GroupID:    &req.GroupID,
	}

	if err := ctl.userService.Register(c.Context(), user, req.Password); err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (ctl *Controller) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := ctl.parseAndValidate(c, &req); err != nil {
		return badRequest(c, "invalid request body")
	}

	user, err := ctl.userService.Authenticate(c.Context(), req.Username, req.Password)
	if err != nil {
		return serviceError(c, err)
	}

	sess, err := ctl.store.Get(c)
	if err != nil {
		ctl.logger.Error("Failed to load session", zap.Error(err))
		return internalError(c)
	}

	sess.Set(sessionKeyUserID, user.ID)
	sess.Set(sessionKeyRole, string(user.Role))
	if err := sess.Save(); err != nil {
		ctl.logger.Error("Failed to save session", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(user)
}

func (ctl *Controller) handleLogout(c *fiber.Ctx) error {
	sess, err := ctl.store.Get(c)
	if err != nil {
		ctl.logger.Error("Failed to load session", zap.Error(err))
		return internalError(c)
	}

	if err := sess.Destroy(); err != nil {
		ctl.logger.Error("Failed to destroy session", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (ctl *Controller) handleMe(c *fiber.Ctx) error {
	userID, err := ctl.currentUserID(c)
	if err != nil {
		return internalError(c)
	}

	user, err := ctl.userService.GetByID(c.Context(), userID)
	if err != nil {
		ctl.logger.Error("Failed to load user", zap.Error(err))
		return internalError(c)
	}
	if user == nil {
		return notFound(c, "User not found")
	}

	return c.JSON(user)
}
