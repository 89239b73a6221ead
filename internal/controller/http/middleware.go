package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/qrattend/attendance_service/internal/model"
	"go.uber.org/zap"
)

const (
	sessionKeyUserID = "userId"
	sessionKeyRole   = "role"
)

// requireAuth пропускает только запросы с живой сессией
func (ctl *Controller) requireAuth(c *fiber.Ctx) error {
	sess, err := ctl.store.Get(c)
	if err != nil {
		ctl.logger.Error("Failed to load session", zap.Error(err))
		return internalError(c)
	}

	if sess.Get(sessionKeyUserID) == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
	}

	return c.Next()
}

// requireRole пропускает только пользователей с одной из ролей
func (ctl *Controller) requireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := ctl.store.Get(c)
		if err != nil {
			ctl.logger.Error("Failed to load session", zap.Error(err))
			return internalError(c)
		}

		role, _ := sess.Get(sessionKeyRole).(string)
		for _, allowed := range roles {
			if role == string(allowed) {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Forbidden"})
	}
}

// currentUserID возвращает ID пользователя из сессии.
// Вызывается только после requireAuth.
func (ctl *Controller) currentUserID(c *fiber.Ctx) (int64, error) {
	sess, err := ctl.store.Get(c)
	if err != nil {
		return 0, err
	}

	id, _ := sess.Get(sessionKeyUserID).(int64)
	return id, nil
}
