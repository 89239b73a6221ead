package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/qrattend/attendance_service/internal/service"
)

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": message})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": message})
}

// pathID читает числовой параметр пути
func pathID(c *fiber.Ctx, name string) (int64, error) {
	return strconv.ParseInt(c.Params(name), 10, 64)
}

// parseAndValidate разбирает тело запроса и проверяет его валидатором
func (ctl *Controller) parseAndValidate(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return err
	}
	return ctl.validate.Struct(dst)
}

// serviceError отображает ошибки бизнес-логики на HTTP-статусы
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrClassNotFound), errors.Is(err, service.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, service.ErrNotClassOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, service.ErrInvalidQRCode):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Invalid or expired QR code"})
	case errors.Is(err, service.ErrNotEnrolled):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "You are not enrolled in this class"})
	case errors.Is(err, service.ErrAlreadyRecorded):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Attendance already recorded"})
	case errors.Is(err, service.ErrClassNotActive):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, service.ErrUsernameTaken):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid username or password"})
	default:
		return internalError(c)
	}
}
