package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// handleStudentClasses возвращает занятия группы студента
func (ctl *Controller) handleStudentClasses(c *fiber.Ctx) error {
	studentID, err := ctl.currentUserID(c)
	if err != nil {
		return internalError(c)
	}

	student, err := ctl.userService.GetByID(c.Context(), studentID)
	if err != nil {
		ctl.logger.Error("Failed to load student", zap.Error(err))
		return internalError(c)
	}
	if student == nil || student.GroupID == nil {
		return notFound(c, "Student has no group")
	}

	classes, err := ctl.classService.GetGroupClasses(c.Context(), *student.GroupID)
	if err != nil {
		ctl.logger.Error("Failed to list group classes", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(classes)
}

func (ctl *Controller) handleStudentAttendance(c *fiber.Ctx) error {
	studentID, err := ctl.currentUserID(c)
	if err != nil {
		return internalError(c)
	}

	records, err := ctl.attendanceService.GetStudentAttendance(c.Context(), studentID)
	if err != nil {
		ctl.logger.Error("Failed to list student attendance", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(records)
}

type checkInRequest struct {
	QRCode string `json:"qr_code" validate:"required"`
}

// handleCheckIn отмечает студента по отсканированному QR-коду
func (ctl *Controller) handleCheckIn(c *fiber.Ctx) error {
	studentID, err := ctl.currentUserID(c)
	if err != nil {
		return internalError(c)
	}

	var req checkInRequest
	if err := ctl.parseAndValidate(c, &req); err != nil {
		return badRequest(c, "invalid request body")
	}

	record, err := ctl.attendanceService.CheckIn(c.Context(), studentID, req.QRCode)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}
