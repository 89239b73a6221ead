package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/qrattend/attendance_service/internal/imaging"
	"go.uber.org/zap"
)

func (ctl *Controller) handleTeacherClasses(c *fiber.Ctx) error {
	teacherID, err := ctl.currentUserID(c)
	if err != nil {
		return internalError(c)
	}

	classes, err := ctl.classService.GetTeacherClasses(c.Context(), teacherID)
	if err != nil {
		ctl.logger.Error("Failed to list teacher classes", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(classes)
}

type createClassRequest struct {
	SubjectID int64     `json:"subject_id" validate:"required"`
	GroupID   int64     `json:"group_id" validate:"required"`
	Classroom string    `json:"classroom" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}

// handleCreateClass создаёт внеплановое занятие, не привязанное к расписанию
func (ctl *Controller) handleCreateClass(c *fiber.Ctx) error {
	teacherID, err := ctl.currentUserID(c)
	if err != nil {
		return internalError(c)
	}

	var req createClassRequest
	if err := ctl.parseAndValidate(c, &req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if !req.EndTime.After(req.StartTime) {
		return badRequest(c, "end_time must be after start_time")
	}

	class, err := ctl.classService.CreateClass(c.Context(), teacherID, req.SubjectID, req.GroupID, req.Classroom, req.StartTime, req.EndTime)
	if err != nil {
		ctl.logger.Error("Failed to create class", zap.Error(err))
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(class)
}

func (ctl *Controller) handleFinishClass(c *fiber.Ctx) error {
	teacherID, err := ctl.currentUserID(c)
	if err != nil {
		return internalError(c)
	}

	classID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	class, err := ctl.classService.FinishClass(c.Context(), teacherID, classID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(class)
}

func (ctl *Controller) handleRotateQR(c *fiber.Ctx) error {
	teacherID, err := ctl.currentUserID(c)
	if err != nil {
		return internalError(c)
	}

	classID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	token, err := ctl.classService.RotateQRCode(c.Context(), teacherID, classID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"qr_code": token})
}

func (ctl *Controller) handleClassAttendance(c *fiber.Ctx) error {
	teacherID, err := ctl.currentUserID(c)
	if err != nil {
		return internalError(c)
	}

	classID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	records, err := ctl.classService.GetClassAttendance(c.Context(), teacherID, classID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(records)
}

func (ctl *Controller) handleMarkMissing(c *fiber.Ctx) error {
	teacherID, err := ctl.currentUserID(c)
	if err != nil {
		return internalError(c)
	}

	classID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	count, err := ctl.classService.MarkMissing(c.Context(), teacherID, classID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"marked": count})
}

// handleGroupScheduleImage отдаёт недельное расписание группы картинкой
func (ctl *Controller) handleGroupScheduleImage(c *fiber.Ctx) error {
	groupID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	group, err := ctl.groupRepo.GetByID(c.Context(), groupID)
	if err != nil {
		ctl.logger.Error("Failed to load group", zap.Error(err))
		return internalError(c)
	}
	if group == nil {
		return notFound(c, "Group not found")
	}

	schedules, err := ctl.scheduleRepo.GetByGroupID(c.Context(), groupID)
	if err != nil {
		ctl.logger.Error("Failed to load group schedules", zap.Error(err))
		return internalError(c)
	}

	subjects, err := ctl.subjectRepo.GetAll(c.Context())
	if err != nil {
		ctl.logger.Error("Failed to load subjects", zap.Error(err))
		return internalError(c)
	}
	subjectNames := make(map[int64]string, len(subjects))
	for _, subject := range subjects {
		subjectNames[subject.ID] = subject.Name
	}

	png, err := imaging.GenerateWeekImage(group.Name, schedules, subjectNames)
	if err != nil {
		ctl.logger.Error("Failed to render schedule image", zap.Error(err))
		return internalError(c)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
