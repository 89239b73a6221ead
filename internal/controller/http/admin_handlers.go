package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/qrattend/attendance_service/internal/model"
	"go.uber.org/zap"
)

// --- Факультеты ---

type facultyRequest struct {
	Name string `json:"name" validate:"required"`
}

func (ctl *Controller) handleListFaculties(c *fiber.Ctx) error {
	faculties, err := ctl.facultyRepo.GetAll(c.Context())
	if err != nil {
		ctl.logger.Error("Failed to list faculties", zap.Error(err))
		return internalError(c)
	}
	return c.JSON(faculties)
}

func (ctl *Controller) handleCreateFaculty(c *fiber.Ctx) error {
	var req facultyRequest
	if err := ctl.parseAndValidate(c, &req); err != nil {
		return badRequest(c, "invalid request body")
	}

	faculty := &model.Faculty{Name: req.Name}
	if err := ctl.facultyRepo.Create(c.Context(), faculty); err != nil {
		ctl.logger.Error("Failed to create faculty", zap.Error(err))
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(faculty)
}

func (ctl *Controller) handleUpdateFaculty(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	var req facultyRequest
	if err := ctl.parseAndValidate(c, &req); err != nil {
		return badRequest(c, "invalid request body")
	}

	faculty := &model.Faculty{ID: id, Name: req.Name}
	if err := ctl.facultyRepo.Update(c.Context(), faculty); err != nil {
		ctl.logger.Error("Failed to update faculty", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(faculty)
}

func (ctl *Controller) handleDeleteFaculty(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	if err := ctl.facultyRepo.Delete(c.Context(), id); err != nil {
		ctl.logger.Error("Failed to delete faculty", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(fiber.Map{"message": "Faculty deleted"})
}

// --- Кафедры ---

type departmentRequest struct {
	Name      string `json:"name" validate:"required"`
	FacultyID int64  `json:"faculty_id" validate:"required"`
}

func (ctl *Controller) handleListDepartments(c *fiber.Ctx) error {
	departments, err := ctl.departmentRepo.GetAll(c.Context())
	if err != nil {
		ctl.logger.Error("Failed to list departments", zap.Error(err))
		return internalError(c)
	}
	return c.JSON(departments)
}

func (ctl *Controller) handleCreateDepartment(c *fiber.Ctx) error {
	var req departmentRequest
	if err := ctl.parseAndValidate(c, &req); err != nil {
		return badRequest(c, "invalid request body")
	}

	department := &model.Department{Name: req.Name, FacultyID: req.FacultyID}
	if err := ctl.departmentRepo.Create(c.Context(), department); err != nil {
		ctl.logger.Error("Failed to create department", zap.Error(err))
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(department)
}

func (ctl *Controller) handleUpdateDepartment(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	var req departmentRequest
	if err := ctl.parseAndValidate(c, &req); err != nil {
		return badRequest(c, "invalid request body")
	}

	department := &model.Department{ID: id, Name: req.Name, FacultyID: req.FacultyID}
	if err := ctl.departmentRepo.Update(c.Context(), department); err != nil {
		ctl.logger.Error("Failed to update department", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(department)
}

func (ctl *Controller) handleDeleteDepartment(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	if err := ctl.departmentRepo.Delete(c.Context(), id); err != nil {
		ctl.logger.Error("Failed to delete department", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(fiber.Map{"message": "Department deleted"})
}

// --- Группы ---

type groupRequest struct {
	Name         string `json:"name" validate:"required"`
	DepartmentID int64  `json:"department_id" validate:"required"`
}

func (ctl *Controller) handleListGroups(c *fiber.Ctx) error {
	groups, err := ctl.groupRepo.GetAll(c.Context())
	if err != nil {
		ctl.logger.Error("Failed to list groups", zap.Error(err))
		return internalError(c)
	}
	return c.JSON(groups)
}

func (ctl *Controller) handleCreateGroup(c *fiber.Ctx) error {
	var req groupRequest
	if err := ctl.parseAndValidate(c, &req); err != nil {
		return badRequest(c, "invalid request body")
	}

	group := &model.Group{Name: req.Name, DepartmentID: req.DepartmentID}
	if err := ctl.groupRepo.Create(c.Context(), group); err != nil {
		ctl.logger.Error("Failed to create group", zap.Error(err))
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(group)
}

func (ctl *Controller) handleUpdateGroup(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	var req groupRequest
	if err := ctl.parseAndValidate(c, &req); err != nil {
		return badRequest(c, "invalid request body")
	}

	group := &model.Group{ID: id, Name: req.Name, DepartmentID: req.DepartmentID}
	if err := ctl.groupRepo.Update(c.Context(), group); err != nil {
		ctl.logger.Error("Failed to update group", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(group)
}

func (ctl *Controller) handleDeleteGroup(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	if err := ctl.groupRepo.Delete(c.Context(), id); err != nil {
		ctl.logger.Error("Failed to delete group", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(fiber.Map{"message": "Group deleted"})
}

// --- Предметы ---

type subjectRequest struct {
	Name         string `json:"name" validate:"required"`
	DepartmentID int64  `json:"department_id" validate:"required"`
}

func (ctl *Controller) handleListSubjects(c *fiber.Ctx) error {
	subjects, err := ctl.subjectRepo.GetAll(c.Context())
	if err != nil {
		ctl.logger.Error("Failed to list subjects", zap.Error(err))
		return internalError(c)
	}
	return c.JSON(subjects)
}

func (ctl *Controller) handleCreateSubject(c *fiber.Ctx) error {
	var req subjectRequest
	if err := ctl.parseAndValidate(c, &req); err != nil {
		return badRequest(c, "invalid request body")
	}

	subject := &model.Subject{Name: req.Name, DepartmentID: req.DepartmentID}
	if err := ctl.subjectRepo.Create(c.Context(), subject); err != nil {
		ctl.logger.Error("Failed to create subject", zap.Error(err))
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(subject)
}

func (ctl *Controller) handleUpdateSubject(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	var req subjectRequest
	if err := ctl.parseAndValidate(c, &req); err != nil {
		return badRequest(c, "invalid request body")
	}

	subject := &model.Subject{ID: id, Name: req.Name, DepartmentID: req.DepartmentID}
	if err := ctl.subjectRepo.Update(c.Context(), subject); err != nil {
		ctl.logger.Error("Failed to update subject", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(subject)
}

func (ctl *Controller) handleDeleteSubject(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	if err := ctl.subjectRepo.Delete(c.Context(), id); err != nil {
		ctl.logger.Error("Failed to delete subject", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(fiber.Map{"message": "Subject deleted"})
}

// --- Пользователи ---

type userRequest struct {
	Username       string  `json:"username" validate:"required,min=3"`
	Password       string  `json:"password"`
	Role           string  `json:"role" validate:"required,oneof=student teacher admin"`
	FirstName      string  `json:"first_name" validate:"required"`
	LastName       string  `json:"last_name" validate:"required"`
	MiddleName     *string `json:"middle_name"`
	GroupID        *int64  `json:"group_id"`
	DepartmentID   *int64  `json:"department_id"`
	TelegramChatID *int64  `json:"telegram_chat_id"`
}

func (ctl *Controller) handleListUsers(c *fiber.Ctx) error {
	users, err := ctl.userService.GetAll(c.Context())
	if err != nil {
		ctl.logger.Error("Failed to list users", zap.Error(err))
		return internalError(c)
	}
	return c.JSON(users)
}

func (ctl *Controller) handleCreateUser(c *fiber.Ctx) error {
	var req userRequest
	if err := ctl.parseAndValidate(c, &req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if len(req.Password) < 6 {
		return badRequest(c, "password must be at least 6 characters")
	}

	user := &model.User{
		Username:       req.Username,
		Role:           model.Role(req.Role),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		MiddleName:     req.MiddleName,
		GroupID:        req.GroupID,
		DepartmentID:   req.DepartmentID,
		TelegramChatID: req.TelegramChatID,
	}

	if err := ctl.userService.Register(c.Context(), user, req.Password); err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

func (ctl *Controller) handleUpdateUser(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	var req userRequest
	if err := ctl.parseAndValidate(c, &req); err != nil {
		return badRequest(c, "invalid request body")
	}

	user := &model.User{
		ID:             id,
		Username:       req.Username,
		Role:           model.Role(req.Role),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		MiddleName:     req.MiddleName,
		GroupID:        req.GroupID,
		DepartmentID:   req.DepartmentID,
		TelegramChatID: req.TelegramChatID,
	}

	if err := ctl.userService.Update(c.Context(), user); err != nil {
		return serviceError(c, err)
	}

	if req.Password != "" {
		if err := ctl.userService.ChangePassword(c.Context(), id, req.Password); err != nil {
			return serviceError(c, err)
		}
	}

	return c.JSON(user)
}

func (ctl *Controller) handleDeleteUser(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	if err := ctl.userService.Delete(c.Context(), id); err != nil {
		ctl.logger.Error("Failed to delete user", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(fiber.Map{"message": "User deleted"})
}

// --- Расписание ---

type scheduleRequest struct {
	GroupID   int64  `json:"group_id" validate:"required"`
	SubjectID int64  `json:"subject_id" validate:"required"`
	TeacherID int64  `json:"teacher_id" validate:"required"`
	DayOfWeek int    `json:"day_of_week" validate:"required,min=1,max=7"`
	StartTime string `json:"start_time" validate:"required,len=5"`
	EndTime   string `json:"end_time" validate:"required,len=5"`
	WeekType  string `json:"week_type" validate:"required,oneof=odd even both"`
	Classroom string `json:"classroom" validate:"required"`
}

func (ctl *Controller) handleListSchedules(c *fiber.Ctx) error {
	schedules, err := ctl.scheduleRepo.GetAll(c.Context())
	if err != nil {
		ctl.logger.Error("Failed to list schedules", zap.Error(err))
		return internalError(c)
	}
	return c.JSON(schedules)
}

func (ctl *Controller) handleCreateSchedule(c *fiber.Ctx) error {
	var req scheduleRequest
	if err := ctl.parseAndValidate(c, &req); err != nil {
		return badRequest(c, "invalid request body")
	}

	schedule := &model.Schedule{
		GroupID:   req.GroupID,
		SubjectID: req.SubjectID,
		TeacherID: req.TeacherID,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		WeekType:  model.WeekType(req.WeekType),
		Classroom: req.Classroom,
	}

	if err := ctl.scheduleRepo.Create(c.Context(), schedule); err != nil {
		ctl.logger.Error("Failed to create schedule", zap.Error(err))
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(schedule)
}

func (ctl *Controller) handleUpdateSchedule(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	var req scheduleRequest
	if err := ctl.parseAndValidate(c, &req); err != nil {
		return badRequest(c, "invalid request body")
	}

	schedule := &model.Schedule{
		ID:        id,
		GroupID:   req.GroupID,
		SubjectID: req.SubjectID,
		TeacherID: req.TeacherID,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		WeekType:  model.WeekType(req.WeekType),
		Classroom: req.Classroom,
	}

	if err := ctl.scheduleRepo.Update(c.Context(), schedule); err != nil {
		ctl.logger.Error("Failed to update schedule", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(schedule)
}

func (ctl *Controller) handleDeleteSchedule(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	if err := ctl.scheduleRepo.Delete(c.Context(), id); err != nil {
		ctl.logger.Error("Failed to delete schedule", zap.Error(err))
		return internalError(c)
	}

	return c.JSON(fiber.Map{"message": "Schedule deleted"})
}

// --- Сводные списки ---

func (ctl *Controller) handleAdminClasses(c *fiber.Ctx) error {
	classes, err := ctl.classService.GetAllClasses(c.Context())
	if err != nil {
		ctl.logger.Error("Failed to list classes", zap.Error(err))
		return internalError(c)
	}
	return c.JSON(classes)
}

func (ctl *Controller) handleAdminAttendance(c *fiber.Ctx) error {
	records, err := ctl.attendanceService.GetAllRecords(c.Context())
	if err != nil {
		ctl.logger.Error("Failed to list attendance records", zap.Error(err))
		return internalError(c)
	}
	return c.JSON(records)
}
