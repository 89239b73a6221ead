package http

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/qrattend/attendance_service/internal/model"
	"github.com/qrattend/attendance_service/internal/repository"
	"github.com/qrattend/attendance_service/internal/service"
	"go.uber.org/zap"
)

// Controller собирает HTTP-обработчики поверх сервисов и репозиториев
type Controller struct {
	userService       *service.UserService
	classService      *service.ClassService
	attendanceService *service.AttendanceService
	reportService     *service.ReportService

	facultyRepo    *repository.FacultyRepository
	departmentRepo *repository.DepartmentRepository
	groupRepo      *repository.GroupRepository
	subjectRepo    *repository.SubjectRepository
	scheduleRepo   *repository.ScheduleRepository

	store    *session.Store
	validate *validator.Validate
	logger   *zap.Logger
}

func NewController(
	userService *service.UserService,
	classService *service.ClassService,
	attendanceService *service.AttendanceService,
	reportService *service.ReportService,
	facultyRepo *repository.FacultyRepository,
	departmentRepo *repository.DepartmentRepository,
	groupRepo *repository.GroupRepository,
	subjectRepo *repository.SubjectRepository,
	scheduleRepo *repository.ScheduleRepository,
	logger *zap.Logger,
) *Controller {
	store := session.New(session.Config{
		Expiration:     24 * time.Hour,
		CookieHTTPOnly: true,
	})

	return &Controller{
		userService:       userService,
		classService:      classService,
		attendanceService: attendanceService,
		reportService:     reportService,
		facultyRepo:       facultyRepo,
		departmentRepo:    departmentRepo,
		groupRepo:         groupRepo,
		subjectRepo:       subjectRepo,
		scheduleRepo:      scheduleRepo,
		store:             store,
		validate:          validator.New(),
		logger:            logger,
	}
}

// RegisterRoutes привязывает все маршруты к приложению
func (ctl *Controller) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Аутентификация
	api.Post("/register", ctl.handleRegister)
	api.Post("/login", ctl.handleLogin)
	api.Post("/logout", ctl.handleLogout)
	api.Get("/me", ctl.requireAuth, ctl.handleMe)

	// Администрирование справочников
	admin := api.Group("/admin", ctl.requireAuth, ctl.requireRole(model.RoleAdmin))
	admin.Get("/faculties", ctl.handleListFaculties)
	admin.Post("/faculties", ctl.handleCreateFaculty)
	admin.Put("/faculties/:id", ctl.handleUpdateFaculty)
	admin.Delete("/faculties/:id", ctl.handleDeleteFaculty)

	admin.Get("/departments", ctl.handleListDepartments)
	admin.Post("/departments", ctl.handleCreateDepartment)
	admin.Put("/departments/:id", ctl.handleUpdateDepartment)
	admin.Delete("/departments/:id", ctl.handleDeleteDepartment)

	admin.Get("/groups", ctl.handleListGroups)
	admin.Post("/groups", ctl.handleCreateGroup)
	admin.Put("/groups/:id", ctl.handleUpdateGroup)
	admin.Delete("/groups/:id", ctl.handleDeleteGroup)

	admin.Get("/subjects", ctl.handleListSubjects)
	admin.Post("/subjects", ctl.handleCreateSubject)
	admin.Put("/subjects/:id", ctl.handleUpdateSubject)
	admin.Delete("/subjects/:id", ctl.handleDeleteSubject)

	admin.Get("/users", ctl.handleListUsers)
	admin.Post("/users", ctl.handleCreateUser)
	admin.Put("/users/:id", ctl.handleUpdateUser)
	admin.Delete("/users/:id", ctl.handleDeleteUser)

	admin.Get("/schedules", ctl.handleListSchedules)
	admin.Post("/schedules", ctl.handleCreateSchedule)
	admin.Put("/schedules/:id", ctl.handleUpdateSchedule)
	admin.Delete("/schedules/:id", ctl.handleDeleteSchedule)

	admin.Get("/classes", ctl.handleAdminClasses)
	admin.Get("/attendance", ctl.handleAdminAttendance)

	// Кабинет преподавателя
	teacher := api.Group("/teacher", ctl.requireAuth, ctl.requireRole(model.RoleTeacher, model.RoleAdmin))
	teacher.Get("/classes", ctl.handleTeacherClasses)
	teacher.Post("/classes", ctl.handleCreateClass)
	teacher.Put("/classes/:id/end", ctl.handleFinishClass)
	teacher.Post("/classes/:id/qr", ctl.handleRotateQR)
	teacher.Get("/classes/:id/attendance", ctl.handleClassAttendance)
	teacher.Post("/classes/:id/miss", ctl.handleMarkMissing)
	teacher.Get("/groups/:id/schedule.png", ctl.handleGroupScheduleImage)

	// Отчёты доступны администраторам и преподавателям
	reports := api.Group("/reports", ctl.requireAuth, ctl.requireRole(model.RoleAdmin, model.RoleTeacher))
	reports.Get("/", ctl.handleListReports)
	reports.Post("/", ctl.handleBuildReport)

	// Кабинет студента
	student := api.Group("/student", ctl.requireAuth, ctl.requireRole(model.RoleStudent))
	student.Get("/classes", ctl.handleStudentClasses)
	student.Get("/attendance", ctl.handleStudentAttendance)
	student.Post("/attendance", ctl.handleCheckIn)
}
