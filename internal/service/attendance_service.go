package service

import (
	"context"
	"fmt"
	"time"

	"github.com/qrattend/attendance_service/internal/model"
	"go.uber.org/zap"
)

// Опоздание фиксируется, если студент отметился позже этого срока после начала пары
const lateGracePeriod = 15 * time.Minute

// activeClassStore поиск активного занятия по QR-токену
type activeClassStore interface {
	GetActiveByQRCode(ctx context.Context, qrCode string) (*model.Class, error)
}

// studentStore доступ к данным студента
type studentStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// checkinStore операции над отметками, нужные сервису посещаемости
type checkinStore interface {
	Create(ctx context.Context, record *model.AttendanceRecord) error
	ExistsForClassAndStudent(ctx context.Context, classID, studentID int64) (bool, error)
	GetByStudentID(ctx context.Context, studentID int64) ([]*model.AttendanceRecord, error)
	GetAll(ctx context.Context) ([]*model.AttendanceRecord, error)
}

// AttendanceService отмечает посещение по отсканированному QR-коду
type AttendanceService struct {
	classRepo      activeClassStore
	userRepo       studentStore
	attendanceRepo checkinStore
	logger         *zap.Logger
	now            func() time.Time
}

func NewAttendanceService(
	classRepo activeClassStore,
	userRepo studentStore,
	attendanceRepo checkinStore,
	logger *zap.Logger,
) *AttendanceService {
	return &AttendanceService{
		classRepo:      classRepo,
		userRepo:       userRepo,
		attendanceRepo: attendanceRepo,
		logger:         logger,
		now:            time.Now,
	}
}

// CheckIn отмечает студента на занятии по QR-токену.
// Токен действителен только для активного занятия, студент должен состоять
// в группе занятия и не иметь отметки. Отметка позже 15 минут от начала
// пары получает статус "late", иначе "present".
func (s *AttendanceService) CheckIn(ctx context.Context, studentID int64, qrCode string) (*model.AttendanceRecord, error) {
	class, err := s.classRepo.GetActiveByQRCode(ctx, qrCode)
	if err != nil {
		return nil, fmt.Errorf("find class by qr code: %w", err)
	}
	if class == nil {
		return nil, ErrInvalidQRCode
	}

	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil || student.GroupID == nil || *student.GroupID != class.GroupID {
		return nil, ErrNotEnrolled
	}

	recorded, err := s.attendanceRepo.ExistsForClassAndStudent(ctx, class.ID, studentID)
	if err != nil {
		return nil, fmt.Errorf("check existing record: %w", err)
	}
	if recorded {
		return nil, ErrAlreadyRecorded
	}

	now := s.now()
	status := model.AttendanceStatusPresent
	if now.After(class.StartTime.Add(lateGracePeriod)) {
		status = model.AttendanceStatusLate
	}

	record := &model.AttendanceRecord{
		ClassID:   class.ID,
		StudentID: studentID,
		Timestamp: now,
		Status:    status,
	}

	if err := s.attendanceRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("create attendance record: %w", err)
	}

	s.logger.Info("Attendance recorded",
		zap.Int64("class_id", class.ID),
		zap.Int64("student_id", studentID),
		zap.String("status", string(record.Status)),
	)

	return record, nil
}

// GetStudentAttendance возвращает все отметки студента
func (s *AttendanceService) GetStudentAttendance(ctx context.Context, studentID int64) ([]*model.AttendanceRecord, error) {
	return s.attendanceRepo.GetByStudentID(ctx, studentID)
}

// GetAllRecords возвращает все отметки посещаемости
func (s *AttendanceService) GetAllRecords(ctx context.Context) ([]*model.AttendanceRecord, error) {
	return s.attendanceRepo.GetAll(ctx)
}
