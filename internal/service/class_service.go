package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/qrattend/attendance_service/internal/model"
	"go.uber.org/zap"
)

// classListStore операции над занятиями, нужные сервису занятий
type classListStore interface {
	Create(ctx context.Context, class *model.Class) (bool, error)
	GetByID(ctx context.Context, id int64) (*model.Class, error)
	GetByTeacherID(ctx context.Context, teacherID int64) ([]*model.Class, error)
	GetByGroupID(ctx context.Context, groupID int64) ([]*model.Class, error)
	GetAll(ctx context.Context) ([]*model.Class, error)
	SetQRCode(ctx context.Context, id int64, qrCode *string) error
	Finish(ctx context.Context, id int64) error
}

// groupMemberStore доступ к студентам группы
type groupMemberStore interface {
	GetByGroupID(ctx context.Context, groupID int64) ([]*model.User, error)
}

// attendanceStore операции над отметками, нужные сервису занятий
type attendanceStore interface {
	Create(ctx context.Context, record *model.AttendanceRecord) error
	GetByClassID(ctx context.Context, classID int64) ([]*model.AttendanceRecord, error)
}

// ClassService управляет жизненным циклом занятий: ручное создание,
// ротация QR-токена, завершение, отметка отсутствующих.
type ClassService struct {
	classRepo      classListStore
	userRepo       groupMemberStore
	attendanceRepo attendanceStore
	cache          *ClassListCache
	logger         *zap.Logger
	now            func() time.Time
}

func NewClassService(
	classRepo classListStore,
	userRepo groupMemberStore,
	attendanceRepo attendanceStore,
	cache *ClassListCache,
	logger *zap.Logger,
) *ClassService {
	return &ClassService{
		classRepo:      classRepo,
		userRepo:       userRepo,
		attendanceRepo: attendanceRepo,
		cache:          cache,
		logger:         logger,
		now:            time.Now,
	}
}

// GetTeacherClasses возвращает занятия преподавателя, по возможности из кэша
func (s *ClassService) GetTeacherClasses(ctx context.Context, teacherID int64) ([]*model.Class, error) {
	if classes, ok := s.cache.Get(teacherID); ok {
		return classes, nil
	}

	classes, err := s.classRepo.GetByTeacherID(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("get teacher classes: %w", err)
	}

	s.cache.Set(teacherID, classes)
	return classes, nil
}

// GetGroupClasses возвращает занятия группы
func (s *ClassService) GetGroupClasses(ctx context.Context, groupID int64) ([]*model.Class, error) {
	return s.classRepo.GetByGroupID(ctx, groupID)
}

// GetAllClasses возвращает все занятия
func (s *ClassService) GetAllClasses(ctx context.Context) ([]*model.Class, error) {
	return s.classRepo.GetAll(ctx)
}

// CreateClass создаёт занятие вручную (вне расписания)
func (s *ClassService) CreateClass(ctx context.Context, teacherID, subjectID, groupID int64, classroom string, startTime, endTime time.Time) (*model.Class, error) {
	class := &model.Class{
		ScheduleID: nil, // ручное занятие не привязано к расписанию
		SubjectID:  subjectID,
		TeacherID:  teacherID,
		GroupID:    groupID,
		Classroom:  classroom,
		Date:       startOfDay(startTime),
		StartTime:  startTime,
		EndTime:    endTime,
		QRCode:     nil,
		IsActive:   true,
	}

	if _, err := s.classRepo.Create(ctx, class); err != nil {
		return nil, fmt.Errorf("create class: %w", err)
	}

	s.cache.Invalidate(teacherID)

	s.logger.Info("Class created manually",
		zap.Int64("class_id", class.ID),
		zap.Int64("teacher_id", teacherID),
		zap.Int64("group_id", groupID),
		zap.Int64("subject_id", subjectID),
	)

	return class, nil
}

// FinishClass завершает занятие: снимает активность и сбрасывает QR-токен
func (s *ClassService) FinishClass(ctx context.Context, teacherID, classID int64) (*model.Class, error) {
	class, err := s.ownedClass(ctx, teacherID, classID)
	if err != nil {
		return nil, err
	}

	if err := s.classRepo.Finish(ctx, classID); err != nil {
		return nil, fmt.Errorf("finish class: %w", err)
	}

	class.IsActive = false
	class.QRCode = nil
	s.cache.Invalidate(teacherID)

	s.logger.Info("Class finished",
		zap.Int64("class_id", classID),
		zap.Int64("teacher_id", teacherID),
	)

	return class, nil
}

// RotateQRCode выпускает новый QR-токен активного занятия.
// Старый токен при этом перестаёт действовать.
func (s *ClassService) RotateQRCode(ctx context.Context, teacherID, classID int64) (string, error) {
	class, err := s.ownedClass(ctx, teacherID, classID)
	if err != nil {
		return "", err
	}
	if !class.IsActive {
		return "", ErrClassNotActive
	}

	token := uuid.NewString()
	if err := s.classRepo.SetQRCode(ctx, classID, &token); err != nil {
		return "", fmt.Errorf("rotate qr code: %w", err)
	}

	s.cache.Invalidate(teacherID)

	s.logger.Info("QR code rotated",
		zap.Int64("class_id", classID),
		zap.Int64("teacher_id", teacherID),
	)

	return token, nil
}

// GetClassAttendance возвращает отметки занятия преподавателя
func (s *ClassService) GetClassAttendance(ctx context.Context, teacherID, classID int64) ([]*model.AttendanceRecord, error) {
	if _, err := s.ownedClass(ctx, teacherID, classID); err != nil {
		return nil, err
	}

	return s.attendanceRepo.GetByClassID(ctx, classID)
}

// MarkMissing проставляет "absent" всем студентам группы, у которых нет
// отметки на занятии. Возвращает количество созданных отметок.
func (s *ClassService) MarkMissing(ctx context.Context, teacherID, classID int64) (int, error) {
	class, err := s.ownedClass(ctx, teacherID, classID)
	if err != nil {
		return 0, err
	}

	students, err := s.userRepo.GetByGroupID(ctx, class.GroupID)
	if err != nil {
		return 0, fmt.Errorf("get group students: %w", err)
	}

	records, err := s.attendanceRepo.GetByClassID(ctx, classID)
	if err != nil {
		return 0, fmt.Errorf("get class attendance: %w", err)
	}

	marked := make(map[int64]bool, len(records))
	for _, record := range records {
		marked[record.StudentID] = true
	}

	now := s.now()
	count := 0
	for _, student := range students {
		if marked[student.ID] {
			continue
		}

		record := &model.AttendanceRecord{
			ClassID:   classID,
			StudentID: student.ID,
			Timestamp: now,
			Status:    model.AttendanceStatusAbsent,
		}
		if err := s.attendanceRepo.Create(ctx, record); err != nil {
			return count, fmt.Errorf("create absent record: %w", err)
		}
		count++
	}

	s.logger.Info("Missing students marked absent",
		zap.Int64("class_id", classID),
		zap.Int("marked_count", count),
	)

	return count, nil
}

// ownedClass возвращает занятие, убедившись что оно принадлежит преподавателю
func (s *ClassService) ownedClass(ctx context.Context, teacherID, classID int64) (*model.Class, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("get class: %w", err)
	}
	if class == nil {
		return nil, ErrClassNotFound
	}
	if class.TeacherID != teacherID {
		return nil, ErrNotClassOwner
	}

	return class, nil
}
