package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/qrattend/attendance_service/internal/model"
	"go.uber.org/zap"
)

// Окно допуска при сравнении текущего времени с началом пары.
// Должно быть не меньше интервала опроса планировщика (минута),
// иначе пара может быть пропущена из-за дрожания таймера.
const startTolerance = 60 * time.Second

// scheduleStore читает пары недельного расписания
type scheduleStore interface {
	GetAll(ctx context.Context) ([]*model.Schedule, error)
}

// classStore создаёт занятия и проверяет их существование
type classStore interface {
	Create(ctx context.Context, class *model.Class) (bool, error)
	ExistsForScheduleOnDate(ctx context.Context, scheduleID int64, date time.Time) (bool, error)
}

// Notifier уведомляет внешних подписчиков об автоматически открытом занятии
type Notifier interface {
	ClassOpened(ctx context.Context, class *model.Class)
}

// ScheduleService создаёт занятия из недельного расписания.
// Раз в минуту планировщик вызывает MaterializeDueClasses: сервис находит
// пары, подошедшие по дню недели, чётности недели и времени начала,
// и для каждой создаёт занятие на сегодня, если его ещё нет.
type ScheduleService struct {
	scheduleRepo scheduleStore
	classRepo    classStore
	cache        *ClassListCache
	notifier     Notifier
	logger       *zap.Logger
	now          func() time.Time
}

func NewScheduleService(
	scheduleRepo scheduleStore,
	classRepo classStore,
	cache *ClassListCache,
	notifier Notifier,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		classRepo:    classRepo,
		cache:        cache,
		notifier:     notifier,
		logger:       logger,
		now:          time.Now,
	}
}

// WeekNumber возвращает номер учебной недели для даты.
// Формула унаследована от прежней версии системы и должна совпадать с ней,
// чтобы чётность недель не сдвинулась для уже введённых расписаний:
// неделя = ceil((день года + день недели 1 января + 1) / 7),
// где день недели считается от воскресенья (0). Время суток не учитывается.
func WeekNumber(t time.Time) int {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	return (t.YearDay() - 1 + int(jan1.Weekday()) + 7) / 7
}

// IsOddWeek сообщает, нечётная ли учебная неделя
func IsOddWeek(t time.Time) bool {
	return WeekNumber(t)%2 == 1
}

// Weekday возвращает день недели в нумерации расписания: 1 = понедельник, 7 = воскресенье
func Weekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// MaterializeDueClasses выполняет один проход создания занятий: находит пары
// расписания, начинающиеся прямо сейчас, и создаёт для них занятия на сегодня.
// Ошибка по отдельной паре логируется и не прерывает проход, ошибка чтения
// расписания прерывает весь проход - следующий тик повторит попытку.
func (s *ScheduleService) MaterializeDueClasses(ctx context.Context) error {
	now := s.now()

	schedules, err := s.scheduleRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("get all schedules: %w", err)
	}

	due := s.dueSchedules(now, schedules)
	for _, schedule := range due {
		s.materializeClass(ctx, schedule, now)
	}

	return nil
}

// dueSchedules отбирает пары, которые должны начаться в момент now:
// совпадает день недели, подходит чётность недели и время начала
// отстоит от now не более чем на окно допуска.
func (s *ScheduleService) dueSchedules(now time.Time, schedules []*model.Schedule) []*model.Schedule {
	currentDay := Weekday(now)
	oddWeek := IsOddWeek(now)

	var due []*model.Schedule
	for _, schedule := range schedules {
		if schedule.DayOfWeek != currentDay {
			continue
		}
		if !weekTypeMatches(schedule.WeekType, oddWeek) {
			continue
		}

		start, err := timeOfDayOn(now, schedule.StartTime)
		if err != nil {
			// Битое время в одной паре не должно останавливать остальные
			s.logger.Warn("Skipping schedule with malformed start time",
				zap.Int64("schedule_id", schedule.ID),
				zap.String("start_time", schedule.StartTime),
				zap.Error(err),
			)
			continue
		}

		diff := now.Sub(start)
		if diff < 0 {
			diff = -diff
		}
		if diff <= startTolerance {
			due = append(due, schedule)
		}
	}

	return due
}

// materializeClass создаёт занятие на сегодня из пары расписания,
// если оно ещё не создано. Существование проверяется по паре
// (schedule_id, дата); уникальный индекс в базе закрывает гонку
// между проверкой и вставкой.
func (s *ScheduleService) materializeClass(ctx context.Context, schedule *model.Schedule, now time.Time) {
	day := startOfDay(now)

	exists, err := s.classRepo.ExistsForScheduleOnDate(ctx, schedule.ID, day)
	if err != nil {
		s.logger.Error("Failed to check existing class",
			zap.Error(err),
			zap.Int64("schedule_id", schedule.ID),
		)
		return
	}
	if exists {
		s.logger.Debug("Class already exists for schedule today, skipping",
			zap.Int64("schedule_id", schedule.ID),
		)
		return
	}

	start, err := timeOfDayOn(now, schedule.StartTime)
	if err != nil {
		s.logger.Warn("Skipping schedule with malformed start time",
			zap.Int64("schedule_id", schedule.ID),
			zap.Error(err),
		)
		return
	}
	end, err := timeOfDayOn(now, schedule.EndTime)
	if err != nil {
		s.logger.Warn("Skipping schedule with malformed end time",
			zap.Int64("schedule_id", schedule.ID),
			zap.Error(err),
		)
		return
	}

	scheduleID := schedule.ID
	class := &model.Class{
		ScheduleID: &scheduleID,
		SubjectID:  schedule.SubjectID,
		TeacherID:  schedule.TeacherID,
		GroupID:    schedule.GroupID,
		Classroom:  schedule.Classroom,
		Date:       day,
		StartTime:  start,
		EndTime:    end,
		QRCode:     nil, // токен назначается преподавателем при открытии QR
		IsActive:   true,
	}

	created, err := s.classRepo.Create(ctx, class)
	if err != nil {
		s.logger.Error("Failed to create class from schedule",
			zap.Error(err),
			zap.Int64("schedule_id", schedule.ID),
		)
		return
	}
	if !created {
		// Параллельный проход или ручное создание успели раньше
		s.logger.Debug("Class insert skipped by unique constraint",
			zap.Int64("schedule_id", schedule.ID),
		)
		return
	}

	// Список занятий преподавателя устарел
	s.cache.Invalidate(schedule.TeacherID)

	if s.notifier != nil {
		s.notifier.ClassOpened(ctx, class)
	}

	s.logger.Info("Class created from schedule",
		zap.Int64("class_id", class.ID),
		zap.Int64("schedule_id", schedule.ID),
		zap.Int64("group_id", schedule.GroupID),
		zap.Int64("subject_id", schedule.SubjectID),
		zap.Int64("teacher_id", schedule.TeacherID),
		zap.String("start_time", schedule.StartTime),
		zap.String("classroom", schedule.Classroom),
	)
}

// weekTypeMatches проверяет, действует ли пара на неделе данной чётности
func weekTypeMatches(weekType model.WeekType, oddWeek bool) bool {
	switch weekType {
	case model.WeekTypeOdd:
		return oddWeek
	case model.WeekTypeEven:
		return !oddWeek
	default:
		return true
	}
}

// timeOfDayOn совмещает календарную дату момента t со временем "HH:MM"
func timeOfDayOn(t time.Time, timeOfDay string) (time.Time, error) {
	hour, minute, err := parseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location()), nil
}

// parseTimeOfDay разбирает время вида "HH:MM"
func parseTimeOfDay(value string) (int, int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time of day %q", value)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", value)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", value)
	}

	return hour, minute, nil
}

// startOfDay нормализует время к началу дня
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
