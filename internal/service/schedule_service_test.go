package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/qrattend/attendance_service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeScheduleStore struct {
	schedules []*model.Schedule
	err       error
	calls     int
}

func (f *fakeScheduleStore) GetAll(ctx context.Context) ([]*model.Schedule, error) {
	f.calls++
	return f.schedules, f.err
}

type fakeClassStore struct {
	created   []*model.Class
	existing  map[string]bool
	createErr error
	existsErr error

	// conflictOnCreate имитирует гонку: проверка существования говорит "нет",
	// а вставка натыкается на уникальный индекс
	conflictOnCreate bool
}

func newFakeClassStore() *fakeClassStore {
	return &fakeClassStore{existing: map[string]bool{}}
}

func classKey(scheduleID int64, date time.Time) string {
	return fmt.Sprintf("%d|%s", scheduleID, date.Format("2006-01-02"))
}

func (f *fakeClassStore) Create(ctx context.Context, class *model.Class) (bool, error) {
	if f.createErr != nil {
		return false, f.createErr
	}
	if f.conflictOnCreate {
		return false, nil
	}
	key := classKey(*class.ScheduleID, class.Date)
	if f.existing[key] {
		// Так ведёт себя уникальный индекс: вставка молча пропускается
		return false, nil
	}
	f.existing[key] = true
	class.ID = int64(len(f.created) + 1)
	f.created = append(f.created, class)
	return true, nil
}

func (f *fakeClassStore) ExistsForScheduleOnDate(ctx context.Context, scheduleID int64, date time.Time) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.existing[classKey(scheduleID, date)], nil
}

type fakeNotifier struct {
	opened []*model.Class
}

func (f *fakeNotifier) ClassOpened(ctx context.Context, class *model.Class) {
	f.opened = append(f.opened, class)
}

func newTestScheduleService(schedules []*model.Schedule, classes *fakeClassStore, at time.Time) (*ScheduleService, *fakeNotifier) {
	notifier := &fakeNotifier{}
	svc := NewScheduleService(
		&fakeScheduleStore{schedules: schedules},
		classes,
		NewClassListCache(),
		notifier,
		zap.NewNop(),
	)
	svc.now = func() time.Time { return at }
	return svc, notifier
}

func TestWeekNumber(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{"первое января", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 1},
		{"суббота первой недели", time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC), 1},
		{"воскресенье открывает вторую неделю", time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), 2},
		{"среда в начале июня", time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), 23},
		{"среда неделей позже", time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), 24},
		{"первое января високосного года", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1},
		{"конец високосного года", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), 53},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekNumber(tt.date))
		})
	}
}

func TestWeekNumberIgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2025, 6, 4, 0, 0, 1, 0, time.UTC)
	evening := time.Date(2025, 6, 4, 23, 59, 59, 0, time.UTC)

	assert.Equal(t, WeekNumber(morning), WeekNumber(evening))
}

func TestIsOddWeek(t *testing.T) {
	assert.True(t, IsOddWeek(time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)))
	assert.False(t, IsOddWeek(time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)))
}

func TestWeekday(t *testing.T) {
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, Weekday(monday))
	assert.Equal(t, 7, Weekday(sunday))
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		value   string
		hour    int
		minute  int
		wantErr bool
	}{
		{"10:00", 10, 0, false},
		{"00:00", 0, 0, false},
		{"23:59", 23, 59, false},
		{"24:00", 0, 0, true},
		{"10:60", 0, 0, true},
		{"10-00", 0, 0, true},
		{"abc", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			hour, minute, err := parseTimeOfDay(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hour, hour)
			assert.Equal(t, tt.minute, minute)
		})
	}
}

func TestDueSchedulesFilters(t *testing.T) {
	// Среда 4 июня 2025, нечётная неделя, 10:00:30
	now := time.Date(2025, 6, 4, 10, 0, 30, 0, time.UTC)

	tests := []struct {
		name     string
		schedule *model.Schedule
		due      bool
	}{
		{
			"совпадает день, чётность и время",
			&model.Schedule{ID: 1, DayOfWeek: 3, StartTime: "10:00", WeekType: model.WeekTypeBoth},
			true,
		},
		{
			"пара нечётной недели на нечётной неделе",
			&model.Schedule{ID: 2, DayOfWeek: 3, StartTime: "10:00", WeekType: model.WeekTypeOdd},
			true,
		},
		{
			"пара чётной недели на нечётной неделе",
			&model.Schedule{ID: 3, DayOfWeek: 3, StartTime: "10:00", WeekType: model.WeekTypeEven},
			false,
		},
		{
			"другой день недели",
			&model.Schedule{ID: 4, DayOfWeek: 4, StartTime: "10:00", WeekType: model.WeekTypeBoth},
			false,
		},
		{
			"другое время",
			&model.Schedule{ID: 5, DayOfWeek: 3, StartTime: "12:00", WeekType: model.WeekTypeBoth},
			false,
		},
		{
			"битое время начала",
			&model.Schedule{ID: 6, DayOfWeek: 3, StartTime: "25:99", WeekType: model.WeekTypeBoth},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestScheduleService(nil, newFakeClassStore(), now)

			due := svc.dueSchedules(now, []*model.Schedule{tt.schedule})
			if tt.due {
				require.Len(t, due, 1)
				assert.Equal(t, tt.schedule.ID, due[0].ID)
			} else {
				assert.Empty(t, due)
			}
		})
	}
}

func TestDueSchedulesToleranceBoundary(t *testing.T) {
	schedule := &model.Schedule{ID: 1, DayOfWeek: 3, StartTime: "10:00", WeekType: model.WeekTypeBoth}

	tests := []struct {
		name string
		now  time.Time
		due  bool
	}{
		{"ровно в начале пары", time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC), true},
		{"минута после начала", time.Date(2025, 6, 4, 10, 1, 0, 0, time.UTC), true},
		{"минута до начала", time.Date(2025, 6, 4, 9, 59, 0, 0, time.UTC), true},
		{"минута и секунда после", time.Date(2025, 6, 4, 10, 1, 1, 0, time.UTC), false},
		{"минута и секунда до", time.Date(2025, 6, 4, 9, 58, 59, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestScheduleService(nil, newFakeClassStore(), tt.now)

			due := svc.dueSchedules(tt.now, []*model.Schedule{schedule})
			if tt.due {
				assert.Len(t, due, 1)
			} else {
				assert.Empty(t, due)
			}
		})
	}
}

func TestMaterializeDueClasses(t *testing.T) {
	now := time.Date(2025, 6, 4, 10, 0, 30, 0, time.UTC)
	schedule := &model.Schedule{
		ID:        42,
		GroupID:   7,
		SubjectID: 3,
		TeacherID: 11,
		DayOfWeek: 3,
		StartTime: "10:00",
		EndTime:   "11:30",
		WeekType:  model.WeekTypeBoth,
		Classroom: "301",
	}

	classes := newFakeClassStore()
	svc, notifier := newTestScheduleService([]*model.Schedule{schedule}, classes, now)

	require.NoError(t, svc.MaterializeDueClasses(context.Background()))
	require.Len(t, classes.created, 1)

	class := classes.created[0]
	require.NotNil(t, class.ScheduleID)
	assert.Equal(t, int64(42), *class.ScheduleID)
	assert.Equal(t, int64(7), class.GroupID)
	assert.Equal(t, int64(3), class.SubjectID)
	assert.Equal(t, int64(11), class.TeacherID)
	assert.Equal(t, "301", class.Classroom)
	assert.Equal(t, time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), class.Date)
	assert.Equal(t, time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC), class.StartTime)
	assert.Equal(t, time.Date(2025, 6, 4, 11, 30, 0, 0, time.UTC), class.EndTime)
	assert.Nil(t, class.QRCode)
	assert.True(t, class.IsActive)

	require.Len(t, notifier.opened, 1)
	assert.Equal(t, class.ID, notifier.opened[0].ID)
}

func TestMaterializeDueClassesIdempotent(t *testing.T) {
	now := time.Date(2025, 6, 4, 10, 0, 30, 0, time.UTC)
	schedule := &model.Schedule{
		ID: 42, GroupID: 7, SubjectID: 3, TeacherID: 11,
		DayOfWeek: 3, StartTime: "10:00", EndTime: "11:30",
		WeekType: model.WeekTypeBoth, Classroom: "301",
	}

	classes := newFakeClassStore()
	svc, notifier := newTestScheduleService([]*model.Schedule{schedule}, classes, now)

	// Два тика подряд в пределах окна допуска
	require.NoError(t, svc.MaterializeDueClasses(context.Background()))
	svc.now = func() time.Time { return now.Add(30 * time.Second) }
	require.NoError(t, svc.MaterializeDueClasses(context.Background()))

	assert.Len(t, classes.created, 1)
	assert.Len(t, notifier.opened, 1)
}

func TestMaterializeSkipsOnUniqueConflict(t *testing.T) {
	now := time.Date(2025, 6, 4, 10, 0, 30, 0, time.UTC)
	schedule := &model.Schedule{
		ID: 42, GroupID: 7, SubjectID: 3, TeacherID: 11,
		DayOfWeek: 3, StartTime: "10:00", EndTime: "11:30",
		WeekType: model.WeekTypeBoth, Classroom: "301",
	}

	classes := newFakeClassStore()
	classes.conflictOnCreate = true
	svc, notifier := newTestScheduleService([]*model.Schedule{schedule}, classes, now)

	require.NoError(t, svc.MaterializeDueClasses(context.Background()))

	assert.Empty(t, classes.created)
	assert.Empty(t, notifier.opened, "conflicting insert must not notify")
}

func TestMaterializeDueClassesRepoError(t *testing.T) {
	now := time.Date(2025, 6, 4, 10, 0, 30, 0, time.UTC)
	notifier := &fakeNotifier{}
	svc := NewScheduleService(
		&fakeScheduleStore{err: errors.New("connection refused")},
		newFakeClassStore(),
		NewClassListCache(),
		notifier,
		zap.NewNop(),
	)
	svc.now = func() time.Time { return now }

	err := svc.MaterializeDueClasses(context.Background())
	assert.Error(t, err)
	assert.Empty(t, notifier.opened)
}

func TestMaterializeCacheInvalidation(t *testing.T) {
	now := time.Date(2025, 6, 4, 10, 0, 30, 0, time.UTC)
	schedule := &model.Schedule{
		ID: 42, GroupID: 7, SubjectID: 3, TeacherID: 11,
		DayOfWeek: 3, StartTime: "10:00", EndTime: "11:30",
		WeekType: model.WeekTypeBoth, Classroom: "301",
	}

	cache := NewClassListCache()
	cache.Set(11, []*model.Class{{ID: 1}})

	classes := newFakeClassStore()
	svc := NewScheduleService(
		&fakeScheduleStore{schedules: []*model.Schedule{schedule}},
		classes,
		cache,
		nil,
		zap.NewNop(),
	)
	svc.now = func() time.Time { return now }

	require.NoError(t, svc.MaterializeDueClasses(context.Background()))

	_, ok := cache.Get(11)
	assert.False(t, ok, "teacher class list cache should be invalidated")
}

// Полный проход планировщика: из четырёх пар расписания в среду 10:00:30
// нечётной недели занятие создаётся только для той, что совпала по дню,
// времени и чётности.
func TestMaterializeWednesdayMorningPass(t *testing.T) {
	now := time.Date(2025, 6, 4, 10, 0, 30, 0, time.UTC)
	schedules := []*model.Schedule{
		{ID: 1, GroupID: 7, SubjectID: 3, TeacherID: 11, DayOfWeek: 3, StartTime: "10:00", EndTime: "11:30", WeekType: model.WeekTypeBoth, Classroom: "301"},
		{ID: 2, GroupID: 7, SubjectID: 4, TeacherID: 12, DayOfWeek: 3, StartTime: "10:00", EndTime: "11:30", WeekType: model.WeekTypeEven, Classroom: "302"},
		{ID: 3, GroupID: 7, SubjectID: 5, TeacherID: 13, DayOfWeek: 4, StartTime: "10:00", EndTime: "11:30", WeekType: model.WeekTypeBoth, Classroom: "303"},
		{ID: 4, GroupID: 7, SubjectID: 6, TeacherID: 14, DayOfWeek: 3, StartTime: "12:00", EndTime: "13:30", WeekType: model.WeekTypeBoth, Classroom: "304"},
	}

	classes := newFakeClassStore()
	svc, notifier := newTestScheduleService(schedules, classes, now)

	require.NoError(t, svc.MaterializeDueClasses(context.Background()))

	require.Len(t, classes.created, 1)
	require.NotNil(t, classes.created[0].ScheduleID)
	assert.Equal(t, int64(1), *classes.created[0].ScheduleID)
	assert.Len(t, notifier.opened, 1)
}
