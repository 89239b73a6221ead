package service

import (
	"context"
	"testing"
	"time"

	"github.com/qrattend/attendance_service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClassListStore struct {
	classes        map[int64]*model.Class
	nextID         int64
	teacherQueries int
}

func newFakeClassListStore(classes ...*model.Class) *fakeClassListStore {
	store := &fakeClassListStore{classes: map[int64]*model.Class{}}
	for _, class := range classes {
		store.classes[class.ID] = class
		if class.ID > store.nextID {
			store.nextID = class.ID
		}
	}
	return store
}

func (f *fakeClassListStore) Create(ctx context.Context, class *model.Class) (bool, error) {
	f.nextID++
	class.ID = f.nextID
	f.classes[class.ID] = class
	return true, nil
}

func (f *fakeClassListStore) GetByID(ctx context.Context, id int64) (*model.Class, error) {
	return f.classes[id], nil
}

func (f *fakeClassListStore) GetByTeacherID(ctx context.Context, teacherID int64) ([]*model.Class, error) {
	f.teacherQueries++
	var out []*model.Class
	for _, class := range f.classes {
		if class.TeacherID == teacherID {
			out = append(out, class)
		}
	}
	return out, nil
}

func (f *fakeClassListStore) GetByGroupID(ctx context.Context, groupID int64) ([]*model.Class, error) {
	var out []*model.Class
	for _, class := range f.classes {
		if class.GroupID == groupID {
			out = append(out, class)
		}
	}
	return out, nil
}

func (f *fakeClassListStore) GetAll(ctx context.Context) ([]*model.Class, error) {
	var out []*model.Class
	for _, class := range f.classes {
		out = append(out, class)
	}
	return out, nil
}

func (f *fakeClassListStore) SetQRCode(ctx context.Context, id int64, qrCode *string) error {
	f.classes[id].QRCode = qrCode
	return nil
}

func (f *fakeClassListStore) Finish(ctx context.Context, id int64) error {
	f.classes[id].IsActive = false
	f.classes[id].QRCode = nil
	return nil
}

type fakeGroupMemberStore struct {
	students []*model.User
}

func (f *fakeGroupMemberStore) GetByGroupID(ctx context.Context, groupID int64) ([]*model.User, error) {
	return f.students, nil
}

type fakeAttendanceStore struct {
	records []*model.AttendanceRecord
}

func (f *fakeAttendanceStore) Create(ctx context.Context, record *model.AttendanceRecord) error {
	record.ID = int64(len(f.records) + 1)
	f.records = append(f.records, record)
	return nil
}

func (f *fakeAttendanceStore) GetByClassID(ctx context.Context, classID int64) ([]*model.AttendanceRecord, error) {
	var out []*model.AttendanceRecord
	for _, record := range f.records {
		if record.ClassID == classID {
			out = append(out, record)
		}
	}
	return out, nil
}

func newClassFixture(classes *fakeClassListStore, students *fakeGroupMemberStore, records *fakeAttendanceStore) *ClassService {
	if students == nil {
		students = &fakeGroupMemberStore{}
	}
	if records == nil {
		records = &fakeAttendanceStore{}
	}
	svc := NewClassService(classes, students, records, NewClassListCache(), zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreateClassManual(t *testing.T) {
	classes := newFakeClassListStore()
	svc := newClassFixture(classes, nil, nil)

	start := time.Date(2025, 6, 4, 14, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)

	class, err := svc.CreateClass(context.Background(), 11, 3, 7, "301", start, end)
	require.NoError(t, err)

	assert.Nil(t, class.ScheduleID, "manual class is not bound to a schedule")
	assert.Equal(t, time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), class.Date)
	assert.True(t, class.IsActive)
	assert.Nil(t, class.QRCode)
}

func TestGetTeacherClassesUsesCache(t *testing.T) {
	classes := newFakeClassListStore(&model.Class{ID: 1, TeacherID: 11})
	svc := newClassFixture(classes, nil, nil)

	first, err := svc.GetTeacherClasses(context.Background(), 11)
	require.NoError(t, err)
	require.Len(t, first, 1)

	_, err = svc.GetTeacherClasses(context.Background(), 11)
	require.NoError(t, err)

	assert.Equal(t, 1, classes.teacherQueries, "second call must be served from cache")
}

func TestFinishClass(t *testing.T) {
	token := "token"
	classes := newFakeClassListStore(&model.Class{ID: 1, TeacherID: 11, QRCode: &token, IsActive: true})
	svc := newClassFixture(classes, nil, nil)

	class, err := svc.FinishClass(context.Background(), 11, 1)
	require.NoError(t, err)

	assert.False(t, class.IsActive)
	assert.Nil(t, class.QRCode)
	assert.Nil(t, classes.classes[1].QRCode)
}

func TestFinishClassOwnership(t *testing.T) {
	classes := newFakeClassListStore(&model.Class{ID: 1, TeacherID: 11, IsActive: true})
	svc := newClassFixture(classes, nil, nil)

	_, err := svc.FinishClass(context.Background(), 12, 1)
	assert.ErrorIs(t, err, ErrNotClassOwner)

	_, err = svc.FinishClass(context.Background(), 11, 2)
	assert.ErrorIs(t, err, ErrClassNotFound)
}

func TestRotateQRCode(t *testing.T) {
	classes := newFakeClassListStore(&model.Class{ID: 1, TeacherID: 11, IsActive: true})
	svc := newClassFixture(classes, nil, nil)

	first, err := svc.RotateQRCode(context.Background(), 11, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := svc.RotateQRCode(context.Background(), 11, 1)
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "rotation must invalidate the previous token")

	require.NotNil(t, classes.classes[1].QRCode)
	assert.Equal(t, second, *classes.classes[1].QRCode)
}

func TestRotateQRCodeInactiveClass(t *testing.T) {
	classes := newFakeClassListStore(&model.Class{ID: 1, TeacherID: 11, IsActive: false})
	svc := newClassFixture(classes, nil, nil)

	_, err := svc.RotateQRCode(context.Background(), 11, 1)
	assert.ErrorIs(t, err, ErrClassNotActive)
}

func TestMarkMissing(t *testing.T) {
	classes := newFakeClassListStore(&model.Class{ID: 1, TeacherID: 11, GroupID: 7})
	students := &fakeGroupMemberStore{students: []*model.User{
		{ID: 1}, {ID: 2}, {ID: 3},
	}}
	records := &fakeAttendanceStore{records: []*model.AttendanceRecord{
		{ID: 1, ClassID: 1, StudentID: 2, Status: model.AttendanceStatusPresent},
	}}
	svc := newClassFixture(classes, students, records)

	count, err := svc.MarkMissing(context.Background(), 11, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// У отмеченного студента статус не перезаписан
	classRecords, err := records.GetByClassID(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, classRecords, 3)

	byStudent := map[int64]model.AttendanceStatus{}
	for _, record := range classRecords {
		byStudent[record.StudentID] = record.Status
	}
	assert.Equal(t, model.AttendanceStatusPresent, byStudent[2])
	assert.Equal(t, model.AttendanceStatusAbsent, byStudent[1])
	assert.Equal(t, model.AttendanceStatusAbsent, byStudent[3])
}
