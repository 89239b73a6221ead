package imaging

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/qrattend/attendance_service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWeekImage(t *testing.T) {
	schedules := []*model.Schedule{
		{ID: 1, SubjectID: 1, DayOfWeek: 1, StartTime: "09:00", EndTime: "10:30", WeekType: model.WeekTypeBoth, Classroom: "301"},
		{ID: 2, SubjectID: 2, DayOfWeek: 3, StartTime: "10:00", EndTime: "11:30", WeekType: model.WeekTypeOdd, Classroom: "214"},
		// Пара с нечитаемым временем просто не отображается
		{ID: 3, SubjectID: 2, DayOfWeek: 5, StartTime: "xx:yy", EndTime: "11:30", WeekType: model.WeekTypeEven, Classroom: "112"},
	}
	names := map[int64]string{1: "Математический анализ", 2: "Физика"}

	data, err := GenerateWeekImage("ИВТ-21", schedules, names)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, imageWidth, img.Bounds().Dx())
	assert.Equal(t, imageHeight, img.Bounds().Dy())
}

func TestGenerateWeekImageEmptySchedule(t *testing.T) {
	data, err := GenerateWeekImage("ИВТ-21", nil, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		value string
		hours float64
		ok    bool
	}{
		{"09:00", 9, true},
		{"10:30", 10.5, true},
		{"23:59", 23.983333333333334, true},
		{"24:00", 0, false},
		{"9:00", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			hours, ok := parseClock(tt.value)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.hours, hours, 1e-9)
			}
		})
	}
}
