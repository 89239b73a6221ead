package model

// WeekType определяет чётность учебной недели, на которой действует пара
type WeekType string

const (
	WeekTypeOdd  WeekType = "odd"
	WeekTypeEven WeekType = "even"
	WeekTypeBoth WeekType = "both"
)

// Schedule представляет повторяющуюся пару в недельном расписании.
// Конкретные занятия создаются из него планировщиком.
type Schedule struct {
	ID        int64    `json:"id"`
	GroupID   int64    `json:"group_id"`
	SubjectID int64    `json:"subject_id"`
	TeacherID int64    `json:"teacher_id"`
	DayOfWeek int      `json:"day_of_week"` // 1 = понедельник, 7 = воскресенье
	StartTime string   `json:"start_time"`  // "HH:MM"
	EndTime   string   `json:"end_time"`    // "HH:MM"
	WeekType  WeekType `json:"week_type"`
	Classroom string   `json:"classroom"`
}
