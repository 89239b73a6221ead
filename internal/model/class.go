package model

import "time"

// Class конкретное занятие в конкретный день.
// ScheduleID указывает на породившую его пару расписания,
// nil - занятие создано преподавателем вручную.
type Class struct {
	ID         int64     `json:"id"`
	ScheduleID *int64    `json:"schedule_id,omitempty"`
	SubjectID  int64     `json:"subject_id"`
	TeacherID  int64     `json:"teacher_id"`
	GroupID    int64     `json:"group_id"`
	Classroom  string    `json:"classroom"`
	Date       time.Time `json:"date"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	QRCode     *string   `json:"qr_code,omitempty"` // ротируемый токен для отметки посещения
	IsActive   bool      `json:"is_active"`
}
