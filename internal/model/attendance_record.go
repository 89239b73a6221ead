package model

import "time"

// AttendanceStatus статус посещения занятия студентом
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusLate    AttendanceStatus = "late"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
)

type AttendanceRecord struct {
	ID        int64            `json:"id"`
	ClassID   int64            `json:"class_id"`
	StudentID int64            `json:"student_id"`
	Timestamp time.Time        `json:"timestamp"`
	Status    AttendanceStatus `json:"status"`
}
