package main

import (
	"fmt"
	"os"

	"github.com/qrattend/attendance_service/internal/imaging"
	"github.com/qrattend/attendance_service/internal/model"
)

func main() {
	// Создаем тестовое расписание группы
	schedules := []*model.Schedule{
		// Понедельник
		{ID: 1, GroupID: 1, SubjectID: 1, TeacherID: 10, DayOfWeek: 1, StartTime: "09:00", EndTime: "10:30", WeekType: model.WeekTypeBoth, Classroom: "301"},
		{ID: 2, GroupID: 1, SubjectID: 2, TeacherID: 11, DayOfWeek: 1, StartTime: "10:45", EndTime: "12:15", WeekType: model.WeekTypeOdd, Classroom: "214"},
		// Вторник
		{ID: 3, GroupID: 1, SubjectID: 3, TeacherID: 12, DayOfWeek: 2, StartTime: "09:00", EndTime: "10:30", WeekType: model.WeekTypeEven, Classroom: "112"},
		// Среда
		{ID: 4, GroupID: 1, SubjectID: 1, TeacherID: 10, DayOfWeek: 3, StartTime: "10:00", EndTime: "11:30", WeekType: model.WeekTypeBoth, Classroom: "301"},
		{ID: 5, GroupID: 1, SubjectID: 2, TeacherID: 11, DayOfWeek: 3, StartTime: "13:00", EndTime: "14:30", WeekType: model.WeekTypeBoth, Classroom: "214"},
		// Пятница
		{ID: 6, GroupID: 1, SubjectID: 3, TeacherID: 12, DayOfWeek: 5, StartTime: "11:00", EndTime: "12:30", WeekType: model.WeekTypeOdd, Classroom: "112"},
	}

	subjectNames := map[int64]string{
		1: "Математический анализ",
		2: "Программирование",
		3: "Физика",
	}

	if dir := os.Getenv("FONT_DIR"); dir != "" {
		imaging.SetFontDir(dir)
	}

	png, err := imaging.GenerateWeekImage("ИВТ-21", schedules, subjectNames)
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	filename := "week_schedule_test.png"
	if err := os.WriteFile(filename, png, 0644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Изображение сохранено в %s (%d байт)\n", filename, len(png))
}
