package service

import (
	"sync"

	"github.com/qrattend/attendance_service/internal/model"
)

// ClassListCache кэш списков занятий по преподавателям.
// Списки запрашиваются дашбордом каждые несколько секунд, а меняются
// только при создании/завершении занятия, поэтому кэш сбрасывается
// точечно по teacher_id при любой мутации.
type ClassListCache struct {
	mu        sync.RWMutex
	byTeacher map[int64][]*model.Class
}

func NewClassListCache() *ClassListCache {
	return &ClassListCache{
		byTeacher: make(map[int64][]*model.Class),
	}
}

// Get возвращает закэшированный список занятий преподавателя
func (c *ClassListCache) Get(teacherID int64) ([]*model.Class, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	classes, ok := c.byTeacher[teacherID]
	return classes, ok
}

// Set сохраняет список занятий преподавателя
func (c *ClassListCache) Set(teacherID int64, classes []*model.Class) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.byTeacher[teacherID] = classes
}

// Invalidate сбрасывает кэш преподавателя
func (c *ClassListCache) Invalidate(teacherID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.byTeacher, teacherID)
}
