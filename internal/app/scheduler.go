package app

import (
	"context"
	"time"

	"github.com/qrattend/attendance_service/internal/service"
	"go.uber.org/zap"
)

// Интервал опроса расписания. Окно допуска в ScheduleService
// подобрано под него, менять по отдельности нельзя.
const materializeInterval = time.Minute

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	scheduleService *service.ScheduleService
	logger          *zap.Logger
	stopChan        chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(scheduleService *service.ScheduleService, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		scheduleService: scheduleService,
		logger:          logger,
		stopChan:        make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	go s.runMaterializeTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runMaterializeTask раз в минуту создаёт занятия из подошедших по времени
// пар расписания. Проход выполняется синхронно внутри цикла, поэтому тики
// не накладываются друг на друга: пока проход не завершился, следующий
// не начнётся, а пропущенные тики тикер схлопывает в один.
func (s *Scheduler) runMaterializeTask(ctx context.Context) {
	ticker := time.NewTicker(materializeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.materialize(ctx)
		case <-s.stopChan:
			s.logger.Info("Class materialization task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Class materialization task cancelled")
			return
		}
	}
}

// materialize выполняет один проход создания занятий
func (s *Scheduler) materialize(ctx context.Context) {
	err := s.scheduleService.MaterializeDueClasses(ctx)
	if err != nil {
		s.logger.Error("Failed to materialize classes from schedule", zap.Error(err))
	}
}
