package notify

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/qrattend/attendance_service/internal/model"
	"go.uber.org/zap"
)

// teacherStore доступ к данным преподавателя
type teacherStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// TelegramNotifier шлёт преподавателю сообщение в Telegram, когда
// планировщик открывает его занятие. Преподаватели без привязанного
// чата просто не получают уведомлений.
type TelegramNotifier struct {
	bot      *bot.Bot
	userRepo teacherStore
	logger   *zap.Logger
}

// NewTelegramNotifier создаёт нотификатор. Возвращает nil при пустом токене -
// уведомления в этом случае отключены.
func NewTelegramNotifier(token string, userRepo teacherStore, logger *zap.Logger) (*TelegramNotifier, error) {
	if token == "" {
		return nil, nil
	}

	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &TelegramNotifier{
		bot:      b,
		userRepo: userRepo,
		logger:   logger,
	}, nil
}

// ClassOpened уведомляет преподавателя об автоматически открытом занятии.
// Ошибки только логируются: уведомление не должно влиять на создание занятия.
func (n *TelegramNotifier) ClassOpened(ctx context.Context, class *model.Class) {
	teacher, err := n.userRepo.GetByID(ctx, class.TeacherID)
	if err != nil {
		n.logger.Warn("Failed to load teacher for notification",
			zap.Error(err),
			zap.Int64("teacher_id", class.TeacherID),
		)
		return
	}
	if teacher == nil || teacher.TelegramChatID == nil {
		return
	}

	text := fmt.Sprintf(
		"Занятие открыто: %s–%s, аудитория %s. Не забудьте сгенерировать QR-код.",
		class.StartTime.Format("15:04"),
		class.EndTime.Format("15:04"),
		class.Classroom,
	)

	_, err = n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: *teacher.TelegramChatID,
		Text:   text,
	})
	if err != nil {
		n.logger.Warn("Failed to send class notification",
			zap.Error(err),
			zap.Int64("teacher_id", class.TeacherID),
		)
		return
	}

	n.logger.Debug("Class notification sent",
		zap.Int64("class_id", class.ID),
		zap.Int64("teacher_id", class.TeacherID),
	)
}
