package usage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quietleaf/mindlog/internal/models"
	"github.com/quietleaf/mindlog/pkg/tool"
)

// Service owns the free-tier daily message counter. The counter must only
// move through Increment: a single INSERT ... ON CONFLICT statement, so two
// devices racing on the same user cannot lose an update.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// TodayCount returns the number of messages the user sent today. No row
// means zero.
func (s *Service) TodayCount(ctx context.Context, userID string) (int, error) {
	var row models.DailyMessageUsage
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, dayKey(time.Now())).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read daily usage: %w", err)
	}
	return row.MessageCount, nil
}

// Increment creates-or-increments today's row by exactly 1.
func (s *Service) Increment(ctx context.Context, userID string) error {
	row := &models.DailyMessageUsage{
		ID:           tool.GenerateUUIDV7(),
		UserID:       userID,
		Date:         dayKey(time.Now()),
		MessageCount: 1,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"message_count": gorm.Expr("daily_message_usage.message_count + 1"),
			"updated_at":    time.Now(),
		}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to increment daily usage: %w", err)
	}
	return nil
}
