package summary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quietleaf/mindlog/internal/models"
	"github.com/quietleaf/mindlog/pkg/tool"
)

// gormCache is the postgres-backed CacheStore.
type gormCache struct {
	db *gorm.DB
}

func (c *gormCache) Get(ctx context.Context, userID, weekStart string, now time.Time) (*models.WeeklySummary, error) {
	var row models.WeeklySummary
	err := c.db.WithContext(ctx).
		Where("user_id = ? AND week_start = ? AND expires_at >= ?", userID, weekStart, now).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read summary cache: %w", err)
	}
	return &row, nil
}

func (c *gormCache) Upsert(ctx context.Context, row *models.WeeklySummary) error {
	if row.ID == "" {
		row.ID = tool.GenerateUUIDV7()
	}
	err := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "week_start"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"week_end", "summary", "thought_count", "important_count", "expires_at", "updated_at",
		}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert summary cache: %w", err)
	}
	return nil
}
