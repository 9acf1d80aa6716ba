package models

import "time"

// WeeklySummary caches one generated summary per (user, week). Validity is
// decided by count equality against the live thought counts for the window,
// not by a content hash; the expiry timestamp only filters reads.
type WeeklySummary struct {
	ID             string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID         string    `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex:idx_summary_user_week,priority:1" json:"user_id"`
	WeekStart      string    `gorm:"column:week_start;type:date;not null;uniqueIndex:idx_summary_user_week,priority:2" json:"week_start"`
	WeekEnd        string    `gorm:"column:week_end;type:date;not null" json:"week_end"`
	Summary        string    `gorm:"column:summary;type:text;not null" json:"summary"`
	ThoughtCount   int       `gorm:"column:thought_count;not null;default:0" json:"thought_count"`
	ImportantCount int       `gorm:"column:important_count;not null;default:0" json:"important_count"`
	ExpiresAt      time.Time `gorm:"column:expires_at;not null" json:"expires_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (WeeklySummary) TableName() string {
	return "weekly_summaries"
}
