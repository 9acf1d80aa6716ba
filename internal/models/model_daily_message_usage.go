package models

import "time"

// DailyMessageUsage holds the free-tier chat counter: at most one row per
// (user, calendar day). Rows are created implicitly by the first increment
// of a day and never decremented. Premium code paths never touch this table.
type DailyMessageUsage struct {
	ID           string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID       string    `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex:idx_usage_user_date,priority:1" json:"user_id"`
	Date         string    `gorm:"column:date;type:date;not null;uniqueIndex:idx_usage_user_date,priority:2" json:"date"`
	MessageCount int       `gorm:"column:message_count;not null;default:0" json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (DailyMessageUsage) TableName() string {
	return "daily_message_usage"
}
