package models

import (
	"time"

	"gorm.io/datatypes"
)

type BillingNotificationLogStatus string

const (
	BillingNotificationLogStatusReceived     BillingNotificationLogStatus = "received"
	BillingNotificationLogStatusHandled      BillingNotificationLogStatus = "handled"
	BillingNotificationLogStatusHandleFailed BillingNotificationLogStatus = "handle_failed"
)

// BillingNotificationLog records every App Store server notification we
// receive, whether or not handling succeeded.
type BillingNotificationLog struct {
	ID               string                       `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID           *string                      `gorm:"column:user_id;type:varchar(64)" json:"user_id"`
	TraceID          string                       `gorm:"column:trace_id;type:varchar(128)" json:"trace_id"`
	NotificationType string                       `gorm:"column:notification_type;type:varchar(64)" json:"notification_type"`
	TransactionID    string                       `gorm:"column:transaction_id;type:varchar(128)" json:"transaction_id"`
	NotificationTime time.Time                    `gorm:"column:notification_time" json:"notification_time"`
	Data             datatypes.JSON               `gorm:"column:data;type:jsonb" json:"data"`
	Status           BillingNotificationLogStatus `gorm:"column:status;type:varchar(64);not null" json:"status"`
	CreatedAt        time.Time                    `json:"created_at"`
	UpdatedAt        time.Time                    `json:"updated_at"`
}

func (BillingNotificationLog) TableName() string {
	return "billing_notification_log"
}
