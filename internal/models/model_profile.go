package models

import (
	"time"

	"github.com/quietleaf/mindlog/pkg/types"
)

// Profile stores per-user account data. The subscription plan is only
// mutated by the billing service; everything else in the app treats it as
// read-only.
type Profile struct {
	ID               string                 `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Email            string                 `gorm:"column:email;type:varchar(255);uniqueIndex" json:"email"`
	DisplayName      string                 `gorm:"column:display_name;type:varchar(128)" json:"display_name"`
	SubscriptionPlan types.SubscriptionPlan `gorm:"column:subscription_plan;type:varchar(32);not null;default:'free'" json:"subscription_plan"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) Premium() bool {
	return p != nil && p.SubscriptionPlan.Premium()
}
