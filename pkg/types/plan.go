package types

// SubscriptionPlan is the plan flag stored on a user profile.
type SubscriptionPlan string

const (
	SubscriptionPlanFree   SubscriptionPlan = "free"
	SubscriptionPlanCare   SubscriptionPlan = "care"
	SubscriptionPlanAnnual SubscriptionPlan = "annual"
)

// Premium reports whether the plan grants unlimited AI chat and the weekly
// summary. Any non-free plan counts; an absent plan does not.
func (p SubscriptionPlan) Premium() bool {
	return p != "" && p != SubscriptionPlanFree
}

// BillingProduct maps an App Store product to the plan it grants.
type BillingProduct struct {
	ProductID string           `mapstructure:"product_id" json:"product_id"`
	Plan      SubscriptionPlan `mapstructure:"plan" json:"plan"`
}
