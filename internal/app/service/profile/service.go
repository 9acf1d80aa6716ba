package profile

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/quietleaf/mindlog/internal/models"
	"github.com/quietleaf/mindlog/pkg/logctx"
	"github.com/quietleaf/mindlog/pkg/types"
)

var ErrNotFound = errors.New("profile not found")

// Service reads and updates user profiles. The subscription plan column is
// only written through SetPlan, which billing owns.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

func (s *Service) Get(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// GetPlan returns the user's subscription plan. A missing profile row counts
// as free; the gates downstream must never fail open.
func (s *Service) GetPlan(ctx context.Context, userID string) (types.SubscriptionPlan, error) {
	p, err := s.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return types.SubscriptionPlanFree, nil
	}
	if err != nil {
		return "", err
	}
	if p.SubscriptionPlan == "" {
		return types.SubscriptionPlanFree, nil
	}
	return p.SubscriptionPlan, nil
}

// Update applies the caller-editable profile fields.
func (s *Service) Update(ctx context.Context, userID string, displayName string) error {
	res := s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", userID).
		Update("display_name", displayName)
	if res.Error != nil {
		return fmt.Errorf("failed to update profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPlan flips the subscription plan. Called by billing only.
func (s *Service) SetPlan(ctx context.Context, userID string, plan types.SubscriptionPlan) error {
	res := s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", userID).
		Update("subscription_plan", plan)
	if res.Error != nil {
		return fmt.Errorf("failed to set subscription plan: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	logctx.FromCtx(ctx, s.log).Infow("subscription plan updated", "user_id", userID, "plan", plan)
	return nil
}
