package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/quietleaf/mindlog/internal/app/service/profile"
	"github.com/quietleaf/mindlog/internal/models"
	"github.com/quietleaf/mindlog/internal/platform/apple"
	cfgpkg "github.com/quietleaf/mindlog/pkg/config"
	"github.com/quietleaf/mindlog/pkg/logctx"
	"github.com/quietleaf/mindlog/pkg/tool"
	"github.com/quietleaf/mindlog/pkg/types"
)

// Service is the only writer of profiles.subscription_plan. Plans change on
// a verified client receipt or an App Store server notification, never on
// client say-so.
type Service struct {
	cfg      *cfgpkg.Config
	log      *zap.SugaredLogger
	db       *gorm.DB
	profiles *profile.Service
}

func NewService(cfg *cfgpkg.Config, log *zap.SugaredLogger, db *gorm.DB, profiles *profile.Service) *Service {
	return &Service{cfg: cfg, log: log, db: db, profiles: profiles}
}

// VerifyReceipt validates a client-supplied App Store receipt and grants the
// plan configured for the purchased product.
func (s *Service) VerifyReceipt(ctx context.Context, userID, receiptData string) (types.SubscriptionPlan, error) {
	receipt, err := apple.VerifyReceipt(ctx, receiptData, &s.cfg.Billing.Apple)
	if err != nil {
		return "", fmt.Errorf("receipt verification failed: %w", err)
	}

	latest := receipt.LatestReceiptInfo[0]
	plan, err := s.cfg.PlanByProductID(latest.ProductID)
	if err != nil {
		return "", err
	}

	if err := s.profiles.SetPlan(ctx, userID, plan); err != nil {
		return "", err
	}
	logctx.FromCtx(ctx, s.log).Infow("receipt verified",
		"user_id", userID, "product_id", latest.ProductID, "transaction_id", latest.TransactionID, "plan", plan)
	return plan, nil
}

// HandleNotification applies one App Store server notification. Every
// notification is logged with its handling status; handling errors are
// returned so Apple retries.
func (s *Service) HandleNotification(ctx context.Context, traceID, signedPayload string) error {
	notification, err := apple.ParseServerNotification(signedPayload)
	if err != nil {
		return fmt.Errorf("failed to parse notification: %w", err)
	}

	if notification.IsTestNotification {
		s.saveLog(ctx, notification, traceID, nil, models.BillingNotificationLogStatusHandled)
		return nil
	}

	userID, handleErr := s.applyNotification(ctx, notification)
	status := models.BillingNotificationLogStatusHandled
	if handleErr != nil {
		status = models.BillingNotificationLogStatusHandleFailed
	}
	s.saveLog(ctx, notification, traceID, userID, status)
	return handleErr
}

func (s *Service) applyNotification(ctx context.Context, n *apple.ServerNotification) (*string, error) {
	tx := n.TransactionInfo
	if tx == nil {
		return nil, fmt.Errorf("notification carries no transaction info")
	}
	if tx.AppAccountToken == "" {
		return nil, fmt.Errorf("app account token is empty")
	}
	if _, err := uuid.Parse(tx.AppAccountToken); err != nil {
		return nil, fmt.Errorf("app account token is not a user id: %w", err)
	}
	userID := tx.AppAccountToken

	plan, apply := planChange(n.Payload.NotificationType, tx.ProductID, s.cfg)
	if !apply {
		logctx.FromCtx(ctx, s.log).Infow("notification ignored",
			"type", n.Payload.NotificationType, "subtype", n.Payload.Subtype, "user_id", userID)
		return &userID, nil
	}

	if err := s.profiles.SetPlan(ctx, userID, plan); err != nil {
		return &userID, err
	}
	logctx.FromCtx(ctx, s.log).Infow("notification applied",
		"type", n.Payload.NotificationType, "user_id", userID, "plan", plan)
	return &userID, nil
}

// planChange maps a notification type to the plan the user should end up
// on. The second return is false for types that do not move the plan.
func planChange(notificationType, productID string, cfg *cfgpkg.Config) (types.SubscriptionPlan, bool) {
	switch notificationType {
	case "SUBSCRIBED", "DID_RENEW", "OFFER_REDEEMED", "DID_CHANGE_RENEWAL_PREF":
		plan, err := cfg.PlanByProductID(productID)
		if err != nil {
			return "", false
		}
		return plan, true
	case "EXPIRED", "REFUND", "REVOKE", "GRACE_PERIOD_EXPIRED":
		return types.SubscriptionPlanFree, true
	default:
		return "", false
	}
}

// saveLog asynchronously persists the notification audit row.
func (s *Service) saveLog(ctx context.Context, n *apple.ServerNotification, traceID string, userID *string, status models.BillingNotificationLogStatus) {
	row := &models.BillingNotificationLog{
		ID:               tool.GenerateUUIDV7(),
		UserID:           userID,
		TraceID:          traceID,
		NotificationType: n.Payload.NotificationType,
		NotificationTime: time.Now(),
		Status:           status,
	}
	if n.TransactionInfo != nil {
		row.TransactionID = n.TransactionInfo.TransactionID
	}
	if data, err := json.Marshal(n.Payload); err == nil {
		row.Data = datatypes.JSON(data)
	}

	go func() {
		if err := s.db.Save(row).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save billing notification log: %v", err)
		}
	}()
}
