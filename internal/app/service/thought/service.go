package thought

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/quietleaf/mindlog/internal/models"
	"github.com/quietleaf/mindlog/internal/platform/genai"
	"github.com/quietleaf/mindlog/pkg/logctx"
	"github.com/quietleaf/mindlog/pkg/metrics"
	"github.com/quietleaf/mindlog/pkg/tool"
	"github.com/quietleaf/mindlog/pkg/types"
)

var ErrNotFound = errors.New("thought not found")

// analysisFallback is returned as the AI commentary when generation fails at
// creation time; the entry itself is always saved.
const analysisFallback = "Gracias por compartir tu pensamiento. Tómate un momento para respirar y recuerda que escribir lo que sientes ya es un paso importante."

type CreateRequest struct {
	Content     string
	Trigger     string
	Emotions    []string
	IsImportant bool
}

// UpdateRequest carries the caller-editable fields. Nil pointers are left
// untouched.
type UpdateRequest struct {
	Content     *string
	Trigger     *string
	Emotions    []string
	IsImportant *bool
}

// Service owns journal entries: CRUD filtered by owner, plus the empathetic
// AI commentary generated when an entry is created.
type Service struct {
	db      *gorm.DB
	log     *zap.SugaredLogger
	gen     genai.Client
	metrics *metrics.Metrics
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, gen genai.Client, m *metrics.Metrics) *Service {
	return &Service{db: db, log: log, gen: gen, metrics: m}
}

// Create stores a new thought. The AI commentary is generated synchronously;
// if generation fails the entry is saved with a fixed fallback commentary
// rather than failing the write.
func (s *Service) Create(ctx context.Context, userID string, req *CreateRequest) (*models.Thought, error) {
	if req == nil || req.Content == "" {
		return nil, fmt.Errorf("thought content is empty")
	}

	aiResponse, err := s.gen.GenerateText(ctx, analysisPrompt(req.Content, req.Trigger, req.Emotions))
	if err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("thought analysis generation failed, using fallback", "err", err)
		s.metrics.GenerationCalls.WithLabelValues("analysis", metrics.OutcomeFallback).Inc()
		aiResponse = analysisFallback
	} else {
		s.metrics.GenerationCalls.WithLabelValues("analysis", metrics.OutcomeOK).Inc()
	}

	t := &models.Thought{
		ID:             tool.GenerateUUIDV7(),
		UserID:         userID,
		ThoughtContent: req.Content,
		TriggerEvent:   req.Trigger,
		Emotions:       datatypes.NewJSONSlice(req.Emotions),
		IsImportant:    req.IsImportant,
		AIResponse:     aiResponse,
		ChatHistory:    datatypes.NewJSONSlice([]types.ChatMessage{}),
	}
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, fmt.Errorf("failed to create thought: %w", err)
	}
	return t, nil
}

func (s *Service) GetByID(ctx context.Context, userID, id string) (*models.Thought, error) {
	var t models.Thought
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get thought: %w", err)
	}
	return &t, nil
}

// List returns the user's thoughts, newest first. limit <= 0 means all.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]*models.Thought, error) {
	q := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []*models.Thought
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list thoughts: %w", err)
	}
	return rows, nil
}

// ListCreatedBetween returns the user's thoughts in [from, to], newest first.
func (s *Service) ListCreatedBetween(ctx context.Context, userID string, from, to time.Time) ([]*models.Thought, error) {
	var rows []*models.Thought
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at <= ?", userID, from, to).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list thoughts in window: %w", err)
	}
	return rows, nil
}

func (s *Service) Update(ctx context.Context, userID, id string, req *UpdateRequest) error {
	updates := map[string]interface{}{}
	if req.Content != nil {
		updates["thought_content"] = *req.Content
	}
	if req.Trigger != nil {
		updates["trigger_event"] = *req.Trigger
	}
	if req.Emotions != nil {
		updates["emotions"] = datatypes.NewJSONSlice(req.Emotions)
	}
	if req.IsImportant != nil {
		updates["is_important"] = *req.IsImportant
	}
	if len(updates) == 0 {
		return nil
	}

	res := s.db.WithContext(ctx).Model(&models.Thought{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update thought: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceChatHistory overwrites the entry's transcript wholesale. Callers
// append locally and hand in the full slice.
func (s *Service) ReplaceChatHistory(ctx context.Context, userID, id string, history []types.ChatMessage) error {
	res := s.db.WithContext(ctx).Model(&models.Thought{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("chat_history", datatypes.NewJSONSlice(history))
	if res.Error != nil {
		return fmt.Errorf("failed to update chat history: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Thought{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete thought: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
