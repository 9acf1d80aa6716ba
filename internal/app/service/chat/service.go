package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/quietleaf/mindlog/internal/app/service/profile"
	"github.com/quietleaf/mindlog/internal/app/service/thought"
	"github.com/quietleaf/mindlog/internal/app/service/usage"
	"github.com/quietleaf/mindlog/internal/models"
	"github.com/quietleaf/mindlog/internal/platform/genai"
	cfgpkg "github.com/quietleaf/mindlog/pkg/config"
	"github.com/quietleaf/mindlog/pkg/logctx"
	"github.com/quietleaf/mindlog/pkg/metrics"
	"github.com/quietleaf/mindlog/pkg/types"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrDailyLimitReached is returned before any side effect, so a refused
	// call is always safe to retry after upgrading.
	ErrDailyLimitReached = errors.New("daily message limit reached")
)

// replyFallback stands in for the assistant when the generation service
// fails: the user always gets a reply.
const replyFallback = "Lo siento, ahora mismo no puedo responderte. Respira hondo; tu mensaje quedó guardado y podemos retomarlo en un momento."

type MessageResult struct {
	Reply string `json:"reply"`
}

type LimitStatus struct {
	IsPremium    bool `json:"is_premium"`
	Count        int  `json:"count"`
	LimitReached bool `json:"limit_reached"`
}

// ProfileReader, UsageCounter and ThoughtStore are the gateway's view of its
// collaborators; the concrete services satisfy them.
type ProfileReader interface {
	GetPlan(ctx context.Context, userID string) (types.SubscriptionPlan, error)
}

type UsageCounter interface {
	TodayCount(ctx context.Context, userID string) (int, error)
	Increment(ctx context.Context, userID string) error
}

type ThoughtStore interface {
	GetByID(ctx context.Context, userID, id string) (*models.Thought, error)
	ReplaceChatHistory(ctx context.Context, userID, id string, history []types.ChatMessage) error
}

// Gateway is the chat entry point: one user message in, one assistant reply
// out, with the free-tier daily cap enforced before anything else happens.
type Gateway interface {
	SendThoughtMessage(ctx context.Context, userID, thoughtID, message string) (*MessageResult, error)
	SendGeneralMessage(ctx context.Context, userID, message, priorContext string) (*MessageResult, error)
	CheckLimit(ctx context.Context, userID string) (*LimitStatus, error)
}

type Service struct {
	cfg      *cfgpkg.Config
	log      *zap.SugaredLogger
	profiles ProfileReader
	usage    UsageCounter
	thoughts ThoughtStore
	gen      genai.Client
	metrics  *metrics.Metrics
}

func NewService(cfg *cfgpkg.Config, log *zap.SugaredLogger, profiles *profile.Service, usageSvc *usage.Service, thoughts *thought.Service, gen genai.Client, m *metrics.Metrics) Gateway {
	return &Service{
		cfg:      cfg,
		log:      log,
		profiles: profiles,
		usage:    usageSvc,
		thoughts: thoughts,
		gen:      gen,
		metrics:  m,
	}
}

func (s *Service) freeLimit() int {
	if s.cfg != nil && s.cfg.Chat.FreeDailyLimit > 0 {
		return s.cfg.Chat.FreeDailyLimit
	}
	return 10
}

// gate resolves premium status and, for free users, enforces the daily cap.
// It runs before generation and before any store mutation: a refused message
// has zero side effects.
func (s *Service) gate(ctx context.Context, userID string) (premium bool, err error) {
	if userID == "" {
		return false, ErrUnauthenticated
	}
	plan, err := s.profiles.GetPlan(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to resolve plan: %w", err)
	}
	if plan.Premium() {
		return true, nil
	}
	count, err := s.usage.TodayCount(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to read daily usage: %w", err)
	}
	if count >= s.freeLimit() {
		return false, ErrDailyLimitReached
	}
	return false, nil
}

// SendThoughtMessage handles one chat turn scoped to a journal entry. The
// accepted turn appends exactly two transcript entries; the write replaces
// the whole transcript column.
func (s *Service) SendThoughtMessage(ctx context.Context, userID, thoughtID, message string) (*MessageResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("message is empty")
	}

	premium, err := s.gate(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrDailyLimitReached) {
			s.metrics.ChatMessages.WithLabelValues("thought", metrics.OutcomeLimitReached).Inc()
		}
		return nil, err
	}

	t, err := s.thoughts.GetByID(ctx, userID, thoughtID)
	if err != nil {
		return nil, err
	}

	reply := s.generate(ctx, thoughtPrompt(t, message))

	history := append([]types.ChatMessage{}, t.ChatHistory...)
	history = append(history,
		types.ChatMessage{Role: types.ChatRoleUser, Content: message},
		types.ChatMessage{Role: types.ChatRoleAssistant, Content: reply},
	)
	if err := s.thoughts.ReplaceChatHistory(ctx, userID, thoughtID, history); err != nil {
		// The reply is not delivered if it cannot be recorded.
		s.metrics.ChatMessages.WithLabelValues("thought", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("failed to record chat turn: %w", err)
	}

	s.countMessage(ctx, userID, premium)
	s.metrics.ChatMessages.WithLabelValues("thought", metrics.OutcomeOK).Inc()
	return &MessageResult{Reply: reply}, nil
}

// SendGeneralMessage handles one turn of the general conversation. Nothing
// is persisted; the caller holds the transcript and feeds it back as
// priorContext on the next call.
func (s *Service) SendGeneralMessage(ctx context.Context, userID, message, priorContext string) (*MessageResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("message is empty")
	}

	premium, err := s.gate(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrDailyLimitReached) {
			s.metrics.ChatMessages.WithLabelValues("general", metrics.OutcomeLimitReached).Inc()
		}
		return nil, err
	}

	reply := s.generate(ctx, generalPrompt(priorContext, message))

	s.countMessage(ctx, userID, premium)
	s.metrics.ChatMessages.WithLabelValues("general", metrics.OutcomeOK).Inc()
	return &MessageResult{Reply: reply}, nil
}

// CheckLimit reports the caller's remaining headroom without side effects.
func (s *Service) CheckLimit(ctx context.Context, userID string) (*LimitStatus, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	plan, err := s.profiles.GetPlan(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve plan: %w", err)
	}
	if plan.Premium() {
		return &LimitStatus{IsPremium: true}, nil
	}
	count, err := s.usage.TodayCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read daily usage: %w", err)
	}
	return &LimitStatus{Count: count, LimitReached: count >= s.freeLimit()}, nil
}

// generate invokes the generation service and absorbs any failure into the
// fixed fallback reply.
func (s *Service) generate(ctx context.Context, prompt string) string {
	reply, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("chat generation failed, using fallback", "err", err)
		s.metrics.GenerationCalls.WithLabelValues("chat", metrics.OutcomeFallback).Inc()
		return replyFallback
	}
	s.metrics.GenerationCalls.WithLabelValues("chat", metrics.OutcomeOK).Inc()
	return reply
}

// countMessage increments the free-tier counter after the reply is
// delivered. Increment failure is logged, not surfaced: the user already has
// their reply.
func (s *Service) countMessage(ctx context.Context, userID string, premium bool) {
	if premium {
		return
	}
	if err := s.usage.Increment(ctx, userID); err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("failed to increment daily usage", "user_id", userID, "err", err)
	}
}
