package summary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/quietleaf/mindlog/internal/app/service/profile"
	"github.com/quietleaf/mindlog/internal/app/service/thought"
	"github.com/quietleaf/mindlog/internal/models"
	"github.com/quietleaf/mindlog/internal/platform/genai"
	"github.com/quietleaf/mindlog/pkg/logctx"
	"github.com/quietleaf/mindlog/pkg/metrics"
	"github.com/quietleaf/mindlog/pkg/types"
)

var ErrUnauthenticated = errors.New("unauthenticated")

// emptySummary is returned (and cached) for weeks with no journal entries;
// no generation call is made for it.
const emptySummary = "No has registrado pensamientos esta semana. Recuerda que escribir tus pensamientos te ayuda a procesarlos mejor."

type Stats struct {
	ThoughtCount   int `json:"thought_count"`
	ImportantCount int `json:"important_count"`
}

type WeeklySummary struct {
	IsPremium bool   `json:"is_premium"`
	Summary   string `json:"summary,omitempty"`
	Stats     *Stats `json:"stats,omitempty"`
	WeekStart string `json:"week_start,omitempty"`
	WeekEnd   string `json:"week_end,omitempty"`
}

type ProfileReader interface {
	GetPlan(ctx context.Context, userID string) (types.SubscriptionPlan, error)
}

type ThoughtLister interface {
	ListCreatedBetween(ctx context.Context, userID string, from, to time.Time) ([]*models.Thought, error)
}

// CacheStore reads and writes the per-(user, week) summary cache. Get
// returns (nil, nil) when no unexpired row exists.
type CacheStore interface {
	Get(ctx context.Context, userID, weekStart string, now time.Time) (*models.WeeklySummary, error)
	Upsert(ctx context.Context, row *models.WeeklySummary) error
}

// Provider builds the premium weekly summary.
type Provider interface {
	GetWeekly(ctx context.Context, userID string) (*WeeklySummary, error)
}

type Service struct {
	log      *zap.SugaredLogger
	profiles ProfileReader
	thoughts ThoughtLister
	cache    CacheStore
	gen      genai.Client
	metrics  *metrics.Metrics
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, profiles *profile.Service, thoughts *thought.Service, gen genai.Client, m *metrics.Metrics) Provider {
	return &Service{
		log:      log,
		profiles: profiles,
		thoughts: thoughts,
		cache:    &gormCache{db: db},
		gen:      gen,
		metrics:  m,
	}
}

// GetWeekly returns the cached weekly summary when the cached thought counts
// still match the live ones, and regenerates otherwise. The cache is
// advisory: a failed cache write never fails the call.
func (s *Service) GetWeekly(ctx context.Context, userID string) (*WeeklySummary, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	plan, err := s.profiles.GetPlan(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve plan: %w", err)
	}
	if !plan.Premium() {
		// Free tier gets the locked placeholder; nothing is read or written.
		return &WeeklySummary{IsPremium: false}, nil
	}

	now := time.Now()
	weekStart, weekEnd := weekWindow(now)
	weekStartKey := weekStart.Format("2006-01-02")
	weekEndKey := weekEnd.Format("2006-01-02")

	cached, err := s.cache.Get(ctx, userID, weekStartKey, now)
	if err != nil {
		// A broken cache read degrades to a regeneration, not a failure.
		logctx.FromCtx(ctx, s.log).Warnw("summary cache read failed", "err", err)
		cached = nil
	}

	thoughts, err := s.thoughts.ListCreatedBetween(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list week thoughts: %w", err)
	}
	thoughtCount := len(thoughts)
	importantCount := lo.CountBy(thoughts, func(t *models.Thought) bool { return t.IsImportant })

	// Staleness is count drift only: an unexpired row whose counts match the
	// live window is served verbatim, even if thought texts were edited.
	if cached != nil && cached.ThoughtCount == thoughtCount && cached.ImportantCount == importantCount {
		s.metrics.SummaryCache.WithLabelValues("hit").Inc()
		return &WeeklySummary{
			IsPremium: true,
			Summary:   cached.Summary,
			Stats:     &Stats{ThoughtCount: cached.ThoughtCount, ImportantCount: cached.ImportantCount},
			WeekStart: cached.WeekStart,
			WeekEnd:   cached.WeekEnd,
		}, nil
	}
	if cached == nil {
		s.metrics.SummaryCache.WithLabelValues("miss").Inc()
	} else {
		s.metrics.SummaryCache.WithLabelValues("refresh").Inc()
	}

	var text string
	if thoughtCount == 0 {
		text = emptySummary
	} else {
		text, err = s.gen.GenerateText(ctx, summaryPrompt(thoughts))
		if err != nil {
			logctx.FromCtx(ctx, s.log).Warnw("summary generation failed, using fallback", "err", err)
			s.metrics.GenerationCalls.WithLabelValues("summary", metrics.OutcomeFallback).Inc()
			text = fallbackSummary(thoughtCount, importantCount)
		} else {
			s.metrics.GenerationCalls.WithLabelValues("summary", metrics.OutcomeOK).Inc()
		}
	}

	row := &models.WeeklySummary{
		UserID:         userID,
		WeekStart:      weekStartKey,
		WeekEnd:        weekEndKey,
		Summary:        text,
		ThoughtCount:   thoughtCount,
		ImportantCount: importantCount,
		ExpiresAt:      weekEnd.AddDate(0, 0, 7),
	}
	if err := s.cache.Upsert(ctx, row); err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("failed to cache weekly summary", "user_id", userID, "err", err)
	}

	return &WeeklySummary{
		IsPremium: true,
		Summary:   text,
		Stats:     &Stats{ThoughtCount: thoughtCount, ImportantCount: importantCount},
		WeekStart: weekStartKey,
		WeekEnd:   weekEndKey,
	}, nil
}
