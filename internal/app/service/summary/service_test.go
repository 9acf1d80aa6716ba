package summary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quietleaf/mindlog/internal/models"
	"github.com/quietleaf/mindlog/pkg/metrics"
	"github.com/quietleaf/mindlog/pkg/types"
)

type stubProfiles struct {
	plan types.SubscriptionPlan
	err  error
}

func (s *stubProfiles) GetPlan(ctx context.Context, userID string) (types.SubscriptionPlan, error) {
	return s.plan, s.err
}

type stubThoughts struct {
	rows  []*models.Thought
	err   error
	calls int
}

func (s *stubThoughts) ListCreatedBetween(ctx context.Context, userID string, from, to time.Time) ([]*models.Thought, error) {
	s.calls++
	return s.rows, s.err
}

type stubCache struct {
	row       *models.WeeklySummary
	getErr    error
	getCalls  int
	upserted  *models.WeeklySummary
	upsertErr error
}

func (s *stubCache) Get(ctx context.Context, userID, weekStart string, now time.Time) (*models.WeeklySummary, error) {
	s.getCalls++
	return s.row, s.getErr
}

func (s *stubCache) Upsert(ctx context.Context, row *models.WeeklySummary) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upserted = row
	return nil
}

type stubGen struct {
	text  string
	err   error
	calls int
}

func (s *stubGen) GenerateText(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func newTestService(profiles *stubProfiles, thoughts *stubThoughts, cache *stubCache, gen *stubGen) *Service {
	return &Service{
		log:      zap.NewNop().Sugar(),
		profiles: profiles,
		thoughts: thoughts,
		cache:    cache,
		gen:      gen,
		metrics:  metrics.NewWithRegistry(prometheus.NewRegistry()),
	}
}

func weekThoughts() []*models.Thought {
	return []*models.Thought{
		{ID: "t-1", ThoughtContent: "me costó dormir", IsImportant: true},
		{ID: "t-2", ThoughtContent: "buena charla con mi hermana"},
		{ID: "t-3", ThoughtContent: "mucho trabajo"},
	}
}

func TestGetWeekly_EmptyUserID(t *testing.T) {
	svc := newTestService(&stubProfiles{}, &stubThoughts{}, &stubCache{}, &stubGen{})

	_, err := svc.GetWeekly(context.Background(), "")
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestGetWeekly_FreeTierLockedPlaceholder(t *testing.T) {
	thoughts := &stubThoughts{rows: weekThoughts()}
	cache := &stubCache{}
	gen := &stubGen{text: "no debería llegar aquí"}
	svc := newTestService(&stubProfiles{plan: types.SubscriptionPlanFree}, thoughts, cache, gen)

	res, err := svc.GetWeekly(context.Background(), "u-1")
	require.NoError(t, err)
	require.False(t, res.IsPremium)
	require.Empty(t, res.Summary)
	require.Nil(t, res.Stats)

	// Free tier touches neither the cache nor the thought store.
	require.Zero(t, cache.getCalls)
	require.Zero(t, thoughts.calls)
	require.Zero(t, gen.calls)
}

func TestGetWeekly_EmptyWeekCachedWithoutGeneration(t *testing.T) {
	cache := &stubCache{}
	gen := &stubGen{text: "no debería llegar aquí"}
	svc := newTestService(&stubProfiles{plan: types.SubscriptionPlanCare}, &stubThoughts{}, cache, gen)

	res, err := svc.GetWeekly(context.Background(), "u-1")
	require.NoError(t, err)
	require.True(t, res.IsPremium)
	require.Equal(t, emptySummary, res.Summary)
	require.Equal(t, &Stats{}, res.Stats)
	require.Zero(t, gen.calls)

	require.NotNil(t, cache.upserted)
	require.Equal(t, emptySummary, cache.upserted.Summary)
	require.Zero(t, cache.upserted.ThoughtCount)
	require.Zero(t, cache.upserted.ImportantCount)
}

func TestGetWeekly_CacheHitServedVerbatim(t *testing.T) {
	cache := &stubCache{row: &models.WeeklySummary{
		Summary:        "resumen cacheado",
		ThoughtCount:   3,
		ImportantCount: 1,
		WeekStart:      "2026-08-23",
		WeekEnd:        "2026-08-29",
	}}
	gen := &stubGen{text: "resumen nuevo"}
	svc := newTestService(&stubProfiles{plan: types.SubscriptionPlanCare}, &stubThoughts{rows: weekThoughts()}, cache, gen)

	res, err := svc.GetWeekly(context.Background(), "u-1")
	require.NoError(t, err)
	require.Equal(t, "resumen cacheado", res.Summary)
	require.Equal(t, &Stats{ThoughtCount: 3, ImportantCount: 1}, res.Stats)
	require.Equal(t, "2026-08-23", res.WeekStart)
	require.Zero(t, gen.calls)
	require.Nil(t, cache.upserted)
}

func TestGetWeekly_CountDriftRegenerates(t *testing.T) {
	cache := &stubCache{row: &models.WeeklySummary{
		Summary:        "resumen viejo",
		ThoughtCount:   2,
		ImportantCount: 0,
	}}
	gen := &stubGen{text: "resumen nuevo"}
	svc := newTestService(&stubProfiles{plan: types.SubscriptionPlanCare}, &stubThoughts{rows: weekThoughts()}, cache, gen)

	res, err := svc.GetWeekly(context.Background(), "u-1")
	require.NoError(t, err)
	require.Equal(t, "resumen nuevo", res.Summary)
	require.Equal(t, 1, gen.calls)

	require.NotNil(t, cache.upserted)
	require.Equal(t, 3, cache.upserted.ThoughtCount)
	require.Equal(t, 1, cache.upserted.ImportantCount)
}

func TestGetWeekly_ImportantDriftAloneRegenerates(t *testing.T) {
	cache := &stubCache{row: &models.WeeklySummary{
		Summary:        "resumen viejo",
		ThoughtCount:   3,
		ImportantCount: 0,
	}}
	gen := &stubGen{text: "resumen nuevo"}
	svc := newTestService(&stubProfiles{plan: types.SubscriptionPlanCare}, &stubThoughts{rows: weekThoughts()}, cache, gen)

	res, err := svc.GetWeekly(context.Background(), "u-1")
	require.NoError(t, err)
	require.Equal(t, "resumen nuevo", res.Summary)
	require.Equal(t, 1, gen.calls)
}

func TestGetWeekly_GenerationFailureUsesTemplate(t *testing.T) {
	cache := &stubCache{}
	gen := &stubGen{err: errors.New("upstream 500")}
	svc := newTestService(&stubProfiles{plan: types.SubscriptionPlanCare}, &stubThoughts{rows: weekThoughts()}, cache, gen)

	res, err := svc.GetWeekly(context.Background(), "u-1")
	require.NoError(t, err)
	require.Equal(t, fallbackSummary(3, 1), res.Summary)
	require.Equal(t, &Stats{ThoughtCount: 3, ImportantCount: 1}, res.Stats)

	// The templated text is cached like a generated one.
	require.NotNil(t, cache.upserted)
	require.Equal(t, fallbackSummary(3, 1), cache.upserted.Summary)
}

func TestGetWeekly_CacheReadFailureRegenerates(t *testing.T) {
	cache := &stubCache{getErr: errors.New("db down")}
	gen := &stubGen{text: "resumen nuevo"}
	svc := newTestService(&stubProfiles{plan: types.SubscriptionPlanCare}, &stubThoughts{rows: weekThoughts()}, cache, gen)

	res, err := svc.GetWeekly(context.Background(), "u-1")
	require.NoError(t, err)
	require.Equal(t, "resumen nuevo", res.Summary)
}

func TestGetWeekly_CacheWriteFailureSwallowed(t *testing.T) {
	cache := &stubCache{upsertErr: errors.New("db down")}
	gen := &stubGen{text: "resumen nuevo"}
	svc := newTestService(&stubProfiles{plan: types.SubscriptionPlanCare}, &stubThoughts{rows: weekThoughts()}, cache, gen)

	res, err := svc.GetWeekly(context.Background(), "u-1")
	require.NoError(t, err)
	require.Equal(t, "resumen nuevo", res.Summary)
}

func TestGetWeekly_ThoughtListFailure(t *testing.T) {
	thoughts := &stubThoughts{err: errors.New("db down")}
	svc := newTestService(&stubProfiles{plan: types.SubscriptionPlanCare}, thoughts, &stubCache{}, &stubGen{})

	_, err := svc.GetWeekly(context.Background(), "u-1")
	require.Error(t, err)
}
