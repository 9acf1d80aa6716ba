package summary

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWeekWindow_Midweek(t *testing.T) {
	// Wednesday 2026-08-26.
	now := time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)

	start, end := weekWindow(now)
	require.Equal(t, time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Saturday, end.Weekday())
	require.Equal(t, 29, end.Day())
	require.Equal(t, 23, end.Hour())
	require.Equal(t, 59, end.Minute())
	require.Equal(t, 59, end.Second())
}

func TestWeekWindow_SundayStartsItsOwnWeek(t *testing.T) {
	now := time.Date(2026, 8, 23, 0, 0, 1, 0, time.UTC)

	start, _ := weekWindow(now)
	require.Equal(t, time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), start)
}

func TestWeekWindow_SaturdayNightStillSameWeek(t *testing.T) {
	now := time.Date(2026, 8, 29, 23, 59, 0, 0, time.UTC)

	start, end := weekWindow(now)
	require.Equal(t, time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), start)
	require.True(t, end.After(now))
}

func TestWeekWindow_CrossesMonthBoundary(t *testing.T) {
	// Tuesday 2026-09-01 belongs to the week starting Sunday 2026-08-30.
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	start, _ := weekWindow(now)
	require.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), start)
}

func TestFallbackSummary_Singular(t *testing.T) {
	got := fallbackSummary(1, 0)
	require.Contains(t, got, "has registrado 1 pensamiento")
	require.NotContains(t, got, "1 pensamientos")
	require.Contains(t, got, "Es un buen comienzo")
}

func TestFallbackSummary_PluralWithImportant(t *testing.T) {
	got := fallbackSummary(5, 2)
	require.Contains(t, got, "has registrado 5 pensamientos")
	require.Contains(t, got, "2 fueron marcados como importantes")
	require.Contains(t, got, "Has estado muy consciente")
	require.Contains(t, got, "merecen atención especial")
}

func TestFallbackSummary_SingleImportant(t *testing.T) {
	got := fallbackSummary(3, 1)
	require.Contains(t, got, "1 fue marcado como importante")
	require.False(t, strings.Contains(got, "1 fue marcado como importantes"))
}
