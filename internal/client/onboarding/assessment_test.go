package onboarding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssessment_DefaultsAndNavigation(t *testing.T) {
	a := NewAssessment()

	current, total := a.Progress()
	require.Equal(t, 1, current)
	require.Equal(t, 5, total)
	require.Equal(t, CategoryMindset, a.Category())
	for _, c := range categories {
		require.Equal(t, 5, a.Rating(c))
	}

	require.False(t, a.Previous(), "cannot go back from the first category")

	for i := 0; i < 4; i++ {
		require.True(t, a.Next())
	}
	require.Equal(t, CategoryBiohacking, a.Category())
	require.False(t, a.Next(), "cannot go forward from the last category")

	require.True(t, a.Previous())
	require.Equal(t, CategoryNutrition, a.Category())
}

func TestAssessment_SetRatingValidatesRange(t *testing.T) {
	a := NewAssessment()

	require.Error(t, a.SetRating(0))
	require.Error(t, a.SetRating(11))
	require.NoError(t, a.SetRating(1))
	require.NoError(t, a.SetRating(10))
	require.Equal(t, 10, a.Rating(CategoryMindset))
}

func rate(t *testing.T, values ...int) *Assessment {
	t.Helper()
	require.Len(t, values, 5)
	a := NewAssessment()
	for _, v := range values {
		require.NoError(t, a.SetRating(v))
		a.Next()
	}
	return a
}

func TestAssessment_Scoring(t *testing.T) {
	tests := []struct {
		name      string
		ratings   []int
		wantScore float64
		wantYears float64
	}{
		{"baseline all fives", []int{5, 5, 5, 5, 5}, 5.0, 75},
		{"perfect tens", []int{10, 10, 10, 10, 10}, 10.0, 85},
		{"all ones hits the floor", []int{1, 1, 1, 1, 1}, 1.0, 67},
		{"mixed ratings", []int{8, 6, 9, 7, 7}, 7.4, 79.8},
		{"fractional score", []int{4, 4, 4, 4, 3}, 3.8, 72.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := rate(t, tt.ratings...)
			require.InDelta(t, tt.wantScore, a.Score(), 1e-9)
			require.InDelta(t, tt.wantYears, a.HealthspanYears(), 1e-9)
		})
	}
}

func TestAssessment_HealthspanNeverBelowFloor(t *testing.T) {
	// Even the worst possible self-assessment projects 60 years minimum.
	a := rate(t, 1, 1, 1, 1, 1)
	require.GreaterOrEqual(t, a.HealthspanYears(), 60.0)
}

func TestAssessment_Record(t *testing.T) {
	a := rate(t, 8, 6, 9, 7, 7)

	rec := a.Record("u-1")
	require.Equal(t, "u-1", rec.UserID)
	require.Equal(t, 8, rec.Mindset)
	require.Equal(t, 6, rec.Sleep)
	require.Equal(t, 9, rec.Exercise)
	require.Equal(t, 7, rec.Nutrition)
	require.Equal(t, 7, rec.Biohacking)
	require.InDelta(t, 7.4, rec.Score, 1e-9)
}
