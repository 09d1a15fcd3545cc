package onboarding

import (
	"fmt"
	"math"

	"github.com/healthrocket/app/internal/client/models"
)

// Assessment categories in presentation order.
const (
	CategoryMindset    = "mindset"
	CategorySleep      = "sleep"
	CategoryExercise   = "exercise"
	CategoryNutrition  = "nutrition"
	CategoryBiohacking = "biohacking"
)

var categories = []string{
	CategoryMindset,
	CategorySleep,
	CategoryExercise,
	CategoryNutrition,
	CategoryBiohacking,
}

const (
	ratingMin     = 1
	ratingMax     = 10
	defaultRating = 5
)

// Assessment is the in-memory state of the health self-assessment wizard:
// one 1-10 rating per category, with forward/back navigation. Nothing is
// persisted until the sequencer commits the finished assessment.
type Assessment struct {
	ratings map[string]int
	index   int
}

func NewAssessment() *Assessment {
	r := make(map[string]int, len(categories))
	for _, c := range categories {
		r[c] = defaultRating
	}
	return &Assessment{ratings: r}
}

// Category returns the category currently being rated.
func (a *Assessment) Category() string {
	return categories[a.index]
}

// Rating returns the current rating for the given category.
func (a *Assessment) Rating(category string) int {
	return a.ratings[category]
}

// SetRating stores a rating for the current category.
func (a *Assessment) SetRating(value int) error {
	if value < ratingMin || value > ratingMax {
		return fmt.Errorf("rating must be between %d and %d, got %d", ratingMin, ratingMax, value)
	}
	a.ratings[a.Category()] = value
	return nil
}

// Next moves to the following category; returns false on the last one.
func (a *Assessment) Next() bool {
	if a.index >= len(categories)-1 {
		return false
	}
	a.index++
	return true
}

// Previous moves back one category; returns false on the first one.
func (a *Assessment) Previous() bool {
	if a.index == 0 {
		return false
	}
	a.index--
	return true
}

// Progress reports the 1-based position and the total number of categories.
func (a *Assessment) Progress() (current, total int) {
	return a.index + 1, len(categories)
}

// Sum is the raw total of all ratings.
func (a *Assessment) Sum() int {
	sum := 0
	for _, c := range categories {
		sum += a.ratings[c]
	}
	return sum
}

// Score maps the rating total onto a 0-10 scale, rounded to two decimals.
func (a *Assessment) Score() float64 {
	return round2(float64(a.Sum()) / 50 * 10)
}

// HealthspanYears projects estimated healthy years from the score: 75 at the
// baseline score of 5, two years per point either way, floored at 60.
func (a *Assessment) HealthspanYears() float64 {
	years := 75 + (a.Score()-5)*2
	return math.Max(round2(years), 60)
}

// Record snapshots the finished assessment for the given user.
func (a *Assessment) Record(userID string) *models.HealthAssessment {
	return &models.HealthAssessment{
		UserID:     userID,
		Mindset:    a.ratings[CategoryMindset],
		Sleep:      a.ratings[CategorySleep],
		Exercise:   a.ratings[CategoryExercise],
		Nutrition:  a.ratings[CategoryNutrition],
		Biohacking: a.ratings[CategoryBiohacking],
		Score:      a.Score(),
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
