package travel

import (
	"math"
	"testing"
	"time"

	"github.com/flybeeper/flight-history/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kmPerDegree = models.EarthRadiusKm * math.Pi / 180

var day = time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

// walk строит точки вдоль меридиана 10° с шагом stepKm каждые stepDt
func walk(n int, stepKm float64, stepDt time.Duration) []models.LocationPoint {
	points := make([]models.LocationPoint, n)
	for i := range points {
		points[i] = models.LocationPoint{
			GeoPoint:  models.GeoPoint{Latitude: 45 + float64(i)*stepKm/kmPerDegree, Longitude: 10},
			Timestamp: day.Add(time.Duration(i) * stepDt),
		}
	}
	return points
}

func mustCalculator(t *testing.T) *Calculator {
	c, err := NewCalculator(DefaultOptions())
	require.NoError(t, err)
	return c
}

func TestReport_SumsPairsInRange(t *testing.T) {
	route := models.NewRouteSequence(walk(5, 10, 10*time.Minute)) // 60 км/ч

	report := mustCalculator(t).Report(route, day, day.Add(24*time.Hour))

	assert.InDelta(t, 40, report.TotalDistanceKm, 1e-6)
	assert.Equal(t, 4, report.PairsCounted)
	assert.InDelta(t, 40/EarthCircumferenceKm, report.AroundTheEarth, 1e-12)
	assert.InDelta(t, 40/MoonDistanceKm, report.ToTheMoon, 1e-12)
}

func TestReport_RangeUsesFirstPointOfPair(t *testing.T) {
	route := models.NewRouteSequence(walk(5, 10, time.Hour))

	// Точки 1 и 2 в диапазоне: пары (1,2) и (2,3)
	report := mustCalculator(t).Report(route, day.Add(time.Hour), day.Add(2*time.Hour))

	assert.Equal(t, 2, report.PairsCounted)
	assert.InDelta(t, 20, report.TotalDistanceKm, 1e-6)
}

func TestReport_SkipsSentinelAndJumps(t *testing.T) {
	points := walk(6, 10, 10*time.Minute)
	points[2].GeoPoint = models.GeoPoint{}                  // нет фикса
	points[5].Latitude = points[4].Latitude + 500/kmPerDegree // 3000 км/ч

	report := mustCalculator(t).Report(models.NewRouteSequence(points), day, day.Add(time.Hour*24))

	assert.Equal(t, 2, report.SkippedSentinel)
	assert.Equal(t, 1, report.SkippedJumps)
	assert.Equal(t, 2, report.PairsCounted)
	assert.InDelta(t, 20, report.TotalDistanceKm, 1e-6)
}

func TestReport_ZeroElapsedAndReverseOrder(t *testing.T) {
	points := walk(3, 10, 10*time.Minute)
	points[1].Timestamp = points[0].Timestamp                  // нулевой интервал
	points[2].Timestamp = points[1].Timestamp.Add(-time.Hour) // время назад, 10 км/ч по модулю

	report := mustCalculator(t).Report(models.NewRouteSequence(points), day.Add(-2*time.Hour), day.Add(time.Hour))

	assert.Equal(t, 1, report.SkippedZeroTime)
	assert.Equal(t, 1, report.PairsCounted)
	assert.InDelta(t, 10, report.TotalDistanceKm, 1e-6)
}

func TestReport_Samples(t *testing.T) {
	route := models.NewRouteSequence(walk(60, 0.1, time.Minute))

	report := mustCalculator(t).Report(route, day, day.Add(24*time.Hour))

	require.Len(t, report.Samples, 3) // индексы 0, 25, 50
	assert.Equal(t, route.At(25).Position(), report.Samples[1])
	require.NotNil(t, report.Center)
	assert.InDelta(t, route.At(25).Latitude, report.Center.Latitude, 1e-9)
}

func TestReport_EmptyRange(t *testing.T) {
	route := models.NewRouteSequence(walk(5, 10, time.Hour))

	report := mustCalculator(t).Report(route, day.Add(48*time.Hour), day.Add(72*time.Hour))

	assert.Zero(t, report.TotalDistanceKm)
	assert.Empty(t, report.Samples)
	assert.Nil(t, report.Center)
}

func TestOptions_Validate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())

	_, err := NewCalculator(Options{MaxVelocityKmh: 0, SampleEvery: 25})
	assert.Error(t, err)

	_, err = NewCalculator(Options{MaxVelocityKmh: 1200, SampleEvery: 0})
	assert.Error(t, err)
}
