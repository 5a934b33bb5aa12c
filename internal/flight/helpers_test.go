package flight

import (
	"io"
	"math"
	"time"

	"github.com/flybeeper/flight-history/internal/models"
	"github.com/flybeeper/flight-history/pkg/utils"
)

// Точки строятся вдоль меридиана, где 1 градус широты = kmPerDegree км
const kmPerDegree = models.EarthRadiusKm * math.Pi / 180

var baseTime = time.Date(2023, 6, 1, 8, 0, 0, 0, time.UTC)

// leg перемещение на север на km за dt от предыдущей точки
type leg struct {
	km float64
	dt time.Duration
}

// buildRoute строит маршрут от (-40, 20), каждая нога сдвигает точку на север
func buildRoute(legs ...leg) models.RouteSequence {
	current := models.LocationPoint{
		GeoPoint:  models.GeoPoint{Latitude: -40, Longitude: 20},
		Timestamp: baseTime,
	}
	points := []models.LocationPoint{current}

	for _, l := range legs {
		current = models.LocationPoint{
			GeoPoint: models.GeoPoint{
				Latitude:  current.Latitude + l.km/kmPerDegree,
				Longitude: current.Longitude,
			},
			Timestamp: current.Timestamp.Add(l.dt),
		}
		points = append(points, current)
	}

	return models.NewRouteSequence(points)
}

func mustDetector() *Detector {
	d, err := NewDetector(DefaultThresholds())
	if err != nil {
		panic(err)
	}
	return d
}

func mustMerger() *Merger {
	m, err := NewMerger(DefaultMergeOptions())
	if err != nil {
		panic(err)
	}
	return m
}

func mustFilter() *Filter {
	f, err := NewFilter(DefaultFilterThresholds())
	if err != nil {
		panic(err)
	}
	return f
}

func testLogger() *utils.Logger {
	return utils.NewLoggerWithOutput("debug", "text", io.Discard)
}
