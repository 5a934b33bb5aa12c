// Package travel считает общее пройденное расстояние по истории местоположений
package travel

import (
	"fmt"
	"math"
	"time"

	"github.com/flybeeper/flight-history/internal/metrics"
	"github.com/flybeeper/flight-history/internal/models"
)

const (
	// EarthCircumferenceKm длина экватора для пересчета "вокруг Земли"
	EarthCircumferenceKm = 40775.0
	// MoonDistanceKm среднее расстояние до Луны
	MoonDistanceKm = 384400.0
)

// Options параметры отчета
type Options struct {
	// Пары с большей скоростью считаются скачком GPS
	MaxVelocityKmh float64 `yaml:"max_velocity_kmh" json:"max_velocity_kmh"`
	// Каждая N-я точка попадает в выборку для карты
	SampleEvery int `yaml:"sample_every" json:"sample_every"`
}

// DefaultOptions 1200 км/ч и каждая 25-я точка
func DefaultOptions() Options {
	return Options{
		MaxVelocityKmh: 1200,
		SampleEvery:    25,
	}
}

// Validate проверяет параметры отчета
func (o Options) Validate() error {
	if o.MaxVelocityKmh <= 0 {
		return fmt.Errorf("max velocity must be positive, got %.1f", o.MaxVelocityKmh)
	}
	if o.SampleEvery <= 0 {
		return fmt.Errorf("sample step must be positive, got %d", o.SampleEvery)
	}
	return nil
}

// Report итог по диапазону дат
type Report struct {
	From            time.Time         `json:"from"`
	To              time.Time         `json:"to"`
	TotalDistanceKm float64           `json:"total_distance_km"`
	AroundTheEarth  float64           `json:"around_the_earth"`
	ToTheMoon       float64           `json:"to_the_moon"`
	PairsCounted    int               `json:"pairs_counted"`
	SkippedSentinel int               `json:"skipped_sentinel"`
	SkippedZeroTime int               `json:"skipped_zero_time"`
	SkippedJumps    int               `json:"skipped_jumps"`
	Samples         []models.GeoPoint `json:"samples"`
	Center          *models.GeoPoint  `json:"center,omitempty"`
}

// Calculator считает отчеты о пройденном расстоянии
type Calculator struct {
	opts Options
}

// NewCalculator создает калькулятор
func NewCalculator(opts Options) (*Calculator, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid travel options: %w", err)
	}
	return &Calculator{opts: opts}, nil
}

// Report считает расстояние по парам (i, i+1), у которых точка i попадает
// в [from, to]. Пары с (0, 0), с нулевым интервалом времени и со скоростью
// выше MaxVelocityKmh пропускаются. Порядок времени внутри пары не важен.
func (c *Calculator) Report(route models.RouteSequence, from, to time.Time) Report {
	report := Report{
		From:    from,
		To:      to,
		Samples: []models.GeoPoint{},
	}

	for i := 0; i < route.Len(); i++ {
		curr := route.At(i)
		if !inRange(curr.Timestamp, from, to) {
			continue
		}

		if i%c.opts.SampleEvery == 0 && !curr.IsSentinel() {
			report.Samples = append(report.Samples, curr.Position())
		}

		if i+1 >= route.Len() {
			continue
		}
		next := route.At(i + 1)

		if curr.IsSentinel() || next.IsSentinel() {
			report.SkippedSentinel++
			continue
		}

		elapsed := math.Abs(models.Elapsed(curr, next).Seconds())
		if elapsed == 0 {
			report.SkippedZeroTime++
			continue
		}

		distance := models.Distance(curr.GeoPoint, next.GeoPoint)
		if distance/elapsed*3600 > c.opts.MaxVelocityKmh {
			report.SkippedJumps++
			continue
		}

		report.TotalDistanceKm += distance
		report.PairsCounted++
	}

	report.AroundTheEarth = report.TotalDistanceKm / EarthCircumferenceKm
	report.ToTheMoon = report.TotalDistanceKm / MoonDistanceKm

	if center, ok := models.Centroid(report.Samples); ok {
		report.Center = &center
	}

	metrics.TravelReports.Inc()
	metrics.TravelPairsSkipped.WithLabelValues("sentinel").Add(float64(report.SkippedSentinel))
	metrics.TravelPairsSkipped.WithLabelValues("zero_time").Add(float64(report.SkippedZeroTime))
	metrics.TravelPairsSkipped.WithLabelValues("jump").Add(float64(report.SkippedJumps))

	return report
}

func inRange(ts, from, to time.Time) bool {
	return !ts.Before(from) && !ts.After(to)
}
