package flight

import (
	"time"

	"github.com/flybeeper/flight-history/internal/metrics"
	"github.com/flybeeper/flight-history/internal/models"
	"github.com/flybeeper/flight-history/pkg/utils"
)

// Options параметры всего конвейера
type Options struct {
	Thresholds Thresholds       `yaml:"thresholds" json:"thresholds"`
	Merge      MergeOptions     `yaml:"merge" json:"merge"`
	Filter     FilterThresholds `yaml:"filter" json:"filter"`
}

// DefaultOptions параметры по умолчанию
func DefaultOptions() Options {
	return Options{
		Thresholds: DefaultThresholds(),
		Merge:      DefaultMergeOptions(),
		Filter:     DefaultFilterThresholds(),
	}
}

// Stats статистика одного прогона
type Stats struct {
	Points      int              `json:"points"`
	Transitions TransitionCounts `json:"transitions"`
	Candidates  int              `json:"candidates"`
	Discarded   int              `json:"discarded"`
	Merged      int              `json:"merged"`
	Rejected    int              `json:"rejected"`
	Flights     int              `json:"flights"`
}

// Result результат анализа маршрута
type Result struct {
	Flights  []Summary `json:"flights"`
	Segments []Segment `json:"-"`
	Stats    Stats     `json:"stats"`
}

// Analyzer конвейер detector -> merger -> filter -> summary
type Analyzer struct {
	detector *Detector
	merger   *Merger
	filter   *Filter
	logger   *utils.Logger
}

// NewAnalyzer создает конвейер, проверяя все параметры
func NewAnalyzer(opts Options, logger *utils.Logger) (*Analyzer, error) {
	detector, err := NewDetector(opts.Thresholds)
	if err != nil {
		return nil, err
	}
	merger, err := NewMerger(opts.Merge)
	if err != nil {
		return nil, err
	}
	filter, err := NewFilter(opts.Filter)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		detector: detector,
		merger:   merger,
		filter:   filter,
		logger:   logger,
	}, nil
}

// Analyze прогоняет маршрут через весь конвейер
func (a *Analyzer) Analyze(route models.RouteSequence) Result {
	start := time.Now()

	detection := a.detector.Scan(route)

	result := Result{
		Stats: Stats{
			Points:      route.Len(),
			Transitions: detection.Transitions,
			Candidates:  len(detection.Candidates),
			Discarded:   detection.Discarded,
		},
	}

	// Объединитель требует хотя бы одного кандидата
	if len(detection.Candidates) > 0 {
		merged, err := a.merger.Merge(detection.Candidates)
		if err != nil {
			// Недостижимо при непустом входе
			a.logger.WithError(err).Error("Segment merge failed")
			merged = detection.Candidates
		}

		flights := a.filter.Apply(merged)

		result.Segments = flights
		result.Stats.Merged = len(detection.Candidates) - len(merged)
		result.Stats.Rejected = len(merged) - len(flights)
	}

	result.Flights = SummarizeAll(result.Segments)
	result.Stats.Flights = len(result.Flights)

	a.observe(result, time.Since(start))

	return result
}

// observe пишет метрики и итоговый лог
func (a *Analyzer) observe(result Result, duration time.Duration) {
	stats := result.Stats

	metrics.PointsAnalyzed.Add(float64(stats.Points))
	metrics.TransitionsTotal.WithLabelValues(TransitionValid.String()).Add(float64(stats.Transitions.Valid))
	metrics.TransitionsTotal.WithLabelValues(TransitionSkippedSentinel.String()).Add(float64(stats.Transitions.SkippedSentinel))
	metrics.TransitionsTotal.WithLabelValues(TransitionSkippedNonPositiveTime.String()).Add(float64(stats.Transitions.SkippedNonPositiveTime))
	metrics.TransitionsTotal.WithLabelValues(TransitionSkippedZeroDistance.String()).Add(float64(stats.Transitions.SkippedZeroDistance))
	metrics.SegmentCandidates.Add(float64(stats.Candidates))
	metrics.SegmentsDiscarded.Add(float64(stats.Discarded))
	metrics.SegmentsMerged.Add(float64(stats.Merged))
	metrics.FlightsRejected.Add(float64(stats.Rejected))
	metrics.FlightsDetected.Add(float64(stats.Flights))
	metrics.AnalysisDuration.Observe(duration.Seconds())

	for _, summary := range result.Flights {
		metrics.FlightDistanceKm.Observe(summary.DistanceKm)
	}

	if stats.Transitions.SkippedSentinel > 0 {
		a.logger.WithField("skipped_sentinel", stats.Transitions.SkippedSentinel).
			Debug("Transitions with (0, 0) coordinates skipped")
	}

	a.logger.WithFields(map[string]interface{}{
		"points":      stats.Points,
		"candidates":  stats.Candidates,
		"discarded":   stats.Discarded,
		"merged":      stats.Merged,
		"rejected":    stats.Rejected,
		"flights":     stats.Flights,
		"duration_ms": duration.Milliseconds(),
	}).Info("Flight analysis completed")
}
