package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP метрики
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flight_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flight_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Метрики загрузки истории
	RecordsDecoded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flight_history_records_decoded_total",
			Help: "Total number of location history records decoded",
		},
	)

	HistoryDecodeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flight_history_decode_errors_total",
			Help: "Total number of location history documents that failed to decode",
		},
		[]string{"reason"}, // json, timestamp, too_large
	)

	// Метрики конвейера
	PointsAnalyzed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flight_points_analyzed_total",
			Help: "Total number of location points passed to the flight detector",
		},
	)

	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flight_transitions_total",
			Help: "Total number of point transitions by evaluation status",
		},
		[]string{"status"},
	)

	SegmentCandidates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flight_segment_candidates_total",
			Help: "Total number of flight candidates committed by the detector",
		},
	)

	SegmentsDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flight_segments_discarded_total",
			Help: "Total number of detector segments discarded for zero distance or duration",
		},
	)

	SegmentsMerged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flight_segments_merged_total",
			Help: "Total number of candidates merged into a preceding candidate",
		},
	)

	FlightsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flight_candidates_rejected_total",
			Help: "Total number of candidates rejected by the distance and speed filter",
		},
	)

	FlightsDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flight_flights_detected_total",
			Help: "Total number of flights detected",
		},
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flight_analysis_duration_seconds",
			Help:    "Duration of a full flight analysis run in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	FlightDistanceKm = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flight_distance_km",
			Help:    "Distance of detected flights in kilometers",
			Buckets: []float64{200, 500, 1000, 2000, 4000, 8000, 12000, 16000},
		},
	)

	// Метрики отчета о пройденном расстоянии
	TravelReports = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flight_travel_reports_total",
			Help: "Total number of travel distance reports computed",
		},
	)

	TravelPairsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flight_travel_pairs_skipped_total",
			Help: "Total number of point pairs skipped by the travel distance report",
		},
		[]string{"reason"}, // sentinel, zero_time, jump
	)

	// Общие метрики приложения
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "flight_app_info",
			Help: "Application information",
		},
		[]string{"version"},
	)
)

// SetAppInfo устанавливает информацию о версии приложения
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version).Set(1)
}
