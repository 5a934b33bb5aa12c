package flight

import (
	"time"

	"github.com/flybeeper/flight-history/internal/models"
)

// EndpointGeohashPrecision точность geohash концов полета (~1.2 км, уровень аэропорта)
const EndpointGeohashPrecision = 6

// Summary представление полета для вывода
type Summary struct {
	StartTime       time.Time       `json:"start_time"`
	EndTime         time.Time       `json:"end_time"`
	Start           models.GeoPoint `json:"start"`
	End             models.GeoPoint `json:"end"`
	StartGeohash    string          `json:"start_geohash"`
	EndGeohash      string          `json:"end_geohash"`
	Duration        time.Duration   `json:"-"`
	DurationSeconds float64         `json:"duration_seconds"`
	DistanceKm      float64         `json:"distance_km"`
	AvgSpeedKmh     float64         `json:"avg_speed_kmh"`
	PointCount      int             `json:"point_count"`
}

// Summarize вычисляет сводку по готовому сегменту, сегмент не изменяется
func Summarize(segment Segment) Summary {
	first, last := segment.First(), segment.Last()
	duration := segment.Duration()

	return Summary{
		StartTime:       first.Timestamp,
		EndTime:         last.Timestamp,
		Start:           first.Position(),
		End:             last.Position(),
		StartGeohash:    first.Geohash(EndpointGeohashPrecision),
		EndGeohash:      last.Geohash(EndpointGeohashPrecision),
		Duration:        duration,
		DurationSeconds: duration.Seconds(),
		DistanceKm:      segment.DistanceKm(),
		AvgSpeedKmh:     segment.AvgSpeedKmh(),
		PointCount:      segment.Len(),
	}
}

// SummarizeAll сводки для списка сегментов
func SummarizeAll(segments []Segment) []Summary {
	out := make([]Summary, 0, len(segments))
	for _, segment := range segments {
		out = append(out, Summarize(segment))
	}
	return out
}
