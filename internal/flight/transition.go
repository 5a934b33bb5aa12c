package flight

import (
	"time"

	"github.com/flybeeper/flight-history/internal/models"
)

// TransitionStatus результат проверки пары соседних точек
type TransitionStatus int

const (
	TransitionValid                  TransitionStatus = iota // Скорость вычислена
	TransitionSkippedSentinel                                // Одна из точек (0, 0)
	TransitionSkippedNonPositiveTime                         // Время не возрастает
	TransitionSkippedZeroDistance                            // Точки совпадают
)

// String возвращает имя статуса для логов и метрик
func (s TransitionStatus) String() string {
	switch s {
	case TransitionValid:
		return "valid"
	case TransitionSkippedSentinel:
		return "skipped_sentinel"
	case TransitionSkippedNonPositiveTime:
		return "skipped_non_positive_time"
	case TransitionSkippedZeroDistance:
		return "skipped_zero_distance"
	default:
		return "unknown"
	}
}

// Band полоса скорости
type Band int

const (
	BandNone          Band = iota // Переход пропущен
	BandAirborne                  // Полет
	BandGround                    // Земля
	BandIndeterminate             // Ни то, ни другое
)

// String возвращает имя полосы
func (b Band) String() string {
	switch b {
	case BandAirborne:
		return "airborne"
	case BandGround:
		return "ground"
	case BandIndeterminate:
		return "indeterminate"
	default:
		return "none"
	}
}

// Transition переход между точками Index-1 и Index
type Transition struct {
	Index       int
	DistanceKm  float64
	Elapsed     time.Duration
	VelocityKmh float64
	Status      TransitionStatus
	Band        Band
}

// evaluateTransition проверяет пару и, если она пригодна, классифицирует скорость
func evaluateTransition(prev, curr models.LocationPoint, index int, thresholds Thresholds) Transition {
	tr := Transition{
		Index:   index,
		Elapsed: models.Elapsed(prev, curr),
	}

	if prev.IsSentinel() || curr.IsSentinel() {
		tr.Status = TransitionSkippedSentinel
		return tr
	}
	if tr.Elapsed <= 0 {
		tr.Status = TransitionSkippedNonPositiveTime
		return tr
	}

	tr.DistanceKm = models.Distance(prev.GeoPoint, curr.GeoPoint)
	if tr.DistanceKm <= 0 {
		tr.Status = TransitionSkippedZeroDistance
		return tr
	}

	tr.Status = TransitionValid
	tr.VelocityKmh = tr.DistanceKm / tr.Elapsed.Seconds() * 3600
	tr.Band = thresholds.Classify(tr.VelocityKmh)
	return tr
}
