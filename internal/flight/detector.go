package flight

import (
	"fmt"

	"github.com/flybeeper/flight-history/internal/models"
)

// TransitionCounts статистика переходов за один проход детектора
type TransitionCounts struct {
	Valid                  int `json:"valid"`
	SkippedSentinel        int `json:"skipped_sentinel"`
	SkippedNonPositiveTime int `json:"skipped_non_positive_time"`
	SkippedZeroDistance    int `json:"skipped_zero_distance"`
	Airborne               int `json:"airborne"`
	Ground                 int `json:"ground"`
	Indeterminate          int `json:"indeterminate"`
}

func (c *TransitionCounts) add(tr Transition) {
	switch tr.Status {
	case TransitionValid:
		c.Valid++
	case TransitionSkippedSentinel:
		c.SkippedSentinel++
	case TransitionSkippedNonPositiveTime:
		c.SkippedNonPositiveTime++
	case TransitionSkippedZeroDistance:
		c.SkippedZeroDistance++
	}

	switch tr.Band {
	case BandAirborne:
		c.Airborne++
	case BandGround:
		c.Ground++
	case BandIndeterminate:
		c.Indeterminate++
	}
}

// Detection результат прохода детектора
type Detection struct {
	Candidates  []Segment
	Transitions TransitionCounts
	// Закрытые сегменты с нулевой дистанцией или длительностью
	Discarded int
}

// Detector конечный автомат по скоростям соседних точек
type Detector struct {
	thresholds Thresholds
}

// NewDetector создает детектор с заданными порогами
func NewDetector(thresholds Thresholds) (*Detector, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid detector thresholds: %w", err)
	}
	return &Detector{thresholds: thresholds}, nil
}

// Thresholds возвращает пороги детектора
func (d *Detector) Thresholds() Thresholds {
	return d.thresholds
}

// Transition оценивает переход между точками i-1 и i
func (d *Detector) Transition(route models.RouteSequence, i int) Transition {
	return evaluateTransition(route.At(i-1), route.At(i), i, d.thresholds)
}

// Trace возвращает оценку каждого перехода маршрута
func (d *Detector) Trace(route models.RouteSequence) []Transition {
	if route.Len() < 2 {
		return nil
	}
	out := make([]Transition, 0, route.Len()-1)
	for i := 1; i < route.Len(); i++ {
		out = append(out, d.Transition(route, i))
	}
	return out
}

// Detect возвращает кандидатов в полеты в хронологическом порядке
func (d *Detector) Detect(route models.RouteSequence) []Segment {
	return d.Scan(route).Candidates
}

// Scan выполняет проход детектора со статистикой.
// Пропущенные пары не открывают, не продлевают и не закрывают сегмент.
// Промежуточная полоса тоже не меняет состояние.
func (d *Detector) Scan(route models.RouteSequence) Detection {
	var result Detection
	if route.Len() < 2 {
		return result
	}

	var open []int // nil - нет открытого сегмента

	closeOpen := func() {
		segment := newSegment(route, open)
		if segment.committable() {
			result.Candidates = append(result.Candidates, segment)
		} else {
			result.Discarded++
		}
		open = nil
	}

	for i := 1; i < route.Len(); i++ {
		tr := d.Transition(route, i)
		result.Transitions.add(tr)

		if tr.Status != TransitionValid {
			continue
		}

		switch tr.Band {
		case BandAirborne:
			if open == nil {
				// Сегмент начинается с точки до пересечения порога
				open = []int{i - 1}
			}
			open = append(open, i)
		case BandGround:
			if open != nil {
				closeOpen()
			}
		}
	}

	if open != nil {
		closeOpen()
	}

	return result
}
