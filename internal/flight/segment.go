package flight

import (
	"time"

	"github.com/flybeeper/flight-history/internal/models"
)

// Segment кандидат или подтвержденный полет.
// Хранит индексы точек маршрута, сами точки не копируются и не изменяются.
type Segment struct {
	route   models.RouteSequence
	indices []int
}

// newSegment создает сегмент из индексов маршрута
func newSegment(route models.RouteSequence, indices []int) Segment {
	return Segment{route: route, indices: indices}
}

// Len количество точек в сегменте
func (s Segment) Len() int {
	return len(s.indices)
}

// At возвращает k-ю точку сегмента
func (s Segment) At(k int) models.LocationPoint {
	return s.route.At(s.indices[k])
}

// First первая точка сегмента
func (s Segment) First() models.LocationPoint {
	return s.At(0)
}

// Last последняя точка сегмента
func (s Segment) Last() models.LocationPoint {
	return s.At(len(s.indices) - 1)
}

// Indices возвращает копию индексов точек в маршруте
func (s Segment) Indices() []int {
	out := make([]int, len(s.indices))
	copy(out, s.indices)
	return out
}

// Points возвращает точки сегмента по порядку
func (s Segment) Points() []models.LocationPoint {
	out := make([]models.LocationPoint, len(s.indices))
	for k := range s.indices {
		out[k] = s.At(k)
	}
	return out
}

// DistanceKm сумма расстояний между соседними точками сегмента.
// Пары с точкой (0, 0) не учитываются.
func (s Segment) DistanceKm() float64 {
	total := 0.0
	for k := 1; k < len(s.indices); k++ {
		prev, curr := s.At(k-1), s.At(k)
		if prev.IsSentinel() || curr.IsSentinel() {
			continue
		}
		total += models.Distance(prev.GeoPoint, curr.GeoPoint)
	}
	return total
}

// Duration время от первой до последней точки
func (s Segment) Duration() time.Duration {
	if len(s.indices) == 0 {
		return 0
	}
	return models.Elapsed(s.First(), s.Last())
}

// AvgSpeedKmh средняя скорость по сегменту, 0 при неположительной длительности
func (s Segment) AvgSpeedKmh() float64 {
	hours := s.Duration().Hours()
	if hours <= 0 {
		return 0
	}
	return s.DistanceKm() / hours
}

// concat возвращает новый сегмент из точек s и next, исходные не меняются
func (s Segment) concat(next Segment) Segment {
	indices := make([]int, 0, len(s.indices)+len(next.indices))
	indices = append(indices, s.indices...)
	indices = append(indices, next.indices...)
	return newSegment(s.route, indices)
}

// committable сегмент имеет положительные дистанцию и длительность
func (s Segment) committable() bool {
	return len(s.indices) > 0 && s.DistanceKm() > 0 && s.Duration() > 0
}
