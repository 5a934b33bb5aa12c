package models

import "time"

// LocationPoint нормализованное наблюдение из истории местоположений
type LocationPoint struct {
	GeoPoint
	Timestamp time.Time `json:"timestamp"`
}

// Position возвращает координаты точки
func (p LocationPoint) Position() GeoPoint {
	return p.GeoPoint
}

// Elapsed время от точки from до точки to
func Elapsed(from, to LocationPoint) time.Duration {
	return to.Timestamp.Sub(from.Timestamp)
}

// VelocityKmh скорость перехода между двумя точками в км/ч.
// При неположительном интервале времени возвращает 0.
func VelocityKmh(from, to LocationPoint) float64 {
	seconds := Elapsed(from, to).Seconds()
	if seconds <= 0 {
		return 0
	}
	return Distance(from.GeoPoint, to.GeoPoint) / seconds * 3600
}

// RouteSequence упорядоченная по времени последовательность точек.
// После создания не изменяется; сегменты ссылаются на точки по индексу.
type RouteSequence struct {
	points []LocationPoint
}

// NewRouteSequence создает последовательность из копии переданных точек
func NewRouteSequence(points []LocationPoint) RouteSequence {
	owned := make([]LocationPoint, len(points))
	copy(owned, points)
	return RouteSequence{points: owned}
}

// Len количество точек
func (r RouteSequence) Len() int {
	return len(r.points)
}

// At возвращает точку по индексу
func (r RouteSequence) At(i int) LocationPoint {
	return r.points[i]
}

// Points возвращает копию всех точек
func (r RouteSequence) Points() []LocationPoint {
	out := make([]LocationPoint, len(r.points))
	copy(out, r.points)
	return out
}
