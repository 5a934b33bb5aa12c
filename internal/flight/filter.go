package flight

import "fmt"

// Filter окончательный отбор полетов по дистанции и средней скорости
type Filter struct {
	thresholds FilterThresholds
}

// NewFilter создает фильтр с заданными критериями
func NewFilter(thresholds FilterThresholds) (*Filter, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid filter thresholds: %w", err)
	}
	return &Filter{thresholds: thresholds}, nil
}

// Accepts проверяет, является ли сегмент полетом
func (f *Filter) Accepts(segment Segment) bool {
	return segment.DistanceKm() > f.thresholds.MinDistanceKm &&
		segment.AvgSpeedKmh() >= f.thresholds.MinAvgSpeedKmh
}

// Apply возвращает новый список из прошедших фильтр сегментов
func (f *Filter) Apply(candidates []Segment) []Segment {
	flights := make([]Segment, 0, len(candidates))
	for _, candidate := range candidates {
		if f.Accepts(candidate) {
			flights = append(flights, candidate)
		}
	}
	return flights
}
