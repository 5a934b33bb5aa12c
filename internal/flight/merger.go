package flight

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoCandidates объединение вызвано без кандидатов
var ErrNoCandidates = errors.New("merge requires at least one candidate")

// Merger объединяет соседние кандидаты, разорванные короткой остановкой
// или пропуском GPS
type Merger struct {
	opts MergeOptions
}

// NewMerger создает объединитель с заданными параметрами
func NewMerger(opts MergeOptions) (*Merger, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid merge options: %w", err)
	}
	return &Merger{opts: opts}, nil
}

// Options возвращает параметры объединения
func (m *Merger) Options() MergeOptions {
	return m.opts
}

// ShouldMerge проверяет оба условия: разрыв по времени и разницу средних скоростей
func (m *Merger) ShouldMerge(current, next Segment) bool {
	gap := next.First().Timestamp.Sub(current.Last().Timestamp)
	if gap > m.opts.TimeGap {
		return false
	}
	return math.Abs(current.AvgSpeedKmh()-next.AvgSpeedKmh()) <= m.opts.SpeedToleranceKmh
}

// Merge сворачивает список кандидатов в новый список.
// Пустой вход нарушает контракт и возвращает ErrNoCandidates.
func (m *Merger) Merge(candidates []Segment) ([]Segment, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	merged := make([]Segment, 0, len(candidates))
	current := candidates[0]

	for _, next := range candidates[1:] {
		if m.ShouldMerge(current, next) {
			current = current.concat(next)
			continue
		}
		merged = append(merged, current)
		current = next
	}

	return append(merged, current), nil
}
