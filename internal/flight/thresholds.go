package flight

import (
	"fmt"
	"time"
)

// Thresholds пороги скоростей для классификации переходов (км/ч)
type Thresholds struct {
	// Нижняя граница полета, не включительно
	AirborneMinKmh float64 `yaml:"airborne_min_kmh" json:"airborne_min_kmh"`
	// Верхняя граница полета, включительно
	AirborneMaxKmh float64 `yaml:"airborne_max_kmh" json:"airborne_max_kmh"`
	// Скорость ниже этого значения означает землю
	GroundMaxKmh float64 `yaml:"ground_max_kmh" json:"ground_max_kmh"`
}

// DefaultThresholds возвращает эмпирические пороги по умолчанию
func DefaultThresholds() Thresholds {
	return Thresholds{
		AirborneMinKmh: 250,
		AirborneMaxKmh: 1800, // ~ скорость звука с запасом
		GroundMaxKmh:   40,
	}
}

// Validate проверяет согласованность порогов
func (t Thresholds) Validate() error {
	if t.GroundMaxKmh <= 0 {
		return fmt.Errorf("ground max speed must be positive, got %.1f", t.GroundMaxKmh)
	}
	if t.AirborneMinKmh < t.GroundMaxKmh {
		return fmt.Errorf("airborne min speed %.1f is below ground max speed %.1f", t.AirborneMinKmh, t.GroundMaxKmh)
	}
	if t.AirborneMaxKmh <= t.AirborneMinKmh {
		return fmt.Errorf("airborne max speed %.1f must exceed airborne min speed %.1f", t.AirborneMaxKmh, t.AirborneMinKmh)
	}
	return nil
}

// Classify относит скорость к одной из полос
func (t Thresholds) Classify(velocityKmh float64) Band {
	switch {
	case velocityKmh > t.AirborneMinKmh && velocityKmh <= t.AirborneMaxKmh:
		return BandAirborne
	case velocityKmh < t.GroundMaxKmh:
		return BandGround
	default:
		return BandIndeterminate
	}
}

// MergeOptions параметры объединения соседних кандидатов
type MergeOptions struct {
	SpeedToleranceKmh float64       `yaml:"speed_tolerance_kmh" json:"speed_tolerance_kmh"`
	TimeGap           time.Duration `yaml:"time_gap" json:"time_gap"`
}

// DefaultMergeOptions 50 км/ч и 30 минут
func DefaultMergeOptions() MergeOptions {
	return MergeOptions{
		SpeedToleranceKmh: 50,
		TimeGap:           30 * time.Minute,
	}
}

// Validate проверяет параметры объединения
func (o MergeOptions) Validate() error {
	if o.SpeedToleranceKmh < 0 {
		return fmt.Errorf("speed tolerance must not be negative, got %.1f", o.SpeedToleranceKmh)
	}
	if o.TimeGap < 0 {
		return fmt.Errorf("time gap must not be negative, got %s", o.TimeGap)
	}
	return nil
}

// FilterThresholds финальные критерии "это действительно полет"
type FilterThresholds struct {
	// Минимальная дистанция, не включительно
	MinDistanceKm float64 `yaml:"min_distance_km" json:"min_distance_km"`
	// Минимальная средняя скорость, включительно
	MinAvgSpeedKmh float64 `yaml:"min_avg_speed_kmh" json:"min_avg_speed_kmh"`
}

// DefaultFilterThresholds 200 км и 250 км/ч
func DefaultFilterThresholds() FilterThresholds {
	return FilterThresholds{
		MinDistanceKm:  200,
		MinAvgSpeedKmh: 250,
	}
}

// Validate проверяет критерии фильтра
func (f FilterThresholds) Validate() error {
	if f.MinDistanceKm < 0 {
		return fmt.Errorf("min distance must not be negative, got %.1f", f.MinDistanceKm)
	}
	if f.MinAvgSpeedKmh < 0 {
		return fmt.Errorf("min average speed must not be negative, got %.1f", f.MinAvgSpeedKmh)
	}
	return nil
}
