// Package history декодирует экспорт истории местоположений и строит
// нормализованную последовательность точек.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/flybeeper/flight-history/internal/models"
)

// e7Scale множитель фиксированной точки для координат в экспорте
const e7Scale = 1e7

var (
	// ErrMissingLocations документ не содержит массива locations
	ErrMissingLocations = errors.New("location history has no locations array")
	// ErrInvalidTimestamp временная метка не распознана
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// RawRecord запись истории местоположений в исходном формате
type RawRecord struct {
	Timestamp   string `json:"timestamp"`
	TimestampMs string `json:"timestampMs,omitempty"` // Старый формат экспорта
	LatitudeE7  int64  `json:"latitudeE7"`
	LongitudeE7 int64  `json:"longitudeE7"`
}

// document верхний уровень Records.json
type document struct {
	Locations []RawRecord `json:"locations"`
}

// Decode читает документ {"locations": [...]} из reader
func Decode(r io.Reader) ([]RawRecord, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode location history: %w", err)
	}
	if doc.Locations == nil {
		return nil, ErrMissingLocations
	}
	return doc.Locations, nil
}

// Build нормализует записи в RouteSequence.
// Порядок сохраняется, записи не фильтруются и не сортируются;
// точки (0, 0) проходят без изменений.
func Build(records []RawRecord) (models.RouteSequence, error) {
	points := make([]models.LocationPoint, 0, len(records))

	for i, record := range records {
		ts, err := record.Time()
		if err != nil {
			return models.RouteSequence{}, fmt.Errorf("record %d: %w", i, err)
		}

		points = append(points, models.LocationPoint{
			GeoPoint:  record.Position(),
			Timestamp: ts,
		})
	}

	return models.NewRouteSequence(points), nil
}

// Position переводит координаты E7 в десятичные градусы
func (r RawRecord) Position() models.GeoPoint {
	return models.GeoPoint{
		Latitude:  float64(r.LatitudeE7) / e7Scale,
		Longitude: float64(r.LongitudeE7) / e7Scale,
	}
}

// Time возвращает время записи.
// Если timestamp пуст, используется timestampMs (миллисекунды Unix).
func (r RawRecord) Time() (time.Time, error) {
	if r.Timestamp == "" && r.TimestampMs != "" {
		ms, err := strconv.ParseInt(r.TimestampMs, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: timestampMs %q", ErrInvalidTimestamp, r.TimestampMs)
		}
		return time.UnixMilli(ms).UTC(), nil
	}
	return ParseTimestamp(r.Timestamp)
}

// Поддерживаемые варианты ISO-8601
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp разбирает ISO-8601 метку с суффиксом Z или смещением.
// Метки без зоны считаются UTC.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidTimestamp)
	}

	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, value)
}
