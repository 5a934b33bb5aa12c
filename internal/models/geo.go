package models

import (
	"fmt"
	"math"

	"github.com/mmcloughlin/geohash"
)

// EarthRadiusKm радиус сферической Земли для формулы Haversine
const EarthRadiusKm = 6371.0

// GeoPoint представляет географическую точку в десятичных градусах
type GeoPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Validate проверяет корректность координат
func (p GeoPoint) Validate() error {
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("invalid latitude: %f", p.Latitude)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("invalid longitude: %f", p.Longitude)
	}
	return nil
}

// IsSentinel проверяет, является ли точка маркером отсутствующего фикса (0, 0)
func (p GeoPoint) IsSentinel() bool {
	return p.Latitude == 0 && p.Longitude == 0
}

// DistanceTo вычисляет расстояние до другой точки в километрах (формула Haversine).
// Для (0, 0) результат бессмысленен, вызывающий код должен проверять IsSentinel.
func (p GeoPoint) DistanceTo(other GeoPoint) float64 {
	lat1Rad := p.Latitude * math.Pi / 180
	lat2Rad := other.Latitude * math.Pi / 180
	deltaLat := (other.Latitude - p.Latitude) * math.Pi / 180
	deltaLon := (other.Longitude - p.Longitude) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Geohash возвращает geohash для точки с заданной точностью
func (p GeoPoint) Geohash(precision int) string {
	return geohash.EncodeWithPrecision(p.Latitude, p.Longitude, uint(precision))
}

// String форматирует точку как "lat, lon"
func (p GeoPoint) String() string {
	return fmt.Sprintf("%.7f, %.7f", p.Latitude, p.Longitude)
}

// Distance great-circle расстояние между двумя точками в километрах
func Distance(p1, p2 GeoPoint) float64 {
	return p1.DistanceTo(p2)
}

// Centroid возвращает среднюю точку набора координат.
// Второе значение false, если набор пуст.
func Centroid(points []GeoPoint) (GeoPoint, bool) {
	if len(points) == 0 {
		return GeoPoint{}, false
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Latitude
		sumLon += p.Longitude
	}

	n := float64(len(points))
	return GeoPoint{Latitude: sumLat / n, Longitude: sumLon / n}, true
}
