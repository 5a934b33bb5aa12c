// Package report форматирует результаты анализа для человека
package report

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/flybeeper/flight-history/internal/flight"
	"github.com/flybeeper/flight-history/internal/travel"
)

var printer = message.NewPrinter(language.English)

// FormatDistance км с двумя знаками и апострофом как разделителем тысяч: 12'345.67
func FormatDistance(km float64) string {
	return strings.ReplaceAll(printer.Sprintf("%.2f", km), ",", "'")
}

// FormatDuration длительность в виде H:MM:SS
func FormatDuration(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%s%d:%02d:%02d", sign, total/3600, (total/60)%60, total%60)
}

// FormatFlight одна строка с описанием полета
func FormatFlight(s flight.Summary) string {
	return fmt.Sprintf(
		"Flight on date: %s, time: %s-%s from %s to %s. Duration: %s, Distance: %s km",
		s.StartTime.Format("2006-01-02"),
		s.StartTime.Format("15:04:05"),
		s.EndTime.Format("15:04:05"),
		s.Start,
		s.End,
		FormatDuration(s.Duration),
		FormatDistance(s.DistanceKm),
	)
}

// FormatTravel краткое описание отчета о расстоянии
func FormatTravel(r travel.Report) string {
	return fmt.Sprintf(
		"Travelled %s km between %s and %s: %.2f times around the Earth, %.4f of the way to the Moon",
		FormatDistance(r.TotalDistanceKm),
		r.From.Format("2006-01-02"),
		r.To.Format("2006-01-02"),
		r.AroundTheEarth,
		r.ToTheMoon,
	)
}
