// flight-report печатает полеты и пройденное расстояние из экспорта Records.json
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/flybeeper/flight-history/internal/config"
	"github.com/flybeeper/flight-history/internal/flight"
	"github.com/flybeeper/flight-history/internal/history"
	"github.com/flybeeper/flight-history/internal/models"
	"github.com/flybeeper/flight-history/internal/report"
	"github.com/flybeeper/flight-history/internal/travel"
	"github.com/flybeeper/flight-history/pkg/utils"
)

const dateLayout = "2006-01-02"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "flight-report: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("flight-report", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		file     = fs.String("file", "Records.json", "Location history export")
		from     = fs.String("from", "", "Travel report start date (YYYY-MM-DD)")
		to       = fs.String("to", "", "Travel report end date, inclusive (YYYY-MM-DD)")
		logLevel = fs.String("log-level", "warn", "Log level")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := utils.NewLoggerWithOutput(*logLevel, "text", stderr)

	route, err := loadRoute(*file)
	if err != nil {
		return err
	}
	logger.WithFields(map[string]interface{}{
		"file":   *file,
		"points": route.Len(),
	}).Info("Location history loaded")

	analyzer, err := flight.NewAnalyzer(cfg.Detection, logger)
	if err != nil {
		return err
	}

	result := analyzer.Analyze(route)
	for _, summary := range result.Flights {
		fmt.Fprintln(stdout, report.FormatFlight(summary))
	}
	fmt.Fprintf(stdout, "Flights found: %d\n", len(result.Flights))

	if *from == "" && *to == "" {
		return nil
	}

	start, end, err := parseRange(*from, *to)
	if err != nil {
		return err
	}

	calculator, err := travel.NewCalculator(cfg.Travel)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, report.FormatTravel(calculator.Report(route, start, end)))

	return nil
}

func loadRoute(path string) (models.RouteSequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.RouteSequence{}, fmt.Errorf("failed to open history: %w", err)
	}
	defer f.Close()

	records, err := history.Decode(f)
	if err != nil {
		return models.RouteSequence{}, err
	}
	return history.Build(records)
}

func parseRange(from, to string) (time.Time, time.Time, error) {
	if from == "" || to == "" {
		return time.Time{}, time.Time{}, errors.New("both -from and -to are required for travel report")
	}
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid -from: %w", err)
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid -to: %w", err)
	}
	return start, end.Add(24*time.Hour - time.Nanosecond), nil
}
