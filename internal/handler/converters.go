package handler

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/flybeeper/flight-history/internal/flight"
	"github.com/flybeeper/flight-history/internal/report"
	"github.com/flybeeper/flight-history/internal/travel"
)

// toProtoStruct конвертирует JSON представление ответа в google.protobuf.Struct
func toProtoStruct(payload interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("payload is not an object: %w", err)
	}

	return structpb.NewStruct(fields)
}

// flightLines текстовое представление полетов
func flightLines(flights []flight.Summary) []string {
	lines := make([]string, 0, len(flights))
	for _, summary := range flights {
		lines = append(lines, report.FormatFlight(summary))
	}
	return lines
}

func formatTravelLine(r travel.Report) string {
	return report.FormatTravel(r)
}
