package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/flybeeper/flight-history/internal/config"
	"github.com/flybeeper/flight-history/internal/history"
	"github.com/flybeeper/flight-history/internal/models"
	"github.com/flybeeper/flight-history/pkg/utils"
)

const kmPerDegree = models.EarthRadiusKm * math.Pi / 180

var baseTime = time.Date(2023, 6, 1, 8, 0, 0, 0, time.UTC)

// leg перемещение на km к северу за dt
type leg struct {
	km float64
	dt time.Duration
}

// historyJSON строит Records.json, начиная с (10, 20) и двигаясь по меридиану
func historyJSON(t *testing.T, legs ...leg) []byte {
	t.Helper()

	lat, ts := 10.0, baseTime
	records := []history.RawRecord{record(lat, ts)}
	for _, l := range legs {
		lat += l.km / kmPerDegree
		ts = ts.Add(l.dt)
		records = append(records, record(lat, ts))
	}

	data, err := json.Marshal(map[string]interface{}{"locations": records})
	require.NoError(t, err)
	return data
}

func record(lat float64, ts time.Time) history.RawRecord {
	return history.RawRecord{
		Timestamp:   ts.Format(time.RFC3339),
		LatitudeE7:  int64(math.Round(lat * 1e7)),
		LongitudeE7: 20 * 1e7,
	}
}

// flightDay земля, 800 км за час на 800 км/ч, земля
func flightDay(t *testing.T) []byte {
	return historyJSON(t,
		leg{1, 10 * time.Minute},
		leg{200, 15 * time.Minute},
		leg{200, 15 * time.Minute},
		leg{200, 15 * time.Minute},
		leg{200, 15 * time.Minute},
		leg{1, 10 * time.Minute},
	)
}

func setupTestServer(t *testing.T, mutate func(*config.Config)) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}

	server, err := NewServer(cfg, utils.NewLoggerWithOutput("error", "text", io.Discard))
	require.NoError(t, err)
	return server.Router()
}

func post(router *gin.Engine, url string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthCheck(t *testing.T) {
	router := setupTestServer(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestMetricsEndpoint(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		router := setupTestServer(t, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "go_goroutines")
	})

	t.Run("disabled", func(t *testing.T) {
		router := setupTestServer(t, func(cfg *config.Config) {
			cfg.Monitoring.MetricsEnabled = false
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDetectFlights_JSON(t *testing.T) {
	router := setupTestServer(t, nil)

	w := post(router, "/api/v1/flights", flightDay(t), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	flights := body["flights"].([]interface{})
	require.Len(t, flights, 1)

	f := flights[0].(map[string]interface{})
	assert.InDelta(t, 800, f["distance_km"], 0.01)
	assert.InDelta(t, 800, f["avg_speed_kmh"], 0.01)
	assert.Equal(t, 3600.0, f["duration_seconds"])
	assert.Equal(t, 5.0, f["point_count"])
	assert.Equal(t, "2023-06-01T08:10:00Z", f["start_time"])

	stats := body["stats"].(map[string]interface{})
	assert.Equal(t, 7.0, stats["points"])
	assert.Equal(t, 1.0, stats["flights"])
}

func TestDetectFlights_NoFlights(t *testing.T) {
	router := setupTestServer(t, nil)

	w := post(router, "/api/v1/flights", historyJSON(t, leg{1, 10 * time.Minute}, leg{2, 10 * time.Minute}), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, []interface{}{}, body["flights"])
}

func TestDetectFlights_Text(t *testing.T) {
	router := setupTestServer(t, nil)

	w := post(router, "/api/v1/flights?format=text", flightDay(t), nil)
	require.Equal(t, http.StatusOK, w.Code)

	line := w.Body.String()
	assert.True(t, strings.HasPrefix(line, "Flight on date: 2023-06-01, time: 08:10:00-09:10:00 from 10.0089932, 20.0000000"), line)
	assert.Contains(t, line, "Duration: 1:00:00, Distance: 800.00 km")
}

func TestDetectFlights_Protobuf(t *testing.T) {
	router := setupTestServer(t, nil)

	w := post(router, "/api/v1/flights", flightDay(t), map[string]string{"Accept": "application/x-protobuf"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/x-protobuf", w.Header().Get("Content-Type"))

	var msg structpb.Struct
	require.NoError(t, proto.Unmarshal(w.Body.Bytes(), &msg))

	stats := msg.Fields["stats"].GetStructValue()
	require.NotNil(t, stats)
	assert.Equal(t, 1.0, stats.Fields["flights"].GetNumberValue())
	assert.Len(t, msg.Fields["flights"].GetListValue().GetValues(), 1)
}

func TestDetectFlights_Multipart(t *testing.T) {
	router := setupTestServer(t, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "Records.json")
	require.NoError(t, err)
	_, err = part.Write(flightDay(t))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := post(router, "/api/v1/flights", buf.Bytes(), map[string]string{"Content-Type": mw.FormDataContentType()})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Len(t, body["flights"], 1)
}

func TestDetectFlights_Errors(t *testing.T) {
	emptyForm := func() ([]byte, string) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("note", "no file"))
		require.NoError(t, mw.Close())
		return buf.Bytes(), mw.FormDataContentType()
	}
	formBody, formType := emptyForm()

	tests := []struct {
		name        string
		body        []byte
		contentType string
		wantStatus  int
		wantCode    string
	}{
		{"malformed json", []byte(`{"locations": [`), "application/json", http.StatusBadRequest, "invalid_history"},
		{"missing locations", []byte(`{"other": []}`), "application/json", http.StatusBadRequest, "missing_locations"},
		{"bad timestamp", []byte(`{"locations": [{"timestamp": "yesterday", "latitudeE7": 1, "longitudeE7": 1}]}`), "application/json", http.StatusBadRequest, "invalid_timestamp"},
		{"missing file field", formBody, formType, http.StatusBadRequest, "missing_file"},
	}

	router := setupTestServer(t, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(router, "/api/v1/flights", tt.body, map[string]string{"Content-Type": tt.contentType})

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decodeBody(t, w)["code"])
		})
	}
}

func TestDetectFlights_TooLarge(t *testing.T) {
	router := setupTestServer(t, func(cfg *config.Config) {
		cfg.Upload.MaxBytes = 64
	})

	w := post(router, "/api/v1/flights", flightDay(t), nil)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "payload_too_large", decodeBody(t, w)["code"])
}

func TestDetectFlights_CustomThresholds(t *testing.T) {
	router := setupTestServer(t, func(cfg *config.Config) {
		cfg.Detection.Filter.MinDistanceKm = 1000
	})

	w := post(router, "/api/v1/flights", flightDay(t), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Empty(t, body["flights"])
	assert.Equal(t, 1.0, body["stats"].(map[string]interface{})["rejected"])
}

func TestTravelDistance(t *testing.T) {
	router := setupTestServer(t, nil)

	t.Run("whole day", func(t *testing.T) {
		w := post(router, "/api/v1/distance?start_date=2023-06-01&end_date=2023-06-01", flightDay(t), nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		body := decodeBody(t, w)
		assert.InDelta(t, 802, body["total_distance_km"], 0.01)
		assert.Equal(t, 6.0, body["pairs_counted"])
	})

	t.Run("other day", func(t *testing.T) {
		w := post(router, "/api/v1/distance?start_date=2023-06-02&end_date=2023-06-30", flightDay(t), nil)
		require.Equal(t, http.StatusOK, w.Code)

		assert.Equal(t, 0.0, decodeBody(t, w)["total_distance_km"])
	})

	t.Run("text", func(t *testing.T) {
		w := post(router, "/api/v1/distance?start_date=2023-06-01&end_date=2023-06-01&format=text", flightDay(t), nil)
		require.Equal(t, http.StatusOK, w.Code)

		assert.True(t, strings.HasPrefix(w.Body.String(), "Travelled 802.00 km between 2023-06-01 and 2023-06-01"), w.Body.String())
	})
}

func TestTravelDistance_InvalidRange(t *testing.T) {
	router := setupTestServer(t, nil)

	for _, query := range []string{
		"",
		"?start_date=2023-06-01",
		"?start_date=01.06.2023&end_date=2023-06-02",
		"?start_date=2023-06-02&end_date=2023-06-01",
	} {
		t.Run(query, func(t *testing.T) {
			w := post(router, "/api/v1/distance"+query, flightDay(t), nil)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "invalid_date_range", decodeBody(t, w)["code"])
		})
	}
}

func TestParseDateRange(t *testing.T) {
	from, to, err := parseDateRange("2023-01-01", "2023-01-01")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2023, 1, 1, 23, 59, 59, 999999999, time.UTC), to)
}
