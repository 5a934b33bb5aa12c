package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/protobuf/proto"

	"github.com/flybeeper/flight-history/internal/flight"
	"github.com/flybeeper/flight-history/internal/history"
	"github.com/flybeeper/flight-history/internal/metrics"
	"github.com/flybeeper/flight-history/internal/models"
	"github.com/flybeeper/flight-history/internal/travel"
	"github.com/flybeeper/flight-history/pkg/utils"
)

const (
	// dateLayout формат start_date/end_date
	dateLayout = "2006-01-02"
	// uploadField имя поля multipart формы
	uploadField = "file"
)

// FlightHandler обработчик загрузки истории местоположений
type FlightHandler struct {
	analyzer   *flight.Analyzer
	calculator *travel.Calculator
	maxBytes   int64
	logger     *utils.Logger
}

// NewFlightHandler создает новый handler
func NewFlightHandler(analyzer *flight.Analyzer, calculator *travel.Calculator, maxBytes int64, logger *utils.Logger) *FlightHandler {
	return &FlightHandler{
		analyzer:   analyzer,
		calculator: calculator,
		maxBytes:   maxBytes,
		logger:     logger,
	}
}

// DetectFlights находит полеты в загруженной истории
// POST /api/v1/flights (multipart поле file или сырой JSON)
// ?format=text возвращает по строке на полет
func (h *FlightHandler) DetectFlights(c *gin.Context) {
	route, ok := h.readRoute(c)
	if !ok {
		return
	}

	result := h.analyzer.Analyze(route)

	if c.Query("format") == "text" {
		c.String(http.StatusOK, strings.Join(flightLines(result.Flights), "\n"))
		return
	}

	h.respond(c, result)
}

// TravelDistance считает пройденное расстояние за диапазон дат
// POST /api/v1/distance?start_date=2023-01-01&end_date=2023-12-31
func (h *FlightHandler) TravelDistance(c *gin.Context) {
	from, to, err := parseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "invalid_date_range",
			"message": err.Error(),
		})
		return
	}

	route, ok := h.readRoute(c)
	if !ok {
		return
	}

	report := h.calculator.Report(route, from, to)

	h.logger.WithFields(map[string]interface{}{
		"from":        from.Format(dateLayout),
		"to":          to.Format(dateLayout),
		"distance_km": report.TotalDistanceKm,
		"pairs":       report.PairsCounted,
	}).Info("Travel distance request completed")

	if c.Query("format") == "text" {
		c.String(http.StatusOK, formatTravelLine(report))
		return
	}

	h.respond(c, report)
}

// readRoute читает тело запроса и строит маршрут.
// При ошибке ответ уже записан и возвращается false.
func (h *FlightHandler) readRoute(c *gin.Context) (models.RouteSequence, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	body, err := h.openUpload(c)
	if err != nil {
		h.rejectUpload(c, err)
		return models.RouteSequence{}, false
	}
	defer body.Close()

	records, err := history.Decode(body)
	if err != nil {
		h.rejectUpload(c, err)
		return models.RouteSequence{}, false
	}
	metrics.RecordsDecoded.Add(float64(len(records)))

	route, err := history.Build(records)
	if err != nil {
		metrics.HistoryDecodeErrors.WithLabelValues("timestamp").Inc()
		h.logger.WithError(err).Warn("Location history contains invalid timestamp")
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "invalid_timestamp",
			"message": err.Error(),
		})
		return models.RouteSequence{}, false
	}

	return route, true
}

// openUpload возвращает содержимое поля file либо тело запроса
func (h *FlightHandler) openUpload(c *gin.Context) (io.ReadCloser, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return c.Request.Body, nil
	}

	header, err := c.FormFile(uploadField)
	if err != nil {
		return nil, err
	}
	return header.Open()
}

// rejectUpload пишет ошибку чтения истории
func (h *FlightHandler) rejectUpload(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		metrics.HistoryDecodeErrors.WithLabelValues("too_large").Inc()
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"code":    "payload_too_large",
			"message": "Location history exceeds upload limit",
		})
	case errors.Is(err, http.ErrMissingFile):
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "missing_file",
			"message": "Multipart field 'file' is required",
		})
	case errors.Is(err, history.ErrMissingLocations):
		metrics.HistoryDecodeErrors.WithLabelValues("json").Inc()
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "missing_locations",
			"message": err.Error(),
		})
	default:
		metrics.HistoryDecodeErrors.WithLabelValues("json").Inc()
		h.logger.WithError(err).Debug("Failed to decode location history")
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "invalid_history",
			"message": "Failed to decode location history",
		})
	}
}

// respond пишет JSON или Protobuf по заголовку Accept
func (h *FlightHandler) respond(c *gin.Context, payload interface{}) {
	if !strings.Contains(c.GetHeader("Accept"), "application/x-protobuf") {
		c.JSON(http.StatusOK, payload)
		return
	}

	msg, err := toProtoStruct(payload)
	if err == nil {
		var data []byte
		data, err = proto.Marshal(msg)
		if err == nil {
			c.Data(http.StatusOK, "application/x-protobuf", data)
			return
		}
	}

	h.logger.WithError(err).Error("Failed to marshal protobuf")
	c.JSON(http.StatusInternalServerError, gin.H{
		"code":    "marshal_error",
		"message": "Failed to serialize response",
	})
}

// parseDateRange переводит даты YYYY-MM-DD в диапазон UTC,
// end_date включается целиком
func parseDateRange(start, end string) (time.Time, time.Time, error) {
	if start == "" || end == "" {
		return time.Time{}, time.Time{}, errors.New("start_date and end_date are required (YYYY-MM-DD)")
	}

	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("start_date must be YYYY-MM-DD")
	}
	to, err := time.Parse(dateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("end_date must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("end_date must not be before start_date")
	}

	return from, to.Add(24*time.Hour - time.Nanosecond), nil
}
