package observability

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/spec-kit/parcel-service/internal/config"
)

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "chatty"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !logger.Core().Enabled(zap.InfoLevel) || logger.Core().Enabled(zap.DebugLevel) {
		t.Fatal("expected info level")
	}
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/parcels/add", "POST", 200, 15*time.Millisecond)
	m.RecordRequest("/api/parcels/add", "POST", 200, 5*time.Millisecond)
	m.RecordError("/api/parcels/add", "POST", "VALIDATION_FAILED")
	m.RecordNotification("parcel_registered_sender", "failed")

	if got := testutil.ToFloat64(m.requestCount.WithLabelValues("POST", "/api/parcels/add", "200")); got != 2 {
		t.Errorf("request count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.errorCount.WithLabelValues("POST", "/api/parcels/add", "VALIDATION_FAILED")); got != 1 {
		t.Errorf("error count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.notificationSent.WithLabelValues("parcel_registered_sender", "failed")); got != 1 {
		t.Errorf("notification count = %v, want 1", got)
	}

	var nilMetrics *Metrics
	nilMetrics.RecordError("/", "GET", "X")
}

func TestRequestLoggerPropagatesRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), NewMetrics()))
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString(RequestID(c))
	})

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("response request id = %q, want abc-123", got)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/ping", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("expected generated request id")
	}
}
