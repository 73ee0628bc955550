package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestProvider() *Provider {
	return NewProvider(Config{
		ServiceName:    "assessment-test",
		ServiceVersion: "1.0.0",
		Environment:    "test",
	})
}

func TestResourceAttributes(t *testing.T) {
	tp := newTestProvider()
	res := tp.Resource()
	if res["service.name"] != "assessment-test" {
		t.Errorf("service.name = %q", res["service.name"])
	}
	if res["deployment.environment"] != "test" {
		t.Errorf("deployment.environment = %q", res["deployment.environment"])
	}
}

func TestConfigDefaults(t *testing.T) {
	tp := NewProvider(Config{})
	if tp.cfg.ServiceName != "assessment-server" {
		t.Errorf("default service name = %q", tp.cfg.ServiceName)
	}
	if !tp.cfg.metricsOn() || !tp.cfg.tracingOn() {
		t.Error("metrics and tracing should default to enabled")
	}
}

func TestHistogramObserve(t *testing.T) {
	h := newHistogram([]float64{0.1, 0.5, 1.0})
	h.Observe(0.05)
	h.Observe(0.3)
	h.Observe(2.0) // beyond all boundaries

	if got := h.Count(); got != 3 {
		t.Errorf("Count = %d, want 3", got)
	}
	if got := h.Sum(); got != 2.35 {
		t.Errorf("Sum = %g, want 2.35", got)
	}
	cum := h.cumulativeBuckets()
	want := []int64{1, 2, 2}
	for i := range want {
		if cum[i] != want[i] {
			t.Errorf("cumulative bucket %d = %d, want %d", i, cum[i], want[i])
		}
	}
}

func TestHistogramConcurrentObserve(t *testing.T) {
	h := newHistogram(defaultDurationBuckets)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				h.Observe(0.02)
			}
		}()
	}
	wg.Wait()
	if got := h.Count(); got != 5000 {
		t.Errorf("Count = %d, want 5000", got)
	}
}

func TestOperationCounter(t *testing.T) {
	tp := newTestProvider()
	tp.OperationCounter("submit_answer", "ok")
	tp.OperationCounter("submit_answer", "ok")
	tp.OperationCounter("submit_answer", "error")

	if got := tp.GetOperationCount("submit_answer", "ok"); got != 2 {
		t.Errorf("submit_answer ok = %d, want 2", got)
	}
	if got := tp.GetOperationCount("submit_answer", "error"); got != 1 {
		t.Errorf("submit_answer error = %d, want 1", got)
	}
	if got := tp.GetOperationCount("skip", "ok"); got != 0 {
		t.Errorf("skip ok = %d, want 0", got)
	}
}

func TestEngineMetricsGauges(t *testing.T) {
	tp := newTestProvider()
	m := tp.EngineMetrics()

	m.SetSessionsActive(3)
	m.AddSessionsActive(2)
	m.AddSessionsActive(-1)
	m.SetInterventionsActive(7)

	if got := tp.GetGauge("sessions.active"); got != 4 {
		t.Errorf("sessions.active = %d, want 4", got)
	}
	if got := tp.GetGauge("interventions.active"); got != 7 {
		t.Errorf("interventions.active = %d, want 7", got)
	}
}

func TestTracingMiddleware_RecordsSpan(t *testing.T) {
	tp := newTestProvider()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/abc/answers", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/sessions/:id/answers")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	h := tp.TracingMiddleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}

	spans := tp.GetRecordedSpans()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	s := spans[0]
	if s.Name != "HTTP POST /api/v1/sessions/:id/answers" {
		t.Errorf("span name = %q", s.Name)
	}
	if s.Attributes["session.id"] != "abc" {
		t.Errorf("session.id attr = %q", s.Attributes["session.id"])
	}
	if s.StatusCode != SpanStatusOK {
		t.Errorf("status = %v, want OK", s.StatusCode)
	}
	if len(s.TraceID) != 32 || len(s.SpanID) != 16 {
		t.Errorf("id lengths: trace %d span %d", len(s.TraceID), len(s.SpanID))
	}
}

func TestTracingMiddleware_ErrorStatus(t *testing.T) {
	tp := newTestProvider()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := tp.TracingMiddleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusInternalServerError)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}

	spans := tp.GetRecordedSpans()
	if len(spans) != 1 || spans[0].StatusCode != SpanStatusError {
		t.Errorf("expected one error span, got %+v", spans)
	}
}

func TestTracingDisabled(t *testing.T) {
	tp := NewProvider(Config{TracingEnabled: BoolPtr(false)})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := tp.TracingMiddleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(tp.GetRecordedSpans()) != 0 {
		t.Error("span recorded with tracing disabled")
	}
}

func TestMetricsMiddleware_RecordsDuration(t *testing.T) {
	tp := newTestProvider()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/xyz", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/sessions/:id")

	h := tp.MetricsMiddleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}

	global := tp.GetHistogram("http.server.request.duration")
	if global == nil || global.Count() != 1 {
		t.Fatal("global duration histogram not recorded")
	}
	key := LabelsKey(http.MethodGet, "/api/v1/sessions/:id", "200")
	labeled := tp.GetLabeledHistogram("http.server.request.duration", key)
	if labeled == nil || labeled.Count() != 1 {
		t.Errorf("labeled histogram missing for key %q", key)
	}
	if got := tp.GetGauge("http.server.active_requests"); got != 0 {
		t.Errorf("active_requests = %d after completion, want 0", got)
	}
}

func TestPrometheusHandler(t *testing.T) {
	tp := newTestProvider()
	tp.OperationCounter("start_scenario", "ok")
	tp.EmergencyActivation()
	tp.EngineMetrics().SetSessionsActive(2)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := tp.PrometheusHandler()(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	body := rec.Body.String()

	for _, want := range []string{
		`assessment_operation_count{operation="start_scenario",outcome="ok"} 1`,
		"emergency_activations_total 1",
		"sessions_active 2",
		"# TYPE http_server_request_duration_seconds histogram",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestShutdownIdempotent(t *testing.T) {
	tp := newTestProvider()
	if err := tp.Shutdown(context.Background()); err != nil {
		t.Fatalf("first shutdown: %v", err)
	}
	if err := tp.Shutdown(context.Background()); err != nil {
		t.Fatalf("second shutdown: %v", err)
	}
}
