package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"

	"github.com/ghuser/shoppinglist/pkg/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		ServiceName:    "shoppinglist-test",
		ServiceVersion: "test",
		Environment:    config.EnvTesting,
	}
}

func TestSetup_NoOtelEndpoint(t *testing.T) {
	shutdown, handler, err := Setup(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if handler == nil {
		t.Fatal("expected non-nil metrics handler")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_MetricsHandlerExposesCounters(t *testing.T) {
	shutdown, handler, err := Setup(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer shutdown(context.Background()) //nolint:errcheck

	counter, err := otel.Meter("telemetry-test").Int64Counter("shoppinglist.test.hits")
	if err != nil {
		t.Fatalf("counter: %v", err)
	}
	counter.Add(context.Background(), 2)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.Contains(ct, "text/plain") {
		t.Errorf("expected text/plain content-type, got %q", ct)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "shoppinglist_test_hits") {
		t.Errorf("expected counter in scrape output")
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Errorf("expected go runtime collector in scrape output")
	}
}

func TestSetupSentry_NoDSN(t *testing.T) {
	if err := SetupSentry(baseConfig()); err != nil {
		t.Fatalf("expected no-op without DSN, got %v", err)
	}
}

func TestSetupSentry_InvalidDSN(t *testing.T) {
	cfg := baseConfig()
	cfg.SentryDSN = "::not a dsn::"
	if err := SetupSentry(cfg); err == nil {
		t.Fatal("expected error for malformed DSN")
	}
}

func TestReportError_NoClient(t *testing.T) {
	ReportError(context.Background(), errors.New("boom"))
	ReportError(context.Background(), nil)
}
