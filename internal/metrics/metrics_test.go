package metrics

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRecorderSmoke(t *testing.T) {
	rec := NewRecorder()

	rec.RecordOperation("execute", nil)
	rec.RecordOperation("execute", errors.New("boom"))
	rec.RecordExecution("buy", "partially_filled")
	rec.RecordFill("SOL-USDC", 500, 4995)
	rec.RecordTransferFailure()
	rec.RecordOpenOrders(3)
	rec.RecordVenueUp(true)
	rec.RecordVenueUp(false)
	rec.RecordHeartbeat()

	timer := NewTimer()
	time.Sleep(time.Millisecond)
	timer.ObserveExecution()
	if timer.Elapsed() <= 0 {
		t.Error("elapsed time should be positive")
	}
}

func TestSetBuildInfo(t *testing.T) {
	SetBuildInfo("1.2.3", "deadbeef", "2026-01-01T00:00:00Z")
}

func TestHealthHandler(t *testing.T) {
	srv := NewServer(DefaultServerConfig(), nil)
	srv.RegisterHealthCheck("store", func() Check {
		return Check{Status: "healthy"}
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.healthHandler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var status HealthStatus
	if err := json.NewDecoder(w.Body).Decode(&status); err != nil {
		t.Fatalf("decode health response: %v", err)
	}
	if status.Status != "healthy" {
		t.Errorf("overall status = %q, want healthy", status.Status)
	}
	if _, ok := status.Checks["store"]; !ok {
		t.Error("missing store check in response")
	}
}

func TestHealthHandlerUnhealthy(t *testing.T) {
	srv := NewServer(DefaultServerConfig(), nil)
	srv.RegisterHealthCheck("venue", func() Check {
		return Check{Status: "unhealthy", Message: "connection refused"}
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.healthHandler(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}
