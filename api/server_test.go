package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"outscale-cost/core/reconcile"
	"outscale-cost/db"
	"outscale-cost/internal/config"
)

// rawCatalog is a one-row compute catalog, enough for a full import run.
const rawCatalog = "SKU,Service,Type,Name,Excel named range for reference,eu-west-2,A,B,C,D,E,F\n" +
	"c_fcu_vcorev5_high,FCU,Virtual machines,Tina v5 High,c_fcu_vcorev5_high,0.05,,,,,,\n" +
	"c_fcu_ram,FCU,Virtual machines,RAM per GiB,c_fcu_ram,0.002,,,,,,\n" +
	"c_fcu_dedicated_vm_extra_hourly,FCU,Virtual machines,Dedicated surcharge,c_fcu_dedicated_vm_extra_hourly,0.1,,,,,,\n"

type staticFetcher struct{ raw string }

func (f *staticFetcher) Fetch(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(f.raw)), nil
}

func newTestServer() *Server {
	cfg := config.CatalogConfig{
		PricesURL:     "http://test.invalid/prices.csv",
		HoursPerMonth: 720,
		Regions:       ".*",
		InstanceTypes: ".*",
		OS:            ".*",
	}
	engine := reconcile.New(db.NewMemoryStore(), &staticFetcher{raw: rawCatalog}, cfg, zap.NewNop())
	return NewServer(engine, "test", zap.NewNop())
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer()
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "healthy" {
		t.Fatalf("status field = %v", body["status"])
	}
}

func TestImportEndpoint(t *testing.T) {
	server := newTestServer()

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/catalog/import", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d, body %s", rec.Code, rec.Body.String())
	}

	var status RunStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if status.Result == nil || status.Result.PricesSaved == 0 {
		t.Fatalf("import saved nothing: %+v", status)
	}
	if status.Error != "" {
		t.Fatalf("unexpected error: %s", status.Error)
	}

	// The outcome is visible on the status endpoint.
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status endpoint = %d", rec.Code)
	}
	var report map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := report["last_run"]; !ok {
		t.Fatal("status endpoint missing last_run")
	}
}

func TestImportEndpointReportsFailure(t *testing.T) {
	cfg := config.CatalogConfig{
		PricesURL:     "http://test.invalid/prices.csv",
		HoursPerMonth: 720,
		Regions:       ".*",
		InstanceTypes: ".*",
		OS:            ".*",
	}
	engine := reconcile.New(db.NewMemoryStore(), &staticFetcher{raw: "no,header\n"}, cfg, zap.NewNop())
	server := NewServer(engine, "test", zap.NewNop())

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/catalog/import", nil))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}
