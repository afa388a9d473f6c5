package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"

	"github.com/hallgen/hallgen/pkg/cache"
	"github.com/hallgen/hallgen/pkg/errors"
	"github.com/hallgen/hallgen/pkg/layout"
)

func testServer(t *testing.T, c cache.Cache) *Server {
	t.Helper()
	logger := charmlog.NewWithOptions(io.Discard, charmlog.Options{})
	return NewServer(c, logger)
}

func testConfig() layout.Config {
	return layout.Config{
		Structure: layout.StructureConfig{
			Length: 96, Width: 12, ColumnSpacing: 6,
			EavesHeight: 5, RidgeHeight: 5.9,
		},
		Solar: layout.SolarConfig{
			PanelWidth: 1.1, PanelLength: 1.8,
			RowsPerSlope: 3, PanelsPerRow: 40,
		},
		Parking: layout.ParkingConfig{
			Car: layout.ClassConfig{
				Width: 2.4, Length: 5.0, AngleDegrees: 45,
				AisleOffset: 3.5, FillProbability: 0.6,
			},
			Coach: layout.ClassConfig{
				Width: 3.5, Length: 14.0, AngleDegrees: 60,
				AisleOffset: 6.0, FillProbability: 0.4,
			},
		},
	}
}

func postPlan(t *testing.T, srv *Server, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/plan", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv := testServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestPlanEndpoint(t *testing.T) {
	srv := testServer(t, nil)
	rec := postPlan(t, srv, planRequest{Config: testConfig(), Seed: 7})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("missing request ID header")
	}

	var resp planResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Cached {
		t.Error("first request should not be cached")
	}
	if resp.Plan.Seed != 7 {
		t.Errorf("seed = %d, want 7", resp.Plan.Seed)
	}
	if got := resp.Plan.Counts[layout.KindColumn]; got != 34 {
		t.Errorf("columns = %d, want 34", got)
	}
}

func TestPlanEndpointCaches(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv := testServer(t, fc)

	first := postPlan(t, srv, planRequest{Config: testConfig()})
	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d", first.Code)
	}
	second := postPlan(t, srv, planRequest{Config: testConfig()})
	if second.Code != http.StatusOK {
		t.Fatalf("second status = %d", second.Code)
	}

	var a, b planResponse
	if err := json.Unmarshal(first.Body.Bytes(), &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(second.Body.Bytes(), &b); err != nil {
		t.Fatal(err)
	}
	if a.Cached {
		t.Error("first request should be a cache miss")
	}
	if !b.Cached {
		t.Error("second request should be a cache hit")
	}
	if len(a.Plan.Instances) != len(b.Plan.Instances) {
		t.Error("cached plan differs from computed plan")
	}
}

func TestPlanEndpointRejectsBadConfig(t *testing.T) {
	srv := testServer(t, nil)

	cfg := testConfig()
	cfg.Parking.Car.AngleDegrees = 90
	rec := postPlan(t, srv, planRequest{Config: cfg})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Code != string(errors.ErrCodeInvalidAngle) {
		t.Errorf("code = %q, want %q", resp.Code, errors.ErrCodeInvalidAngle)
	}
	if resp.RequestID == "" {
		t.Error("error body missing request ID")
	}
}

func TestPlanEndpointRejectsMalformedBody(t *testing.T) {
	srv := testServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/plan", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRenderEndpoint(t *testing.T) {
	srv := testServer(t, nil)

	body, _ := json.Marshal(planRequest{Config: testConfig()})
	req := httptest.NewRequest(http.MethodPost, "/v1/render", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q, want image/svg+xml", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("<svg")) {
		t.Error("response body is not an SVG document")
	}
}
