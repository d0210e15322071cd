package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMandi_CommodityAndStateLookup(t *testing.T) {
	m := NewMandiClient("http://unused")
	if out := m.CommodityID("Wheat"); out["commodity_id"] != 1 {
		t.Fatalf("expected wheat id 1, got %v", out)
	}
	// substring match
	if out := m.CommodityID("moong"); out["commodity_id"] != 265 {
		t.Fatalf("expected moong dal id 265, got %v", out)
	}
	if out := m.CommodityID("plutonium"); out["error"] == nil {
		t.Fatalf("expected error for unknown commodity")
	}
	if out := m.StateID(" karnataka "); out["state_id"] != 29 {
		t.Fatalf("expected karnataka id 29, got %v", out)
	}
	if out := m.StateID("atlantis"); out["error"] == nil {
		t.Fatalf("expected error for unknown state")
	}
}

func TestMandi_DistrictID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state_id") != "29" {
			t.Errorf("unexpected state_id: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"data":[{"census_district_id":572,"census_district_name":"Bangalore Urban"}]}`))
	}))
	defer srv.Close()
	m := NewMandiClient(srv.URL)

	out := m.DistrictID(context.Background(), 29, "bangalore")
	if out["district_id"] != 572 {
		t.Fatalf("expected district 572, got %v", out)
	}
	out = m.DistrictID(context.Background(), 29, "mysore")
	if out["district_id"] != 0 {
		t.Fatalf("expected fallback district 0, got %v", out)
	}
}

func TestMandi_Prices(t *testing.T) {
	var gotPayload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/prices" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		_, _ = w.Write([]byte(`{"data":[{"cmdty":"Wheat","state":"Karnataka","p_modal":2200}]}`))
	}))
	defer srv.Close()
	m := NewMandiClient(srv.URL)
	m.now = func() time.Time { return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC) }

	out := m.Prices(context.Background(), 1, 29, 572)
	if out["error"] != nil {
		t.Fatalf("unexpected error: %v", out["error"])
	}
	if gotPayload["calculation_type"] != "d" {
		t.Fatalf("expected daily calculation_type, got %v", gotPayload["calculation_type"])
	}
	if gotPayload["commodity_id"].(float64) != 1 || gotPayload["state_id"].(float64) != 29 || gotPayload["district_id"].(float64) != 572 {
		t.Fatalf("unexpected id triple: %v", gotPayload)
	}
	start := gotPayload["start_date"].(string)
	if !strings.HasPrefix(start, "2026-02-08") {
		t.Fatalf("expected 30-day window start, got %s", start)
	}
}

func TestMandi_PricesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(502)
	}))
	defer srv.Close()
	m := NewMandiClient(srv.URL)
	if out := m.Prices(context.Background(), 1, 29, 0); out["error"] == nil {
		t.Fatalf("expected error value on bad status")
	}
}
