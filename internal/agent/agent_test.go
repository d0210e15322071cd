package agent

import (
	"context"
	"testing"

	"github.com/kisaanlabs/kisaan-mitra/internal/tools"
)

func newTestJarvis() *Agent {
	return NewJarvis("gemini-live-2.5-flash-preview", tools.NewCalendar(), tools.NewWeatherClient("key"), tools.NewMandiClient("http://unused"))
}

func TestJarvis_ToolRegistry(t *testing.T) {
	a := newTestJarvis()
	for _, name := range []string{
		"get_current_time",
		"list_events", "create_event", "edit_event", "delete_event",
		"get_current_weather", "get_weather_forecast",
		"get_commodity_id", "get_state_id", "get_district_id", "get_mandi_prices", "analyze_price_trends",
	} {
		if _, ok := a.Handler(name); !ok {
			t.Fatalf("missing tool %q", name)
		}
	}
	if _, ok := a.Handler("launch_rocket"); ok {
		t.Fatalf("unexpected tool resolved")
	}
	if len(a.Declarations()) != len(a.Tools) {
		t.Fatalf("declarations out of sync with tools")
	}
	if !a.GoogleSearch {
		t.Fatalf("expected search tool enabled")
	}
}

func TestJarvis_ToolDispatch(t *testing.T) {
	a := newTestJarvis()
	h, _ := a.Handler("get_commodity_id")
	out := h(context.Background(), map[string]any{"commodity_name": "wheat"})
	if out["commodity_id"] != 1 {
		t.Fatalf("expected wheat id, got %v", out)
	}

	h, _ = a.Handler("get_current_time")
	if out := h(context.Background(), nil); out["current_time"] == nil {
		t.Fatalf("expected current_time, got %v", out)
	}

	// numeric args arrive as float64 from JSON decoding
	h, _ = a.Handler("analyze_price_trends")
	if out := h(context.Background(), map[string]any{}); out["error"] == nil {
		t.Fatalf("expected error without price_data")
	}
}

func TestKisaanInfo_Definition(t *testing.T) {
	a := NewKisaanInfo("gemini-2.5-flash-lite", tools.NewWeatherClient("key"))
	if a.Model != "gemini-2.5-flash-lite" {
		t.Fatalf("unexpected model %q", a.Model)
	}
	if _, ok := a.Handler("get_weather_forecast"); !ok {
		t.Fatalf("missing forecast tool")
	}
	if a.GoogleSearch {
		t.Fatalf("kisaan info should not enable search")
	}
}
