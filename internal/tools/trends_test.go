package tools

import (
	"strings"
	"testing"
)

func pricePayload(modals []float64) map[string]any {
	rows := make([]any, 0, len(modals))
	for _, p := range modals {
		rows = append(rows, map[string]any{
			"cmdty":    "Wheat",
			"state":    "Karnataka",
			"district": "Bangalore Urban",
			"p_modal":  p,
			"p_min":    p - 100,
			"p_max":    p + 100,
		})
	}
	return map[string]any{"data": rows}
}

func TestAnalyzePriceTrends(t *testing.T) {
	cases := []struct {
		name   string
		modals []float64
		want   string
	}{
		{"increasing", []float64{2000, 2000, 2000, 2000, 2000, 2000, 2000, 2000, 2400, 2400, 2400, 2400, 2400, 2400, 2400}, "Trend: Increasing"},
		{"decreasing", []float64{2400, 2400, 2400, 2400, 2400, 2400, 2400, 2400, 2000, 2000, 2000, 2000, 2000, 2000, 2000}, "Trend: Decreasing"},
		{"stable", []float64{2200, 2210, 2190, 2200, 2205, 2195, 2200, 2200, 2201, 2199}, "Trend: Stable"},
		{"single_point", []float64{2200}, "Trend: Insufficient data"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := AnalyzePriceTrends(pricePayload(tc.modals))
			if !strings.Contains(out, tc.want) {
				t.Fatalf("expected %q in analysis, got:\n%s", tc.want, out)
			}
		})
	}
}

func TestAnalyzePriceTrends_Degenerate(t *testing.T) {
	if out := AnalyzePriceTrends(map[string]any{"error": "boom"}); out != "Error: boom" {
		t.Fatalf("expected error passthrough, got %q", out)
	}
	if out := AnalyzePriceTrends(map[string]any{}); !strings.Contains(out, "No price data") {
		t.Fatalf("expected no-data message, got %q", out)
	}
	zeroes := map[string]any{"data": []any{map[string]any{"p_modal": 0.0}}}
	if out := AnalyzePriceTrends(zeroes); !strings.Contains(out, "No valid price data") {
		t.Fatalf("expected no-valid-data message, got %q", out)
	}
}

func TestAnalyzePriceTrends_DistrictList(t *testing.T) {
	out := AnalyzePriceTrends(pricePayload([]float64{2200, 2210}))
	if !strings.Contains(out, "Bangalore Urban") {
		t.Fatalf("expected district list in analysis, got:\n%s", out)
	}
	if !strings.Contains(out, "₹2210.00 per quintal (Modal)") {
		t.Fatalf("expected current modal price, got:\n%s", out)
	}
}
