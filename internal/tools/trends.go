package tools

import (
	"fmt"
	"sort"
	"strings"
)

// AnalyzePriceTrends summarizes a price payload from MandiClient.Prices into a
// farmer-facing text analysis. Prices use the modal (most common) price per
// quintal; min/max fall back to modal when absent.
func AnalyzePriceTrends(priceData map[string]any) string {
	if msg, ok := priceData["error"].(string); ok && msg != "" {
		return "Error: " + msg
	}
	rows, _ := priceData["data"].([]any)
	if len(rows) == 0 {
		return "No price data available for the specified commodity and location."
	}

	var prices, minPrices, maxPrices []float64
	var commodity, state string
	districts := map[string]bool{}
	for _, raw := range rows {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if commodity == "" {
			commodity, _ = item["cmdty"].(string)
		}
		if state == "" {
			state, _ = item["state"].(string)
		}
		if d, _ := item["district"].(string); d != "" {
			districts[d] = true
		}
		modal := asPrice(item["p_modal"])
		if modal <= 0 {
			continue
		}
		min := asPrice(item["p_min"])
		if min <= 0 {
			min = modal
		}
		max := asPrice(item["p_max"])
		if max <= 0 {
			max = modal
		}
		prices = append(prices, modal)
		minPrices = append(minPrices, min)
		maxPrices = append(maxPrices, max)
	}
	if len(prices) == 0 {
		return "No valid price data found in the response."
	}
	if commodity == "" {
		commodity = "Commodity"
	}
	if state == "" {
		state = "State"
	}

	current := prices[len(prices)-1]
	avg := mean(prices)
	overallMin := minOf(minPrices)
	overallMax := maxOf(maxPrices)
	currentMin := minPrices[len(minPrices)-1]
	currentMax := maxPrices[len(maxPrices)-1]

	trend := "insufficient data"
	if len(prices) >= 2 {
		recentN := len(prices)
		if recentN > 7 {
			recentN = 7
		}
		recentAvg := mean(prices[len(prices)-recentN:])
		olderAvg := avg
		if len(prices) > 7 {
			olderAvg = mean(prices[:len(prices)-7])
		}
		switch {
		case recentAvg > olderAvg*1.05:
			trend = "increasing"
		case recentAvg < olderAvg*0.95:
			trend = "decreasing"
		default:
			trend = "stable"
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Price Analysis for %s in %s:\n", commodity, state)
	fmt.Fprintf(&b, "- Current Price: ₹%.2f per quintal (Modal)\n", current)
	fmt.Fprintf(&b, "- Current Range: ₹%.2f - ₹%.2f per quintal\n", currentMin, currentMax)
	fmt.Fprintf(&b, "- Average Price (30 days): ₹%.2f per quintal\n", avg)
	fmt.Fprintf(&b, "- Overall Price Range: ₹%.2f - ₹%.2f per quintal\n", overallMin, overallMax)
	fmt.Fprintf(&b, "- Trend: %s\n\n", capitalize(trend))
	b.WriteString("Market Insights:\n")
	switch trend {
	case "increasing":
		b.WriteString("- Prices are showing an upward trend, which may be favorable for sellers.\n")
		b.WriteString("- Consider holding stocks if you're a farmer, or buy early if you're a buyer.\n")
	case "decreasing":
		b.WriteString("- Prices are declining, which may be good for buyers.\n")
		b.WriteString("- Consider selling soon if you're a farmer to avoid further losses.\n")
	default:
		b.WriteString("- Prices are relatively stable, indicating a balanced market.\n")
		b.WriteString("- Good time for both buyers and sellers to make decisions.\n")
	}
	if len(districts) > 0 {
		names := make([]string, 0, len(districts))
		for d := range districts {
			names = append(names, d)
		}
		sort.Strings(names)
		fmt.Fprintf(&b, "\nData available for districts: %s", strings.Join(names, ", "))
	}
	return strings.TrimSpace(b.String())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func asPrice(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		var f float64
		if _, err := fmt.Sscanf(n, "%f", &f); err == nil {
			return f
		}
	}
	return 0
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
