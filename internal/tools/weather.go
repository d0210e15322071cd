package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// WeatherClient calls the Google Weather API.
type WeatherClient struct {
	HTTPClient *http.Client
	APIKey     string
}

// NewWeatherClient constructs a client with the standard short timeout.
func NewWeatherClient(apiKey string) *WeatherClient {
	return &WeatherClient{
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		APIKey:     apiKey,
	}
}

// CurrentConditions returns current weather for a coordinate. Failures come
// back as {"error": ...} values so the agent can answer conversationally.
func (c *WeatherClient) CurrentConditions(ctx context.Context, latitude, longitude float64, unitsSystem string) map[string]any {
	if c.APIKey == "" {
		return map[string]any{"error": "Google Weather API key not found. Set GOOGLE_API_KEY."}
	}
	unitsSystem, errMsg := normalizeUnits(unitsSystem)
	if errMsg != "" {
		return map[string]any{"error": errMsg}
	}
	params := url.Values{}
	params.Set("key", c.APIKey)
	params.Set("location.latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	params.Set("location.longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	params.Set("unitsSystem", unitsSystem)
	return getJSON(ctx, c.HTTPClient, "https://weather.googleapis.com/v1/currentConditions:lookup?"+params.Encode(), "weather data")
}

// DailyForecast returns a forecast of up to 10 days for a coordinate.
func (c *WeatherClient) DailyForecast(ctx context.Context, latitude, longitude float64, days int, unitsSystem string, pageSize int, pageToken string) map[string]any {
	if c.APIKey == "" {
		return map[string]any{"error": "Google Weather API key not found. Set GOOGLE_API_KEY."}
	}
	if days < 1 || days > 10 {
		return map[string]any{"error": "invalid days parameter, must be between 1 and 10"}
	}
	unitsSystem, errMsg := normalizeUnits(unitsSystem)
	if errMsg != "" {
		return map[string]any{"error": errMsg}
	}
	params := url.Values{}
	params.Set("key", c.APIKey)
	params.Set("location.latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	params.Set("location.longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	params.Set("days", strconv.Itoa(days))
	params.Set("unitsSystem", unitsSystem)
	if pageSize > 0 {
		params.Set("pageSize", strconv.Itoa(pageSize))
	}
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}
	return getJSON(ctx, c.HTTPClient, "https://weather.googleapis.com/v1/forecast/days:lookup?"+params.Encode(), "forecast data")
}

func normalizeUnits(unitsSystem string) (string, string) {
	switch unitsSystem {
	case "":
		return "METRIC", ""
	case "METRIC", "IMPERIAL":
		return unitsSystem, ""
	default:
		return "", "invalid units_system, must be METRIC or IMPERIAL"
	}
}

func getJSON(ctx context.Context, client *http.Client, rawURL, what string) map[string]any {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("failed to fetch %s: %v", what, err)}
	}
	resp, err := client.Do(req)
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("failed to fetch %s: %v", what, err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return map[string]any{"error": fmt.Sprintf("failed to fetch %s: status=%d", what, resp.StatusCode)}
	}
	body, err := decodeJSONBody(resp)
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("invalid JSON response: %v", err)}
	}
	return body
}
