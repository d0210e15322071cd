package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// commodityEntry maps a spoken commodity name to its agmarknet id.
type commodityEntry struct {
	ID   int
	Name string
}

var commodityTable = map[string]commodityEntry{
	"wheat":     {1, "Wheat"},
	"rice":      {3, "Rice"},
	"banana":    {19, "Banana"},
	"dal":       {6, "Bengal Gram (Gram)(Whole)"},
	"arhar dal": {49, "Arhar (Tur/Red Gram)(Whole)"},
	"masur dal": {259, "Masur Dal"},
	"tur dal":   {260, "Arhar Dal (Tur Dal)"},
	"chana dal": {263, "Bengal Gram Dal (Chana Dal)"},
	"urad dal":  {264, "Black Gram Dal (Urd Dal)"},
	"moong dal": {265, "Green Gram Dal (Moong Dal)"},
}

type stateEntry struct {
	ID   int
	Name string
}

var stateTable = map[string]stateEntry{
	"karnataka":         {29, "Karnataka"},
	"maharashtra":       {27, "Maharashtra"},
	"tamil nadu":        {33, "Tamil Nadu"},
	"andhra pradesh":    {28, "Andhra Pradesh"},
	"telangana":         {36, "Telangana"},
	"kerala":            {32, "Kerala"},
	"goa":               {30, "Goa"},
	"punjab":            {3, "Punjab"},
	"haryana":           {6, "Haryana"},
	"delhi":             {7, "NCT of Delhi"},
	"uttar pradesh":     {9, "Uttar Pradesh"},
	"bihar":             {10, "Bihar"},
	"west bengal":       {19, "West Bengal"},
	"odisha":            {21, "Odisha"},
	"chhattisgarh":      {22, "Chhattisgarh"},
	"madhya pradesh":    {23, "Madhya Pradesh"},
	"gujarat":           {24, "Gujarat"},
	"rajasthan":         {8, "Rajasthan"},
	"himachal pradesh":  {2, "Himachal Pradesh"},
	"uttarakhand":       {5, "Uttarakhand"},
	"jharkhand":         {20, "Jharkhand"},
	"assam":             {18, "Assam"},
	"manipur":           {14, "Manipur"},
	"meghalaya":         {17, "Meghalaya"},
	"nagaland":          {13, "Nagaland"},
	"tripura":           {16, "Tripura"},
	"mizoram":           {15, "Mizoram"},
	"arunachal pradesh": {12, "Arunachal Pradesh"},
	"sikkim":            {11, "Sikkim"},
}

// MandiClient resolves commodity/state/district identifiers and fetches
// price time series from the agmarknet mirror.
type MandiClient struct {
	HTTPClient *http.Client
	BaseURL    string
	now        func() time.Time
}

// NewMandiClient constructs a client against the given base URL.
func NewMandiClient(baseURL string) *MandiClient {
	return &MandiClient{
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		BaseURL:    strings.TrimRight(baseURL, "/"),
		now:        time.Now,
	}
}

// CommodityID resolves a commodity name to its id, exact match first, then
// substring either way.
func (m *MandiClient) CommodityID(name string) map[string]any {
	key := strings.ToLower(strings.TrimSpace(name))
	if e, ok := commodityTable[key]; ok {
		return map[string]any{"commodity_id": e.ID, "commodity_name": e.Name}
	}
	for k, e := range commodityTable {
		if strings.Contains(k, key) || strings.Contains(key, k) {
			return map[string]any{"commodity_id": e.ID, "commodity_name": e.Name}
		}
	}
	return map[string]any{"error": "commodity not supported: " + name}
}

// StateID resolves a state name to its id.
func (m *MandiClient) StateID(name string) map[string]any {
	key := strings.ToLower(strings.TrimSpace(name))
	if e, ok := stateTable[key]; ok {
		return map[string]any{"state_id": e.ID, "state_name": e.Name}
	}
	for k, e := range stateTable {
		if strings.Contains(k, key) || strings.Contains(key, k) {
			return map[string]any{"state_id": e.ID, "state_name": e.Name}
		}
	}
	return map[string]any{"error": "state not recognized: " + name}
}

// DistrictID resolves a district name within a state via the districts API.
// A miss is reported as district_id 0, which the price API treats as
// state-level data.
func (m *MandiClient) DistrictID(ctx context.Context, stateID int, districtName string) map[string]any {
	u := fmt.Sprintf("%s/api/districts?state_id=%d", m.BaseURL, stateID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("failed to fetch district data: %v", err)}
	}
	resp, err := m.HTTPClient.Do(req)
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("failed to fetch district data: %v", err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return map[string]any{"error": fmt.Sprintf("failed to fetch district data: status=%d", resp.StatusCode)}
	}
	var payload struct {
		Data []struct {
			CensusDistrictID   int    `json:"census_district_id"`
			CensusDistrictName string `json:"census_district_name"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return map[string]any{"error": fmt.Sprintf("invalid JSON response: %v", err)}
	}
	want := strings.ToLower(strings.TrimSpace(districtName))
	for _, d := range payload.Data {
		have := strings.ToLower(d.CensusDistrictName)
		if strings.Contains(have, want) || strings.Contains(want, have) {
			return map[string]any{"district_id": d.CensusDistrictID, "district_name": d.CensusDistrictName}
		}
	}
	return map[string]any{"district_id": 0, "note": "district not found, using state-level data"}
}

// Prices fetches the last 30 days of daily prices for a commodity in a
// state/district. districtID 0 requests state-level data.
func (m *MandiClient) Prices(ctx context.Context, commodityID, stateID, districtID int) map[string]any {
	end := m.now()
	start := end.AddDate(0, 0, -30)
	payload := map[string]any{
		"calculation_type": "d",
		"commodity_id":     commodityID,
		"district_id":      districtID,
		"state_id":         stateID,
		"start_date":       start.Format(time.RFC3339),
		"end_date":         end.Format(time.RFC3339),
	}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.BaseURL+"/api/prices", bytes.NewReader(body))
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("failed to fetch price data: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := m.HTTPClient.Do(req)
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("failed to fetch price data: %v", err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return map[string]any{"error": fmt.Sprintf("failed to fetch price data: status=%d", resp.StatusCode)}
	}
	out, err := decodeJSONBody(resp)
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("invalid JSON response: %v", err)}
	}
	return out
}
