package agent

import (
	"context"
	"fmt"

	"github.com/kisaanlabs/kisaan-mitra/internal/tools"
)

// NewJarvis builds the root live agent: a multilingual assistant with
// calendar, weather, mandi price, and news search tools.
func NewJarvis(model string, cal *tools.Calendar, weather *tools.WeatherClient, mandi *tools.MandiClient) *Agent {
	a := &Agent{
		Name:         "jarvis",
		Model:        model,
		Description:  "A helpful multilingual assistant that responds in the same language as the user.",
		Instruction:  jarvisInstruction(),
		GoogleSearch: true,
	}
	a.Tools = append(a.Tools, clockTool())
	a.Tools = append(a.Tools, calendarTools(cal)...)
	a.Tools = append(a.Tools, weatherTools(weather)...)
	a.Tools = append(a.Tools, mandiTools(mandi)...)
	return a
}

func jarvisInstruction() string {
	return fmt.Sprintf(`You are Jarvis, a helpful AI assistant for farmers and everyday users.

## Language Detection Rule
- Always detect the user's language from their audio/text input
- Respond in the EXACT SAME LANGUAGE they are using
- If they speak Hindi, respond in Hindi; English in English; and so on
- Match their language exactly

## Your Personality
- Be helpful and friendly
- Keep responses concise and clear, suitable for voice delivery

## Calendar operations
- list_events: when no date is given, pass "" for start_date (defaults to today); dates are YYYY-MM-DD; always pass "primary" as the calendar_id; use days=1 for today, 7 for a week, 30 for a month
- create_event: concise summary; start_time and end_time as "YYYY-MM-DD HH:MM"
- edit_event: needs the event_id from list_events; pass "" for fields you do not want to change
- delete_event: removes an event by id
- When mentioning today's date, prefer the formatted_date (MM-DD-YYYY) from get_current_time

## Weather
- get_current_weather and get_weather_forecast take latitude and longitude; forecast days are 1-10

%s

%s

Keep all answers under 250 words.`, mandiAnalystInstruction, newsAnalystInstruction)
}

// mandiAnalystInstruction is the commodity price workflow, kept as a
// standalone fragment so the one-shot runners can reuse it.
const mandiAnalystInstruction = `## Mandi price analysis workflow
When asked about mandi (market) prices, follow this exact tool sequence:
1. get_commodity_id with the commodity name (wheat, rice, banana, dal, ...)
2. get_state_id with the state name
3. get_district_id with the state_id and district name; if not found, use district_id 0 for state-level data
4. get_mandi_prices with the commodity_id, state_id, and district_id
5. analyze_price_trends with the returned price data
Then summarize: commodity and location, current price in rupees per quintal, trend, and an actionable recommendation. Handle tool errors gracefully and suggest alternatives.`

const newsAnalystInstruction = `## News and research
For questions about current events, farming practices, or government schemes, use the search tool to find recent, accurate information. Cite research institutions or government bodies when possible, and prioritize practical, actionable advice.`

func clockTool() Tool {
	return Tool{
		Declaration: Declaration{
			Name:        "get_current_time",
			Description: "Get the current time (YYYY-MM-DD HH:MM:SS) and formatted date (MM-DD-YYYY).",
		},
		Handler: func(_ context.Context, _ map[string]any) map[string]any {
			return tools.CurrentTime()
		},
	}
}

func calendarTools(cal *tools.Calendar) []Tool {
	return []Tool{
		{
			Declaration: Declaration{
				Name:        "list_events",
				Description: "List calendar events starting within a day window.",
				Parameters: &Schema{Type: "object", Properties: map[string]*Schema{
					"calendar_id": {Type: "string", Description: `Calendar id, always "primary".`},
					"start_date":  {Type: "string", Description: `Window start as YYYY-MM-DD, or "" for today.`},
					"days":        {Type: "integer", Description: "Window length in days."},
				}},
			},
			Handler: func(_ context.Context, args map[string]any) map[string]any {
				return cal.ListEvents(argString(args, "calendar_id"), argString(args, "start_date"), argInt(args, "days", 1))
			},
		},
		{
			Declaration: Declaration{
				Name:        "create_event",
				Description: "Create a calendar event.",
				Parameters: &Schema{Type: "object", Properties: map[string]*Schema{
					"summary":    {Type: "string"},
					"start_time": {Type: "string", Description: "YYYY-MM-DD HH:MM"},
					"end_time":   {Type: "string", Description: "YYYY-MM-DD HH:MM"},
				}, Required: []string{"summary", "start_time", "end_time"}},
			},
			Handler: func(_ context.Context, args map[string]any) map[string]any {
				return cal.CreateEvent(argString(args, "summary"), argString(args, "start_time"), argString(args, "end_time"))
			},
		},
		{
			Declaration: Declaration{
				Name:        "edit_event",
				Description: `Edit an event; pass "" for fields to keep.`,
				Parameters: &Schema{Type: "object", Properties: map[string]*Schema{
					"event_id":   {Type: "string"},
					"summary":    {Type: "string"},
					"start_time": {Type: "string"},
					"end_time":   {Type: "string"},
				}, Required: []string{"event_id"}},
			},
			Handler: func(_ context.Context, args map[string]any) map[string]any {
				return cal.EditEvent(argString(args, "event_id"), argString(args, "summary"), argString(args, "start_time"), argString(args, "end_time"))
			},
		},
		{
			Declaration: Declaration{
				Name:        "delete_event",
				Description: "Delete an event by id.",
				Parameters: &Schema{Type: "object", Properties: map[string]*Schema{
					"event_id": {Type: "string"},
				}, Required: []string{"event_id"}},
			},
			Handler: func(_ context.Context, args map[string]any) map[string]any {
				return cal.DeleteEvent(argString(args, "event_id"))
			},
		},
	}
}

func weatherTools(w *tools.WeatherClient) []Tool {
	return []Tool{
		{
			Declaration: Declaration{
				Name:        "get_current_weather",
				Description: "Current weather conditions for a coordinate.",
				Parameters: &Schema{Type: "object", Properties: map[string]*Schema{
					"latitude":     {Type: "number"},
					"longitude":    {Type: "number"},
					"units_system": {Type: "string", Enum: []string{"METRIC", "IMPERIAL"}},
				}, Required: []string{"latitude", "longitude"}},
			},
			Handler: func(ctx context.Context, args map[string]any) map[string]any {
				return w.CurrentConditions(ctx, argFloat(args, "latitude"), argFloat(args, "longitude"), argString(args, "units_system"))
			},
		},
		{
			Declaration: Declaration{
				Name:        "get_weather_forecast",
				Description: "Daily weather forecast (1-10 days) for a coordinate.",
				Parameters: &Schema{Type: "object", Properties: map[string]*Schema{
					"latitude":     {Type: "number"},
					"longitude":    {Type: "number"},
					"days":         {Type: "integer"},
					"units_system": {Type: "string", Enum: []string{"METRIC", "IMPERIAL"}},
				}, Required: []string{"latitude", "longitude"}},
			},
			Handler: func(ctx context.Context, args map[string]any) map[string]any {
				return w.DailyForecast(ctx, argFloat(args, "latitude"), argFloat(args, "longitude"), argInt(args, "days", 10), argString(args, "units_system"), 0, "")
			},
		},
	}
}

func mandiTools(m *tools.MandiClient) []Tool {
	return []Tool{
		{
			Declaration: Declaration{
				Name:        "get_commodity_id",
				Description: "Resolve a commodity name to its agmarknet id.",
				Parameters: &Schema{Type: "object", Properties: map[string]*Schema{
					"commodity_name": {Type: "string"},
				}, Required: []string{"commodity_name"}},
			},
			Handler: func(_ context.Context, args map[string]any) map[string]any {
				return m.CommodityID(argString(args, "commodity_name"))
			},
		},
		{
			Declaration: Declaration{
				Name:        "get_state_id",
				Description: "Resolve an Indian state name to its id.",
				Parameters: &Schema{Type: "object", Properties: map[string]*Schema{
					"state_name": {Type: "string"},
				}, Required: []string{"state_name"}},
			},
			Handler: func(_ context.Context, args map[string]any) map[string]any {
				return m.StateID(argString(args, "state_name"))
			},
		},
		{
			Declaration: Declaration{
				Name:        "get_district_id",
				Description: "Resolve a district name within a state; 0 means state-level data.",
				Parameters: &Schema{Type: "object", Properties: map[string]*Schema{
					"state_id":      {Type: "integer"},
					"district_name": {Type: "string"},
				}, Required: []string{"state_id", "district_name"}},
			},
			Handler: func(ctx context.Context, args map[string]any) map[string]any {
				return m.DistrictID(ctx, argInt(args, "state_id", 0), argString(args, "district_name"))
			},
		},
		{
			Declaration: Declaration{
				Name:        "get_mandi_prices",
				Description: "Fetch the last 30 days of mandi prices for an id triple.",
				Parameters: &Schema{Type: "object", Properties: map[string]*Schema{
					"commodity_id": {Type: "integer"},
					"state_id":     {Type: "integer"},
					"district_id":  {Type: "integer"},
				}, Required: []string{"commodity_id", "state_id"}},
			},
			Handler: func(ctx context.Context, args map[string]any) map[string]any {
				return m.Prices(ctx, argInt(args, "commodity_id", 0), argInt(args, "state_id", 0), argInt(args, "district_id", 0))
			},
		},
		{
			Declaration: Declaration{
				Name:        "analyze_price_trends",
				Description: "Summarize a price payload from get_mandi_prices into a trend analysis.",
				Parameters: &Schema{Type: "object", Properties: map[string]*Schema{
					"price_data": {Type: "object", Description: "The payload returned by get_mandi_prices."},
				}, Required: []string{"price_data"}},
			},
			Handler: func(_ context.Context, args map[string]any) map[string]any {
				payload, _ := args["price_data"].(map[string]any)
				if payload == nil {
					return map[string]any{"error": "price_data must be the object returned by get_mandi_prices"}
				}
				return map[string]any{"analysis": tools.AnalyzePriceTrends(payload)}
			},
		},
	}
}
