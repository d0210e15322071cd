package tools

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const eventTimeLayout = "2006-01-02 15:04"

// CalendarEvent is a single scheduled event.
type CalendarEvent struct {
	ID      string
	Summary string
	Start   time.Time
	End     time.Time
}

// Calendar is an in-memory event store. The agent addresses it through the
// calendar tool functions; there is no durability across restarts.
type Calendar struct {
	mu     sync.Mutex
	events map[string]CalendarEvent
	now    func() time.Time
}

// NewCalendar constructs an empty Calendar.
func NewCalendar() *Calendar {
	return &Calendar{events: make(map[string]CalendarEvent), now: time.Now}
}

// ListEvents returns events starting within the window [startDate, startDate+days).
// An empty startDate means today. calendarID is accepted for interface parity
// with hosted calendars; only "primary" exists here.
func (c *Calendar) ListEvents(calendarID, startDate string, days int) map[string]any {
	if calendarID == "" {
		calendarID = "primary"
	}
	if days <= 0 {
		days = 1
	}
	var from time.Time
	if startDate == "" {
		n := c.now()
		from = time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, n.Location())
	} else {
		var err error
		from, err = time.ParseInLocation("2006-01-02", startDate, time.Local)
		if err != nil {
			return map[string]any{"error": "invalid start_date, expected YYYY-MM-DD"}
		}
	}
	until := from.AddDate(0, 0, days)

	c.mu.Lock()
	var matched []CalendarEvent
	for _, ev := range c.events {
		if !ev.Start.Before(from) && ev.Start.Before(until) {
			matched = append(matched, ev)
		}
	}
	c.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].Start.Before(matched[j].Start) })
	items := make([]map[string]any, 0, len(matched))
	for _, ev := range matched {
		items = append(items, eventPayload(ev))
	}
	return map[string]any{"calendar_id": calendarID, "events": items, "count": len(items)}
}

// CreateEvent adds an event. Times use "YYYY-MM-DD HH:MM" in local time.
func (c *Calendar) CreateEvent(summary, startTime, endTime string) map[string]any {
	if summary == "" {
		return map[string]any{"error": "summary is required"}
	}
	start, err := time.ParseInLocation(eventTimeLayout, startTime, time.Local)
	if err != nil {
		return map[string]any{"error": "invalid start_time, expected YYYY-MM-DD HH:MM"}
	}
	end, err := time.ParseInLocation(eventTimeLayout, endTime, time.Local)
	if err != nil {
		return map[string]any{"error": "invalid end_time, expected YYYY-MM-DD HH:MM"}
	}
	if !end.After(start) {
		return map[string]any{"error": "end_time must be after start_time"}
	}
	ev := CalendarEvent{ID: uuid.NewString(), Summary: summary, Start: start, End: end}
	c.mu.Lock()
	c.events[ev.ID] = ev
	c.mu.Unlock()
	return eventPayload(ev)
}

// EditEvent updates an existing event. Empty strings keep the current value.
func (c *Calendar) EditEvent(eventID, summary, startTime, endTime string) map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	ev, ok := c.events[eventID]
	if !ok {
		return map[string]any{"error": "event not found: " + eventID}
	}
	if summary != "" {
		ev.Summary = summary
	}
	if startTime != "" {
		start, err := time.ParseInLocation(eventTimeLayout, startTime, time.Local)
		if err != nil {
			return map[string]any{"error": "invalid start_time, expected YYYY-MM-DD HH:MM"}
		}
		ev.Start = start
	}
	if endTime != "" {
		end, err := time.ParseInLocation(eventTimeLayout, endTime, time.Local)
		if err != nil {
			return map[string]any{"error": "invalid end_time, expected YYYY-MM-DD HH:MM"}
		}
		ev.End = end
	}
	if !ev.End.After(ev.Start) {
		return map[string]any{"error": "end_time must be after start_time"}
	}
	c.events[eventID] = ev
	return eventPayload(ev)
}

// DeleteEvent removes an event by id.
func (c *Calendar) DeleteEvent(eventID string) map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.events[eventID]; !ok {
		return map[string]any{"error": "event not found: " + eventID}
	}
	delete(c.events, eventID)
	return map[string]any{"deleted": eventID}
}

func eventPayload(ev CalendarEvent) map[string]any {
	return map[string]any{
		"event_id": ev.ID,
		"summary":  ev.Summary,
		"start":    ev.Start.Format(eventTimeLayout),
		"end":      ev.End.Format(eventTimeLayout),
	}
}
