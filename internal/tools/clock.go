package tools

import "time"

// CurrentTime returns the current wall-clock time in the formats the agent
// instructions reference.
func CurrentTime() map[string]any {
	now := time.Now()
	return map[string]any{
		"current_time":   now.Format("2006-01-02 15:04:05"),
		"formatted_date": now.Format("01-02-2006"),
	}
}
