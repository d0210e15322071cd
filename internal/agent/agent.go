// Package agent holds the declarative agent definitions: model, instruction
// text, and the tool functions the hosted runtime may invoke.
package agent

import "context"

// Schema is a JSON-schema subset accepted by the Gemini function declaration
// format.
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// Declaration describes one callable tool to the model.
type Declaration struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

// Handler executes a tool call. Failures are returned as {"error": ...}
// values so the model can react conversationally instead of the run dying.
type Handler func(ctx context.Context, args map[string]any) map[string]any

// Tool pairs a declaration with its implementation.
type Tool struct {
	Declaration Declaration
	Handler     Handler
}

// Agent is a model plus instruction plus tools. Definitions are immutable
// after construction.
type Agent struct {
	Name        string
	Model       string
	Description string
	Instruction string
	Tools       []Tool
	// GoogleSearch enables the hosted search tool alongside function tools.
	GoogleSearch bool
}

// Declarations returns the function declarations in registration order.
func (a *Agent) Declarations() []Declaration {
	decls := make([]Declaration, 0, len(a.Tools))
	for _, t := range a.Tools {
		decls = append(decls, t.Declaration)
	}
	return decls
}

// Handler looks up a tool implementation by name.
func (a *Agent) Handler(name string) (Handler, bool) {
	for _, t := range a.Tools {
		if t.Declaration.Name == name {
			return t.Handler, true
		}
	}
	return nil, false
}

func argString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func argFloat(args map[string]any, key string) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func argInt(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}
