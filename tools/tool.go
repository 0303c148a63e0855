// Package tools provides the tool-call surface of the gateway.
//
// Information Hiding:
// - Tool execution details hidden behind interface
// - Input coercion of loosely-typed JSON hidden in Input helpers
// - Error classification hidden in Error codes
package tools

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/richinex/tubegate/auth"
)

// ToolParameter defines a parameter schema for a tool.
type ToolParameter struct {
	Name        string `json:"name"`
	ParamType   string `json:"param_type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// ToolMetadata describes what a tool does and how to call it.
type ToolMetadata struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ToolParameter `json:"parameters"`
	Aliases     []string        `json:"aliases,omitempty"`
}

// String returns a string representation of the tool metadata.
func (m ToolMetadata) String() string {
	return fmt.Sprintf("%s: %s", m.Name, m.Description)
}

// Tool is the interface that all tools must implement.
//
// Validate runs before any upstream call and must not have side effects.
// Execute returns a JSON-encodable object payload.
type Tool interface {
	Metadata() ToolMetadata
	Validate(in Input) error
	Execute(ctx context.Context, ac auth.Context, in Input) (any, error)
}

// Input is the decoded "input" object of a tool call.
type Input map[string]any

// String returns the trimmed string at key and whether it is non-empty.
func (in Input) String(key string) (string, bool) {
	s, ok := in[key].(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// RequireString returns the non-empty string at key or an InvalidInput error
// naming the key.
func (in Input) RequireString(key string) (string, error) {
	s, ok := in.String(key)
	if !ok {
		return "", invalidInputf("%s is required", key)
	}
	return s, nil
}

// Int returns the integer at key. present is false when the key is absent
// or null; err is set when it is present but not an integer.
func (in Input) Int(key string) (n int, present bool, err error) {
	v, ok := in[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) || x != math.Trunc(x) {
			return 0, true, invalidInputf("%s must be an integer", key)
		}
		if x > math.MaxInt32 {
			return math.MaxInt32, true, nil
		}
		if x < math.MinInt32 {
			return math.MinInt32, true, nil
		}
		return int(x), true, nil
	case int:
		return x, true, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, true, invalidInputf("%s must be an integer", key)
		}
		return n, true, nil
	default:
		return 0, true, invalidInputf("%s must be an integer", key)
	}
}

// IntInRange returns the integer at key clamped to [lo, hi], or def when absent.
func (in Input) IntInRange(key string, def, lo, hi int) (int, error) {
	n, present, err := in.Int(key)
	if err != nil {
		return 0, err
	}
	if !present {
		return def, nil
	}
	return min(max(n, lo), hi), nil
}
