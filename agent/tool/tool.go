package tool

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	contractx "github.com/wasin-t/tablevoice/agent/contract"
)

// Outcome is what a tool handler produced. A non-empty Next is the handoff
// signal; EndCall terminates the session; anything else is an in-agent
// result appended to context.
type Outcome struct {
	Reply   string
	Next    contractx.AgentName
	EndCall bool
}

type Handler func(ctx context.Context, args map[string]any) Outcome

// Definition binds one backend-visible tool schema to its handler.
type Definition struct {
	contractx.ToolSchema
	Handler Handler
}

// Schemas projects definitions to the schema slice handed to the backend.
func Schemas(defs []Definition) []contractx.ToolSchema {
	out := make([]contractx.ToolSchema, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.ToolSchema)
	}
	return out
}

// Dispatch runs the named tool. Unknown tool names degrade to a spoken
// outcome rather than a fault: the backend occasionally invents names.
func Dispatch(ctx context.Context, defs []Definition, name string, args map[string]any) Outcome {
	for _, d := range defs {
		if d.Name == name {
			return d.Handler(ctx, args)
		}
	}
	return Outcome{Reply: fmt.Sprintf("tool %s is not available right now", name)}
}

// StringArg reads a string argument, tolerating absent keys.
func StringArg(args map[string]any, key string) string {
	if args == nil {
		return ""
	}
	v, ok := args[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// IntArg reads an integer argument. JSON decoding yields float64; callers
// sometimes get strings from the backend, so both are accepted.
func IntArg(args map[string]any, key string) (int, bool) {
	if args == nil {
		return 0, false
	}
	switch v := args[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// StringsArg reads a list-of-strings argument. A plain string value is
// treated as comma-separated.
func StringsArg(args map[string]any, key string) []string {
	if args == nil {
		return nil
	}
	var raw []string
	switch v := args[key].(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case string:
		raw = strings.Split(v, ",")
	default:
		return nil
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
