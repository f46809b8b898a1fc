package directive

import (
	"encoding/json"
	"strings"

	"codeberg.org/mutker/agentctl/internal/logger"
)

const (
	marker    = "ACTION:"
	separator = " with "

	// Key for the fallback entry carrying parameter text that failed to
	// parse as a structured object
	RawParamsKey = "raw_params"
)

// Parse extracts action directives from a block of model output. Only
// lines beginning with the ACTION: marker participate; everything else is
// prose. Parse never fails: malformed parameter text degrades per
// directive, and directives come back in source order.
func Parse(text string) []Directive {
	var directives []Directive

	for _, line := range strings.Split(text, "\n") {
		if !strings.HasPrefix(line, marker) {
			continue
		}

		body := strings.TrimSpace(line[len(marker):])

		name := body
		params := Params{}
		if idx := strings.Index(body, separator); idx >= 0 {
			name = body[:idx]
			params = parseParams(body[idx+len(separator):])
		}

		directives = append(directives, Directive{
			Name:        strings.TrimSpace(name),
			Params:      params,
			Description: body,
		})
	}

	return directives
}

// parseParams applies the parameter parsing policy: a brace-delimited
// object parses as JSON, anything else splits on commas into key=value
// pairs. A malformed object degrades to a single raw_params entry rather
// than failing the directive.
func parseParams(text string) Params {
	if strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}") {
		params, err := parseObjectParams(text)
		if err != nil {
			logger.Warn().Err(err).Str("params", text).Msg("Failed to parse action parameters")
			return Params{RawParamsKey: String(text)}
		}
		return params
	}

	// Legacy key=value form: fragments without '=' are dropped and every
	// value stays a string. Kept as-is for compatibility.
	params := Params{}
	for _, fragment := range strings.Split(text, ",") {
		key, value, found := strings.Cut(fragment, "=")
		if !found {
			continue
		}
		params[strings.TrimSpace(key)] = String(strings.TrimSpace(value))
	}

	return params
}

func parseObjectParams(text string) (Params, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, err
	}

	params := make(Params, len(raw))
	for key, value := range raw {
		params[key] = fromJSON(value)
	}

	return params, nil
}

func fromJSON(value any) Value {
	switch v := value.(type) {
	case string:
		return String(v)
	case float64:
		return Number(v)
	case bool:
		return Bool(v)
	case map[string]any:
		fields := make(map[string]Value, len(v))
		for key, item := range v {
			fields[key] = fromJSON(item)
		}
		return Object(fields)
	case []any:
		items := make([]Value, 0, len(v))
		for _, item := range v {
			items = append(items, fromJSON(item))
		}
		return List(items)
	default:
		// JSON null
		return String("")
	}
}
