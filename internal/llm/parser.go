package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// fieldPayload is the structured payload expected from the classifier. The
// loose value types absorb providers that quote numbers or omit keys; the
// sanitizer decides what survives.
type fieldPayload struct {
	Field          string         `json:"field"`
	Text           string         `json:"text"`
	Candidates     []rawCandidate `json:"candidates"`
	Level          any            `json:"level"`
	Specialization any            `json:"specialization"`
}

// rawCandidate is one unvalidated candidate from the classifier.
type rawCandidate struct {
	CanonicalRole string `json:"canonical_role"`
	Confidence    any    `json:"confidence"`
}

// ParseError records a response that is not structurally parseable. It is a
// classification error, not a process fault: callers record it on the
// observation and cache it rather than retrying the classifier.
type ParseError struct {
	Err error
	Raw string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed classifier response: %v | raw=%q", e.Err, truncate(e.Raw, 200))
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// stripCodeFences removes a surrounding markdown code fence (``` or ```json)
// if present. Models wrap JSON this way despite instructions not to.
func stripCodeFences(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}

	if idx := strings.Index(t, "\n"); idx >= 0 {
		t = t[idx+1:]
	} else {
		t = ""
	}
	t = strings.TrimSpace(t)
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}

// parseFieldPayload strips formatting noise and decodes the payload. A
// response that still fails to decode after stripping yields a *ParseError.
func parseFieldPayload(raw string) (*fieldPayload, *ParseError) {
	cleaned := stripCodeFences(raw)

	var payload fieldPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, &ParseError{Err: err, Raw: raw}
	}
	return &payload, nil
}

// coerceFloat converts a loosely-typed confidence value to a float64.
func coerceFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// coerceLevel converts a loosely-typed level value to an int. JSON numbers
// decode as float64; only integral values count.
func coerceLevel(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
