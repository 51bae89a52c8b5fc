package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedOutput marks classifier responses that decoded into
// something other than a complete verdict. The orchestrator recovers
// from these locally instead of failing the whole analysis.
var ErrMalformedOutput = errors.New("malformed classifier output")

// requiredFields are the fields every classifier verdict must carry.
// A response missing any of them is treated like a decode failure.
var requiredFields = []string{"risk_score", "is_smishing", "risk_level", "reasons", "safe_actions"}

// ParseClassifierOutput decodes the raw text returned by a classifier
// model into a ClassifierOutput. Models tend to wrap the JSON in
// markdown fences or surrounding prose, so the payload is located
// before decoding.
func ParseClassifierOutput(responseText string) (*ClassifierOutput, error) {
	jsonStr := extractJSONPayload(responseText)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	for _, field := range requiredFields {
		if _, ok := raw[field]; !ok {
			return nil, fmt.Errorf("%w: missing required field %q", ErrMalformedOutput, field)
		}
	}

	var out ClassifierOutput
	if err := json.Unmarshal([]byte(jsonStr), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return &out, nil
}

// extractJSONPayload strips markdown code fences and, failing that,
// falls back to scanning for the outermost brace pair.
func extractJSONPayload(text string) string {
	if idx := strings.Index(text, "```json"); idx >= 0 {
		rest := text[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
	}
	if idx := strings.Index(text, "```"); idx >= 0 {
		rest := text[idx+3:]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
	}

	trimmed := strings.TrimSpace(text)
	if json.Valid([]byte(trimmed)) {
		return trimmed
	}

	// Last resort: take everything between the first '{' and last '}'
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		return trimmed[start : end+1]
	}
	return trimmed
}
