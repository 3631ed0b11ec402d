package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"
)

// A reply that is exactly one markdown code fence, nothing before or after
var fencedJSONBlock = regexp.MustCompile("(?s)\\A```(?:json)?[ \\t]*\\n(.*?)\\n?```\\z")

// ParseAIObject decodes model output that must be exactly one JSON object
// and returns its top-level fields undecoded. The only leniency is a reply
// that is entirely wrapped in a single markdown code fence. Prose around
// the object, trailing commas and extra values after it are errors.
func ParseAIObject(input string) (map[string]json.RawMessage, error) {
	s := strings.TrimSpace(strings.TrimPrefix(input, "\ufeff"))
	if s == "" {
		return nil, fmt.Errorf("empty input")
	}

	if m := fencedJSONBlock.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}
	if !strings.HasPrefix(s, "{") {
		return nil, fmt.Errorf("not a JSON object: %s", Truncate(s, 100))
	}

	dec := json.NewDecoder(strings.NewReader(s))
	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after JSON object: %s", Truncate(s, 100))
	}

	return fields, nil
}

// Truncate shortens s to at most maxLen bytes for log output without
// splitting a UTF-8 sequence
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
