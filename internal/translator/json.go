// internal/translator/json.go
package translator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// thinkTagPattern matches <think>...</think> blocks some models prepend.
var thinkTagPattern = regexp.MustCompile(`(?s)^\s*<think>.*?</think>\s*`)

// fencePattern matches a markdown code fence wrapping the whole reply.
var fencePattern = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")

// ExtractJSON pulls the JSON object out of a model reply that may carry
// think tags, a markdown fence, or prose around the object.
func ExtractJSON(reply string) (string, error) {
	cleaned := strings.TrimSpace(thinkTagPattern.ReplaceAllString(reply, ""))
	if m := fencePattern.FindStringSubmatch(cleaned); m != nil {
		cleaned = strings.TrimSpace(m[1])
	}

	if json.Valid([]byte(cleaned)) {
		return cleaned, nil
	}
	if obj, ok := balancedObject(cleaned); ok && json.Valid([]byte(obj)) {
		return obj, nil
	}
	return "", fmt.Errorf("no valid JSON object in reply")
}

// balancedObject returns the first brace-balanced {...} span of s, skipping
// braces inside strings.
func balancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
