package oracle

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var fencePattern = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")

// ExtractJSON strips a fenced code block if present, then trims the text down
// to the outermost object or array that starts with open.
func ExtractJSON(raw string, open byte) string {
	text := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	closer := byte('}')
	if open == '[' {
		closer = ']'
	}
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, closer)
	if start < 0 || end <= start {
		return text
	}
	return text[start : end+1]
}

func decodeJSON[T any](raw string, open byte) (T, error) {
	var out T
	body := ExtractJSON(raw, open)
	if body == "" {
		return out, fmt.Errorf("empty response")
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return out, fmt.Errorf("decode %q: %w", snippet(body), err)
	}
	return out, nil
}

func snippet(s string) string {
	const max = 200
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// flexString accepts strings, numbers, booleans and null from loosely typed model output.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*f = ""
	case strings.HasPrefix(s, `"`):
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = flexString(v)
	case s == "true" || s == "false":
		*f = flexString(s)
	default:
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return fmt.Errorf("unsupported scalar %s", s)
		}
		*f = flexString(s)
	}
	return nil
}

// flexBool accepts true/false as booleans or strings; null means false.
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.ToLower(strings.TrimSpace(string(b))), `"`)
	*f = flexBool(s == "true" || s == "yes" || s == "1")
	return nil
}
