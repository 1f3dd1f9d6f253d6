package scanning

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseFieldsJSON extracts the field map from a vision model response.
// Models wrap JSON in markdown fences or prose despite instructions, so the
// first balanced-looking object in the text is what gets parsed.
func parseFieldsJSON(text string) (map[string]any, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	if start == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	end := strings.LastIndex(text, "}")
	if end == -1 || end < start {
		return nil, fmt.Errorf("invalid JSON object in response")
	}
	text = text[start : end+1]

	var fields map[string]any
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	// Trim string values and drop blanks so downstream alias lookups treat
	// them as absent.
	for key, value := range fields {
		s, ok := value.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			fields[key] = nil
		} else {
			fields[key] = s
		}
	}

	return fields, nil
}
