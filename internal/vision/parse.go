package vision

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stylefacet/tagger/internal/metadata"
)

// ParseAttributes parses the model's JSON response into an attribute map.
// Markdown code fences are tolerated; anything else malformed is an error
// for the caller to degrade.
func ParseAttributes(response string) (metadata.AttributeMap, error) {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	var raw map[string]struct {
		Value      string   `json:"value"`
		Confidence *float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(response), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse attribute response: %w", err)
	}

	known := make(map[string]bool, len(Fields))
	for _, f := range Fields {
		known[f] = true
	}

	attrs := make(metadata.AttributeMap, len(raw))
	for field, entry := range raw {
		if !known[field] {
			// Models occasionally volunteer extra keys; drop them.
			continue
		}
		if strings.TrimSpace(entry.Value) == "" {
			continue
		}
		conf := entry.Confidence
		if conf != nil && (*conf < 0 || *conf > 1) {
			return nil, fmt.Errorf("field %s: confidence %v out of range", field, *conf)
		}
		attrs[field] = metadata.RawAttribute{Value: entry.Value, Confidence: conf}
	}

	if len(attrs) == 0 {
		return nil, fmt.Errorf("attribute response contained no usable fields")
	}
	return attrs, nil
}
