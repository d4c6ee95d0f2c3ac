package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// defaultReasoning fills in when the model omits the reasoning key.
const defaultReasoning = "No reasoning provided"

// StripCodeFences removes markdown code-fence markers the model may emit
// despite being told not to. Handles leading ```json / ``` lines and a
// trailing ``` line; anything else passes through untouched.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if i := strings.IndexByte(s, '\n'); i >= 0 && strings.EqualFold(strings.TrimSpace(s[:i]), "json") {
			s = s[i+1:]
		} else {
			s = strings.TrimPrefix(s, "json")
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseRemoteVerdict parses a model reply into a RemoteVerdict. Missing keys
// default (false / 0 / "No reasoning provided" / empty list) and confidence
// is clamped to [0,100]; a reply that is not JSON at all surfaces as
// ErrMalformedResponse rather than being silently defaulted.
func ParseRemoteVerdict(raw string) (RemoteVerdict, error) {
	body := StripCodeFences(raw)

	var wire struct {
		IsAIGenerated    *bool    `json:"isAIGenerated"`
		Confidence       *int     `json:"confidence"`
		Reasoning        *string  `json:"reasoning"`
		VisualIndicators []string `json:"visualIndicators"`
	}
	if err := json.Unmarshal([]byte(body), &wire); err != nil {
		return RemoteVerdict{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	v := RemoteVerdict{
		Reasoning:        defaultReasoning,
		VisualIndicators: []string{},
	}
	if wire.IsAIGenerated != nil {
		v.IsAIGenerated = *wire.IsAIGenerated
	}
	if wire.Confidence != nil {
		v.Confidence = *wire.Confidence
	}
	if v.Confidence < 0 {
		v.Confidence = 0
	} else if v.Confidence > 100 {
		v.Confidence = 100
	}
	if wire.Reasoning != nil && *wire.Reasoning != "" {
		v.Reasoning = *wire.Reasoning
	}
	if wire.VisualIndicators != nil {
		v.VisualIndicators = wire.VisualIndicators
	}
	return v, nil
}
