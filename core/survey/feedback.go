package survey

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

type (
	// Structured is the JSON object the model is asked to reply with.
	Structured struct {
		Summary     string   `json:"summary,omitempty"`
		Suggestions []string `json:"suggestions,omitempty"`
		Error       string   `json:"error,omitempty"`
	}

	Feedback struct {
		Reply      string      `json:"reply"`
		Structured *Structured `json:"structured"`
	}

	FeedbackRequest struct {
		Answers        Answers `json:"answers"`
		Consent        bool    `json:"consent"`
		PromptOverride string  `json:"promptOverride"`
	}
)

// ParseStructured extracts the JSON object of a model reply. It tries the reply as is,
// then the text between the first "{" and the last "}", then a repaired version of that text.
// It returns nil when nothing parses.
func ParseStructured(reply string) *Structured {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil
	}
	if st, ok := decodeStructured(reply); ok {
		return st
	}

	candidate := reply
	first, last := strings.Index(reply, "{"), strings.LastIndex(reply, "}")
	if first != -1 && last > first {
		candidate = reply[first : last+1]
		if st, ok := decodeStructured(candidate); ok {
			return st
		}
	}

	repaired, err := jsonrepair.JSONRepair(candidate)
	if err != nil {
		return nil
	}
	if st, ok := decodeStructured(repaired); ok {
		return st
	}
	return nil
}

func decodeStructured(s string) (*Structured, bool) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, false
	}
	var st Structured
	if err := json.Unmarshal([]byte(s), &st); err != nil {
		return nil, false
	}
	return &st, true
}
