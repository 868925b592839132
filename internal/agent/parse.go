package agent

import (
	"encoding/json"
	"strings"

	"github.com/alphaswap/alphaswap/internal/domain"
)

// actionDelimiter separates the conversational reply from the machine
// action in a model completion.
const actionDelimiter = "ACTION:"

// ParseCompletion splits a model completion into the chat message and the
// structured action. Everything before the first delimiter is the message;
// the first balanced JSON object after it is the action. Missing or
// malformed action payloads degrade to NO_ACTION rather than failing the
// conversation.
func ParseCompletion(text string) (string, domain.AgentAction) {
	action := domain.AgentAction{Type: domain.ActionNone}

	message, rest, found := strings.Cut(text, actionDelimiter)
	message = strings.TrimSpace(message)
	if !found {
		return message, action
	}

	raw := extractJSONObject(rest)
	if raw == "" {
		return message, action
	}
	var parsed domain.AgentAction
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return message, action
	}
	if parsed.Type == "" {
		parsed.Type = domain.ActionNone
	}
	return message, parsed
}

// extractJSONObject returns the first balanced {...} span in s, tracking
// string literals and escapes so braces inside values don't end the scan.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
