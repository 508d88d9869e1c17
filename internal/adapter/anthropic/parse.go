package anthropic

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hcmus-forum/forumus-backend/internal/domain"
)

// moderationVerdict is the wire shape the moderation prompt asks for.
type moderationVerdict struct {
	Valid   bool   `json:"valid"`
	Reasons string `json:"reasons"`
}

// parseModerationVerdict decodes the verdict JSON out of a model response.
func parseModerationVerdict(s string) (domain.ModerationResult, error) {
	jsonStr, err := extractJSON(s)
	if err != nil {
		return domain.ModerationResult{}, err
	}

	var v moderationVerdict
	if err := json.Unmarshal([]byte(jsonStr), &v); err != nil {
		return domain.ModerationResult{}, fmt.Errorf("decode verdict: %w", err)
	}
	return domain.ModerationResult{Valid: v.Valid, Reasons: v.Reasons}, nil
}

// parseTopicList decodes the topic-name array out of a model response.
func parseTopicList(s string) ([]string, error) {
	jsonStr, err := extractJSONArray(s)
	if err != nil {
		return nil, err
	}

	var names []string
	if err := json.Unmarshal([]byte(jsonStr), &names); err != nil {
		return nil, fmt.Errorf("decode topic names: %w", err)
	}

	out := names[:0]
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out, nil
}

// cleanSummary strips the quoting and fencing models add despite being told
// not to.
func cleanSummary(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

// extractJSON finds the first complete JSON object in a string.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}

// extractJSONArray finds the first complete JSON array in a string.
func extractJSONArray(s string) (string, error) {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON array found in response")
	}
	return s[start : end+1], nil
}
