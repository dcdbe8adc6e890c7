package discussion

import (
	"regexp"
	"strings"
)

var mentionPattern = regexp.MustCompile(`(?i)@(anthropic|gpt|gemini)`)

// ParseMention extracts the next speaker from a completed response.
// Mentions are scanned in order of first occurrence; the first mentioned
// participant other than self wins. Self-mentions are skipped, not fatal.
// The second return is false when no other participant is mentioned.
func ParseMention(text string, self ModelName) (ModelName, bool) {
	for _, match := range mentionPattern.FindAllStringSubmatch(text, -1) {
		mentioned := ModelName(strings.ToLower(match[1]))
		if mentioned != self {
			return mentioned, true
		}
	}
	return "", false
}
