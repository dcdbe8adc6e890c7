package config

import (
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/oenomel87/agora/errors"
)

// Participants maps each discussion identity to the concrete provider model
// it runs on. Zero values fall back to the defaults below.
type Participants struct {
	Anthropic string `yaml:"anthropic"`
	GPT       string `yaml:"gpt"`
	Gemini    string `yaml:"gemini"`
}

func DefaultParticipants() Participants {
	return Participants{
		Anthropic: "claude-haiku-4-5-20251001",
		GPT:       "gpt-5-mini",
		Gemini:    "gemini-3-flash-preview",
	}
}

// LoadParticipants reads a participants YAML file, filling unset entries
// with the defaults. An empty path returns the defaults as-is.
func LoadParticipants(path string) (Participants, error) {
	p := DefaultParticipants()
	if path == "" {
		return p, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return p, errors.Wrapf(err, "failed to read participants file %q", path)
	}

	var loaded Participants
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return p, errors.Wrapf(err, "failed to unmarshal participants file %q", path)
	}

	if v := strings.TrimSpace(loaded.Anthropic); v != "" {
		p.Anthropic = v
	}
	if v := strings.TrimSpace(loaded.GPT); v != "" {
		p.GPT = v
	}
	if v := strings.TrimSpace(loaded.Gemini); v != "" {
		p.Gemini = v
	}

	return p, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
