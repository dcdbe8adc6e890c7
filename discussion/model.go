package discussion

import (
	"strings"

	"github.com/oenomel87/agora/errors"
)

// ModelName identifies one of the fixed discussion participants.
type ModelName string

const (
	ModelAnthropic ModelName = "anthropic"
	ModelGPT       ModelName = "gpt"
	ModelGemini    ModelName = "gemini"
)

func AllModels() []ModelName {
	return []ModelName{ModelAnthropic, ModelGPT, ModelGemini}
}

func ParseModelName(s string) (ModelName, error) {
	switch ModelName(strings.ToLower(s)) {
	case ModelAnthropic:
		return ModelAnthropic, nil
	case ModelGPT:
		return ModelGPT, nil
	case ModelGemini:
		return ModelGemini, nil
	default:
		return "", errors.Wrapf(errors.ErrInvalidParams, "unknown model %q", s)
	}
}

func (m ModelName) String() string {
	return string(m)
}

// Phase is the discussion mode driving prompt composition.
type Phase string

const (
	// PhaseOpinion collects independent opinions. Participants must not
	// address each other.
	PhaseOpinion Phase = "opinion"

	// PhaseFreeTalk is open discussion. Participants may react to prior
	// turns and nominate the next speaker with a single @mention.
	PhaseFreeTalk Phase = "free_talk"
)

func ParsePhase(s string) (Phase, error) {
	switch Phase(strings.ToLower(s)) {
	case PhaseOpinion:
		return PhaseOpinion, nil
	case PhaseFreeTalk:
		return PhaseFreeTalk, nil
	default:
		return "", errors.Wrapf(errors.ErrInvalidParams, "unknown phase %q", s)
	}
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message of the conversation as seen by the composer.
type Turn struct {
	Role    string
	Content string
	Model   *ModelName
}
