package engine

import (
	"context"

	"github.com/oenomel87/agora/config"
	"github.com/oenomel87/agora/discussion"
	"github.com/oenomel87/agora/errors"
)

type (
	// Reply is the text produced by one responder invocation, with token
	// usage when the provider reports it.
	Reply struct {
		Text  string
		Usage *Usage
	}

	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	}

	// Responder generates one response for one instruction. Implementations
	// wrap a single provider client; a call is one blocking round trip.
	Responder interface {
		Generate(ctx context.Context, instruction string) (*Reply, error)
	}

	// Registry holds exactly one responder per participant identity.
	Registry struct {
		responders map[discussion.ModelName]Responder
	}
)

func NewRegistry(responders map[discussion.ModelName]Responder) *Registry {
	return &Registry{responders: responders}
}

func (r *Registry) Get(model discussion.ModelName) (Responder, error) {
	responder, ok := r.responders[model]
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidParams, "no responder for model %q", model)
	}
	return responder, nil
}

// NewRegistryFromConfig builds the three fixed responders. Gemini speaks
// the OpenAI-compatible dialect of the Generative Language API, so it reuses
// the openai responder with a different base URL.
func NewRegistryFromConfig(cfg *config.ServerConfig, participants config.Participants) *Registry {
	return NewRegistry(map[discussion.ModelName]Responder{
		discussion.ModelAnthropic: NewAnthropicResponder(cfg.AnthropicAPIKey, participants.Anthropic),
		discussion.ModelGPT:       NewOpenAIResponder(cfg.OpenAIAPIKey, participants.GPT, ""),
		discussion.ModelGemini:    NewOpenAIResponder(cfg.GeminiAPIKey, participants.Gemini, geminiBaseUrl),
	})
}
