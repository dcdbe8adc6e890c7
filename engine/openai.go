package engine

import (
	"context"

	goopenai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/oenomel87/agora/errors"
)

const geminiBaseUrl = "https://generativelanguage.googleapis.com/v1beta/openai/"

type openaiResponder struct {
	client *goopenai.Client
	model  string
}

// NewOpenAIResponder builds a chat-completions responder. A non-empty
// baseUrl points the client at any OpenAI-compatible endpoint.
func NewOpenAIResponder(apiKey, model, baseUrl string) Responder {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseUrl != "" {
		opts = append(opts, option.WithBaseURL(baseUrl))
	}

	return &openaiResponder{
		client: goopenai.NewClient(opts...),
		model:  model,
	}
}

func (r *openaiResponder) Generate(ctx context.Context, instruction string) (*Reply, error) {
	resp, err := r.client.Chat.Completions.New(ctx, goopenai.ChatCompletionNewParams{
		Model: goopenai.String(r.model),
		Messages: goopenai.F([]goopenai.ChatCompletionMessageParamUnion{
			goopenai.UserMessage(instruction),
		}),
	})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUpstream, "openai: %v", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.Wrapf(errors.ErrUpstream, "openai: empty choices")
	}

	reply := &Reply{Text: resp.Choices[0].Message.Content}
	if resp.Usage.PromptTokens > 0 || resp.Usage.CompletionTokens > 0 {
		reply.Usage = &Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		}
	}

	return reply, nil
}
