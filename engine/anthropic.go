package engine

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/oenomel87/agora/errors"
)

const defaultMaxTokens = 4096

type anthropicResponder struct {
	client anthropic.Client
	model  string
}

func NewAnthropicResponder(apiKey, model string) Responder {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &anthropicResponder{
		client: client,
		model:  model,
	}
}

func (r *anthropicResponder) Generate(ctx context.Context, instruction string) (*Reply, error) {
	resp, err := r.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(r.model),
		MaxTokens: defaultMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(instruction)),
		},
	})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUpstream, "anthropic: %v", err)
	}

	var text string
	for _, content := range resp.Content {
		if block, ok := content.AsAny().(anthropic.TextBlock); ok {
			text += block.Text
		}
	}

	reply := &Reply{Text: text}
	if resp.Usage.InputTokens > 0 || resp.Usage.OutputTokens > 0 {
		reply.Usage = &Usage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
		}
	}

	return reply, nil
}
