package chat

import (
	"context"
	"strings"
	"time"

	"github.com/oenomel87/agora/discussion"
	"github.com/oenomel87/agora/engine"
	"github.com/oenomel87/agora/entity"
	"github.com/oenomel87/agora/errors"
	"github.com/oenomel87/agora/internal/mylog"
	"github.com/oenomel87/agora/thread"
)

type (
	Message struct {
		Role    string  `json:"role"`
		Content string  `json:"content"`
		Model   *string `json:"model,omitempty"`
	}

	Request struct {
		Messages  []Message `json:"messages"`
		Model     string    `json:"model"`
		Phase     string    `json:"phase,omitempty"`
		ThreadID  string    `json:"thread_id,omitempty"`
		RequestID string    `json:"request_id,omitempty"`
	}

	Response struct {
		Message   Message               `json:"message"`
		Model     discussion.ModelName  `json:"model"`
		NextModel *discussion.ModelName `json:"next_model"`
		Usage     *engine.Usage         `json:"usage,omitempty"`
	}

	Service struct {
		logger           *mylog.Logger
		threads          thread.Manager
		registry         *engine.Registry
		responderTimeout time.Duration
	}
)

func NewService(
	logger *mylog.Logger,
	threads thread.Manager,
	registry *engine.Registry,
	responderTimeout time.Duration,
) *Service {
	return &Service{
		logger:           logger,
		threads:          threads,
		registry:         registry,
		responderTimeout: responderTimeout,
	}
}

// TitleModel produces thread titles. One designated responder handles every
// title request.
const TitleModel = discussion.ModelGemini

const maxTitleLen = 50

func toTurns(messages []Message) []discussion.Turn {
	turns := make([]discussion.Turn, 0, len(messages))
	for _, msg := range messages {
		turn := discussion.Turn{
			Role:    msg.Role,
			Content: msg.Content,
		}
		if msg.Model != nil {
			if name, err := discussion.ParseModelName(*msg.Model); err == nil {
				turn.Model = &name
			}
		}
		turns = append(turns, turn)
	}
	return turns
}

// Chat runs one full discussion turn: persist the fresh user message if the
// request names a thread, compose the phase instruction, invoke the acting
// model's responder, parse the nominated next speaker, persist the reply.
func (s *Service) Chat(ctx context.Context, req *Request) (*Response, error) {
	if len(req.Messages) == 0 {
		return nil, errors.Wrapf(errors.ErrInvalidParams, "messages must not be empty")
	}

	model, err := discussion.ParseModelName(req.Model)
	if err != nil {
		return nil, err
	}

	// The registry is closed over the three fixed identities, so resolve it
	// before any write happens.
	responder, err := s.registry.Get(model)
	if err != nil {
		return nil, err
	}

	phase, err := s.resolvePhase(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.ThreadID != "" {
		last := req.Messages[len(req.Messages)-1]
		if last.Role == discussion.RoleUser {
			var requestID *string
			if req.RequestID != "" {
				requestID = &req.RequestID
			}
			if _, err := s.threads.AddMessage(ctx, req.ThreadID, discussion.RoleUser, last.Content, nil, requestID); err != nil {
				return nil, err
			}
		}
	}

	instruction := discussion.ComposePrompt(toTurns(req.Messages), model, phase)

	reply, err := s.generate(ctx, responder, instruction)
	if err != nil {
		return nil, err
	}

	var nextModel *discussion.ModelName
	if mentioned, ok := discussion.ParseMention(reply.Text, model); ok {
		nextModel = &mentioned
	}

	if req.ThreadID != "" {
		if _, err := s.threads.AddMessage(ctx, req.ThreadID, discussion.RoleAssistant, reply.Text, &model, nil); err != nil {
			return nil, err
		}
	}

	s.logger.Info("chat turn completed",
		"model", model,
		"phase", phase,
		"thread_id", req.ThreadID,
		"next_model", nextModel,
	)

	return &Response{
		Message: Message{
			Role:    discussion.RoleAssistant,
			Content: reply.Text,
		},
		Model:     model,
		NextModel: nextModel,
		Usage:     reply.Usage,
	}, nil
}

// resolvePhase picks the effective phase: an explicit request phase wins and
// is persisted onto the thread, otherwise a named thread's stored phase
// applies, otherwise opinion.
func (s *Service) resolvePhase(ctx context.Context, req *Request) (discussion.Phase, error) {
	if req.Phase != "" {
		phase, err := discussion.ParsePhase(req.Phase)
		if err != nil {
			return "", err
		}
		if req.ThreadID != "" {
			updated, err := s.threads.UpdatePhase(ctx, req.ThreadID, phase)
			if err != nil {
				return "", err
			}
			if !updated {
				return "", errors.Wrapf(errors.ErrNotFound, "thread %q not found", req.ThreadID)
			}
		}
		return phase, nil
	}

	if req.ThreadID != "" {
		t, err := s.threads.GetThreadByID(ctx, req.ThreadID)
		if err != nil {
			return "", err
		}
		return t.Phase, nil
	}

	return discussion.PhaseOpinion, nil
}

// GenerateTitle summarizes a transcript into a short thread title and
// persists it. Independent of the turn loop.
func (s *Service) GenerateTitle(ctx context.Context, threadID string, messages []Message) (*entity.Thread, error) {
	responder, err := s.registry.Get(TitleModel)
	if err != nil {
		return nil, err
	}

	prompt := discussion.ComposeTitlePrompt(toTurns(messages))

	reply, err := s.generate(ctx, responder, prompt)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(reply.Text)
	title = strings.Trim(title, `"'`)
	if runes := []rune(title); len(runes) > maxTitleLen {
		title = string(runes[:maxTitleLen])
	}

	updated, err := s.threads.UpdateTitle(ctx, threadID, title)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, errors.Wrapf(errors.ErrNotFound, "thread %q not found", threadID)
	}

	return s.threads.GetThreadByID(ctx, threadID)
}

func (s *Service) generate(ctx context.Context, responder engine.Responder, instruction string) (*engine.Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, s.responderTimeout)
	defer cancel()

	reply, err := responder.Generate(ctx, instruction)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrapf(errors.ErrUpstream, "responder timed out: %v", err)
		}
		return nil, err
	}

	return reply, nil
}
