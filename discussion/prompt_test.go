package discussion_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oenomel87/agora/discussion"
)

func modelPtr(m discussion.ModelName) *discussion.ModelName {
	return &m
}

func sampleTurns() []discussion.Turn {
	return []discussion.Turn{
		{Role: discussion.RoleUser, Content: "AI는 위험한가?"},
		{Role: discussion.RoleAssistant, Content: "조건부로 그렇다.", Model: modelPtr(discussion.ModelGPT)},
		{Role: discussion.RoleUser, Content: "왜?"},
	}
}

func TestTranscript(t *testing.T) {
	got := discussion.Transcript(sampleTurns())

	require.Equal(t, "User: AI는 위험한가?\ngpt: 조건부로 그렇다.\nUser: 왜?\n", got)
}

func TestTranscriptSkipsAssistantWithoutModel(t *testing.T) {
	got := discussion.Transcript([]discussion.Turn{
		{Role: discussion.RoleAssistant, Content: "orphan"},
		{Role: discussion.RoleUser, Content: "hello"},
	})

	require.Equal(t, "User: hello\n", got)
}

func TestComposePromptOpinion(t *testing.T) {
	prompt := discussion.ComposePrompt(sampleTurns(), discussion.ModelAnthropic, discussion.PhaseOpinion)

	assert.Contains(t, prompt, "당신은 anthropic입니다")
	assert.Contains(t, prompt, "gpt, gemini")
	assert.NotContains(t, prompt, "anthropic, ")
	assert.Contains(t, prompt, "다른 AI를 언급하거나 질문하지 마세요")
	assert.Contains(t, prompt, "<지금까지의 대화>")
	assert.Contains(t, prompt, "User: AI는 위험한가?")

	// The opinion template itself must not inject any mention token.
	withoutTranscript := prompt[:strings.Index(prompt, "<지금까지의 대화>")]
	assert.NotContains(t, withoutTranscript, "@")
}

func TestComposePromptFreeTalk(t *testing.T) {
	prompt := discussion.ComposePrompt(sampleTurns(), discussion.ModelGemini, discussion.PhaseFreeTalk)

	assert.Contains(t, prompt, "당신은 gemini입니다")
	assert.Contains(t, prompt, "anthropic, gpt")
	assert.Contains(t, prompt, "이전 발언에 대해 반응하세요")
	assert.Contains(t, prompt, "여러 AI를 동시에 지목하지 마세요")

	// Exactly one example @mention pattern in the instruction text.
	withoutTranscript := prompt[:strings.Index(prompt, "<지금까지의 대화>")]
	assert.Equal(t, 2, strings.Count(withoutTranscript, "@"))
	assert.Contains(t, withoutTranscript, "@gpt, 이에 대해 어떻게 생각하나요?")
}

func TestComposePromptDeterministic(t *testing.T) {
	a := discussion.ComposePrompt(sampleTurns(), discussion.ModelGPT, discussion.PhaseFreeTalk)
	b := discussion.ComposePrompt(sampleTurns(), discussion.ModelGPT, discussion.PhaseFreeTalk)

	require.Equal(t, a, b)
}

func TestComposeTitlePrompt(t *testing.T) {
	prompt := discussion.ComposeTitlePrompt(sampleTurns())

	assert.Contains(t, prompt, "10자 이내")
	assert.Contains(t, prompt, "<대화>")
	assert.Contains(t, prompt, "gpt: 조건부로 그렇다.")
}
