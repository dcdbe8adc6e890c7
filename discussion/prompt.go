package discussion

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Transcript renders the conversation one line per message, user turns as
// "User: ..." and assistant turns prefixed by the producing model's name.
func Transcript(turns []Turn) string {
	var sb strings.Builder
	for _, turn := range turns {
		switch {
		case turn.Role == RoleUser:
			fmt.Fprintf(&sb, "User: %s\n", turn.Content)
		case turn.Role == RoleAssistant && turn.Model != nil:
			fmt.Fprintf(&sb, "%s: %s\n", *turn.Model, turn.Content)
		}
	}
	return sb.String()
}

func otherModels(self ModelName) string {
	others := lo.Filter(AllModels(), func(m ModelName, _ int) bool {
		return m != self
	})
	names := lo.Map(others, func(m ModelName, _ int) string {
		return m.String()
	})
	return strings.Join(names, ", ")
}

// ComposePrompt builds the instruction text for one turn. Pure function of
// its inputs; byte-identical output for identical arguments.
func ComposePrompt(turns []Turn, self ModelName, phase Phase) string {
	others := otherModels(self)

	var instructions string
	if phase == PhaseOpinion {
		instructions = fmt.Sprintf(`당신은 %s입니다.
지금 %s와 함께 토론에 참여하고 있습니다.

다음을 기억하세요:
- 솔직하게 자신의 의견만 제시하세요
- 다른 AI를 언급하거나 질문하지 마세요
- 3-4문단 이내로 작성하세요`, self, others)
	} else {
		instructions = fmt.Sprintf(`당신은 %s입니다.
지금 %s와 함께 토론하고 있습니다.

다음을 기억하세요:
- 이전 발언에 대해 반응하세요 (동의, 반박, 보충)
- 다른 AI를 참조할 때는 이름만 사용하세요 (예: "Anthropic이 말했듯이", "GPT의 의견처럼")
- 질문할 때만 응답 끝에 @를 사용하세요 (예: "@gpt, 이에 대해 어떻게 생각하나요?")
- 여러 AI를 동시에 지목하지 마세요
- 3-4문단 이내로 작성하세요`, self, others)
	}

	return fmt.Sprintf(`%s

<지금까지의 대화>
%s
`, instructions, Transcript(turns))
}

// ComposeTitlePrompt builds the one-shot summarize-to-a-title instruction.
func ComposeTitlePrompt(turns []Turn) string {
	return fmt.Sprintf(`다음 대화의 제목을 한국어로 짧게 만들어주세요 (10자 이내).
제목만 출력하고 다른 설명은 하지 마세요.

<대화>
%s
`, Transcript(turns))
}
