package facts

import (
	"context"
	"strings"

	"github.com/ReiTony/petllm/internal/ai"
)

const detectorSystemPrompt = "You are a strict AI knowledge classifier. You answer only YES or NO."

const detectorPromptTpl = `Decide if the following user message is a clear factual statement or personal information a pet should remember. ONLY answer with YES or NO. Do NOT explain.
Here are examples (answer YES or NO):
- My name is Jake. -> YES
- I am a teacher. -> YES
- Banana is a fruit. -> YES
- My favorite color is red. -> YES
- We go for walks every morning. -> YES
- My birthday is in April. -> YES
- Red is the color of apples. -> YES
- I love pizza. -> YES
- I am Jake and I like pizza. -> YES
- The sky is blue. -> YES
- Let's go for a walk! -> NO
- Can you hear me? -> NO
- I'm feeling tired. -> NO
- Let's play fetch! -> NO
- Sit! -> NO
- What are you doing? -> NO
- Do you want to go outside? -> NO

User message:
%MESSAGE%
Answer (YES or NO only):`

// Detector is a cheap YES/NO gate run before full extraction.
type Detector struct {
	provider ai.Provider
}

func NewDetector(provider ai.Provider) *Detector {
	return &Detector{provider: provider}
}

// IsTeachable reports whether the message states a fact worth remembering.
// Model failures and ambiguous answers both read as NO.
func (d *Detector) IsTeachable(ctx context.Context, message string) bool {
	prompt := strings.ReplaceAll(detectorPromptTpl, "%MESSAGE%", message)

	reply, err := d.provider.Generate(ctx, detectorSystemPrompt, prompt)
	if err != nil {
		return false
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(reply)), "yes")
}
