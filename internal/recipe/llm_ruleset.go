package recipe

import (
	"context"
	"fmt"
	"strings"

	"recut/internal/services/llm"
	"recut/internal/store"
)

// LLMClient is the completion surface the LLM ruleset needs.
type LLMClient interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Model() string
}

// maxTranscriptPromptWords bounds how much word timing detail goes into the
// prompt; beyond this the full text alone has to carry the context.
const maxTranscriptPromptWords = 400

// llmRuleset delegates instruction parsing to a chat completion model and
// validates the structured plan it returns.
type llmRuleset struct {
	client LLMClient
}

func newLLMRuleset(client LLMClient) *llmRuleset {
	return &llmRuleset{client: client}
}

func (r *llmRuleset) Revision() string {
	return "llm-" + r.client.Model()
}

func (r *llmRuleset) Plan(ctx context.Context, instructions string, transcript *store.Transcript) ([]store.Operation, error) {
	content, err := r.client.CompleteJSON(ctx, llm.OperationPrompt, buildUserPrompt(instructions, transcript))
	if err != nil {
		return nil, fmt.Errorf("llm plan: %w", err)
	}

	var plan struct {
		Operations []store.Operation `json:"operations"`
	}
	if err := llm.DecodeLLMJSON(content, &plan); err != nil {
		return nil, fmt.Errorf("llm plan: parse operations: %w", err)
	}
	return plan.Operations, nil
}

func buildUserPrompt(instructions string, transcript *store.Transcript) string {
	var b strings.Builder
	b.WriteString("Instructions:\n")
	b.WriteString(instructions)
	b.WriteString("\n")
	if transcript == nil {
		b.WriteString("\nNo transcript is available; rely on times stated in the instructions.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "\nVideo duration: %.2f seconds\n", transcript.DurationSeconds)
	b.WriteString("\nTranscript:\n")
	b.WriteString(transcript.FullText)
	b.WriteString("\n")

	if n := len(transcript.Words); n > 0 && n <= maxTranscriptPromptWords {
		b.WriteString("\nWord timings (word start-end):\n")
		for _, w := range transcript.Words {
			fmt.Fprintf(&b, "%s %.2f-%.2f\n", w.Text, w.Start, w.End)
		}
	}
	return b.String()
}
