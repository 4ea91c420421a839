package questionbank

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write multiple-choice questions for students preparing for campus placement interviews and written tests.

Rules:
- Every question has exactly 4 options and exactly one correct option.
- Distractors should reflect common misconceptions, not random values.
- The question must not give away its own answer.
- Keep prompts self-contained and under 300 characters.
- Use plain text. No markdown, no code fences.
- Do not repeat any question from the "already in the bank" list.`

func buildUserMessage(input GenerateInput, cfg GeneratorConfig) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", input.Topic)
	if input.Difficulty != "" {
		fmt.Fprintf(&b, "Difficulty: %s\n", input.Difficulty)
	}
	fmt.Fprintf(&b, "Number of questions: %d\n", input.Count)

	b.WriteString("\nAlready in the bank:\n")
	b.WriteString(buildPriorList(input.PriorPrompts, cfg.MaxPriorPrompts))

	return b.String()
}

// buildPriorList formats prior prompts for deduplication, keeping only the
// most recent max entries.
func buildPriorList(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}

	var b strings.Builder
	for i, p := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return strings.TrimRight(b.String(), "\n")
}
