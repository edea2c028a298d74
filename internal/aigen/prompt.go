package aigen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a tutor creating practice questions in German for primary school children.

Rules:
- Generate the requested number of questions for the given subject and grade.
- All question text, answers, and explanations are in German.
- Use plain text for all math. No LaTeX, no Unicode symbols. Use standard operators.
- Each question must be clear, self-contained, and age-appropriate for the grade.
- The answer must be correct. For math, double-check the arithmetic before answering.
- Choose "text_input" format for computation or single-word answers (the learner types the answer).
- Choose "multiple_choice" format for conceptual, comparison, or identification questions (the learner picks from 4 options).
- For multiple choice, provide exactly 4 options where exactly one is correct. Distractors should reflect common mistakes, not random values.
- Vary the topics across the batch. Do not generate two questions about the same fact.
- Do not repeat any question from the "already seen" list.`

// buildUserMessage constructs the user message for a batch request.
func buildUserMessage(req BatchRequest, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Subject: %s\n", subjectLabel(req.Subject))
	fmt.Fprintf(&b, "Grade: %d\n", req.Grade)
	fmt.Fprintf(&b, "Number of questions: %d\n", req.Count)

	b.WriteString("\nAlready seen in this session:\n")
	b.WriteString(buildExclusions(req.Exclusions, cfg.MaxExclusions))

	return b.String()
}

func subjectLabel(subject string) string {
	switch subject {
	case "math":
		return "Mathematik"
	case "german":
		return "Deutsch"
	default:
		return subject
	}
}

// buildExclusions formats already-seen prompts, respecting the max limit.
// Returns "None" if there are none.
func buildExclusions(seen []string, max int) string {
	if len(seen) == 0 {
		return "None"
	}

	// Keep only the most recent N entries.
	if max > 0 && len(seen) > max {
		seen = seen[len(seen)-max:]
	}

	var b strings.Builder
	for i, q := range seen {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
