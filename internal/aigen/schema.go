package aigen

import "github.com/lernzeit/quizgen/internal/llm"

// BatchSchema defines the JSON schema for LLM question batch responses.
var BatchSchema = &llm.Schema{
	Name:        "quiz-questions",
	Description: "A batch of practice questions with answers and explanations",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question_text": map[string]any{
							"type":        "string",
							"description": "The question prompt shown to the learner, in German",
						},
						"format": map[string]any{
							"type":        "string",
							"enum":        []any{"text_input", "multiple_choice"},
							"description": "How the learner answers: type the answer or pick from choices",
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "The correct answer. For text_input: the expected text. For multiple_choice: the text of the correct option.",
						},
						"choices": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "string",
							},
							"description": "Exactly 4 options for multiple_choice format. Empty array for text_input format.",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "A short worked explanation in German, age-appropriate for a child",
						},
						"topic": map[string]any{
							"type":        "string",
							"description": "A one-word topic label, lowercase",
						},
					},
					"required":             []any{"question_text", "format", "answer", "choices", "explanation", "topic"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
