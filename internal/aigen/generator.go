// Package aigen produces question candidates with an LLM. Candidates
// are untrusted: they are schema-validated by the provider, parsed into
// the question union here, and still pass through the duplicate and
// quality checks downstream.
package aigen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lernzeit/quizgen/internal/llm"
	"github.com/lernzeit/quizgen/internal/question"
)

// BatchRequest describes one batch of questions to generate.
type BatchRequest struct {
	Subject string
	Grade   int
	Count   int

	// Exclusions lists prompts the learner already saw this session.
	Exclusions []string
}

// Generator produces question batches using the LLM provider.
type Generator struct {
	provider llm.Provider
	config   Config
}

// New creates a Generator with the given provider and config.
func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, config: cfg}
}

// batchOutput is the raw LLM response before conversion.
type batchOutput struct {
	Questions []candidateOutput `json:"questions"`
}

type candidateOutput struct {
	QuestionText string   `json:"question_text"`
	Format       string   `json:"format"`
	Answer       string   `json:"answer"`
	Choices      []string `json:"choices"`
	Explanation  string   `json:"explanation"`
	Topic        string   `json:"topic"`
}

// Generate produces up to req.Count candidates. Candidates that fail
// structural conversion are dropped, not errors; callers top up from
// other tiers when the batch comes back short.
func (g *Generator) Generate(ctx context.Context, req BatchRequest) ([]*question.Question, error) {
	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      buildUserMessage(req, g.config),
		Purpose:     "question-gen",
		Schema:      BatchSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw batchOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	out := make([]*question.Question, 0, len(raw.Questions))
	for _, c := range raw.Questions {
		q, ok := convert(c, req)
		if !ok {
			continue
		}
		out = append(out, q)
		if len(out) == req.Count {
			break
		}
	}

	return out, nil
}

// convert turns a raw candidate into the question union. Returns false
// when the candidate is structurally unusable.
func convert(c candidateOutput, req BatchRequest) (*question.Question, bool) {
	prompt := strings.TrimSpace(c.QuestionText)
	answer := strings.TrimSpace(c.Answer)
	if prompt == "" || answer == "" {
		return nil, false
	}

	q := &question.Question{
		ID:          question.NextID(),
		Subject:     req.Subject,
		Grade:       req.Grade,
		Prompt:      prompt,
		Explanation: strings.TrimSpace(c.Explanation),
	}
	if topic := strings.ToLower(strings.TrimSpace(c.Topic)); topic != "" {
		q.Topics = []string{topic}
	}

	switch c.Format {
	case "multiple_choice":
		q.Shape = question.ShapeMultipleChoice
		q.Options = c.Choices
		q.CorrectIndex = -1
		for i, opt := range c.Choices {
			if strings.EqualFold(strings.TrimSpace(opt), answer) {
				q.CorrectIndex = i
				break
			}
		}
		if len(q.Options) < 2 || q.CorrectIndex < 0 {
			return nil, false
		}
	case "text_input":
		q.Shape = question.ShapeTextInput
		q.ExpectedAnswer = answer
	default:
		return nil, false
	}

	return q, true
}
