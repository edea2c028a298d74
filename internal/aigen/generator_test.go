package aigen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/lernzeit/quizgen/internal/llm"
	"github.com/lernzeit/quizgen/internal/question"
)

func batchJSON(t *testing.T, qs ...map[string]any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"questions": qs})
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func TestGenerate_Batch(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: batchJSON(t,
		map[string]any{
			"question_text": "Wie viel ist 7 + 5?",
			"format":        "text_input",
			"answer":        "12",
			"explanation":   "7 + 5 = 12.",
			"topic":         "Addition",
		},
		map[string]any{
			"question_text": "Welches Wort ist ein Nomen?",
			"format":        "multiple_choice",
			"answer":        "Hund",
			"choices":       []string{"laufen", "Hund", "schnell", "und"},
			"explanation":   "Hund ist ein Nomen.",
			"topic":         "nomen",
		},
	)})

	g := New(mock, DefaultConfig())
	qs, err := g.Generate(context.Background(), BatchRequest{Subject: "math", Grade: 2, Count: 2})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs))
	}

	ti := qs[0]
	if ti.Shape != question.ShapeTextInput || ti.ExpectedAnswer != "12" {
		t.Fatalf("text input candidate = %+v", ti)
	}
	if ti.Subject != "math" || ti.Grade != 2 {
		t.Fatalf("request metadata lost: %q grade %d", ti.Subject, ti.Grade)
	}
	if len(ti.Topics) != 1 || ti.Topics[0] != "addition" {
		t.Fatalf("topic should be lowercased: %v", ti.Topics)
	}

	mc := qs[1]
	if mc.Shape != question.ShapeMultipleChoice {
		t.Fatalf("shape = %q", mc.Shape)
	}
	if mc.CorrectIndex != 1 || mc.Options[mc.CorrectIndex] != "Hund" {
		t.Fatalf("correct index = %d in %v", mc.CorrectIndex, mc.Options)
	}
}

func TestGenerate_DropsUnusableCandidates(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: batchJSON(t,
		map[string]any{"question_text": "", "format": "text_input", "answer": "12"},
		map[string]any{"question_text": "Ohne Antwort?", "format": "text_input", "answer": " "},
		map[string]any{
			"question_text": "Antwort fehlt in den Optionen?",
			"format":        "multiple_choice",
			"answer":        "42",
			"choices":       []string{"1", "2", "3", "4"},
		},
		map[string]any{"question_text": "Unbekanntes Format?", "format": "essay", "answer": "x"},
		map[string]any{"question_text": "Wie viel ist 2 + 2?", "format": "text_input", "answer": "4"},
	)})

	g := New(mock, DefaultConfig())
	qs, err := g.Generate(context.Background(), BatchRequest{Subject: "math", Grade: 1, Count: 5})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(qs) != 1 {
		t.Fatalf("only the last candidate is usable, got %d", len(qs))
	}
	if qs[0].ExpectedAnswer != "4" {
		t.Fatalf("survivor = %+v", qs[0])
	}
}

func TestGenerate_CapsAtRequestedCount(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: batchJSON(t,
		map[string]any{"question_text": "Wie viel ist 1 + 1?", "format": "text_input", "answer": "2"},
		map[string]any{"question_text": "Wie viel ist 2 + 2?", "format": "text_input", "answer": "4"},
		map[string]any{"question_text": "Wie viel ist 3 + 3?", "format": "text_input", "answer": "6"},
	)})

	g := New(mock, DefaultConfig())
	qs, err := g.Generate(context.Background(), BatchRequest{Subject: "math", Grade: 1, Count: 2})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("expected the batch capped at 2, got %d", len(qs))
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})

	g := New(mock, DefaultConfig())
	_, err := g.Generate(context.Background(), BatchRequest{Subject: "math", Grade: 1, Count: 1})
	var unavail *llm.ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("provider errors must propagate wrapped, got %v", err)
	}
}

func TestGenerate_PromptCarriesRequest(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: batchJSON(t)})

	g := New(mock, DefaultConfig())
	_, err := g.Generate(context.Background(), BatchRequest{
		Subject:    "german",
		Grade:      3,
		Count:      4,
		Exclusions: []string{"Was ist die Mehrzahl von Hund?"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(mock.Calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(mock.Calls))
	}
	req := mock.Calls[0]
	if req.Schema != BatchSchema {
		t.Fatal("request must carry the batch schema")
	}
	if req.Purpose != "question-gen" {
		t.Fatalf("purpose = %q", req.Purpose)
	}
	msg := req.Prompt
	for _, want := range []string{"Deutsch", "Grade: 3", "Number of questions: 4", "Mehrzahl von Hund"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("user message missing %q:\n%s", want, msg)
		}
	}
}

func TestBuildExclusions(t *testing.T) {
	if got := buildExclusions(nil, 12); got != "None" {
		t.Fatalf("empty list = %q", got)
	}

	got := buildExclusions([]string{"a", "b", "c"}, 2)
	if strings.Contains(got, "a") {
		t.Fatalf("oldest entry should be dropped past the limit: %q", got)
	}
	if !strings.Contains(got, "b") || !strings.Contains(got, "c") {
		t.Fatalf("recent entries missing: %q", got)
	}
}
