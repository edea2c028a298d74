package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func answerSchema() *Schema {
	return &Schema{
		Name: "validate-test-answer",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"answer": map[string]any{"type": "string"},
				"count":  map[string]any{"type": "integer", "minimum": 0},
			},
			"required":             []string{"answer"},
			"additionalProperties": false,
		},
	}
}

func TestValidateResponse_Valid(t *testing.T) {
	raw := json.RawMessage(`{"answer": "42", "count": 3}`)
	if err := validateResponse(answerSchema(), raw); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}
}

func TestValidateResponse_MissingRequired(t *testing.T) {
	raw := json.RawMessage(`{"count": 3}`)
	err := validateResponse(answerSchema(), raw)
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestValidateResponse_WrongType(t *testing.T) {
	raw := json.RawMessage(`{"answer": 42}`)
	var inv *ErrInvalidResponse
	if err := validateResponse(answerSchema(), raw); !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestValidateResponse_MalformedJSON(t *testing.T) {
	raw := json.RawMessage(`{"answer": `)
	var inv *ErrInvalidResponse
	if err := validateResponse(answerSchema(), raw); !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not even json`)); err != nil {
		t.Fatalf("nil schema must skip validation: %v", err)
	}
}

func TestValidateResponse_CacheReuse(t *testing.T) {
	s := answerSchema()
	raw := json.RawMessage(`{"answer": "ok"}`)
	for range 3 {
		if err := validateResponse(s, raw); err != nil {
			t.Fatalf("cached schema round failed: %v", err)
		}
	}
}
