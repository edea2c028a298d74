// Package llm abstracts the generative-AI backends behind the AI
// generation tier. Question generation is strictly single-turn: one
// system instruction, one user prompt, one JSON answer checked against
// a schema. The Request type encodes exactly that and nothing more.
// Concrete backends (Anthropic, OpenAI, OpenRouter, Gemini) plus retry
// and logging decorators are wired by the factory.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one structured completion per call.
type Provider interface {
	// Generate runs a single-turn completion. When the request carries
	// a Schema, the returned Content is JSON validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID reports the model identifier the provider targets.
	ModelID() string
}

// Request is one single-turn generation call.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Prompt is the user-turn text. There is never more than one turn.
	Prompt string

	// Purpose labels the call for the audit log, e.g. "question-gen".
	Purpose string

	// Schema, when set, switches the backend to its native structured
	// output mode and validates the response against the definition.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature controls randomness, 0.0 to 1.0.
	Temperature float64
}

// Schema names a JSON Schema the response must satisfy.
type Schema struct {
	// Name identifies the schema. Kebab-case, e.g. "quiz-questions".
	Name string

	// Description tells the model what the schema represents.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response is the model's output for one request.
type Response struct {
	// Content is the generated output. Validated JSON when the request
	// carried a Schema. A truncated response is never returned here;
	// backends report truncation as *ErrMaxTokensExceeded instead.
	Content json.RawMessage

	// Model is the model that actually served the request, which can
	// differ from the configured one behind routing gateways.
	Model string

	// Usage reports token consumption.
	Usage Usage
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}
