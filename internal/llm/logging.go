package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lernzeit/quizgen/internal/store"
)

// LoggingProvider records every generation call as an audit event.
type LoggingProvider struct {
	inner    Provider
	events   store.EventRepo
	provider string
}

// WithLogging wraps a Provider with audit logging. The provider name
// is the configured backend ("anthropic", "gemini", ...), kept apart
// from the model ID in the event record.
func WithLogging(p Provider, events store.EventRepo, provider string) Provider {
	return &LoggingProvider{inner: p, events: events, provider: provider}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	purpose := req.Purpose
	if purpose == "" {
		purpose = "unknown"
	}
	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: renderRequest(req),
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	// A failed audit write must not fail the generation itself.
	if logErr := l.events.AppendLLMRequest(ctx, data); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log LLM request event: %v\n", logErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// renderRequest flattens a request into the readable form stored in
// the audit log.
func renderRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}
	b.WriteString("[user]\n")
	b.WriteString(req.Prompt)
	b.WriteString("\n")

	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			b.WriteString(fmt.Sprintf("\n[schema: %s]\n", req.Schema.Name))
			b.Write(def)
			b.WriteString("\n")
		}
	}

	return b.String()
}
