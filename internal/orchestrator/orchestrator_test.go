package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lernzeit/quizgen/internal/aigen"
	"github.com/lernzeit/quizgen/internal/catalog"
	"github.com/lernzeit/quizgen/internal/diversity"
	"github.com/lernzeit/quizgen/internal/llm"
	"github.com/lernzeit/quizgen/internal/quality"
	"github.com/lernzeit/quizgen/internal/question"
	"github.com/lernzeit/quizgen/internal/store"
)

// stubRepo is an in-memory QuestionRepo for pipeline tests.
type stubRepo struct {
	mu       sync.Mutex
	records  []store.StoredQuestion
	queryErr error
	saved    []store.StoredQuestion
	saveCh   chan struct{}

	// entered and proceed, when set, make Query block so in-flight
	// behavior can be observed.
	entered chan struct{}
	proceed chan struct{}
}

func (r *stubRepo) Query(ctx context.Context, subject string, grade int, activeOnly bool, minQuality float64) ([]store.StoredQuestion, error) {
	if r.entered != nil {
		r.entered <- struct{}{}
		<-r.proceed
	}
	if r.queryErr != nil {
		return nil, r.queryErr
	}
	return r.records, nil
}

func (r *stubRepo) IncrementUsage(ctx context.Context, id int64) error { return nil }

func (r *stubRepo) Save(ctx context.Context, q store.StoredQuestion) error {
	r.mu.Lock()
	r.saved = append(r.saved, q)
	r.mu.Unlock()
	if r.saveCh != nil {
		r.saveCh <- struct{}{}
	}
	return nil
}

func fixedSeed() func() (uint64, uint64) {
	return func() (uint64, uint64) { return 11, 23 }
}

func newTestOrchestrator(repo store.QuestionRepo, ai *aigen.Generator, cat *catalog.Catalog) *Orchestrator {
	o := New(DefaultConfig(), cat, diversity.NewStore(), repo, ai)
	o.SetSeed(fixedSeed())
	return o
}

func failingAI() *aigen.Generator {
	// A mock with an empty queue reports the provider unavailable.
	return aigen.New(llm.NewMockProvider(), aigen.DefaultConfig())
}

func TestGenerate_FallbackAlwaysDelivers(t *testing.T) {
	// Store broken, AI down, no templates. The simple tier must still
	// deliver the exact count.
	repo := &stubRepo{queryErr: errors.New("db locked")}
	o := newTestOrchestrator(repo, failingAI(), catalog.FromTemplates(nil))

	res, err := o.Generate(context.Background(), Request{Subject: "math", Grade: 2, UserID: "u1", Count: 5})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(res.Questions) != 5 {
		t.Fatalf("expected exactly 5 questions, got %d", len(res.Questions))
	}
	if res.Source != question.SourceSimple {
		t.Fatalf("source = %q, want simple", res.Source)
	}

	seen := make(map[string]bool)
	for _, q := range res.Questions {
		if q.Prompt == "" || q.ExpectedAnswer == "" {
			t.Fatalf("incomplete question: %+v", q)
		}
		if seen[q.Prompt] {
			t.Fatalf("duplicate prompt within batch: %q", q.Prompt)
		}
		seen[q.Prompt] = true
	}
}

func TestGenerate_TemplateTier(t *testing.T) {
	o := newTestOrchestrator(nil, nil, catalog.New())

	res, err := o.Generate(context.Background(), Request{Subject: "math", Grade: 2, UserID: "u1", Count: 3})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(res.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(res.Questions))
	}

	for _, q := range res.Questions {
		if r := quality.Assess(q); !r.PassesThreshold {
			t.Fatalf("delivered question fails quality: %q %v", q.Prompt, r.Issues)
		}
		if q.Grade != 2 || q.Subject != "math" {
			t.Fatalf("request metadata lost: %+v", q)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	run := func() []string {
		o := newTestOrchestrator(nil, nil, catalog.New())
		res, err := o.Generate(context.Background(), Request{Subject: "math", Grade: 2, UserID: "u1", Count: 3})
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		var prompts []string
		for _, q := range res.Questions {
			prompts = append(prompts, q.Prompt)
		}
		return prompts
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed, different output: %q vs %q", a[i], b[i])
		}
	}
}

func TestGenerate_DatabaseTier(t *testing.T) {
	repo := &stubRepo{records: []store.StoredQuestion{
		{ID: 1, Subject: "math", Grade: 2, Content: "Wie viel ist 7 + 5? Antwort: 12", Quality: 0.9, Active: true},
		{ID: 2, Subject: "math", Grade: 2, Content: "Wie viel ist 9 - 4? Antwort: 5", Quality: 0.8, Active: true},
	}}
	o := newTestOrchestrator(repo, nil, catalog.FromTemplates(nil))

	res, err := o.Generate(context.Background(), Request{Subject: "math", Grade: 2, UserID: "u1", Count: 2})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Source != question.SourceDatabase {
		t.Fatalf("source = %q, want database", res.Source)
	}
	if res.Questions[0].ExpectedAnswer != "12" {
		t.Fatalf("answer = %q", res.Questions[0].ExpectedAnswer)
	}
}

func TestGenerate_DegradedRecordsSkipped(t *testing.T) {
	repo := &stubRepo{records: []store.StoredQuestion{
		// Contradicts itself, must be skipped rather than delivered.
		{ID: 1, Subject: "math", Grade: 2, Content: "Wie viel ist 7 + 5? Antwort: 13", Quality: 0.9, Active: true},
	}}
	o := newTestOrchestrator(repo, nil, catalog.FromTemplates(nil))

	res, err := o.Generate(context.Background(), Request{Subject: "math", Grade: 2, UserID: "u1", Count: 1})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Source != question.SourceSimple {
		t.Fatalf("the poisoned record leaked through, source = %q", res.Source)
	}
}

func TestGenerate_HybridLabel(t *testing.T) {
	repo := &stubRepo{records: []store.StoredQuestion{
		{ID: 1, Subject: "math", Grade: 2, Content: "Wie viel ist 7 + 5? Antwort: 12", Quality: 0.9, Active: true},
	}}
	o := newTestOrchestrator(repo, nil, catalog.FromTemplates(nil))

	res, err := o.Generate(context.Background(), Request{Subject: "math", Grade: 2, UserID: "u1", Count: 3})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(res.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(res.Questions))
	}
	if res.Source != question.SourceHybrid {
		t.Fatalf("one database + two simple should label hybrid, got %q", res.Source)
	}
}

func TestGenerate_AITier(t *testing.T) {
	batch, _ := json.Marshal(map[string]any{"questions": []map[string]any{{
		"question_text": "Wie viel ist 13 + 29?",
		"format":        "text_input",
		"answer":        "42",
		"explanation":   "13 + 29 = 42, erst 13 + 30, dann eins zurück.",
		"topic":         "addition",
	}}})
	ai := aigen.New(llm.NewMockProvider(llm.MockResponse{Content: batch}), aigen.DefaultConfig())
	repo := &stubRepo{saveCh: make(chan struct{}, 1)}
	o := newTestOrchestrator(repo, ai, catalog.FromTemplates(nil))

	res, err := o.Generate(context.Background(), Request{Subject: "math", Grade: 3, UserID: "u1", Count: 1})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Source != question.SourceAI {
		t.Fatalf("source = %q, want ai", res.Source)
	}
	if res.Questions[0].ExpectedAnswer != "42" {
		t.Fatalf("answer = %q", res.Questions[0].ExpectedAnswer)
	}

	// Accepted AI questions are written back for future reuse.
	select {
	case <-repo.saveCh:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a write-back to the store")
	}
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.saved) != 1 || repo.saved[0].Content != "Wie viel ist 13 + 29? Antwort: 42" {
		t.Fatalf("write-back = %+v", repo.saved)
	}
}

func TestGenerate_AITierPrefersFreshTopics(t *testing.T) {
	batch, _ := json.Marshal(map[string]any{"questions": []map[string]any{
		{
			"question_text": "Wie viel ist 21 + 17?",
			"format":        "text_input",
			"answer":        "38",
			"explanation":   "21 + 17 = 38, erst die Zehner, dann die Einer.",
			"topic":         "addition",
		},
		{
			"question_text": "Wie viele Ecken hat ein Dreieck?",
			"format":        "text_input",
			"answer":        "3",
			"explanation":   "Ein Dreieck hat drei Ecken.",
			"topic":         "geometry",
		},
	}})
	ai := aigen.New(llm.NewMockProvider(llm.MockResponse{Content: batch}), aigen.DefaultConfig())

	// The session already holds an addition question, so the overfetched
	// batch must be reordered to favor the untouched topic.
	div := diversity.NewStore()
	div.Register(diversity.SessionKey("u1", "math", 3), &question.Question{
		ID:             question.NextID(),
		Shape:          question.ShapeTextInput,
		Subject:        "math",
		Grade:          3,
		Prompt:         "Rechne 4 plus 9.",
		ExpectedAnswer: "13",
		Topics:         []string{"addition"},
	})

	o := New(DefaultConfig(), catalog.FromTemplates(nil), div, nil, ai)
	o.SetSeed(fixedSeed())

	res, err := o.Generate(context.Background(), Request{Subject: "math", Grade: 3, UserID: "u1", Count: 1})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Source != question.SourceAI {
		t.Fatalf("source = %q, want ai", res.Source)
	}
	got := res.Questions[0]
	if len(got.Topics) != 1 || got.Topics[0] != "geometry" {
		t.Fatalf("the fresh topic should win the slot, got %v (%q)", got.Topics, got.Prompt)
	}
}

func TestGenerate_Validation(t *testing.T) {
	o := newTestOrchestrator(nil, nil, catalog.FromTemplates(nil))

	bad := []Request{
		{Subject: "", Grade: 2, Count: 3},
		{Subject: "math", Grade: 0, Count: 3},
		{Subject: "math", Grade: 13, Count: 3},
		{Subject: "math", Grade: 2, Count: 0},
		{Subject: "math", Grade: 2, Count: 11},
	}
	for _, req := range bad {
		if _, err := o.Generate(context.Background(), req); err == nil {
			t.Fatalf("expected a validation error for %+v", req)
		}
	}
}

func TestGenerate_InFlightConflict(t *testing.T) {
	repo := &stubRepo{
		entered: make(chan struct{}),
		proceed: make(chan struct{}),
	}
	o := newTestOrchestrator(repo, nil, catalog.FromTemplates(nil))
	req := Request{Subject: "math", Grade: 2, UserID: "u1", Count: 1}

	done := make(chan error, 1)
	go func() {
		_, err := o.Generate(context.Background(), req)
		done <- err
	}()

	<-repo.entered

	_, err := o.Generate(context.Background(), req)
	var inflight *InFlightError
	if !errors.As(err, &inflight) {
		t.Fatalf("expected InFlightError, got %v", err)
	}

	// A different signature is not blocked: it must get past the guard
	// and reach the store while the first request is still running.
	other := req
	other.UserID = "u2"
	otherDone := make(chan error, 1)
	go func() {
		_, err := o.Generate(context.Background(), other)
		otherDone <- err
	}()
	<-repo.entered

	// Both requests are parked in Query now; let them both finish.
	repo.proceed <- struct{}{}
	repo.proceed <- struct{}{}
	if err := <-otherDone; err != nil {
		t.Fatalf("unrelated request failed: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("first request failed: %v", err)
	}

	// Slot freed, the signature works again.
	repo.entered, repo.proceed = nil, nil
	if _, err := o.Generate(context.Background(), req); err != nil {
		t.Fatalf("slot not released: %v", err)
	}
}

func TestGenerate_CircuitOpen(t *testing.T) {
	o := newTestOrchestrator(nil, nil, catalog.FromTemplates(nil))
	req := Request{Subject: "math", Grade: 2, UserID: "u1", Count: 1}

	sig := signature(req)
	o.mu.Lock()
	o.failures[sig] = o.config.MaxConsecutiveFailures
	o.mu.Unlock()

	_, err := o.Generate(context.Background(), req)
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
	if exhausted.Failures != o.config.MaxConsecutiveFailures {
		t.Fatalf("failures = %d", exhausted.Failures)
	}

	// A success resets the circuit.
	o.noteOutcome(sig, true)
	if _, err := o.Generate(context.Background(), req); err != nil {
		t.Fatalf("circuit did not reset: %v", err)
	}
}

func TestLabel(t *testing.T) {
	if got := label(map[question.Source]int{}); got != question.SourceSimple {
		t.Fatalf("empty contrib = %q", got)
	}
	if got := label(map[question.Source]int{question.SourceTemplate: 3}); got != question.SourceTemplate {
		t.Fatalf("single tier = %q", got)
	}
	got := label(map[question.Source]int{question.SourceDatabase: 1, question.SourceSimple: 2})
	if got != question.SourceHybrid {
		t.Fatalf("mixed tiers = %q", got)
	}
}

func TestSimpleQuestion_GradeBounds(t *testing.T) {
	o := newTestOrchestrator(nil, nil, catalog.FromTemplates(nil))

	for _, grade := range []int{1, 3, 6} {
		res, err := o.Generate(context.Background(), Request{Subject: "math", Grade: grade, UserID: fmt.Sprintf("u%d", grade), Count: 5})
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		for _, q := range res.Questions {
			var a, b int
			if _, err := fmt.Sscanf(q.Prompt, "Wie viel ist %d + %d?", &a, &b); err != nil {
				t.Fatalf("unexpected prompt %q", q.Prompt)
			}
			want := fmt.Sprintf("%d", a+b)
			if q.ExpectedAnswer != want {
				t.Fatalf("%q answered %q, want %q", q.Prompt, q.ExpectedAnswer, want)
			}
			limit := 10
			if grade >= 3 {
				limit = 20
			}
			if a < 1 || a > limit || b < 1 || b > limit {
				t.Fatalf("grade %d operands %d, %d outside [1,%d]", grade, a, b, limit)
			}
		}
	}
}
