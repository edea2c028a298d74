package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestQuestionRepo_SaveAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.Questions()
	ctx := context.Background()

	records := []StoredQuestion{
		{Subject: "math", Grade: 2, Content: "Wie viel ist 7 + 5? Antwort: 12", Quality: 0.9, Active: true},
		{Subject: "math", Grade: 2, Content: "Wie viel ist 9 - 4? Antwort: 5", Quality: 0.5, Active: true},
		{Subject: "math", Grade: 2, Content: "Alt und deaktiviert. Antwort: x", Quality: 0.9, Active: false},
		{Subject: "german", Grade: 2, Content: "Mehrzahl von Hund? Antwort: Hunde", Quality: 0.9, Active: true},
	}
	for _, r := range records {
		if err := repo.Save(ctx, r); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	got, err := repo.Query(ctx, "math", 2, true, 0.7)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record (active, quality >= 0.7), got %d", len(got))
	}
	if got[0].Content != records[0].Content {
		t.Fatalf("content = %q", got[0].Content)
	}

	// Without the quality floor and active filter both math rows and the
	// inactive one show up.
	got, err = repo.Query(ctx, "math", 2, false, 0)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
}

func TestQuestionRepo_UsageOrdering(t *testing.T) {
	s := openTestStore(t)
	repo := s.Questions()
	ctx := context.Background()

	for _, content := range []string{"Frage A? Antwort: 1", "Frage B? Antwort: 2"} {
		if err := repo.Save(ctx, StoredQuestion{Subject: "math", Grade: 3, Content: content, Quality: 0.8, Active: true}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	got, err := repo.Query(ctx, "math", 3, true, 0)
	if err != nil {
		t.Fatalf("query: %v", err)
	}

	// Bump the first record twice, it should sort last afterwards.
	for range 2 {
		if err := repo.IncrementUsage(ctx, got[0].ID); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}

	got, err = repo.Query(ctx, "math", 3, true, 0)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if got[0].Content != "Frage B? Antwort: 2" {
		t.Fatalf("least-used record should come first, got %q", got[0].Content)
	}
	if got[1].UsageCount != 2 {
		t.Fatalf("usage count = %d, want 2", got[1].UsageCount)
	}
}

func TestEventRepo_Append(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.Events().AppendLLMRequest(ctx, LLMRequestEventData{
		Provider:     "anthropic",
		Model:        "claude-haiku",
		Purpose:      "question-gen",
		InputTokens:  120,
		OutputTokens: 480,
		LatencyMs:    950,
		Success:      true,
		RequestBody:  `{"system":"..."}`,
		ResponseBody: `{"questions":[]}`,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	var count int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM llm_request_events`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 event, got %d", count)
	}

	var provider, purpose string
	var success int
	err = s.DB().QueryRow(`SELECT provider, purpose, success FROM llm_request_events`).
		Scan(&provider, &purpose, &success)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if provider != "anthropic" || purpose != "question-gen" || success != 1 {
		t.Fatalf("event = %q %q %d", provider, purpose, success)
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Questions().Save(context.Background(), StoredQuestion{
		Subject: "math", Grade: 1, Content: "Wie viel ist 1 + 1? Antwort: 2", Quality: 0.8, Active: true,
	}); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.Questions().Query(context.Background(), "math", 1, true, 0)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("data lost across reopen, got %d records", len(got))
	}
}
