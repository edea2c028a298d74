package store

import (
	"context"
	"database/sql"
	"time"
)

// StoredQuestion is a curated question record. Content is a raw string
// form (question text plus an embedded answer phrase) that must go
// through the parse package before it can be treated as a question.
type StoredQuestion struct {
	ID         int64
	Subject    string
	Grade      int
	Content    string
	Quality    float64
	Active     bool
	UsageCount int
}

// QuestionRepo provides access to curated question records.
type QuestionRepo interface {
	// Query returns records for a subject and grade, optionally
	// restricted to active records above a quality floor.
	Query(ctx context.Context, subject string, grade int, activeOnly bool, minQuality float64) ([]StoredQuestion, error)

	// IncrementUsage bumps a record's usage counter. Best-effort; lost
	// updates under race are acceptable.
	IncrementUsage(ctx context.Context, id int64) error

	// Save stores a new record. Used for fire-and-forget write-back of
	// accepted generated questions.
	Save(ctx context.Context, q StoredQuestion) error
}

// LLMRequestEventData captures one LLM API call for auditing.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// EventRepo provides append access to audit events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}

type questionRepo struct {
	db *sql.DB
}

func (r *questionRepo) Query(ctx context.Context, subject string, grade int, activeOnly bool, minQuality float64) ([]StoredQuestion, error) {
	q := `SELECT id, subject, grade, content, quality, active, usage_count
		FROM stored_questions
		WHERE subject = ? AND grade = ? AND quality >= ?`
	args := []any{subject, grade, minQuality}
	if activeOnly {
		q += ` AND active = 1`
	}
	q += ` ORDER BY usage_count ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredQuestion
	for rows.Next() {
		var sq StoredQuestion
		var active int
		if err := rows.Scan(&sq.ID, &sq.Subject, &sq.Grade, &sq.Content, &sq.Quality, &active, &sq.UsageCount); err != nil {
			return nil, err
		}
		sq.Active = active != 0
		out = append(out, sq)
	}
	return out, rows.Err()
}

func (r *questionRepo) IncrementUsage(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE stored_questions SET usage_count = usage_count + 1 WHERE id = ?`, id)
	return err
}

func (r *questionRepo) Save(ctx context.Context, q StoredQuestion) error {
	active := 0
	if q.Active {
		active = 1
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO stored_questions (subject, grade, content, quality, active, usage_count, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?)`,
		q.Subject, q.Grade, q.Content, q.Quality, active, time.Now().Unix())
	return err
}

type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	success := 0
	if data.Success {
		success = 1
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO llm_request_events
		(provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens,
		data.LatencyMs, success, data.ErrorMessage, data.RequestBody, data.ResponseBody, time.Now().Unix())
	return err
}
