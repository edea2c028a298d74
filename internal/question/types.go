package question

import "sync/atomic"

// Shape determines which rendering and answer contract a question follows.
type Shape string

const (
	// ShapeTextInput means the learner types the answer.
	ShapeTextInput Shape = "text-input"

	// ShapeMultipleChoice means the learner picks one of several options.
	ShapeMultipleChoice Shape = "multiple-choice"

	// ShapeWordSelection means the learner taps words in a sentence.
	ShapeWordSelection Shape = "word-selection"

	// ShapeMatching means the learner drags items into groups.
	ShapeMatching Shape = "matching"
)

// Source labels which generation tier produced a batch of questions.
type Source string

const (
	SourceDatabase Source = "database"
	SourceAI       Source = "ai"
	SourceTemplate Source = "template"
	SourceHybrid   Source = "hybrid"
	SourceSimple   Source = "simple"
)

// Token is a single selectable word in a word-selection question.
type Token struct {
	Text     string `json:"text"`
	Correct  bool   `json:"isCorrect"`
	Position int    `json:"position"`
}

// MatchItem is one draggable item in a matching question.
type MatchItem struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	GroupKey string `json:"groupKey"`
}

// MatchGroup is one target group in a matching question.
type MatchGroup struct {
	ID              string   `json:"id"`
	Label           string   `json:"label"`
	AcceptedItemIDs []string `json:"acceptedItemIds"`
}

// Question is the single artifact every generation tier must produce.
// The Shape field discriminates which payload fields are populated:
//
//	text-input      → ExpectedAnswer
//	multiple-choice → Options, CorrectIndex
//	word-selection  → Sentence, Tokens
//	matching        → Items, Groups
//
// A Question is immutable once returned by the orchestrator.
type Question struct {
	ID          int64    `json:"id"`
	Shape       Shape    `json:"shape"`
	Subject     string   `json:"subject"`
	Grade       int      `json:"grade"`
	Prompt      string   `json:"promptText"`
	Explanation string   `json:"explanation"`
	Topics      []string `json:"topics,omitempty"`

	// ExpectedAnswer is the canonical answer for text-input questions.
	ExpectedAnswer string `json:"expectedAnswer,omitempty"`

	// Options and CorrectIndex are populated for multiple-choice.
	Options      []string `json:"options,omitempty"`
	CorrectIndex int      `json:"correctIndex"`

	// Sentence and Tokens are populated for word-selection.
	Sentence string  `json:"sentence,omitempty"`
	Tokens   []Token `json:"selectableTokens,omitempty"`

	// Items and Groups are populated for matching.
	Items  []MatchItem  `json:"items,omitempty"`
	Groups []MatchGroup `json:"groups,omitempty"`
}

// idCounter backs NextID. Process-unique, not globally stable.
var idCounter atomic.Int64

// NextID returns a process-unique question ID.
func NextID() int64 {
	return idCounter.Add(1)
}

// Answer returns the canonical correct answer as a display string,
// regardless of shape.
func (q *Question) Answer() string {
	switch q.Shape {
	case ShapeMultipleChoice:
		if q.CorrectIndex >= 0 && q.CorrectIndex < len(q.Options) {
			return q.Options[q.CorrectIndex]
		}
		return ""
	default:
		return q.ExpectedAnswer
	}
}
