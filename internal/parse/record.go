// Package parse turns raw curated-question records into questions. Store
// content is a loose string form (question text with an embedded answer
// phrase, or a bare arithmetic question), so parsing must never panic;
// input that cannot be recovered yields a Degraded outcome that is
// filtered out before it can reach a learner.
package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lernzeit/quizgen/internal/question"
	"github.com/lernzeit/quizgen/internal/store"
)

// Outcome is the result of parsing one record: either a usable question
// or a degraded marker with the reason. A degraded outcome must never be
// counted toward a generation target.
type Outcome struct {
	Question *question.Question
	Degraded bool
	Reason   string
}

func parsed(q *question.Question) Outcome {
	return Outcome{Question: q}
}

func degraded(format string, args ...any) Outcome {
	return Outcome{Degraded: true, Reason: fmt.Sprintf(format, args...)}
}

var (
	// answerPhraseRe matches the German answer phrases embedded in
	// curated content, e.g. "... Antwort: 12" or "... Lösung: Hunde".
	answerPhraseRe = regexp.MustCompile(`(?i)\b(?:antwort|lösung)\s*:\s*(.+?)\s*$`)

	// arithmeticRe extracts a simple binary arithmetic expression.
	arithmeticRe = regexp.MustCompile(`(\d+)\s*([+\-*:×·])\s*(\d+)`)
)

// Record parses one stored record into a text-input question.
func Record(sq store.StoredQuestion) Outcome {
	content := strings.TrimSpace(sq.Content)
	if content == "" {
		return degraded("record %d has empty content", sq.ID)
	}

	prompt := content
	answerText := ""

	if m := answerPhraseRe.FindStringSubmatchIndex(content); m != nil {
		answerText = strings.TrimSpace(content[m[2]:m[3]])
		prompt = strings.TrimSpace(content[:m[0]])
	}

	if answerText == "" {
		// No answer phrase: only recoverable when the text itself
		// carries a computable arithmetic expression.
		v, ok := computeEmbedded(prompt)
		if !ok {
			return degraded("record %d has no answer phrase and no computable expression", sq.ID)
		}
		answerText = strconv.Itoa(v)
	} else if v, ok := computeEmbedded(prompt); ok {
		// Cross-check the stated answer against the embedded expression
		// when both are available; a contradiction poisons the record.
		if stated, err := strconv.Atoi(strings.ReplaceAll(answerText, " ", "")); err == nil && stated != v {
			return degraded("record %d states answer %d but expression computes to %d", sq.ID, stated, v)
		}
	}

	if prompt == "" {
		return degraded("record %d has an answer phrase but no question text", sq.ID)
	}

	return parsed(&question.Question{
		ID:             question.NextID(),
		Shape:          question.ShapeTextInput,
		Subject:        sq.Subject,
		Grade:          sq.Grade,
		Prompt:         prompt,
		ExpectedAnswer: answerText,
		CorrectIndex:   -1,
	})
}

// computeEmbedded evaluates the first simple arithmetic expression in
// the text. Division only counts when it is exact; anything else is not
// computable here.
func computeEmbedded(text string) (int, bool) {
	m := arithmeticRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}

	a, err1 := strconv.Atoi(m[1])
	b, err2 := strconv.Atoi(m[3])
	if err1 != nil || err2 != nil {
		return 0, false
	}

	switch m[2] {
	case "+":
		return a + b, true
	case "-":
		return a - b, true
	case "*", "×", "·":
		return a * b, true
	case ":":
		if b == 0 || a%b != 0 {
			return 0, false
		}
		return a / b, true
	}
	return 0, false
}
