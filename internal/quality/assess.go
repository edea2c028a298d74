// Package quality scores generated questions before they may reach a
// learner. Scoring combines five dimensions (content, answer,
// curriculum, language, structure) and subtracts penalties for flagged
// issues; certain defects are hard failures regardless of score.
package quality

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/lernzeit/quizgen/internal/question"
)

// passThreshold is the minimum overall score; a question must also be
// free of critical issues to pass.
const passThreshold = 0.7

// Severity grades an issue.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Issue describes one finding.
type Issue struct {
	Severity    Severity `json:"severity"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
}

// Report is the assessment outcome for a single question. It is derived
// purely from the question, consumed immediately, and never persisted.
type Report struct {
	OverallScore    float64 `json:"overallScore"`
	Issues          []Issue `json:"issues"`
	PassesThreshold bool    `json:"passesThreshold"`
}

var (
	unresolvedRe = regexp.MustCompile(`\{[a-zA-Z][a-zA-Z0-9_]*\}`)
	numberRe     = regexp.MustCompile(`\d+`)
)

// Assess scores a question. All dimensions weigh equally; issue
// penalties (critical −0.3, high −0.15, medium −0.08, low −0.03) are
// subtracted and the result clamped to [0,1].
func Assess(q *question.Question) *Report {
	a := &assessment{q: q}

	a.checkStructure()
	a.checkContent()
	a.checkCurriculum()
	a.checkLanguage()

	score := (a.content + a.answer + a.curriculum + a.language + a.structure) / 5
	for _, is := range a.issues {
		score -= penalty(is.Severity)
	}
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	return &Report{
		OverallScore:    score,
		Issues:          a.issues,
		PassesThreshold: score >= passThreshold && !a.critical,
	}
}

type assessment struct {
	q *question.Question

	content, answer, curriculum, language, structure float64
	issues                                           []Issue
	critical                                         bool
}

func (a *assessment) flag(sev Severity, category, format string, args ...any) {
	a.issues = append(a.issues, Issue{
		Severity:    sev,
		Category:    category,
		Description: fmt.Sprintf(format, args...),
	})
	if sev == SeverityCritical {
		a.critical = true
	}
}

// checkStructure covers the hard-fail defects: unresolved placeholders,
// a text-input question without an answer, and a broken multiple-choice
// payload. It also validates the word-selection and matching payloads.
func (a *assessment) checkStructure() {
	a.structure = 1
	a.answer = 1
	q := a.q

	if m := unresolvedRe.FindString(q.Prompt); m != "" {
		a.flag(SeverityCritical, "template", "unresolved placeholder %s in question text", m)
		a.structure = 0
	}

	switch q.Shape {
	case question.ShapeTextInput:
		if strings.TrimSpace(q.ExpectedAnswer) == "" {
			a.flag(SeverityCritical, "answer", "text-input question has no answer value")
			a.answer = 0
		}

	case question.ShapeMultipleChoice:
		if len(q.Options) < 2 {
			a.flag(SeverityCritical, "options", "multiple-choice question has %d options, need at least 2", len(q.Options))
			a.structure = 0
			return
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			a.flag(SeverityCritical, "options", "correct index %d out of range for %d options", q.CorrectIndex, len(q.Options))
			a.structure = 0
			return
		}
		seen := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			key := strings.ToLower(strings.TrimSpace(o))
			if key == "" {
				a.flag(SeverityHigh, "options", "empty option")
				a.structure -= 0.3
				continue
			}
			if seen[key] {
				a.flag(SeverityHigh, "options", "duplicate option %q", o)
				a.structure -= 0.3
			}
			seen[key] = true
		}

	case question.ShapeWordSelection:
		correct := 0
		for _, tok := range q.Tokens {
			if tok.Correct {
				correct++
			}
		}
		if len(q.Tokens) == 0 {
			a.flag(SeverityCritical, "tokens", "word-selection question has no tokens")
			a.structure = 0
		} else if correct == 0 {
			a.flag(SeverityHigh, "tokens", "word-selection question has no correct token")
			a.structure -= 0.5
		}

	case question.ShapeMatching:
		ids := make(map[string]bool, len(q.Items))
		for _, it := range q.Items {
			ids[it.ID] = true
		}
		if len(q.Groups) == 0 || len(q.Items) == 0 {
			a.flag(SeverityCritical, "matching", "matching question without items or groups")
			a.structure = 0
			return
		}
		for _, g := range q.Groups {
			if len(g.AcceptedItemIDs) == 0 {
				a.flag(SeverityHigh, "matching", "group %q accepts no items", g.ID)
				a.structure -= 0.4
			}
			for _, id := range g.AcceptedItemIDs {
				if !ids[id] {
					a.flag(SeverityHigh, "matching", "group %q references unknown item %q", g.ID, id)
					a.structure -= 0.4
				}
			}
		}

	default:
		a.flag(SeverityCritical, "shape", "unknown question shape %q", q.Shape)
		a.structure = 0
	}

	if a.structure < 0 {
		a.structure = 0
	}
}

// checkContent covers text length and explanation presence.
func (a *assessment) checkContent() {
	a.content = 1
	n := len([]rune(a.q.Prompt))

	switch {
	case n < 10:
		a.flag(SeverityMedium, "content", "question text is only %d characters", n)
		a.content -= 0.4
	case n > 300:
		a.flag(SeverityMedium, "content", "question text is %d characters, over the readable band", n)
		a.content -= 0.3
	}

	if expl := strings.TrimSpace(a.q.Explanation); expl == "" {
		a.flag(SeverityLow, "content", "missing explanation")
		a.content -= 0.2
	} else if len([]rune(expl)) < 10 {
		a.flag(SeverityLow, "content", "explanation is very short")
		a.content -= 0.1
	}

	if a.content < 0 {
		a.content = 0
	}
}

// checkCurriculum compares word count and numeric magnitude against a
// per-grade envelope.
func (a *assessment) checkCurriculum() {
	a.curriculum = 1
	q := a.q

	if words := len(strings.Fields(q.Prompt)); words > maxWordsForGrade(q.Grade) {
		a.flag(SeverityMedium, "curriculum", "%d words exceeds the grade %d reading envelope", words, q.Grade)
		a.curriculum -= 0.3
	}

	maxMag := maxNumberForGrade(q.Grade)
	for _, m := range numberRe.FindAllString(q.Prompt, -1) {
		if v, err := strconv.Atoi(m); err == nil && v > maxMag {
			a.flag(SeverityMedium, "curriculum", "number %d exceeds the grade %d magnitude envelope (%d)", v, q.Grade, maxMag)
			a.curriculum -= 0.3
			break
		}
	}

	if a.curriculum < 0 {
		a.curriculum = 0
	}
}

// checkLanguage covers style nits: capitalization and stray whitespace.
func (a *assessment) checkLanguage() {
	a.language = 1
	prompt := strings.TrimSpace(a.q.Prompt)
	if prompt == "" {
		return
	}

	first := []rune(prompt)[0]
	if unicode.IsLetter(first) && unicode.IsLower(first) {
		a.flag(SeverityLow, "language", "question text starts with a lowercase letter")
		a.language -= 0.2
	}
	if strings.Contains(a.q.Prompt, "  ") {
		a.flag(SeverityLow, "language", "question text contains doubled spaces")
		a.language -= 0.1
	}
	if a.language < 0 {
		a.language = 0
	}
}

func penalty(s Severity) float64 {
	switch s {
	case SeverityCritical:
		return 0.3
	case SeverityHigh:
		return 0.15
	case SeverityMedium:
		return 0.08
	default:
		return 0.03
	}
}

// maxWordsForGrade is the reading-length envelope per grade.
func maxWordsForGrade(grade int) int {
	if grade < 1 {
		grade = 1
	}
	if grade > 6 {
		grade = 6
	}
	return 14 + 8*grade
}

// maxNumberForGrade is the largest number a grade is expected to handle.
func maxNumberForGrade(grade int) int {
	switch {
	case grade <= 1:
		return 20
	case grade == 2:
		return 100
	case grade == 3:
		return 1000
	case grade == 4:
		return 10000
	default:
		return 1000000
	}
}
