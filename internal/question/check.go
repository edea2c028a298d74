package question

import (
	"strconv"
	"strings"
)

// CheckAnswer compares a learner's input against the correct answer.
//
// Normalization rules:
// - Whitespace is trimmed
// - Comparison is case-insensitive
// - Numeric answers compare by value ("007" matches "7", "3,50" matches "3.5")
// - Multiple choice matches by option text or 1-based index
func CheckAnswer(learnerAnswer string, q *Question) bool {
	learnerAnswer = strings.TrimSpace(learnerAnswer)
	if learnerAnswer == "" {
		return false
	}

	if q.Shape == ShapeMultipleChoice {
		return checkMultipleChoice(learnerAnswer, q)
	}

	correct := strings.TrimSpace(q.ExpectedAnswer)

	if lv, lok := parseNumeric(learnerAnswer); lok {
		if cv, cok := parseNumeric(correct); cok {
			return lv == cv
		}
	}

	return strings.EqualFold(learnerAnswer, correct)
}

func checkMultipleChoice(learnerAnswer string, q *Question) bool {
	correct := q.Answer()

	// Match by 1-based index first.
	if idx, err := strconv.Atoi(learnerAnswer); err == nil && idx >= 1 && idx <= len(q.Options) {
		return strings.EqualFold(strings.TrimSpace(q.Options[idx-1]), strings.TrimSpace(correct))
	}

	return strings.EqualFold(learnerAnswer, strings.TrimSpace(correct))
}

// parseNumeric parses an answer as a number, accepting the German decimal
// comma alongside the dot.
func parseNumeric(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
