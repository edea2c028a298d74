package orchestrator

import (
	"fmt"
	"math/rand/v2"

	"github.com/lernzeit/quizgen/internal/question"
)

// simpleQuestion builds one hardcoded minimal math question. This is
// the last-resort tier: pure arithmetic, no I/O, cannot fail.
func simpleQuestion(rng *rand.Rand, grade int) *question.Question {
	limit := 10
	if grade >= 3 {
		limit = 20
	}

	a := rng.IntN(limit) + 1
	b := rng.IntN(limit) + 1

	return &question.Question{
		ID:             question.NextID(),
		Shape:          question.ShapeTextInput,
		Subject:        "math",
		Grade:          grade,
		Prompt:         fmt.Sprintf("Wie viel ist %d + %d?", a, b),
		Explanation:    fmt.Sprintf("%d + %d = %d", a, b, a+b),
		Topics:         []string{"addition"},
		ExpectedAnswer: fmt.Sprintf("%d", a+b),
		CorrectIndex:   -1,
	}
}
