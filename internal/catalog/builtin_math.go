package catalog

import "github.com/lernzeit/quizgen/internal/question"

// atMost returns a constraint requiring the drawn number to be <= the
// previously resolved parameter named other.
func atMost(other string) func(v any, resolved map[string]any) bool {
	return func(v any, resolved map[string]any) bool {
		n, ok := v.(int)
		if !ok {
			return false
		}
		o, ok := resolved[other].(int)
		return ok && n <= o
	}
}

// divisibleBy returns a constraint requiring the drawn number to be an
// exact multiple of the previously resolved parameter named divisor.
func divisibleBy(divisor string) func(v any, resolved map[string]any) bool {
	return func(v any, resolved map[string]any) bool {
		n, ok := v.(int)
		if !ok {
			return false
		}
		d, ok := resolved[divisor].(int)
		return ok && d != 0 && n%d == 0
	}
}

func mathTemplates() []Template {
	return []Template{
		{
			ID: "math-g1-add", Subject: SubjectMath, Grade: 1,
			Shape: question.ShapeTextInput,
			Text:  "Wie viel ist {a} + {b}?",
			Params: []ParamSpec{
				{Name: "a", Kind: KindNumber, Min: 1, Max: 10},
				{Name: "b", Kind: KindNumber, Min: 1, Max: 10},
			},
			Rule:        RuleAddition,
			Explanation: "{a} + {b} = {answer}. Zähle von {a} aus {b} Schritte weiter.",
			Difficulty:  DifficultyEasy,
			Topics:      []string{"addition"},
		},
		{
			ID: "math-g1-sub", Subject: SubjectMath, Grade: 1,
			Shape: question.ShapeTextInput,
			Text:  "Wie viel ist {a} - {b}?",
			Params: []ParamSpec{
				{Name: "a", Kind: KindNumber, Min: 2, Max: 10},
				{Name: "b", Kind: KindNumber, Min: 1, Max: 10, Constraint: atMost("a"), ConstraintDesc: "b <= a"},
			},
			Rule:        RuleSubtraction,
			Explanation: "{a} - {b} = {answer}. Zähle von {a} aus {b} Schritte zurück.",
			Difficulty:  DifficultyEasy,
			Topics:      []string{"subtraction"},
		},
		{
			ID: "math-g1-count", Subject: SubjectMath, Grade: 1,
			Shape: question.ShapeTextInput,
			Text:  "Zähle in {d}er-Schritten weiter: Welche Zahl kommt nach {a}?",
			Params: []ParamSpec{
				{Name: "d", Kind: KindEnum, AllowedValues: []string{"1", "2"}},
				{Name: "a", Kind: KindNumber, Min: 1, Max: 18},
			},
			Rule:        RuleCountingSequence,
			Explanation: "Nach {a} kommt beim Zählen in {d}er-Schritten die {answer}.",
			Difficulty:  DifficultyMedium,
			Topics:      []string{"counting"},
		},
		{
			ID: "math-g2-add", Subject: SubjectMath, Grade: 2,
			Shape: question.ShapeTextInput,
			Text:  "Wie viel ist {a} + {b}?",
			Params: []ParamSpec{
				{Name: "a", Kind: KindNumber, Min: 10, Max: 89},
				{Name: "b", Kind: KindNumber, Min: 10, Max: 89},
			},
			Rule:        RuleAddition,
			Explanation: "{a} + {b} = {answer}. Rechne erst die Zehner, dann die Einer.",
			Difficulty:  DifficultyMedium,
			Topics:      []string{"addition"},
		},
		{
			ID: "math-g2-sub", Subject: SubjectMath, Grade: 2,
			Shape: question.ShapeTextInput,
			Text:  "Wie viel ist {a} - {b}?",
			Params: []ParamSpec{
				{Name: "a", Kind: KindNumber, Min: 20, Max: 99},
				{Name: "b", Kind: KindNumber, Min: 1, Max: 99, Constraint: atMost("a"), ConstraintDesc: "b <= a"},
			},
			Rule:        RuleSubtraction,
			Explanation: "{a} - {b} = {answer}.",
			Difficulty:  DifficultyMedium,
			Topics:      []string{"subtraction"},
		},
		{
			ID: "math-g2-mul", Subject: SubjectMath, Grade: 2,
			Shape: question.ShapeMultipleChoice,
			Text:  "Wie viel ist {a} mal {b}?",
			Params: []ParamSpec{
				{Name: "a", Kind: KindNumber, Min: 2, Max: 10},
				{Name: "b", Kind: KindNumber, Min: 2, Max: 10},
			},
			Rule:        RuleMultiplication,
			Explanation: "{a} · {b} = {answer}. Das ist {b} mal die {a} zusammengezählt.",
			Difficulty:  DifficultyHard,
			Topics:      []string{"multiplication"},
		},
		{
			ID: "math-g2-double", Subject: SubjectMath, Grade: 2,
			Shape: question.ShapeTextInput,
			Text:  "Was ist das Doppelte von {a}?",
			Params: []ParamSpec{
				{Name: "a", Kind: KindNumber, Min: 5, Max: 50},
			},
			Rule:        RuleDoubling,
			Explanation: "Das Doppelte von {a} ist {a} + {a} = {answer}.",
			Difficulty:  DifficultyEasy,
			Topics:      []string{"doubling", "addition"},
		},
		{
			ID: "math-g2-count", Subject: SubjectMath, Grade: 2,
			Shape: question.ShapeTextInput,
			Text:  "Zähle in {d}er-Schritten weiter: Welche Zahl kommt nach {a}?",
			Params: []ParamSpec{
				{Name: "d", Kind: KindEnum, AllowedValues: []string{"5", "10"}},
				{Name: "a", Kind: KindNumber, Min: 5, Max: 90},
			},
			Rule:        RuleCountingSequence,
			Explanation: "Nach {a} kommt beim Zählen in {d}er-Schritten die {answer}.",
			Difficulty:  DifficultyEasy,
			Topics:      []string{"counting"},
		},
		{
			ID: "math-g3-mul", Subject: SubjectMath, Grade: 3,
			Shape: question.ShapeTextInput,
			Text:  "Wie viel ist {a} · {b}?",
			Params: []ParamSpec{
				{Name: "a", Kind: KindNumber, Min: 3, Max: 12},
				{Name: "b", Kind: KindNumber, Min: 3, Max: 12},
			},
			Rule:        RuleMultiplication,
			Explanation: "{a} · {b} = {answer}.",
			Difficulty:  DifficultyMedium,
			Topics:      []string{"multiplication"},
		},
		{
			ID: "math-g3-div", Subject: SubjectMath, Grade: 3,
			Shape: question.ShapeTextInput,
			Text:  "Wie viel ist {a} : {b}?",
			Params: []ParamSpec{
				{Name: "b", Kind: KindNumber, Min: 2, Max: 10},
				{Name: "a", Kind: KindNumber, Min: 4, Max: 100, Constraint: divisibleBy("b"), ConstraintDesc: "a divisible by b"},
			},
			Rule:        RuleDivisionExact,
			Explanation: "{a} : {b} = {answer}, denn {answer} · {b} = {a}.",
			Difficulty:  DifficultyMedium,
			Topics:      []string{"division"},
		},
		{
			ID: "math-g3-divrest", Subject: SubjectMath, Grade: 3,
			Shape: question.ShapeTextInput,
			Text:  "Wie viel ist {a} : {b}? Gib das Ergebnis mit Rest an.",
			Params: []ParamSpec{
				{Name: "a", Kind: KindNumber, Min: 10, Max: 99},
				{Name: "b", Kind: KindNumber, Min: 2, Max: 9},
			},
			Rule:        RuleDivisionRemainder,
			Explanation: "{a} : {b} = {answer}.",
			Difficulty:  DifficultyHard,
			Topics:      []string{"division"},
		},
		{
			ID: "math-g3-addbig", Subject: SubjectMath, Grade: 3,
			Shape: question.ShapeMultipleChoice,
			Text:  "Wie viel ist {a} + {b}?",
			Params: []ParamSpec{
				{Name: "a", Kind: KindNumber, Min: 100, Max: 899},
				{Name: "b", Kind: KindNumber, Min: 100, Max: 899},
			},
			Rule:        RuleAddition,
			Explanation: "{a} + {b} = {answer}. Rechne stellenweise: Hunderter, Zehner, Einer.",
			Difficulty:  DifficultyMedium,
			Topics:      []string{"addition"},
		},
		{
			ID: "math-g4-perimeter", Subject: SubjectMath, Grade: 4,
			Shape: question.ShapeTextInput,
			Text:  "Ein Rechteck ist {a} cm lang und {b} cm breit. Wie groß ist sein Umfang in cm?",
			Params: []ParamSpec{
				{Name: "a", Kind: KindNumber, Min: 2, Max: 20},
				{Name: "b", Kind: KindNumber, Min: 1, Max: 20, Constraint: atMost("a"), ConstraintDesc: "b <= a"},
			},
			Rule:        RuleRectanglePerimeter,
			Explanation: "Umfang = 2 · ({a} + {b}) = {answer} cm.",
			Difficulty:  DifficultyMedium,
			Topics:      []string{"geometry", "perimeter"},
		},
		{
			ID: "math-g4-area", Subject: SubjectMath, Grade: 4,
			Shape: question.ShapeMultipleChoice,
			Text:  "Ein Rechteck ist {a} cm lang und {b} cm breit. Wie groß ist seine Fläche in cm²?",
			Params: []ParamSpec{
				{Name: "a", Kind: KindNumber, Min: 2, Max: 15},
				{Name: "b", Kind: KindNumber, Min: 2, Max: 15},
			},
			Rule:        RuleRectangleArea,
			Explanation: "Fläche = {a} · {b} = {answer} cm².",
			Difficulty:  DifficultyHard,
			Topics:      []string{"geometry", "area"},
		},
		{
			ID: "math-g4-divrest", Subject: SubjectMath, Grade: 4,
			Shape: question.ShapeTextInput,
			Text:  "Wie viel ist {a} : {b}? Gib das Ergebnis mit Rest an.",
			Params: []ParamSpec{
				{Name: "a", Kind: KindNumber, Min: 100, Max: 999},
				{Name: "b", Kind: KindNumber, Min: 3, Max: 12},
			},
			Rule:        RuleDivisionRemainder,
			Explanation: "{a} : {b} = {answer}.",
			Difficulty:  DifficultyHard,
			Topics:      []string{"division"},
		},
		{
			ID: "math-g5-div", Subject: SubjectMath, Grade: 5,
			Shape: question.ShapeTextInput,
			Text:  "Wie viel ist {a} : {b}?",
			Params: []ParamSpec{
				{Name: "b", Kind: KindNumber, Min: 3, Max: 25},
				{Name: "a", Kind: KindNumber, Min: 50, Max: 1000, Constraint: divisibleBy("b"), ConstraintDesc: "a divisible by b"},
			},
			Rule:        RuleDivisionExact,
			Explanation: "{a} : {b} = {answer}, denn {answer} · {b} = {a}.",
			Difficulty:  DifficultyMedium,
			Topics:      []string{"division"},
		},
	}
}
