package catalog

import (
	"github.com/lernzeit/quizgen/internal/question"
)

// Subjects known to the built-in catalog.
const (
	SubjectMath   = "math"
	SubjectGerman = "german"
)

// Difficulty classifies a template within its grade.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParamKind describes how a parameter value is drawn.
type ParamKind string

const (
	KindNumber ParamKind = "number"
	KindEnum   ParamKind = "enum"
	KindList   ParamKind = "list"
)

// ParamSpec declares one template parameter. Specs are resolved in
// declaration order; a Constraint may reference any parameter resolved
// before it, never one after.
type ParamSpec struct {
	Name string
	Kind ParamKind

	// Min and Max bound number parameters, inclusive on both ends.
	Min, Max int

	// AllowedValues is the value set for enum and list parameters.
	AllowedValues []string

	// Constraint, when set, must hold for the drawn value. The generator
	// re-draws on failure up to its retry budget.
	Constraint func(v any, resolved map[string]any) bool

	// ConstraintDesc names the constraint for error messages.
	ConstraintDesc string
}

// AnswerRule selects the calculation family for a template. The set is
// closed; the answer calculator dispatches on it with an exhaustive switch.
type AnswerRule string

const (
	RuleAddition           AnswerRule = "addition"
	RuleSubtraction        AnswerRule = "subtraction"
	RuleMultiplication     AnswerRule = "multiplication"
	RuleDivisionRemainder  AnswerRule = "division-remainder"
	RuleDivisionExact      AnswerRule = "division-exact"
	RuleCountingSequence   AnswerRule = "counting-sequence"
	RuleRectanglePerimeter AnswerRule = "rectangle-perimeter"
	RuleRectangleArea      AnswerRule = "rectangle-area"
	RuleDoubling           AnswerRule = "doubling"
	RuleSyllableCount      AnswerRule = "syllable-count"
	RulePlural             AnswerRule = "plural"
	RulePastTense          AnswerRule = "past-tense"
	RuleComparative        AnswerRule = "comparative"
	RuleSuperlative        AnswerRule = "superlative"
	RuleCompoundWord       AnswerRule = "compound-word"
	RuleSynonym            AnswerRule = "synonym"
	RuleAntonym            AnswerRule = "antonym"
	RuleMarkedTokens       AnswerRule = "marked-tokens"
	RuleArticleMatch       AnswerRule = "article-match"
)

// Template is a parametric question blueprint.
type Template struct {
	// ID is stable and unique within the catalog.
	ID string

	Subject string
	Grade   int
	Shape   question.Shape

	// Text is the question text with {name} placeholders.
	Text string

	// Params are resolved in order; see ParamSpec.
	Params []ParamSpec

	// Rule selects the answer calculation family.
	Rule AnswerRule

	// Explanation is an optional text template. It may reference
	// parameters and the reserved {answer} placeholder.
	Explanation string

	Difficulty Difficulty

	// Topics feed the diversity engine's topic bookkeeping.
	Topics []string
}
