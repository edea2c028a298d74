package catalog

import (
	"fmt"
	"regexp"

	"github.com/lernzeit/quizgen/internal/question"
)

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z][a-zA-Z0-9_]*)\}`)

// answerPlaceholder may appear in template text without a matching
// parameter; it is substituted with the computed answer.
const answerPlaceholder = "answer"

// Validate checks a template against the catalog rules. It returns an
// empty slice if the template is usable. A template with any error must
// never be selected for generation.
func Validate(t Template) []string {
	var errs []string

	if t.ID == "" {
		errs = append(errs, "id is empty")
	}
	if t.Subject == "" {
		errs = append(errs, "subject is empty")
	}
	if t.Grade < 1 || t.Grade > 12 {
		errs = append(errs, fmt.Sprintf("grade %d outside [1,12]", t.Grade))
	}
	switch t.Shape {
	case question.ShapeTextInput, question.ShapeMultipleChoice,
		question.ShapeWordSelection, question.ShapeMatching:
	case "":
		errs = append(errs, "shape is empty")
	default:
		errs = append(errs, fmt.Sprintf("unknown shape %q", t.Shape))
	}
	switch t.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		errs = append(errs, fmt.Sprintf("unknown difficulty %q", t.Difficulty))
	}
	if t.Text == "" {
		errs = append(errs, "template text is empty")
	}
	if t.Rule == "" {
		errs = append(errs, "answer rule is empty")
	}

	names := make(map[string]bool, len(t.Params))
	for i, p := range t.Params {
		if p.Name == "" {
			errs = append(errs, fmt.Sprintf("parameter %d has no name", i))
			continue
		}
		if names[p.Name] {
			errs = append(errs, fmt.Sprintf("duplicate parameter %q", p.Name))
		}
		names[p.Name] = true

		switch p.Kind {
		case KindNumber:
			if p.Min >= p.Max {
				errs = append(errs, fmt.Sprintf("parameter %q: range [%d,%d] requires min < max", p.Name, p.Min, p.Max))
			}
		case KindEnum, KindList:
			if len(p.AllowedValues) == 0 {
				errs = append(errs, fmt.Sprintf("parameter %q: empty value set", p.Name))
			}
		default:
			errs = append(errs, fmt.Sprintf("parameter %q: unknown kind %q", p.Name, p.Kind))
		}
	}

	// Every placeholder in the question text must be backed by a
	// parameter (the answer placeholder is reserved).
	for _, name := range placeholders(t.Text) {
		if name == answerPlaceholder {
			continue
		}
		if !names[name] {
			errs = append(errs, fmt.Sprintf("placeholder {%s} has no matching parameter", name))
		}
	}
	for _, name := range placeholders(t.Explanation) {
		if name == answerPlaceholder {
			continue
		}
		if !names[name] {
			errs = append(errs, fmt.Sprintf("explanation placeholder {%s} has no matching parameter", name))
		}
	}

	return errs
}

// placeholders returns the placeholder names appearing in s, in order.
func placeholders(s string) []string {
	var out []string
	for _, m := range placeholderRe.FindAllStringSubmatch(s, -1) {
		out = append(out, m[1])
	}
	return out
}
