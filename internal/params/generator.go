// Package params instantiates concrete parameter values for a question
// template, respecting ranges, value sets, and inter-parameter constraints.
package params

import (
	"fmt"
	"math/rand/v2"

	"github.com/lernzeit/quizgen/internal/catalog"
)

// maxConstraintRetries bounds the re-draw loop for constrained parameters.
const maxConstraintRetries = 20

// Error reports that a template's parameters could not be generated.
// The caller should skip this draw and try another template.
type Error struct {
	TemplateID string
	Param      string
	Reason     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parameter generation for template %q, parameter %q: %s", e.TemplateID, e.Param, e.Reason)
}

// Generator draws parameter values. It is not safe for concurrent use;
// create one per generation request with its own rand source.
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator using the given random source.
func New(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate resolves all parameters of a template in declaration order.
// Number draws are biased by template difficulty: easy skews toward the
// lower 70% of the range, hard toward the upper 70%, medium is uniform.
// Constrained parameters are re-drawn up to the retry budget.
func (g *Generator) Generate(t catalog.Template) (map[string]any, error) {
	resolved := make(map[string]any, len(t.Params))

	for _, spec := range t.Params {
		v, err := g.draw(t, spec, resolved)
		if err != nil {
			return nil, err
		}
		resolved[spec.Name] = v
	}

	return resolved, nil
}

func (g *Generator) draw(t catalog.Template, spec catalog.ParamSpec, resolved map[string]any) (any, error) {
	attempts := 1
	if spec.Constraint != nil {
		attempts = maxConstraintRetries
	}

	for range attempts {
		var v any
		switch spec.Kind {
		case catalog.KindNumber:
			v = g.drawNumber(spec.Min, spec.Max, t.Difficulty)
		case catalog.KindEnum, catalog.KindList:
			v = spec.AllowedValues[g.rng.IntN(len(spec.AllowedValues))]
		default:
			return nil, &Error{TemplateID: t.ID, Param: spec.Name, Reason: fmt.Sprintf("unknown kind %q", spec.Kind)}
		}

		if spec.Constraint == nil || spec.Constraint(v, resolved) {
			return v, nil
		}
	}

	reason := fmt.Sprintf("constraint not satisfied within %d attempts", maxConstraintRetries)
	if spec.ConstraintDesc != "" {
		reason = fmt.Sprintf("constraint %q not satisfied within %d attempts", spec.ConstraintDesc, maxConstraintRetries)
	}
	return nil, &Error{TemplateID: t.ID, Param: spec.Name, Reason: reason}
}

// drawNumber draws a uniform integer in [min,max], restricted to a
// difficulty-dependent sub-range. The bias is tunable policy, not a
// contract.
func (g *Generator) drawNumber(min, max int, d catalog.Difficulty) int {
	span := max - min + 1
	lo, hi := min, max

	// Keep at least 70% of the range, anchored low for easy and high
	// for hard templates.
	if span >= 4 {
		biased := (span*7 + 9) / 10
		switch d {
		case catalog.DifficultyEasy:
			hi = min + biased - 1
		case catalog.DifficultyHard:
			lo = max - biased + 1
		}
	}

	return lo + g.rng.IntN(hi-lo+1)
}
