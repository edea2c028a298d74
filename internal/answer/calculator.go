// Package answer derives the correct answer for a template and a set of
// resolved parameters. Each answer-rule family has an explicit formula or
// lookup, and every result is re-derived independently before it is
// returned; a mismatch fails the calculation rather than reaching a
// learner.
package answer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lernzeit/quizgen/internal/catalog"
)

// verifyEpsilon bounds the allowed drift between the computed answer and
// its independent re-derivation for floating results.
const verifyEpsilon = 1e-3

// Result holds a computed answer.
type Result struct {
	// Answer is the canonical answer string, e.g. "12" or "Hunde" or
	// "4 Rest 2".
	Answer string

	// Value is the numeric value when Numeric is true.
	Value   float64
	Numeric bool

	// Steps describes the derivation, one step per line.
	Steps []string
}

// CalcError reports a failed answer calculation: unknown rule family,
// division by zero, missing lookup entry, or a self-verification
// mismatch. The candidate is discarded; generation moves on.
type CalcError struct {
	TemplateID string
	Rule       catalog.AnswerRule
	Reason     string
}

func (e *CalcError) Error() string {
	return fmt.Sprintf("answer calculation for template %q (rule %s): %s", e.TemplateID, e.Rule, e.Reason)
}

// Compute derives the answer for a template with resolved parameters.
func Compute(t catalog.Template, params map[string]any) (*Result, error) {
	res, err := compute(t, params)
	if err != nil {
		return nil, err
	}
	if err := verify(t, params, res); err != nil {
		return nil, err
	}
	return res, nil
}

// compute dispatches on the closed answer-rule set. Adding a family means
// adding a case here and in verify.
func compute(t catalog.Template, params map[string]any) (*Result, error) {
	fail := func(format string, args ...any) (*Result, error) {
		return nil, &CalcError{TemplateID: t.ID, Rule: t.Rule, Reason: fmt.Sprintf(format, args...)}
	}

	switch t.Rule {
	case catalog.RuleAddition:
		a, b, err := twoInts(params, "a", "b")
		if err != nil {
			return fail("%v", err)
		}
		return numeric(float64(a+b), fmt.Sprintf("%d + %d = %d", a, b, a+b)), nil

	case catalog.RuleSubtraction:
		a, b, err := twoInts(params, "a", "b")
		if err != nil {
			return fail("%v", err)
		}
		return numeric(float64(a-b), fmt.Sprintf("%d - %d = %d", a, b, a-b)), nil

	case catalog.RuleMultiplication, catalog.RuleRectangleArea:
		a, b, err := twoInts(params, "a", "b")
		if err != nil {
			return fail("%v", err)
		}
		return numeric(float64(a*b), fmt.Sprintf("%d · %d = %d", a, b, a*b)), nil

	case catalog.RuleDivisionRemainder:
		a, b, err := twoInts(params, "a", "b")
		if err != nil {
			return fail("%v", err)
		}
		if b == 0 {
			return fail("division by zero")
		}
		q, r := a/b, a%b
		res := &Result{
			Answer: fmt.Sprintf("%d Rest %d", q, r),
			Steps: []string{
				fmt.Sprintf("%d : %d = %d Rest %d", a, b, q, r),
				fmt.Sprintf("Probe: %d · %d + %d = %d", q, b, r, q*b+r),
			},
		}
		return res, nil

	case catalog.RuleDivisionExact:
		a, b, err := twoInts(params, "a", "b")
		if err != nil {
			return fail("%v", err)
		}
		if b == 0 {
			return fail("division by zero")
		}
		// The template's constraints must guarantee an even division;
		// a leftover remainder is a template bug, never rounded away.
		if a%b != 0 {
			return fail("%d does not divide %d evenly", b, a)
		}
		return numeric(float64(a)/float64(b), fmt.Sprintf("%d : %d = %d", a, b, a/b)), nil

	case catalog.RuleCountingSequence:
		a, err := intParam(params, "a")
		if err != nil {
			return fail("%v", err)
		}
		d, err := intParam(params, "d")
		if err != nil {
			return fail("%v", err)
		}
		return numeric(float64(a+d), fmt.Sprintf("%d + %d = %d", a, d, a+d)), nil

	case catalog.RuleRectanglePerimeter:
		a, b, err := twoInts(params, "a", "b")
		if err != nil {
			return fail("%v", err)
		}
		p := 2 * (a + b)
		return numeric(float64(p), fmt.Sprintf("2 · (%d + %d) = %d", a, b, p)), nil

	case catalog.RuleDoubling:
		a, err := intParam(params, "a")
		if err != nil {
			return fail("%v", err)
		}
		return numeric(float64(2*a), fmt.Sprintf("%d + %d = %d", a, a, 2*a)), nil

	case catalog.RuleSyllableCount:
		w, err := strParam(params, "w")
		if err != nil {
			return fail("%v", err)
		}
		n := syllablesOf(w)
		return numeric(float64(n), fmt.Sprintf("%s hat %d Silben", w, n)), nil

	case catalog.RulePlural:
		return lookupResult(t, params, "w", pluralOf)

	case catalog.RulePastTense:
		return lookupResult(t, params, "w", pastTenseOf)

	case catalog.RuleComparative:
		return lookupResult(t, params, "w", comparativeOf)

	case catalog.RuleSuperlative:
		return lookupResult(t, params, "w", superlativeOf)

	case catalog.RuleCompoundWord:
		pair, err := strParam(params, "paar")
		if err != nil {
			return fail("%v", err)
		}
		joined, err := joinCompound(pair)
		if err != nil {
			return fail("%v", err)
		}
		return &Result{Answer: joined, Steps: []string{fmt.Sprintf("%s → %s", pair, joined)}}, nil

	case catalog.RuleSynonym:
		w, err := strParam(params, "w")
		if err != nil {
			return fail("%v", err)
		}
		s, ok := synonymTable[w]
		if !ok {
			return fail("no synonym known for %q", w)
		}
		return &Result{Answer: s}, nil

	case catalog.RuleAntonym:
		w, err := strParam(params, "w")
		if err != nil {
			return fail("%v", err)
		}
		s, ok := antonymTable[w]
		if !ok {
			return fail("no antonym known for %q", w)
		}
		return &Result{Answer: s}, nil

	case catalog.RuleMarkedTokens:
		satz, err := strParam(params, "satz")
		if err != nil {
			return fail("%v", err)
		}
		words := MarkedWords(satz)
		if len(words) == 0 {
			return fail("sentence %q has no marked tokens", satz)
		}
		return &Result{Answer: strings.Join(words, ", ")}, nil

	case catalog.RuleArticleMatch:
		var pairs []string
		for _, name := range []string{"w1", "w2", "w3", "w4"} {
			w, err := strParam(params, name)
			if err != nil {
				return fail("%v", err)
			}
			art, ok := ArticleOf(w)
			if !ok {
				return fail("no article known for %q", w)
			}
			pairs = append(pairs, fmt.Sprintf("%s %s", art, w))
		}
		return &Result{Answer: strings.Join(pairs, ", ")}, nil

	default:
		return fail("unknown answer rule")
	}
}

// verify re-derives the expected value from the same parameters and
// compares, catching formula bugs before a bad question is emitted.
// Numeric comparisons allow a small epsilon; strings must match exactly.
func verify(t catalog.Template, params map[string]any, res *Result) error {
	mismatch := func(want string) error {
		return &CalcError{
			TemplateID: t.ID,
			Rule:       t.Rule,
			Reason:     fmt.Sprintf("self-verification mismatch: computed %q, re-derived %q", res.Answer, want),
		}
	}

	switch t.Rule {
	case catalog.RuleAddition, catalog.RuleSubtraction, catalog.RuleMultiplication,
		catalog.RuleRectangleArea, catalog.RuleRectanglePerimeter,
		catalog.RuleCountingSequence, catalog.RuleDoubling, catalog.RuleDivisionExact:
		want, err := recomputeNumeric(t.Rule, params)
		if err != nil {
			return &CalcError{TemplateID: t.ID, Rule: t.Rule, Reason: err.Error()}
		}
		if !res.Numeric || math.Abs(res.Value-want) > verifyEpsilon {
			return mismatch(FormatNumber(want))
		}
		return nil

	case catalog.RuleDivisionRemainder:
		a, b, err := twoInts(params, "a", "b")
		if err != nil {
			return &CalcError{TemplateID: t.ID, Rule: t.Rule, Reason: err.Error()}
		}
		var q, r int
		if _, err := fmt.Sscanf(res.Answer, "%d Rest %d", &q, &r); err != nil {
			return mismatch(fmt.Sprintf("%d Rest %d", a/b, a%b))
		}
		if q*b+r != a || r < 0 || r >= b {
			return mismatch(fmt.Sprintf("%d Rest %d", a/b, a%b))
		}
		return nil

	default:
		// Lookup families: re-run the same lookup. This still catches
		// table edits racing a release and accidental mutation of the
		// result between compute and verify.
		again, err := compute(t, params)
		if err != nil {
			return err
		}
		if again.Answer != res.Answer {
			return mismatch(again.Answer)
		}
		return nil
	}
}

// recomputeNumeric is the independent second derivation for the numeric
// families, written against inverse operations where possible.
func recomputeNumeric(rule catalog.AnswerRule, params map[string]any) (float64, error) {
	switch rule {
	case catalog.RuleAddition:
		a, b, err := twoInts(params, "a", "b")
		return float64(b) + float64(a), err
	case catalog.RuleSubtraction:
		a, b, err := twoInts(params, "a", "b")
		return float64(a) - float64(b), err
	case catalog.RuleMultiplication, catalog.RuleRectangleArea:
		a, b, err := twoInts(params, "a", "b")
		return float64(b) * float64(a), err
	case catalog.RuleRectanglePerimeter:
		a, b, err := twoInts(params, "a", "b")
		return float64(a) + float64(a) + float64(b) + float64(b), err
	case catalog.RuleCountingSequence:
		a, err := intParam(params, "a")
		if err != nil {
			return 0, err
		}
		d, err := intParam(params, "d")
		return float64(a) + float64(d), err
	case catalog.RuleDoubling:
		a, err := intParam(params, "a")
		return float64(a) + float64(a), err
	case catalog.RuleDivisionExact:
		a, b, err := twoInts(params, "a", "b")
		if err != nil {
			return 0, err
		}
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return float64(a) / float64(b), nil
	default:
		return 0, fmt.Errorf("not a numeric rule: %s", rule)
	}
}

func numeric(v float64, steps ...string) *Result {
	return &Result{Answer: FormatNumber(v), Value: v, Numeric: true, Steps: steps}
}

func lookupResult(t catalog.Template, params map[string]any, name string, f func(string) string) (*Result, error) {
	w, err := strParam(params, name)
	if err != nil {
		return nil, &CalcError{TemplateID: t.ID, Rule: t.Rule, Reason: err.Error()}
	}
	out := f(w)
	return &Result{Answer: out, Steps: []string{fmt.Sprintf("%s → %s", w, out)}}, nil
}

// joinCompound joins "Fuß + Ball" into "Fußball", lowercasing everything
// after the first component.
func joinCompound(pair string) (string, error) {
	parts := strings.Split(pair, "+")
	if len(parts) < 2 {
		return "", fmt.Errorf("compound pair %q has no + separator", pair)
	}
	var b strings.Builder
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return "", fmt.Errorf("compound pair %q has an empty component", pair)
		}
		if i == 0 {
			b.WriteString(p)
		} else {
			b.WriteString(strings.ToLower(p))
		}
	}
	return b.String(), nil
}

// intParam extracts an integer parameter, accepting numeric strings from
// enum parameters (e.g. a step size of "5").
func intParam(params map[string]any, name string) (int, error) {
	v, ok := params[name]
	if !ok {
		return 0, fmt.Errorf("missing parameter %q", name)
	}
	switch x := v.(type) {
	case int:
		return x, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, fmt.Errorf("parameter %q: %q is not a number", name, x)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("parameter %q has unexpected type %T", name, v)
	}
}

func twoInts(params map[string]any, an, bn string) (int, int, error) {
	a, err := intParam(params, an)
	if err != nil {
		return 0, 0, err
	}
	b, err := intParam(params, bn)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func strParam(params map[string]any, name string) (string, error) {
	v, ok := params[name]
	if !ok {
		return "", fmt.Errorf("missing parameter %q", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q has unexpected type %T", name, v)
	}
	return s, nil
}
