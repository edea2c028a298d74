// Package options turns a template, its resolved parameters, and the
// computed answer into a complete question: rendered prompt and
// explanation plus the shape-specific payload (distractors, selectable
// tokens, or matching groups).
package options

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/lernzeit/quizgen/internal/answer"
	"github.com/lernzeit/quizgen/internal/catalog"
	"github.com/lernzeit/quizgen/internal/question"
)

const optionCount = 4

// Builder assembles questions. Not safe for concurrent use; create one
// per generation request with its own rand source.
type Builder struct {
	rng *rand.Rand
}

// New creates a Builder using the given random source.
func New(rng *rand.Rand) *Builder {
	return &Builder{rng: rng}
}

// Build produces the final question for a template, resolved parameters,
// and a computed answer result.
func (b *Builder) Build(t catalog.Template, params map[string]any, res *answer.Result) (*question.Question, error) {
	display := displayParams(params)

	q := &question.Question{
		ID:           question.NextID(),
		Shape:        t.Shape,
		Subject:      t.Subject,
		Grade:        t.Grade,
		Prompt:       catalog.Render(t.Text, display, res.Answer),
		Explanation:  catalog.Render(t.Explanation, display, res.Answer),
		Topics:       t.Topics,
		CorrectIndex: -1,
	}

	switch t.Shape {
	case question.ShapeTextInput:
		q.ExpectedAnswer = res.Answer

	case question.ShapeMultipleChoice:
		opts, correct := b.buildChoices(t, params, res)
		q.Options = opts
		q.CorrectIndex = correct

	case question.ShapeWordSelection:
		satz, ok := params["satz"].(string)
		if !ok {
			return nil, fmt.Errorf("word-selection template %q has no satz parameter", t.ID)
		}
		q.Sentence = answer.StripMarkers(satz)
		q.Tokens = buildTokens(satz)
		q.ExpectedAnswer = res.Answer

	case question.ShapeMatching:
		items, groups, err := buildMatching(params)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", t.ID, err)
		}
		q.Items = items
		q.Groups = groups
		q.ExpectedAnswer = res.Answer

	default:
		return nil, fmt.Errorf("template %q has unknown shape %q", t.ID, t.Shape)
	}

	return q, nil
}

// buildChoices generates distractors, shuffles, and returns the options
// with the correct option's post-shuffle index. The index is always
// recomputed after shuffling.
func (b *Builder) buildChoices(t catalog.Template, params map[string]any, res *answer.Result) ([]string, int) {
	var distractors []string
	if res.Numeric {
		distractors = b.numericDistractors(t, params, res.Value)
	} else {
		distractors = b.stringDistractors(t, params, res.Answer)
	}

	opts := append([]string{res.Answer}, distractors...)
	b.rng.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })

	correct := 0
	for i, o := range opts {
		if o == res.Answer {
			correct = i
			break
		}
	}
	return opts, correct
}

// numericDistractors builds three plausible wrong numbers: small
// perturbations plus an off-by-operation value, with generic offsets as
// a fallback. Negative values are discarded; the question domains here
// are all non-negative.
func (b *Builder) numericDistractors(t catalog.Template, params map[string]any, correct float64) []string {
	seen := map[string]bool{answer.FormatNumber(correct): true}
	var out []string

	add := func(v float64) {
		if len(out) >= optionCount-1 || v < 0 {
			return
		}
		s := answer.FormatNumber(v)
		if seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}

	candidates := []float64{correct + 1, correct - 1, correct + 2, correct - 2}
	if alt, ok := alternateValue(t.Rule, params); ok {
		candidates = append([]float64{alt}, candidates...)
	}
	candidates = append(candidates, correct+float64(3+b.rng.IntN(7)))
	for _, c := range candidates {
		add(c)
	}

	// Generic offsets until the option set is full.
	for off := 3; len(out) < optionCount-1; off += 4 {
		add(correct + float64(off))
	}

	return out
}

// alternateValue computes a plausible "wrong operation" result for the
// numeric families, e.g. subtracting where the question adds.
func alternateValue(rule catalog.AnswerRule, params map[string]any) (float64, bool) {
	a, aok := params["a"].(int)
	bb, bok := params["b"].(int)
	if !aok || !bok {
		return 0, false
	}
	switch rule {
	case catalog.RuleAddition:
		return float64(a - bb), true
	case catalog.RuleSubtraction:
		return float64(a + bb), true
	case catalog.RuleMultiplication:
		return float64(a + bb), true
	case catalog.RuleRectangleArea:
		return float64(2 * (a + bb)), true
	case catalog.RuleRectanglePerimeter:
		return float64(a * bb), true
	case catalog.RuleDivisionExact:
		if bb != 0 && a%bb == 0 {
			return float64(a/bb + bb), true
		}
	}
	return 0, false
}

// stringDistractors builds wrong answers for the word families. Each
// family has a small set of plausible malformations; other table values
// pad the set when needed.
func (b *Builder) stringDistractors(t catalog.Template, params map[string]any, correct string) []string {
	w, _ := params["w"].(string)

	var candidates []string
	switch t.Rule {
	case catalog.RulePlural:
		candidates = []string{w + "s", w + "en", w + "er", w + "e"}
	case catalog.RuleComparative:
		candidates = []string{"mehr " + w, w + "ster", w}
	case catalog.RuleSynonym:
		if ant, ok := antonymFor(w); ok {
			candidates = append(candidates, ant)
		}
		candidates = append(candidates, otherSynonyms(w)...)
	case catalog.RuleAntonym:
		candidates = append(candidates, w+"er", "un"+w)
	default:
		candidates = []string{w}
	}
	candidates = append(candidates, "keins davon", w, strings.ToLower(correct))

	seen := map[string]bool{strings.ToLower(correct): true}
	var out []string
	for _, c := range candidates {
		if len(out) >= optionCount-1 {
			break
		}
		c = strings.TrimSpace(c)
		if c == "" || seen[strings.ToLower(c)] {
			continue
		}
		seen[strings.ToLower(c)] = true
		out = append(out, c)
	}

	// Last resort: numbered filler keeps the option count contract.
	for i := 1; len(out) < optionCount-1; i++ {
		filler := fmt.Sprintf("%s (%d)", correct, i)
		if !seen[strings.ToLower(filler)] {
			seen[strings.ToLower(filler)] = true
			out = append(out, filler)
		}
	}

	return out
}

// buildTokens splits a marked sentence into selectable tokens, marking
// the tokens that were wrapped in *markers*.
func buildTokens(marked string) []question.Token {
	correctWords := make(map[string]bool)
	for _, w := range answer.MarkedWords(marked) {
		correctWords[w] = true
	}

	var tokens []question.Token
	for i, raw := range strings.Fields(answer.StripMarkers(marked)) {
		word := strings.Trim(raw, ".,!?;:")
		tokens = append(tokens, question.Token{
			Text:     raw,
			Correct:  correctWords[word],
			Position: i,
		})
	}
	return tokens
}

// buildMatching builds the items and article groups for an
// article-match question. Only groups with at least one accepted item
// are emitted; an empty group is a structural defect.
func buildMatching(params map[string]any) ([]question.MatchItem, []question.MatchGroup, error) {
	var items []question.MatchItem
	groupItems := make(map[string][]string)

	for i, name := range []string{"w1", "w2", "w3", "w4"} {
		w, ok := params[name].(string)
		if !ok {
			return nil, nil, fmt.Errorf("missing matching parameter %q", name)
		}
		art, ok := answer.ArticleOf(w)
		if !ok {
			return nil, nil, fmt.Errorf("no article known for %q", w)
		}
		id := fmt.Sprintf("item-%d", i+1)
		items = append(items, question.MatchItem{ID: id, Content: w, GroupKey: art})
		groupItems[art] = append(groupItems[art], id)
	}

	var groups []question.MatchGroup
	for _, art := range []string{"der", "die", "das"} {
		ids := groupItems[art]
		if len(ids) == 0 {
			continue
		}
		groups = append(groups, question.MatchGroup{
			ID:              "group-" + art,
			Label:           art,
			AcceptedItemIDs: ids,
		})
	}
	return items, groups, nil
}

// displayParams strips word-selection markers from string values so they
// never leak into rendered text.
func displayParams(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		if s, ok := v.(string); ok {
			out[k] = answer.StripMarkers(s)
		} else {
			out[k] = v
		}
	}
	return out
}

func antonymFor(w string) (string, bool) {
	// Mirrors the answer package's antonym data for distractor use.
	switch w {
	case "schnell":
		return "langsam", true
	case "froh":
		return "traurig", true
	default:
		return "", false
	}
}

func otherSynonyms(w string) []string {
	pool := []string{"flink", "reden", "blicken", "glücklich", "hübsch", "rennen"}
	var out []string
	for _, s := range pool {
		if s != w {
			out = append(out, s)
		}
	}
	return out
}
