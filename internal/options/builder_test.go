package options

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/lernzeit/quizgen/internal/answer"
	"github.com/lernzeit/quizgen/internal/catalog"
	"github.com/lernzeit/quizgen/internal/question"
)

func testRng() *rand.Rand {
	return rand.New(rand.NewPCG(4, 8))
}

func mcTemplate() catalog.Template {
	return catalog.Template{
		ID:      "test-mul-mc",
		Subject: catalog.SubjectMath,
		Grade:   2,
		Shape:   question.ShapeMultipleChoice,
		Text:    "Wie viel ist {a} · {b}?",
		Params: []catalog.ParamSpec{
			{Name: "a", Kind: catalog.KindNumber, Min: 2, Max: 10},
			{Name: "b", Kind: catalog.KindNumber, Min: 2, Max: 10},
		},
		Rule:        catalog.RuleMultiplication,
		Explanation: "{a} · {b} = {answer}",
		Difficulty:  catalog.DifficultyMedium,
		Topics:      []string{"multiplication"},
	}
}

func TestBuild_TextInput(t *testing.T) {
	b := New(testRng())
	tmpl := mcTemplate()
	tmpl.Shape = question.ShapeTextInput

	params := map[string]any{"a": 6, "b": 7}
	res, err := answer.Compute(tmpl, params)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	q, err := b.Build(tmpl, params, res)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if q.Prompt != "Wie viel ist 6 · 7?" {
		t.Fatalf("prompt = %q", q.Prompt)
	}
	if q.ExpectedAnswer != "42" {
		t.Fatalf("expected answer = %q", q.ExpectedAnswer)
	}
	if q.Explanation != "6 · 7 = 42" {
		t.Fatalf("explanation = %q", q.Explanation)
	}
}

func TestBuild_OptionIntegrity(t *testing.T) {
	b := New(testRng())
	tmpl := mcTemplate()

	for a := 2; a <= 10; a++ {
		for bb := 2; bb <= 10; bb++ {
			params := map[string]any{"a": a, "b": bb}
			res, err := answer.Compute(tmpl, params)
			if err != nil {
				t.Fatalf("compute: %v", err)
			}
			q, err := b.Build(tmpl, params, res)
			if err != nil {
				t.Fatalf("build: %v", err)
			}

			if len(q.Options) < 2 {
				t.Fatalf("%d·%d: only %d options", a, bb, len(q.Options))
			}
			if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
				t.Fatalf("%d·%d: correct index %d out of range", a, bb, q.CorrectIndex)
			}
			if q.Options[q.CorrectIndex] != res.Answer {
				t.Fatalf("%d·%d: options[%d] = %q, want %q", a, bb, q.CorrectIndex, q.Options[q.CorrectIndex], res.Answer)
			}

			seen := make(map[string]bool, len(q.Options))
			for _, o := range q.Options {
				if seen[o] {
					t.Fatalf("%d·%d: duplicate option %q in %v", a, bb, o, q.Options)
				}
				seen[o] = true
			}
		}
	}
}

func TestBuild_WordSelection(t *testing.T) {
	b := New(testRng())
	tmpl := catalog.Template{
		ID: "test-nouns", Subject: catalog.SubjectGerman, Grade: 2,
		Shape: question.ShapeWordSelection,
		Text:  "Finde die Nomen im Satz!",
		Params: []catalog.ParamSpec{
			{Name: "satz", Kind: catalog.KindList, AllowedValues: []string{"x"}},
		},
		Rule:       catalog.RuleMarkedTokens,
		Difficulty: catalog.DifficultyEasy,
	}

	params := map[string]any{"satz": "Der *Hund* jagt die *Katze*."}
	res, err := answer.Compute(tmpl, params)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	q, err := b.Build(tmpl, params, res)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if q.Sentence != "Der Hund jagt die Katze." {
		t.Fatalf("sentence = %q, markers leaked", q.Sentence)
	}
	if len(q.Tokens) != 5 {
		t.Fatalf("expected 5 tokens, got %d", len(q.Tokens))
	}

	var correct []string
	for i, tok := range q.Tokens {
		if tok.Position != i {
			t.Fatalf("token %d has position %d", i, tok.Position)
		}
		if tok.Correct {
			correct = append(correct, strings.Trim(tok.Text, ".,!?;:"))
		}
	}
	if len(correct) != 2 || correct[0] != "Hund" || correct[1] != "Katze" {
		t.Fatalf("correct tokens = %v", correct)
	}
}

func TestBuild_MatchingInvariant(t *testing.T) {
	b := New(testRng())
	tmpl := catalog.Template{
		ID: "test-articles", Subject: catalog.SubjectGerman, Grade: 1,
		Shape: question.ShapeMatching,
		Text:  "Ordne die Wörter dem richtigen Artikel zu!",
		Params: []catalog.ParamSpec{
			{Name: "w1", Kind: catalog.KindList, AllowedValues: []string{"x"}},
			{Name: "w2", Kind: catalog.KindList, AllowedValues: []string{"x"}},
			{Name: "w3", Kind: catalog.KindList, AllowedValues: []string{"x"}},
			{Name: "w4", Kind: catalog.KindList, AllowedValues: []string{"x"}},
		},
		Rule:       catalog.RuleArticleMatch,
		Difficulty: catalog.DifficultyEasy,
	}

	params := map[string]any{"w1": "Hund", "w2": "Katze", "w3": "Haus", "w4": "Ball"}
	res, err := answer.Compute(tmpl, params)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	q, err := b.Build(tmpl, params, res)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	ids := make(map[string]bool, len(q.Items))
	for _, it := range q.Items {
		ids[it.ID] = true
	}

	accepted := make(map[string]int)
	for _, g := range q.Groups {
		if len(g.AcceptedItemIDs) == 0 {
			t.Fatalf("group %q accepts no items", g.ID)
		}
		for _, id := range g.AcceptedItemIDs {
			if !ids[id] {
				t.Fatalf("group %q references unknown item %q", g.ID, id)
			}
			accepted[id]++
		}
	}

	// Every item lands in exactly one group.
	for _, it := range q.Items {
		if accepted[it.ID] != 1 {
			t.Fatalf("item %q appears in %d groups", it.ID, accepted[it.ID])
		}
	}
}

func TestBuild_MatchingUnknownWord(t *testing.T) {
	b := New(testRng())
	tmpl := catalog.Template{
		ID: "test-articles", Subject: catalog.SubjectGerman, Grade: 1,
		Shape: question.ShapeMatching,
		Text:  "Ordne zu!",
		Params: []catalog.ParamSpec{
			{Name: "w1", Kind: catalog.KindList, AllowedValues: []string{"x"}},
		},
		Rule:       catalog.RuleArticleMatch,
		Difficulty: catalog.DifficultyEasy,
	}

	params := map[string]any{"w1": "Hund", "w2": "Katze", "w3": "Haus", "w4": "Qwrtz"}
	if _, err := answer.Compute(tmpl, params); err == nil {
		t.Fatal("unknown noun should fail the calculation")
	}

	// The builder hits the same article lookup and must refuse too.
	if _, err := b.Build(tmpl, params, &answer.Result{Answer: "x"}); err == nil {
		t.Fatal("unknown noun should fail the build")
	}
}
