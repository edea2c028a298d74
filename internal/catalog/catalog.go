package catalog

import (
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"sync"
)

// Catalog holds the validated template pool and advisory usage counters.
// Usage counters tolerate lost updates; selection only needs them to be
// roughly right.
type Catalog struct {
	mu        sync.Mutex
	templates []Template
	usage     map[string]int
}

// New builds a catalog from the built-in template sets. Templates that
// fail validation are logged and excluded, never selected.
func New() *Catalog {
	return FromTemplates(append(mathTemplates(), germanTemplates()...))
}

// FromTemplates builds a catalog from an explicit template list,
// validating each entry.
func FromTemplates(ts []Template) *Catalog {
	c := &Catalog{usage: make(map[string]int)}
	for _, t := range ts {
		if errs := Validate(t); len(errs) > 0 {
			log.Printf("catalog: excluding template %q: %s", t.ID, strings.Join(errs, "; "))
			continue
		}
		c.templates = append(c.templates, t)
	}
	return c
}

// Len returns the number of usable templates.
func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.templates)
}

// TemplatesFor returns the eligible templates for a subject and grade.
// Adjacent grades widen the pool: a higher grade lends only its easy
// templates, a lower grade lends everything but hard ones.
func (c *Catalog) TemplatesFor(subject string, grade int) []Template {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Template
	for _, t := range c.templates {
		if t.Subject != subject {
			continue
		}
		switch {
		case t.Grade == grade:
			out = append(out, t)
		case t.Grade == grade+1 && t.Difficulty == DifficultyEasy:
			out = append(out, t)
		case t.Grade == grade-1 && t.Difficulty != DifficultyHard:
			out = append(out, t)
		}
	}
	return out
}

// Pick selects one template for generation. Least-used templates are
// preferred; ties are broken by difficulty-weighted random choice
// (easier templates drawn more often).
func (c *Catalog) Pick(rng *rand.Rand, subject string, grade int) (Template, bool) {
	pool := c.TemplatesFor(subject, grade)
	if len(pool) == 0 {
		return Template{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	minUse := c.usage[pool[0].ID]
	for _, t := range pool[1:] {
		if u := c.usage[t.ID]; u < minUse {
			minUse = u
		}
	}

	var leastUsed []Template
	for _, t := range pool {
		if c.usage[t.ID] == minUse {
			leastUsed = append(leastUsed, t)
		}
	}

	total := 0
	for _, t := range leastUsed {
		total += difficultyWeight(t.Difficulty)
	}
	n := rng.IntN(total)
	for _, t := range leastUsed {
		n -= difficultyWeight(t.Difficulty)
		if n < 0 {
			return t, true
		}
	}
	return leastUsed[len(leastUsed)-1], true
}

// NoteUse bumps the usage counter for a template. Best-effort.
func (c *Catalog) NoteUse(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.usage[id]++
}

func difficultyWeight(d Difficulty) int {
	switch d {
	case DifficultyEasy:
		return 3
	case DifficultyMedium:
		return 2
	default:
		return 1
	}
}

// Render substitutes resolved parameters and the computed answer into a
// text template. Number parameters render without decorations.
func Render(text string, params map[string]any, answer string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
		name := m[1 : len(m)-1]
		if name == answerPlaceholder {
			return answer
		}
		v, ok := params[name]
		if !ok {
			return m
		}
		switch x := v.(type) {
		case int:
			return fmt.Sprintf("%d", x)
		case string:
			return x
		default:
			return fmt.Sprintf("%v", x)
		}
	})
}
