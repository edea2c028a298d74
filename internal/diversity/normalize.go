package diversity

import (
	"hash/fnv"
	"regexp"
	"strings"

	"github.com/lernzeit/quizgen/internal/question"
)

var (
	punctRe  = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	spacesRe = regexp.MustCompile(`\s+`)
	digitsRe = regexp.MustCompile(`\d+`)
)

// contentText is the text a question is compared by. The prompt alone is
// not enough: word-selection questions share one prompt across all
// sentence draws of a template, and matching questions across item sets,
// so the varying payload has to take part in the comparison.
func contentText(q *question.Question) string {
	var b strings.Builder
	b.WriteString(q.Prompt)
	if q.Sentence != "" {
		b.WriteString(" ")
		b.WriteString(q.Sentence)
	}
	for _, it := range q.Items {
		b.WriteString(" ")
		b.WriteString(it.Content)
	}
	return b.String()
}

// normalizeText lowercases, strips punctuation, and collapses whitespace
// so that trivially reworded repeats compare equal.
func normalizeText(s string) string {
	s = strings.ToLower(s)
	s = punctRe.ReplaceAllString(s, "")
	s = spacesRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// structuralHash fingerprints a question with its literals abstracted:
// every number collapses to a placeholder, then the shape and pattern
// are hashed together. Catches "same shape, different numbers" repeats.
func structuralHash(q *question.Question) uint64 {
	pattern := digitsRe.ReplaceAllString(normalizeText(contentText(q)), "#")
	h := fnv.New64a()
	h.Write([]byte(string(q.Shape)))
	h.Write([]byte{0})
	h.Write([]byte(pattern))
	return h.Sum64()
}

// wordSet returns the distinct words of a normalized text.
func wordSet(s string) map[string]bool {
	out := make(map[string]bool)
	for _, w := range strings.Fields(normalizeText(s)) {
		out[w] = true
	}
	return out
}

// jaccard computes word-set similarity in [0,1].
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if b[w] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
