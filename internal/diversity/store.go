// Package diversity tracks which questions a session has already seen
// and rejects near-duplicates and over-represented topics.
//
// The store is an explicit service object handed to the orchestrator,
// not a package-level singleton; expired sessions are swept on access
// rather than by a background timer, which keeps the lifecycle testable.
package diversity

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/lernzeit/quizgen/internal/question"
)

// sessionTTL is the idle timeout after which a session's history is
// discarded and a fresh one starts transparently.
const sessionTTL = 30 * time.Minute

// semanticThreshold is the word-set Jaccard similarity above which two
// questions count as semantic duplicates.
const semanticThreshold = 0.75

// maxTopicUses is how often a topic may appear in a session before
// further candidates carrying it are rejected.
const maxTopicUses = 2

// Category labels why a candidate was (or was not) rejected.
type Category string

const (
	CategoryNone         Category = "none"
	CategoryExact        Category = "exact"
	CategoryStructural   Category = "structural"
	CategorySemantic     Category = "semantic"
	CategoryTopicOveruse Category = "topic-overuse"
)

// CheckResult is the outcome of a duplicate check.
type CheckResult struct {
	IsDuplicate bool
	Category    Category
	Similarity  float64
}

// SessionKey scopes diversity state to one user, subject, and grade.
func SessionKey(userID, subject string, grade int) string {
	return fmt.Sprintf("%s|%s|%d", userID, subject, grade)
}

type session struct {
	seenTexts   map[string]bool
	seenWords   []map[string]bool
	structural  map[uint64]bool
	topicCounts map[string]int
	createdAt   time.Time
	lastUsedAt  time.Time
}

func newSession(now time.Time) *session {
	return &session{
		seenTexts:   make(map[string]bool),
		structural:  make(map[uint64]bool),
		topicCounts: make(map[string]int),
		createdAt:   now,
		lastUsedAt:  now,
	}
}

// Store holds per-session diversity state. Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session

	// now is the clock; replaced in tests to exercise expiry.
	now func() time.Time
}

// NewStore creates an empty diversity store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

// Check classifies a candidate against the session history and the
// current batch. The checks run in order and short-circuit: exact match,
// structural hash, semantic similarity, topic overuse. Check never
// mutates session history.
func (s *Store) Check(key string, q *question.Question, batch []*question.Question) CheckResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessionLocked(key)

	norm := normalizeText(contentText(q))

	// 1. Exact text match against history or current batch.
	if sess.seenTexts[norm] {
		return CheckResult{IsDuplicate: true, Category: CategoryExact, Similarity: 1.0}
	}
	for _, b := range batch {
		if normalizeText(contentText(b)) == norm {
			return CheckResult{IsDuplicate: true, Category: CategoryExact, Similarity: 1.0}
		}
	}

	// 2. Structural pattern match.
	hash := structuralHash(q)
	if sess.structural[hash] {
		return CheckResult{IsDuplicate: true, Category: CategoryStructural, Similarity: 0.9}
	}
	for _, b := range batch {
		if structuralHash(b) == hash {
			return CheckResult{IsDuplicate: true, Category: CategoryStructural, Similarity: 0.9}
		}
	}

	// 3. Semantic similarity against every seen question.
	words := wordSet(contentText(q))
	for _, seen := range sess.seenWords {
		if sim := jaccard(words, seen); sim > semanticThreshold {
			return CheckResult{IsDuplicate: true, Category: CategorySemantic, Similarity: sim}
		}
	}
	for _, b := range batch {
		if sim := jaccard(words, wordSet(contentText(b))); sim > semanticThreshold {
			return CheckResult{IsDuplicate: true, Category: CategorySemantic, Similarity: sim}
		}
	}

	// 4. Topic overuse, independent of text similarity.
	for _, topic := range q.Topics {
		if sess.topicCounts[topic] >= maxTopicUses {
			return CheckResult{IsDuplicate: true, Category: CategoryTopicOveruse, Similarity: 0}
		}
	}

	return CheckResult{Category: CategoryNone}
}

// Register records an accepted question in its session. Call exactly
// once per accepted question, never for rejected candidates.
func (s *Store) Register(key string, q *question.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessionLocked(key)

	sess.seenTexts[normalizeText(contentText(q))] = true
	sess.seenWords = append(sess.seenWords, wordSet(contentText(q)))
	sess.structural[structuralHash(q)] = true
	for _, topic := range q.Topics {
		sess.topicCounts[topic]++
	}
	sess.lastUsedAt = s.now()
}

// Rank orders candidates by diversity score, best first. The score is
// 1 − topicPenalty, where the penalty grows with prior topic usage and
// is capped. Used when a tier over-produces and a subset must be chosen.
func (s *Store) Rank(key string, candidates []*question.Question) []*question.Question {
	s.mu.Lock()
	sess := s.sessionLocked(key)
	scores := make(map[*question.Question]float64, len(candidates))
	for _, c := range candidates {
		scores[c] = 1 - topicPenalty(sess, c)
	}
	s.mu.Unlock()

	out := make([]*question.Question, len(candidates))
	copy(out, candidates)
	sort.SliceStable(out, func(i, j int) bool {
		return scores[out[i]] > scores[out[j]]
	})
	return out
}

func topicPenalty(sess *session, q *question.Question) float64 {
	p := 0.0
	for _, topic := range q.Topics {
		p += 0.25 * float64(sess.topicCounts[topic])
	}
	if p > 0.9 {
		p = 0.9
	}
	return p
}

// SessionCount reports the number of live sessions (after sweeping).
func (s *Store) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return len(s.sessions)
}

// sessionLocked returns the live session for key, discarding an expired
// one and creating a fresh one as needed. Caller holds s.mu.
func (s *Store) sessionLocked(key string) *session {
	s.sweepLocked()
	sess, ok := s.sessions[key]
	if !ok {
		sess = newSession(s.now())
		s.sessions[key] = sess
	}
	return sess
}

// sweepLocked purges sessions idle past the TTL. Caller holds s.mu.
func (s *Store) sweepLocked() {
	cutoff := s.now().Add(-sessionTTL)
	for key, sess := range s.sessions {
		if sess.lastUsedAt.Before(cutoff) {
			delete(s.sessions, key)
		}
	}
}
