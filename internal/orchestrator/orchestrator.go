// Package orchestrator runs the tiered generation pipeline: curated
// database records, then AI generation, then local parametric
// templates, then a hardcoded minimal tier. Tiers run strictly in
// sequence and concatenate their accepted questions until the requested
// count is met. A failing tier contributes zero questions; it never
// aborts the request.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lernzeit/quizgen/internal/aigen"
	"github.com/lernzeit/quizgen/internal/answer"
	"github.com/lernzeit/quizgen/internal/catalog"
	"github.com/lernzeit/quizgen/internal/diversity"
	"github.com/lernzeit/quizgen/internal/options"
	"github.com/lernzeit/quizgen/internal/params"
	"github.com/lernzeit/quizgen/internal/parse"
	"github.com/lernzeit/quizgen/internal/quality"
	"github.com/lernzeit/quizgen/internal/question"
	"github.com/lernzeit/quizgen/internal/store"
)

// Request is one generation request from the UI layer.
type Request struct {
	Subject string
	Grade   int
	UserID  string
	Count   int

	// Exclude lists prompts the learner already saw, forwarded to the
	// AI tier so it avoids regenerating them.
	Exclude []string
}

// Result is the response to one generation request.
type Result struct {
	Questions []*question.Question
	Source    question.Source
}

// Orchestrator coordinates the generation tiers. Safe for concurrent
// use; each request gets its own random source and builders.
type Orchestrator struct {
	catalog   *catalog.Catalog
	diversity *diversity.Store
	questions store.QuestionRepo
	ai        *aigen.Generator
	config    Config
	seed      func() (uint64, uint64)

	mu       sync.Mutex
	inflight map[string]struct{}
	failures map[string]int
}

// seedSeq decorrelates default per-request seeds taken in the same tick.
var seedSeq atomic.Uint64

// New creates an Orchestrator. The question repo and AI generator are
// optional; a nil value skips that tier.
func New(cfg Config, cat *catalog.Catalog, div *diversity.Store, repo store.QuestionRepo, ai *aigen.Generator) *Orchestrator {
	return &Orchestrator{
		catalog:   cat,
		diversity: div,
		questions: repo,
		ai:        ai,
		config:    cfg,
		seed: func() (uint64, uint64) {
			return uint64(time.Now().UnixNano()), seedSeq.Add(1)
		},
		inflight: make(map[string]struct{}),
		failures: make(map[string]int),
	}
}

// SetSeed overrides the per-request random seed source. Tests use this
// for deterministic output.
func (o *Orchestrator) SetSeed(seed func() (uint64, uint64)) {
	o.seed = seed
}

// Generate runs the tiered pipeline for one request.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	sig := signature(req)
	if err := o.acquire(sig); err != nil {
		return nil, err
	}
	defer o.release(sig)

	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	res := o.run(ctx, uuid.NewString(), req)

	o.noteOutcome(sig, len(res.Questions) > 0)
	return res, nil
}

func validate(req Request) error {
	if req.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if req.Grade < 1 || req.Grade > 12 {
		return fmt.Errorf("grade %d out of range [1,12]", req.Grade)
	}
	if req.Count < 1 || req.Count > 10 {
		return fmt.Errorf("count %d out of range [1,10]", req.Count)
	}
	return nil
}

func signature(req Request) string {
	return fmt.Sprintf("%s|%d|%s|%d", req.Subject, req.Grade, req.UserID, req.Count)
}

// acquire takes the in-flight slot for a signature and checks the
// failure circuit.
func (o *Orchestrator) acquire(sig string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, busy := o.inflight[sig]; busy {
		return &InFlightError{Signature: sig}
	}
	if n := o.failures[sig]; n >= o.config.MaxConsecutiveFailures {
		return &ExhaustedError{Signature: sig, Failures: n}
	}
	o.inflight[sig] = struct{}{}
	return nil
}

func (o *Orchestrator) release(sig string) {
	o.mu.Lock()
	delete(o.inflight, sig)
	o.mu.Unlock()
}

func (o *Orchestrator) noteOutcome(sig string, ok bool) {
	o.mu.Lock()
	if ok {
		delete(o.failures, sig)
	} else {
		o.failures[sig]++
	}
	o.mu.Unlock()
}

// run executes the tiers in order. It always returns a result; the
// simple tier guarantees the target count even when everything else
// produced nothing.
func (o *Orchestrator) run(ctx context.Context, requestID string, req Request) *Result {
	key := diversity.SessionKey(req.UserID, req.Subject, req.Grade)
	rng := rand.New(rand.NewPCG(o.seed()))

	var accepted []*question.Question
	contrib := map[question.Source]int{}

	o.databaseTier(ctx, requestID, req, key, &accepted, contrib)
	o.aiTier(ctx, requestID, req, key, &accepted, contrib)
	o.templateTier(ctx, requestID, req, key, rng, &accepted, contrib)
	o.simpleTier(req, key, rng, &accepted, contrib)

	return &Result{
		Questions: accepted,
		Source:    label(contrib),
	}
}

// databaseTier pulls curated records and parses them into questions.
// Degraded records are skipped; they never count toward the target.
func (o *Orchestrator) databaseTier(ctx context.Context, requestID string, req Request, key string, accepted *[]*question.Question, contrib map[question.Source]int) {
	if o.questions == nil || len(*accepted) >= req.Count || ctx.Err() != nil {
		return
	}

	records, err := o.questions.Query(ctx, req.Subject, req.Grade, true, o.config.MinStoreQuality)
	if err != nil {
		log.Printf("[%s] database tier failed: %v", requestID, err)
		return
	}

	for _, rec := range records {
		if len(*accepted) >= req.Count {
			break
		}
		out := parse.Record(rec)
		if out.Degraded {
			log.Printf("[%s] skipping record %d: %s", requestID, rec.ID, out.Reason)
			continue
		}
		if ok, _ := o.accept(key, out.Question, *accepted); ok {
			*accepted = append(*accepted, out.Question)
			contrib[question.SourceDatabase]++
			o.bumpUsage(rec.ID)
		}
	}
}

// aiTier asks the LLM for candidates. They are untrusted and pass
// through the same duplicate and quality filters as everything else.
func (o *Orchestrator) aiTier(ctx context.Context, requestID string, req Request, key string, accepted *[]*question.Question, contrib map[question.Source]int) {
	if o.ai == nil || len(*accepted) >= req.Count || ctx.Err() != nil {
		return
	}

	missing := req.Count - len(*accepted)
	batch, err := o.ai.Generate(ctx, aigen.BatchRequest{
		Subject:    req.Subject,
		Grade:      req.Grade,
		Count:      missing * o.config.AIOverfetch,
		Exclusions: exclusions(req, *accepted),
	})
	if err != nil {
		log.Printf("[%s] AI tier failed: %v", requestID, err)
		return
	}

	// The tier overfetches, so order the surplus by diversity before
	// accepting: candidates on fresh topics get the slots first.
	batch = o.diversity.Rank(key, batch)

	for _, q := range batch {
		if len(*accepted) >= req.Count {
			break
		}
		ok, report := o.accept(key, q, *accepted)
		if !ok {
			continue
		}
		*accepted = append(*accepted, q)
		contrib[question.SourceAI]++
		o.writeBack(q, report.OverallScore)
	}
}

// templateTier instantiates local parametric templates. Per-candidate
// failures (unsatisfiable constraints, calculation errors) discard that
// candidate and move on.
func (o *Orchestrator) templateTier(ctx context.Context, requestID string, req Request, key string, rng *rand.Rand, accepted *[]*question.Question, contrib map[question.Source]int) {
	if len(*accepted) >= req.Count || ctx.Err() != nil {
		return
	}

	missing := req.Count - len(*accepted)
	attempts := missing * o.config.TemplateAttemptsPerQuestion

	pgen := params.New(rng)
	builder := options.New(rng)

	for i := 0; i < attempts && len(*accepted) < req.Count; i++ {
		t, ok := o.catalog.Pick(rng, req.Subject, req.Grade)
		if !ok {
			return
		}

		p, err := pgen.Generate(t)
		if err != nil {
			log.Printf("[%s] template %s: %v", requestID, t.ID, err)
			continue
		}
		res, err := answer.Compute(t, p)
		if err != nil {
			log.Printf("[%s] template %s: %v", requestID, t.ID, err)
			continue
		}
		q, err := builder.Build(t, p, res)
		if err != nil {
			log.Printf("[%s] template %s: %v", requestID, t.ID, err)
			continue
		}

		if ok, _ := o.accept(key, q, *accepted); ok {
			*accepted = append(*accepted, q)
			contrib[question.SourceTemplate]++
			o.catalog.NoteUse(t.ID)
		}
	}
}

// simpleTier tops up to the target count with hardcoded arithmetic. It
// only rejects exact repeats within the batch, so it always reaches the
// target.
func (o *Orchestrator) simpleTier(req Request, key string, rng *rand.Rand, accepted *[]*question.Question, contrib map[question.Source]int) {
	seen := make(map[string]bool, len(*accepted))
	for _, q := range *accepted {
		seen[q.Prompt] = true
	}

	for len(*accepted) < req.Count {
		q := simpleQuestion(rng, req.Grade)
		if seen[q.Prompt] {
			continue
		}
		seen[q.Prompt] = true
		o.diversity.Register(key, q)
		*accepted = append(*accepted, q)
		contrib[question.SourceSimple]++
	}
}

// accept runs the duplicate check and quality assessment, registering
// the question on success. Rejections are expected filtering outcomes,
// not errors.
func (o *Orchestrator) accept(key string, q *question.Question, batch []*question.Question) (bool, *quality.Report) {
	if res := o.diversity.Check(key, q, batch); res.IsDuplicate {
		return false, nil
	}
	report := quality.Assess(q)
	if !report.PassesThreshold {
		return false, report
	}
	o.diversity.Register(key, q)
	return true, report
}

// bumpUsage increments a record's usage counter. Best-effort; lost
// updates are acceptable.
func (o *Orchestrator) bumpUsage(id int64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := o.questions.IncrementUsage(ctx, id); err != nil {
			log.Printf("warning: usage increment for record %d failed: %v", id, err)
		}
	}()
}

// writeBack persists an accepted AI question for future database-tier
// reuse. Fire-and-forget; lost writes are acceptable.
func (o *Orchestrator) writeBack(q *question.Question, score float64) {
	if o.questions == nil || q.Shape != question.ShapeTextInput {
		return
	}
	rec := store.StoredQuestion{
		Subject: q.Subject,
		Grade:   q.Grade,
		Content: fmt.Sprintf("%s Antwort: %s", q.Prompt, q.ExpectedAnswer),
		Quality: score,
		Active:  true,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := o.questions.Save(ctx, rec); err != nil {
			log.Printf("warning: question write-back failed: %v", err)
		}
	}()
}

// exclusions merges the caller's exclude list with prompts accepted so
// far in this request.
func exclusions(req Request, accepted []*question.Question) []string {
	out := make([]string, 0, len(req.Exclude)+len(accepted))
	out = append(out, req.Exclude...)
	for _, q := range accepted {
		out = append(out, q.Prompt)
	}
	return out
}

// label derives the response source. One contributing tier keeps its
// own label; a mix is hybrid.
func label(contrib map[question.Source]int) question.Source {
	var sources []question.Source
	for src, n := range contrib {
		if n > 0 {
			sources = append(sources, src)
		}
	}
	switch len(sources) {
	case 0:
		return question.SourceSimple
	case 1:
		return sources[0]
	default:
		return question.SourceHybrid
	}
}
