package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lernzeit/quizgen/internal/answer"
	"github.com/lernzeit/quizgen/internal/orchestrator"
	"github.com/lernzeit/quizgen/internal/question"
)

// GenerateHandler serves POST /api/generate.
func GenerateHandler(orc *orchestrator.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Subject          string   `json:"subject"`
			Grade            int      `json:"grade"`
			UserID           string   `json:"userId"`
			Count            int      `json:"count"`
			ExcludeQuestions []string `json:"excludeQuestions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		res, err := orc.Generate(r.Context(), orchestrator.Request{
			Subject: req.Subject,
			Grade:   req.Grade,
			UserID:  req.UserID,
			Count:   req.Count,
			Exclude: req.ExcludeQuestions,
		})
		if err != nil {
			var inflight *orchestrator.InFlightError
			var exhausted *orchestrator.ExhaustedError
			switch {
			case errors.As(err, &inflight):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.As(err, &exhausted):
				http.Error(w, err.Error(), http.StatusTooManyRequests)
			default:
				http.Error(w, err.Error(), http.StatusBadRequest)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Questions []*question.Question `json:"questions"`
			Source    question.Source      `json:"source"`
		}{res.Questions, res.Source})
	}
}

// CheckHandler serves POST /api/check: scores a reported learner answer
// against the question the client holds.
func CheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Question *question.Question `json:"question"`
			Answer   string             `json:"answer"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Question == nil {
			http.Error(w, "question required", http.StatusBadRequest)
			return
		}

		correct := question.CheckAnswer(req.Answer, req.Question)

		// Expected answers travel with the dot internally; learners see
		// the German decimal comma.
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Correct        bool   `json:"correct"`
			ExpectedAnswer string `json:"expectedAnswer"`
		}{correct, answer.Localize(req.Question.Answer())})
	}
}
