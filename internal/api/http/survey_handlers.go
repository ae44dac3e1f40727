package http

import (
	"encoding/json"
	"net/http"

	"github.com/mind-engage/permah/internal/scoring"
	"github.com/mind-engage/permah/internal/survey"
)

type categoryView struct {
	Category    survey.Category   `json:"category"`
	DisplayName string            `json:"display_name"`
	Subtitle    string            `json:"subtitle"`
	Questions   []survey.Question `json:"questions"`
}

// GET /api/questions
func QuestionsHandler() http.HandlerFunc {
	cats := survey.Categories()
	out := make([]categoryView, 0, len(cats))
	for _, c := range cats {
		qs := survey.QuestionsFor(c)
		out = append(out, categoryView{
			Category:    c,
			DisplayName: c.DisplayName(),
			Subtitle:    c.Subtitle(),
			Questions:   qs[:],
		})
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"categories": out})
	}
}

// POST /api/score  {"answers": {"1": 5, ..., "18": 5}}
// Stateless: nothing is stored.
func ScoreHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Answers map[string]any `json:"answers"`
		}
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
		dec.UseNumber()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		answers, err := scoring.ParseAnswers(req.Answers)
		if err != nil {
			d.Metrics.ObserveAggregate(err)
			writeError(w, err)
			return
		}
		scores, err := scoring.Aggregate(answers)
		d.Metrics.ObserveAggregate(err)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newResult(scores))
	}
}
