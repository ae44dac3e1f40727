package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mind-engage/permah/internal/present"
	"github.com/mind-engage/permah/internal/scoring"
	"github.com/mind-engage/permah/internal/session"
	"github.com/mind-engage/permah/internal/survey"
)

type errorBody struct {
	Error    string              `json:"error"`
	Message  string              `json:"message"`
	Missing  []survey.QuestionID `json:"missing,omitempty"`
	Question survey.QuestionID   `json:"question,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to status codes. Invalid answers are 422 so
// callers can tell an integration bug from a transport problem.
func writeError(w http.ResponseWriter, err error) {
	var (
		inc *scoring.IncompleteInputError
		oor *scoring.OutOfRangeError
	)
	switch {
	case errors.As(err, &inc):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "incomplete_input", Message: err.Error(), Missing: inc.Missing})
	case errors.As(err, &oor):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "out_of_range", Message: err.Error(), Question: oor.Question})
	case errors.Is(err, scoring.ErrDuplicateQuestion):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "duplicate_question", Message: err.Error()})
	case errors.Is(err, scoring.ErrUnknownQuestion):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "unknown_question", Message: err.Error()})
	case errors.Is(err, session.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found", Message: err.Error()})
	case errors.Is(err, session.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody{Error: "conflict", Message: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal", Message: "internal error"})
	}
}

// Result is every derived view of one answer set.
type Result struct {
	Scores  []scoring.CategoryScore `json:"scores"`
	Table   []present.Row           `json:"table"`
	Radar   []present.RadarPoint    `json:"radar"`
	Bars    []present.Bar           `json:"bars"`
	Overall float64                 `json:"overall"`
	Focus   survey.Category         `json:"focus"`
}

func newResult(scores []scoring.CategoryScore) Result {
	low, _ := scoring.Lowest(scores)
	return Result{
		Scores:  scores,
		Table:   present.Table(scores),
		Radar:   present.RadarSeries(scores),
		Bars:    present.BarSeries(scores),
		Overall: scoring.Overall(scores),
		Focus:   low.Category,
	}
}
