package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authmw "github.com/mind-engage/permah/internal/auth/middleware"
	"github.com/mind-engage/permah/internal/metrics"
	"github.com/mind-engage/permah/internal/scoring"
	"github.com/mind-engage/permah/internal/session"
	"github.com/mind-engage/permah/internal/survey"
)

// Deps are shared by the handlers.
type Deps struct {
	Sessions *session.Service
	Tokens   *authmw.Tokens
	Metrics  *metrics.Metrics
	Log      *zap.Logger
}

type sessionView struct {
	ID       string            `json:"id"`
	Revision int               `json:"revision"`
	Answers  scoring.AnswerSet `json:"answers"`
	Result   Result            `json:"result"`
}

// currentSession resumes the caller's session, starting one (and setting
// the cookie) when the request carries none.
func currentSession(d Deps, w http.ResponseWriter, r *http.Request) (session.Session, error) {
	sess, created, err := d.Sessions.Resume(r.Context(), authmw.SessionFromContext(r.Context()))
	if err != nil {
		return session.Session{}, err
	}
	if created {
		d.Metrics.ObserveSessionStart()
		if err := d.Tokens.SetCookie(w, sess.ID); err != nil {
			return session.Session{}, err
		}
	}
	return sess, nil
}

func renderSession(d Deps, w http.ResponseWriter, status int, sess session.Session) {
	scores, err := scoring.Aggregate(sess.Answers)
	d.Metrics.ObserveAggregate(err)
	if err != nil {
		// A stored session only ever holds validated answers.
		d.Log.Error("stored session failed aggregation", zap.String("session", sess.ID), zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, status, sessionView{
		ID:       sess.ID,
		Revision: sess.Revision,
		Answers:  sess.Answers,
		Result:   newResult(scores),
	})
}

// GET /api/session
func GetSessionHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := currentSession(d, w, r)
		if err != nil {
			writeError(w, err)
			return
		}
		renderSession(d, w, http.StatusOK, sess)
	}
}

// POST /api/session starts over with default answers.
func ResetSessionHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := currentSession(d, w, r)
		if err != nil {
			writeError(w, err)
			return
		}
		if sess, err = d.Sessions.Reset(r.Context(), sess.ID); err != nil {
			writeError(w, err)
			return
		}
		renderSession(d, w, http.StatusOK, sess)
	}
}

// DELETE /api/session
func EndSessionHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if id := authmw.SessionFromContext(r.Context()); id != "" {
			if err := d.Sessions.End(r.Context(), id); err != nil {
				d.Log.Debug("end session", zap.String("session", id), zap.Error(err))
			}
		}
		d.Tokens.ClearCookie(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

// PUT /api/session/answers/{questionID}  {"value": 7}
func SetAnswerHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qid, err := survey.ParseQuestionID(chi.URLParam(r, "questionID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		var req struct {
			Value json.Number `json:"value"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		parsed, err := scoring.ParseAnswers(map[string]any{qid.FieldName(): req.Value})
		if err != nil {
			writeError(w, err)
			return
		}
		v, _ := parsed.Get(qid)

		sess, err := currentSession(d, w, r)
		if err != nil {
			writeError(w, err)
			return
		}
		sess, err = d.Sessions.SetAnswer(r.Context(), sess.ID, qid, v)
		if err != nil {
			writeError(w, err)
			return
		}
		renderSession(d, w, http.StatusOK, sess)
	}
}
