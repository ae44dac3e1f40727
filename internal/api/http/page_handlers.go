package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/mind-engage/permah/internal/export"
	"github.com/mind-engage/permah/internal/present"
	"github.com/mind-engage/permah/internal/scoring"
	"github.com/mind-engage/permah/internal/survey"
)

//go:embed templates/index.html
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

type pageQuestion struct {
	ID     survey.QuestionID
	Field  string
	Prompt string
	Min    int
	Max    int
	Value  int
}

type pageSection struct {
	Title     string
	Open      bool
	Questions []pageQuestion
}

type pageData struct {
	Sections []pageSection
	RadarSVG template.HTML
	BarsSVG  template.HTML
	Table    []present.Row
	Focus    string
	Error    string
}

func buildPage(answers scoring.AnswerSet, scores []scoring.CategoryScore) (pageData, error) {
	var data pageData
	for i, c := range survey.Categories() {
		sec := pageSection{Title: c.DisplayName(), Open: i == 0}
		for _, q := range survey.QuestionsFor(c) {
			v, ok := answers.Get(q.ID)
			if !ok {
				v = survey.DefaultOf(q.ID)
			}
			sec.Questions = append(sec.Questions, pageQuestion{
				ID: q.ID, Field: q.ID.FieldName(), Prompt: q.Prompt, Min: q.Min, Max: q.Max, Value: v,
			})
		}
		data.Sections = append(data.Sections, sec)
	}

	var radar, bars bytes.Buffer
	if err := export.RenderRadarSVG(&radar, scores, export.Options{Width: 640, Height: 640}); err != nil {
		return pageData{}, err
	}
	if err := export.RenderBarsSVG(&bars, scores, export.Options{}); err != nil {
		return pageData{}, err
	}
	// Both documents come from our own renderer, not user input.
	data.RadarSVG = template.HTML(radar.String())
	data.BarsSVG = template.HTML(bars.String())
	data.Table = present.Table(scores)
	if low, ok := scoring.Lowest(scores); ok && scoring.BandOf(low.Average) == scoring.BandLow {
		data.Focus = low.Category.DisplayName()
	}
	return data, nil
}

// GET /
func IndexHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := currentSession(d, w, r)
		if err != nil {
			writeError(w, err)
			return
		}
		scores, err := scoring.Aggregate(sess.Answers)
		d.Metrics.ObserveAggregate(err)
		if err != nil {
			writeError(w, err)
			return
		}
		renderPage(d, w, http.StatusOK, sess.Answers, scores, "")
	}
}

func renderPage(d Deps, w http.ResponseWriter, status int, answers scoring.AnswerSet, scores []scoring.CategoryScore, msg string) {
	data, err := buildPage(answers, scores)
	if err != nil {
		d.Log.Error("build page", zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	data.Error = msg
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		d.Log.Error("execute template", zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// POST /form. Fields that are present overwrite the session's answers;
// absent fields keep their current value.
func SubmitFormHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 16<<10)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		sess, err := currentSession(d, w, r)
		if err != nil {
			writeError(w, err)
			return
		}
		edits, err := scoring.ParseValues(r.PostForm.Get)
		if err == nil {
			merged := sess.Answers
			for id, v := range edits.Map() {
				merged = merged.With(id, v)
			}
			_, err = d.Sessions.Replace(r.Context(), sess.ID, merged)
		}
		if err != nil {
			d.Metrics.ObserveAggregate(err)
			scores, aggErr := scoring.Aggregate(sess.Answers)
			if aggErr != nil {
				writeError(w, err)
				return
			}
			renderPage(d, w, http.StatusUnprocessableEntity, sess.Answers, scores, err.Error())
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// POST /form/reset
func ResetFormHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := currentSession(d, w, r)
		if err != nil {
			writeError(w, err)
			return
		}
		if _, err := d.Sessions.Reset(r.Context(), sess.ID); err != nil {
			writeError(w, err)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
