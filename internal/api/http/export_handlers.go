package http

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/mind-engage/permah/internal/export"
	"github.com/mind-engage/permah/internal/scoring"
	"github.com/mind-engage/permah/internal/survey"
)

type renderFunc func(w io.Writer, scores []scoring.CategoryScore) error

// exportScores picks the answers to export: explicit q1..q18 query values
// when any are given, otherwise the caller's session.
func exportScores(d Deps, w http.ResponseWriter, r *http.Request) ([]scoring.CategoryScore, error) {
	q := r.URL.Query()
	explicit := false
	for _, id := range survey.IDs() {
		if q.Has(id.FieldName()) {
			explicit = true
			break
		}
	}
	var answers scoring.AnswerSet
	if explicit {
		parsed, err := scoring.ParseValues(q.Get)
		if err != nil {
			d.Metrics.ObserveAggregate(err)
			return nil, err
		}
		answers = parsed
	} else {
		sess, err := currentSession(d, w, r)
		if err != nil {
			return nil, err
		}
		answers = sess.Answers
	}
	scores, err := scoring.Aggregate(answers)
	d.Metrics.ObserveAggregate(err)
	return scores, err
}

// exportHandler renders into a buffer first so a failed render still gets a
// proper error status.
func exportHandler(d Deps, format, contentType, filename string, render renderFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scores, err := exportScores(d, w, r)
		if err != nil {
			writeError(w, err)
			return
		}
		var buf bytes.Buffer
		if err := render(&buf, scores); err != nil {
			d.Log.Error("export render failed", zap.String("format", format), zap.Error(err))
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		d.Metrics.ObserveExport(format)
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		if filename != "" {
			w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		}
		_, _ = buf.WriteTo(w)
	}
}

// GET /export/permah_radar.png
func RadarPNGHandler(d Deps) http.HandlerFunc {
	return exportHandler(d, "radar_png", "image/png", export.RadarFileName,
		func(w io.Writer, s []scoring.CategoryScore) error {
			return export.RenderRadarPNG(w, s, export.Options{})
		})
}

// GET /export/permah_bars.png
func BarsPNGHandler(d Deps) http.HandlerFunc {
	return exportHandler(d, "bars_png", "image/png", export.BarsFileName,
		func(w io.Writer, s []scoring.CategoryScore) error {
			return export.RenderBarsPNG(w, s, export.Options{})
		})
}

// GET /export/permah_scores.csv
func ScoresCSVHandler(d Deps) http.HandlerFunc {
	return exportHandler(d, "csv", "text/csv; charset=utf-8", export.CSVFileName, export.WriteCSV)
}

// GET /charts/radar.svg renders inline, without a download name.
func RadarSVGHandler(d Deps) http.HandlerFunc {
	return exportHandler(d, "radar_svg", "image/svg+xml", "",
		func(w io.Writer, s []scoring.CategoryScore) error {
			return export.RenderRadarSVG(w, s, export.Options{})
		})
}
