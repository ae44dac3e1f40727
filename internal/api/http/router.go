package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	authmw "github.com/mind-engage/permah/internal/auth/middleware"
	"github.com/mind-engage/permah/internal/export"
	"github.com/mind-engage/permah/internal/logging"
	"github.com/mind-engage/permah/internal/metrics"
)

type RouterOptions struct {
	CORSOrigins []string
	// Ready reports whether backing stores are reachable; nil means always ready.
	Ready func(r *http.Request) error
}

// NewRouter mounts the survey page, the JSON API and the exports.
func NewRouter(d Deps, opts RouterOptions) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, logging.Requests(d.Log), middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if opts.Ready != nil {
			if err := opts.Ready(r); err != nil {
				d.Log.Warn("not ready", zap.Error(err))
				http.Error(w, "not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(200)
	})
	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())

	r.Get("/api/questions", QuestionsHandler())
	r.Post("/api/score", ScoreHandler(d))

	// Everything below belongs to the caller's session.
	r.Group(func(sr chi.Router) {
		sr.Use(authmw.SessionMiddleware(d.Tokens))

		sr.Get("/", IndexHandler(d))
		sr.Post("/form", SubmitFormHandler(d))
		sr.Post("/form/reset", ResetFormHandler(d))

		sr.Route("/api/session", func(ar chi.Router) {
			ar.Get("/", GetSessionHandler(d))
			ar.Post("/", ResetSessionHandler(d))
			ar.Delete("/", EndSessionHandler(d))
			ar.Put("/answers/{questionID}", SetAnswerHandler(d))
		})

		sr.Route("/export", func(er chi.Router) {
			er.Get("/"+export.RadarFileName, RadarPNGHandler(d))
			er.Get("/"+export.BarsFileName, BarsPNGHandler(d))
			er.Get("/"+export.CSVFileName, ScoresCSVHandler(d))
		})
		sr.Get("/charts/radar.svg", RadarSVGHandler(d))
	})

	return r
}
