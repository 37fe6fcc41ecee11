package httpserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/bonpiedlaroute/leaseboost/internal/application/results"
	"github.com/bonpiedlaroute/leaseboost/internal/application/upload"
	"github.com/bonpiedlaroute/leaseboost/internal/domain/analysis"
	"github.com/bonpiedlaroute/leaseboost/internal/middleware"
)

// GraceDelayMS is the pause between the terminal "done" caption and the
// navigation to the results page.
const GraceDelayMS = 800

// maxRequestBytes caps the multipart request body. It sits above the 10 MiB
// document limit so the size check stays a workflow decision with its own
// user-facing message, not a transport cutoff.
const maxRequestBytes = 12 * 1024 * 1024

type Router struct {
	uploads *upload.Service
	results *results.Service
	render  *Renderer
	graceMS int
}

// NewRouter mounts the three pages, the upload/results API and the
// operational endpoints. graceMS overrides the default done-to-navigation
// pause when positive.
func NewRouter(uploads *upload.Service, res *results.Service, render *Renderer,
	checkers map[string]middleware.HealthChecker, metricsKeys map[string]string,
	graceMS int) http.Handler {

	if graceMS <= 0 {
		graceMS = GraceDelayMS
	}
	r := &Router{uploads: uploads, results: res, render: render, graceMS: graceMS}
	mux := chi.NewRouter()

	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.SessionCookie)

	// pages
	mux.Get("/", r.wrap(r.handleHome))
	mux.Get("/analysis", r.wrap(r.handleAnalysis))
	mux.Get("/portfolio", r.wrap(r.handlePortfolio))

	// any unmatched path goes back to the landing page
	mux.NotFound(func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/", http.StatusFound)
	})

	mux.Route("/api", func(rt chi.Router) {
		rt.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"https://leaseboost.fr", "https://www.leaseboost.fr", "http://localhost:*"},
			AllowedMethods: []string{"GET", "POST"},
			AllowedHeaders: []string{"Content-Type"},
		}))
		rt.Use(middleware.RateLimitMiddleware(60, 10))

		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/analyze/progress", r.wrap(r.handleProgress))
		rt.Post("/analysis/reset", r.wrap(r.handleReset))
		rt.Post("/events/export", r.wrap(r.handleExportEvent))
		rt.Post("/events/dwell", r.wrap(r.handleDwellEvent))

		rt.Get("/health-check/", middleware.HealthHandler(checkers))
		rt.With(middleware.APIKeyAuth(metricsKeys)).Get("/metrics", middleware.MetricsHandler)
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			writeFailure(w, err)
		}
	}
}

// writeFailure maps the error taxonomy to a status and a display message.
// Every workflow error reaches the user as {"detail": ...}, nothing panics
// the shell.
func writeFailure(w http.ResponseWriter, err error) {
	var (
		vErr *analysis.ValidationError
		tErr *analysis.TimeoutError
		sErr *analysis.ServiceError
	)
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": vErr.Message})
	case errors.As(err, &tErr):
		writeJSON(w, http.StatusGatewayTimeout, map[string]any{"detail": tErr.Message})
	case errors.As(err, &sErr):
		writeJSON(w, http.StatusBadGateway, map[string]any{"detail": sErr.Message})
	case errors.Is(err, analysis.ErrAnalysisInProgress):
		writeJSON(w, http.StatusConflict, map[string]any{"detail": "Une analyse est déjà en cours."})
	case errors.Is(err, analysis.ErrNoAnalysis):
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Aucune analyse active."})
	default:
		log.Printf("handler error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"detail": "Erreur interne."})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

//
// ==== API ====
//

// POST /api/analyze - multipart body, single field "file". Runs the whole
// upload workflow and stores the result in the caller's session.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	session := middleware.SessionFromContext(req.Context())

	req.Body = http.MaxBytesReader(w, req.Body, maxRequestBytes)
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return &analysis.ValidationError{Message: upload.MsgFileTooLarge}
		}
		return &analysis.ValidationError{Message: "Requête invalide."}
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		return &analysis.ValidationError{Message: "Aucun fichier reçu."}
	}
	defer file.Close()

	up := analysis.Upload{
		Filename:    middleware.SanitizeFilename(header.Filename),
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	}

	middleware.IncrementAnalyses()
	middleware.IncrementAnalysesRunning()
	defer middleware.DecrementAnalysesRunning()

	result, err := r.uploads.Run(req.Context(), session, up)
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"analysis": result,
		"redirect": "/analysis",
		"grace_ms": r.graceMS,
	})
	return nil
}

// GET /api/analyze/progress - current simulated-progress caption.
func (r *Router) handleProgress(w http.ResponseWriter, req *http.Request) error {
	session := middleware.SessionFromContext(req.Context())
	stage, active := r.uploads.Status(session)
	writeJSON(w, http.StatusOK, map[string]any{
		"caption": stage.Caption(),
		"active":  active,
	})
	return nil
}

// POST /api/analysis/reset - "new analysis": clears the stored result and
// filename together, then returns to the landing page.
func (r *Router) handleReset(w http.ResponseWriter, req *http.Request) error {
	session := middleware.SessionFromContext(req.Context())
	if err := r.results.Reset(req.Context(), session); err != nil {
		return err
	}
	http.Redirect(w, req, "/", http.StatusSeeOther)
	return nil
}

// POST /api/events/export - beacon fired alongside the browser print.
func (r *Router) handleExportEvent(w http.ResponseWriter, req *http.Request) error {
	session := middleware.SessionFromContext(req.Context())
	var body struct {
		ExportType string `json:"export_type"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return &analysis.ValidationError{Message: "Requête invalide."}
	}
	if err := middleware.ValidateExportType(body.ExportType); err != nil {
		return &analysis.ValidationError{Message: err.Error()}
	}

	r.results.ReportExport(session, body.ExportType)
	middleware.IncrementReportsExported()
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// POST /api/events/dwell - dwell-time beacon. The page may fire it from
// unload, tab-hidden and unmount for the same visit; the visit ID makes
// reporting idempotent.
func (r *Router) handleDwellEvent(w http.ResponseWriter, req *http.Request) error {
	session := middleware.SessionFromContext(req.Context())
	var body struct {
		VisitID string  `json:"visit_id"`
		Seconds float64 `json:"seconds"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return &analysis.ValidationError{Message: "Requête invalide."}
	}
	if err := middleware.ValidateVisitID(body.VisitID); err != nil {
		return &analysis.ValidationError{Message: err.Error()}
	}
	if err := middleware.ValidateDwellSeconds(body.Seconds); err != nil {
		return &analysis.ValidationError{Message: err.Error()}
	}

	r.results.ReportDwell(session, body.VisitID, body.Seconds)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

//
// ==== PAGES ====
//

type pageData struct {
	Title      string
	Path       string
	Nav        []NavItem
	ShowStatus bool
}

func newPageData(title, path string) pageData {
	nav, showStatus := NavFor(path)
	return pageData{Title: title, Path: path, Nav: nav, ShowStatus: showStatus}
}

type homeData struct {
	pageData
	Article any
	GraceMS int
}

// GET /
func (r *Router) handleHome(w http.ResponseWriter, req *http.Request) error {
	return r.render.Home(w, homeData{
		pageData: newPageData("LeaseBoost - Analyse de Baux Commerciaux", "/"),
		Article:  r.render.Article,
		GraceMS:  r.graceMS,
	})
}

type analysisData struct {
	pageData
	View    *results.View
	VisitID string
}

// GET /analysis - redirects home when the session has no stored analysis.
func (r *Router) handleAnalysis(w http.ResponseWriter, req *http.Request) error {
	session := middleware.SessionFromContext(req.Context())
	view, err := r.results.Load(req.Context(), session)
	if errors.Is(err, analysis.ErrNoAnalysis) {
		http.Redirect(w, req, "/", http.StatusSeeOther)
		return nil
	}
	if err != nil {
		return err
	}

	return r.render.Analysis(w, analysisData{
		pageData: newPageData("Analyse financière - LeaseBoost", "/analysis"),
		View:     view,
		VisitID:  uuid.New().String(),
	})
}

// GET /portfolio
func (r *Router) handlePortfolio(w http.ResponseWriter, req *http.Request) error {
	return r.render.Portfolio(w, newPageData("Portefeuille - LeaseBoost", "/portfolio"))
}
