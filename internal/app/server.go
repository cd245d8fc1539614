package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/vk/shiftgrid/internal/ctxlog"
	"github.com/vk/shiftgrid/internal/jobs"
	"github.com/vk/shiftgrid/internal/plan"
	"github.com/vk/shiftgrid/internal/render"
	"github.com/vk/shiftgrid/internal/solver"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds the graceful shutdown of the front end.
const shutdownTimeout = 5 * time.Second

// Serve runs the HTTP front end on the configured port until ctx is done.
func (a *App) Serve(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	addr := fmt.Sprintf(":%d", a.config.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("🩺 Server starting", "address", fmt.Sprintf("http://localhost%s/schedule", addr))
		// ListenAndServe returns ErrServerClosed on graceful shutdown.
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		a.logger.Info("🩺 Shutting down server...")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("Server shutdown failed", "error", err)
			return err
		}
		a.logger.Debug("Server shut down gracefully.")
		return nil
	})
	return g.Wait()
}

// Handler returns the front end's routes.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.healthHandler)
	mux.HandleFunc("GET /api/jobs", a.listJobsHandler)
	mux.HandleFunc("POST /api/jobs", a.commitJobHandler)
	mux.HandleFunc("DELETE /api/jobs", a.clearJobsHandler)
	mux.HandleFunc("GET /api/jobs/plan", a.jobsPlanHandler)
	mux.HandleFunc("POST /api/jobs/ranges", a.addRangeHandler)
	mux.HandleFunc("DELETE /api/jobs/ranges/{index}", a.removeRangeHandler)
	mux.HandleFunc("POST /api/schedule", a.scheduleHandler)
	mux.HandleFunc("GET /schedule", a.exportHandler)
	mux.HandleFunc("GET /schedule/{format}", a.exportHandler)
	return a.logRequests(mux)
}

func (a *App) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		a.logger.Debug("Request handled.", "method", r.Method, "path", r.URL.Path, "remote_addr", r.RemoteAddr, "elapsed", time.Since(start))
	})
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// jobsResponse is the body of every /api/jobs reply.
type jobsResponse struct {
	Pending      []string          `json:"pending"`
	Jobs         []jobs.Definition `json:"jobs"`
	Requirements string            `json:"requirements"`
	Merged       bool              `json:"merged,omitempty"`
}

func (a *App) jobsSnapshot() jobsResponse {
	return jobsResponse{
		Pending:      a.state.Pending(),
		Jobs:         a.state.Jobs(),
		Requirements: a.state.Serialized(),
	}
}

func (a *App) listJobsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.jobsSnapshot())
}

type addRangeRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Range string `json:"range"`
}

func (a *App) addRangeHandler(w http.ResponseWriter, r *http.Request) {
	var body addRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
		return
	}

	var err error
	if body.Range != "" {
		_, err = a.state.AddRawRange(body.Range)
	} else {
		_, err = a.state.AddRange(body.Start, body.End)
	}
	switch {
	case errors.Is(err, jobs.ErrDuplicateRange):
		writeError(w, http.StatusConflict, err)
	case err != nil:
		writeError(w, http.StatusBadRequest, err)
	default:
		writeJSON(w, http.StatusCreated, a.jobsSnapshot())
	}
}

func (a *App) removeRangeHandler(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid range index %q", r.PathValue("index")))
		return
	}
	if err := a.state.RemoveRange(i); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, a.jobsSnapshot())
}

type commitJobRequest struct {
	Code string `json:"code"`
}

func (a *App) commitJobHandler(w http.ResponseWriter, r *http.Request) {
	var body commitJobRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
		return
	}
	merged, err := a.state.CommitJob(body.Code)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	resp := a.jobsSnapshot()
	resp.Merged = merged
	writeJSON(w, http.StatusOK, resp)
}

// jobsPlanHandler serves the committed jobs as HCL job blocks.
func (a *App) jobsPlanHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(plan.EncodeJobs(a.state.Jobs()))
}

func (a *App) clearJobsHandler(w http.ResponseWriter, r *http.Request) {
	a.state.ClearJobs()
	w.WriteHeader(http.StatusNoContent)
}

// scheduleResponse is the body of a /api/schedule reply.
type scheduleResponse struct {
	View  *render.View `json:"view,omitempty"`
	Error string       `json:"error,omitempty"`
}

func (a *App) scheduleHandler(w http.ResponseWriter, r *http.Request) {
	var req solver.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
		return
	}
	if len(req.JobRequirements) == 0 {
		req.JobRequirements = a.state.Requirements()
	}

	view, err := a.Solve(r.Context(), &req)
	if err == nil {
		writeJSON(w, http.StatusOK, scheduleResponse{View: view})
		return
	}

	var httpErr *solver.HTTPError
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, solver.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, solver.ErrTimeout):
		status = http.StatusGatewayTimeout
	case errors.As(err, &httpErr), errors.Is(err, solver.ErrTransport):
		status = http.StatusBadGateway
	case errors.Is(err, context.Canceled):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, scheduleResponse{View: view, Error: err.Error()})
}

// exportHandler serves the latest view. Without a format it is the HTML page.
func (a *App) exportHandler(w http.ResponseWriter, r *http.Request) {
	format := r.PathValue("format")
	if format == "" {
		format = "html"
	}
	exporter, err := a.Exporter(format)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	var buf bytes.Buffer
	if err := a.Export(r.Context(), &buf, exporter.Name); err != nil {
		status := http.StatusConflict
		if errors.Is(err, ErrNoResult) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}

	w.Header().Set("Content-Type", exporter.ContentType)
	if exporter.Name != "html" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "schedule"+exporter.Extension))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
