// Package server exposes one commit analytics view over HTTP: the page, its
// data, and the brush and hover events that drive it.
package server

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/locmeta/internal/analytics"
	"github.com/Sumatoshi-tech/locmeta/internal/config"
	"github.com/Sumatoshi-tech/locmeta/internal/observability"
	"github.com/Sumatoshi-tech/locmeta/internal/plotpage"
	"github.com/Sumatoshi-tech/locmeta/internal/scatter"
	"github.com/Sumatoshi-tech/locmeta/internal/selection"
	"github.com/Sumatoshi-tech/locmeta/internal/tooltip"
)

//go:embed brush.js
var brushScript string

const (
	maxBrushBody  = 1 << 16
	shutdownGrace = 5 * time.Second
)

// ErrInvalidPointer is returned when tooltip coordinates are not numbers.
var ErrInvalidPointer = errors.New("invalid pointer coordinates")

// Deps are the collaborators of a Server. Zero values fall back to
// slog.Default, a no-op tracer and no metrics.
type Deps struct {
	Logger         *slog.Logger
	Tracer         trace.Tracer
	Metrics        *observability.REDMetrics
	MetricsHandler http.Handler
}

// Server serialises every event against one analytics context, each to
// completion, in arrival order.
type Server struct {
	mu   sync.Mutex
	view *analytics.Context

	deps Deps
}

// New returns a server for view.
func New(view *analytics.Context, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	if deps.Tracer == nil {
		deps.Tracer = nooptrace.NewTracerProvider().Tracer(observability.InstrumentationName)
	}

	return &Server{view: view, deps: deps}
}

// BrushRequest is the body of POST /api/brush.
type BrushRequest = analytics.Event

// BrushResponse is the selection after a brush event, with the fragments
// and chart series the page swaps in.
type BrushResponse struct {
	State         string             `json:"state"`
	Region        *selection.Region  `json:"region,omitempty"`
	Label         string             `json:"label"`
	Stats         selection.Stats    `json:"stats"`
	Selected      []string           `json:"selected"`
	Series        charts.MultiSeries `json:"series"`
	CountHTML     string             `json:"countHtml"`
	BreakdownHTML string             `json:"breakdownHtml"`
}

// TooltipResponse is the detail panel after a hover event.
type TooltipResponse struct {
	Panel tooltip.Panel `json:"panel"`
	HTML  string        `json:"html"`
}

// Handler returns the routes wrapped in tracing and RED middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /api/commits", s.handleCommits)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("POST /api/brush", s.handleBrush)
	mux.HandleFunc("GET /api/tooltip", s.handleTooltip)
	mux.HandleFunc("GET /healthz", handleHealth)

	if s.deps.MetricsHandler != nil {
		mux.Handle("GET /metrics", s.deps.MetricsHandler)
	}

	return observability.HTTPMiddleware(s.deps.Tracer, s.deps.Metrics, mux)
}

// ListenAndServe listens on cfg.Addr() and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, cfg config.ServerConfig) error {
	var lc net.ListenConfig

	ln, err := lc.Listen(ctx, "tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr(), err)
	}

	return s.Serve(ctx, ln, cfg)
}

// Serve serves on ln until ctx is done, then shuts down within
// cfg.ShutdownTimeout, or five seconds when that is unset.
func (s *Server) Serve(ctx context.Context, ln net.Listener, cfg config.ServerConfig) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.deps.Logger.InfoContext(ctx, "server listening", "addr", "http://"+ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = shutdownGrace
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	s.deps.Logger.InfoContext(ctx, "server shutting down")

	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

func (s *Server) handlePage(rw http.ResponseWriter, hr *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer

	err := s.view.WritePage(hr.Context(), &buf, plotpage.HTMLRenderer{ExtraJS: brushScript})
	if err != nil {
		s.deps.Logger.ErrorContext(hr.Context(), "page render failed", "error", err)
		http.Error(rw, "Failed to render page", http.StatusInternalServerError)

		return
	}

	rw.Header().Set("Content-Type", "text/html; charset=utf-8")

	_, err = buf.WriteTo(rw)
	if err != nil {
		s.deps.Logger.WarnContext(hr.Context(), "page write failed", "error", err)
	}
}

func (s *Server) handleCommits(rw http.ResponseWriter, hr *http.Request) {
	writeJSON(hr.Context(), rw, s.view.Commits)
}

func (s *Server) handleSummary(rw http.ResponseWriter, hr *http.Request) {
	writeJSON(hr.Context(), rw, s.view.Report)
}

func (s *Server) handleBrush(rw http.ResponseWriter, hr *http.Request) {
	var req BrushRequest

	err := json.NewDecoder(http.MaxBytesReader(rw, hr.Body, maxBrushBody)).Decode(&req)
	if err != nil {
		http.Error(rw, "Invalid request body", http.StatusBadRequest)

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	change, err := s.view.Apply(hr.Context(), req)
	if errors.Is(err, analytics.ErrStaleEvent) {
		s.deps.Logger.DebugContext(hr.Context(), "stale brush event dropped", "error", err)
		http.Error(rw, err.Error(), http.StatusConflict)

		return
	}

	if err != nil {
		http.Error(rw, err.Error(), http.StatusBadRequest)

		return
	}

	resp, err := s.brushResponse(change)
	if err != nil {
		s.deps.Logger.ErrorContext(hr.Context(), "selection render failed", "error", err)
		http.Error(rw, "Failed to render selection", http.StatusInternalServerError)

		return
	}

	writeJSON(hr.Context(), rw, resp)
}

func (s *Server) brushResponse(change selection.Change) (BrushResponse, error) {
	selected := make([]string, 0, change.Stats.SelectedCount)

	for i, h := range change.Highlights {
		if h == scatter.HighlightSelected {
			selected = append(selected, s.view.Plot.Commits[i].ID)
		}
	}

	count, err := renderString(s.view.SelectionCountView())
	if err != nil {
		return BrushResponse{}, err
	}

	breakdown, err := renderString(s.view.BreakdownView())
	if err != nil {
		return BrushResponse{}, err
	}

	return BrushResponse{
		State:         change.State.String(),
		Region:        change.Region,
		Label:         change.Stats.Label(),
		Stats:         change.Stats,
		Selected:      selected,
		Series:        s.view.Series(change.Highlights),
		CountHTML:     count,
		BreakdownHTML: breakdown,
	}, nil
}

// handleTooltip enters the commit named by id, moves the visible panel when
// only x and y are given, and hides it otherwise.
func (s *Server) handleTooltip(rw http.ResponseWriter, hr *http.Request) {
	query := hr.URL.Query()

	at, hasPointer, err := parsePointer(query.Get("x"), query.Get("y"))
	if err != nil {
		http.Error(rw, err.Error(), http.StatusBadRequest)

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var panel tooltip.Panel

	id := query.Get("id")

	switch {
	case id != "":
		commit := s.view.CommitByID(id)
		if commit == nil {
			http.Error(rw, "Unknown commit "+strconv.Quote(id), http.StatusNotFound)

			return
		}

		panel = s.view.Tooltip.Enter(commit, at)
	case hasPointer:
		panel = s.view.Tooltip.Move(at)
	default:
		panel = s.view.Tooltip.Leave()
	}

	html, err := renderString(s.view.TooltipView())
	if err != nil {
		http.Error(rw, "Failed to render tooltip", http.StatusInternalServerError)

		return
	}

	writeJSON(hr.Context(), rw, TooltipResponse{Panel: panel, HTML: html})
}

func handleHealth(rw http.ResponseWriter, hr *http.Request) {
	writeJSON(hr.Context(), rw, map[string]string{"status": "ok"})
}

func parsePointer(x, y string) (tooltip.Pointer, bool, error) {
	if x == "" && y == "" {
		return tooltip.Pointer{}, false, nil
	}

	px, errX := strconv.ParseFloat(x, 64)
	py, errY := strconv.ParseFloat(y, 64)

	if errX != nil || errY != nil {
		return tooltip.Pointer{}, false, fmt.Errorf("%w: x=%q y=%q", ErrInvalidPointer, x, y)
	}

	return tooltip.Pointer{X: px, Y: py}, true, nil
}

func renderString(view plotpage.Renderable) (string, error) {
	var buf bytes.Buffer

	err := view.Render(&buf)
	if err != nil {
		return "", fmt.Errorf("render fragment: %w", err)
	}

	return buf.String(), nil
}

// writeJSON encodes the given value as JSON and writes it to the response writer.
func writeJSON(ctx context.Context, rw http.ResponseWriter, value any) {
	rw.Header().Set("Content-Type", "application/json")

	encodeErr := json.NewEncoder(rw).Encode(value)
	if encodeErr != nil {
		slog.Default().ErrorContext(ctx, "failed to encode JSON response", "error", encodeErr)
	}
}
