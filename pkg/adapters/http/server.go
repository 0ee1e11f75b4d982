package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes a ports.BlockEngine over HTTP.
type Server struct {
	Engine  ports.BlockEngine
	Streams *StreamManager

	version  string
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithVersion sets the version reported by GET /health.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = strings.TrimSpace(v) }
}

// WithGatherer serves the metrics of g on GET /metrics instead of the default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithLogger sets the request and error logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// Ensure Server implements ServerInterface
var _ ServerInterface = (*Server)(nil)

// NewHandler creates a new HTTP handler for the engine.
// Requests are checked against the embedded OpenAPI document, which is served
// on GET /openapi.yaml and browsable on GET /swagger.
func NewHandler(engine ports.BlockEngine, opts ...Option) http.Handler {
	s := &Server{
		Engine:   engine,
		Streams:  NewStreamManager(),
		gatherer: prometheus.DefaultGatherer,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	doc, err := GetSwagger()
	if err != nil {
		s.logger.Error("OpenAPI document unavailable, requests are not validated", "err", err)
	}
	if s.version == "" {
		s.version = "dev"
		if doc != nil && doc.Info != nil {
			s.version = doc.Info.Version
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(rawSpec())
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	return HandlerFromMux(s, r, doc, s.badRequest)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string               `json:"error"`
	Record *domain.ExportRecord `json:"record,omitempty"`
}

// statusOf maps engine errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrGraphNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotReady), errors.Is(err, domain.ErrNotLinked):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownKind), errors.Is(err, domain.ErrUnknownNode),
		errors.Is(err, domain.ErrUnknownSocket), errors.Is(err, domain.ErrDuplicateNode),
		errors.Is(err, domain.ErrInvalidFileName):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrToolFailed), errors.Is(err, domain.ErrToolNotRegistered):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, op string, err error, rec *domain.ExportRecord) {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err)
	} else {
		s.logger.Warn(op+" rejected", "err", err)
	}
	s.writeJSON(w, code, ErrorResponse{Error: err.Error(), Record: rec})
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn("request rejected", "path", r.URL.Path, "err", err)
	s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"app":     "blocksmith-http",
		"version": s.version,
	})
}

// ListGraphs handles the GET /graphs request.
func (s *Server) ListGraphs(w http.ResponseWriter, r *http.Request) {
	names, err := s.Engine.ListGraphs(r.Context())
	if err != nil {
		s.fail(w, "ListGraphs", err, nil)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, names)
}

// GetGraph handles the GET /graphs/{name} request.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request, name string) {
	doc, err := s.Engine.Graph(r.Context(), name)
	if err != nil {
		s.fail(w, "GetGraph", err, nil)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

// GetStatus handles the GET /graphs/{name}/status request.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request, name string) {
	status, err := s.Engine.Status(r.Context(), name)
	if err != nil {
		s.fail(w, "GetStatus", err, nil)
		return
	}
	s.writeJSON(w, http.StatusOK, status)
}

// ExportGraph handles the POST /graphs/{name}/export request.
// The finished record is broadcast to the subscribers of the graph.
func (s *Server) ExportGraph(w http.ResponseWriter, r *http.Request, name string) {
	rec, err := s.Engine.Export(r.Context(), name)
	if rec != nil {
		if data, mErr := json.Marshal(rec); mErr == nil {
			s.Streams.Broadcast(name, string(data))
		}
	}
	if err != nil {
		s.fail(w, "Export", err, rec)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// StreamManager handles active SSE connections
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // Graph -> Set of Channels
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

func (sm *StreamManager) Subscribe(graph string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[graph]; !ok {
		sm.subscribers[graph] = make(map[chan<- string]struct{})
	}
	sm.subscribers[graph][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[graph]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, graph)
			}
		}
	}
}

func (sm *StreamManager) Broadcast(graph string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[graph] {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			slog.Warn("SSE: Client buffer full, dropping message", "graph", graph)
		}
	}
}

// SubscribeEvents handles the GET /events request (SSE).
// Without a graph parameter it streams reload notifications of a watchable engine.
// With ?graph=name it streams the export records of that graph.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request, params SubscribeEventsParams) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	var events <-chan string
	if params.Graph == nil {
		watchable, ok := s.Engine.(ports.Watchable)
		if !ok {
			http.Error(w, "Engine does not support watching", http.StatusNotImplemented)
			return
		}
		changes, err := watchable.Watch(r.Context())
		if err != nil {
			http.Error(w, fmt.Sprintf("Watch error: %v", err), http.StatusInternalServerError)
			return
		}
		events = reloads(r.Context(), changes)
	} else {
		ch, cancel := s.Streams.Subscribe(*params.Graph)
		defer cancel()
		events = ch
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func reloads(ctx context.Context, changes <-chan struct{}) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		for range changes {
			select {
			case out <- "reload":
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
