package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mlxd/internal/registry"
	"mlxd/internal/session"
	"mlxd/pkg/types"
)

// Service defines the methods required by the HTTP API layer. Implemented by
// *registry.Registry.
type Service interface {
	Acquire(ctx context.Context, id string, kind types.ModelKind) (*registry.Handle, error)
	Preload(ctx context.Context, id string, kind types.ModelKind) error
	List() []types.ResidentModel
	Evict(id string) bool
	Architectures() []types.Architecture
	Status() types.StatusResponse
	Ready() bool
}

// NewMux builds the router: the OpenAI-compatible chat/model surface plus the
// operational endpoints.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Post("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		handleChatCompletion(svc, w, r)
	})

	r.Get("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		handleListModels(svc, w)
	})
	r.Post("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		handleAddModel(svc, w, r)
	})
	r.Delete("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		handleRemoveModel(svc, w, r)
	})
	r.Get("/v1/supported_models", func(w http.ResponseWriter, r *http.Request) {
		handleSupportedModels(svc, w)
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Status())
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// handleChatCompletion serves POST /v1/chat/completions for both streaming
// and non-streaming modes.
//
// @Summary      Create a chat completion
// @Accept       json
// @Produce      json
// @Param        request body types.ChatCompletionRequest true "Chat completion request"
// @Success      200 {object} types.ChatCompletionResponse
// @Failure      400 {object} types.ErrorResponse
// @Failure      409 {object} types.ErrorResponse
// @Router       /v1/chat/completions [post]
func handleChatCompletion(svc Service, w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, kindValidation, "Content-Type must be application/json")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req types.ChatCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, kindValidation, "invalid JSON body")
		return
	}

	kind, err := session.Classify(req)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	lvl := requestLogLevel(r)
	start := time.Now()
	logChatStart(r, req.Model, lvl)

	// Join server base context with request context so shutdown cancels
	// in-flight generation too.
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()

	h, err := svc.Acquire(ctx, req.Model, kind)
	if err != nil {
		status := writeCoreError(w, err)
		logChatEnd(r, status, start, err, lvl)
		return
	}
	defer h.Release()

	sess := session.New(h, req)
	fr := session.NewFramer(req.Model)

	if req.Stream {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		var flush func()
		if f, ok := w.(http.Flusher); ok {
			flush = f.Flush
		}
		writer := io.Writer(w)
		if lvl >= LevelDebug {
			writer = io.MultiWriter(w, &loggingLineWriter{})
		}
		if err := fr.Stream(ctx, writer, flush, sess); err != nil {
			// Client disconnect or shutdown: nothing more to write.
			// Generation errors were already framed as a terminal chunk.
			logChatEnd(r, http.StatusOK, start, err, lvl)
			return
		}
		logChatEnd(r, http.StatusOK, start, nil, lvl)
		return
	}

	resp, err := fr.Collect(ctx, sess)
	if err != nil {
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			return
		}
		status := writeCoreError(w, err)
		logChatEnd(r, status, start, err, lvl)
		return
	}
	writeJSON(w, resp)
	logChatEnd(r, http.StatusOK, start, nil, lvl)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, kindInternal, "failed to encode response")
	}
}

func logChatStart(r *http.Request, model string, lvl LogLevel) {
	if lvl < LevelInfo {
		return
	}
	if zlog != nil {
		z := zlog.Info().Str("path", r.URL.Path).Str("model", model)
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			z = z.Str("request_id", rid)
		}
		z.Msg("chat start")
		return
	}
	log.Printf("chat start path=%s model=%s", r.URL.Path, model)
}

func logChatEnd(r *http.Request, status int, start time.Time, err error, lvl LogLevel) {
	if lvl < LevelInfo {
		return
	}
	if zlog != nil {
		z := zlog.Info().Int("status", status).Dur("dur", time.Since(start))
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			z = z.Str("request_id", rid)
		}
		if err != nil {
			z = z.Err(err)
		}
		z.Msg("chat end")
		return
	}
	log.Printf("chat end status=%d dur=%s err=%v", status, time.Since(start), err)
}
