package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sessiond/internal/lifecycle"
	"sessiond/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Initialize(ctx context.Context, modelID string) bool
	InitError() error
	Generate(ctx context.Context, req types.GenerateRequest) (types.GenerateResponse, error)
	ResetChat(ctx context.Context)
	Status() types.StatusResponse
	Probe() types.SystemInfo
	InitProgress() types.InitProgress
	Ready() bool
	Subscribe() (<-chan lifecycle.Snapshot, func())
}

// NewMux builds the HTTP handler over svc.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	r.Use(requestLogger)
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}

	// Initialize godoc
	// @Summary     Initialize the inference session
	// @Accept      json
	// @Produce     json
	// @Param       request body types.InitializeRequest false "Optional model selection"
	// @Success     200 {object} types.InitializeResponse
	// @Failure     500 {object} types.InitializeResponse
	// @Failure     503 {object} types.InitializeResponse
	// @Router      /initialize [post]
	r.Post("/initialize", func(w http.ResponseWriter, r *http.Request) {
		var req types.InitializeRequest
		if r.Body != nil && r.ContentLength != 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
		}
		joined, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		ok := svc.Initialize(joined, req.Model)
		resp := types.InitializeResponse{Initialized: ok, InitProgress: svc.InitProgress()}
		status := http.StatusOK
		if !ok {
			// Branch on the typed cause, not message text.
			status = failureStatus(svc.InitError())
		}
		writeJSON(w, status, resp)
	})

	// Generate godoc
	// @Summary     Run one completion against the live session
	// @Accept      json
	// @Produce     json
	// @Param       request body types.GenerateRequest true "Generation request"
	// @Success     200 {object} types.GenerateResponse
	// @Failure     400 {object} types.ErrorResponse
	// @Failure     409 {object} types.GenerateResponse
	// @Failure     500 {object} types.GenerateResponse
	// @Router      /generate [post]
	r.Post("/generate", func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Prompt) == "" {
			writeJSONError(w, http.StatusBadRequest, "prompt is required")
			return
		}
		joined, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		resp, err := svc.Generate(joined, req)
		status := http.StatusOK
		if err != nil {
			// Branch on the typed cause, not message text.
			status = failureStatus(err)
		}
		writeJSON(w, status, resp)
	})

	// Reset godoc
	// @Summary     Reset the engine's conversation state (best effort)
	// @Success     204
	// @Router      /reset [post]
	r.Post("/reset", func(w http.ResponseWriter, r *http.Request) {
		joined, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		svc.ResetChat(joined)
		w.WriteHeader(http.StatusNoContent)
	})

	// Status godoc
	// @Summary     Full manager snapshot
	// @Produce     json
	// @Success     200 {object} types.StatusResponse
	// @Router      /status [get]
	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Status())
	})

	// Probe godoc
	// @Summary     Host capability snapshot (runs the probe if needed)
	// @Produce     json
	// @Success     200 {object} types.SystemInfo
	// @Router      /probe [get]
	r.Get("/probe", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Probe())
	})

	r.Get("/events", eventsHandler(svc))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("initializing"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
