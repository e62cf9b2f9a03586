package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"llmsvc/internal/llm"
	"llmsvc/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Health() types.HealthResponse
	Generate(ctx context.Context, req types.GenerateRequest) (types.GenerateResponse, error)
	Chat(ctx context.Context, req types.ChatRequest) (*llm.ChatCompletion, error)
	Ready() bool
	Status() types.StatusResponse
	ListModels() ([]types.Model, error)
}

// NewMux builds the router. Package-level settings (CORS, body limit,
// timeout, logger) must be applied before calling it.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         300,
		}))
	}
	r.Use(middleware.Compress(5))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	h := &handlers{svc: svc}
	r.Get("/health", h.health)
	r.Post("/generate", h.generate)
	r.Post("/chat", h.chat)

	r.Get("/healthz", h.healthz)
	r.Get("/readyz", h.readyz)
	r.Get("/status", h.status)
	r.Get("/models", h.models)
	r.Handle("/metrics", promhttp.Handler())

	MountSwagger(r)
	return r
}
