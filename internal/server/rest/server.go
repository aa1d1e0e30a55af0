// sentiric-softphone-service/internal/server/rest/server.go
package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/sentiric/sentiric-softphone-service/internal/auth"
	"github.com/sentiric/sentiric-softphone-service/internal/observability/metrics"
	"github.com/sentiric/sentiric-softphone-service/internal/service/softphone"
)

// ReadinessCheck reports whether the service's dependencies are usable.
type ReadinessCheck func(ctx context.Context) error

// Server, softphone provisioning işlemlerini tek bir dispatch uç noktasından sunar.
type Server struct {
	svc    *softphone.Service
	auth   *auth.JWTManager
	ready  ReadinessCheck
	ops    map[string]operation
	router chi.Router
	log    zerolog.Logger
}

func NewServer(svc *softphone.Service, jwt *auth.JWTManager, allowedOrigins []string, ready ReadinessCheck, log zerolog.Logger) *Server {
	s := &Server{
		svc:    svc,
		auth:   jwt,
		ready:  ready,
		router: chi.NewRouter(),
		log:    log,
	}
	s.ops = s.operations()
	s.setupRoutes(allowedOrigins)
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// HTTPServer wraps the router with the service's timeouts.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func (s *Server) setupRoutes(allowedOrigins []string) {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.HTTPMetricsMiddleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.router.Get("/readyz", s.handleReady)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Post("/softphone", s.handleDispatch)
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type tenantKey struct{}

// TenantFromContext returns the tenant the authenticated session belongs to.
func TenantFromContext(ctx context.Context) (softphone.LocalTenant, bool) {
	t, ok := ctx.Value(tenantKey{}).(softphone.LocalTenant)
	return t, ok
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, http.StatusUnauthorized, "missing authorization header", nil)
			return
		}
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			respondError(w, http.StatusUnauthorized, "invalid authorization header", nil)
			return
		}

		claims, err := s.auth.ValidateToken(token)
		if err != nil {
			s.log.Debug().Err(err).Msg("Token reddedildi")
			respondError(w, http.StatusUnauthorized, "invalid token", nil)
			return
		}
		if !claims.HasPermission(auth.PermissionRingotel) {
			respondError(w, http.StatusForbidden, "permission denied", nil)
			return
		}

		ctx := context.WithValue(r.Context(), tenantKey{}, claims.Tenant())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type errorBody struct {
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string, fault *softphone.RemoteFault) {
	body := errorBody{Message: message}
	if fault != nil {
		body.Code = fault.Code
	}
	respondJSON(w, status, map[string]errorBody{"error": body})
}
