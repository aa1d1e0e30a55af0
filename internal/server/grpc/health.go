// sentiric-softphone-service/internal/server/grpc/health.go
package grpc

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name reported by the standard gRPC health service.
const ServiceName = "sentiric.softphone.v1.SoftphoneService"

// Check probes one dependency (postgres, redis, ...).
type Check func(ctx context.Context) error

// HealthReporter, bağımlılıkları periyodik olarak yoklar ve sonucu gRPC health
// servisine yazar. Aynı yoklama REST /readyz tarafından da kullanılır.
type HealthReporter struct {
	srv      *health.Server
	checks   map[string]Check
	interval time.Duration
	timeout  time.Duration
	log      zerolog.Logger
}

func NewHealthReporter(srv *health.Server, checks map[string]Check, interval time.Duration, log zerolog.Logger) *HealthReporter {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &HealthReporter{
		srv:      srv,
		checks:   checks,
		interval: interval,
		timeout:  3 * time.Second,
		log:      log,
	}
}

// Probe runs every check and joins the failures.
func (h *HealthReporter) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Update yoklamayı bir kez çalıştırır ve durumu yayınlar.
func (h *HealthReporter) Update(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := h.Probe(ctx); err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		h.log.Warn().Err(err).Msg("Bağımlılık yoklaması başarısız")
	}
	if h.srv != nil {
		h.srv.SetServingStatus("", status)
		h.srv.SetServingStatus(ServiceName, status)
	}
	return status
}

// Run, ctx iptal edilene kadar durumu günceller; çıkışta NOT_SERVING yazar.
func (h *HealthReporter) Run(ctx context.Context) {
	h.Update(ctx)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if h.srv != nil {
				h.srv.Shutdown()
			}
			return
		case <-ticker.C:
			h.Update(ctx)
		}
	}
}
