package grpc

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestUpdateReflectsChecks(t *testing.T) {
	srv := health.NewServer()
	redisDown := errors.New("connection refused")
	var failing bool
	h := NewHealthReporter(srv, map[string]Check{
		"postgres": func(context.Context) error { return nil },
		"redis": func(context.Context) error {
			if failing {
				return redisDown
			}
			return nil
		},
	}, 0, zerolog.Nop())

	ctx := context.Background()
	if got := h.Update(ctx); got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("status = %v", got)
	}

	failing = true
	if got := h.Update(ctx); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("status = %v", got)
	}
	resp, err := srv.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if resp.Status != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("published status = %v", resp.Status)
	}

	err = h.Probe(ctx)
	if !errors.Is(err, redisDown) || !strings.HasPrefix(err.Error(), "redis:") {
		t.Errorf("probe = %v", err)
	}
}
