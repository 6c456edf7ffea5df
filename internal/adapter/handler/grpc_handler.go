package handler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// HealthCheck is one dependency probed by the gRPC health handler.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// GRPCHealthHandler serves grpc.health.v1 for a service and keeps its status
// in line with the dependency checks.
type GRPCHealthHandler struct {
	server  *health.Server
	service string
	checks  []HealthCheck
	log     *logrus.Entry
}

func NewGRPCHealthHandler(service string, log *logrus.Entry, checks ...HealthCheck) *GRPCHealthHandler {
	h := &GRPCHealthHandler{
		server:  health.NewServer(),
		service: service,
		checks:  checks,
		log:     log,
	}
	h.setStatus(grpc_health_v1.HealthCheckResponse_SERVING)
	return h
}

func (h *GRPCHealthHandler) Register(s *grpc.Server) {
	grpc_health_v1.RegisterHealthServer(s, h.server)
}

// Probe runs every check once and reports whether all of them passed.
func (h *GRPCHealthHandler) Probe(ctx context.Context) bool {
	healthy := true
	for _, c := range h.checks {
		checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := c.Check(checkCtx)
		cancel()

		if err != nil {
			h.log.WithError(err).WithField("check", c.Name).Warn("health check failed")
			healthy = false
		}
	}

	if healthy {
		h.setStatus(grpc_health_v1.HealthCheckResponse_SERVING)
	} else {
		h.setStatus(grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	}
	return healthy
}

// Run probes on every tick until ctx is done.
func (h *GRPCHealthHandler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Probe(ctx)
		}
	}
}

// Shutdown marks everything NOT_SERVING ahead of GracefulStop.
func (h *GRPCHealthHandler) Shutdown() {
	h.server.Shutdown()
}

func (h *GRPCHealthHandler) setStatus(status grpc_health_v1.HealthCheckResponse_ServingStatus) {
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(h.service, status)
}
