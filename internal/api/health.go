package api

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is reported by the health endpoints.
const ServiceName = "StorefrontService"

const pingTimeout = 2 * time.Second

// Pinger reports whether storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck serves GET /api/v1/healthz. It answers 503 while storage is down.
func HealthCheck(p Pinger, logger logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		code, status, storage := http.StatusOK, "healthy", "healthy"
		if err := p.Ping(ctx); err != nil {
			logger.WithError(err).Warn("health check storage ping failed")
			code, status, storage = http.StatusServiceUnavailable, "degraded", "unhealthy"
		}
		respondWithJSON(logger, w, code, map[string]string{
			"status":      status,
			"serviceName": ServiceName,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"storage":     storage,
		})
	}
}

// HealthReporter keeps the gRPC health service in line with storage reachability.
type HealthReporter struct {
	server   *health.Server
	pinger   Pinger
	interval time.Duration
	log      *logrus.Entry
}

func NewHealthReporter(server *health.Server, p Pinger, interval time.Duration, logger *logrus.Logger) *HealthReporter {
	return &HealthReporter{
		server:   server,
		pinger:   p,
		interval: interval,
		log:      logger.WithField("component", "grpc-health"),
	}
}

// Check pings storage once and publishes the result for both the overall server
// and ServiceName.
func (h *HealthReporter) Check(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	status := grpc_health_v1.HealthCheckResponse_SERVING
	if err := h.pinger.Ping(ctx); err != nil {
		h.log.WithError(err).Warn("storage unreachable")
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(ServiceName, status)
	return status
}

// Run checks on every tick until ctx is done, then marks the server as shutting down.
func (h *HealthReporter) Run(ctx context.Context) {
	h.Check(ctx)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.server.Shutdown()
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}
