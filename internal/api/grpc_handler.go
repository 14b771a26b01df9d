package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const (
	dbStatusHealthy   = "healthy"
	dbStatusUnhealthy = "unhealthy"
)

// Pinger is the database probe used by the health checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus is the body of GET /api/healthz.
type HealthStatus struct {
	Status      string `json:"status"`
	ServiceName string `json:"serviceName"`
	Timestamp   string `json:"timestamp"`
	Database    string `json:"database"`
}

// HealthReporter implements the gRPC health checking protocol on top of the
// database probe. Every Check re-probes the database so that gRPC and HTTP
// report the same state.
type HealthReporter struct {
	*health.Server

	db          Pinger
	serviceName string
	timeout     time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// NewHealthReporter creates a HealthReporter that starts out SERVING.
func NewHealthReporter(db Pinger, serviceName string, logger zerolog.Logger) *HealthReporter {
	hr := &HealthReporter{
		Server:      health.NewServer(),
		db:          db,
		serviceName: serviceName,
		timeout:     2 * time.Second,
		logger:      logger.With().Str("component", "health").Logger(),
		now:         time.Now,
	}
	hr.SetServingStatus(serviceName, grpc_health_v1.HealthCheckResponse_SERVING)
	return hr
}

// Probe pings the database and updates the gRPC serving status of both the
// overall server ("") and the named service.
func (hr *HealthReporter) Probe(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, hr.timeout)
	defer cancel()

	dbStatus := dbStatusHealthy
	serving := grpc_health_v1.HealthCheckResponse_SERVING
	if err := hr.db.Ping(ctx); err != nil {
		hr.logger.Warn().Err(err).Msg("health check DB ping failed")
		dbStatus = dbStatusUnhealthy
		serving = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	hr.SetServingStatus("", serving)
	hr.SetServingStatus(hr.serviceName, serving)

	return HealthStatus{
		Status:      "healthy",
		ServiceName: hr.serviceName,
		Timestamp:   hr.now().UTC().Format(time.RFC3339),
		Database:    dbStatus,
	}
}

// Check implements grpc_health_v1.HealthServer.
func (hr *HealthReporter) Check(ctx context.Context, req *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	hr.Probe(ctx)
	return hr.Server.Check(ctx, req)
}

// Register attaches the health service and server reflection to s.
func (hr *HealthReporter) Register(s *grpc.Server) {
	grpc_health_v1.RegisterHealthServer(s, hr)
	hr.logger.Info().Msg("gRPC health check service registered.")

	// Enable gRPC server reflection (useful for tools like grpcurl).
	reflection.Register(s)
	hr.logger.Info().Msg("gRPC reflection service registered.")
}
