package api

import (
	"context"
	"net/http"

	"github.com/okian/solhttp/internal/domain/types"
	"github.com/okian/solhttp/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	apiName        = "Solana HTTP Server"
	apiDescription = "HTTP API for Solana keypairs, message signing and instruction building"
	healthMessage  = "Solana HTTP Server is running healthy"
)

// HealthProvider reports service health.
type HealthProvider interface {
	Health(ctx context.Context) types.Health
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	deps HealthProvider
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps HealthProvider) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// HandleHealth handles GET /health requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeOK(w, h.deps.Health(r.Context()), healthMessage)
}

// NewMetricsHandler serves the service's own metrics registry.
func NewMetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}

// InfoHandler serves the API description at GET /.
type InfoHandler struct {
	info types.APIInfo
}

// NewInfoHandler creates a new info handler.
func NewInfoHandler(version string, endpoints []types.EndpointInfo) *InfoHandler {
	return &InfoHandler{info: types.APIInfo{
		Name:        apiName,
		Description: apiDescription,
		Version:     version,
		Endpoints:   endpoints,
	}}
}

// HandleInfo handles GET / requests.
func (h *InfoHandler) HandleInfo(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, h.info, "Welcome to the "+apiName)
}
