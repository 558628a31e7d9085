package handler

import (
	"net/http"
	"time"

	"github.com/agentcart/agentcart/internal/httputil"
	"github.com/agentcart/agentcart/internal/logging"
	"github.com/agentcart/agentcart/internal/svc"
	"github.com/agentcart/agentcart/internal/types"
)

// Version is stamped at build time via
// -ldflags "-X github.com/agentcart/agentcart/internal/handler.Version=v1.2.3".
var Version = "dev"

// HealthCheckHandler reports liveness plus cache-store readiness: a healthy
// process with an unreachable store answers "degraded", still with 200 so
// probes distinguish degraded from down.
func HealthCheckHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "healthy"
		if svcCtx.DB != nil {
			if err := svcCtx.DB.Ping(r.Context()); err != nil {
				logging.Errorf("Health check: cache store unreachable: %v", err)
				status = "degraded"
			}
		}

		httputil.OkJSON(w, &types.HealthResponse{
			Status:    status,
			Version:   Version,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}
