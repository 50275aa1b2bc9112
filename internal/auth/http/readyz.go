package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bookeez/accounts/internal/auth/service"
	"github.com/bookeez/accounts/internal/auth/store"
	"github.com/bookeez/accounts/pkg/authsdk"
	"github.com/bookeez/accounts/pkg/httpx"
	"github.com/bookeez/accounts/pkg/slogx"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness check endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, store connectivity and push queue depth
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	queue QueueStats,
	timeout time.Duration,
) http.HandlerFunc {
	if timeout <= 0 {
		timeout = service.DefaultStoreTimeout
	}
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &authsdk.HealthChecks{
			Database: "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		// Check database connectivity
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		err := st.Ping(ctx)
		cancel()
		if err != nil {
			slogx.FromContext(r.Context()).Warn("store ping failed", "err", err)
			checks.Database = "error: unreachable"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if queue != nil {
			checks.Notifier = fmt.Sprintf("ok (%d pending)", queue.Pending())
		}

		response := authsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}
