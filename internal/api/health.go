package api

import (
	"context"
	"net/http"
	"time"

	"skyrelief/dispatch/internal/common"
	"skyrelief/dispatch/internal/constants"
	"skyrelief/dispatch/internal/models/dtos"
)

// Pinger is anything the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

const healthProbeTimeout = 2 * time.Second

// HealthCheckHandler handles GET /health
//
// Every probe must answer for the service to report ok. A failing probe
// turns the response into a 503 so load balancers can act on it.
func HealthCheckHandler(probes map[string]Pinger, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		services := make(map[string]dtos.ServiceStatus, len(probes))
		overallStatus := "ok"

		for name, p := range probes {
			ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
			err := p.Ping(ctx)
			cancel()

			status := dtos.ServiceStatus{Status: "ok", Details: "reachable"}
			if err != nil {
				status = dtos.ServiceStatus{Status: "down", Details: err.Error()}
				overallStatus = "down"
			}
			services[name] = status
		}

		resp := dtos.HealthCheckResponse{
			Status:   overallStatus,
			Uptime:   time.Since(upSince).Round(time.Second).String(),
			Services: services,
		}

		code := http.StatusOK
		if overallStatus != "ok" {
			code = http.StatusServiceUnavailable
		}
		common.RespondSuccess(w, initTime, "Health check", resp, code)
	}
}

// RootHandler handles GET /
func RootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		common.RespondSuccess(w, time.Now(), constants.ServiceName, dtos.RootResponse{
			Message: constants.ServiceName + " is running",
			Version: constants.ServiceVersion,
			Health:  "/health",
		})
	}
}
