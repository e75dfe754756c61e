package api

import (
	"net/http"
	"time"

	"skyrelief/dispatch/internal/common"
)

// FleetStatsHandler handles GET /api/v1/stats
func FleetStatsHandler(svc StatsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		stats, err := svc.Fleet(r.Context())
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Fleet statistics", stats)
	}
}
