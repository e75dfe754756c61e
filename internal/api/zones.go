package api

import (
	"net/http"
	"strconv"
	"time"

	"skyrelief/dispatch/internal/common"
	"skyrelief/dispatch/internal/constants"
	"skyrelief/dispatch/internal/db/repositories"
	"skyrelief/dispatch/internal/models/dtos"

	"github.com/go-chi/chi/v5"
)

// CreateZoneHandler handles POST /api/v1/zones
func CreateZoneHandler(svc ZoneService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CreateZoneRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		z, err := svc.Create(r.Context(), req)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Zone created", dtos.NewZoneResponse(z), http.StatusCreated)
	}
}

// ListZonesHandler handles GET /api/v1/zones
func ListZonesHandler(svc ZoneService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var (
			f   repositories.ZoneFilter
			err error
		)
		if f.Page, err = parsePage(r); err == nil {
			if f.RiskLevel, err = queryRiskLevel(r, "risk_level"); err == nil {
				f.ZoneType, err = queryEnum[constants.ZoneType](r, "zone_type")
			}
		}
		if err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		zones, err := svc.List(r.Context(), f)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Zones fetched", dtos.NewZoneResponses(zones))
	}
}

// ZonesByRiskHandler handles GET /api/v1/zones/risk/{level}
func ZonesByRiskHandler(svc ZoneService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		level, err := strconv.Atoi(chi.URLParam(r, "level"))
		if err != nil {
			respondBadRequest(w, initTime, "level must be an integer")
			return
		}

		page, err := parsePage(r)
		if err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		zones, err := svc.ByRiskLevel(r.Context(), level, page)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Zones fetched", dtos.NewZoneResponses(zones))
	}
}

// GetZoneHandler handles GET /api/v1/zones/{id}
func GetZoneHandler(svc ZoneService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		id, err := pathID(r, "id")
		if err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		z, err := svc.Get(r.Context(), id)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Zone fetched", dtos.NewZoneResponse(z))
	}
}

// UpdateZoneHandler handles PATCH /api/v1/zones/{id}
func UpdateZoneHandler(svc ZoneService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		id, err := pathID(r, "id")
		if err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		var req dtos.UpdateZoneRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		z, err := svc.Update(r.Context(), id, req)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Zone updated", dtos.NewZoneResponse(z))
	}
}

// DeleteZoneHandler handles DELETE /api/v1/zones/{id}
func DeleteZoneHandler(svc ZoneService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		id, err := pathID(r, "id")
		if err != nil {
			respondBadRequest(w, initTime, err.Error())
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
